package auction

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
)

const (
	codeLength      = 6
	codeGenAttempts = 5
)

// CodeGenerator issues short uppercase auction codes for logs, events and
// support conversations. Codes are random; the process-local used set plus
// the unique column constraint keep them collision-free.
type CodeGenerator struct {
	used sync.Map
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

func (g *CodeGenerator) Next() (string, error) {
	for i := 0; i < codeGenAttempts; i++ {
		buf := make([]byte, 4)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}

		encoded := base32.StdEncoding.EncodeToString(buf)
		code := strings.ToUpper(encoded[:codeLength])

		if _, exists := g.used.LoadOrStore(code, true); !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique auction code after %d attempts", codeGenAttempts)
}
