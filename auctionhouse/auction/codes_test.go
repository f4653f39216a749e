package auction

import (
	"testing"
)

func TestCodeGeneratorNext(t *testing.T) {
	g := NewCodeGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := g.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if len(code) != codeLength {
			t.Fatalf("Next() code %q length = %d, want %d", code, len(code), codeLength)
		}
		for _, r := range code {
			if !(r >= 'A' && r <= 'Z' || r >= '2' && r <= '7') {
				t.Fatalf("Next() code %q contains non-base32 rune %q", code, r)
			}
		}
		if seen[code] {
			t.Fatalf("Next() repeated code %q", code)
		}
		seen[code] = true
	}
}
