package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, 100*time.Millisecond)

	for i := 0; i < 3; i++ {
		if !rl.Allow("user-1") {
			t.Fatalf("request %d denied inside the limit", i+1)
		}
	}
	if rl.Allow("user-1") {
		t.Fatal("request over the limit was allowed")
	}

	// Another key has its own budget.
	if !rl.Allow("user-2") {
		t.Fatal("independent key denied")
	}

	// The window slides.
	time.Sleep(120 * time.Millisecond)
	if !rl.Allow("user-1") {
		t.Fatal("request denied after the window passed")
	}
}

func TestRequireUser(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", RequireUser(), func(c *fiber.Ctx) error {
		return SendSuccess(c, requestUserID(c))
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid user id", header: "42", wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "non-numeric header", header: "bob", wantStatus: http.StatusUnauthorized},
		{name: "non-positive id", header: "-1", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(userIDHeader, tt.header)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(2, time.Minute))
	app.Get("/", func(c *fiber.Ctx) error { return SendSuccess(c, nil) })

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(userIDHeader, "7")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, resp.StatusCode)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(userIDHeader, "7")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status over limit = %d, want 429", resp.StatusCode)
	}
}
