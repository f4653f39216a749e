package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/streamlot/streamlot/auctionhouse/auction"
)

func TestSendEngineError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "not found", err: fmt.Errorf("auction 1: %w", auction.ErrNotFound), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "forbidden", err: auction.ErrForbidden, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "invalid state", err: auction.ErrInvalidState, wantStatus: http.StatusConflict, wantCode: "INVALID_STATE"},
		{name: "bid too low", err: fmt.Errorf("bid must be at least 10.01: %w", auction.ErrBidTooLow), wantStatus: http.StatusUnprocessableEntity, wantCode: "BID_TOO_LOW"},
		{name: "auction closed", err: auction.ErrAuctionClosed, wantStatus: http.StatusGone, wantCode: "AUCTION_CLOSED"},
		{name: "invalid input", err: auction.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT"},
		{name: "unknown error", err: fmt.Errorf("connection reset"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return SendEngineError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			body, _ := io.ReadAll(resp.Body)
			var er ErrorResponse
			if err := json.Unmarshal(body, &er); err != nil {
				t.Fatalf("response does not decode: %v", err)
			}
			if er.Success {
				t.Error("error response has success=true")
			}
			if er.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", er.Error.Code, tt.wantCode)
			}
		})
	}
}
