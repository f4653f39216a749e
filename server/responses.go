package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/streamlot/streamlot/auctionhouse/auction"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return c.Status(http.StatusOK).JSON(SuccessResponse{Success: true, Data: data})
}

func SendCreated(c *fiber.Ctx, data interface{}) error {
	return c.Status(http.StatusCreated).JSON(SuccessResponse{Success: true, Data: data})
}

func SendError(c *fiber.Ctx, statusCode int, code, message string) error {
	return c.Status(statusCode).JSON(ErrorResponse{
		Success: false,
		Error:   ErrorBody{Code: code, Message: message},
	})
}

// SendEngineError maps the engine's error taxonomy onto HTTP statuses.
func SendEngineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auction.ErrNotFound):
		return SendError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, auction.ErrForbidden):
		return SendError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, auction.ErrInvalidState):
		return SendError(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, auction.ErrBidTooLow):
		return SendError(c, http.StatusUnprocessableEntity, "BID_TOO_LOW", err.Error())
	case errors.Is(err, auction.ErrAuctionClosed):
		return SendError(c, http.StatusGone, "AUCTION_CLOSED", err.Error())
	case errors.Is(err, auction.ErrInvalidInput):
		return SendError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		return SendError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
	}
}
