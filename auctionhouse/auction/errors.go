package auction

import "errors"

// Validation failures are returned as typed errors so callers can map them
// to a transport-level response. Anything not wrapping one of these is a
// storage or infrastructure failure and should be treated as transient.
var (
	// ErrNotFound means the auction, product or stream does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the actor lacks authority for the action, e.g.
	// a seller bidding on their own auction.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState means the operation is illegal for the auction's
	// current status, e.g. activating a cancelled auction.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidInput means a malformed amount or duration.
	ErrInvalidInput = errors.New("invalid input")

	// ErrBidTooLow means the bid is below the required minimum.
	ErrBidTooLow = errors.New("bid too low")

	// ErrAuctionClosed means a bid arrived after expiry or after the
	// auction reached a terminal state.
	ErrAuctionClosed = errors.New("auction closed")
)
