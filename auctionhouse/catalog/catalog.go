// Package catalog exposes the product and stream collaborators the auction
// engine consults for ownership and eligibility. The engine only ever sees
// opaque ids plus the few fields below; everything else about products and
// streams belongs to other services.
package catalog

import (
	"context"
	"errors"

	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// ErrNotFound is returned when the referenced product or stream is unknown.
var ErrNotFound = errors.New("catalog: not found")

type ProductInfo struct {
	ID       int64
	OwnerID  int64
	IsActive bool
}

type StreamInfo struct {
	ID      int64
	OwnerID int64
	Status  models.StreamStatus
}

// Accepting reports whether auctions may be created for the stream.
func (s StreamInfo) Accepting() bool {
	return s.Status == models.StreamStatusLive || s.Status == models.StreamStatusScheduled
}

type ProductDirectory interface {
	Product(ctx context.Context, id int64) (ProductInfo, error)
}

type StreamDirectory interface {
	Stream(ctx context.Context, id int64) (StreamInfo, error)
}
