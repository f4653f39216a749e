package auction

import (
	"context"
	"time"

	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// Store is the engine's view of durable auction storage. The Postgres
// implementation lives in database/repositories; tests use an in-memory
// fake with the same locking semantics.
type Store interface {
	// CreateAuction persists a new pending auction.
	CreateAuction(ctx context.Context, a *models.Auction) error

	// GetAuction returns the auction or ErrNotFound. Read-only, no lock.
	GetAuction(ctx context.Context, id int64) (*models.Auction, error)

	// HasOpenAuctionForProduct reports whether the product is already
	// referenced by a pending or active auction.
	HasOpenAuctionForProduct(ctx context.Context, productID int64) (bool, error)

	// WithAuctionLock runs fn with an exclusive lock on the auction row.
	// All writes made through the Tx commit together when fn returns nil
	// and roll back together when it returns an error. Every mutation of
	// an existing auction goes through here; it is the engine's sole
	// defense against lost updates and double closure.
	WithAuctionLock(ctx context.Context, auctionID int64, fn func(ctx context.Context, tx Tx) error) error

	// ExpiredAuctionIDs returns ids of active auctions whose end_time has
	// passed. Used by the closure sweep and the startup recovery pass.
	ExpiredAuctionIDs(ctx context.Context, now time.Time) ([]int64, error)

	// ActiveAuctions returns all active auctions, for timer recovery.
	ActiveAuctions(ctx context.Context) ([]*models.Auction, error)
}

// Tx is the locked critical section on one auction. Auction() returns the
// row as read under the lock; mutations to it are persisted by
// UpdateAuction.
type Tx interface {
	Auction() *models.Auction

	InsertBid(ctx context.Context, b *models.Bid) error

	// EligibleBids returns the auction's non-cancelled bids.
	EligibleBids(ctx context.Context) ([]*models.Bid, error)

	MarkBidWinning(ctx context.Context, bidID int64) error

	UpdateAuction(ctx context.Context) error

	CreateOrder(ctx context.Context, o *models.Order) error

	SetProductActive(ctx context.Context, productID int64, active bool) error
}
