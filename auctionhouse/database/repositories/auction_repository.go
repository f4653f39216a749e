// Package repositories holds the bun-backed storage implementations.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/streamlot/streamlot/auctionhouse/auction"
	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// AuctionRepository is the Postgres auction store. WithAuctionLock maps
// the engine's per-auction critical section onto a transaction holding
// SELECT ... FOR UPDATE on the auction row, so concurrent bids, closes and
// cancels for one auction serialize at the database.
type AuctionRepository struct {
	db *bun.DB
}

func NewAuctionRepository(db *bun.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func (r *AuctionRepository) DB() *bun.DB {
	return r.db
}

func (r *AuctionRepository) CreateAuction(ctx context.Context, a *models.Auction) error {
	_, err := r.db.NewInsert().Model(a).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert auction: %w", err)
	}
	return nil
}

func (r *AuctionRepository) GetAuction(ctx context.Context, id int64) (*models.Auction, error) {
	a := new(models.Auction)
	err := r.db.NewSelect().
		Model(a).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("auction %d: %w", id, auction.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get auction %d: %w", id, err)
	}
	return a, nil
}

func (r *AuctionRepository) HasOpenAuctionForProduct(ctx context.Context, productID int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.Auction)(nil)).
		Where("product_id = ?", productID).
		Where("status IN (?)", bun.In([]models.AuctionStatus{
			models.AuctionStatusPending,
			models.AuctionStatusActive,
		})).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check open auctions for product %d: %w", productID, err)
	}
	return exists, nil
}

func (r *AuctionRepository) WithAuctionLock(ctx context.Context, auctionID int64, fn func(ctx context.Context, tx auction.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	a := new(models.Auction)
	err = tx.NewSelect().
		Model(a).
		Where("id = ?", auctionID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("auction %d: %w", auctionID, auction.ErrNotFound)
		}
		return fmt.Errorf("failed to lock auction %d: %w", auctionID, err)
	}

	if err := fn(ctx, &lockedTx{tx: tx, auction: a}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit auction %d transaction: %w", auctionID, err)
	}
	return nil
}

// ExpiredAuctionIDs claims expired active auctions with SKIP LOCKED, so a
// sweep never queues up behind a timer already closing the same auction.
func (r *AuctionRepository) ExpiredAuctionIDs(ctx context.Context, now time.Time) ([]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var ids []int64
	err = tx.NewSelect().
		Model((*models.Auction)(nil)).
		Column("id").
		Where("status = ?", models.AuctionStatusActive).
		Where("end_time <= ?", now).
		For("UPDATE SKIP LOCKED").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to scan expired auctions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expired auction scan: %w", err)
	}
	return ids, nil
}

func (r *AuctionRepository) ActiveAuctions(ctx context.Context) ([]*models.Auction, error) {
	var auctions []*models.Auction
	err := r.db.NewSelect().
		Model(&auctions).
		Where("status = ?", models.AuctionStatusActive).
		Order("end_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active auctions: %w", err)
	}
	return auctions, nil
}

// AuctionFilter narrows ListAuctions. Zero values mean no constraint.
type AuctionFilter struct {
	Status    models.AuctionStatus
	ProductID int64
	StreamID  int64
	Limit     int
	Offset    int
}

func (r *AuctionRepository) ListAuctions(ctx context.Context, f AuctionFilter) ([]*models.Auction, error) {
	var auctions []*models.Auction
	q := r.db.NewSelect().Model(&auctions)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ProductID != 0 {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.StreamID != 0 {
		q = q.Where("stream_id = ?", f.StreamID)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q = q.Order("created_at DESC").Limit(limit)
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	return auctions, nil
}

func (r *AuctionRepository) AuctionBids(ctx context.Context, auctionID int64) ([]*models.Bid, error) {
	var bids []*models.Bid
	err := r.db.NewSelect().
		Model(&bids).
		Where("auction_id = ?", auctionID).
		Where("NOT is_cancelled").
		Order("bid_time DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bids for auction %d: %w", auctionID, err)
	}
	return bids, nil
}

func (r *AuctionRepository) BidderBids(ctx context.Context, bidderID int64) ([]*models.Bid, error) {
	var bids []*models.Bid
	err := r.db.NewSelect().
		Model(&bids).
		Where("bidder_id = ?", bidderID).
		Order("bid_time DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bids for user %d: %w", bidderID, err)
	}
	return bids, nil
}

// lockedTx is the critical section handle passed to engine callbacks. All
// statements run on the transaction that holds the row lock.
type lockedTx struct {
	tx      bun.Tx
	auction *models.Auction
}

func (t *lockedTx) Auction() *models.Auction {
	return t.auction
}

func (t *lockedTx) InsertBid(ctx context.Context, b *models.Bid) error {
	_, err := t.tx.NewInsert().Model(b).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}
	return nil
}

func (t *lockedTx) EligibleBids(ctx context.Context) ([]*models.Bid, error) {
	var bids []*models.Bid
	err := t.tx.NewSelect().
		Model(&bids).
		Where("auction_id = ?", t.auction.ID).
		Where("NOT is_cancelled").
		Order("amount DESC", "bid_time ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get eligible bids: %w", err)
	}
	return bids, nil
}

func (t *lockedTx) MarkBidWinning(ctx context.Context, bidID int64) error {
	_, err := t.tx.NewUpdate().
		Model((*models.Bid)(nil)).
		Set("is_winning = true").
		Where("id = ?", bidID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark bid %d winning: %w", bidID, err)
	}
	return nil
}

func (t *lockedTx) UpdateAuction(ctx context.Context) error {
	_, err := t.tx.NewUpdate().
		Model(t.auction).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update auction %d: %w", t.auction.ID, err)
	}
	return nil
}

func (t *lockedTx) CreateOrder(ctx context.Context, o *models.Order) error {
	_, err := t.tx.NewInsert().Model(o).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (t *lockedTx) SetProductActive(ctx context.Context, productID int64, active bool) error {
	_, err := t.tx.NewUpdate().
		Model((*models.Product)(nil)).
		Set("is_active = ?", active).
		Where("id = ?", productID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set product %d active=%v: %w", productID, active, err)
	}
	return nil
}
