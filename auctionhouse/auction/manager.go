// Package auction implements the live-auction engine: bid admission,
// lifecycle transitions, winner resolution and order emission. Every
// mutation of an auction runs under that auction's exclusive row lock, so
// concurrent bidders and the closure path serialize on a single point.
package auction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/streamlot/streamlot/auctionhouse/catalog"
	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// Policy holds the bidding business rules that are configuration, not
// structure: the minimum increment over the current price and the allowed
// auction duration range.
type Policy struct {
	MinIncrement    decimal.Decimal
	DefaultDuration time.Duration
	MinDuration     time.Duration
	MaxDuration     time.Duration
}

// closeScheduler is what the manager needs from the scheduler: a timer
// armed for the auction's deadline. The concrete scheduler also runs the
// recovery sweep.
type closeScheduler interface {
	ScheduleClose(auctionID int64, endTime time.Time)
}

type Manager struct {
	store     Store
	products  catalog.ProductDirectory
	streams   catalog.StreamDirectory
	notifier  *Notifier
	orders    *OrderEmitter
	codes     *CodeGenerator
	policy    Policy
	scheduler closeScheduler
	now       func() time.Time
}

func NewManager(store Store, products catalog.ProductDirectory, streams catalog.StreamDirectory, notifier *Notifier, policy Policy) *Manager {
	if store == nil {
		panic("auction store cannot be nil")
	}
	if products == nil {
		panic("product directory cannot be nil")
	}
	if notifier == nil {
		notifier = NewNotifier(nil, "")
	}
	return &Manager{
		store:    store,
		products: products,
		streams:  streams,
		notifier: notifier,
		orders:   NewOrderEmitter(),
		codes:    NewCodeGenerator(),
		policy:   policy,
		now:      time.Now,
	}
}

// SetScheduler wires the closure scheduler after construction; the
// scheduler itself needs the manager to exist first.
func (m *Manager) SetScheduler(s closeScheduler) {
	m.scheduler = s
}

type CreateParams struct {
	ProductID     int64
	SellerID      int64
	StreamID      *int64
	StartingPrice decimal.Decimal
	ReservePrice  decimal.NullDecimal
	Duration      time.Duration
}

// Create registers a new pending auction for a product the seller owns.
// The product must be active and not already referenced by a pending or
// active auction; a linked stream must belong to the seller and be live or
// scheduled.
func (m *Manager) Create(ctx context.Context, p CreateParams) (*models.Auction, error) {
	if !validMoney(p.StartingPrice) {
		return nil, fmt.Errorf("starting price must be a positive amount with at most two decimal places: %w", ErrInvalidInput)
	}
	if p.ReservePrice.Valid && !validMoney(p.ReservePrice.Decimal) {
		return nil, fmt.Errorf("reserve price must be a positive amount with at most two decimal places: %w", ErrInvalidInput)
	}

	duration := p.Duration
	if duration == 0 {
		duration = m.policy.DefaultDuration
	}
	if duration < m.policy.MinDuration || duration > m.policy.MaxDuration {
		return nil, fmt.Errorf("duration %s outside allowed range [%s, %s]: %w",
			duration, m.policy.MinDuration, m.policy.MaxDuration, ErrInvalidInput)
	}

	product, err := m.products.Product(ctx, p.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, fmt.Errorf("product %d: %w", p.ProductID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product.OwnerID != p.SellerID {
		return nil, fmt.Errorf("only the product owner can auction it: %w", ErrForbidden)
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product %d is not active: %w", p.ProductID, ErrInvalidState)
	}

	if p.StreamID != nil {
		stream, err := m.streams.Stream(ctx, *p.StreamID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, fmt.Errorf("stream %d: %w", *p.StreamID, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to look up stream: %w", err)
		}
		if stream.OwnerID != p.SellerID {
			return nil, fmt.Errorf("auctions can only be created in the seller's own stream: %w", ErrForbidden)
		}
		if !stream.Accepting() {
			return nil, fmt.Errorf("stream %d is %s: %w", *p.StreamID, stream.Status, ErrInvalidState)
		}
	}

	open, err := m.store.HasOpenAuctionForProduct(ctx, p.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for open auctions: %w", err)
	}
	if open {
		return nil, fmt.Errorf("product %d is already in a pending or active auction: %w", p.ProductID, ErrInvalidState)
	}

	code, err := m.codes.Next()
	if err != nil {
		return nil, err
	}

	created := m.now().UTC()
	a := &models.Auction{
		Code:            code,
		ProductID:       p.ProductID,
		StreamID:        p.StreamID,
		SellerID:        p.SellerID,
		StartingPrice:   p.StartingPrice,
		CurrentPrice:    p.StartingPrice,
		ReservePrice:    p.ReservePrice,
		DurationSeconds: int(duration / time.Second),
		Status:          models.AuctionStatusPending,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	if err := m.store.CreateAuction(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}

	slog.Info("Auction created",
		slog.String("code", a.Code),
		slog.Int64("auction_id", a.ID),
		slog.Int64("product_id", a.ProductID),
		slog.Int64("seller_id", a.SellerID),
		slog.String("starting_price", a.StartingPrice.String()))

	return a, nil
}

// Get returns the auction or ErrNotFound.
func (m *Manager) Get(ctx context.Context, auctionID int64) (*models.Auction, error) {
	return m.store.GetAuction(ctx, auctionID)
}

// authorize checks that the requester is the seller or, for stream-linked
// auctions, the stream owner. Called with the auction lock held.
func (m *Manager) authorize(ctx context.Context, a *models.Auction, requesterID int64) error {
	if requesterID == a.SellerID {
		return nil
	}
	if a.StreamID != nil && m.streams != nil {
		stream, err := m.streams.Stream(ctx, *a.StreamID)
		if err == nil && stream.OwnerID == requesterID {
			return nil
		}
	}
	return fmt.Errorf("user %d may not manage auction %d: %w", requesterID, a.ID, ErrForbidden)
}

// validMoney accepts positive amounts quantized to cents.
func validMoney(d decimal.Decimal) bool {
	return d.IsPositive() && d.Exponent() >= -2
}
