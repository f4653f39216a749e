package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type AuctionStatus string

const (
	AuctionStatusPending   AuctionStatus = "pending"
	AuctionStatusActive    AuctionStatus = "active"
	AuctionStatusSold      AuctionStatus = "sold"
	AuctionStatusUnsold    AuctionStatus = "unsold"
	AuctionStatusCancelled AuctionStatus = "cancelled"
)

// Terminal reports whether the status is absorbing. Sold, unsold and
// cancelled auctions never change again.
func (s AuctionStatus) Terminal() bool {
	switch s {
	case AuctionStatusSold, AuctionStatusUnsold, AuctionStatusCancelled:
		return true
	}
	return false
}

type Auction struct {
	bun.BaseModel `bun:"table:auctions,alias:a"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	Code      string `bun:"code,notnull,unique" json:"code"`
	ProductID int64  `bun:"product_id,notnull" json:"product_id"`
	StreamID  *int64 `bun:"stream_id" json:"stream_id,omitempty"`
	SellerID  int64  `bun:"seller_id,notnull" json:"seller_id"`
	WinnerID  *int64 `bun:"winner_id" json:"winner_id,omitempty"`

	StartingPrice decimal.Decimal     `bun:"starting_price,notnull,type:numeric(10,2)" json:"starting_price"`
	CurrentPrice  decimal.Decimal     `bun:"current_price,notnull,type:numeric(10,2)" json:"current_price"`
	ReservePrice  decimal.NullDecimal `bun:"reserve_price,type:numeric(10,2)" json:"reserve_price,omitempty"`

	DurationSeconds int           `bun:"duration_seconds,notnull" json:"duration_seconds"`
	StartTime       *time.Time    `bun:"start_time" json:"start_time,omitempty"`
	EndTime         *time.Time    `bun:"end_time" json:"end_time,omitempty"`
	Status          AuctionStatus `bun:"status,notnull" json:"status"`
	BidCount        int           `bun:"bid_count,notnull,default:0" json:"bid_count"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Duration returns the configured bidding window length.
func (a *Auction) Duration() time.Duration {
	return time.Duration(a.DurationSeconds) * time.Second
}

// Expired reports whether the bidding window has passed. Only meaningful
// for active auctions; pending auctions have no end time yet.
func (a *Auction) Expired(now time.Time) bool {
	return a.EndTime != nil && !now.Before(*a.EndTime)
}
