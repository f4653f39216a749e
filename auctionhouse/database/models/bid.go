package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Bid struct {
	bun.BaseModel `bun:"table:bids,alias:b"`

	ID        int64 `bun:"id,pk,autoincrement" json:"id"`
	AuctionID int64 `bun:"auction_id,notnull" json:"auction_id"`
	BidderID  int64 `bun:"bidder_id,notnull" json:"bidder_id"`

	Amount decimal.Decimal `bun:"amount,notnull,type:numeric(10,2)" json:"amount"`

	// BidTime is server-assigned under the auction row lock, so it is
	// monotonic per auction and usable as a tie-breaker.
	BidTime     time.Time `bun:"bid_time,notnull" json:"bid_time"`
	IsWinning   bool      `bun:"is_winning,notnull,default:false" json:"is_winning"`
	IsCancelled bool      `bun:"is_cancelled,notnull,default:false" json:"is_cancelled"`
}
