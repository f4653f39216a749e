package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// Order is the sale record emitted when an auction closes sold. It is
// created in the same transaction as the sold transition, never after it.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID        int64 `bun:"id,pk,autoincrement" json:"id"`
	BuyerID   int64 `bun:"buyer_id,notnull" json:"buyer_id"`
	SellerID  int64 `bun:"seller_id,notnull" json:"seller_id"`
	AuctionID int64 `bun:"auction_id,notnull,unique" json:"auction_id"`

	TotalAmount decimal.Decimal `bun:"total_amount,notnull,type:numeric(10,2)" json:"total_amount"`
	Status      OrderStatus     `bun:"status,notnull" json:"status"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
