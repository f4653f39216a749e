package auction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// OrderEmitter turns a sold auction into its order record. Emit runs
// inside the closure transaction, so the order commits with the sold
// status or not at all. The unique constraint on orders.auction_id backs
// the at-most-once guarantee against any path that slips past the status
// check.
type OrderEmitter struct{}

func NewOrderEmitter() *OrderEmitter {
	return &OrderEmitter{}
}

// Emit creates the order for an auction that has just been marked sold.
// Called with the auction lock held and the winner fields already set.
func (e *OrderEmitter) Emit(ctx context.Context, tx Tx, a *models.Auction) error {
	if a.WinnerID == nil {
		return fmt.Errorf("auction %d has no winner: %w", a.ID, ErrInvalidState)
	}

	now := time.Now().UTC()
	order := &models.Order{
		BuyerID:     *a.WinnerID,
		SellerID:    a.SellerID,
		AuctionID:   a.ID,
		TotalAmount: a.CurrentPrice,
		Status:      models.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return fmt.Errorf("failed to create order for auction %d: %w", a.ID, err)
	}

	slog.Info("Order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("auction_id", a.ID),
		slog.Int64("buyer_id", order.BuyerID),
		slog.Int64("seller_id", order.SellerID),
		slog.String("total", order.TotalAmount.StringFixed(2)))

	return nil
}
