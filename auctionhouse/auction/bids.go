package auction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// PlaceBid admits a single bid against the auction's current state,
// atomically. The whole read-validate-write sequence runs under the
// auction's exclusive lock: two bids racing for the same price point are
// serialized, and only the first to acquire the lock sees the pre-update
// price. The first bid may equal the starting price; every later bid must
// exceed the current price by the configured minimum increment.
func (m *Manager) PlaceBid(ctx context.Context, auctionID, bidderID int64, amount decimal.Decimal) (*models.Bid, error) {
	if !validMoney(amount) {
		return nil, fmt.Errorf("bid must be a positive amount with at most two decimal places: %w", ErrInvalidInput)
	}

	var (
		bid        *models.Bid
		snapshot   models.Auction
		outbid     *models.Bid
		expiredNow bool
	)

	err := m.store.WithAuctionLock(ctx, auctionID, func(ctx context.Context, tx Tx) error {
		a := tx.Auction()

		if a.SellerID == bidderID {
			return fmt.Errorf("seller cannot bid on their own auction: %w", ErrForbidden)
		}
		switch {
		case a.Status == models.AuctionStatusPending:
			return fmt.Errorf("auction %d has not started: %w", a.ID, ErrInvalidState)
		case a.Status != models.AuctionStatusActive:
			return fmt.Errorf("auction %d is %s: %w", a.ID, a.Status, ErrAuctionClosed)
		}
		if a.Expired(m.now()) {
			// The timer has not fired yet; reject the bid and close
			// defensively once the lock is released.
			expiredNow = true
			return fmt.Errorf("auction %d has ended: %w", a.ID, ErrAuctionClosed)
		}

		minimum := a.StartingPrice
		if a.BidCount > 0 {
			minimum = a.CurrentPrice.Add(m.policy.MinIncrement)
		}
		if amount.LessThan(minimum) {
			return fmt.Errorf("bid must be at least %s: %w", minimum.StringFixed(2), ErrBidTooLow)
		}

		// The current leader, if any, gets an outbid notification.
		if a.BidCount > 0 {
			bids, err := tx.EligibleBids(ctx)
			if err != nil {
				return fmt.Errorf("failed to load bids: %w", err)
			}
			if out := ResolveWinner(bids, decimal.NullDecimal{}); out.Sold {
				outbid = out.WinningBid
			}
		}

		bid = &models.Bid{
			AuctionID: a.ID,
			BidderID:  bidderID,
			Amount:    amount,
			BidTime:   m.now().UTC(),
		}
		if err := tx.InsertBid(ctx, bid); err != nil {
			return fmt.Errorf("failed to insert bid: %w", err)
		}

		a.CurrentPrice = amount
		a.BidCount++
		a.UpdatedAt = m.now().UTC()
		if err := tx.UpdateAuction(ctx); err != nil {
			return fmt.Errorf("failed to update auction: %w", err)
		}

		snapshot = *a
		return nil
	})
	if err != nil {
		if expiredNow {
			if closeErr := m.Close(ctx, auctionID); closeErr != nil {
				slog.Error("Defensive close after expired bid failed",
					slog.Int64("auction_id", auctionID),
					slog.String("error", closeErr.Error()))
			}
		}
		return nil, err
	}

	slog.Info("Bid accepted",
		slog.String("code", snapshot.Code),
		slog.Int64("auction_id", snapshot.ID),
		slog.Int64("bidder_id", bidderID),
		slog.String("amount", amount.StringFixed(2)),
		slog.Int("bid_count", snapshot.BidCount))

	// Best effort only: a failed notification must not roll back the bid.
	m.notifier.BidPlaced(ctx, &snapshot, bid)
	if outbid != nil && outbid.BidderID != bidderID {
		m.notifier.Outbid(ctx, &snapshot, outbid.BidderID, bid)
	}

	return bid, nil
}
