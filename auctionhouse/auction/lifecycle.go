package auction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streamlot/streamlot/auctionhouse/catalog"
	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// Activate transitions a pending auction to active, stamps the bidding
// window and arms the closure timer. Only the seller or, for stream-linked
// auctions, the stream owner may activate. The window is fixed here: later
// bids never extend end_time.
func (m *Manager) Activate(ctx context.Context, auctionID, requesterID int64) (*models.Auction, error) {
	var snapshot models.Auction

	err := m.store.WithAuctionLock(ctx, auctionID, func(ctx context.Context, tx Tx) error {
		a := tx.Auction()

		if err := m.authorize(ctx, a, requesterID); err != nil {
			return err
		}
		if a.Status != models.AuctionStatusPending {
			return fmt.Errorf("auction %d is %s, cannot activate: %w", a.ID, a.Status, ErrInvalidState)
		}

		product, err := m.products.Product(ctx, a.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return fmt.Errorf("product %d: %w", a.ProductID, ErrNotFound)
			}
			return fmt.Errorf("failed to look up product: %w", err)
		}
		if !product.IsActive {
			return fmt.Errorf("product %d is no longer active: %w", a.ProductID, ErrInvalidState)
		}

		start := m.now().UTC()
		end := start.Add(a.Duration())
		a.Status = models.AuctionStatusActive
		a.StartTime = &start
		a.EndTime = &end
		a.UpdatedAt = start
		if err := tx.UpdateAuction(ctx); err != nil {
			return fmt.Errorf("failed to update auction: %w", err)
		}

		snapshot = *a
		return nil
	})
	if err != nil {
		return nil, err
	}

	if m.scheduler != nil {
		m.scheduler.ScheduleClose(snapshot.ID, *snapshot.EndTime)
	}

	slog.Info("Auction activated",
		slog.String("code", snapshot.Code),
		slog.Int64("auction_id", snapshot.ID),
		slog.Time("end_time", *snapshot.EndTime))

	m.notifier.AuctionStarted(ctx, &snapshot)
	return &snapshot, nil
}

// Cancel moves a pending or active auction to cancelled and stamps
// end_time. In-flight bids are not interrupted; whichever of the bid and
// the cancel loses the lock race observes the other's committed state.
func (m *Manager) Cancel(ctx context.Context, auctionID, requesterID int64) (*models.Auction, error) {
	var snapshot models.Auction

	err := m.store.WithAuctionLock(ctx, auctionID, func(ctx context.Context, tx Tx) error {
		a := tx.Auction()

		if err := m.authorize(ctx, a, requesterID); err != nil {
			return err
		}
		if a.Status.Terminal() {
			return fmt.Errorf("auction %d is already %s: %w", a.ID, a.Status, ErrInvalidState)
		}

		now := m.now().UTC()
		a.Status = models.AuctionStatusCancelled
		a.EndTime = &now
		a.UpdatedAt = now
		if err := tx.UpdateAuction(ctx); err != nil {
			return fmt.Errorf("failed to update auction: %w", err)
		}

		// The product may have been deactivated out of band; make sure a
		// cancelled auction leaves it auctionable again.
		if err := tx.SetProductActive(ctx, a.ProductID, true); err != nil {
			return fmt.Errorf("failed to reactivate product: %w", err)
		}

		snapshot = *a
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Auction cancelled",
		slog.String("code", snapshot.Code),
		slog.Int64("auction_id", snapshot.ID),
		slog.Int64("requester_id", requesterID))

	m.notifier.AuctionEnded(ctx, &snapshot)
	return &snapshot, nil
}

// Close is the idempotent closure entry point, invoked by the scheduler,
// the recovery sweep, or defensively by a bid that observes expiry. It
// re-checks status under the lock, so duplicate triggers no-op. On a sale
// the winning bid is flagged, the order is created and the product is
// deactivated in the same transaction that commits the sold status: a
// failure anywhere rolls everything back and the auction stays active and
// retryable.
func (m *Manager) Close(ctx context.Context, auctionID int64) error {
	var (
		snapshot models.Auction
		closed   bool
	)

	err := m.store.WithAuctionLock(ctx, auctionID, func(ctx context.Context, tx Tx) error {
		a := tx.Auction()

		if a.Status != models.AuctionStatusActive {
			// Already closed or cancelled by a concurrent trigger.
			return nil
		}
		if !a.Expired(m.now()) {
			slog.Warn("Close triggered before expiry, ignoring",
				slog.Int64("auction_id", a.ID),
				slog.Time("end_time", *a.EndTime))
			return nil
		}

		bids, err := tx.EligibleBids(ctx)
		if err != nil {
			return fmt.Errorf("failed to load bids: %w", err)
		}

		now := m.now().UTC()
		outcome := ResolveWinner(bids, a.ReservePrice)
		if outcome.Sold {
			winnerID := outcome.WinningBid.BidderID
			a.Status = models.AuctionStatusSold
			a.WinnerID = &winnerID
			a.CurrentPrice = outcome.FinalPrice
			a.UpdatedAt = now

			if err := tx.MarkBidWinning(ctx, outcome.WinningBid.ID); err != nil {
				return fmt.Errorf("failed to mark winning bid: %w", err)
			}
			if err := m.orders.Emit(ctx, tx, a); err != nil {
				return fmt.Errorf("failed to emit order: %w", err)
			}
			if err := tx.SetProductActive(ctx, a.ProductID, false); err != nil {
				return fmt.Errorf("failed to deactivate product: %w", err)
			}
		} else {
			a.Status = models.AuctionStatusUnsold
			a.WinnerID = nil
			a.UpdatedAt = now
		}

		if err := tx.UpdateAuction(ctx); err != nil {
			return fmt.Errorf("failed to update auction: %w", err)
		}

		snapshot = *a
		closed = true
		return nil
	})
	if err != nil {
		return err
	}
	if !closed {
		return nil
	}

	if snapshot.Status == models.AuctionStatusSold {
		slog.Info("Auction closed sold",
			slog.String("code", snapshot.Code),
			slog.Int64("auction_id", snapshot.ID),
			slog.Int64("winner_id", *snapshot.WinnerID),
			slog.String("final_price", snapshot.CurrentPrice.StringFixed(2)))
	} else {
		slog.Info("Auction closed unsold",
			slog.String("code", snapshot.Code),
			slog.Int64("auction_id", snapshot.ID),
			slog.Int("bid_count", snapshot.BidCount))
	}

	m.notifier.AuctionEnded(ctx, &snapshot)
	return nil
}
