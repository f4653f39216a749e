package auction

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Scheduler closes auctions when their window ends. Per-auction timers
// give prompt closure; correctness does not depend on them. The sweep
// ticker scans for active auctions whose end_time has passed and closes
// whatever the timers missed, so a crash between activation and expiry
// loses nothing. Recover re-arms timers from persisted end times at
// startup.
type Scheduler struct {
	manager       *Manager
	store         Store
	sweepInterval time.Duration
	timers        sync.Map // auctionID -> *time.Timer
	shutdown      chan struct{}
	wg            sync.WaitGroup
	startOnce     sync.Once
	stopOnce      sync.Once
}

func NewScheduler(manager *Manager, store Store, sweepInterval time.Duration) *Scheduler {
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Second
	}
	return &Scheduler{
		manager:       manager,
		store:         store,
		sweepInterval: sweepInterval,
		shutdown:      make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.sweepLoop()
	})
}

// ScheduleClose arms a timer that fires Close at endTime. Rearming an
// auction replaces its previous timer.
func (s *Scheduler) ScheduleClose(auctionID int64, endTime time.Time) {
	delay := time.Until(endTime)
	if delay < 0 {
		delay = 0
	}
	timer := time.NewTimer(delay)

	if prev, loaded := s.timers.Swap(auctionID, timer); loaded {
		prev.(*time.Timer).Stop()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.timers.Delete(auctionID)
			timer.Stop()
		}()

		select {
		case <-timer.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.manager.Close(ctx, auctionID); err != nil {
				// The sweep retries on its next tick.
				slog.Error("Timer close failed",
					slog.Int64("auction_id", auctionID),
					slog.String("error", err.Error()))
			}
		case <-s.shutdown:
		}
	}()
}

// Recover re-arms timers for every active auction. Auctions already past
// their end time get an immediate timer and close on the spot. Called
// once at startup, before Start.
func (s *Scheduler) Recover(ctx context.Context) error {
	active, err := s.store.ActiveAuctions(ctx)
	if err != nil {
		return err
	}

	recovered := 0
	for _, a := range active {
		if a.EndTime == nil {
			slog.Warn("Active auction without end time, skipping recovery",
				slog.Int64("auction_id", a.ID))
			continue
		}
		s.ScheduleClose(a.ID, *a.EndTime)
		recovered++
	}

	if recovered > 0 {
		slog.Info("Recovered auction timers", slog.Int("count", recovered))
	}
	return nil
}

func (s *Scheduler) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := s.sweep(ctx); err != nil {
				slog.Error("Closure sweep failed", slog.String("error", err.Error()))
			}
			cancel()
		case <-s.shutdown:
			return
		}
	}
}

// sweep closes every active auction whose end_time has passed. Close is
// idempotent, so overlap with a timer firing for the same auction is
// harmless.
func (s *Scheduler) sweep(ctx context.Context) error {
	ids, err := s.store.ExpiredAuctionIDs(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := s.manager.Close(ctx, id); err != nil {
			slog.Error("Sweep close failed",
				slog.Int64("auction_id", id),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

// Shutdown stops the sweep and all armed timers and waits for in-flight
// closures to finish.
func (s *Scheduler) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.shutdown)
	})

	s.timers.Range(func(key, value any) bool {
		value.(*time.Timer).Stop()
		return true
	})

	s.wg.Wait()
	slog.Info("Auction scheduler shutdown completed")
}
