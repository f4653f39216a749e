package auction

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// memStore is an in-memory Store with the same semantics as the Postgres
// implementation: one exclusive lock per auction, transactional apply on
// success, full discard on error, unique order per auction.
type memStore struct {
	mu          sync.Mutex
	nextAuction int64
	nextBid     int64
	nextOrder   int64
	auctions    map[int64]*models.Auction
	bids        map[int64][]*models.Bid
	orders      map[int64]*models.Order // keyed by auction id
	products    map[int64]bool          // product id -> is_active
	locks       map[int64]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		auctions: make(map[int64]*models.Auction),
		bids:     make(map[int64][]*models.Bid),
		orders:   make(map[int64]*models.Order),
		products: make(map[int64]bool),
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (s *memStore) CreateAuction(_ context.Context, a *models.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextAuction++
	a.ID = s.nextAuction
	cp := *a
	s.auctions[a.ID] = &cp
	return nil
}

func (s *memStore) GetAuction(_ context.Context, id int64) (*models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.auctions[id]
	if !ok {
		return nil, fmt.Errorf("auction %d: %w", id, ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) HasOpenAuctionForProduct(_ context.Context, productID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.auctions {
		if a.ProductID == productID && !a.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) WithAuctionLock(ctx context.Context, auctionID int64, fn func(ctx context.Context, tx Tx) error) error {
	s.mu.Lock()
	if _, ok := s.auctions[auctionID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("auction %d: %w", auctionID, ErrNotFound)
	}
	lock, ok := s.locks[auctionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[auctionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	cp := *s.auctions[auctionID]
	s.mu.Unlock()

	tx := &memTx{store: s, auction: &cp}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *memStore) ExpiredAuctionIDs(_ context.Context, now time.Time) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for id, a := range s.auctions {
		if a.Status == models.AuctionStatusActive && a.Expired(now) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *memStore) ActiveAuctions(_ context.Context) ([]*models.Auction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Auction
	for _, a := range s.auctions {
		if a.Status == models.AuctionStatusActive {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// test helpers

func (s *memStore) orderFor(auctionID int64) *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[auctionID]
}

func (s *memStore) productActive(productID int64) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	active, ok := s.products[productID]
	return active, ok
}

func (s *memStore) bidCount(auctionID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bids[auctionID])
}

// memTx stages all writes and applies them on commit.
type memTx struct {
	store       *memStore
	auction     *models.Auction
	newBids     []*models.Bid
	winningIDs  []int64
	newOrders   []*models.Order
	productSets map[int64]bool
	dirty       bool
}

func (t *memTx) Auction() *models.Auction { return t.auction }

func (t *memTx) InsertBid(_ context.Context, b *models.Bid) error {
	t.store.mu.Lock()
	t.store.nextBid++
	b.ID = t.store.nextBid
	t.store.mu.Unlock()
	cp := *b
	t.newBids = append(t.newBids, &cp)
	return nil
}

func (t *memTx) EligibleBids(_ context.Context) ([]*models.Bid, error) {
	t.store.mu.Lock()
	committed := t.store.bids[t.auction.ID]
	out := make([]*models.Bid, 0, len(committed)+len(t.newBids))
	for _, b := range committed {
		if !b.IsCancelled {
			cp := *b
			out = append(out, &cp)
		}
	}
	t.store.mu.Unlock()
	for _, b := range t.newBids {
		if !b.IsCancelled {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (t *memTx) MarkBidWinning(_ context.Context, bidID int64) error {
	t.winningIDs = append(t.winningIDs, bidID)
	return nil
}

func (t *memTx) UpdateAuction(_ context.Context) error {
	t.dirty = true
	return nil
}

func (t *memTx) CreateOrder(_ context.Context, o *models.Order) error {
	t.store.mu.Lock()
	_, exists := t.store.orders[o.AuctionID]
	t.store.mu.Unlock()
	if exists {
		return fmt.Errorf("duplicate key value violates unique constraint on orders.auction_id")
	}
	for _, staged := range t.newOrders {
		if staged.AuctionID == o.AuctionID {
			return fmt.Errorf("duplicate key value violates unique constraint on orders.auction_id")
		}
	}
	t.store.mu.Lock()
	t.store.nextOrder++
	o.ID = t.store.nextOrder
	t.store.mu.Unlock()
	cp := *o
	t.newOrders = append(t.newOrders, &cp)
	return nil
}

func (t *memTx) SetProductActive(_ context.Context, productID int64, active bool) error {
	if t.productSets == nil {
		t.productSets = make(map[int64]bool)
	}
	t.productSets[productID] = active
	return nil
}

func (t *memTx) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if t.dirty {
		cp := *t.auction
		t.store.auctions[cp.ID] = &cp
	}
	t.store.bids[t.auction.ID] = append(t.store.bids[t.auction.ID], t.newBids...)
	for _, id := range t.winningIDs {
		for _, b := range t.store.bids[t.auction.ID] {
			if b.ID == id {
				b.IsWinning = true
			}
		}
	}
	for _, o := range t.newOrders {
		t.store.orders[o.AuctionID] = o
	}
	for productID, active := range t.productSets {
		t.store.products[productID] = active
	}
}
