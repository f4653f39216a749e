package auction

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

type capturePublisher struct {
	mu       sync.Mutex
	channel  string
	payloads [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channel = channel
	p.payloads = append(p.payloads, message.([]byte))
	return redis.NewIntResult(1, nil)
}

func (p *capturePublisher) events(t *testing.T) []Event {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, 0, len(p.payloads))
	for _, raw := range p.payloads {
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("event payload does not decode: %v", err)
		}
		out = append(out, ev)
	}
	return out
}

func TestNotifierPublishesEvents(t *testing.T) {
	pub := &capturePublisher{}
	n := NewNotifier(pub, "test_events")
	ctx := context.Background()

	now := time.Now().UTC()
	a := &models.Auction{
		ID:           42,
		Code:         "ABC234",
		SellerID:     sellerID,
		CurrentPrice: d("12.34"),
		Status:       models.AuctionStatusActive,
		BidCount:     3,
		EndTime:      &now,
	}
	b := &models.Bid{ID: 7, AuctionID: 42, BidderID: bidderID, Amount: d("12.34"), BidTime: now}

	n.AuctionStarted(ctx, a)
	n.BidPlaced(ctx, a, b)
	n.Outbid(ctx, a, otherBidderID, b)
	n.AuctionEnded(ctx, a)

	if pub.channel != "test_events" {
		t.Errorf("published on channel %q, want test_events", pub.channel)
	}

	events := pub.events(t)
	if len(events) != 4 {
		t.Fatalf("published %d events, want 4", len(events))
	}

	wantTypes := []string{EventAuctionStarted, EventBidPlaced, EventOutbid, EventAuctionEnded}
	for i, ev := range events {
		if ev.Type != wantTypes[i] {
			t.Errorf("event %d type = %q, want %q", i, ev.Type, wantTypes[i])
		}
		if ev.AuctionID != 42 || ev.Code != "ABC234" {
			t.Errorf("event %d identifies auction %d/%s", i, ev.AuctionID, ev.Code)
		}
		if ev.ID == 0 {
			t.Errorf("event %d has no id", i)
		}
		if ev.Auction == nil || ev.Auction.CurrentPrice != "12.34" {
			t.Errorf("event %d auction payload = %+v", i, ev.Auction)
		}
	}

	if events[1].Bid == nil || events[1].Bid.Amount != "12.34" {
		t.Errorf("bid_placed payload bid = %+v", events[1].Bid)
	}
	if events[2].OutbidID != otherBidderID {
		t.Errorf("outbid payload user = %d, want %d", events[2].OutbidID, otherBidderID)
	}
}

func TestNotifierWithoutPublisher(t *testing.T) {
	n := NewNotifier(nil, "")

	a := &models.Auction{ID: 1, Code: "XYZ567", CurrentPrice: d("1.00")}
	// Must not panic, must not block.
	n.AuctionStarted(context.Background(), a)
	n.AuctionEnded(context.Background(), a)
}

func TestNotifierDefaultChannel(t *testing.T) {
	pub := &capturePublisher{}
	n := NewNotifier(pub, "")

	n.AuctionEnded(context.Background(), &models.Auction{ID: 1, CurrentPrice: d("1.00")})

	if pub.channel != "auction_events" {
		t.Errorf("default channel = %q, want auction_events", pub.channel)
	}
}
