package auction

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/redis/go-redis/v9"

	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// Event is the wire payload published on the auction event channel.
// Viewers subscribed to a live stream consume these to render price
// updates without polling.
type Event struct {
	ID        snowflake.ID  `json:"id"`
	Type      string        `json:"type"`
	AuctionID int64         `json:"auction_id"`
	Code      string        `json:"code"`
	Auction   *EventAuction `json:"auction"`
	Bid       *EventBid     `json:"bid,omitempty"`
	OutbidID  int64         `json:"outbid_user_id,omitempty"`
	At        time.Time     `json:"at"`
}

type EventAuction struct {
	Status       models.AuctionStatus `json:"status"`
	CurrentPrice string               `json:"current_price"`
	BidCount     int                  `json:"bid_count"`
	WinnerID     *int64               `json:"winner_id,omitempty"`
	EndTime      *time.Time           `json:"end_time,omitempty"`
}

type EventBid struct {
	BidderID int64     `json:"bidder_id"`
	Amount   string    `json:"amount"`
	BidTime  time.Time `json:"bid_time"`
}

const (
	EventAuctionStarted = "auction_started"
	EventBidPlaced      = "bid_placed"
	EventOutbid         = "outbid"
	EventAuctionEnded   = "auction_ended"
)

// Publisher is the fan-out sink for auction events. The redis client
// satisfies it directly.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Notifier publishes auction events, best effort. A nil publisher turns
// every notification into a log line only; publish failures are logged
// and swallowed because state transitions have already committed by the
// time notifications fire.
type Notifier struct {
	mu        sync.RWMutex
	publisher Publisher
	channel   string
}

func NewNotifier(publisher Publisher, channel string) *Notifier {
	if channel == "" {
		channel = "auction_events"
	}
	return &Notifier{publisher: publisher, channel: channel}
}

// SetPublisher swaps the sink after construction, for wiring order and
// for reconnect scenarios.
func (n *Notifier) SetPublisher(publisher Publisher) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.publisher = publisher
}

func (n *Notifier) AuctionStarted(ctx context.Context, a *models.Auction) {
	n.publish(ctx, Event{
		Type:      EventAuctionStarted,
		AuctionID: a.ID,
		Code:      a.Code,
		Auction:   eventAuction(a),
	})
}

func (n *Notifier) BidPlaced(ctx context.Context, a *models.Auction, b *models.Bid) {
	n.publish(ctx, Event{
		Type:      EventBidPlaced,
		AuctionID: a.ID,
		Code:      a.Code,
		Auction:   eventAuction(a),
		Bid:       eventBid(b),
	})
}

func (n *Notifier) Outbid(ctx context.Context, a *models.Auction, outbidUserID int64, b *models.Bid) {
	n.publish(ctx, Event{
		Type:      EventOutbid,
		AuctionID: a.ID,
		Code:      a.Code,
		Auction:   eventAuction(a),
		Bid:       eventBid(b),
		OutbidID:  outbidUserID,
	})
}

func (n *Notifier) AuctionEnded(ctx context.Context, a *models.Auction) {
	n.publish(ctx, Event{
		Type:      EventAuctionEnded,
		AuctionID: a.ID,
		Code:      a.Code,
		Auction:   eventAuction(a),
	})
}

func (n *Notifier) publish(ctx context.Context, ev Event) {
	ev.ID = snowflake.New(time.Now())
	ev.At = time.Now().UTC()

	n.mu.RLock()
	publisher := n.publisher
	channel := n.channel
	n.mu.RUnlock()

	if publisher == nil {
		slog.Debug("Auction event (no publisher)",
			slog.String("type", ev.Type),
			slog.Int64("auction_id", ev.AuctionID))
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Error("Failed to encode auction event",
			slog.String("type", ev.Type),
			slog.Int64("auction_id", ev.AuctionID),
			slog.String("error", err.Error()))
		return
	}

	if err := publisher.Publish(ctx, channel, payload).Err(); err != nil {
		slog.Error("Failed to publish auction event",
			slog.String("type", ev.Type),
			slog.Int64("auction_id", ev.AuctionID),
			slog.String("error", err.Error()))
	}
}

func eventAuction(a *models.Auction) *EventAuction {
	return &EventAuction{
		Status:       a.Status,
		CurrentPrice: a.CurrentPrice.StringFixed(2),
		BidCount:     a.BidCount,
		WinnerID:     a.WinnerID,
		EndTime:      a.EndTime,
	}
}

func eventBid(b *models.Bid) *EventBid {
	return &EventBid{
		BidderID: b.BidderID,
		Amount:   b.Amount.StringFixed(2),
		BidTime:  b.BidTime,
	}
}
