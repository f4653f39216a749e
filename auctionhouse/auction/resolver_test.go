package auction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

func bid(id, bidder int64, amount string, at time.Time) *models.Bid {
	return &models.Bid{
		ID:       id,
		BidderID: bidder,
		Amount:   decimal.RequireFromString(amount),
		BidTime:  at,
	}
}

func reserve(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestResolveWinner(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		bids       []*models.Bid
		reserve    decimal.NullDecimal
		wantSold   bool
		wantBidID  int64
		wantPrice  string
	}{
		{
			name:     "no bids",
			bids:     nil,
			wantSold: false,
		},
		{
			name: "highest amount wins",
			bids: []*models.Bid{
				bid(1, 10, "5.00", base),
				bid(2, 11, "7.50", base.Add(time.Second)),
				bid(3, 12, "6.00", base.Add(2*time.Second)),
			},
			wantSold:  true,
			wantBidID: 2,
			wantPrice: "7.50",
		},
		{
			name: "tie broken by earliest bid time",
			bids: []*models.Bid{
				bid(1, 10, "9.99", base.Add(time.Second)),
				bid(2, 11, "9.99", base),
			},
			wantSold:  true,
			wantBidID: 2,
			wantPrice: "9.99",
		},
		{
			name: "tie on amount and time broken by lowest id",
			bids: []*models.Bid{
				bid(4, 10, "3.00", base),
				bid(2, 11, "3.00", base),
			},
			wantSold:  true,
			wantBidID: 2,
			wantPrice: "3.00",
		},
		{
			name: "cancelled bids never rank",
			bids: []*models.Bid{
				func() *models.Bid {
					b := bid(1, 10, "20.00", base)
					b.IsCancelled = true
					return b
				}(),
				bid(2, 11, "5.00", base.Add(time.Second)),
			},
			wantSold:  true,
			wantBidID: 2,
			wantPrice: "5.00",
		},
		{
			name: "all bids cancelled means unsold",
			bids: []*models.Bid{
				func() *models.Bid {
					b := bid(1, 10, "20.00", base)
					b.IsCancelled = true
					return b
				}(),
			},
			wantSold: false,
		},
		{
			name: "reserve unmet means unsold",
			bids: []*models.Bid{
				bid(1, 10, "9.00", base),
			},
			reserve:  reserve("10.00"),
			wantSold: false,
		},
		{
			name: "reserve met exactly sells",
			bids: []*models.Bid{
				bid(1, 10, "10.00", base),
			},
			reserve:   reserve("10.00"),
			wantSold:  true,
			wantBidID: 1,
			wantPrice: "10.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveWinner(tt.bids, tt.reserve)
			if got.Sold != tt.wantSold {
				t.Fatalf("ResolveWinner() sold = %v, want %v", got.Sold, tt.wantSold)
			}
			if !tt.wantSold {
				if got.WinningBid != nil {
					t.Fatalf("ResolveWinner() unsold outcome carries bid %d", got.WinningBid.ID)
				}
				return
			}
			if got.WinningBid == nil {
				t.Fatal("ResolveWinner() sold outcome has nil winning bid")
			}
			if got.WinningBid.ID != tt.wantBidID {
				t.Errorf("ResolveWinner() winning bid = %d, want %d", got.WinningBid.ID, tt.wantBidID)
			}
			if got.FinalPrice.StringFixed(2) != tt.wantPrice {
				t.Errorf("ResolveWinner() final price = %s, want %s", got.FinalPrice.StringFixed(2), tt.wantPrice)
			}
		})
	}
}

func TestResolveWinnerDoesNotMutateInput(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	bids := []*models.Bid{
		bid(1, 10, "1.00", base),
		bid(2, 11, "2.00", base.Add(time.Second)),
		bid(3, 12, "3.00", base.Add(2*time.Second)),
	}

	ResolveWinner(bids, decimal.NullDecimal{})

	for i, want := range []int64{1, 2, 3} {
		if bids[i].ID != want {
			t.Fatalf("input slice reordered: bids[%d].ID = %d, want %d", i, bids[i].ID, want)
		}
	}
}
