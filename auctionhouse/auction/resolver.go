package auction

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/streamlot/streamlot/auctionhouse/database/models"
)

// Outcome is the result of resolving a closed auction's bid set.
type Outcome struct {
	Sold       bool
	WinningBid *models.Bid
	FinalPrice decimal.Decimal
}

// ResolveWinner picks the winner from the committed bid set: highest
// amount, ties broken by earliest bid time, then lowest id. Cancelled bids
// never rank. A reserve price that the best bid does not meet yields an
// unsold outcome without invalidating the bid itself.
//
// The function is pure; the caller already holds the auction lock and is
// responsible for persisting the outcome.
func ResolveWinner(bids []*models.Bid, reserve decimal.NullDecimal) Outcome {
	eligible := make([]*models.Bid, 0, len(bids))
	for _, b := range bids {
		if !b.IsCancelled {
			eligible = append(eligible, b)
		}
	}
	if len(eligible) == 0 {
		return Outcome{}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		switch eligible[i].Amount.Cmp(eligible[j].Amount) {
		case 1:
			return true
		case -1:
			return false
		}
		if !eligible[i].BidTime.Equal(eligible[j].BidTime) {
			return eligible[i].BidTime.Before(eligible[j].BidTime)
		}
		return eligible[i].ID < eligible[j].ID
	})

	best := eligible[0]
	if reserve.Valid && best.Amount.LessThan(reserve.Decimal) {
		return Outcome{}
	}

	return Outcome{
		Sold:       true,
		WinningBid: best,
		FinalPrice: best.Amount,
	}
}
