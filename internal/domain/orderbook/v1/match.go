package orderbookv1

import (
	"sort"
	"time"
)

// Fill represents one maker/taker pairing produced by a matching pass.
// The price is always the maker's resting price.
type Fill struct {
	Maker      *Order
	Quantity   int64
	PriceCents int64
}

// Level represents aggregated remaining quantity at one price level.
type Level struct {
	PriceCents int64 `json:"priceCents"`
	Quantity   int64 `json:"quantity"`
}

// Book represents a depth snapshot of one market: bids best-first
// (descending price), asks best-first (ascending price).
type Book struct {
	MarketID int64   `json:"marketID"`
	Bids     []Level `json:"bids"`
	Asks     []Level `json:"asks"`
}

// Cross matches the taker against a snapshot of resting makers and returns
// the fills in execution order. Remaining quantities on the taker and the
// touched makers are decremented in place; persistence of those deltas is
// the caller's responsibility, inside the same transaction that loaded the
// snapshot.
//
// Makers are filtered for eligibility (opposite side, same market, not
// expired, price-compatible) and walked in price-time priority: best price
// first, then earliest creation, then lowest id. Each fill executes
// min(taker.Remaining, maker.Remaining) at the maker's price.
func Cross(taker *Order, makers []*Order, now time.Time) []Fill {
	eligible := make([]*Order, 0, len(makers))
	for _, maker := range makers {
		if maker.IsFilled() || maker.IsExpired(now) {
			continue
		}
		if !taker.Crosses(maker) {
			continue
		}
		eligible = append(eligible, maker)
	}

	sort.Slice(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.Price.Cents != b.Price.Cents {
			if taker.IsBuy() {
				// cheapest sell first
				return a.Price.Cents < b.Price.Cents
			}
			// highest bid first
			return a.Price.Cents > b.Price.Cents
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	var fills []Fill
	for _, maker := range eligible {
		if taker.Remaining <= 0 {
			break
		}

		quantity := taker.Remaining
		if maker.Remaining < quantity {
			quantity = maker.Remaining
		}

		taker.Remaining -= quantity
		maker.Remaining -= quantity

		fills = append(fills, Fill{
			Maker:      maker,
			Quantity:   quantity,
			PriceCents: maker.Price.Cents,
		})
	}

	return fills
}
