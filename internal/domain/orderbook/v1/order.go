package orderbookv1

import (
	"time"
)

// Kind represents the kind of order.
type Kind string

const (
	// KindMarket represents a market order. It matches at any price and
	// never rests on the book.
	KindMarket Kind = "market"
	// KindLimit represents a limit order. It rests until filled,
	// cancelled or expired.
	KindLimit Kind = "limit"
)

// Side represents the side of an order.
type Side string

const (
	// SideBuy represents a buy order.
	SideBuy Side = "buy"
	// SideSell represents a sell order.
	SideSell Side = "sell"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Price is a limit price in integer cents. NoLimit marks the price of a
// market order: compatible with every opposite price, never a legitimate
// numeric value on the book.
type Price struct {
	Cents   int64
	NoLimit bool
}

// LimitPrice returns a Price fixed at the given amount of cents.
func LimitPrice(cents int64) Price {
	return Price{Cents: cents}
}

// NoLimitPrice returns the tagged no-limit Price carried by market orders.
func NoLimitPrice() Price {
	return Price{NoLimit: true}
}

// Order represents a single order, either the incoming taker or a snapshot
// of a resting maker loaded from the store.
type Order struct {
	ID        int64
	MarketID  int64
	UserID    int64
	Kind      Kind
	Side      Side
	Price     Price
	Quantity  int64
	Remaining int64
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// NewOrder creates an order with the given parameters, with the remaining
// quantity initialized to the requested quantity.
func NewOrder(marketID, userID int64, kind Kind, side Side, price Price, quantity int64, createdAt time.Time, expiresAt *time.Time) *Order {
	return &Order{
		MarketID:  marketID,
		UserID:    userID,
		Kind:      kind,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Remaining: quantity,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
}

// IsBuy checks if the order is a buy order.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// IsFilled checks if the order is fully filled.
func (o *Order) IsFilled() bool {
	return o.Remaining == 0
}

// IsExpired checks if the order has expired at the given instant. Orders
// without an expiry are good until cancelled.
func (o *Order) IsExpired(now time.Time) bool {
	return o.ExpiresAt != nil && !o.ExpiresAt.After(now)
}

// Crosses reports whether a resting maker is price-compatible with this
// taker: a trade happens only when the taker's bid is at or above the
// maker's ask. A no-limit taker crosses every maker.
func (o *Order) Crosses(maker *Order) bool {
	if maker.Side == o.Side || maker.MarketID != o.MarketID {
		return false
	}
	if o.Price.NoLimit {
		return true
	}
	if o.IsBuy() {
		return maker.Price.Cents <= o.Price.Cents
	}
	return maker.Price.Cents >= o.Price.Cents
}
