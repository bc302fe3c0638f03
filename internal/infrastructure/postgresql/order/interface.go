package order

import (
	"context"
	"time"

	orderbookv1 "github.com/jacklee1792/predicord/internal/domain/orderbook/v1"
)

// OrderRepository defines the persistence operations for orders. All
// methods participate in the transaction carried by ctx, if any.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type OrderRepository interface {
	// Insert stores an order and returns its assigned id.
	Insert(ctx context.Context, order *orderbookv1.Order) (int64, error)
	// EligibleMakers loads the resting orders a taker on the given side
	// can cross: opposite side, same market, unexpired, price-compatible,
	// ordered by price-time priority. The rows are locked for the
	// duration of the transaction.
	EligibleMakers(ctx context.Context, marketID int64, takerSide orderbookv1.Side, limit orderbookv1.Price, now time.Time) ([]*orderbookv1.Order, error)
	// UpdateRemaining persists a new remaining quantity for an order.
	UpdateRemaining(ctx context.Context, id int64, remaining int64) error
	// Delete removes an order unconditionally.
	Delete(ctx context.Context, id int64) error
	// DeleteOwned removes an order iff it is owned by userID, and reports
	// whether a row was deleted.
	DeleteOwned(ctx context.Context, id int64, userID int64) (bool, error)
	// Depth aggregates unexpired resting quantity per price level for one
	// side of a market, best price first.
	Depth(ctx context.Context, marketID int64, side orderbookv1.Side, now time.Time) ([]orderbookv1.Level, error)
}
