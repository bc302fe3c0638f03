package order

import (
	"context"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
)

// Result is the outcome of one order submission: the id assigned to the
// taker, the trades its matching pass produced in execution order, and
// the quantity left unfilled.
type Result struct {
	OrderID   int64
	Trades    []*marketv1.Trade
	Remaining int64
}

// Usecase is the order write path: submission with synchronous matching,
// and cancellation.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type Usecase interface {
	// Submit validates a raw request and matches it against the book in
	// one atomic transaction.
	Submit(ctx context.Context, req Request) (*Result, error)
	// Cancel deletes an order iff it is owned by userID.
	Cancel(ctx context.Context, orderID, userID int64) error
}
