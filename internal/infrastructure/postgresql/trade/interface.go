package trade

import (
	"context"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
)

// TradeRepository defines the persistence operations for the append-only
// trade ledger.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type TradeRepository interface {
	// Insert appends a trade and returns its assigned id.
	Insert(ctx context.Context, trade *marketv1.Trade) (int64, error)
	// ListByMarket returns a market's trades in execution order.
	ListByMarket(ctx context.Context, marketID int64) ([]*marketv1.Trade, error)
	// CashFlowCents sums the user's realized cash flow in cents: -price*qty
	// as buyer, +price*qty as seller. A nil marketID spans all markets.
	CashFlowCents(ctx context.Context, userID int64, marketID *int64) (int64, error)
	// PositionQuantity returns the user's net position in one market:
	// quantity bought minus quantity sold.
	PositionQuantity(ctx context.Context, userID int64, marketID int64) (int64, error)
}
