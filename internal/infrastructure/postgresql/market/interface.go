package market

import (
	"context"
	"time"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
)

// MarketRepository defines the persistence operations for markets.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type MarketRepository interface {
	// Create inserts a market and returns its assigned id.
	Create(ctx context.Context, name string, creatorID int64) (int64, error)
	// GetByID returns the market with the given id, or nil if it does not exist.
	GetByID(ctx context.Context, id int64) (*marketv1.Market, error)
	// List returns all markets.
	List(ctx context.Context) ([]*marketv1.Market, error)
	// Resolve sets outcome, payout and resolution time on an open market.
	// It reports whether a row was updated; false means the market was
	// already resolved.
	Resolve(ctx context.Context, id int64, outcome string, payoutCents int64, resolvedAt time.Time) (bool, error)
	// Delete removes a market. Orders and trades cascade.
	Delete(ctx context.Context, id int64) error
}
