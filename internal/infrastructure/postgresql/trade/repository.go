package trade

import (
	"context"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
	"github.com/jacklee1792/predicord/pkg/errors"
	"github.com/jacklee1792/predicord/pkg/logger"
	"github.com/jacklee1792/predicord/pkg/postgresql"
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new trade repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Insert appends a trade and returns its assigned id.
func (r *repository) Insert(ctx context.Context, t *marketv1.Trade) (int64, error) {
	query := `INSERT INTO trades (market_id, buyer_id, seller_id, price_cents, quantity, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query,
		t.MarketID,
		t.BuyerID,
		t.SellerID,
		t.PriceCents,
		t.Quantity,
		t.ExecutedAt,
	).Scan(&id)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	t.ID = id
	return id, nil
}

// ListByMarket returns a market's trades in execution order.
func (r *repository) ListByMarket(ctx context.Context, marketID int64) ([]*marketv1.Trade, error) {
	query := `SELECT id, market_id, buyer_id, seller_id, price_cents, quantity, executed_at
		FROM trades WHERE market_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, marketID)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	var trades []*marketv1.Trade
	for rows.Next() {
		t := &marketv1.Trade{}
		if err := rows.Scan(
			&t.ID,
			&t.MarketID,
			&t.BuyerID,
			&t.SellerID,
			&t.PriceCents,
			&t.Quantity,
			&t.ExecutedAt,
		); err != nil {
			return nil, errors.TracerFromError(err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return trades, nil
}

// CashFlowCents sums the user's realized cash flow in cents over the
// immutable ledger: money out as buyer, money in as seller. The two roles
// are summed independently so a self-trade (buyer and seller the same
// user) nets to zero instead of counting only the buyer leg.
func (r *repository) CashFlowCents(ctx context.Context, userID int64, marketID *int64) (int64, error) {
	query := `SELECT COALESCE(SUM(
			CASE WHEN buyer_id = $1 THEN -price_cents * quantity ELSE 0 END
			+ CASE WHEN seller_id = $1 THEN price_cents * quantity ELSE 0 END), 0)
		FROM trades WHERE (buyer_id = $1 OR seller_id = $1)`
	args := []any{userID}

	if marketID != nil {
		query += ` AND market_id = $2`
		args = append(args, *marketID)
	}

	var cents int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&cents); err != nil {
		return 0, errors.TracerFromError(err)
	}

	return cents, nil
}

// PositionQuantity returns the user's net position in one market,
// quantity bought minus quantity sold. Both roles of a self-trade are
// counted, cancelling out.
func (r *repository) PositionQuantity(ctx context.Context, userID int64, marketID int64) (int64, error) {
	query := `SELECT COALESCE(SUM(
			CASE WHEN buyer_id = $1 THEN quantity ELSE 0 END
			- CASE WHEN seller_id = $1 THEN quantity ELSE 0 END), 0)
		FROM trades WHERE (buyer_id = $1 OR seller_id = $1) AND market_id = $2`

	var quantity int64
	if err := r.db.QueryRow(ctx, query, userID, marketID).Scan(&quantity); err != nil {
		return 0, errors.TracerFromError(err)
	}

	return quantity, nil
}
