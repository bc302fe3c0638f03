package order

import (
	"context"
	"time"

	orderbookv1 "github.com/jacklee1792/predicord/internal/domain/orderbook/v1"
	"github.com/jacklee1792/predicord/pkg/errors"
	"github.com/jacklee1792/predicord/pkg/logger"
	"github.com/jacklee1792/predicord/pkg/postgresql"
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new order repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Insert stores an order and returns its assigned id. A no-limit price is
// stored as NULL so it can never collide with a real price level.
func (r *repository) Insert(ctx context.Context, o *orderbookv1.Order) (int64, error) {
	query := `INSERT INTO orders (market_id, user_id, kind, side, price_cents, quantity, quantity_remaining, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	var priceCents *int64
	if !o.Price.NoLimit {
		priceCents = &o.Price.Cents
	}

	var id int64
	err := r.db.QueryRow(ctx, query,
		o.MarketID,
		o.UserID,
		string(o.Kind),
		string(o.Side),
		priceCents,
		o.Quantity,
		o.Remaining,
		o.CreatedAt,
		o.ExpiresAt,
	).Scan(&id)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	o.ID = id
	return id, nil
}

const makerColumns = `id, market_id, user_id, kind, side, price_cents, quantity, quantity_remaining, created_at, expires_at`

// EligibleMakers loads and locks the resting orders a taker can cross,
// already in price-time priority order. Sells are walked cheapest first,
// buys highest bid first; created_at and id break ties.
func (r *repository) EligibleMakers(ctx context.Context, marketID int64, takerSide orderbookv1.Side, limit orderbookv1.Price, now time.Time) ([]*orderbookv1.Order, error) {
	var query string
	args := []any{marketID, now}

	if takerSide == orderbookv1.SideBuy {
		query = `SELECT ` + makerColumns + ` FROM orders
			WHERE market_id = $1 AND side = 'sell' AND quantity_remaining > 0
			AND price_cents IS NOT NULL
			AND (expires_at IS NULL OR expires_at > $2)`
		if !limit.NoLimit {
			query += ` AND price_cents <= $3`
			args = append(args, limit.Cents)
		}
		query += ` ORDER BY price_cents ASC, created_at ASC, id ASC FOR UPDATE`
	} else {
		query = `SELECT ` + makerColumns + ` FROM orders
			WHERE market_id = $1 AND side = 'buy' AND quantity_remaining > 0
			AND price_cents IS NOT NULL
			AND (expires_at IS NULL OR expires_at > $2)`
		if !limit.NoLimit {
			query += ` AND price_cents >= $3`
			args = append(args, limit.Cents)
		}
		query += ` ORDER BY price_cents DESC, created_at ASC, id ASC FOR UPDATE`
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	var makers []*orderbookv1.Order
	for rows.Next() {
		maker, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		makers = append(makers, maker)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return makers, nil
}

func scanOrder(rows postgresql.RowsInterface) (*orderbookv1.Order, error) {
	o := &orderbookv1.Order{}
	var kind, side string
	var priceCents *int64

	if err := rows.Scan(
		&o.ID,
		&o.MarketID,
		&o.UserID,
		&kind,
		&side,
		&priceCents,
		&o.Quantity,
		&o.Remaining,
		&o.CreatedAt,
		&o.ExpiresAt,
	); err != nil {
		return nil, errors.TracerFromError(err)
	}

	o.Kind = orderbookv1.Kind(kind)
	o.Side = orderbookv1.Side(side)
	if priceCents != nil {
		o.Price = orderbookv1.LimitPrice(*priceCents)
	} else {
		o.Price = orderbookv1.NoLimitPrice()
	}

	return o, nil
}

// UpdateRemaining persists a new remaining quantity for an order.
func (r *repository) UpdateRemaining(ctx context.Context, id int64, remaining int64) error {
	query := `UPDATE orders SET quantity_remaining = $2 WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, remaining)
	if err != nil {
		return errors.TracerFromError(err)
	}

	return nil
}

// Delete removes an order unconditionally.
func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM orders WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return errors.TracerFromError(err)
	}

	return nil
}

// DeleteOwned removes an order iff it is owned by userID. The owner check
// lives in the same statement so a cancellation can never race a
// concurrent fill of somebody else's order.
func (r *repository) DeleteOwned(ctx context.Context, id int64, userID int64) (bool, error) {
	query := `DELETE FROM orders WHERE id = $1 AND user_id = $2`

	cmd, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return false, errors.TracerFromError(err)
	}

	return cmd.RowsAffected() > 0, nil
}

// Depth aggregates unexpired resting quantity per price level for one side
// of a market, best price first. The expiry filter matches the one the
// matching pass applies, so the depth never shows interest the engine
// would refuse to cross.
func (r *repository) Depth(ctx context.Context, marketID int64, side orderbookv1.Side, now time.Time) ([]orderbookv1.Level, error) {
	direction := "ASC"
	if side == orderbookv1.SideBuy {
		direction = "DESC"
	}

	query := `SELECT price_cents, SUM(quantity_remaining) FROM orders
		WHERE market_id = $1 AND side = $2 AND quantity_remaining > 0
		AND price_cents IS NOT NULL
		AND (expires_at IS NULL OR expires_at > $3)
		GROUP BY price_cents ORDER BY price_cents ` + direction

	rows, err := r.db.Query(ctx, query, marketID, string(side), now)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	var levels []orderbookv1.Level
	for rows.Next() {
		var level orderbookv1.Level
		if err := rows.Scan(&level.PriceCents, &level.Quantity); err != nil {
			return nil, errors.TracerFromError(err)
		}
		levels = append(levels, level)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return levels, nil
}
