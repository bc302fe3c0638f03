package market

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
	"github.com/jacklee1792/predicord/pkg/errors"
	"github.com/jacklee1792/predicord/pkg/logger"
	"github.com/jacklee1792/predicord/pkg/postgresql"
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new market repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a market and returns its assigned id.
func (r *repository) Create(ctx context.Context, name string, creatorID int64) (int64, error) {
	query := `INSERT INTO markets (name, creator_id) VALUES ($1, $2) RETURNING id`

	var id int64
	err := r.db.QueryRow(ctx, query, name, creatorID).Scan(&id)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	return id, nil
}

// GetByID returns the market with the given id, or nil if it does not exist.
func (r *repository) GetByID(ctx context.Context, id int64) (*marketv1.Market, error) {
	query := `SELECT id, name, creator_id, created_at, outcome, payout_cents, resolved_at FROM markets WHERE id = $1`

	market := &marketv1.Market{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&market.ID,
		&market.Name,
		&market.CreatorID,
		&market.CreatedAt,
		&market.Outcome,
		&market.PayoutCents,
		&market.ResolvedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	return market, nil
}

// List returns all markets.
func (r *repository) List(ctx context.Context) ([]*marketv1.Market, error) {
	query := `SELECT id, name, creator_id, created_at, outcome, payout_cents, resolved_at FROM markets ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	var markets []*marketv1.Market
	for rows.Next() {
		market := &marketv1.Market{}
		if err := rows.Scan(
			&market.ID,
			&market.Name,
			&market.CreatorID,
			&market.CreatedAt,
			&market.Outcome,
			&market.PayoutCents,
			&market.ResolvedAt,
		); err != nil {
			return nil, errors.TracerFromError(err)
		}
		markets = append(markets, market)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return markets, nil
}

// Resolve sets outcome, payout and resolution time on an open market. The
// WHERE clause refuses a second resolution.
func (r *repository) Resolve(ctx context.Context, id int64, outcome string, payoutCents int64, resolvedAt time.Time) (bool, error) {
	query := `UPDATE markets SET outcome = $2, payout_cents = $3, resolved_at = $4 WHERE id = $1 AND resolved_at IS NULL`

	cmd, err := r.db.Exec(ctx, query, id, outcome, payoutCents, resolvedAt)
	if err != nil {
		return false, errors.TracerFromError(err)
	}

	return cmd.RowsAffected() > 0, nil
}

// Delete removes a market. Orders and trades cascade.
func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM markets WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Deleted market", logger.Field{
		Key:   "marketID",
		Value: id,
	})

	return nil
}
