package user

import (
	"context"

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

// NewRepository creates a new user repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts or refreshes an identity record.
func (r *repository) Upsert(ctx context.Context, u *marketv1.User) error {
	query := `INSERT INTO users (id, name, avatar_url) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, avatar_url = EXCLUDED.avatar_url`

	_, err := r.db.Exec(ctx, query, u.ID, u.Name, u.AvatarURL)
	if err != nil {
		return errors.TracerFromError(err)
	}

	return nil
}

// GetByID returns the user with the given id, or nil if unknown.
func (r *repository) GetByID(ctx context.Context, id int64) (*marketv1.User, error) {
	query := `SELECT id, name, avatar_url FROM users WHERE id = $1`

	u := &marketv1.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.AvatarURL)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	return u, nil
}
