package user

import (
	"context"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
)

// UserRepository defines the persistence operations for identity records.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type UserRepository interface {
	// Upsert inserts or refreshes an identity record.
	Upsert(ctx context.Context, user *marketv1.User) error
	// GetByID returns the user with the given id, or nil if unknown.
	GetByID(ctx context.Context, id int64) (*marketv1.User, error)
}
