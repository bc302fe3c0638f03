package market

import (
	"context"
	"strings"
	"time"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
	"github.com/jacklee1792/predicord/internal/infrastructure/postgresql/market"
	"github.com/jacklee1792/predicord/pkg/errors"
	"github.com/jacklee1792/predicord/pkg/logger"
)

type usecase struct {
	marketRepository market.MarketRepository
	logger           logger.Interface
}

// NewUsecase creates a new market usecase.
func NewUsecase(marketRepository market.MarketRepository, logger logger.Interface) *usecase {
	return &usecase{
		marketRepository: marketRepository,
		logger:           logger,
	}
}

// Create opens a new market and returns its id.
func (u *usecase) Create(ctx context.Context, name string, creatorID int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errors.TracerFromError(errors.NewErrorDetails(
			"market name must not be empty",
			string(errors.GeneralBadRequestError),
			"name",
		))
	}

	id, err := u.marketRepository.Create(ctx, name, creatorID)
	if err != nil {
		return 0, err
	}

	u.logger.InfoContext(ctx, "market created",
		logger.NewField("marketId", id),
		logger.NewField("creatorId", creatorID),
	)
	return id, nil
}

// Get returns one market.
func (u *usecase) Get(ctx context.Context, id int64) (*marketv1.Market, error) {
	mkt, err := u.marketRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mkt == nil {
		return nil, marketNotFound(id)
	}
	return mkt, nil
}

// List returns all markets.
func (u *usecase) List(ctx context.Context) ([]*marketv1.Market, error) {
	return u.marketRepository.List(ctx)
}

// Resolve publishes a market's outcome and per-share payout. Resolution
// is terminal: the conditional update in the store guarantees at most one
// resolution even under concurrent calls.
func (u *usecase) Resolve(ctx context.Context, id int64, outcome string, payoutCents int64) error {
	mkt, err := u.marketRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if mkt == nil {
		return marketNotFound(id)
	}
	if mkt.IsResolved() {
		return marketAlreadyResolved(id)
	}

	resolved, err := u.marketRepository.Resolve(ctx, id, outcome, payoutCents, time.Now().UTC())
	if err != nil {
		return err
	}
	if !resolved {
		// Lost the race against another resolver.
		return marketAlreadyResolved(id)
	}

	u.logger.InfoContext(ctx, "market resolved",
		logger.NewField("marketId", id),
		logger.NewField("outcome", outcome),
		logger.NewField("payoutCents", payoutCents),
	)
	return nil
}

// Delete removes a market together with its orders and trades.
func (u *usecase) Delete(ctx context.Context, id int64) error {
	mkt, err := u.marketRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if mkt == nil {
		return marketNotFound(id)
	}

	if err := u.marketRepository.Delete(ctx, id); err != nil {
		return err
	}

	u.logger.InfoContext(ctx, "market deleted", logger.NewField("marketId", id))
	return nil
}

func marketNotFound(id int64) error {
	return errors.TracerFromError(errors.NewErrorDetailsWithObject(
		"market does not exist",
		string(errors.MarketNotFound),
		"marketId",
		id,
	))
}

func marketAlreadyResolved(id int64) error {
	return errors.TracerFromError(errors.NewErrorDetailsWithObject(
		"market is already resolved",
		string(errors.MarketAlreadyResolved),
		"marketId",
		id,
	))
}
