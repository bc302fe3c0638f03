package book

import (
	"context"
	"time"

	orderbookv1 "github.com/jacklee1792/predicord/internal/domain/orderbook/v1"
	"github.com/jacklee1792/predicord/internal/infrastructure/postgresql/market"
	"github.com/jacklee1792/predicord/internal/infrastructure/postgresql/order"
	"github.com/jacklee1792/predicord/pkg/errors"
	"github.com/jacklee1792/predicord/pkg/logger"
	"github.com/jacklee1792/predicord/pkg/postgresql"
)

type usecase struct {
	db               postgresql.PostgreSQLClient
	marketRepository market.MarketRepository
	orderRepository  order.OrderRepository
	logger           logger.Interface
}

// NewUsecase creates a new order book usecase.
func NewUsecase(
	db postgresql.PostgreSQLClient,
	marketRepository market.MarketRepository,
	orderRepository order.OrderRepository,
	logger logger.Interface,
) *usecase {
	return &usecase{
		db:               db,
		marketRepository: marketRepository,
		orderRepository:  orderRepository,
		logger:           logger,
	}
}

// Depth returns a depth snapshot of one market: bids best-first and asks
// best-first, with expired resting interest excluded by the same filter
// the matching pass applies. Both sides are read inside one read-only
// transaction so the snapshot is internally consistent.
func (u *usecase) Depth(ctx context.Context, marketID int64) (*orderbookv1.Book, error) {
	now := time.Now().UTC()

	var book *orderbookv1.Book
	err := postgresql.WithTxOptions(ctx, u.db, postgresql.ReadOnlyTxOptions(), func(txCtx context.Context) error {
		mkt, err := u.marketRepository.GetByID(txCtx, marketID)
		if err != nil {
			return err
		}
		if mkt == nil {
			return errors.TracerFromError(errors.NewErrorDetailsWithObject(
				"market does not exist",
				string(errors.MarketNotFound),
				"marketId",
				marketID,
			))
		}

		bids, err := u.orderRepository.Depth(txCtx, marketID, orderbookv1.SideBuy, now)
		if err != nil {
			return err
		}
		asks, err := u.orderRepository.Depth(txCtx, marketID, orderbookv1.SideSell, now)
		if err != nil {
			return err
		}

		book = &orderbookv1.Book{
			MarketID: marketID,
			Bids:     bids,
			Asks:     asks,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return book, nil
}
