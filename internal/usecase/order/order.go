package order

import (
	"context"
	"time"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
	orderbookv1 "github.com/jacklee1792/predicord/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/jacklee1792/predicord/internal/domain/trade-publisher/v1"
	"github.com/jacklee1792/predicord/internal/infrastructure/postgresql/market"
	"github.com/jacklee1792/predicord/internal/infrastructure/postgresql/order"
	"github.com/jacklee1792/predicord/internal/infrastructure/postgresql/trade"
	"github.com/jacklee1792/predicord/pkg/errors"
	"github.com/jacklee1792/predicord/pkg/logger"
	"github.com/jacklee1792/predicord/pkg/postgresql"
)

type usecase struct {
	db               postgresql.PostgreSQLClient
	marketRepository market.MarketRepository
	orderRepository  order.OrderRepository
	tradeRepository  trade.TradeRepository
	publisher        tradepublisherv1.Publisher
	logger           logger.Interface
}

// NewUsecase creates a new order usecase. The publisher is optional; with
// a nil publisher trades are still recorded but not announced.
func NewUsecase(
	db postgresql.PostgreSQLClient,
	marketRepository market.MarketRepository,
	orderRepository order.OrderRepository,
	tradeRepository trade.TradeRepository,
	publisher tradepublisherv1.Publisher,
	logger logger.Interface,
) *usecase {
	return &usecase{
		db:               db,
		marketRepository: marketRepository,
		orderRepository:  orderRepository,
		tradeRepository:  tradeRepository,
		publisher:        publisher,
		logger:           logger,
	}
}

// Submit validates the request and runs one matching pass against the
// book, all inside a single transaction: market check, taker insert,
// maker snapshot load, crossing, trade inserts and quantity updates
// either all commit or all roll back. The taker is matched exactly once,
// at submission, against the book state its transaction sees; concurrent
// submissions against the same market serialize on the maker row locks.
func (u *usecase) Submit(ctx context.Context, req Request) (*Result, error) {
	now := time.Now().UTC()

	taker, err := Validate(req, now)
	if err != nil {
		return nil, err
	}

	var trades []*marketv1.Trade
	err = postgresql.WithTx(ctx, u.db, func(txCtx context.Context) error {
		mkt, err := u.marketRepository.GetByID(txCtx, taker.MarketID)
		if err != nil {
			return err
		}
		if mkt == nil {
			return errors.TracerFromError(errors.NewErrorDetailsWithObject(
				"market does not exist",
				string(errors.MarketNotFound),
				"marketId",
				taker.MarketID,
			))
		}
		if mkt.IsResolved() {
			return errors.TracerFromError(errors.NewErrorDetailsWithObject(
				"market is already resolved",
				string(errors.MarketResolved),
				"marketId",
				taker.MarketID,
			))
		}

		if _, err := u.orderRepository.Insert(txCtx, taker); err != nil {
			return err
		}

		makers, err := u.orderRepository.EligibleMakers(txCtx, taker.MarketID, taker.Side, taker.Price, now)
		if err != nil {
			return err
		}

		fills := orderbookv1.Cross(taker, makers, now)

		for _, fill := range fills {
			t := tradeFromFill(taker, fill, now)
			if _, err := u.tradeRepository.Insert(txCtx, t); err != nil {
				return err
			}
			trades = append(trades, t)

			if fill.Maker.IsFilled() {
				if err := u.orderRepository.Delete(txCtx, fill.Maker.ID); err != nil {
					return err
				}
			} else if err := u.orderRepository.UpdateRemaining(txCtx, fill.Maker.ID, fill.Maker.Remaining); err != nil {
				return err
			}
		}

		// A market order never rests, filled or not; a fully filled limit
		// order is logically closed the same way.
		switch {
		case taker.Kind == orderbookv1.KindMarket || taker.IsFilled():
			return u.orderRepository.Delete(txCtx, taker.ID)
		case len(fills) > 0:
			return u.orderRepository.UpdateRemaining(txCtx, taker.ID, taker.Remaining)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "order matched",
		logger.NewField("orderId", taker.ID),
		logger.NewField("marketId", taker.MarketID),
		logger.NewField("trades", len(trades)),
		logger.NewField("remaining", taker.Remaining),
	)

	u.publishTrades(ctx, trades)

	return &Result{
		OrderID:   taker.ID,
		Trades:    trades,
		Remaining: taker.Remaining,
	}, nil
}

// Cancel deletes an order iff it is owned by userID. Unknown and
// not-owned collapse into one error so order existence does not leak
// across users. Trades already recorded against the order are untouched.
func (u *usecase) Cancel(ctx context.Context, orderID, userID int64) error {
	deleted, err := u.orderRepository.DeleteOwned(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.TracerFromError(errors.NewErrorDetailsWithObject(
			"order does not exist",
			string(errors.OrderNotFound),
			"orderId",
			orderID,
		))
	}

	u.logger.InfoContext(ctx, "order cancelled",
		logger.NewField("orderId", orderID),
		logger.NewField("userId", userID),
	)
	return nil
}

// publishTrades announces committed trades. Publishing is best-effort:
// the ledger is already the source of truth, so a publish failure is
// logged and swallowed.
func (u *usecase) publishTrades(ctx context.Context, trades []*marketv1.Trade) {
	if u.publisher == nil {
		return
	}
	for _, t := range trades {
		if err := u.publisher.PublishTradeEvent(ctx, tradepublisherv1.CreateFromTrade(t)); err != nil {
			u.logger.WarnContext(ctx, "failed to publish trade event",
				logger.NewField("tradeId", t.ID),
				logger.NewField("error", err.Error()),
			)
		}
	}
}

// tradeFromFill records one fill as a trade. Buyer and seller come from
// the sides the taker and maker occupy, never from order ids.
func tradeFromFill(taker *orderbookv1.Order, fill orderbookv1.Fill, executedAt time.Time) *marketv1.Trade {
	buyerID, sellerID := taker.UserID, fill.Maker.UserID
	if !taker.IsBuy() {
		buyerID, sellerID = fill.Maker.UserID, taker.UserID
	}

	return &marketv1.Trade{
		MarketID:   taker.MarketID,
		BuyerID:    buyerID,
		SellerID:   sellerID,
		PriceCents: fill.PriceCents,
		Quantity:   fill.Quantity,
		ExecutedAt: executedAt,
	}
}
