package settlement

import (
	"context"

	"github.com/shopspring/decimal"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
	"github.com/jacklee1792/predicord/internal/infrastructure/postgresql/market"
	"github.com/jacklee1792/predicord/internal/infrastructure/postgresql/trade"
	"github.com/jacklee1792/predicord/pkg/errors"
	"github.com/jacklee1792/predicord/pkg/logger"
)

type usecase struct {
	tradeRepository  trade.TradeRepository
	marketRepository market.MarketRepository
	logger           logger.Interface
}

// NewUsecase creates a new settlement usecase.
func NewUsecase(
	tradeRepository trade.TradeRepository,
	marketRepository market.MarketRepository,
	logger logger.Interface,
) *usecase {
	return &usecase{
		tradeRepository:  tradeRepository,
		marketRepository: marketRepository,
		logger:           logger,
	}
}

// PnL returns a user's net realized cash flow in decimal currency units:
// -price*quantity for every trade where the user bought, +price*quantity
// where they sold. A nil marketID aggregates across all markets. The
// trade ledger is immutable, so no locking is needed beyond normal read
// consistency.
func (u *usecase) PnL(ctx context.Context, userID int64, marketID *int64) (decimal.Decimal, error) {
	cents, err := u.tradeRepository.CashFlowCents(ctx, userID, marketID)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromInt(cents).Shift(-2), nil
}

// Position returns a user's net position in one market: quantity bought
// minus quantity sold.
func (u *usecase) Position(ctx context.Context, userID, marketID int64) (int64, error) {
	return u.tradeRepository.PositionQuantity(ctx, userID, marketID)
}

// Trades returns a market's full execution history in ledger order.
func (u *usecase) Trades(ctx context.Context, marketID int64) ([]*marketv1.Trade, error) {
	mkt, err := u.marketRepository.GetByID(ctx, marketID)
	if err != nil {
		return nil, err
	}
	if mkt == nil {
		return nil, errors.TracerFromError(errors.NewErrorDetailsWithObject(
			"market does not exist",
			string(errors.MarketNotFound),
			"marketId",
			marketID,
		))
	}
	return u.tradeRepository.ListByMarket(ctx, marketID)
}

// Net returns a user's total outcome for a resolved market: realized
// cash flow plus the net position valued at the published payout.
func (u *usecase) Net(ctx context.Context, userID, marketID int64) (decimal.Decimal, error) {
	mkt, err := u.marketRepository.GetByID(ctx, marketID)
	if err != nil {
		return decimal.Zero, err
	}
	if mkt == nil {
		return decimal.Zero, errors.TracerFromError(errors.NewErrorDetailsWithObject(
			"market does not exist",
			string(errors.MarketNotFound),
			"marketId",
			marketID,
		))
	}
	if !mkt.IsResolved() || mkt.PayoutCents == nil {
		return decimal.Zero, errors.TracerFromError(errors.NewErrorDetailsWithObject(
			"market is not resolved yet",
			string(errors.MarketNotResolved),
			"marketId",
			marketID,
		))
	}

	cash, err := u.tradeRepository.CashFlowCents(ctx, userID, &marketID)
	if err != nil {
		return decimal.Zero, err
	}
	position, err := u.tradeRepository.PositionQuantity(ctx, userID, marketID)
	if err != nil {
		return decimal.Zero, err
	}

	totalCents := cash + position**mkt.PayoutCents
	return decimal.NewFromInt(totalCents).Shift(-2), nil
}
