package settlement

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
	mockMarket "github.com/jacklee1792/predicord/internal/infrastructure/postgresql/market/mock"
	mockTrade "github.com/jacklee1792/predicord/internal/infrastructure/postgresql/trade/mock"
	"github.com/jacklee1792/predicord/pkg/errors"
	loggerMock "github.com/jacklee1792/predicord/pkg/logger/mock"
)

func newMocks(t *testing.T) (*mockTrade.MockTradeRepository, *mockMarket.MockMarketRepository, *usecase) {
	ctrl := gomock.NewController(t)
	trades := mockTrade.NewMockTradeRepository(ctrl)
	markets := mockMarket.NewMockMarketRepository(ctrl)
	log := loggerMock.NewMockInterface(ctrl)
	return trades, markets, NewUsecase(trades, markets, log)
}

func TestPnL(t *testing.T) {
	trades, _, u := newMocks(t)

	// Bought 10 at 50c (-500), sold 4 at 75c (+300).
	trades.EXPECT().CashFlowCents(gomock.Any(), int64(11), (*int64)(nil)).Return(int64(-200), nil)

	got, err := u.PnL(context.Background(), 11, nil)
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("-2")), "got %s", got)
}

func TestPnL_SingleMarket(t *testing.T) {
	trades, _, u := newMocks(t)

	marketID := int64(7)
	trades.EXPECT().CashFlowCents(gomock.Any(), int64(11), &marketID).Return(int64(345), nil)

	got, err := u.PnL(context.Background(), 11, &marketID)
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("3.45")), "got %s", got)
}

func TestPnL_RepositoryError(t *testing.T) {
	trades, _, u := newMocks(t)

	trades.EXPECT().CashFlowCents(gomock.Any(), int64(11), (*int64)(nil)).Return(int64(0), stderrors.New("boom"))

	_, err := u.PnL(context.Background(), 11, nil)
	assert.Error(t, err)
}

func TestPosition(t *testing.T) {
	trades, _, u := newMocks(t)

	trades.EXPECT().PositionQuantity(gomock.Any(), int64(11), int64(7)).Return(int64(6), nil)

	got, err := u.Position(context.Background(), 11, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(6), got)
}

func TestTrades(t *testing.T) {
	t.Run("history in ledger order", func(t *testing.T) {
		trades, markets, u := newMocks(t)
		history := []*marketv1.Trade{
			{ID: 1, MarketID: 7, BuyerID: 11, SellerID: 21, PriceCents: 50, Quantity: 10},
			{ID: 2, MarketID: 7, BuyerID: 11, SellerID: 21, PriceCents: 50, Quantity: 2},
		}

		markets.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&marketv1.Market{ID: 7}, nil)
		trades.EXPECT().ListByMarket(gomock.Any(), int64(7)).Return(history, nil)

		got, err := u.Trades(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, history, got)
	})

	t.Run("unknown market", func(t *testing.T) {
		_, markets, u := newMocks(t)

		markets.EXPECT().GetByID(gomock.Any(), int64(7)).Return(nil, nil)

		_, err := u.Trades(context.Background(), 7)
		assert.True(t, errors.ErrorCodeEquals(err, errors.MarketNotFound))
	})
}

func TestNet(t *testing.T) {
	resolvedAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	payout := int64(100)
	outcome := "yes"
	resolved := &marketv1.Market{
		ID:          7,
		Outcome:     &outcome,
		PayoutCents: &payout,
		ResolvedAt:  &resolvedAt,
	}

	t.Run("cash flow plus position at payout", func(t *testing.T) {
		trades, markets, u := newMocks(t)
		marketID := int64(7)

		markets.EXPECT().GetByID(gomock.Any(), int64(7)).Return(resolved, nil)
		// Spent 500c net, holds 6 shares paying 100c each.
		trades.EXPECT().CashFlowCents(gomock.Any(), int64(11), &marketID).Return(int64(-500), nil)
		trades.EXPECT().PositionQuantity(gomock.Any(), int64(11), int64(7)).Return(int64(6), nil)

		got, err := u.Net(context.Background(), 11, 7)
		assert.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString("1")), "got %s", got)
	})

	t.Run("unknown market", func(t *testing.T) {
		_, markets, u := newMocks(t)

		markets.EXPECT().GetByID(gomock.Any(), int64(7)).Return(nil, nil)

		_, err := u.Net(context.Background(), 11, 7)
		assert.True(t, errors.ErrorCodeEquals(err, errors.MarketNotFound))
	})

	t.Run("unresolved market", func(t *testing.T) {
		_, markets, u := newMocks(t)

		markets.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&marketv1.Market{ID: 7}, nil)

		_, err := u.Net(context.Background(), 11, 7)
		assert.True(t, errors.ErrorCodeEquals(err, errors.MarketNotResolved))
	})
}
