package order

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
	orderbookv1 "github.com/jacklee1792/predicord/internal/domain/orderbook/v1"
	mockMarket "github.com/jacklee1792/predicord/internal/infrastructure/postgresql/market/mock"
	mockOrder "github.com/jacklee1792/predicord/internal/infrastructure/postgresql/order/mock"
	mockTrade "github.com/jacklee1792/predicord/internal/infrastructure/postgresql/trade/mock"
	"github.com/jacklee1792/predicord/pkg/errors"
	loggerMock "github.com/jacklee1792/predicord/pkg/logger/mock"
	mockPg "github.com/jacklee1792/predicord/pkg/postgresql/mock"
)

// fakeTx stands in for a live pgx transaction so the commit/rollback
// decision taken by the submission path can be observed.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rolledBack = true
	return nil
}

type submitMocks struct {
	db     *mockPg.MockPostgreSQLClient
	market *mockMarket.MockMarketRepository
	order  *mockOrder.MockOrderRepository
	trade  *mockTrade.MockTradeRepository
	logger *loggerMock.MockInterface
	tx     *fakeTx
}

func newSubmitMocks(ctrl *gomock.Controller) *submitMocks {
	return &submitMocks{
		db:     mockPg.NewMockPostgreSQLClient(ctrl),
		market: mockMarket.NewMockMarketRepository(ctrl),
		order:  mockOrder.NewMockOrderRepository(ctrl),
		trade:  mockTrade.NewMockTradeRepository(ctrl),
		logger: loggerMock.NewMockInterface(ctrl),
		tx:     &fakeTx{},
	}
}

func (m *submitMocks) usecase() *usecase {
	return NewUsecase(m.db, m.market, m.order, m.trade, nil, m.logger)
}

func restingSellAt(id, userID, priceCents, remaining int64, createdAt time.Time) *orderbookv1.Order {
	return &orderbookv1.Order{
		ID:        id,
		MarketID:  7,
		UserID:    userID,
		Kind:      orderbookv1.KindLimit,
		Side:      orderbookv1.SideSell,
		Price:     orderbookv1.LimitPrice(priceCents),
		Quantity:  remaining,
		Remaining: remaining,
		CreatedAt: createdAt,
	}
}

func TestSubmit_LimitTakerFillsAndRests(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newSubmitMocks(ctrl)
	ctx := context.Background()

	t0 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	makers := []*orderbookv1.Order{
		restingSellAt(2, 21, 50, 10, t0),
		restingSellAt(3, 22, 55, 5, t0.Add(time.Minute)),
	}

	m.db.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.market.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&marketv1.Market{ID: 7}, nil)
	m.order.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *orderbookv1.Order) (int64, error) {
			o.ID = 99
			return 99, nil
		})
	m.order.EXPECT().
		EligibleMakers(gomock.Any(), int64(7), orderbookv1.SideBuy, orderbookv1.LimitPrice(60), gomock.Any()).
		Return(makers, nil)

	var nextTradeID int64 = 1000
	m.trade.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tr *marketv1.Trade) (int64, error) {
			nextTradeID++
			tr.ID = nextTradeID
			return tr.ID, nil
		}).
		Times(2)
	m.order.EXPECT().Delete(gomock.Any(), int64(2)).Return(nil)
	m.order.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)
	m.order.EXPECT().UpdateRemaining(gomock.Any(), int64(99), int64(5)).Return(nil)
	m.logger.EXPECT().InfoContext(gomock.Any(), "order matched", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

	result, err := m.usecase().Submit(ctx, Request{
		MarketID: 7,
		UserID:   11,
		Kind:     "limit",
		Side:     "buy",
		Price:    "0.60",
		Quantity: 20,
	})

	assert.NoError(t, err)
	assert.True(t, m.tx.committed)
	assert.False(t, m.tx.rolledBack)
	assert.Equal(t, int64(99), result.OrderID)
	assert.Equal(t, int64(5), result.Remaining)
	if assert.Len(t, result.Trades, 2) {
		// Both fills execute at the maker's resting price.
		assert.Equal(t, int64(50), result.Trades[0].PriceCents)
		assert.Equal(t, int64(10), result.Trades[0].Quantity)
		assert.Equal(t, int64(11), result.Trades[0].BuyerID)
		assert.Equal(t, int64(21), result.Trades[0].SellerID)
		assert.Equal(t, int64(55), result.Trades[1].PriceCents)
		assert.Equal(t, int64(5), result.Trades[1].Quantity)
		assert.Equal(t, int64(22), result.Trades[1].SellerID)
	}
}

func TestSubmit_SellTakerAssignsIdentitiesBySide(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newSubmitMocks(ctrl)

	t0 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	bid := &orderbookv1.Order{
		ID: 4, MarketID: 7, UserID: 31,
		Kind: orderbookv1.KindLimit, Side: orderbookv1.SideBuy,
		Price: orderbookv1.LimitPrice(70), Quantity: 8, Remaining: 8, CreatedAt: t0,
	}

	m.db.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.market.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&marketv1.Market{ID: 7}, nil)
	m.order.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *orderbookv1.Order) (int64, error) {
			o.ID = 100
			return 100, nil
		})
	m.order.EXPECT().
		EligibleMakers(gomock.Any(), int64(7), orderbookv1.SideSell, orderbookv1.LimitPrice(65), gomock.Any()).
		Return([]*orderbookv1.Order{bid}, nil)
	m.trade.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tr *marketv1.Trade) (int64, error) {
			tr.ID = 2001
			return tr.ID, nil
		})
	m.order.EXPECT().UpdateRemaining(gomock.Any(), int64(4), int64(3)).Return(nil)
	m.order.EXPECT().Delete(gomock.Any(), int64(100)).Return(nil)
	m.logger.EXPECT().InfoContext(gomock.Any(), "order matched", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

	result, err := m.usecase().Submit(context.Background(), Request{
		MarketID: 7,
		UserID:   11,
		Kind:     "limit",
		Side:     "sell",
		Price:    "0.65",
		Quantity: 5,
	})

	assert.NoError(t, err)
	assert.True(t, m.tx.committed)
	assert.Equal(t, int64(0), result.Remaining)
	if assert.Len(t, result.Trades, 1) {
		// The resting bid's owner buys, the taker sells, at the bid's price.
		assert.Equal(t, int64(31), result.Trades[0].BuyerID)
		assert.Equal(t, int64(11), result.Trades[0].SellerID)
		assert.Equal(t, int64(70), result.Trades[0].PriceCents)
	}
}

func TestSubmit_MatchesOwnRestingOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newSubmitMocks(ctrl)

	// Nothing excludes a user's own resting orders from the maker
	// snapshot, so a self-trade is recorded like any other; settlement
	// nets its two legs to zero.
	t0 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	own := restingSellAt(2, 11, 50, 5, t0)

	m.db.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.market.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&marketv1.Market{ID: 7}, nil)
	m.order.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *orderbookv1.Order) (int64, error) {
			o.ID = 101
			return 101, nil
		})
	m.order.EXPECT().
		EligibleMakers(gomock.Any(), int64(7), orderbookv1.SideBuy, orderbookv1.LimitPrice(50), gomock.Any()).
		Return([]*orderbookv1.Order{own}, nil)
	m.trade.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tr *marketv1.Trade) (int64, error) {
			tr.ID = 3001
			return tr.ID, nil
		})
	m.order.EXPECT().Delete(gomock.Any(), int64(2)).Return(nil)
	m.order.EXPECT().Delete(gomock.Any(), int64(101)).Return(nil)
	m.logger.EXPECT().InfoContext(gomock.Any(), "order matched", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

	result, err := m.usecase().Submit(context.Background(), Request{
		MarketID: 7,
		UserID:   11,
		Kind:     "limit",
		Side:     "buy",
		Price:    "0.50",
		Quantity: 5,
	})

	assert.NoError(t, err)
	assert.True(t, m.tx.committed)
	if assert.Len(t, result.Trades, 1) {
		assert.Equal(t, int64(11), result.Trades[0].BuyerID)
		assert.Equal(t, int64(11), result.Trades[0].SellerID)
	}
}

func TestSubmit_MarketOrderDiscardedAfterAttempt(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newSubmitMocks(ctrl)

	m.db.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.market.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&marketv1.Market{ID: 7}, nil)
	m.order.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *orderbookv1.Order) (int64, error) {
			assert.True(t, o.Price.NoLimit)
			o.ID = 101
			return 101, nil
		})
	m.order.EXPECT().
		EligibleMakers(gomock.Any(), int64(7), orderbookv1.SideSell, orderbookv1.NoLimitPrice(), gomock.Any()).
		Return(nil, nil)
	m.order.EXPECT().Delete(gomock.Any(), int64(101)).Return(nil)
	m.logger.EXPECT().InfoContext(gomock.Any(), "order matched", gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any())

	result, err := m.usecase().Submit(context.Background(), Request{
		MarketID: 7,
		UserID:   11,
		Kind:     "market",
		Side:     "sell",
		Quantity: 5,
	})

	assert.NoError(t, err)
	assert.True(t, m.tx.committed)
	assert.Empty(t, result.Trades)
	assert.Equal(t, int64(5), result.Remaining)
}

func TestSubmit_MarketChecks(t *testing.T) {
	resolvedAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		market   *marketv1.Market
		wantCode errors.ErrorCode
	}{
		{
			name:     "unknown market",
			market:   nil,
			wantCode: errors.MarketNotFound,
		},
		{
			name:     "resolved market",
			market:   &marketv1.Market{ID: 7, ResolvedAt: &resolvedAt},
			wantCode: errors.MarketResolved,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := newSubmitMocks(ctrl)

			m.db.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
			m.market.EXPECT().GetByID(gomock.Any(), int64(7)).Return(tc.market, nil)

			result, err := m.usecase().Submit(context.Background(), Request{
				MarketID: 7,
				UserID:   11,
				Kind:     "limit",
				Side:     "buy",
				Price:    "0.50",
				Quantity: 1,
			})

			assert.Nil(t, result)
			assert.True(t, errors.ErrorCodeEquals(err, tc.wantCode))
			assert.True(t, m.tx.rolledBack)
			assert.False(t, m.tx.committed)
		})
	}
}

func TestSubmit_MidPassFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newSubmitMocks(ctrl)

	t0 := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	makers := []*orderbookv1.Order{restingSellAt(2, 21, 50, 10, t0)}

	m.db.EXPECT().Begin(gomock.Any()).Return(m.tx, nil)
	m.market.EXPECT().GetByID(gomock.Any(), int64(7)).Return(&marketv1.Market{ID: 7}, nil)
	m.order.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *orderbookv1.Order) (int64, error) {
			o.ID = 99
			return 99, nil
		})
	m.order.EXPECT().
		EligibleMakers(gomock.Any(), int64(7), orderbookv1.SideBuy, orderbookv1.LimitPrice(60), gomock.Any()).
		Return(makers, nil)
	m.trade.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		Return(int64(0), stderrors.New("connection reset"))

	result, err := m.usecase().Submit(context.Background(), Request{
		MarketID: 7,
		UserID:   11,
		Kind:     "limit",
		Side:     "buy",
		Price:    "0.60",
		Quantity: 20,
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.True(t, m.tx.rolledBack, "a failure mid-pass must abort the whole transaction")
	assert.False(t, m.tx.committed)
}

func TestSubmit_ValidationFailsBeforeAnyWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newSubmitMocks(ctrl)

	// No expectations on any repository: a bad request must not touch
	// the store at all.
	result, err := m.usecase().Submit(context.Background(), Request{
		MarketID: 7,
		UserID:   11,
		Kind:     "limit",
		Side:     "buy",
		Price:    "0.50",
		Quantity: 0,
	})

	assert.Nil(t, result)
	assert.True(t, errors.ErrorCodeEquals(err, errors.InvalidQuantity))
}

func TestCancel(t *testing.T) {
	testCases := []struct {
		name     string
		mockFn   func(m *submitMocks)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			mockFn: func(m *submitMocks) {
				m.order.EXPECT().DeleteOwned(gomock.Any(), int64(42), int64(11)).Return(true, nil)
				m.logger.EXPECT().InfoContext(gomock.Any(), "order cancelled", gomock.Any(), gomock.Any())
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "unknown or not owned",
			mockFn: func(m *submitMocks) {
				m.order.EXPECT().DeleteOwned(gomock.Any(), int64(42), int64(11)).Return(false, nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, errors.OrderNotFound))
			},
		},
		{
			name: "repository error",
			mockFn: func(m *submitMocks) {
				m.order.EXPECT().DeleteOwned(gomock.Any(), int64(42), int64(11)).Return(false, stderrors.New("boom"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.False(t, errors.ErrorCodeEquals(err, errors.OrderNotFound))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := newSubmitMocks(ctrl)
			tc.mockFn(m)

			err := m.usecase().Cancel(context.Background(), 42, 11)
			tc.assertFn(t, err)
		})
	}
}
