package order

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	orderbookv1 "github.com/jacklee1792/predicord/internal/domain/orderbook/v1"
	loggerMock "github.com/jacklee1792/predicord/pkg/logger/mock"
	mockPg "github.com/jacklee1792/predicord/pkg/postgresql/mock"
)

type fakeRow struct {
	scanFn func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scanFn(dest...)
}

// sqlShape matches a SQL string by required and forbidden fragments.
type sqlShape struct {
	contains []string
	absent   []string
}

func (m sqlShape) Matches(x any) bool {
	sql, ok := x.(string)
	if !ok {
		return false
	}
	for _, fragment := range m.contains {
		if !strings.Contains(sql, fragment) {
			return false
		}
	}
	for _, fragment := range m.absent {
		if strings.Contains(sql, fragment) {
			return false
		}
	}
	return true
}

func (m sqlShape) String() string {
	return fmt.Sprintf("SQL containing %v and not containing %v", m.contains, m.absent)
}

func newRepo(t *testing.T) (*gomock.Controller, *mockPg.MockPostgreSQLClient, *repository) {
	ctrl := gomock.NewController(t)
	db := mockPg.NewMockPostgreSQLClient(ctrl)
	log := loggerMock.NewMockInterface(ctrl)
	return ctrl, db, NewRepository(db, log)
}

func TestOrder_Insert(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("limit order stores its price", func(t *testing.T) {
		_, db, repo := newRepo(t)
		price := int64(60)

		db.EXPECT().
			QueryRow(ctx, gomock.Any(),
				int64(7), int64(11), "limit", "buy", &price, int64(12), int64(12), now, (*time.Time)(nil),
			).
			Return(fakeRow{scanFn: func(dest ...any) error {
				*(dest[0].(*int64)) = 99
				return nil
			}})

		o := orderbookv1.NewOrder(7, 11, orderbookv1.KindLimit, orderbookv1.SideBuy,
			orderbookv1.LimitPrice(60), 12, now, nil)
		id, err := repo.Insert(ctx, o)

		assert.NoError(t, err)
		assert.Equal(t, int64(99), id)
		assert.Equal(t, int64(99), o.ID)
	})

	t.Run("no-limit price stored as NULL", func(t *testing.T) {
		_, db, repo := newRepo(t)

		db.EXPECT().
			QueryRow(ctx, gomock.Any(),
				int64(7), int64(11), "market", "sell", (*int64)(nil), int64(5), int64(5), now, &now,
			).
			Return(fakeRow{scanFn: func(dest ...any) error {
				*(dest[0].(*int64)) = 100
				return nil
			}})

		o := orderbookv1.NewOrder(7, 11, orderbookv1.KindMarket, orderbookv1.SideSell,
			orderbookv1.NoLimitPrice(), 5, now, &now)
		_, err := repo.Insert(ctx, o)

		assert.NoError(t, err)
	})
}

func makerRows(ctrl *gomock.Controller, makers ...*orderbookv1.Order) *mockPg.MockRowsInterface {
	rows := mockPg.NewMockRowsInterface(ctrl)
	i := 0
	rows.EXPECT().Next().DoAndReturn(func() bool {
		return i < len(makers)
	}).AnyTimes()
	rows.EXPECT().Scan(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
		gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(dest ...any) error {
			m := makers[i]
			i++
			*(dest[0].(*int64)) = m.ID
			*(dest[1].(*int64)) = m.MarketID
			*(dest[2].(*int64)) = m.UserID
			*(dest[3].(*string)) = string(m.Kind)
			*(dest[4].(*string)) = string(m.Side)
			if !m.Price.NoLimit {
				cents := m.Price.Cents
				*(dest[5].(**int64)) = &cents
			}
			*(dest[6].(*int64)) = m.Quantity
			*(dest[7].(*int64)) = m.Remaining
			*(dest[8].(*time.Time)) = m.CreatedAt
			*(dest[9].(**time.Time)) = m.ExpiresAt
			return nil
		}).
		Times(len(makers))
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close()
	return rows
}

func TestOrder_EligibleMakers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("buy taker loads sells at or below its limit", func(t *testing.T) {
		ctrl, db, repo := newRepo(t)
		maker := &orderbookv1.Order{
			ID: 2, MarketID: 7, UserID: 21,
			Kind: orderbookv1.KindLimit, Side: orderbookv1.SideSell,
			Price: orderbookv1.LimitPrice(50), Quantity: 10, Remaining: 10, CreatedAt: now,
		}

		db.EXPECT().
			Query(ctx, sqlShape{
				contains: []string{
					"side = 'sell'",
					"price_cents <= $3",
					"price_cents IS NOT NULL",
					"expires_at IS NULL OR expires_at > $2",
					"ORDER BY price_cents ASC, created_at ASC, id ASC FOR UPDATE",
				},
			}, int64(7), now, int64(60)).
			Return(makerRows(ctrl, maker), nil)

		makers, err := repo.EligibleMakers(ctx, 7, orderbookv1.SideBuy, orderbookv1.LimitPrice(60), now)

		assert.NoError(t, err)
		if assert.Len(t, makers, 1) {
			assert.Equal(t, int64(2), makers[0].ID)
			assert.Equal(t, orderbookv1.LimitPrice(50), makers[0].Price)
		}
	})

	t.Run("sell taker loads buys at or above its limit, best bid first", func(t *testing.T) {
		ctrl, db, repo := newRepo(t)

		db.EXPECT().
			Query(ctx, sqlShape{
				contains: []string{
					"side = 'buy'",
					"price_cents >= $3",
					"ORDER BY price_cents DESC, created_at ASC, id ASC FOR UPDATE",
				},
			}, int64(7), now, int64(65)).
			Return(makerRows(ctrl), nil)

		makers, err := repo.EligibleMakers(ctx, 7, orderbookv1.SideSell, orderbookv1.LimitPrice(65), now)

		assert.NoError(t, err)
		assert.Empty(t, makers)
	})

	t.Run("no-limit taker has no price filter", func(t *testing.T) {
		ctrl, db, repo := newRepo(t)

		db.EXPECT().
			Query(ctx, sqlShape{
				contains: []string{"side = 'sell'"},
				absent:   []string{"$3"},
			}, int64(7), now).
			Return(makerRows(ctrl), nil)

		makers, err := repo.EligibleMakers(ctx, 7, orderbookv1.SideBuy, orderbookv1.NoLimitPrice(), now)

		assert.NoError(t, err)
		assert.Empty(t, makers)
	})
}

func TestOrder_DeleteOwned(t *testing.T) {
	ctx := context.Background()

	t.Run("owned order deleted", func(t *testing.T) {
		_, db, repo := newRepo(t)

		db.EXPECT().
			Exec(ctx, gomock.Any(), int64(42), int64(11)).
			Return(pgconn.NewCommandTag("DELETE 1"), nil)

		deleted, err := repo.DeleteOwned(ctx, 42, 11)
		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("unknown or foreign order reports false", func(t *testing.T) {
		_, db, repo := newRepo(t)

		db.EXPECT().
			Exec(ctx, gomock.Any(), int64(42), int64(12)).
			Return(pgconn.NewCommandTag("DELETE 0"), nil)

		deleted, err := repo.DeleteOwned(ctx, 42, 12)
		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestOrder_Depth(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	levelRows := func(ctrl *gomock.Controller, levels ...orderbookv1.Level) *mockPg.MockRowsInterface {
		rows := mockPg.NewMockRowsInterface(ctrl)
		i := 0
		rows.EXPECT().Next().DoAndReturn(func() bool {
			return i < len(levels)
		}).AnyTimes()
		rows.EXPECT().Scan(gomock.Any(), gomock.Any()).
			DoAndReturn(func(dest ...any) error {
				*(dest[0].(*int64)) = levels[i].PriceCents
				*(dest[1].(*int64)) = levels[i].Quantity
				i++
				return nil
			}).
			Times(len(levels))
		rows.EXPECT().Err().Return(nil)
		rows.EXPECT().Close()
		return rows
	}

	t.Run("bids aggregated best price first", func(t *testing.T) {
		ctrl, db, repo := newRepo(t)

		db.EXPECT().
			Query(ctx, sqlShape{
				contains: []string{
					"SUM(quantity_remaining)",
					"GROUP BY price_cents ORDER BY price_cents DESC",
					"expires_at IS NULL OR expires_at > $3",
				},
			}, int64(7), "buy", now).
			Return(levelRows(ctrl,
				orderbookv1.Level{PriceCents: 70, Quantity: 8},
				orderbookv1.Level{PriceCents: 50, Quantity: 12},
			), nil)

		levels, err := repo.Depth(ctx, 7, orderbookv1.SideBuy, now)

		assert.NoError(t, err)
		assert.Equal(t, []orderbookv1.Level{
			{PriceCents: 70, Quantity: 8},
			{PriceCents: 50, Quantity: 12},
		}, levels)
	})

	t.Run("asks ascend", func(t *testing.T) {
		ctrl, db, repo := newRepo(t)

		db.EXPECT().
			Query(ctx, sqlShape{
				contains: []string{"GROUP BY price_cents ORDER BY price_cents ASC"},
			}, int64(7), "sell", now).
			Return(levelRows(ctrl), nil)

		levels, err := repo.Depth(ctx, 7, orderbookv1.SideSell, now)

		assert.NoError(t, err)
		assert.Empty(t, levels)
	})
}
