package engine

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
	orderreaderv1 "github.com/jacklee1792/predicord/internal/domain/order-reader/v1"
	mockReader "github.com/jacklee1792/predicord/internal/domain/order-reader/v1/mock"
	mockUser "github.com/jacklee1792/predicord/internal/infrastructure/postgresql/user/mock"
	"github.com/jacklee1792/predicord/internal/usecase/order"
	mockOrder "github.com/jacklee1792/predicord/internal/usecase/order/mock"
	loggerMock "github.com/jacklee1792/predicord/pkg/logger/mock"
)

type engineMocks struct {
	reader  *mockReader.MockOrderReader
	usecase *mockOrder.MockUsecase
	users   *mockUser.MockUserRepository
	logger  *loggerMock.MockInterface
}

func newEngineMocks(ctrl *gomock.Controller) *engineMocks {
	m := &engineMocks{
		reader:  mockReader.NewMockOrderReader(ctrl),
		usecase: mockOrder.NewMockUsecase(ctrl),
		users:   mockUser.NewMockUserRepository(ctrl),
		logger:  loggerMock.NewMockInterface(ctrl),
	}
	m.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	m.logger.EXPECT().InfoContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().WarnContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	m.logger.EXPECT().WarnContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	return m
}

func (m *engineMocks) engine() *Engine {
	return NewEngine(m.usecase, m.reader, m.users, m.logger)
}

// blockUntilCancelled makes subsequent reads park on the engine context
// so the loop exits cleanly on Stop.
func (m *engineMocks) blockUntilCancelled() {
	m.reader.EXPECT().
		ReadMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, *orderreaderv1.PlaceOrderPayload, error) {
			<-ctx.Done()
			return kafka.Message{}, nil, ctx.Err()
		}).
		AnyTimes()
}

func TestEngine_ProcessesSubmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newEngineMocks(ctrl)

	payload := &orderreaderv1.PlaceOrderPayload{
		MarketID:  7,
		UserID:    11,
		UserName:  "alice",
		AvatarURL: "https://cdn.example/a.png",
		Kind:      "limit",
		Side:      "buy",
		Price:     "0.60",
		Quantity:  12,
	}
	msg := kafka.Message{Offset: 42}

	var committed atomic.Bool

	first := m.reader.EXPECT().ReadMessage(gomock.Any()).Return(msg, payload, nil)
	m.reader.EXPECT().
		ReadMessage(gomock.Any()).
		After(first).
		DoAndReturn(func(ctx context.Context) (kafka.Message, *orderreaderv1.PlaceOrderPayload, error) {
			<-ctx.Done()
			return kafka.Message{}, nil, ctx.Err()
		}).
		AnyTimes()

	m.users.EXPECT().
		Upsert(gomock.Any(), &marketv1.User{ID: 11, Name: "alice", AvatarURL: "https://cdn.example/a.png"}).
		Return(nil)
	m.usecase.EXPECT().
		Submit(gomock.Any(), order.Request{
			MarketID: 7,
			UserID:   11,
			Kind:     "limit",
			Side:     "buy",
			Price:    "0.60",
			Quantity: 12,
		}).
		Return(&order.Result{OrderID: 99, Remaining: 12}, nil)
	m.reader.EXPECT().
		CommitMessages(gomock.Any(), msg).
		DoAndReturn(func(context.Context, ...kafka.Message) error {
			committed.Store(true)
			return nil
		})

	e := m.engine()
	assert.NoError(t, e.Start(context.Background()))

	assert.Eventually(t, committed.Load, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, e.Stop(stopCtx))
}

func TestEngine_RejectedOrderStillCommitted(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newEngineMocks(ctrl)

	payload := &orderreaderv1.PlaceOrderPayload{
		MarketID: 7,
		UserID:   11,
		Kind:     "limit",
		Side:     "buy",
		Price:    "nonsense",
		Quantity: 12,
	}
	msg := kafka.Message{Offset: 43}

	var committed atomic.Bool

	first := m.reader.EXPECT().ReadMessage(gomock.Any()).Return(msg, payload, nil)
	m.reader.EXPECT().
		ReadMessage(gomock.Any()).
		After(first).
		DoAndReturn(func(ctx context.Context) (kafka.Message, *orderreaderv1.PlaceOrderPayload, error) {
			<-ctx.Done()
			return kafka.Message{}, nil, ctx.Err()
		}).
		AnyTimes()

	m.usecase.EXPECT().
		Submit(gomock.Any(), gomock.Any()).
		Return(nil, stderrors.New("price must be a non-negative decimal amount"))
	m.reader.EXPECT().
		CommitMessages(gomock.Any(), msg).
		DoAndReturn(func(context.Context, ...kafka.Message) error {
			committed.Store(true)
			return nil
		})

	e := m.engine()
	assert.NoError(t, e.Start(context.Background()))

	assert.Eventually(t, committed.Load, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, e.Stop(stopCtx))
}

func TestEngine_StopTimesOutWhenProcessorIsStuck(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newEngineMocks(ctrl)

	block := make(chan struct{})
	entered := make(chan struct{})
	var enterOnce sync.Once
	m.reader.EXPECT().
		ReadMessage(gomock.Any()).
		DoAndReturn(func(context.Context) (kafka.Message, *orderreaderv1.PlaceOrderPayload, error) {
			enterOnce.Do(func() { close(entered) })
			<-block
			return kafka.Message{}, nil, stderrors.New("broker unreachable")
		}).
		AnyTimes()

	e := m.engine()
	assert.NoError(t, e.Start(context.Background()))

	// Wait for the processor to park inside ReadMessage so Stop races
	// against a genuinely stuck read, not the goroutine's startup.
	<-entered

	stopCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Stop(stopCtx), context.DeadlineExceeded)

	// Release the read so the processor drains and nothing outlives the
	// test.
	close(block)
}

func TestEngine_StopWithoutTraffic(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := newEngineMocks(ctrl)
	m.blockUntilCancelled()

	e := m.engine()
	assert.NoError(t, e.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, e.Stop(stopCtx))
}
