package engine

import (
	"context"

	"github.com/segmentio/kafka-go"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
	orderreaderv1 "github.com/jacklee1792/predicord/internal/domain/order-reader/v1"
	"github.com/jacklee1792/predicord/internal/infrastructure/postgresql/user"
	"github.com/jacklee1792/predicord/internal/usecase/order"
	"github.com/jacklee1792/predicord/pkg/logger"
	"github.com/jacklee1792/predicord/pkg/util"
)

// Engine consumes order submissions from the order topic and feeds them
// through the matching pass one at a time. Matching itself is synchronous
// per message; the engine is just the ingress loop around it.
type Engine struct {
	orderUsecase   order.Usecase
	orderReader    orderreaderv1.OrderReader
	userRepository user.UserRepository
	logger         logger.Interface

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates a new engine with the provided dependencies.
func NewEngine(
	orderUsecase order.Usecase,
	orderReader orderreaderv1.OrderReader,
	userRepository user.UserRepository,
	logger logger.Interface,
) *Engine {
	return &Engine{
		orderUsecase:   orderUsecase,
		orderReader:    orderReader,
		userRepository: userRepository,
		logger:         logger,
	}
}

// Start begins consuming order submissions.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.done = make(chan struct{})

	go e.runOrderProcessor()

	e.logger.Info("engine started")
	return nil
}

// Stop gracefully shuts down the engine. The processor signals its own
// exit, so a timed-out Stop leaves no goroutine behind beyond the
// processor itself.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel == nil {
		return nil
	}
	e.cancel()

	select {
	case <-e.done:
		e.logger.Info("engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("engine stop timeout exceeded")
		return ctx.Err()
	}
}

func (e *Engine) runOrderProcessor() {
	defer close(e.done)

	for {
		select {
		case <-e.ctx.Done():
			return
		default:
		}

		msg, payload, err := e.orderReader.ReadMessage(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			// Read and unmarshal failures are already logged by the
			// reader; skip to the next message.
			continue
		}

		e.processPayload(msg, payload)
	}
}

// processPayload runs one submission end to end. A rejected order is
// still committed: the failure belongs to that order, not to the stream.
func (e *Engine) processPayload(msg kafka.Message, payload *orderreaderv1.PlaceOrderPayload) {
	ctx := util.WithRequestID(e.ctx, util.NewRequestID())

	if payload.UserName != "" {
		err := e.userRepository.Upsert(ctx, &marketv1.User{
			ID:        payload.UserID,
			Name:      payload.UserName,
			AvatarURL: payload.AvatarURL,
		})
		if err != nil {
			// Identity refresh is cosmetic; the order still stands.
			e.logger.WarnContext(ctx, "failed to upsert user identity",
				logger.NewField("userId", payload.UserID),
				logger.NewField("error", err.Error()),
			)
		}
	}

	result, err := e.orderUsecase.Submit(ctx, order.Request{
		MarketID: payload.MarketID,
		UserID:   payload.UserID,
		Kind:     payload.Kind,
		Side:     payload.Side,
		Price:    payload.Price,
		Quantity: payload.Quantity,
		Duration: payload.Duration,
	})
	if err != nil {
		e.logger.WarnContext(ctx, "order rejected",
			logger.NewField("marketId", payload.MarketID),
			logger.NewField("userId", payload.UserID),
			logger.NewField("offset", payload.Offset),
			logger.NewField("error", err.Error()),
		)
	} else {
		e.logger.InfoContext(ctx, "order processed",
			logger.NewField("orderId", result.OrderID),
			logger.NewField("trades", len(result.Trades)),
			logger.NewField("offset", payload.Offset),
		)
	}

	if err := e.orderReader.CommitMessages(ctx, msg); err != nil {
		e.logger.ErrorContext(ctx, err,
			logger.NewField("offset", payload.Offset),
		)
	}
}
