package tradepublisher

import (
	"context"

	"github.com/segmentio/kafka-go"

	tradepublisherv1 "github.com/jacklee1792/predicord/internal/domain/trade-publisher/v1"
	"github.com/jacklee1792/predicord/pkg/config"
	"github.com/jacklee1792/predicord/pkg/errors"
	"github.com/jacklee1792/predicord/pkg/logger"
)

// Publisher publishes trade events to the trade topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for trade events.
func NewPublisher(cfg config.KafkaConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishTradeEvent publishes a single trade event.
func (p *Publisher) PublishTradeEvent(ctx context.Context, event *tradepublisherv1.TradeEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: event.ToBytes(),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "tradeId", Value: event.TradeID},
		)
		return errors.NewTracer("failed to publish trade event")
	}
	return nil
}

// Close properly closes the Kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
