package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	orderreaderv1 "github.com/jacklee1792/predicord/internal/domain/order-reader/v1"
	"github.com/jacklee1792/predicord/pkg/config"
	"github.com/jacklee1792/predicord/pkg/logger"
)

// Reader consumes order submissions from the order topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface
}

// NewReader creates a new Kafka reader for the order topic. It returns an
// implementation of the OrderReader interface.
func NewReader(cfg config.KafkaConfig, log logger.Interface) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// ReadMessage reads the next message from the order topic and parses it
// as a PlaceOrderPayload.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.PlaceOrderPayload, error) {
	msg, err := r.kafkaReader.FetchMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{}, nil, err
	}

	var payload orderreaderv1.PlaceOrderPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		r.logError(err, "UnmarshalOrder")
		return kafka.Message{}, nil, err
	}

	r.logger.Info("ReadMessage",
		logger.Field{Key: "marketId", Value: payload.MarketID},
		logger.Field{Key: "userId", Value: payload.UserID},
		logger.Field{Key: "kind", Value: payload.Kind},
		logger.Field{Key: "side", Value: payload.Side},
		logger.Field{Key: "quantity", Value: payload.Quantity},
	)

	payload.Offset = msg.Offset

	return msg, &payload, nil
}

// CommitMessages commits the messages to Kafka after processing.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := r.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		r.logError(err, "CommitMessages")
		return err
	}
	return nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
