package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// OrderReader consumes order submissions from the order topic.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type OrderReader interface {
	// ReadMessage blocks until the next order submission arrives.
	ReadMessage(ctx context.Context) (kafka.Message, *PlaceOrderPayload, error)
	// CommitMessages marks messages as processed.
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close releases the underlying transport.
	Close() error
}
