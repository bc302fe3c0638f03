package tradepublisherv1

import "context"

// Publisher publishes trade events to downstream consumers.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type Publisher interface {
	// PublishTradeEvent publishes a single trade event.
	PublishTradeEvent(ctx context.Context, event *TradeEvent) error
	// Close releases the underlying transport.
	Close() error
}
