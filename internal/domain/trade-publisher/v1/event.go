package tradepublisherv1

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	marketv1 "github.com/jacklee1792/predicord/internal/domain/market/v1"
)

// TradeEvent is the wire representation of one executed trade, published
// after the transaction that recorded it has committed.
type TradeEvent struct {
	EventID    string    `json:"eventId"`
	TradeID    int64     `json:"tradeId"`
	MarketID   int64     `json:"marketId"`
	BuyerID    int64     `json:"buyerId"`
	SellerID   int64     `json:"sellerId"`
	PriceCents int64     `json:"priceCents"`
	Quantity   int64     `json:"quantity"`
	ExecutedAt time.Time `json:"executedAt"`
}

// CreateFromTrade builds a TradeEvent from a persisted trade, assigning a
// fresh event id.
func CreateFromTrade(t *marketv1.Trade) *TradeEvent {
	return &TradeEvent{
		EventID:    ulid.Make().String(),
		TradeID:    t.ID,
		MarketID:   t.MarketID,
		BuyerID:    t.BuyerID,
		SellerID:   t.SellerID,
		PriceCents: t.PriceCents,
		Quantity:   t.Quantity,
		ExecutedAt: t.ExecutedAt,
	}
}

// ToBytes serializes the event for the wire.
func (e *TradeEvent) ToBytes() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// FromBytes deserializes an event from the wire.
func FromBytes(data []byte) (*TradeEvent, error) {
	var event TradeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
