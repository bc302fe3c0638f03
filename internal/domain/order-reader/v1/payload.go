package orderreaderv1

// PlaceOrderPayload is the wire representation of an order submission
// consumed from the order topic. User name and avatar travel with the
// order so the identity record can be refreshed without a separate call.
type PlaceOrderPayload struct {
	MarketID  int64  `json:"marketId"`
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName"`
	AvatarURL string `json:"avatarUrl"`
	Kind      string `json:"kind"`
	Side      string `json:"side"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
	Duration  string `json:"duration"`

	// Offset is the topic offset the payload was read from.
	Offset int64 `json:"-"`
}
