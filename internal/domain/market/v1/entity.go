package marketv1

import (
	"time"
)

// Market represents a single outcome market. Outcome, payout and
// resolution time are set together, exactly once, when the market is
// resolved.
type Market struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	CreatorID   int64      `json:"creatorID"`
	CreatedAt   time.Time  `json:"createdAt"`
	Outcome     *string    `json:"outcome"`
	PayoutCents *int64     `json:"payoutCents"`
	ResolvedAt  *time.Time `json:"resolvedAt"`
}

// IsResolved checks if the market has been resolved.
func (m *Market) IsResolved() bool {
	return m.ResolvedAt != nil
}

// Trade represents one executed fill. Trades are append-only and are the
// sole source of truth for settlement.
type Trade struct {
	ID         int64     `json:"id"`
	MarketID   int64     `json:"marketID"`
	BuyerID    int64     `json:"buyerID"`
	SellerID   int64     `json:"sellerID"`
	PriceCents int64     `json:"priceCents"`
	Quantity   int64     `json:"quantity"`
	ExecutedAt time.Time `json:"executedAt"`
}

// User is an identity record. Orders and trades reference users by id
// only.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarURL"`
}
