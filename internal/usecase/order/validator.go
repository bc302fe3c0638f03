package order

import (
	"time"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/jacklee1792/predicord/internal/domain/orderbook/v1"
	"github.com/jacklee1792/predicord/pkg/errors"
	"github.com/jacklee1792/predicord/pkg/util"
)

// centsPerUnit is the fixed-point scale applied uniformly to price
// storage, arithmetic and display.
const centsPerUnit = 100

// Request is a raw order submission as it arrives from a caller, before
// any validation.
type Request struct {
	MarketID int64
	UserID   int64
	Kind     string
	Side     string
	Price    string
	Quantity int64
	Duration string
}

// Validate normalizes a raw request into an order, or fails with a typed
// error before anything is written. Market orders ignore the supplied
// price and duration: they carry the no-limit price and an expiry already
// in the past, so they can never rest on the book.
func Validate(req Request, now time.Time) (*orderbookv1.Order, error) {
	kind := orderbookv1.Kind(req.Kind)
	if kind != orderbookv1.KindMarket && kind != orderbookv1.KindLimit {
		return nil, errors.TracerFromError(errors.NewErrorDetailsWithObject(
			"order kind must be market or limit",
			string(errors.InvalidOrderKind),
			"kind",
			req.Kind,
		))
	}

	side := orderbookv1.Side(req.Side)
	if side != orderbookv1.SideBuy && side != orderbookv1.SideSell {
		return nil, errors.TracerFromError(errors.NewErrorDetailsWithObject(
			"order side must be buy or sell",
			string(errors.InvalidOrderSide),
			"side",
			req.Side,
		))
	}

	if req.Quantity <= 0 {
		return nil, errors.TracerFromError(errors.NewErrorDetailsWithObject(
			"order quantity must be a positive integer",
			string(errors.InvalidQuantity),
			"quantity",
			req.Quantity,
		))
	}

	if kind == orderbookv1.KindMarket {
		// Expired from birth: a market order is matched once inside its
		// own transaction and discarded, never eligible as a maker.
		return orderbookv1.NewOrder(
			req.MarketID, req.UserID, kind, side,
			orderbookv1.NoLimitPrice(), req.Quantity, now, util.TimePointer(now),
		), nil
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	expiresAt, err := ParseExpiry(req.Duration, now)
	if err != nil {
		return nil, err
	}

	return orderbookv1.NewOrder(
		req.MarketID, req.UserID, kind, side,
		price, req.Quantity, now, expiresAt,
	), nil
}

// parsePrice converts a decimal currency string into integer cents.
// Negative, non-numeric and sub-cent amounts are rejected.
func parsePrice(raw string) (orderbookv1.Price, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return orderbookv1.Price{}, invalidPrice(raw)
	}
	if amount.IsNegative() {
		return orderbookv1.Price{}, invalidPrice(raw)
	}

	cents := amount.Mul(decimal.NewFromInt(centsPerUnit))
	if !cents.IsInteger() {
		return orderbookv1.Price{}, invalidPrice(raw)
	}

	return orderbookv1.LimitPrice(cents.IntPart()), nil
}

func invalidPrice(raw string) error {
	return errors.TracerFromError(errors.NewErrorDetailsWithObject(
		"price must be a non-negative decimal amount with at most cent precision",
		string(errors.InvalidPrice),
		"price",
		raw,
	))
}
