package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// InvalidPrice represents an order request whose price is not a valid decimal amount.
	InvalidPrice ErrorCode = "invalid_price"
	// InvalidQuantity represents an order request whose quantity is not a positive integer.
	InvalidQuantity ErrorCode = "invalid_quantity"
	// InvalidDuration represents an order request whose expiry expression cannot be parsed.
	InvalidDuration ErrorCode = "invalid_duration"
	// InvalidOrderKind represents an order request whose kind is neither market nor limit.
	InvalidOrderKind ErrorCode = "invalid_order_kind"
	// InvalidOrderSide represents an order request whose side is neither buy nor sell.
	InvalidOrderSide ErrorCode = "invalid_order_side"

	// MarketNotFound represents a reference to a market id that does not exist.
	MarketNotFound ErrorCode = "market_not_found"
	// MarketResolved represents an order against a market that has already been resolved.
	MarketResolved ErrorCode = "market_resolved"
	// MarketAlreadyResolved represents an attempt to resolve a market twice.
	MarketAlreadyResolved ErrorCode = "market_already_resolved"
	// MarketNotResolved represents a settlement read that requires a payout
	// the market has not published yet.
	MarketNotResolved ErrorCode = "market_not_resolved"
	// OrderNotFound represents a cancellation of an order that does not exist
	// or is not owned by the caller. The two cases are deliberately not
	// distinguished so order existence does not leak across users.
	OrderNotFound ErrorCode = "order_not_found"
)
