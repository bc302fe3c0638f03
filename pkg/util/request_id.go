package util

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type key string

const requestIDKey = key("x-request-id")

// WithRequestID returns a context carrying the given request id.
// It will generate a new request id if the provided id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return context.WithValue(ctx, requestIDKey, NewRequestID())
	}

	return context.WithValue(ctx, requestIDKey, id)
}

// NewRequestID returns a ulid string to use as request id.
func NewRequestID() string {
	return ulid.Make().String()
}

// GetRequestID returns the request id from ctx if available.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}
