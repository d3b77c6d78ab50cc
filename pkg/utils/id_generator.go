package utils

import (
	"context"

	"github.com/google/uuid"
)

type correlationIDKey struct{}

// GenerateCorrelationID generates a new correlation ID for a request
func GenerateCorrelationID() string {
	return uuid.New().String()
}

// WithCorrelationID returns a copy of ctx carrying the correlation ID
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID carried by ctx, or ""
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
