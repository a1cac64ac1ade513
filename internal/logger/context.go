package logger

import (
	"context"
	"log/slog"

	"github.com/saasmesh/saasmesh/internal/identity"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// requestIDKey is the context key for the request ID.
var requestIDKey = contextKey{}

// WithRequestID returns a new context with the given request ID stored.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID extracts the request ID from the context.
// Returns an empty string if no request ID is set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// TenantAttrs returns the standard per-tenant log attributes for ctx:
// request id plus tenant id and tier when an identity was derived.
// Every request- or message-scoped log line should carry these.
func TenantAttrs(ctx context.Context) []any {
	attrs := make([]any, 0, 6)
	if rid := RequestID(ctx); rid != "" {
		attrs = append(attrs, "request_id", rid)
	}
	if id := identity.FromContext(ctx); id.Valid() {
		attrs = append(attrs, "tenant_id", id.TenantID, "tenant_tier", id.TenantTier)
	}
	return attrs
}

// Log is a convenience wrapper that records msg at the given level with the
// tenant attributes from ctx prepended.
func Log(ctx context.Context, log *slog.Logger, level slog.Level, msg string, args ...any) {
	log.Log(ctx, level, msg, append(TenantAttrs(ctx), args...)...)
}
