package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/saasmesh/saasmesh/internal/identity"
)

const tracerName = "saasmesh"

// StartInvoiceSpan starts a span for processing one queued order envelope.
// The tenant annotations mirror what the request path gets from HTTP
// instrumentation, so traces stay correlatable across the queue hop.
func StartInvoiceSpan(ctx context.Context, eventID string, id identity.TenantIdentity) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "invoice.process",
		trace.WithAttributes(
			attribute.String("event.id", eventID),
			attribute.String("tenant.id", id.TenantID),
			attribute.String("tenant.tier", id.TenantTier),
		),
	)
}

// StartDispatchSpan starts a span for a cross-service fan-out call.
func StartDispatchSpan(ctx context.Context, target, orderID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "dispatch",
		trace.WithAttributes(
			attribute.String("dispatch.target", target),
			attribute.String("order.id", orderID),
		),
	)
}
