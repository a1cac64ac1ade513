// Package messagequeue defines the message queue port (interface).
package messagequeue

import (
	"context"
	"time"
)

// Subject constants for the queue subjects used across services.
const (
	// SubjectFulfillmentCompleted carries order envelopes from the
	// Fulfillment service to the Invoice worker.
	SubjectFulfillmentCompleted = "fulfillments.completed"
)

// Message is one delivered queue message. A message stays in flight until
// it is acknowledged; a consumer crash before Ack causes redelivery
// (at-least-once semantics).
type Message interface {
	// Data returns the message body.
	Data() []byte

	// Ack acknowledges successful processing, removing the message.
	Ack() error

	// Nak signals failed processing, requesting redelivery.
	Nak() error
}

// Queue is the port interface for publishing and pull-consuming messages.
type Queue interface {
	// Publish sends a message to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Fetch pulls up to batch messages, waiting at most wait for the first
	// one. An empty slice means the queue reported no messages.
	Fetch(ctx context.Context, batch int, wait time.Duration) ([]Message, error)

	// Close shuts down the queue connection.
	Close() error
}
