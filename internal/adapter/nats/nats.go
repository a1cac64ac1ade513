// Package nats implements the message queue port using NATS JetStream.
package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/saasmesh/saasmesh/internal/port/messagequeue"
)

const streamName = "SAASMESH"

// Queue implements messagequeue.Queue using NATS JetStream.
type Queue struct {
	nc   *nats.Conn
	js   jetstream.JetStream
	cons jetstream.Consumer
}

// Connect establishes a connection to NATS and ensures the JetStream stream
// exists with subjects matching our topic patterns.
func Connect(ctx context.Context, url string) (*Queue, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"fulfillments.>"},
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream stream create: %w", err)
	}

	slog.Info("nats connected", "url", url, "stream", streamName)
	return &Queue{nc: nc, js: js}, nil
}

// Publish sends a message to the given subject.
func (q *Queue) Publish(ctx context.Context, subject string, data []byte) error {
	_, err := q.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// BindConsumer creates or updates the durable pull consumer used by Fetch.
// Explicit acks give at-least-once delivery: a message stays in flight
// until the worker acks it, and a crash mid-processing triggers redelivery.
func (q *Queue) BindConsumer(ctx context.Context, durable, subject string) error {
	cons, err := q.js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		Durable:       durable,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("nats consumer create: %w", err)
	}
	q.cons = cons
	return nil
}

// Fetch pulls up to batch messages from the bound consumer, waiting at most
// wait for the first one. An empty slice means the queue is drained.
func (q *Queue) Fetch(_ context.Context, batch int, wait time.Duration) ([]messagequeue.Message, error) {
	if q.cons == nil {
		return nil, fmt.Errorf("nats fetch: no consumer bound")
	}

	res, err := q.cons.Fetch(batch, jetstream.FetchMaxWait(wait))
	if err != nil {
		return nil, fmt.Errorf("nats fetch: %w", err)
	}

	var msgs []messagequeue.Message
	for m := range res.Messages() {
		msgs = append(msgs, &message{m})
	}
	if err := res.Error(); err != nil {
		return msgs, fmt.Errorf("nats fetch: %w", err)
	}
	return msgs, nil
}

// Close shuts down the NATS connection.
func (q *Queue) Close() error {
	q.nc.Close()
	return nil
}

// message adapts a jetstream.Msg to the messagequeue.Message port.
type message struct {
	msg jetstream.Msg
}

func (m *message) Data() []byte { return m.msg.Data() }
func (m *message) Ack() error   { return m.msg.Ack() }
func (m *message) Nak() error   { return m.msg.Nak() }
