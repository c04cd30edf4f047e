// Package queue moves queued notifications from RabbitMQ to the mail
// transport.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/ports"
)

const (
	prefetch   = 20
	maxBackoff = 30 * time.Second
)

// Consumer reads notifications from a durable queue and hands them to a
// Dispatcher, acknowledging each one once it was delivered.
type Consumer struct {
	url        string
	queue      string
	dispatcher *Dispatcher
	log        zerolog.Logger
}

func NewConsumer(url, queue string, dispatcher *Dispatcher, log zerolog.Logger) *Consumer {
	return &Consumer{url: url, queue: queue, dispatcher: dispatcher, log: log}
}

// Run consumes until ctx is cancelled, reconnecting with exponential backoff
// whenever the broker connection drops.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("notification consumer disconnected")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}

func (c *Consumer) session(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	deliveries, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	c.log.Info().Str("queue", c.queue).Msg("notification consumer started")

	for d := range deliveries {
		if err := c.handle(ctx, d); err != nil {
			return err
		}
	}
	return errors.New("deliveries channel closed")
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) error {
	return c.dispatch(ctx, d.Body, d.Redelivered, d)
}

// dispatch decodes one delivery and schedules it. Malformed bodies are
// dropped; failed sends are requeued once, then dropped.
func (c *Consumer) dispatch(ctx context.Context, body []byte, redelivered bool, ack acknowledger) error {
	var msg ports.Message
	if err := json.Unmarshal(body, &msg); err != nil || msg.To == "" {
		c.log.Error().Err(err).Msg("dropping malformed notification")
		_ = ack.Nack(false, false)
		return nil
	}
	return c.dispatcher.Enqueue(ctx, Job{
		Message: msg,
		Done: func(err error) {
			if err == nil {
				_ = ack.Ack(false)
				return
			}
			_ = ack.Nack(false, !redelivered)
		},
	})
}
