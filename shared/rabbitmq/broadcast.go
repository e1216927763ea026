package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/rosterly/rosterly-be/internal/schedule"
)

// Publish fans out a named event to all current subscribers of a channel.
// Messages are transient and the subscriber queues are auto-delete, so a
// subscriber that connects after Publish returns never sees the event.
func (c *Client) Publish(ctx context.Context, channel, event string, payload any) error {
	if channel == "" {
		return fmt.Errorf("broadcast channel is required")
	}
	if event == "" {
		return fmt.Errorf("broadcast event name is required")
	}

	if !c.IsConnected() {
		return fmt.Errorf("%w: not connected", schedule.ErrBroadcastUnavailable)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	body, err := json.Marshal(schedule.Envelope{Event: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		c.config.BroadcastExchange, // exchange
		channel,                    // routing key = channel address
		false,                      // mandatory
		false,                      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Transient,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", schedule.ErrBroadcastUnavailable, err)
	}

	c.logger.Debug("Event broadcast",
		slog.String("channel", channel),
		slog.String("event", event),
	)

	return nil
}

// Subscribe binds an exclusive, auto-delete queue to the broadcast exchange
// for one channel address and decodes envelopes until ctx ends or Close is
// called. Each subscription holds its own AMQP channel.
func (c *Client) Subscribe(ctx context.Context, channel string) (schedule.Subscription, error) {
	if channel == "" {
		return nil, fmt.Errorf("broadcast channel is required")
	}

	if !c.IsConnected() {
		return nil, fmt.Errorf("%w: not connected", schedule.ErrBroadcastUnavailable)
	}

	amqpCh, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", schedule.ErrBroadcastUnavailable, err)
	}

	q, err := amqpCh.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		amqpCh.Close()
		return nil, fmt.Errorf("%w: %v", schedule.ErrBroadcastUnavailable, err)
	}

	if err := amqpCh.QueueBind(q.Name, channel, c.config.BroadcastExchange, false, nil); err != nil {
		amqpCh.Close()
		return nil, fmt.Errorf("%w: %v", schedule.ErrBroadcastUnavailable, err)
	}

	deliveries, err := amqpCh.Consume(
		q.Name, // queue
		"",     // consumer tag
		true,   // auto-ack: best-effort delivery, no redelivery
		true,   // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		amqpCh.Close()
		return nil, fmt.Errorf("%w: %v", schedule.ErrBroadcastUnavailable, err)
	}

	sub := &subscription{
		amqpCh: amqpCh,
		events: make(chan schedule.Envelope, 16),
		done:   make(chan struct{}),
	}

	go sub.pump(ctx, deliveries, c.logger.With(slog.String("channel", channel)))

	c.logger.Debug("Broadcast subscription opened",
		slog.String("channel", channel),
		slog.String("subscriber_queue", q.Name),
	)

	return sub, nil
}

type subscription struct {
	amqpCh    *amqp.Channel
	events    chan schedule.Envelope
	done      chan struct{}
	closeOnce sync.Once
}

func (s *subscription) Events() <-chan schedule.Envelope {
	return s.events
}

func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.amqpCh.Close()
	})
	return nil
}

func (s *subscription) pump(ctx context.Context, deliveries <-chan amqp.Delivery, logger *slog.Logger) {
	defer close(s.events)

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-s.done:
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}

			var env schedule.Envelope
			if err := json.Unmarshal(d.Body, &env); err != nil {
				logger.Warn("Dropping malformed broadcast envelope",
					slog.Any("error", err),
				)
				continue
			}

			select {
			case s.events <- env:
			case <-s.done:
				return
			case <-ctx.Done():
				s.Close()
				return
			}
		}
	}
}
