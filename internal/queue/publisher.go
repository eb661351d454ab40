package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultPublishTimeout = 2 * time.Second

// Queues declared on start-up. Each notification type is routed to the queue of
// the same name through the default exchange.
var Queues = []domain.NotificationType{
	domain.NotificationBookingConfirmed,
	domain.NotificationBookingCheckedIn,
	domain.NotificationBookingDeleted,
}

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends booking notifications as persistent JSON messages. Failures are
// logged and never reach the caller.
type Publisher struct {
	mu      sync.Mutex
	ch      Channel
	conn    *amqp.Connection
	logger  *slog.Logger
	timeout time.Duration
}

// Dial connects to the broker at url and declares the booking queues.
func Dial(url string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}

	p, err := NewPublisher(ch, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	p.conn = conn

	return p, nil
}

func NewPublisher(ch Channel, logger *slog.Logger) (*Publisher, error) {
	for _, q := range Queues {
		// durable so messages survive broker restarts
		_, err := ch.QueueDeclare(string(q), true, false, false, false, nil)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: queue declare %s failed: %w", q, err)
		}
	}

	return &Publisher{
		ch:      ch,
		logger:  logger,
		timeout: defaultPublishTimeout,
	}, nil
}

func (p *Publisher) Notify(ctx context.Context, n domain.Notification) {
	err := p.Publish(ctx, n)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish booking notification",
			"type", n.Type,
			"reference", n.Booking.ReferenceNumber,
			"error", err)
	}
}

// Publish sends one notification. The request context only contributes its
// values; the publish runs on its own timeout.
func (p *Publisher) Publish(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(NewBookingMessage(n))
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal message failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.Booking.ReferenceNumber,
		Type:         string(n.Type),
		Timestamp:    n.OccurredAt.UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx, "", string(n.Type), false, false, msg)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}

	return err
}
