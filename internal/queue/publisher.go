package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends activity events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishActivity(ctx context.Context, event ActivityRecordedEvent) error
	Close() error
}

// NopPublisher discards every event. Used when AMQP_URL is empty.
type NopPublisher struct{}

func (NopPublisher) PublishActivity(context.Context, ActivityRecordedEvent) error { return nil }
func (NopPublisher) Close() error                                                 { return nil }

type amqpPublisher struct {
	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
}

// NewAMQPPublisher dials the broker once and declares a durable queue.
func NewAMQPPublisher(url, queue string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	return &amqpPublisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *amqpPublisher) PublishActivity(ctx context.Context, event ActivityRecordedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal activity event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         "activity.recorded",
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// default exchange, routing key = queue name
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish to %s: %w", p.queue, err)
	}
	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// New returns an AMQP publisher when url is set, otherwise a NopPublisher.
// A broker that cannot be reached is logged and replaced by a NopPublisher
// so the API keeps serving.
func New(url, queue string, logger *slog.Logger) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	p, err := NewAMQPPublisher(url, queue)
	if err != nil {
		logger.Warn("activity_publisher_disabled", "error", err)
		return NopPublisher{}
	}
	logger.Info("activity_publisher_ready", "queue", queue)
	return p
}
