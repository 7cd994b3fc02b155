package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes layout events.  Implementations log and return
// failures; callers treat publishing as best effort.
type Publisher interface {
	PublishLayoutSaved(ctx context.Context, ev LayoutSavedEvent) error
}

// DefaultDialTimeout bounds the broker connect made by each publish.
const DefaultDialTimeout = 2 * time.Second

// AMQPPublisher dials the broker for every publish.  Saves are rare enough
// that a long-lived connection is not worth its reconnect handling.
type AMQPPublisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration // DefaultDialTimeout when zero
}

// NewAMQPPublisher returns a publisher for url routing to queue (or
// DefaultQueue when empty).
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &AMQPPublisher{URL: url, Queue: queue}
}

// PublishLayoutSaved publishes ev as a persistent JSON message on the
// default exchange.
func (p *AMQPPublisher) PublishLayoutSaved(ctx context.Context, ev LayoutSavedEvent) error {
	conn, err := amqp.DialConfig(p.URL, p.dialConfig())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.Queue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	if ev.PublishedAt.IsZero() {
		ev.PublishedAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.PublishedAt,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

func (p *AMQPPublisher) dialConfig() amqp.Config {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	return amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	}
}
