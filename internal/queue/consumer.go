package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer listens to the layout.saved queue and appends one line per event
// to <LogDir>/layout.log.
type Consumer struct {
	URL    string
	Queue  string
	LogDir string
}

// NewConsumer returns a Consumer writing under logs/.
func NewConsumer(url, queue string) *Consumer {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Consumer{URL: url, Queue: queue, LogDir: "logs"}
}

// Run dials the broker and consumes until ctx is cancelled, reconnecting
// with exponential backoff.  Processing errors are logged and the message
// rejected so the server keeps going.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Printf("layout-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("layout-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("layout-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(d.Body); err != nil {
				log.Printf("layout-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message body and appends it to the journal.
func (c *Consumer) Handle(body []byte) error {
	var ev LayoutSavedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(c.LogDir, "layout.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as one human-friendly journal line.
func FormatLine(ev LayoutSavedEvent) string {
	states := make([]string, 0, len(ev.BySell))
	for k, v := range ev.BySell {
		states = append(states, fmt.Sprintf("%s=%d", k, v))
	}
	sort.Strings(states)

	return fmt.Sprintf("[%s] Layout saved | key=%s | backend=%s | revision=%d | event=%q | grid=%dx%d | seats=%d | tables=%d | capacity=%d | sold=%d%% | states=[%s]\n",
		ev.SavedAt, ev.StorageKey, ev.Backend, ev.Revision, ev.EventName, ev.Rows, ev.Cols,
		ev.Seats, ev.Tables, ev.Capacity, ev.SoldPct, strings.Join(states, ","))
}
