// Package queue defines the layout events exchanged over RabbitMQ, the
// publisher the editor uses and the consumer that journals them.
package queue

import "time"

// DefaultQueue is the queue layout.saved events are routed to.
const DefaultQueue = "layout.saved"

// LayoutSavedEvent is published after a layout envelope has been written to
// its storage slot.  It carries enough of the layout's shape for downstream
// consumers to log or report without loading the envelope.
type LayoutSavedEvent struct {
	StorageKey  string         `json:"storage_key"`
	Backend     string         `json:"backend"`
	SavedAt     string         `json:"saved_at"`
	Revision    uint64         `json:"revision"`
	EventName   string         `json:"event_name"`
	Rows        int            `json:"rows"`
	Cols        int            `json:"cols"`
	Seats       int            `json:"seats"`
	Tables      int            `json:"tables"`
	Capacity    int            `json:"capacity"`
	SoldPct     int            `json:"sold_pct"`
	BySell      map[string]int `json:"by_sell_state"`
	PublishedAt time.Time      `json:"published_at"`
}
