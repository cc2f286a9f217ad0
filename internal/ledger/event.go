// Package ledger delivers scoring events to an external collaborator on a
// best-effort basis. Delivery never blocks the caller, is never retried, and
// its outcome is only logged.
package ledger

import (
	"time"
)

// Kind names the scoring event.
type Kind string

const (
	KindScore  Kind = "score"
	KindCoin   Kind = "coin"
	KindBonus  Kind = "bonus"
	KindHazard Kind = "hazard"
)

// Event is an immutable record of one score change.
type Event struct {
	SessionID string    `json:"gid"`
	Kind      Kind      `json:"event"`
	Score     int       `json:"score"`
	At        time.Time `json:"at"`
}

// Sink accepts events without blocking. Enqueue reports whether the event
// was accepted; a false return means it was dropped.
type Sink interface {
	Enqueue(Event) bool
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event) bool

// Enqueue calls f(e).
func (f SinkFunc) Enqueue(e Event) bool { return f(e) }
