package ledger

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

// Reporter delivers one event to an external collaborator.
type Reporter interface {
	Report(ctx context.Context, e Event) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, e Event) error

// Report calls f(ctx, e).
func (f ReporterFunc) Report(ctx context.Context, e Event) error { return f(ctx, e) }

// Nop discards every event.
type Nop struct{}

// Report does nothing.
func (Nop) Report(context.Context, Event) error { return nil }

// LogReporter writes events to a logger.
type LogReporter struct {
	Logger *log.Logger
}

// Report logs the event at info level.
func (r LogReporter) Report(_ context.Context, e Event) error {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Info("score event", "gid", e.SessionID, "event", e.Kind, "score", e.Score)
	return nil
}

// EventStore appends events to durable storage.
type EventStore interface {
	SaveEvent(e Event) error
}

// StoreReporter appends events to an EventStore.
type StoreReporter struct {
	Store EventStore
}

// Report saves the event, giving up if ctx is already done.
func (r StoreReporter) Report(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.Store.SaveEvent(e)
}

// Multi fans an event out to every reporter and joins their errors.
type Multi []Reporter

// Report calls each reporter in turn.
func (m Multi) Report(ctx context.Context, e Event) error {
	var errs []error
	for _, r := range m {
		if err := r.Report(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
