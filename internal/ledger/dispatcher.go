package ledger

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// DispatcherOptions tunes a Dispatcher.
type DispatcherOptions struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration // per delivery
	Logger    *log.Logger
}

// Stats counts dispatcher outcomes.
type Stats struct {
	Accepted  int64
	Dropped   int64
	Delivered int64
	Failed    int64
}

// Dispatcher decouples event delivery from the caller: Enqueue puts the
// event on a bounded queue and returns immediately, worker goroutines
// deliver it. Failed deliveries are logged and forgotten.
type Dispatcher struct {
	reporter Reporter
	timeout  time.Duration
	logger   *log.Logger

	mu     sync.RWMutex
	queue  chan Event
	closed bool
	wg     sync.WaitGroup

	accepted  atomic.Int64
	dropped   atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
}

// NewDispatcher starts the worker goroutines.
func NewDispatcher(r Reporter, opts DispatcherOptions) *Dispatcher {
	if opts.QueueSize < 1 {
		opts.QueueSize = 256
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	d := &Dispatcher{
		reporter: r,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		queue:    make(chan Event, opts.QueueSize),
	}
	for range opts.Workers {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Enqueue accepts an event without blocking. It returns false when the
// queue is full or the dispatcher is closed.
func (d *Dispatcher) Enqueue(e Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.dropped.Add(1)
		return false
	}
	select {
	case d.queue <- e:
		d.accepted.Add(1)
		return true
	default:
		d.dropped.Add(1)
		d.logger.Warn("ledger queue full, event dropped", "gid", e.SessionID, "score", e.Score)
		return false
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for e := range d.queue {
		d.deliver(e)
	}
}

func (d *Dispatcher) deliver(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.reporter.Report(ctx, e); err != nil {
		d.failed.Add(1)
		d.logger.Warn("ledger report failed", "gid", e.SessionID, "event", e.Kind, "score", e.Score, "err", err)
		return
	}
	d.delivered.Add(1)
	d.logger.Debug("ledger report delivered", "gid", e.SessionID, "event", e.Kind, "score", e.Score)
}

// Close stops accepting events and waits for queued ones to be delivered
// or for ctx to expire. Repeated calls are no-ops.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a copy of the counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Accepted:  d.accepted.Load(),
		Dropped:   d.dropped.Load(),
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
	}
}
