package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblepop/internal/ledger"
)

// Result is the outcome of an ended session.
type Result struct {
	GameID    string
	Mode      Mode
	SessionID string
	Score     int
	At        time.Time
}

// ScoreStore persists the best score and the score history.
type ScoreStore interface {
	BestScore(gameID string) (int, error)
	RecordResult(r Result) error
}

// Command is a stimulus applied to the session by the controller goroutine.
type Command interface {
	apply(s *Session) error
}

type (
	// Start begins a session in Mode.
	Start struct{ Mode Mode }
	// Pause suspends a running session.
	Pause struct{}
	// Resume continues a paused session.
	Resume struct{}
	// TogglePause flips between running and paused.
	TogglePause struct{}
	// Reset returns to idle.
	Reset struct{}
	// Activate resolves an entity by ID.
	Activate struct{ ID EntityID }
	// ActivateAt resolves the topmost entity under a field point.
	ActivateAt struct{ X, Y float64 }
	// Move shifts the actor by Dir steps.
	Move struct{ Dir int }
)

func (c Start) apply(s *Session) error { return s.Start(c.Mode) }

func (Pause) apply(s *Session) error { return s.Pause() }

func (Resume) apply(s *Session) error { return s.Resume() }

func (TogglePause) apply(s *Session) error { return s.TogglePause() }

func (Reset) apply(s *Session) error {
	s.Reset()
	return nil
}

func (c Activate) apply(s *Session) error {
	_, err := s.Activate(c.ID)
	return err
}

func (c ActivateAt) apply(s *Session) error {
	_, err := s.ActivateAt(c.X, c.Y)
	return err
}

func (c Move) apply(s *Session) error { return s.Move(c.Dir) }

type request struct {
	cmd   Command
	reply chan error
}

// Options configures a Controller.
type Options struct {
	Rules  Rules
	Seed   int64       // 0 picks a time-based seed
	IDs    IDSource    // nil mints UUIDs
	Sink   ledger.Sink // nil drops score events
	Scores ScoreStore  // nil disables best score persistence
	Logger *log.Logger
	Now    func() time.Time
}

// Controller owns one Session and serializes every mutation through a
// single goroutine: commands and scheduler ticks arrive on one mailbox and
// are applied in order.
type Controller struct {
	session *Session
	rules   Rules
	sink    ledger.Sink
	scores  ScoreStore
	logger  *log.Logger
	now     func() time.Time

	inbox chan any
	quit  chan struct{}
	done  chan struct{}

	quitOnce sync.Once
	started  atomic.Bool

	gen   uint64
	sched *scheduler
	carry map[TickKind]time.Duration // tick progress kept across a pause
	best  int

	latest atomic.Pointer[Snapshot]

	subsMu sync.Mutex
	subs   map[uint64]chan Snapshot
	nextID uint64
	closed bool

	bg sync.WaitGroup
}

// NewController creates a controller with an idle session. Call Run to
// start processing.
func NewController(opts Options) *Controller {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	c := &Controller{
		session: NewSession(opts.Rules, seed, opts.IDs),
		rules:   opts.Rules,
		sink:    opts.Sink,
		scores:  opts.Scores,
		logger:  logger.WithPrefix(opts.Rules.GameID),
		now:     now,
		inbox:   make(chan any, 64),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		subs:    make(map[uint64]chan Snapshot),
	}
	if c.scores != nil {
		if best, err := c.scores.BestScore(opts.Rules.GameID); err != nil {
			c.logger.Warn("load best score", "err", err)
		} else {
			c.best = best
		}
	}
	snap := c.session.Snapshot()
	snap.Best = c.best
	c.latest.Store(&snap)
	return c
}

// Run processes commands and ticks until ctx is cancelled or Close is
// called. It must be called at most once.
func (c *Controller) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrClosed
	}
	defer c.shutdown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.quit:
			return nil
		case msg := <-c.inbox:
			prev := c.session.Status()
			switch m := msg.(type) {
			case tick:
				if m.gen != c.gen {
					continue // superseded scheduler
				}
				c.session.Tick(m.kind)
				c.afterMutation(ctx, prev)
			case request:
				err := m.cmd.apply(c.session)
				c.afterMutation(ctx, prev)
				m.reply <- err
			}
		}
	}
}

// afterMutation reconciles the scheduler with the session status, forwards
// score events and publishes a snapshot.
func (c *Controller) afterMutation(ctx context.Context, prev Status) {
	status := c.session.Status()
	restarted := status == StatusRunning && (prev == StatusIdle || prev == StatusEnded)

	if status != StatusRunning || restarted {
		c.stopScheduler()
	}
	if restarted {
		c.carry = nil
	}
	if status == StatusRunning && c.sched == nil {
		c.startScheduler(ctx)
	}

	if restarted {
		c.logger.Info("session started", "session", c.session.ID(), "mode", c.session.Mode())
	}

	for _, e := range c.session.DrainEvents() {
		e.At = c.now()
		if c.sink != nil && !c.sink.Enqueue(e) {
			c.logger.Debug("score event dropped", "session", e.SessionID, "score", e.Score)
		}
	}

	if prev != StatusEnded && status == StatusEnded {
		c.finish()
	}

	snap := c.session.Snapshot()
	snap.Best = max(c.best, snap.Score)
	c.publish(snap)
}

func (c *Controller) startScheduler(ctx context.Context) {
	c.gen++
	intervals := map[TickKind]time.Duration{
		TickPhysics: c.rules.Interval(TickPhysics),
		TickSpawn:   c.rules.Interval(TickSpawn),
	}
	if c.rules.Timed(c.session.Mode()) {
		intervals[TickClock] = c.rules.Interval(TickClock)
	}
	c.sched = startScheduler(ctx, c.gen, intervals, c.carry, c.inbox)
}

func (c *Controller) stopScheduler() {
	if c.sched == nil {
		return
	}
	c.carry = c.sched.stop()
	c.sched = nil
	c.gen++ // ticks already queued are now stale
}

// finish records the result of an ended session without blocking the loop.
func (c *Controller) finish() {
	r := Result{
		GameID:    c.rules.GameID,
		Mode:      c.session.Mode(),
		SessionID: c.session.ID(),
		Score:     c.session.Score(),
		At:        c.now(),
	}
	c.logger.Info("session ended", "session", r.SessionID, "mode", r.Mode, "score", r.Score)
	if r.Score > c.best {
		c.best = r.Score
	}
	if c.scores == nil {
		return
	}
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		if err := c.scores.RecordResult(r); err != nil {
			c.logger.Warn("record result", "session", r.SessionID, "err", err)
		}
	}()
}

func (c *Controller) shutdown() {
	c.stopScheduler()
	c.bg.Wait()

	c.subsMu.Lock()
	c.closed = true
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.subsMu.Unlock()

	close(c.done)
}

// Close stops the controller loop. Safe to call multiple times.
func (c *Controller) Close() {
	c.quitOnce.Do(func() {
		close(c.quit)
	})
}

// Done is closed once Run has returned and the scheduler is torn down.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Do applies a command and waits for it to be processed.
func (c *Controller) Do(ctx context.Context, cmd Command) error {
	req := request{cmd: cmd, reply: make(chan error, 1)}
	select {
	case c.inbox <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

// Snapshot returns the most recently published snapshot.
func (c *Controller) Snapshot() Snapshot {
	return *c.latest.Load()
}

// Rules returns the rules the controller was built with.
func (c *Controller) Rules() Rules {
	return c.rules
}

// Subscribe returns a channel receiving a snapshot after every applied tick
// or command. A slow reader loses the oldest pending snapshots rather than
// stalling the simulation. The channel is closed by cancel or shutdown.
func (c *Controller) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	c.subsMu.Lock()
	if c.closed {
		c.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	ch <- *c.latest.Load()
	c.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subsMu.Lock()
			defer c.subsMu.Unlock()
			if sub, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

func (c *Controller) publish(snap Snapshot) {
	c.latest.Store(&snap)

	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			// Buffer full, drop oldest and retry
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
