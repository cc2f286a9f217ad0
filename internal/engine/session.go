package engine

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/bubblepop/internal/ledger"
)

// IDSource mints session identifiers.
type IDSource func() string

// Session is the authoritative game state. It is not safe for concurrent
// use; Controller serializes access to it.
type Session struct {
	rules Rules
	rng   *rand.Rand
	newID IDSource

	status   Status
	mode     Mode
	id       string
	score    int
	lives    int
	timeLeft int

	elapsed    time.Duration
	sinceSpawn time.Duration
	freezeLeft time.Duration
	warm       bool

	entities EntitySet
	nextID   EntityID
	actorX   float64

	outbox []ledger.Event
}

// NewSession creates an idle session. A nil ids uses random UUIDs.
func NewSession(rules Rules, seed int64, ids IDSource) *Session {
	if ids == nil {
		ids = uuid.NewString
	}
	return &Session{
		rules: rules,
		rng:   rand.New(rand.NewSource(seed)),
		newID: ids,
	}
}

// Start begins a new session in mode m from idle or ended.
func (s *Session) Start(m Mode) error {
	if s.status != StatusIdle && s.status != StatusEnded {
		return ErrInvalidTransition
	}
	s.clear()
	mc := s.rules.Mode(m)
	s.mode = m
	s.id = s.newID()
	s.lives = mc.Lives
	s.timeLeft = mc.TimeLimit
	s.actorX = (s.rules.Config.Field.Width - s.rules.Config.Actor.Width) / 2
	s.status = StatusRunning
	return nil
}

// Pause suspends a running session.
func (s *Session) Pause() error {
	if s.status != StatusRunning {
		return ErrInvalidTransition
	}
	s.status = StatusPaused
	return nil
}

// Resume continues a paused session.
func (s *Session) Resume() error {
	if s.status != StatusPaused {
		return ErrInvalidTransition
	}
	s.status = StatusRunning
	return nil
}

// TogglePause pauses a running session or resumes a paused one.
func (s *Session) TogglePause() error {
	switch s.status {
	case StatusRunning:
		return s.Pause()
	case StatusPaused:
		return s.Resume()
	}
	return ErrInvalidTransition
}

// Reset returns to idle from any state. No event is reported.
func (s *Session) Reset() {
	s.clear()
	s.status = StatusIdle
}

func (s *Session) clear() {
	s.entities.clear()
	s.score = 0
	s.lives = 0
	s.timeLeft = 0
	s.elapsed = 0
	s.sinceSpawn = 0
	s.freezeLeft = 0
	s.warm = false
	s.id = ""
	s.outbox = s.outbox[:0]
}

func (s *Session) end() {
	s.status = StatusEnded
}

// Tick applies one scheduler tick. Ticks are ignored unless running.
func (s *Session) Tick(k TickKind) {
	if s.status != StatusRunning {
		return
	}
	switch k {
	case TickPhysics:
		s.stepPhysics()
	case TickSpawn:
		s.checkSpawn()
	case TickClock:
		s.stepClock()
	}
}

func (s *Session) stepClock() {
	if !s.rules.Timed(s.mode) {
		return
	}
	s.timeLeft--
	if s.timeLeft <= 0 {
		s.timeLeft = 0
		s.end()
	}
}

// Move shifts the actor by dir steps, clamped to the field.
// It is a no-op for games without an actor.
func (s *Session) Move(dir int) error {
	if s.status != StatusRunning {
		return ErrInvalidTransition
	}
	a := s.rules.Config.Actor
	if !a.Enabled || dir == 0 {
		return nil
	}
	x := s.actorX + float64(dir)*a.Step
	s.actorX = max(0, min(x, s.rules.Config.Field.Width-a.Width))
	return nil
}

// DrainEvents returns and clears the score events produced since the last
// call, in the order they happened.
func (s *Session) DrainEvents() []ledger.Event {
	if len(s.outbox) == 0 {
		return nil
	}
	out := make([]ledger.Event, len(s.outbox))
	copy(out, s.outbox)
	s.outbox = s.outbox[:0]
	return out
}

// Status returns the lifecycle state.
func (s *Session) Status() Status { return s.status }

// Mode returns the mode of the current or last session.
func (s *Session) Mode() Mode { return s.mode }

// ID returns the session identifier, empty while idle.
func (s *Session) ID() string { return s.id }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// Lives returns the remaining lives.
func (s *Session) Lives() int { return s.lives }

// TimeLeft returns the remaining seconds in timed mode.
func (s *Session) TimeLeft() int { return s.timeLeft }

// Rules returns the session rules.
func (s *Session) Rules() Rules { return s.rules }

// Entities returns a copy of the live entity set.
func (s *Session) Entities() []Entity { return s.entities.All() }
