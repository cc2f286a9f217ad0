// Package engine implements the arcade simulation: a score-driven spawner,
// a fixed-step physics pass, an interaction resolver and the session state
// machine, plus a Controller that serializes ticks and commands through a
// single goroutine.
package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTransition is returned for commands that are not legal in the
	// current session status. The session is left unchanged.
	ErrInvalidTransition = errors.New("engine: invalid transition")

	// ErrUnknownMode is returned by ParseMode.
	ErrUnknownMode = errors.New("engine: unknown mode")

	// ErrClosed is returned by Controller.Do after shutdown.
	ErrClosed = errors.New("engine: controller closed")
)

// Mode selects the session rules.
type Mode int

const (
	ModeClassic Mode = iota
	ModeTimeAttack
	ModeSurvival
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeClassic, ModeTimeAttack, ModeSurvival}

func (m Mode) String() string {
	switch m {
	case ModeClassic:
		return "classic"
	case ModeTimeAttack:
		return "time_attack"
	case ModeSurvival:
		return "survival"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Title returns a display name.
func (m Mode) Title() string {
	switch m {
	case ModeClassic:
		return "Classic"
	case ModeTimeAttack:
		return "Time Attack"
	case ModeSurvival:
		return "Survival"
	default:
		return m.String()
	}
}

// ParseMode accepts the names produced by String, plus a few aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "classic":
		return ModeClassic, nil
	case "time_attack", "time-attack", "timeattack", "timed":
		return ModeTimeAttack, nil
	case "survival":
		return ModeSurvival, nil
	}
	return ModeClassic, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Status is the session lifecycle state. Exactly one holds at a time.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText lets snapshots carry readable status names in JSON.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText lets snapshots carry readable mode names in JSON.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Category tags an entity with its resolution outcome.
type Category int

const (
	CategoryNormal Category = iota
	CategoryBonus
	CategoryHazard
	CategoryFreeze
)

func (c Category) String() string {
	switch c {
	case CategoryNormal:
		return "normal"
	case CategoryBonus:
		return "bonus"
	case CategoryHazard:
		return "hazard"
	case CategoryFreeze:
		return "freeze"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// MarshalText lets snapshots carry readable category names in JSON.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// TickKind identifies which scheduler produced a tick.
type TickKind int

const (
	TickPhysics TickKind = iota
	TickSpawn
	TickClock
)

func (k TickKind) String() string {
	switch k {
	case TickPhysics:
		return "physics"
	case TickSpawn:
		return "spawn"
	case TickClock:
		return "clock"
	default:
		return fmt.Sprintf("tick(%d)", int(k))
	}
}
