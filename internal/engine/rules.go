package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/ledger"
)

// Rules is the validated, immutable parameter set for one game variant.
type Rules struct {
	GameID string
	Title  string
	Config config.GameConfig
	curve  config.Curve
}

// NewRules validates cfg and builds rules for the game.
func NewRules(gameID, title string, cfg config.GameConfig) (Rules, error) {
	if err := cfg.Validate(); err != nil {
		return Rules{}, fmt.Errorf("engine: rules for %s: %w", gameID, err)
	}
	return Rules{
		GameID: gameID,
		Title:  title,
		Config: cfg,
		curve:  config.NewCurve(cfg.Difficulty),
	}, nil
}

// Curve returns the difficulty curve.
func (r Rules) Curve() config.Curve { return r.curve }

// Mode returns the per-mode settings.
func (r Rules) Mode(m Mode) config.ModeConfig {
	switch m {
	case ModeTimeAttack:
		return r.Config.Modes.TimeAttack
	case ModeSurvival:
		return r.Config.Modes.Survival
	default:
		return r.Config.Modes.Classic
	}
}

// Timed reports whether the clock counts down in mode m.
func (r Rules) Timed(m Mode) bool {
	return r.Mode(m).TimeLimit > 0
}

// Interval returns the scheduler period for a tick kind.
func (r Rules) Interval(k TickKind) time.Duration {
	t := r.Config.Timing
	switch k {
	case TickSpawn:
		return msDuration(t.SpawnCheckMs)
	case TickClock:
		return msDuration(t.ClockMs)
	default:
		return msDuration(t.PhysicsMs)
	}
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Field returns the play field bounds.
func (r Rules) Field() core.Box {
	return core.NewBox(0, 0, r.Config.Field.Width, r.Config.Field.Height)
}

// TravelsUp reports whether entities rise toward y = 0.
func (r Rules) TravelsUp() bool {
	return r.Config.Field.Travel == config.TravelUp
}

// actorBox returns the actor bounds for a horizontal position. The actor sits
// on the edge entities travel toward.
func (r Rules) actorBox(x float64) core.Box {
	a := r.Config.Actor
	y := r.Config.Field.Height - a.Height
	if r.TravelsUp() {
		y = 0
	}
	return core.NewBox(x, y, a.Width, a.Height)
}

// points returns the signed score value of an entity at spawn time.
func (r Rules) points(c Category, size float64) int {
	sc := r.Config.Scoring
	switch c {
	case CategoryBonus:
		return sc.Bonus
	case CategoryHazard:
		return -sc.HazardPenalty
	case CategoryFreeze:
		return 0
	}
	if sc.Flat > 0 {
		return sc.Flat
	}
	return sc.Base + int(math.Floor(sc.Scale*math.Max(0, sc.MaxSize-size)))
}

// eventKind returns the ledger kind reported when c is resolved.
func (r Rules) eventKind(c Category) ledger.Kind {
	switch c {
	case CategoryBonus:
		return ledger.KindBonus
	case CategoryHazard:
		return ledger.KindHazard
	}
	if k := r.Config.Scoring.EventKind; k != "" {
		return ledger.Kind(k)
	}
	return ledger.KindScore
}
