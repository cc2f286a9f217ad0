// Package config provides YAML-based game configuration loading and the
// score-driven difficulty curve for the arcade.
package config

import (
	"errors"
	"fmt"
)

// Travel directions for spawned entities.
const (
	TravelUp   = "up"   // spawn at the bottom edge, exit through the top
	TravelDown = "down" // spawn at the top edge, exit through the bottom
)

// GameConfig contains all tunables for a falling/rising object game.
type GameConfig struct {
	Field      FieldConfig   `yaml:"field"`
	Timing     TimingConfig  `yaml:"timing"`
	Difficulty CurveConfig   `yaml:"difficulty"`
	Spawn      SpawnConfig   `yaml:"spawn"`
	Scoring    ScoringConfig `yaml:"scoring"`
	Freeze     FreezeConfig  `yaml:"freeze"`
	Actor      ActorConfig   `yaml:"actor"`
	Modes      ModesConfig   `yaml:"modes"`
}

// FieldConfig defines the play field in logical units.
type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Travel string  `yaml:"travel"` // "up" or "down"
}

// TimingConfig defines scheduler intervals in milliseconds.
type TimingConfig struct {
	PhysicsMs    int `yaml:"physics_ms"`
	SpawnCheckMs int `yaml:"spawn_check_ms"`
	ClockMs      int `yaml:"clock_ms"`
	WarmUpMs     int `yaml:"warm_up_ms"`
}

// SpawnConfig defines how new entities are drawn.
type SpawnConfig struct {
	BonusChance  float64 `yaml:"bonus_chance"`
	FreezeChance float64 `yaml:"freeze_chance"`
	SkipChance   float64 `yaml:"skip_chance"` // chance to skip a due spawn while entities are live
	Attempts     int     `yaml:"attempts"`    // placement retries before the spawn is skipped
	SizeJitter   float64 `yaml:"size_jitter"`
	SpeedJitter  float64 `yaml:"speed_jitter"`
	FreezeSpeed  float64 `yaml:"freeze_speed"` // fixed speed for freeze entities, 0 = curve speed
}

// ScoringConfig defines point values.
type ScoringConfig struct {
	Base          int     `yaml:"base"`
	Scale         float64 `yaml:"scale"`
	MaxSize       float64 `yaml:"max_size"`
	Flat          int     `yaml:"flat"` // when > 0, normal entities are worth a flat amount
	Bonus         int     `yaml:"bonus"`
	HazardPenalty int     `yaml:"hazard_penalty"`
	EventKind     string  `yaml:"event_kind"` // ledger event kind for normal entities
}

// FreezeConfig defines the slow-motion status effect.
type FreezeConfig struct {
	DurationMs  int     `yaml:"duration_ms"`
	SpeedFactor float64 `yaml:"speed_factor"`
}

// ActorConfig defines the optional controllable actor.
type ActorConfig struct {
	Enabled bool    `yaml:"enabled"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Step    float64 `yaml:"step"`
}

// ModesConfig holds per-mode rules.
type ModesConfig struct {
	Classic    ModeConfig `yaml:"classic"`
	TimeAttack ModeConfig `yaml:"time_attack"`
	Survival   ModeConfig `yaml:"survival"`
}

// ModeConfig defines what distinguishes one mode from another.
type ModeConfig struct {
	Lives         int  `yaml:"lives"`
	TimeLimit     int  `yaml:"time_limit"` // seconds, 0 = untimed
	EscapePenalty bool `yaml:"escape_penalty"`
}

// SnakeConfig contains configuration for the grid snake game.
type SnakeConfig struct {
	Grid       int `yaml:"grid"`
	StepMs     int `yaml:"step_ms"`
	FoodPoints int `yaml:"food_points"`
	Attempts   int `yaml:"attempts"`
}

// ReporterConfig selects and tunes the scoring event reporter.
type ReporterConfig struct {
	Kind      string `yaml:"kind"` // none, log, http, store
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
	QueueSize int    `yaml:"queue_size"`
	Workers   int    `yaml:"workers"`
}

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks a game config for values the engine cannot run with.
func (c GameConfig) Validate() error {
	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		return invalid("field must have positive size, got %vx%v", c.Field.Width, c.Field.Height)
	}
	if c.Field.Travel != TravelUp && c.Field.Travel != TravelDown {
		return invalid("field.travel must be %q or %q, got %q", TravelUp, TravelDown, c.Field.Travel)
	}
	if c.Timing.PhysicsMs <= 0 || c.Timing.SpawnCheckMs <= 0 || c.Timing.ClockMs <= 0 {
		return invalid("timing intervals must be positive")
	}
	if err := c.Difficulty.Validate(); err != nil {
		return err
	}
	if c.Spawn.BonusChance < 0 || c.Spawn.FreezeChance < 0 || c.Spawn.SkipChance < 0 || c.Spawn.SkipChance >= 1 {
		return invalid("spawn chances out of range")
	}
	if c.Difficulty.HazardChance.Limit+c.Spawn.BonusChance+c.Spawn.FreezeChance >= 1 {
		return invalid("hazard, bonus and freeze chances leave no room for normal entities")
	}
	if c.Spawn.Attempts < 1 {
		return invalid("spawn.attempts must be at least 1")
	}
	if c.Freeze.SpeedFactor < 0 || c.Freeze.SpeedFactor > 1 {
		return invalid("freeze.speed_factor must be within [0, 1]")
	}
	if c.Actor.Enabled && (c.Actor.Width <= 0 || c.Actor.Height <= 0) {
		return invalid("actor must have positive size when enabled")
	}
	for name, m := range map[string]ModeConfig{
		"classic":     c.Modes.Classic,
		"time_attack": c.Modes.TimeAttack,
		"survival":    c.Modes.Survival,
	} {
		if m.Lives < 1 {
			return invalid("modes.%s.lives must be at least 1", name)
		}
		if m.TimeLimit < 0 {
			return invalid("modes.%s.time_limit must not be negative", name)
		}
	}
	return nil
}

// Validate checks the snake config.
func (c SnakeConfig) Validate() error {
	if c.Grid < 4 {
		return invalid("snake grid must be at least 4, got %d", c.Grid)
	}
	if c.StepMs <= 0 {
		return invalid("snake step_ms must be positive")
	}
	if c.Attempts < 1 {
		return invalid("snake attempts must be at least 1")
	}
	return nil
}

func (c ReporterConfig) Validate() error {
	switch c.Kind {
	case "", "none", "log", "store":
	case "http":
		if c.URL == "" {
			return invalid("reporter kind http requires a url")
		}
	default:
		return invalid("unknown reporter kind %q", c.Kind)
	}
	if c.TimeoutMs <= 0 || c.QueueSize <= 0 || c.Workers <= 0 {
		return invalid("reporter timeout_ms, queue_size and workers must be positive")
	}
	return nil
}
