package config

import (
	_ "embed"
)

//go:embed defaults/bubblepop.yaml
var defaultBubblepopYAML []byte

//go:embed defaults/dodger.yaml
var defaultDodgerYAML []byte

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultBubblepopConfig returns the default configuration for rising bubbles.
func DefaultBubblepopConfig() GameConfig {
	return GameConfig{
		Field: FieldConfig{Width: 480, Height: 640, Travel: TravelUp},
		Timing: TimingConfig{
			PhysicsMs:    50,
			SpawnCheckMs: 50,
			ClockMs:      1000,
			WarmUpMs:     2000,
		},
		Difficulty: CurveConfig{
			SpawnIntervalMs: StepCurve{Base: 1000, Step: -70, Every: 50, Limit: 350},
			Speed:           StepCurve{Base: 2, Step: 1, Every: 100, Limit: 7},
			Size:            StepCurve{Base: 60, Step: -4, Every: 50, Limit: 18},
			HazardChance:    LinearCurve{Base: 0.08, PerPoint: 0.001, Limit: 0.25},
		},
		Spawn: SpawnConfig{
			BonusChance: 0.08,
			SkipChance:  0.5,
			Attempts:    8,
			SizeJitter:  5,
			SpeedJitter: 1,
		},
		Scoring: ScoringConfig{
			Base:          10,
			Scale:         0.8,
			MaxSize:       60,
			Bonus:         50,
			HazardPenalty: 20,
			EventKind:     "score",
		},
		Freeze: FreezeConfig{DurationMs: 4000, SpeedFactor: 0.5},
		Modes: ModesConfig{
			Classic:    ModeConfig{Lives: 999},
			TimeAttack: ModeConfig{Lives: 999, TimeLimit: 60},
			Survival:   ModeConfig{Lives: 3, EscapePenalty: true},
		},
	}
}

// DefaultDodgerConfig returns the default configuration for the falling
// object game with a controllable basket.
func DefaultDodgerConfig() GameConfig {
	return GameConfig{
		Field: FieldConfig{Width: 300, Height: 500, Travel: TravelDown},
		Timing: TimingConfig{
			PhysicsMs:    50,
			SpawnCheckMs: 50,
			ClockMs:      1000,
			WarmUpMs:     2000,
		},
		Difficulty: CurveConfig{
			SpawnIntervalMs: StepCurve{Base: 1000, Step: -50, Every: 100, Limit: 500},
			Speed:           StepCurve{Base: 3, Step: 0.5, Every: 100, Limit: 6},
			Size:            StepCurve{Base: 30, Limit: 30},
			HazardChance:    LinearCurve{Base: 0.27, PerPoint: 0.0005, Limit: 0.4},
		},
		Spawn: SpawnConfig{
			FreezeChance: 0.1,
			Attempts:     8,
			FreezeSpeed:  3,
		},
		Scoring: ScoringConfig{
			Flat:          10,
			HazardPenalty: 20,
			EventKind:     "coin",
		},
		Freeze: FreezeConfig{DurationMs: 4000, SpeedFactor: 0.5},
		Actor:  ActorConfig{Enabled: true, Width: 40, Height: 40, Step: 30},
		Modes: ModesConfig{
			Classic:    ModeConfig{Lives: 999},
			TimeAttack: ModeConfig{Lives: 999, TimeLimit: 60},
			Survival:   ModeConfig{Lives: 3},
		},
	}
}

// DefaultSnakeConfig returns the default snake configuration.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Grid:       20,
		StepMs:     100,
		FoodPoints: 10,
		Attempts:   64,
	}
}

// DefaultReporterConfig returns reporter settings used when no flags are given.
func DefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		Kind:      "log",
		TimeoutMs: 2000,
		QueueSize: 256,
		Workers:   2,
	}
}
