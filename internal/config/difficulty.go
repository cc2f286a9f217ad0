package config

import (
	"math"
	"time"
)

// StepCurve is a banded function of score: every Every points the value
// moves by Step, saturating at Limit.
type StepCurve struct {
	Base  float64 `yaml:"base"`
	Step  float64 `yaml:"step"`
	Every int     `yaml:"every"`
	Limit float64 `yaml:"limit"`
}

// At evaluates the curve. Negative scores evaluate as zero.
func (c StepCurve) At(score int) float64 {
	if score < 0 {
		score = 0
	}
	v := c.Base
	if c.Every > 0 && c.Step != 0 {
		v += float64(score/c.Every) * c.Step
	}
	switch {
	case c.Step < 0:
		return math.Max(v, c.Limit)
	case c.Step > 0:
		return math.Min(v, c.Limit)
	default:
		return v
	}
}

// LinearCurve grows by PerPoint per score point up to Limit.
type LinearCurve struct {
	Base     float64 `yaml:"base"`
	PerPoint float64 `yaml:"per_point"`
	Limit    float64 `yaml:"limit"`
}

// At evaluates the curve. Negative scores evaluate as zero.
func (c LinearCurve) At(score int) float64 {
	if score < 0 {
		score = 0
	}
	return math.Min(c.Base+c.PerPoint*float64(score), c.Limit)
}

// CurveConfig maps cumulative score to the four difficulty parameters.
type CurveConfig struct {
	SpawnIntervalMs StepCurve   `yaml:"spawn_interval_ms"`
	Speed           StepCurve   `yaml:"speed"`
	Size            StepCurve   `yaml:"size"`
	HazardChance    LinearCurve `yaml:"hazard_chance"`
}

// Validate checks that every curve moves toward harder play and saturates.
func (c CurveConfig) Validate() error {
	si := c.SpawnIntervalMs
	if si.Step > 0 || si.Limit <= 0 || si.Base < si.Limit {
		return invalid("difficulty.spawn_interval_ms must decrease toward a positive floor")
	}
	sp := c.Speed
	if sp.Step < 0 || sp.Base < 0 || sp.Limit < sp.Base {
		return invalid("difficulty.speed must increase toward a ceiling")
	}
	sz := c.Size
	if sz.Step > 0 || sz.Limit <= 0 || sz.Base < sz.Limit {
		return invalid("difficulty.size must decrease toward a positive floor")
	}
	hz := c.HazardChance
	if hz.PerPoint < 0 || hz.Base < 0 || hz.Limit < hz.Base || hz.Limit >= 1 {
		return invalid("difficulty.hazard_chance must increase toward a cap below 1")
	}
	return nil
}

// Curve evaluates difficulty parameters for a score. It is pure and safe
// for concurrent use.
type Curve struct {
	cfg CurveConfig
}

// NewCurve creates a curve from its configuration.
func NewCurve(cfg CurveConfig) Curve {
	return Curve{cfg: cfg}
}

// SpawnInterval returns the time between spawns at the given score.
func (c Curve) SpawnInterval(score int) time.Duration {
	return time.Duration(c.cfg.SpawnIntervalMs.At(score)) * time.Millisecond
}

// Speed returns the base entity speed in field units per physics tick.
func (c Curve) Speed(score int) float64 {
	return c.cfg.Speed.At(score)
}

// Size returns the base entity size in field units.
func (c Curve) Size(score int) float64 {
	return c.cfg.Size.At(score)
}

// HazardChance returns the probability that a spawn is a hazard.
func (c Curve) HazardChance(score int) float64 {
	return c.cfg.HazardChance.At(score)
}

// MinSize is the size floor that no spawned entity goes below.
func (c Curve) MinSize() float64 {
	return c.cfg.Size.Limit
}

// Config returns the underlying configuration.
func (c Curve) Config() CurveConfig {
	return c.cfg
}
