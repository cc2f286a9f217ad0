package engine

import (
	"github.com/vovakirdan/bubblepop/internal/core"
)

// checkSpawn accumulates spawn-check time and makes one spawn decision each
// time the current interval has elapsed. The interval is recomputed from
// the live score on every check.
func (s *Session) checkSpawn() {
	s.sinceSpawn += s.rules.Interval(TickSpawn)
	if s.sinceSpawn < s.rules.Curve().SpawnInterval(s.score) {
		return
	}
	s.sinceSpawn = 0

	sp := s.rules.Config.Spawn
	if s.entities.Len() > 0 && sp.SkipChance > 0 && s.rng.Float64() < sp.SkipChance {
		return
	}
	if e, ok := s.sample(); ok {
		s.place(e)
	}
}

// drawCategory picks a category by weighted draw: hazard from the curve,
// then the fixed bonus and freeze chances, remainder normal.
func (s *Session) drawCategory() Category {
	sp := s.rules.Config.Spawn
	r := s.rng.Float64()
	hazard := s.rules.Curve().HazardChance(s.score)
	switch {
	case r < hazard:
		return CategoryHazard
	case r < hazard+sp.BonusChance:
		return CategoryBonus
	case r < hazard+sp.BonusChance+sp.FreezeChance:
		return CategoryFreeze
	}
	return CategoryNormal
}

// sample draws a new entity. It reports false when no valid position was
// found within the configured number of attempts.
func (s *Session) sample() (Entity, bool) {
	cfg := s.rules.Config
	curve := s.rules.Curve()
	field := s.rules.Field()

	cat := s.drawCategory()

	size := curve.Size(s.score)
	if j := cfg.Spawn.SizeJitter; j > 0 {
		size += (s.rng.Float64()*2 - 1) * j
	}
	size = max(size, curve.MinSize())
	if size > field.W || size > field.H {
		return Entity{}, false
	}

	speed := curve.Speed(s.score)
	if j := cfg.Spawn.SpeedJitter; j > 0 {
		speed += s.rng.Float64() * j
	}
	if cat == CategoryFreeze && cfg.Spawn.FreezeSpeed > 0 {
		speed = cfg.Spawn.FreezeSpeed
	}

	y := 0.0
	if s.rules.TravelsUp() {
		y = field.H - size
	}

	for range cfg.Spawn.Attempts {
		x := s.rng.Float64() * (field.W - size)
		b := core.Square(x, y, size)
		if !b.Inside(field) || s.entities.Overlaps(b) {
			continue
		}
		return Entity{
			X:        x,
			Y:        y,
			Size:     size,
			Speed:    speed,
			Category: cat,
			Points:   s.rules.points(cat, size),
		}, true
	}
	return Entity{}, false
}

// place assigns the next ID and adds e to the live set.
func (s *Session) place(e Entity) EntityID {
	s.nextID++
	e.ID = s.nextID
	s.entities.add(e)
	return e.ID
}
