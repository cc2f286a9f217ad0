package engine

import (
	"github.com/vovakirdan/bubblepop/internal/core"
)

// stepPhysics advances every entity once, resolves actor contacts in ID
// order, removes entities past the far edge and applies the escape penalty.
// The whole pass runs inside one serialized call, so no stimulus can see a
// partially moved set.
func (s *Session) stepPhysics() {
	cfg := s.rules.Config
	dt := s.rules.Interval(TickPhysics)

	s.elapsed += dt
	if !s.warm && s.elapsed.Milliseconds() >= int64(cfg.Timing.WarmUpMs) {
		s.warm = true
	}

	factor := 1.0
	if s.freezeLeft > 0 {
		factor = cfg.Freeze.SpeedFactor
	}
	up := s.rules.TravelsUp()
	for i := range s.entities.items {
		e := &s.entities.items[i]
		if up {
			e.Y -= e.Speed * factor
		} else {
			e.Y += e.Speed * factor
		}
	}

	// The countdown runs before contacts so a freeze caught this pass
	// keeps its full duration.
	if s.freezeLeft > 0 {
		s.freezeLeft = max(0, s.freezeLeft-dt)
	}

	if cfg.Actor.Enabled {
		actor := s.rules.actorBox(s.actorX)
		var hits []EntityID
		for _, e := range s.entities.items {
			if e.Bounds().Intersects(actor) {
				hits = append(hits, e.ID)
			}
		}
		for _, id := range hits {
			s.resolve(id)
		}
	}

	penalty := s.rules.Mode(s.mode).EscapePenalty
	var escaped []EntityID
	for _, e := range s.entities.items {
		if s.escaped(e) {
			escaped = append(escaped, e.ID)
		}
	}
	for _, id := range escaped {
		e, _ := s.entities.remove(id)
		if penalty && e.Category != CategoryHazard && s.lives > 0 {
			s.lives--
		}
	}

	if s.lives <= 0 {
		s.end()
	}
}

// escaped reports whether e has fully crossed the far boundary.
func (s *Session) escaped(e Entity) bool {
	if s.rules.TravelsUp() {
		return e.Y+e.Size <= 0
	}
	return e.Y >= s.rules.Config.Field.Height
}

// ActorBounds returns the actor box and whether the game has an actor.
func (s *Session) ActorBounds() (core.Box, bool) {
	if !s.rules.Config.Actor.Enabled {
		return core.Box{}, false
	}
	return s.rules.actorBox(s.actorX), true
}
