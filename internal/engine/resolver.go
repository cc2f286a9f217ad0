package engine

import (
	"github.com/vovakirdan/bubblepop/internal/ledger"
)

// Activate resolves the entity with the given ID. Activating an entity that
// is no longer live is a no-op and reports false.
func (s *Session) Activate(id EntityID) (bool, error) {
	if s.status != StatusRunning {
		return false, ErrInvalidTransition
	}
	return s.resolve(id), nil
}

// ActivateAt resolves the most recently spawned entity under (x, y).
func (s *Session) ActivateAt(x, y float64) (bool, error) {
	if s.status != StatusRunning {
		return false, ErrInvalidTransition
	}
	e, ok := s.entities.TopmostAt(x, y)
	if !ok {
		return false, nil
	}
	return s.resolve(e.ID), nil
}

// resolve removes the entity and applies its outcome. Presence in the live
// set is checked in the same call, so an ID resolves at most once.
func (s *Session) resolve(id EntityID) bool {
	if s.status != StatusRunning {
		return false
	}
	e, ok := s.entities.remove(id)
	if !ok {
		return false
	}
	s.warm = true

	before := s.score
	switch e.Category {
	case CategoryHazard:
		s.score = max(0, s.score+e.Points)
		s.lives = max(0, s.lives-1)
	case CategoryFreeze:
		f := s.rules.Config.Freeze
		s.freezeLeft = msDuration(f.DurationMs)
	default:
		s.score = max(0, s.score+e.Points)
	}

	if s.score != before {
		s.outbox = append(s.outbox, ledger.Event{
			SessionID: s.id,
			Kind:      s.rules.eventKind(e.Category),
			Score:     s.score,
		})
	}
	if s.lives <= 0 {
		s.end()
	}
	return true
}
