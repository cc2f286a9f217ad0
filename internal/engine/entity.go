package engine

import (
	"github.com/vovakirdan/bubblepop/internal/core"
)

// EntityID identifies an entity within a session. IDs are assigned in spawn
// order, so a higher ID always means a more recent spawn.
type EntityID uint64

// Entity is a single live object on the field. X and Y are the top-left
// corner of its square bounds in field units.
type Entity struct {
	ID       EntityID `json:"id"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Size     float64  `json:"size"`
	Speed    float64  `json:"speed"`
	Category Category `json:"category"`
	Points   int      `json:"points"`
}

// Bounds returns the entity's bounding box.
func (e Entity) Bounds() core.Box {
	return core.Square(e.X, e.Y, e.Size)
}

// EntitySet holds live entities ordered by ID.
// Entities are appended in spawn order, which keeps the slice sorted.
type EntitySet struct {
	items []Entity
}

// Len returns the number of live entities.
func (s *EntitySet) Len() int { return len(s.items) }

// add appends e. The caller guarantees e.ID is greater than every live ID.
func (s *EntitySet) add(e Entity) {
	s.items = append(s.items, e)
}

func (s *EntitySet) index(id EntityID) int {
	lo, hi := 0, len(s.items)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.items[mid].ID < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.items) && s.items[lo].ID == id {
		return lo
	}
	return -1
}

// Get returns the entity with the given ID.
func (s *EntitySet) Get(id EntityID) (Entity, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return Entity{}, false
}

// remove deletes the entity with the given ID, preserving order.
func (s *EntitySet) remove(id EntityID) (Entity, bool) {
	i := s.index(id)
	if i < 0 {
		return Entity{}, false
	}
	e := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return e, true
}

// TopmostAt returns the most recently spawned entity containing (x, y).
func (s *EntitySet) TopmostAt(x, y float64) (Entity, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].Bounds().Contains(x, y) {
			return s.items[i], true
		}
	}
	return Entity{}, false
}

// Overlaps reports whether any live entity intersects b.
func (s *EntitySet) Overlaps(b core.Box) bool {
	for _, e := range s.items {
		if e.Bounds().Intersects(b) {
			return true
		}
	}
	return false
}

// All returns a copy of the live entities in ID order.
func (s *EntitySet) All() []Entity {
	out := make([]Entity, len(s.items))
	copy(out, s.items)
	return out
}

func (s *EntitySet) clear() {
	s.items = s.items[:0]
}
