package snake

// Phase is what the board is doing; Render picks its overlay from it.
type Phase string

const (
	PhasePlaying  Phase = "playing"
	PhasePaused   Phase = "paused"
	PhaseOver     Phase = "game_over"
	PhaseTooSmall Phase = "too_small"
)

func (g *Game) phase() Phase {
	switch {
	case g.tooSmall:
		return PhaseTooSmall
	case g.gameOver:
		return PhaseOver
	case g.paused:
		return PhasePaused
	}
	return PhasePlaying
}

// Snapshot is the comparable board state. Two games fed the same seed and
// inputs produce equal snapshots.
type Snapshot struct {
	Tick  uint64
	Score int
	Head  Point
	Len   int
	Food  Point
	Dir   Direction
	Phase Phase
}

// Snapshot returns the current board state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:  g.tick,
		Score: g.score,
		Len:   len(g.snake),
		Food:  g.food,
		Dir:   g.direction,
		Phase: g.phase(),
	}
	if len(g.snake) > 0 {
		s.Head = g.snake[0]
	}
	return s
}
