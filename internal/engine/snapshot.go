package engine

import (
	"github.com/vovakirdan/bubblepop/internal/core"
)

// Snapshot is a read-only copy of the session state for renderers.
type Snapshot struct {
	GameID    string    `json:"game"`
	SessionID string    `json:"session_id,omitempty"`
	Mode      Mode      `json:"mode"`
	Status    Status    `json:"status"`
	Score     int       `json:"score"`
	Best      int       `json:"best"`
	Lives     int       `json:"lives"`
	TimeLeft  int       `json:"time_left"`
	Timed     bool      `json:"timed"`
	Survival  bool      `json:"survival"`
	WarmedUp  bool      `json:"warmed_up"`
	Frozen    bool      `json:"frozen"`
	Field     core.Box  `json:"field"`
	Actor     *core.Box `json:"actor,omitempty"`
	Entities  []Entity  `json:"entities"`
}

// Snapshot captures the current state. Best is left for the caller to fill.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		GameID:    s.rules.GameID,
		SessionID: s.id,
		Mode:      s.mode,
		Status:    s.status,
		Score:     s.score,
		Lives:     s.lives,
		TimeLeft:  s.timeLeft,
		Timed:     s.rules.Timed(s.mode),
		Survival:  s.mode == ModeSurvival,
		WarmedUp:  s.warm,
		Frozen:    s.freezeLeft > 0,
		Field:     s.rules.Field(),
		Entities:  s.entities.All(),
	}
	if b, ok := s.ActorBounds(); ok {
		snap.Actor = &b
	}
	return snap
}

// Active reports whether the session is running or paused.
func (s Snapshot) Active() bool {
	return s.Status == StatusRunning || s.Status == StatusPaused
}
