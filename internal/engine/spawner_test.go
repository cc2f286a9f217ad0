package engine

import (
	"testing"

	"github.com/vovakirdan/bubblepop/internal/config"
)

func TestSpawnerWaitsForInterval(t *testing.T) {
	cfg := config.DefaultBubblepopConfig()
	s := newTestSession(t, cfg, ModeClassic)

	checks := 1000 / cfg.Timing.SpawnCheckMs
	for range checks - 1 {
		s.Tick(TickSpawn)
	}
	if n := len(s.Entities()); n != 0 {
		t.Fatalf("spawned %d entities before the interval elapsed", n)
	}
	s.Tick(TickSpawn)
	live := s.Entities()
	if len(live) != 1 {
		t.Fatalf("spawned %d entities, want 1", len(live))
	}

	e := live[0]
	field := s.rules.Field()
	if !e.Bounds().Inside(field) {
		t.Errorf("entity %+v spawned outside field", e)
	}
	if e.Y != field.H-e.Size {
		t.Errorf("rising entity y = %v, want bottom edge %v", e.Y, field.H-e.Size)
	}
	if e.Size < s.rules.Curve().MinSize() || e.Size > 65 {
		t.Errorf("size %v out of jitter range", e.Size)
	}
	if e.Speed < 2 || e.Speed > 3 {
		t.Errorf("speed %v out of jitter range", e.Speed)
	}
}

func TestSpawnerUsesLiveScore(t *testing.T) {
	cfg := config.DefaultBubblepopConfig()
	cfg.Spawn.SkipChance = 0
	s := newTestSession(t, cfg, ModeClassic)
	s.score = 500 // 350ms interval

	for range 7 {
		s.Tick(TickSpawn)
	}
	if n := len(s.Entities()); n != 1 {
		t.Errorf("entities = %d, want 1 after one short interval", n)
	}
}

func TestSpawnerDegenerateField(t *testing.T) {
	cfg := config.DefaultBubblepopConfig()
	cfg.Field.Width, cfg.Field.Height = 10, 10
	s := newTestSession(t, cfg, ModeClassic)
	for range 1000 {
		s.Tick(TickSpawn)
	}
	if n := len(s.Entities()); n != 0 {
		t.Errorf("spawned %d entities into a field smaller than the size floor", n)
	}
}

func TestSpawnerSkipsWhenCrowded(t *testing.T) {
	cfg := config.DefaultBubblepopConfig()
	cfg.Field.Width = 60
	cfg.Spawn.SizeJitter = 0
	cfg.Spawn.SkipChance = 0
	cfg.Spawn.Attempts = 3
	s := newTestSession(t, cfg, ModeClassic)
	spawn(s, CategoryNormal, 0, cfg.Field.Height-60, 60, 0)

	for range 200 {
		s.Tick(TickSpawn)
	}
	if n := len(s.Entities()); n != 1 {
		t.Errorf("entities = %d, want placement to be skipped", n)
	}
}

func TestSpawnerFallingEntitiesStartAtTop(t *testing.T) {
	cfg := config.DefaultDodgerConfig()
	s := newTestSession(t, cfg, ModeClassic)
	for range 200 {
		s.Tick(TickSpawn)
	}
	live := s.Entities()
	if len(live) == 0 {
		t.Fatal("no entities spawned")
	}
	for i, e := range live {
		if e.Y != 0 || e.Size != 30 {
			t.Errorf("entity %+v, want y=0 size=30", e)
		}
		if e.Category == CategoryBonus {
			t.Errorf("dodger spawned a bonus entity")
		}
		if i > 0 && e.ID <= live[i-1].ID {
			t.Errorf("ids not increasing: %d after %d", e.ID, live[i-1].ID)
		}
	}
}

func TestDrawCategoryWeights(t *testing.T) {
	cfg := config.DefaultDodgerConfig()
	s := newTestSession(t, cfg, ModeClassic)

	counts := map[Category]int{}
	const n = 20000
	for range n {
		counts[s.drawCategory()]++
	}
	hazard := float64(counts[CategoryHazard]) / n
	freeze := float64(counts[CategoryFreeze]) / n
	if hazard < 0.24 || hazard > 0.30 {
		t.Errorf("hazard share %.3f, want about 0.27", hazard)
	}
	if freeze < 0.08 || freeze > 0.12 {
		t.Errorf("freeze share %.3f, want about 0.10", freeze)
	}
	if counts[CategoryBonus] != 0 {
		t.Errorf("bonus drawn %d times with zero chance", counts[CategoryBonus])
	}
}
