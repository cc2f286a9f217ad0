package engine

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/ledger"
)

func testRules(t *testing.T, cfg config.GameConfig) Rules {
	t.Helper()
	r, err := NewRules("test", "Test", cfg)
	if err != nil {
		t.Fatalf("NewRules: %v", err)
	}
	return r
}

func counterIDs() IDSource {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("session-%d", n)
	}
}

func newTestSession(t *testing.T, cfg config.GameConfig, m Mode) *Session {
	t.Helper()
	s := NewSession(testRules(t, cfg), 1, counterIDs())
	if err := s.Start(m); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

// spawn places an entity directly, bypassing the random spawner.
func spawn(s *Session, c Category, x, y, size, speed float64) EntityID {
	return s.place(Entity{
		X:        x,
		Y:        y,
		Size:     size,
		Speed:    speed,
		Category: c,
		Points:   s.rules.points(c, size),
	})
}

func TestSessionTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Session)
		op    func(s *Session) error
		want  Status
		err   error
	}{
		{"start from idle", func(*Session) {}, func(s *Session) error { return s.Start(ModeClassic) }, StatusRunning, nil},
		{"start while running", func(s *Session) { s.Start(ModeClassic) }, func(s *Session) error { return s.Start(ModeClassic) }, StatusRunning, ErrInvalidTransition},
		{"start while paused", func(s *Session) { s.Start(ModeClassic); s.Pause() }, func(s *Session) error { return s.Start(ModeClassic) }, StatusPaused, ErrInvalidTransition},
		{"restart after end", func(s *Session) { s.Start(ModeClassic); s.end() }, func(s *Session) error { return s.Start(ModeSurvival) }, StatusRunning, nil},
		{"pause running", func(s *Session) { s.Start(ModeClassic) }, func(s *Session) error { return s.Pause() }, StatusPaused, nil},
		{"pause idle", func(*Session) {}, func(s *Session) error { return s.Pause() }, StatusIdle, ErrInvalidTransition},
		{"resume running", func(s *Session) { s.Start(ModeClassic) }, func(s *Session) error { return s.Resume() }, StatusRunning, ErrInvalidTransition},
		{"toggle twice", func(s *Session) { s.Start(ModeClassic); s.TogglePause() }, func(s *Session) error { return s.TogglePause() }, StatusRunning, nil},
		{"toggle ended", func(s *Session) { s.Start(ModeClassic); s.end() }, func(s *Session) error { return s.TogglePause() }, StatusEnded, ErrInvalidTransition},
		{"reset paused", func(s *Session) { s.Start(ModeClassic); s.Pause() }, func(s *Session) error { s.Reset(); return nil }, StatusIdle, nil},
		{"reset ended", func(s *Session) { s.Start(ModeClassic); s.end() }, func(s *Session) error { s.Reset(); return nil }, StatusIdle, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(testRules(t, config.DefaultBubblepopConfig()), 1, counterIDs())
			tt.setup(s)
			err := tt.op(s)
			if !errors.Is(err, tt.err) {
				t.Errorf("err = %v, want %v", err, tt.err)
			}
			if s.Status() != tt.want {
				t.Errorf("status = %v, want %v", s.Status(), tt.want)
			}
		})
	}
}

func TestStartInitialisesModeState(t *testing.T) {
	cfg := config.DefaultBubblepopConfig()
	tests := []struct {
		mode     Mode
		lives    int
		timeLeft int
	}{
		{ModeClassic, 999, 0},
		{ModeTimeAttack, 999, 60},
		{ModeSurvival, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s := newTestSession(t, cfg, tt.mode)
			if s.Lives() != tt.lives || s.TimeLeft() != tt.timeLeft || s.Score() != 0 {
				t.Errorf("lives=%d time=%d score=%d, want %d %d 0", s.Lives(), s.TimeLeft(), s.Score(), tt.lives, tt.timeLeft)
			}
			if len(s.Entities()) != 0 {
				t.Error("expected empty entity set")
			}
		})
	}
}

func TestResetClearsStateWithoutEvents(t *testing.T) {
	s := newTestSession(t, config.DefaultBubblepopConfig(), ModeClassic)
	id := spawn(s, CategoryNormal, 10, 300, 30, 2)
	if _, err := s.Activate(id); err != nil {
		t.Fatal(err)
	}
	spawn(s, CategoryNormal, 100, 300, 30, 2)

	s.Reset()
	if s.Status() != StatusIdle || s.Score() != 0 || s.ID() != "" || len(s.Entities()) != 0 {
		t.Errorf("reset left state behind: %+v", s.Snapshot())
	}
	if ev := s.DrainEvents(); len(ev) != 0 {
		t.Errorf("reset kept %d events", len(ev))
	}
}

func TestSessionIDsAreFresh(t *testing.T) {
	s := NewSession(testRules(t, config.DefaultBubblepopConfig()), 1, nil)
	seen := make(map[string]bool)
	for i := range 200 {
		if err := s.Start(Modes[i%len(Modes)]); err != nil {
			t.Fatal(err)
		}
		id := s.ID()
		if id == "" || seen[id] {
			t.Fatalf("session id %q reused or empty at %d", id, i)
		}
		seen[id] = true
		if i%2 == 0 {
			s.Reset()
		} else {
			s.end()
		}
	}
}

func TestHazardReachesActor(t *testing.T) {
	cfg := config.DefaultBubblepopConfig()
	cfg.Actor = config.ActorConfig{Enabled: true, Width: 40, Height: 40, Step: 30}

	tests := []struct {
		name      string
		score     int
		wantScore int
		events    int
	}{
		{"penalty applied", 30, 10, 1},
		{"floored at zero", 5, 0, 1},
		{"already zero", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, cfg, ModeSurvival)
			s.score = tt.score
			actor, _ := s.ActorBounds()
			if actor.Y != 0 {
				t.Fatalf("actor y = %v, want top edge for rising entities", actor.Y)
			}
			id := spawn(s, CategoryHazard, actor.X, cfg.Field.Height-30, 30, 100)

			for range 20 {
				s.Tick(TickPhysics)
				if _, live := s.entities.Get(id); !live {
					break
				}
			}
			if _, live := s.entities.Get(id); live {
				t.Fatal("hazard never reached the actor")
			}
			if s.Lives() != 2 {
				t.Errorf("lives = %d, want 2", s.Lives())
			}
			if s.Score() != tt.wantScore {
				t.Errorf("score = %d, want %d", s.Score(), tt.wantScore)
			}
			if ev := s.DrainEvents(); len(ev) != tt.events {
				t.Errorf("events = %d, want %d", len(ev), tt.events)
			}
		})
	}
}

func TestTimedModeEndsOnLastSecond(t *testing.T) {
	s := newTestSession(t, config.DefaultBubblepopConfig(), ModeTimeAttack)
	s.timeLeft = 1
	id := spawn(s, CategoryNormal, 10, 300, 30, 2)

	s.Tick(TickClock)
	if s.Status() != StatusEnded || s.TimeLeft() != 0 {
		t.Fatalf("status=%v timeLeft=%d, want ended 0", s.Status(), s.TimeLeft())
	}

	before := s.Snapshot()
	s.Tick(TickPhysics)
	s.Tick(TickSpawn)
	s.Tick(TickClock)
	if _, err := s.Activate(id); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Activate after end err = %v", err)
	}
	if after := s.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("state changed after end\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestClockIgnoredWhenUntimed(t *testing.T) {
	s := newTestSession(t, config.DefaultBubblepopConfig(), ModeClassic)
	for range 100 {
		s.Tick(TickClock)
	}
	if s.Status() != StatusRunning {
		t.Errorf("classic session ended by clock")
	}
}

func TestEscapePenalty(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		category  Category
		wantLives int
	}{
		{"survival normal", ModeSurvival, CategoryNormal, 2},
		{"survival bonus", ModeSurvival, CategoryBonus, 2},
		{"survival hazard", ModeSurvival, CategoryHazard, 3},
		{"classic normal", ModeClassic, CategoryNormal, 999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, config.DefaultBubblepopConfig(), tt.mode)
			id := spawn(s, tt.category, 10, 5, 20, 30)
			s.Tick(TickPhysics)
			if _, live := s.entities.Get(id); live {
				t.Fatal("entity did not exit the top edge")
			}
			if s.Lives() != tt.wantLives {
				t.Errorf("lives = %d, want %d", s.Lives(), tt.wantLives)
			}
			if s.Score() != 0 {
				t.Errorf("escape changed score to %d", s.Score())
			}
		})
	}
}

func TestEscapeLastLifeEndsSession(t *testing.T) {
	s := newTestSession(t, config.DefaultBubblepopConfig(), ModeSurvival)
	s.lives = 1
	spawn(s, CategoryNormal, 10, 5, 20, 30)
	spawn(s, CategoryNormal, 100, 5, 20, 30)
	s.Tick(TickPhysics)

	if s.Lives() != 0 {
		t.Errorf("lives = %d, want 0", s.Lives())
	}
	if s.Status() != StatusEnded {
		t.Errorf("status = %v, want ended", s.Status())
	}

	count := len(s.Entities())
	for range 100 {
		s.Tick(TickSpawn)
	}
	if len(s.Entities()) != count {
		t.Error("spawner ran after session ended")
	}
}

func TestBonusResolution(t *testing.T) {
	s := newTestSession(t, config.DefaultBubblepopConfig(), ModeClassic)
	s.score = 1000
	id := spawn(s, CategoryBonus, 10, 300, 30, 2)

	ok, err := s.Activate(id)
	if !ok || err != nil {
		t.Fatalf("Activate = %v, %v", ok, err)
	}
	if s.Score() != 1050 {
		t.Errorf("score = %d, want 1050", s.Score())
	}
	events := s.DrainEvents()
	want := []ledger.Event{{SessionID: s.ID(), Kind: ledger.KindBonus, Score: 1050}}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, want %+v", events, want)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	s := newTestSession(t, config.DefaultBubblepopConfig(), ModeClassic)
	id := spawn(s, CategoryNormal, 10, 300, 20, 2)

	first, _ := s.Activate(id)
	second, err := s.Activate(id)
	if !first || second || err != nil {
		t.Fatalf("Activate results = %v, %v, %v", first, second, err)
	}
	if s.Score() != 42 {
		t.Errorf("score = %d, want 42", s.Score())
	}
	if n := len(s.DrainEvents()); n != 1 {
		t.Errorf("events = %d, want 1", n)
	}
}

func TestEscapedEntityCannotBeResolved(t *testing.T) {
	s := newTestSession(t, config.DefaultBubblepopConfig(), ModeClassic)
	id := spawn(s, CategoryNormal, 10, 5, 20, 30)
	s.Tick(TickPhysics)
	if ok, _ := s.Activate(id); ok {
		t.Error("resolved an entity that already left the field")
	}
	if s.Score() != 0 {
		t.Errorf("score = %d, want 0", s.Score())
	}
}

func TestActivateAtPrefersMostRecent(t *testing.T) {
	s := newTestSession(t, config.DefaultBubblepopConfig(), ModeClassic)
	older := spawn(s, CategoryNormal, 100, 300, 40, 2)
	newer := spawn(s, CategoryBonus, 110, 310, 40, 2)

	if ok, _ := s.ActivateAt(120, 320); !ok {
		t.Fatal("ActivateAt missed overlapping entities")
	}
	if _, live := s.entities.Get(newer); live {
		t.Error("most recent entity should be resolved first")
	}
	if _, live := s.entities.Get(older); !live {
		t.Error("older entity should remain")
	}
	if ok, _ := s.ActivateAt(5, 5); ok {
		t.Error("ActivateAt on empty space resolved something")
	}
}

func TestNormalPoints(t *testing.T) {
	r := testRules(t, config.DefaultBubblepopConfig())
	tests := []struct {
		size float64
		want int
	}{
		{60, 10},
		{65, 10},
		{40, 26},
		{20, 42},
		{18, 43},
	}
	for _, tt := range tests {
		if got := r.points(CategoryNormal, tt.size); got != tt.want {
			t.Errorf("points(normal, %v) = %d, want %d", tt.size, got, tt.want)
		}
	}

	d := testRules(t, config.DefaultDodgerConfig())
	if got := d.points(CategoryNormal, 30); got != 10 {
		t.Errorf("flat coin points = %d, want 10", got)
	}
	if got := d.eventKind(CategoryNormal); got != ledger.KindCoin {
		t.Errorf("dodger event kind = %q, want coin", got)
	}
}

func TestHazardOnLastLifeEnds(t *testing.T) {
	s := newTestSession(t, config.DefaultBubblepopConfig(), ModeSurvival)
	s.lives = 1
	id := spawn(s, CategoryHazard, 10, 300, 30, 2)
	spawn(s, CategoryNormal, 200, 300, 30, 2)

	if _, err := s.Activate(id); err != nil {
		t.Fatal(err)
	}
	if s.Status() != StatusEnded || s.Lives() != 0 {
		t.Fatalf("status=%v lives=%d", s.Status(), s.Lives())
	}
	before := s.Entities()
	s.Tick(TickPhysics)
	if !reflect.DeepEqual(before, s.Entities()) {
		t.Error("physics ran after session ended")
	}
}

func TestPauseFreezesState(t *testing.T) {
	s := newTestSession(t, config.DefaultBubblepopConfig(), ModeTimeAttack)
	spawn(s, CategoryNormal, 10, 300, 30, 2)
	for range 30 {
		s.Tick(TickPhysics)
		s.Tick(TickSpawn)
	}
	if err := s.Pause(); err != nil {
		t.Fatal(err)
	}
	before := s.Snapshot()
	for range 500 {
		s.Tick(TickPhysics)
		s.Tick(TickSpawn)
		s.Tick(TickClock)
	}
	if _, err := s.ActivateAt(20, 200); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ActivateAt while paused err = %v", err)
	}
	if err := s.Move(1); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Move while paused err = %v", err)
	}
	if after := s.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("paused state changed\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestFreezeSlowsEntities(t *testing.T) {
	cfg := config.DefaultDodgerConfig()
	s := newTestSession(t, cfg, ModeClassic)

	freeze := spawn(s, CategoryFreeze, 0, 100, 30, 3)
	if _, err := s.Activate(freeze); err != nil {
		t.Fatal(err)
	}
	if !s.Snapshot().Frozen {
		t.Fatal("freeze not active after resolution")
	}
	if n := len(s.DrainEvents()); n != 0 {
		t.Errorf("freeze produced %d score events", n)
	}

	id := spawn(s, CategoryNormal, 0, 0, 30, 4)
	s.Tick(TickPhysics)
	e, _ := s.entities.Get(id)
	if e.Y != 2 {
		t.Errorf("frozen y = %v, want 2", e.Y)
	}

	ticks := cfg.Freeze.DurationMs / cfg.Timing.PhysicsMs
	for range ticks {
		s.Tick(TickPhysics)
	}
	if s.Snapshot().Frozen {
		t.Error("freeze did not expire")
	}
}

func TestDodgerActorCollectsCoin(t *testing.T) {
	cfg := config.DefaultDodgerConfig()
	s := newTestSession(t, cfg, ModeClassic)
	actor, ok := s.ActorBounds()
	if !ok || actor.Bottom() != cfg.Field.Height {
		t.Fatalf("actor = %+v, want bottom edge", actor)
	}

	id := spawn(s, CategoryNormal, actor.X, actor.Y-35, 30, 10)
	s.Tick(TickPhysics)
	if _, live := s.entities.Get(id); live {
		t.Fatal("coin not collected by actor")
	}
	if s.Score() != 10 {
		t.Errorf("score = %d, want 10", s.Score())
	}
	ev := s.DrainEvents()
	if len(ev) != 1 || ev[0].Kind != ledger.KindCoin {
		t.Errorf("events = %+v, want one coin event", ev)
	}
}

func TestActorCaughtFreezeKeepsFullDuration(t *testing.T) {
	cfg := config.DefaultDodgerConfig()
	s := newTestSession(t, cfg, ModeClassic)
	actor, _ := s.ActorBounds()

	id := spawn(s, CategoryFreeze, actor.X, actor.Y-35, 30, 10)
	s.Tick(TickPhysics)
	if _, live := s.entities.Get(id); live {
		t.Fatal("freeze not caught by actor")
	}
	if want := msDuration(cfg.Freeze.DurationMs); s.freezeLeft != want {
		t.Errorf("freezeLeft = %v, want %v", s.freezeLeft, want)
	}

	s.Tick(TickPhysics)
	if want := msDuration(cfg.Freeze.DurationMs) - s.rules.Interval(TickPhysics); s.freezeLeft != want {
		t.Errorf("after one more pass freezeLeft = %v, want %v", s.freezeLeft, want)
	}
}

func TestMoveClampsActor(t *testing.T) {
	cfg := config.DefaultDodgerConfig()
	s := newTestSession(t, cfg, ModeClassic)
	for range 50 {
		s.Move(-1)
	}
	if a, _ := s.ActorBounds(); a.X != 0 {
		t.Errorf("actor x = %v, want 0", a.X)
	}
	for range 50 {
		s.Move(1)
	}
	if a, _ := s.ActorBounds(); a.Right() != cfg.Field.Width {
		t.Errorf("actor right = %v, want %v", a.Right(), cfg.Field.Width)
	}
}

func TestWarmUp(t *testing.T) {
	cfg := config.DefaultBubblepopConfig()
	s := newTestSession(t, cfg, ModeClassic)
	ticks := cfg.Timing.WarmUpMs / cfg.Timing.PhysicsMs
	for range ticks - 1 {
		s.Tick(TickPhysics)
	}
	if s.Snapshot().WarmedUp {
		t.Fatal("warmed up too early")
	}
	s.Tick(TickPhysics)
	if !s.Snapshot().WarmedUp {
		t.Error("not warmed up after warm-up period")
	}
}

func TestScoreAndLivesNeverNegative(t *testing.T) {
	cfg := config.DefaultBubblepopConfig()
	cfg.Difficulty.HazardChance = config.LinearCurve{Base: 0.6, Limit: 0.6}
	cfg.Spawn.BonusChance = 0.1
	s := newTestSession(t, cfg, ModeSurvival)

	for i := range 5000 {
		s.Tick(TickSpawn)
		s.Tick(TickPhysics)
		if live := s.Entities(); len(live) > 0 && i%3 == 0 {
			s.Activate(live[s.rng.Intn(len(live))].ID)
		}
		snap := s.Snapshot()
		if snap.Score < 0 || snap.Lives < 0 {
			t.Fatalf("negative state at step %d: score=%d lives=%d", i, snap.Score, snap.Lives)
		}
		for _, e := range s.DrainEvents() {
			if e.Score < 0 {
				t.Fatalf("negative score event %+v", e)
			}
		}
		if s.Status() == StatusEnded {
			if s.Lives() != 0 {
				t.Fatalf("survival ended with %d lives", s.Lives())
			}
			s.Start(ModeSurvival)
		}
	}
}

func defaultTestConfig() config.GameConfig {
	return config.DefaultBubblepopConfig()
}
