package bubblepop

import (
	"testing"

	"github.com/vovakirdan/bubblepop/internal/engine"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

func TestRegistered(t *testing.T) {
	info, ok := registry.Lookup(ID)
	if !ok || info.Kind != registry.KindArcade || info.Title != Title {
		t.Fatalf("Lookup(%q) = %+v, %v", ID, info, ok)
	}
}

func TestBubblesRiseAndScoreBySize(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	rules, err := registry.LoadRules(ID, "")
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if !rules.TravelsUp() {
		t.Fatal("bubbles should rise")
	}
	if _, ok := engine.NewSession(rules, 1, nil).ActorBounds(); ok {
		t.Error("bubble pop has no actor")
	}

	s := engine.NewSession(rules, 3, nil)
	if err := s.Start(engine.ModeClassic); err != nil {
		t.Fatal(err)
	}
	for range 200 {
		s.Tick(engine.TickSpawn)
	}
	live := s.Entities()
	if len(live) == 0 {
		t.Fatal("nothing spawned in ten seconds")
	}
	before := live[0].Y
	s.Tick(engine.TickPhysics)
	if got := s.Entities()[0].Y; got >= before {
		t.Errorf("bubble moved from %v to %v, want upward", before, got)
	}
}
