package dodger

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

func TestBasketSitsAtBottom(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	rules, err := Rules("")
	if err != nil {
		t.Fatalf("Rules: %v", err)
	}
	if rules.TravelsUp() {
		t.Fatal("objects should fall")
	}

	s := engine.NewSession(rules, 1, nil)
	if err := s.Start(engine.ModeSurvival); err != nil {
		t.Fatal(err)
	}
	basket, ok := s.ActorBounds()
	if !ok {
		t.Fatal("dodger needs a basket")
	}
	if basket.Bottom() != rules.Config.Field.Height {
		t.Errorf("basket bottom = %v, want %v", basket.Bottom(), rules.Config.Field.Height)
	}
	if err := s.Move(-1); err != nil {
		t.Fatal(err)
	}
	if moved, _ := s.ActorBounds(); basket.X-moved.X != rules.Config.Actor.Step {
		t.Errorf("basket moved %v, want %v", basket.X-moved.X, rules.Config.Actor.Step)
	}
}
