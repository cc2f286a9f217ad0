package registry

import (
	"testing"

	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/engine"
)

type stubGame struct{}

func (stubGame) ID() string { return "stub" }
func (stubGame) Title() string { return "Stub" }
func (stubGame) Reset(core.RuntimeConfig) {}
func (stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (stubGame) Render(*core.Screen) {}
func (stubGame) State() core.GameState { return core.GameState{} }

func init() {
	Register("zz-stub", func() Game { return stubGame{} })
	RegisterArcade("zz-arcade", "Arcade Stub", func(path string) (engine.Rules, error) {
		return engine.NewRules("zz-arcade", "Arcade Stub", config.DefaultBubblepopConfig())
	})
}

func TestRegistryKinds(t *testing.T) {
	info, ok := Lookup("zz-stub")
	if !ok || info.Kind != KindStep || info.Title != "Stub" {
		t.Errorf("Lookup(zz-stub) = %+v, %v", info, ok)
	}
	info, ok = Lookup("zz-arcade")
	if !ok || info.Kind != KindArcade {
		t.Errorf("Lookup(zz-arcade) = %+v, %v", info, ok)
	}

	if _, err := Create("zz-stub"); err != nil {
		t.Errorf("Create(zz-stub) = %v", err)
	}
	if _, err := Create("zz-arcade"); err == nil {
		t.Error("Create on an arcade game should fail")
	}
	if _, err := LoadRules("zz-stub", ""); err == nil {
		t.Error("LoadRules on a step game should fail")
	}
	r, err := LoadRules("zz-arcade", "")
	if err != nil || r.GameID != "zz-arcade" {
		t.Errorf("LoadRules(zz-arcade) = %+v, %v", r, err)
	}
	if _, err := Create("missing"); err == nil {
		t.Error("Create(missing) should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration did not panic")
		}
	}()
	Register("zz-stub", func() Game { return stubGame{} })
}

func TestListSorted(t *testing.T) {
	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Fatalf("List not sorted: %v", list)
		}
	}
}
