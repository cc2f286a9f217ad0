package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		err  bool
	}{
		{"classic", ModeClassic, false},
		{"", ModeClassic, false},
		{"time-attack", ModeTimeAttack, false},
		{"TIME_ATTACK", ModeTimeAttack, false},
		{"survival", ModeSurvival, false},
		{"zen", ModeClassic, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseMode(%q) err = %v", tt.in, err)
		}
		if tt.err && !errors.Is(err, ErrUnknownMode) {
			t.Errorf("ParseMode(%q) err = %v, want ErrUnknownMode", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, m := range Modes {
		if got, _ := ParseMode(m.String()); got != m {
			t.Errorf("round trip %v -> %v", m, got)
		}
	}
}

func TestEntitySetOrder(t *testing.T) {
	var s EntitySet
	for id := EntityID(1); id <= 5; id++ {
		s.add(Entity{ID: id, X: float64(id) * 10, Y: 0, Size: 15})
	}
	if _, ok := s.remove(3); !ok {
		t.Fatal("remove(3) failed")
	}
	if _, ok := s.remove(3); ok {
		t.Error("remove(3) succeeded twice")
	}
	if _, ok := s.Get(4); !ok {
		t.Error("Get(4) after removing 3 failed")
	}

	// Entities 1 and 2 overlap at x=22; the newer one wins.
	if e, ok := s.TopmostAt(22, 5); !ok || e.ID != 2 {
		t.Errorf("TopmostAt = %v, %v, want id 2", e.ID, ok)
	}

	all := s.All()
	all[0].X = -1
	if e, _ := s.Get(1); e.X == -1 {
		t.Error("All returned a shared slice")
	}
}

func TestSnapshotJSON(t *testing.T) {
	s := newTestSession(t, defaultTestConfig(), ModeSurvival)
	spawn(s, CategoryHazard, 10, 300, 30, 2)

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out["status"] != "running" || out["mode"] != "survival" {
		t.Errorf("status/mode = %v/%v", out["status"], out["mode"])
	}
	ents := out["entities"].([]any)
	if ents[0].(map[string]any)["category"] != "hazard" {
		t.Errorf("entity = %v", ents[0])
	}
}
