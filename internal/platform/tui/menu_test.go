package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

func menuKey(m MenuModel, msg tea.KeyMsg) MenuModel {
	next, _ := m.Update(msg)
	return next.(MenuModel)
}

func TestMenuSelectsByKind(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig())
	if len(m.items) < 2 || m.items[0].GameID != "bubblepop" {
		t.Fatalf("items = %+v", m.items)
	}

	// Up from the first entry wraps to the last
	m = menuKey(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d, want wrap to %d", m.cursor, len(m.items)-1)
	}
	m = menuKey(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want wrap to 0", m.cursor)
	}

	if !strings.Contains(m.View(), "real-time arcade") {
		t.Errorf("arcade blurb missing:\n%s", m.View())
	}

	m = menuKey(m, tea.KeyMsg{Type: tea.KeyEnter})
	sel := m.Selected()
	if sel == nil || sel.GameID != "bubblepop" || sel.Kind != registry.KindArcade {
		t.Errorf("selected = %+v", sel)
	}
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := menuKey(NewMenuModel(core.DefaultConfig()), tea.KeyMsg{Type: tea.KeyTab})
	if !m.WantsScoreboard() || m.Selected() != nil {
		t.Error("tab should open the scoreboard")
	}

	m = menuKey(NewMenuModel(core.DefaultConfig()), runeKey('q'))
	if !m.IsQuitting() || m.View() != "" {
		t.Error("q should quit with an empty view")
	}
}

func TestMenuTracksWindowSize(t *testing.T) {
	next, _ := NewMenuModel(core.DefaultConfig()).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	cfg := next.(MenuModel).Config()
	if cfg.ScreenW != 120 || cfg.ScreenH != 40 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestCenterTextMeasuresCells(t *testing.T) {
	if got := centerText("ab", 6); got != "  ab" {
		t.Errorf("centerText = %q", got)
	}
	if got := centerText("toolong", 3); got != "toolong" {
		t.Errorf("centerText overflow = %q", got)
	}
}
