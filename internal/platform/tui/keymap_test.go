package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/bubblepop/internal/core"
)

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{runeKey(' '), core.ActionActivate, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{runeKey('p'), core.ActionPause, false},
		{runeKey('r'), core.ActionRestart, false},
		{runeKey('q'), core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{runeKey('x'), core.ActionNone, false},
	}
	for _, tt := range tests {
		action, quit := km.MapKey(tt.msg)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v,%v; want %v,%v", tt.msg.String(), action, quit, tt.action, tt.quit)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey('k'), MenuActionUp},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey('b'), MenuActionBack},
		{runeKey('q'), MenuActionQuit},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}
