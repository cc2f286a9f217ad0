package tui

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/bubblepop/internal/engine"
)

// modeMenu picks the mode of an arcade session. It is embedded in
// ArcadeModel and shown while the session is idle.
type modeMenu struct {
	cursor int
}

// update moves the cursor. It returns the chosen mode on select.
func (m *modeMenu) update(action MenuAction) (engine.Mode, bool) {
	switch action {
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(engine.Modes)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		return engine.Modes[m.cursor], true
	}
	return engine.ModeClassic, false
}

func modeDescription(rules engine.Rules, mode engine.Mode) string {
	mc := rules.Mode(mode)
	switch {
	case mc.TimeLimit > 0:
		return fmt.Sprintf("%ds on the clock", mc.TimeLimit)
	case mode == engine.ModeSurvival && mc.EscapePenalty:
		return fmt.Sprintf("%d lives, escapes cost a life", mc.Lives)
	case mode == engine.ModeSurvival:
		return fmt.Sprintf("%d lives", mc.Lives)
	default:
		return "play until the hazards get you"
	}
}

// view renders the title and mode list, one entry per line.
func (m modeMenu) view(rules engine.Rules, best, width int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(strings.ToUpper(rules.Title), width))
	b.WriteString("\n\n")
	if best > 0 {
		b.WriteString(centerText(fmt.Sprintf("Best: %d", best), width))
		b.WriteString("\n\n")
	}
	b.WriteString(centerText("Select game mode:", width))
	b.WriteString("\n\n")

	for i, mode := range engine.Modes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-12s %s", cursor, mode.Title(), modeDescription(rules, mode))
		b.WriteString(centerText(line, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Start  |  Esc: Back  |  Q: Quit", width))
	return b.String()
}
