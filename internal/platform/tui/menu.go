package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

// MenuItem is one registered game in the picker.
type MenuItem struct {
	GameID string
	Title  string
	Kind   registry.Kind
}

// blurb is the one-line description under the selected game.
func (it MenuItem) blurb() string {
	if it.Kind == registry.KindArcade {
		return "real-time arcade: classic, time attack or survival"
	}
	return "fixed-step classic"
}

// MenuModel picks a game or opens the scoreboard. It quits its program on
// every decision; the caller reads the outcome.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper

	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel lists every registered game.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, len(games))
	for i, g := range games {
		items[i] = MenuItem{GameID: g.ID, Title: g.Title, Kind: g.Kind}
	}
	return MenuModel{items: items, config: cfg, keyMapper: NewKeyMapper()}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW, m.config.ScreenH = msg.Width, msg.Height
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.items)
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}
	case MenuActionDown:
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case MenuActionSelect:
		if n > 0 {
			item := m.items[m.cursor]
			m.selected = &item
			return m, tea.Quit
		}
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("117"))
	menuActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	w := m.config.ScreenW

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("B U B B L E   P O P"), w))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(menuDimStyle.Render("No games registered."), w))
		b.WriteString("\n")
	}
	for i, it := range m.items {
		line := fmt.Sprintf("  %-16s %6s", it.Title, it.Kind)
		if i == m.cursor {
			line = menuActiveStyle.Render(fmt.Sprintf("> %-16s %6s", it.Title, it.Kind))
		}
		b.WriteString(centerText(line, w))
		b.WriteString("\n")
	}
	if m.cursor < len(m.items) {
		b.WriteString("\n")
		b.WriteString(centerText(menuDimStyle.Render(m.items[m.cursor].blurb()), w))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuDimStyle.Render("↑/↓ choose   Enter play   Tab scores   Q quit"), w))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen game, or nil.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the runtime config, resized to the last window size.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText pads text to the middle of width, measuring printed cells so
// styled strings center correctly.
func centerText(text string, width int) string {
	tw := lipgloss.Width(text)
	if tw >= width {
		return text
	}
	return strings.Repeat(" ", (width-tw)/2) + text
}

// MenuResult is the outcome of RunMenu.
type MenuResult struct {
	GameID          string
	Kind            registry.Kind
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu shows the picker until the user decides.
func RunMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	final, err := tea.NewProgram(NewMenuModel(cfg), tea.WithAltScreen()).Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := final.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	res := MenuResult{Config: m.Config(), WantsScoreboard: m.WantsScoreboard()}
	switch {
	case res.WantsScoreboard:
	case m.Selected() != nil:
		res.GameID, res.Kind = m.Selected().GameID, m.Selected().Kind
	default:
		res.Quit = true
	}
	return res, nil
}
