package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bubblepop/internal/engine"
	"github.com/vovakirdan/bubblepop/internal/registry"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

const (
	boardSidebarMinWidth = 80
	boardSidebarWidth    = 22
	boardLimit           = 100
)

// scoreSource is the read side of the score database.
type scoreSource interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	TopScoresByMode(gameID, mode string, limit int) ([]storage.ScoreEntry, error)
	GetGameStats(gameID string) (*storage.GameStats, error)
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Mode     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextGame, k.PrevGame, k.Mode, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextGame, k.PrevGame, k.Mode},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextGame: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "next game")),
		PrevGame: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev game")),
		Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode filter")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists the best scores per game, optionally narrowed to
// one mode for arcade games.
type ScoreboardModel struct {
	src    scoreSource
	games  []registry.GameInfo
	cursor int
	filter int // 0 = all modes, otherwise index+1 into engine.Modes

	scores []storage.ScoreEntry
	stats  *storage.GameStats
	err    error

	table table.Model
	help  help.Model
	keys  ScoreboardKeyMap

	width, height int
	quitting      bool
	goingBack     bool
}

// NewScoreboardModel creates a scoreboard over store. A nil store shows
// empty tables.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	var src scoreSource
	if store != nil {
		src = store
	}
	return newScoreboard(src, width, height)
}

func newScoreboard(src scoreSource, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		src:    src,
		games:  registry.List(),
		help:   help.New(),
		keys:   DefaultScoreboardKeyMap(),
		width:  width,
		height: height,
	}
	m.table = m.newTable()
	m.reload()
	return m
}

func (m ScoreboardModel) wide() bool {
	return m.width >= boardSidebarMinWidth
}

func (m ScoreboardModel) newTable() table.Model {
	dateW := 16
	if room := m.width - 40; m.wide() && room-boardSidebarWidth > dateW {
		dateW = min(room-boardSidebarWidth, 20)
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 8},
			{Title: "Mode", Width: 12},
			{Title: "Date", Width: dateW},
		}),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("37"))
	t.SetStyles(s)
	return t
}

// game returns the selected game.
func (m ScoreboardModel) game() (registry.GameInfo, bool) {
	if len(m.games) == 0 {
		return registry.GameInfo{}, false
	}
	return m.games[m.cursor], true
}

// mode returns the active filter; ok is false for "all modes".
func (m ScoreboardModel) mode() (engine.Mode, bool) {
	if m.filter == 0 {
		return engine.ModeClassic, false
	}
	return engine.Modes[m.filter-1], true
}

// reload fetches the rows and stats for the selected game and filter.
func (m *ScoreboardModel) reload() {
	m.scores, m.stats, m.err = nil, nil, nil
	g, ok := m.game()
	if ok && m.src != nil {
		if mode, filtered := m.mode(); filtered {
			m.scores, m.err = m.src.TopScoresByMode(g.ID, mode.String(), boardLimit)
		} else {
			m.scores, m.err = m.src.TopScores(g.ID, boardLimit)
		}
		if m.err == nil {
			m.stats, m.err = m.src.GetGameStats(g.ID)
		}
	}

	rows := make([]table.Row, 0, len(m.scores))
	for i, s := range m.scores {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", s.Score),
			modeTitle(s.Mode),
			s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) cycleGame(delta int) {
	if len(m.games) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.games)) % len(m.games)
	if g, _ := m.game(); g.Kind != registry.KindArcade {
		m.filter = 0
	}
	m.reload()
}

// cycleMode steps the filter through all modes and each mode in turn.
// Step games have no modes.
func (m *ScoreboardModel) cycleMode() {
	if g, ok := m.game(); !ok || g.Kind != registry.KindArcade {
		return
	}
	m.filter = (m.filter + 1) % (len(engine.Modes) + 1)
	m.reload()
}

// modeTitle renders a stored mode name for display.
func modeTitle(name string) string {
	if name == "" {
		return "-"
	}
	mode, err := engine.ParseMode(name)
	if err != nil {
		return name
	}
	return mode.Title()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextGame):
			m.cycleGame(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevGame):
			m.cycleGame(-1)
			return m, nil
		case key.Matches(msg, m.keys.Mode):
			m.cycleMode()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	boardDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boardPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "HIGH SCORES"
	if g, ok := m.game(); ok {
		title += " - " + g.Title
	}

	var b strings.Builder
	b.WriteString(boardTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(centerText(m.summary(), m.width)))
	b.WriteString("\n\n")

	scores := boardPanelStyle.Render(m.body())
	if m.wide() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), "  ", scores))
	} else {
		if g, ok := m.game(); ok {
			b.WriteString(centerText(fmt.Sprintf("< %s >", g.Title), m.width))
			b.WriteString("\n")
		}
		b.WriteString(scores)
	}

	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// summary is the filter and stats line under the title.
func (m ScoreboardModel) summary() string {
	filter := "All modes"
	if mode, ok := m.mode(); ok {
		filter = mode.Title()
	}
	if g, ok := m.game(); ok && g.Kind != registry.KindArcade {
		filter = "Fixed step"
	}
	if m.stats == nil || m.stats.GamesCount == 0 {
		return filter
	}
	return fmt.Sprintf("%s  |  played %d  best %d  avg %.0f  last %s",
		filter, m.stats.GamesCount, m.stats.HighScore, m.stats.AvgScore,
		m.stats.LastPlayed.Format("Jan 02 15:04"))
}

func (m ScoreboardModel) sidebar() string {
	var b strings.Builder
	for i, g := range m.games {
		name := g.Title
		if limit := boardSidebarWidth - 6; len(name) > limit {
			name = name[:limit-1] + "."
		}
		line := "  " + name
		if i == m.cursor {
			line = boardTitleStyle.Render("> " + name)
		}
		b.WriteString(line)
		if i < len(m.games)-1 {
			b.WriteString("\n")
		}
	}
	return boardPanelStyle.Width(boardSidebarWidth).Render(b.String())
}

func (m ScoreboardModel) body() string {
	switch {
	case m.src == nil:
		return boardDimStyle.Italic(true).Padding(1, 2).Render("No scores database.")
	case m.err != nil:
		return boardDimStyle.Italic(true).Padding(1, 2).Render("Cannot load scores: " + m.err.Error())
	case len(m.scores) == 0:
		return boardDimStyle.Italic(true).Padding(1, 2).Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
