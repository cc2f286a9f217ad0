package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/engine"
)

// snapshotMsg carries a snapshot published by the controller.
type snapshotMsg engine.Snapshot

// snapshotsClosedMsg reports that the controller has shut down.
type snapshotsClosedMsg struct{}

// waitForSnapshot blocks until the controller publishes the next snapshot.
func waitForSnapshot(ch <-chan engine.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return snapshotsClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// ArcadeModel is the Bubble Tea view of an engine.Controller. The
// controller runs the simulation on its own schedule; the model forwards
// input as commands and redraws whenever a snapshot arrives.
type ArcadeModel struct {
	ctx    context.Context
	ctrl   *engine.Controller
	rules  engine.Rules
	snaps  <-chan engine.Snapshot
	cancel func()
	logger *log.Logger

	screen    *core.Screen
	arena     arena
	snap      engine.Snapshot
	menu      modeMenu
	keyMapper *KeyMapper
	cursorX   int
	cursorY   int
	lastMode  engine.Mode

	quitOnBack bool
	quitting   bool
	backToMenu bool
}

// NewArcadeModel subscribes to ctrl. The controller must be running.
func NewArcadeModel(ctx context.Context, ctrl *engine.Controller, width, height int, logger *log.Logger) ArcadeModel {
	if logger == nil {
		logger = log.Default()
	}
	snaps, cancel := ctrl.Subscribe(1)
	rules := ctrl.Rules()
	m := ArcadeModel{
		ctx:       ctx,
		ctrl:      ctrl,
		rules:     rules,
		snaps:     snaps,
		cancel:    cancel,
		logger:    logger,
		screen:    core.NewScreen(width, height),
		arena:     newArena(rules.Field(), width, height),
		snap:      ctrl.Snapshot(),
		keyMapper: NewKeyMapper(),
	}
	m.centerCursor()
	return m
}

func (m *ArcadeModel) centerCursor() {
	m.cursorX = m.arena.area.X + m.arena.area.W/2
	m.cursorY = m.arena.area.Y + m.arena.area.H/2
}

// Init starts listening for snapshots.
func (m ArcadeModel) Init() tea.Cmd {
	return waitForSnapshot(m.snaps)
}

// Update handles messages.
func (m ArcadeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = engine.Snapshot(msg)
		return m, waitForSnapshot(m.snaps)

	case snapshotsClosedMsg:
		if m.backToMenu {
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		m.arena = newArena(m.rules.Field(), msg.Width, msg.Height)
		m.centerCursor()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// do applies a command synchronously. The controller loop never blocks,
// so this returns as soon as the command has been processed.
func (m ArcadeModel) do(cmd engine.Command) {
	ctx, cancel := context.WithTimeout(m.ctx, time.Second)
	defer cancel()
	err := m.ctrl.Do(ctx, cmd)
	if err != nil && !errors.Is(err, engine.ErrInvalidTransition) {
		m.logger.Warn("command failed", "command", fmt.Sprintf("%T", cmd), "err", err)
	}
}

func (m ArcadeModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.snap.Status != engine.StatusRunning || m.snap.Actor != nil {
		return m, nil
	}
	if x, y, ok := m.arena.toField(msg.X, msg.Y); ok {
		m.cursorX, m.cursorY = msg.X, msg.Y
		m.do(engine.ActivateAt{X: x, Y: y})
	}
	return m, nil
}

func (m ArcadeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	}

	if m.snap.Status == engine.StatusIdle {
		return m.handleMenuKey(msg)
	}

	switch action {
	case core.ActionBack:
		m.do(engine.Reset{})
	case core.ActionRestart:
		if m.snap.Active() {
			m.do(engine.Reset{})
		}
		m.do(engine.Start{Mode: m.lastMode})
	case core.ActionPause:
		m.do(engine.TogglePause{})
	case core.ActionLeft, core.ActionRight, core.ActionUp, core.ActionDown:
		m.steer(action)
	case core.ActionActivate:
		if m.snap.Actor == nil {
			if x, y, ok := m.arena.toField(m.cursorX, m.cursorY); ok {
				m.do(engine.ActivateAt{X: x, Y: y})
			}
		}
	}
	return m, nil
}

// steer moves the actor sideways when the game has one, otherwise the
// pointer cursor.
func (m *ArcadeModel) steer(action core.Action) {
	if m.snap.Actor != nil {
		switch action {
		case core.ActionLeft:
			m.do(engine.Move{Dir: -1})
		case core.ActionRight:
			m.do(engine.Move{Dir: 1})
		}
		return
	}

	a := m.arena.area
	switch action {
	case core.ActionLeft:
		m.cursorX--
	case core.ActionRight:
		m.cursorX++
	case core.ActionUp:
		m.cursorY--
	case core.ActionDown:
		m.cursorY++
	}
	m.cursorX = core.Clamp(m.cursorX, a.X, a.Right()-1)
	m.cursorY = core.Clamp(m.cursorY, a.Y, a.Bottom()-1)
}

func (m ArcadeModel) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionBack {
		m.backToMenu = true
		m.cancel()
		if m.quitOnBack {
			return m, tea.Quit
		}
		return m, nil
	}
	if mode, ok := m.menu.update(action); ok {
		m.lastMode = mode
		m.do(engine.Start{Mode: mode})
	}
	return m, nil
}

// View renders the current snapshot.
func (m ArcadeModel) View() string {
	if m.quitting {
		return ""
	}
	if m.snap.Status == engine.StatusIdle {
		return m.menu.view(m.rules, m.snap.Best, m.screen.Width())
	}

	m.screen.Clear()
	m.screen.DrawTextColored(1, 0, hudLine(m.rules.Title, m.snap), core.ColorWhite)
	m.arena.draw(m.screen, m.snap)

	help := "Click/Space: pop  Arrows: aim  P: pause  R: restart  Esc: menu  Q: quit"
	if m.snap.Actor != nil {
		help = "Left/Right: move  P: pause  R: restart  Esc: menu  Q: quit"
	} else if m.snap.Status == engine.StatusRunning {
		m.screen.SetColored(m.cursorX, m.cursorY, glyphCursor, core.ColorYellow)
	}
	m.screen.DrawTextColored(1, m.screen.Height()-1, help, core.ColorGray)

	switch m.snap.Status {
	case engine.StatusPaused:
		renderOverlay(m.screen, "Paused", "Press P to continue")
	case engine.StatusEnded:
		renderOverlay(m.screen, fmt.Sprintf("Game Over - Score %d", m.snap.Score), "R: play again  Esc: menu")
	}
	return RenderScreen(m.screen)
}

// renderOverlay draws a centered two-line message box.
func renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len(line1), len(line2)) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorYellow)
	dst.DrawTextCentered(box.Y+1, line1, core.ColorYellow)
	dst.DrawTextCentered(box.Y+3, line2, core.ColorWhite)
}

// Snapshot returns the last snapshot the model received.
func (m ArcadeModel) Snapshot() engine.Snapshot {
	return m.snap
}

// IsQuitting returns true if user requested to quit entirely.
func (m ArcadeModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the game picker.
func (m ArcadeModel) BackToMenu() bool {
	return m.backToMenu
}

// RunArcade plays one arcade game in the terminal until the user quits or
// backs out of the mode menu.
func RunArcade(ctx context.Context, backend Backend, gameID string, cfg core.RuntimeConfig) error {
	ctrl, err := backend.NewController(gameID, cfg.Seed)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go ctrl.Run(ctx) //nolint:errcheck // exits with ctx.Err on shutdown
	defer func() {
		ctrl.Close()
		<-ctrl.Done()
	}()

	model := NewArcadeModel(ctx, ctrl, cfg.ScreenW, cfg.ScreenH, backend.logger())
	model.quitOnBack = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
