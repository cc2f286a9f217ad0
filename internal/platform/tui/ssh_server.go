package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/engine"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.bubblepop/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate drives fixed-step games.
	TickRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
	}
}

// SSHServer wraps a Wish SSH server. Every connection gets its own menu
// and its own game sessions; scores and events go to the shared backend.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	backend Backend
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, backend Backend) (*SSHServer, error) {
	logger := backend.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "bubblepop-ssh",
		})
		backend.Logger = logger
	}

	srv := &SSHServer{
		config:  cfg,
		backend: backend,
		logger:  logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".bubblepop", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:    pty.Window.Width,
		ScreenH:    pty.Window.Height,
		TickRate:   s.config.TickRate,
		Seed:       time.Now().UnixNano(),
		ConfigPath: s.backend.ConfigPath,
	}

	backend := s.backend
	backend.Logger = s.logger.With("user", sshSession.User())
	model := NewSessionModel(sshSession.Context(), backend, cfg)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full session flow: menu -> game -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	ctx      context.Context
	backend  Backend
	config   core.RuntimeConfig
	menu     MenuModel
	step     *Model
	arcade   *ArcadeModel
	board    *ScoreboardModel
	ctrl     *engine.Controller
	quitting bool
}

// NewSessionModel creates a new session model. Controllers started by the
// session stop when ctx is cancelled.
func NewSessionModel(ctx context.Context, backend Backend, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		ctx:     ctx,
		backend: backend,
		config:  cfg,
		menu:    NewMenuModel(cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.arcade != nil:
		return m.updateArcade(msg)
	case m.step != nil:
		return m.updateStep(msg)
	case m.board != nil:
		return m.updateBoard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		board := NewScoreboardModel(m.backend.Store, m.config.ScreenW, m.config.ScreenH)
		m.board = &board
		return m, m.board.Init()
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	m.config = m.menu.Config()
	m.config.Seed = time.Now().UnixNano()

	if selected.Kind == registry.KindArcade {
		return m.startArcade(selected.GameID)
	}

	game, err := registry.Create(selected.GameID)
	if err != nil {
		m.backend.logger().Warn("create game", "game", selected.GameID, "err", err)
		m.menu = NewMenuModel(m.config)
		return m, nil
	}
	step := NewModel(game, m.backend, m.config)
	m.step = &step
	return m, m.step.Init()
}

func (m SessionModel) startArcade(gameID string) (tea.Model, tea.Cmd) {
	ctrl, err := m.backend.NewController(gameID, m.config.Seed)
	if err != nil {
		m.backend.logger().Warn("load rules", "game", gameID, "err", err)
		m.menu = NewMenuModel(m.config)
		return m, nil
	}
	go ctrl.Run(m.ctx) //nolint:errcheck // exits with ctx.Err on disconnect

	arcade := NewArcadeModel(m.ctx, ctrl, m.config.ScreenW, m.config.ScreenH, m.backend.logger())
	m.ctrl = ctrl
	m.arcade = &arcade
	return m, m.arcade.Init()
}

func (m SessionModel) updateArcade(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.arcade.Update(msg)
	if arcade, ok := newModel.(ArcadeModel); ok {
		m.arcade = &arcade
	}

	if m.arcade.IsQuitting() {
		m.ctrl.Close()
		m.quitting = true
		return m, tea.Quit
	}
	if m.arcade.BackToMenu() {
		m.ctrl.Close()
		m.ctrl = nil
		m.arcade = nil
		m.menu = NewMenuModel(m.config)
		return m, m.menu.Init()
	}
	return m, cmd
}

// updateStep handles updates when a fixed-step game is running.
func (m SessionModel) updateStep(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.step.Update(msg)
	if step, ok := newModel.(Model); ok {
		m.step = &step
	}

	if m.step.BackToMenu() {
		m.step = nil
		m.menu = NewMenuModel(m.config)
		return m, m.menu.Init()
	}
	if m.step.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m SessionModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.board.Update(msg)
	if board, ok := newModel.(ScoreboardModel); ok {
		m.board = &board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		m.board = nil
		m.menu = NewMenuModel(m.config)
		return m, m.menu.Init()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.arcade != nil:
		return m.arcade.View()
	case m.step != nil:
		return m.step.View()
	case m.board != nil:
		return m.board.View()
	}
	return m.menu.View()
}
