package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/ledger"
	"github.com/vovakirdan/bubblepop/internal/platform/tui"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

// app holds the services a command wires together. Fields are nil when a
// service could not be started and the command chose to continue without it.
type app struct {
	logger     *log.Logger
	store      *storage.Store
	dispatcher *ledger.Dispatcher
	logFile    io.Closer
}

// newApp builds the logger, opens the database and starts the event
// dispatcher. Interactive commands log to a file so the terminal UI is
// left alone; servers log to stderr.
func newApp(interactive, requireStore bool) (*app, error) {
	a := &app{}

	logger, closer, err := newLogger(interactive)
	if err != nil {
		return nil, err
	}
	a.logger, a.logFile = logger, closer

	store, err := storage.Open(flagDBPath)
	if err != nil {
		if requireStore {
			a.close()
			return nil, err
		}
		a.logger.Warn("continuing without scores database", "err", err)
		if !interactive {
			fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		}
	} else {
		a.store = store
	}

	rcfg, err := reporterConfig()
	if err != nil {
		a.close()
		return nil, err
	}
	var events ledger.EventStore
	if a.store != nil {
		events = a.store
	}
	reporter, err := ledger.NewReporter(rcfg, events, a.logger.WithPrefix("ledger"))
	if err != nil {
		a.close()
		return nil, err
	}
	a.dispatcher = ledger.NewDispatcherFromConfig(reporter, rcfg, a.logger.WithPrefix("ledger"))
	a.logger.Debug("reporter ready", "kind", rcfg.Kind, "queue", rcfg.QueueSize, "workers", rcfg.Workers)
	return a, nil
}

func (a *app) backend() tui.Backend {
	b := tui.Backend{
		Logger:     a.logger,
		ConfigPath: flagConfig,
		Store:      a.store,
	}
	if a.dispatcher != nil {
		b.Sink = a.dispatcher
	}
	return b
}

// close drains pending events for a short while, then releases everything.
func (a *app) close() {
	if a.dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := a.dispatcher.Close(ctx); err != nil {
			a.logger.Warn("dropped pending score events", "err", err)
		}
		cancel()
		stats := a.dispatcher.Stats()
		a.logger.Debug("ledger stats", "delivered", stats.Delivered, "failed", stats.Failed, "dropped", stats.Dropped)
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

func newLogger(interactive bool) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	var w io.Writer = os.Stderr
	var closer io.Closer
	if interactive {
		path := flagLogFile
		if path == "" {
			home, herr := os.UserHomeDir()
			if herr != nil {
				return log.New(io.Discard), nil, nil
			}
			path = filepath.Join(home, ".bubblepop", "bubblepop.log")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "bubblepop",
		Level:           level,
	})
	return logger, closer, nil
}

// reporterConfig loads the reporter settings and applies the CLI overrides.
func reporterConfig() (config.ReporterConfig, error) {
	cfg, err := config.LoadReporter(flagReporterConfig)
	if err != nil {
		return cfg, err
	}
	if flagReporter != "" {
		cfg.Kind = flagReporter
	}
	if flagReporterURL != "" {
		cfg.URL = flagReporterURL
		if flagReporter == "" {
			cfg.Kind = "http"
		}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runtimeConfig sizes the session to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:    width,
		ScreenH:    height,
		TickRate:   flagFPS,
		Seed:       seed(),
		ConfigPath: flagConfig,
	}
}

func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
