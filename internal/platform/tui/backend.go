package tui

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblepop/internal/engine"
	"github.com/vovakirdan/bubblepop/internal/ledger"
	"github.com/vovakirdan/bubblepop/internal/registry"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

// Backend bundles the services shared by every play session.
// All fields are optional.
type Backend struct {
	Store      *storage.Store
	Sink       ledger.Sink
	Logger     *log.Logger
	ConfigPath string
}

func (b Backend) logger() *log.Logger {
	if b.Logger == nil {
		return log.New(io.Discard)
	}
	return b.Logger
}

// NewController builds an idle controller for an arcade game. The caller
// runs and closes it.
func (b Backend) NewController(gameID string, seed int64) (*engine.Controller, error) {
	rules, err := registry.LoadRules(gameID, b.ConfigPath)
	if err != nil {
		return nil, err
	}
	opts := engine.Options{
		Rules:  rules,
		Seed:   seed,
		Sink:   b.Sink,
		Logger: b.logger(),
	}
	if b.Store != nil {
		opts.Scores = b.Store
	}
	return engine.NewController(opts), nil
}
