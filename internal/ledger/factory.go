package ledger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/bubblepop/internal/config"
)

// NewReporter builds the reporter selected by cfg.Kind. store is only
// required for the "store" kind.
func NewReporter(cfg config.ReporterConfig, store EventStore, logger *log.Logger) (Reporter, error) {
	switch cfg.Kind {
	case "", "none":
		return Nop{}, nil
	case "log":
		return LogReporter{Logger: logger}, nil
	case "http":
		if cfg.URL == "" {
			return nil, fmt.Errorf("ledger: http reporter requires a url")
		}
		timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
		return HTTPReporter{URL: cfg.URL, Client: &http.Client{Timeout: timeout}}, nil
	case "store":
		if store == nil {
			return nil, fmt.Errorf("ledger: store reporter requires a database")
		}
		return StoreReporter{Store: store}, nil
	}
	return nil, fmt.Errorf("ledger: unknown reporter kind %q", cfg.Kind)
}

// NewDispatcherFromConfig wraps the reporter in a dispatcher tuned by cfg.
func NewDispatcherFromConfig(r Reporter, cfg config.ReporterConfig, logger *log.Logger) *Dispatcher {
	return NewDispatcher(r, DispatcherOptions{
		QueueSize: cfg.QueueSize,
		Workers:   cfg.Workers,
		Timeout:   time.Duration(cfg.TimeoutMs) * time.Millisecond,
		Logger:    logger,
	})
}
