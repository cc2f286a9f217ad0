// Package bubblepop registers Bubble Pop: bubbles rise from the bottom of
// the field and are popped by pointing at them. Smaller bubbles are worth
// more, gold bubbles are a bonus and bombs cost points and a life.
package bubblepop

import (
	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/engine"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

const (
	ID    = "bubblepop"
	Title = "Bubble Pop"
)

func init() {
	registry.RegisterArcade(ID, Title, Rules)
}

// Rules loads the Bubble Pop configuration and builds its rules.
func Rules(configPath string) (engine.Rules, error) {
	cfg, err := config.LoadGame(ID, configPath)
	if err != nil {
		return engine.Rules{}, err
	}
	return engine.NewRules(ID, Title, cfg)
}
