// Package dodger registers Coin Dodger: coins, bombs and ice cubes fall
// toward a basket the player slides left and right. Coins score, bombs
// cost points and a life, ice slows everything down for a few seconds.
package dodger

import (
	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/engine"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

const (
	ID    = "dodger"
	Title = "Coin Dodger"
)

func init() {
	registry.RegisterArcade(ID, Title, Rules)
}

// Rules loads the dodger configuration and builds its rules.
func Rules(configPath string) (engine.Rules, error) {
	cfg, err := config.LoadGame(ID, configPath)
	if err != nil {
		return engine.Rules{}, err
	}
	return engine.NewRules(ID, Title, cfg)
}
