package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblepop/internal/platform/tui"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Arcade games open on a mode picker (classic, time attack, survival).

Controls:
  Mouse click     - Pop the entity under the pointer
  Arrows/WASD     - Move the cursor or the actor
  Space           - Pop the entity under the cursor
  P               - Pause / resume
  R               - Restart in the same mode
  Esc/B           - Back to the mode picker
  Q/Ctrl+C        - Quit

Examples:
  bubblepop play bubblepop
  bubblepop play dodger --seed 42
  bubblepop play bubblepop --config ./my-bubblepop.yaml
  bubblepop play snake --fps 30`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	info, ok := registry.Lookup(gameID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'bubblepop list' to see available games.")
		os.Exit(1)
	}

	a, err := newApp(true, false)
	if err != nil {
		fail("%v", err)
	}

	cfg := runtimeConfig()
	a.logger.Info("starting game", "game", gameID, "kind", info.Kind, "seed", cfg.Seed)

	var runErr error
	switch info.Kind {
	case registry.KindArcade:
		runErr = tui.RunArcade(context.Background(), a.backend(), gameID, cfg)
	default:
		game, cerr := registry.Create(gameID)
		if cerr != nil {
			a.close()
			fail("creating game: %v", cerr)
		}
		runErr = tui.Run(game, a.backend(), cfg)
	}

	// Close before potential exit so pending events are flushed
	a.close()

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
