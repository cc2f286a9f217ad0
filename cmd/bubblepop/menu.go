package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblepop/internal/platform/tui"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the arcade with a game picker menu",
	Long: `Start the arcade in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Scoreboard
  Q            - Quit

Examples:
  bubblepop menu
  bubblepop menu --reporter log
  bubblepop menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	a, err := newApp(true, false)
	if err != nil {
		fail("%v", err)
	}
	defer a.close()

	cfg := runtimeConfig()
	backend := a.backend()

	for {
		menuResult, err := tui.RunMenu(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Keep any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(a.store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			break
		}

		gameID := menuResult.GameID
		if gameID == "" {
			break
		}

		// Fresh seed for each game unless pinned
		cfg.Seed = seed()

		switch menuResult.Kind {
		case registry.KindArcade:
			err = tui.RunArcade(context.Background(), backend, gameID, cfg)
		default:
			game, cerr := registry.Create(gameID)
			if cerr != nil {
				fmt.Fprintf(os.Stderr, "Error creating game: %v\n", cerr)
				continue
			}
			err = tui.Run(game, backend, cfg)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}
}
