// bubblepop is a real-time arcade for the terminal, SSH and the browser.
//
// Usage:
//
//	bubblepop list              - List available games
//	bubblepop play <game>       - Play a game
//	bubblepop menu              - Start menu to pick games interactively
//	bubblepop serve             - Start SSH server for remote play
//	bubblepop web               - Start the browser front-end
//	bubblepop ledger            - Start the score event collector
//	bubblepop scores <game>     - Show high scores for a game
//	bubblepop events            - Show recorded score events
//
// Global flags:
//
//	--fps <rate>         - Set tick rate for step games (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.bubblepop/bubblepop.db)
//	--config <path>      - Custom game config YAML
//	--reporter <kind>    - Score event reporter: none, log, http, store
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/bubblepop/internal/games/bubblepop"
	_ "github.com/vovakirdan/bubblepop/internal/games/dodger"
	_ "github.com/vovakirdan/bubblepop/internal/games/snake"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

var (
	// Global flags
	flagFPS            int
	flagSeed           int64
	flagDBPath         string
	flagConfig         string
	flagLogLevel       string
	flagLogFile        string
	flagReporter       string
	flagReporterURL    string
	flagReporterConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bubblepop",
	Short: "Bubble Pop - a real-time arcade in your terminal",
	Long: `Bubble Pop is a real-time arcade. Entities spawn into a field,
travel across it and must be popped, caught or dodged before they escape.
The same engine drives the terminal, SSH and browser front-ends.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  web      - Start HTTP/websocket server for browser play
  ledger   - Start the score event collector
  scores   - View high scores
  events   - View recorded score events

Examples:
  bubblepop list
  bubblepop play bubblepop
  bubblepop menu
  bubblepop serve --ssh :2222
  bubblepop web --addr :8080 --reporter store
  bubblepop scores bubblepop --mode survival`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate for step games (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file for interactive commands (default: ~/.bubblepop/bubblepop.log)")
	rootCmd.PersistentFlags().StringVar(&flagReporter, "reporter", "", "Score event reporter: none, log, http, store (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagReporterURL, "reporter-url", "", "Collector URL for the http reporter")
	rootCmd.PersistentFlags().StringVar(&flagReporterConfig, "reporter-config", "", "Path to reporter config YAML")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(eventsCmd)
}
