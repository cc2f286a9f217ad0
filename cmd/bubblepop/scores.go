package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblepop/internal/engine"
	"github.com/vovakirdan/bubblepop/internal/registry"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

var (
	flagScoresMode  string
	flagScoresLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show high scores for a game",
	Long: `Display the top high scores for the specified game.

Examples:
  bubblepop scores bubblepop
  bubblepop scores bubblepop --mode survival
  bubblepop scores snake --limit 20`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresMode, "mode", "", "Only show scores for a mode: classic, time_attack, survival")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

func runScores(cmd *cobra.Command, args []string) {
	gameID := args[0]

	info, ok := registry.Lookup(gameID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'bubblepop list' to see available games.")
		os.Exit(1)
	}
	if flagScoresMode != "" {
		if _, err := engine.ParseMode(flagScoresMode); err != nil {
			fail("%v", err)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	var scores []storage.ScoreEntry
	if flagScoresMode != "" {
		scores, err = store.TopScoresByMode(gameID, flagScoresMode, flagScoresLimit)
	} else {
		scores, err = store.TopScores(gameID, flagScoresLimit)
	}
	if err != nil {
		store.Close()
		fail("retrieving scores: %v", err)
	}

	fmt.Printf("High Scores - %s\n", info.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'bubblepop play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-10s  %-12s  %s\n", "Rank", "Score", "Mode", "Date")
	fmt.Printf("  %-4s  %-10s  %-12s  %s\n", "----", "-----", "----", "----")

	for i, entry := range scores {
		mode := entry.Mode
		if mode == "" {
			mode = "-"
		}
		fmt.Printf("  %-4d  %-10d  %-12s  %s\n", i+1, entry.Score, mode, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.BestScore(gameID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}
