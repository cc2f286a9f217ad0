package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblepop/internal/ledger"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

var (
	flagEventsGID   string
	flagEventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recorded score events",
	Long: `Display score events recorded by the store reporter or the ledger
server, newest first.

Examples:
  bubblepop events
  bubblepop events --gid 7f1c... --limit 100`,
	Args: cobra.NoArgs,
	Run:  runEvents,
}

func init() {
	eventsCmd.Flags().StringVar(&flagEventsGID, "gid", "", "Only show events of one game session")
	eventsCmd.Flags().IntVar(&flagEventsLimit, "limit", 20, "Number of events to show")
}

func runEvents(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening database: %v", err)
	}
	defer store.Close()

	var events []ledger.Event
	if flagEventsGID != "" {
		events, err = store.EventsBySession(flagEventsGID, flagEventsLimit)
	} else {
		events, err = store.RecentEvents(flagEventsLimit)
	}
	if err != nil {
		store.Close()
		fail("retrieving events: %v", err)
	}

	if len(events) == 0 {
		fmt.Println("No events recorded yet.")
		fmt.Println()
		fmt.Println("Run with '--reporter store' to record score events locally.")
		return
	}

	fmt.Printf("  %-19s  %-36s  %-7s  %s\n", "Time", "Session", "Event", "Score")
	fmt.Printf("  %-19s  %-36s  %-7s  %s\n", "----", "-------", "-----", "-----")
	for _, e := range events {
		fmt.Printf("  %-19s  %-36s  %-7s  %d\n", e.At.Format("2006-01-02 15:04:05"), e.SessionID, e.Kind, e.Score)
	}

	if total, err := store.CountEvents(); err == nil {
		fmt.Println()
		fmt.Printf("Total events: %d\n", total)
	}
}
