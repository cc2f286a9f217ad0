package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblepop/internal/ledger"
)

var flagLedgerAddr string

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Start the score event collector",
	Long: `Run an HTTP collector for score events. Game servers started with
--reporter http --reporter-url http://host:8090/events post to it, and the
events are appended to the database.

Endpoints:
  POST /events          - Record one event
  GET  /events?gid=     - List recent events
  GET  /healthz         - Liveness

Examples:
  bubblepop ledger --addr :8090
  bubblepop web --reporter-url http://localhost:8090/events`,
	Args: cobra.NoArgs,
	Run:  runLedger,
}

func init() {
	ledgerCmd.Flags().StringVar(&flagLedgerAddr, "addr", ":8090", "HTTP listen address")
}

func runLedger(_ *cobra.Command, _ []string) {
	// The collector stores events itself; it never reports further.
	flagReporter = "none"
	flagReporterURL = ""

	a, err := newApp(false, true)
	if err != nil {
		fail("%v", err)
	}
	defer a.close()

	gin.SetMode(gin.ReleaseMode)
	serveHTTP(a, "ledger", flagLedgerAddr, ledger.NewServer(a.store, a.logger.WithPrefix("ledger")))
}
