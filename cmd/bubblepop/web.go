package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bubblepop/internal/engine"
	"github.com/vovakirdan/bubblepop/internal/platform/web"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

var (
	flagWebAddr    string
	flagWebOrigins []string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the browser front-end",
	Long: `Serve the arcade games over HTTP. Every browser tab opens a websocket
that drives its own game session.

Endpoints:
  GET /                         - Canvas client
  GET /api/games                - Registered games
  GET /api/games/:game/rules    - Modes, field and actor of an arcade game
  GET /api/scores/:game         - Top scores (?mode=&limit=)
  GET /ws/:game                 - Websocket session (?mode= starts immediately)

Examples:
  bubblepop web
  bubblepop web --addr :9000 --reporter store
  bubblepop web --allow-origin https://arcade.example.com`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address")
	webCmd.Flags().StringSliceVar(&flagWebOrigins, "allow-origin", nil, "extra origins allowed to open websockets (same-origin always is, * allows all)")
}

func runWeb(_ *cobra.Command, _ []string) {
	a, err := newApp(false, false)
	if err != nil {
		fail("%v", err)
	}
	defer a.close()

	gin.SetMode(gin.ReleaseMode)
	opts := web.Options{
		Logger:         a.logger.WithPrefix("web"),
		Sink:           a.dispatcher,
		AllowedOrigins: flagWebOrigins,
		LoadRules: func(gameID string) (engine.Rules, error) {
			return registry.LoadRules(gameID, flagConfig)
		},
	}
	if a.store != nil {
		opts.Scores = a.store
		opts.Results = a.store
	}

	serveHTTP(a, "web", flagWebAddr, web.NewRouter(opts))
}

// serveHTTP runs handler until SIGINT/SIGTERM, then shuts down gracefully.
func serveHTTP(a *app, name, addr string, handler http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Printf("Starting bubblepop %s server on %s\n", name, addr)
	fmt.Println("Press Ctrl+C to stop")
	a.logger.Info("listening", "server", name, "addr", addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.close()
			fail("server: %v", err)
		}
	case <-ctx.Done():
		a.logger.Info("shutting down", "server", name)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("shutdown", "err", err)
		}
	}
}
