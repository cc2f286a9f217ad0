// Package web serves the arcade games over HTTP: a JSON API for the game
// list and scores, and a websocket per browser tab driving its own
// engine.Controller.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/bubblepop/internal/engine"
	"github.com/vovakirdan/bubblepop/internal/ledger"
	"github.com/vovakirdan/bubblepop/internal/registry"
	"github.com/vovakirdan/bubblepop/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// ScoreBoard is the read side of score storage.
type ScoreBoard interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	TopScoresByMode(gameID, mode string, limit int) ([]storage.ScoreEntry, error)
}

// Options configures the router. Only LoadRules has a default.
type Options struct {
	Scores  ScoreBoard        // nil disables /api/scores
	Results engine.ScoreStore // nil disables best score persistence
	Sink    ledger.Sink       // nil drops score events
	Logger  *log.Logger

	// AllowedOrigins lists extra origins (full "scheme://host" or bare
	// host) allowed to open websockets. Same-origin pages always are.
	AllowedOrigins []string

	// LoadRules builds the rules for an arcade game.
	LoadRules func(gameID string) (engine.Rules, error)
}

type server struct {
	opts     Options
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewRouter returns the HTTP handler for the web front-end.
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.LoadRules == nil {
		opts.LoadRules = func(gameID string) (engine.Rules, error) {
			return registry.LoadRules(gameID, "")
		}
	}
	s := &server{opts: opts, logger: opts.Logger}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", http.FS(static))
	})
	r.StaticFS("/static", http.FS(static))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/games", s.listGames)
	api.GET("/games/:game/rules", s.gameRules)
	api.GET("/scores/:game", s.topScores)

	r.GET("/ws/:game", s.play)
	return r
}

type gameJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
}

func (s *server) listGames(c *gin.Context) {
	games := registry.List()
	out := make([]gameJSON, 0, len(games))
	for _, g := range games {
		out = append(out, gameJSON{ID: g.ID, Title: g.Title, Kind: g.Kind.String()})
	}
	c.JSON(http.StatusOK, gin.H{"games": out})
}

type modeJSON struct {
	Mode          engine.Mode `json:"mode"`
	Title         string      `json:"title"`
	Lives         int         `json:"lives"`
	TimeLimit     int         `json:"time_limit"`
	EscapePenalty bool        `json:"escape_penalty"`
}

func (s *server) gameRules(c *gin.Context) {
	rules, err := s.opts.LoadRules(c.Param("game"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	modes := make([]modeJSON, 0, len(engine.Modes))
	for _, m := range engine.Modes {
		mc := rules.Mode(m)
		modes = append(modes, modeJSON{
			Mode:          m,
			Title:         m.Title(),
			Lives:         mc.Lives,
			TimeLimit:     mc.TimeLimit,
			EscapePenalty: mc.EscapePenalty,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"game":  rules.GameID,
		"title": rules.Title,
		"field": rules.Field(),
		"actor": rules.Config.Actor.Enabled,
		"modes": modes,
	})
}

type scoreJSON struct {
	Score     int       `json:"score"`
	Mode      string    `json:"mode"`
	SessionID string    `json:"session_id,omitempty"`
	At        time.Time `json:"at"`
}

func (s *server) topScores(c *gin.Context) {
	if s.opts.Scores == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scores are not available"})
		return
	}
	gameID := c.Param("game")
	if !registry.Exists(gameID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown game"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}

	var entries []storage.ScoreEntry
	if mode := c.Query("mode"); mode != "" {
		m, perr := engine.ParseMode(mode)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
			return
		}
		entries, err = s.opts.Scores.TopScoresByMode(gameID, m.String(), limit)
	} else {
		entries, err = s.opts.Scores.TopScores(gameID, limit)
	}
	if err != nil {
		s.logger.Error("list scores", "game", gameID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list scores"})
		return
	}

	out := make([]scoreJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, scoreJSON{Score: e.Score, Mode: e.Mode, SessionID: e.SessionID, At: e.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"game": gameID, "scores": out})
}

// requestLogger logs each request at debug level.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}
