package ledger

import (
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// EventLog is the storage used by the receiver.
type EventLog interface {
	EventStore
	EventsBySession(sessionID string, limit int) ([]Event, error)
	RecentEvents(limit int) ([]Event, error)
}

// NewServer returns the receiver router: POST /events records a payload,
// GET /events lists them, GET /healthz reports liveness.
func NewServer(store EventLog, logger *log.Logger) *gin.Engine {
	if logger == nil {
		logger = log.Default()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/events", postEvent(store, logger))
	r.GET("/events", listEvents(store, logger))
	return r
}

func postEvent(store EventLog, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p Payload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if p.GID == "" || p.Event == "" || p.Score < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gid, event and a non-negative score are required"})
			return
		}
		e := Event{SessionID: p.GID, Kind: p.Event, Score: p.Score, At: time.Now().UTC()}
		if err := store.SaveEvent(e); err != nil {
			logger.Error("save event", "gid", p.GID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot store event"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
	}
}

func listEvents(store EventLog, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}

		var events []Event
		if gid := c.Query("gid"); gid != "" {
			events, err = store.EventsBySession(gid, limit)
		} else {
			events, err = store.RecentEvents(limit)
		}
		if err != nil {
			logger.Error("list events", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list events"})
			return
		}
		if events == nil {
			events = []Event{}
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
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
