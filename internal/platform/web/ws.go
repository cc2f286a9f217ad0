package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/bubblepop/internal/engine"
)

const (
	writeWait    = 5 * time.Second
	maxMessage   = 1024
	snapshotBuf  = 4
	commandQueue = 16
)

// checkOrigin accepts same-origin pages, clients that send no Origin and
// the configured allow-list ("*" allows every origin).
func (s *server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) || strings.EqualFold(allowed, u.Host) {
			return true
		}
	}
	s.logger.Warn("websocket origin rejected", "origin", origin, "host", r.Host)
	return false
}

// clientMessage is a command sent by the browser.
type clientMessage struct {
	Cmd  string  `json:"cmd"`
	Mode string  `json:"mode,omitempty"`
	ID   uint64  `json:"id,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
	Dir  int     `json:"dir,omitempty"`
}

// command converts the message to an engine command.
func (m clientMessage) command() (engine.Command, error) {
	switch m.Cmd {
	case "start":
		mode, err := engine.ParseMode(m.Mode)
		if err != nil {
			return nil, err
		}
		return engine.Start{Mode: mode}, nil
	case "pause":
		return engine.Pause{}, nil
	case "resume":
		return engine.Resume{}, nil
	case "toggle_pause":
		return engine.TogglePause{}, nil
	case "reset":
		return engine.Reset{}, nil
	case "activate":
		return engine.Activate{ID: engine.EntityID(m.ID)}, nil
	case "activate_at":
		return engine.ActivateAt{X: m.X, Y: m.Y}, nil
	case "move":
		return engine.Move{Dir: m.Dir}, nil
	}
	return nil, fmt.Errorf("unknown command %q", m.Cmd)
}

// serverMessage is pushed to the browser: a snapshot after every change,
// or an error for a rejected command.
type serverMessage struct {
	Type     string           `json:"type"`
	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
	Cmd      string           `json:"cmd,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// play upgrades the request and runs one controller for the connection.
// An optional ?mode= starts a session right away.
func (s *server) play(c *gin.Context) {
	gameID := c.Param("game")
	rules, err := s.opts.LoadRules(gameID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var autoStart *engine.Mode
	if q, ok := c.GetQuery("mode"); ok {
		mode, perr := engine.ParseMode(q)
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
			return
		}
		autoStart = &mode
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "err", err)
		return
	}
	conn.SetReadLimit(maxMessage)

	logger := s.logger.With("game", gameID, "remote", c.Request.RemoteAddr)
	opts := engine.Options{
		Rules:  rules,
		Sink:   s.opts.Sink,
		Scores: s.opts.Results,
		Logger: logger,
	}
	newConnSession(conn, engine.NewController(opts), logger).run(c.Request.Context(), autoStart)
}

// connSession couples a websocket with its controller. The read loop is
// the only reader and the write loop the only writer on conn.
type connSession struct {
	conn   *websocket.Conn
	ctrl   *engine.Controller
	logger *log.Logger
	errs   chan serverMessage
}

func newConnSession(conn *websocket.Conn, ctrl *engine.Controller, logger *log.Logger) *connSession {
	return &connSession{
		conn:   conn,
		ctrl:   ctrl,
		logger: logger,
		errs:   make(chan serverMessage, commandQueue),
	}
}

func (cs *connSession) run(parent context.Context, autoStart *engine.Mode) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	go cs.ctrl.Run(ctx) //nolint:errcheck // exits with ctx.Err on disconnect
	snaps, unsubscribe := cs.ctrl.Subscribe(snapshotBuf)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		cs.writeLoop(snaps)
	}()

	cs.logger.Info("client connected")
	if autoStart != nil {
		cs.apply(ctx, "start", engine.Start{Mode: *autoStart})
	}
	cs.readLoop(ctx)

	unsubscribe()
	cs.ctrl.Close()
	<-cs.ctrl.Done()
	<-writerDone
	cs.conn.Close()
	cs.logger.Info("client disconnected")
}

func (cs *connSession) readLoop(ctx context.Context) {
	for {
		_, data, err := cs.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cs.logger.Debug("websocket read", "err", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			cs.reject("", "malformed message")
			continue
		}
		cmd, err := msg.command()
		if err != nil {
			cs.reject(msg.Cmd, err.Error())
			continue
		}
		cs.apply(ctx, msg.Cmd, cmd)
	}
}

func (cs *connSession) apply(ctx context.Context, name string, cmd engine.Command) {
	if err := cs.ctrl.Do(ctx, cmd); err != nil {
		cs.reject(name, err.Error())
	}
}

func (cs *connSession) reject(cmd, reason string) {
	select {
	case cs.errs <- serverMessage{Type: "error", Cmd: cmd, Error: reason}:
	default:
		cs.logger.Debug("error reply dropped", "cmd", cmd)
	}
}

// writeLoop forwards snapshots and errors until the subscription closes.
func (cs *connSession) writeLoop(snaps <-chan engine.Snapshot) {
	for {
		var msg serverMessage
		select {
		case snap, ok := <-snaps:
			if !ok {
				cs.closeConn()
				return
			}
			msg = serverMessage{Type: "snapshot", Snapshot: &snap}
		case msg = <-cs.errs:
		}

		cs.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck // surfaces on write
		if err := cs.conn.WriteJSON(msg); err != nil {
			cs.logger.Debug("websocket write", "err", err)
			// Unblock the reader so the session tears down
			cs.conn.Close()
			for range snaps {
			}
			return
		}
	}
}

func (cs *connSession) closeConn() {
	deadline := time.Now().Add(writeWait)
	//nolint:errcheck // peer may already be gone
	cs.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}
