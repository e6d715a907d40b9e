// Package signal is the WebSocket gateway: it upgrades connections,
// decodes inbound events and hands them to the relay.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/app"
	"github.com/huddleapp/huddle/internal/config"
	"github.com/huddleapp/huddle/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Relay      *app.Relay
	ReadLimit  int64
	PingPeriod time.Duration
	AudioFile  string
}

func NewController(relay *app.Relay, cfg *config.Config) *Controller {
	return &Controller{
		Relay:      relay,
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		AudioFile:  cfg.AudioFile,
	}
}

type frame struct {
	binary bool
	data   core.Frame
}

// wsConn wraps a websocket connection with a buffered send queue.
// Implements core.SignalConnection.
type wsConn struct {
	conn *websocket.Conn
	send chan frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) trySend(f frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) TrySend(data core.Frame) error {
	return c.trySend(frame{data: data})
}

func (c *wsConn) TrySendBinary(data core.Frame) error {
	return c.trySend(frame{binary: true, data: data})
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan frame, 32),
	}

	id := ctl.Relay.Connect(conn)
	log.Info().Str("module", "signal").Str("cid", string(id)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}
