package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/core"
	"github.com/huddleapp/huddle/internal/protocol"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	period := ctl.PingPeriod
	if period <= 0 {
		period = 54 * time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case f, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			mt := websocket.TextMessage
			if f.binary {
				mt = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(mt, f.data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, id core.ConnID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("cid", string(id)).Msg("readPump closing")
		cancel()
		c.Close()
		ctl.Relay.Disconnect(id)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("cid", string(id)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(ctx, id, c, data)
		}
	}
}

func (ctl *Controller) handleEvent(ctx context.Context, id core.ConnID, c *wsConn, data []byte) {
	typ, err := protocol.PeekType(data)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendError(c, "invalid message")
		return
	}
	ctl.Relay.Metrics.Events.WithLabelValues(typ).Inc()

	switch typ {
	case protocol.TypeJoin:
		ctl.handleJoin(id, c, data)
	case protocol.TypeLeave:
		ctl.handleLeave(id, c)
	case protocol.TypePing:
		ctl.handlePing(c)
	case protocol.TypeChatMessage:
		ctl.handleChat(c, data)
	case protocol.TypeOffer, protocol.TypeAnswer, protocol.TypeICECandidate:
		ctl.handleSignal(c, typ, data)
	case protocol.TypeSendAudio:
		ctl.handleSendAudio(c, data)
	case protocol.TypeGooseAsk:
		ctl.handleGooseAsk(ctx, c, data)
	default:
		log.Warn().Str("module", "signal").Str("type", typ).Msg("unknown signal")
	}
}

func (ctl *Controller) sendJSON(c *wsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

// sendError emits a scoped error event to the offending sender only.
func (ctl *Controller) sendError(c *wsConn, message string) {
	ctl.sendJSON(c, protocol.NewError(message))
}
