package signal

import "github.com/huddleapp/huddle/internal/protocol"

func (ctl *Controller) handlePing(
	conn *wsConn,
) {
	ctl.sendJSON(conn, protocol.Pong{Type: protocol.TypePong})
}
