package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/core"
	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/protocol"
)

const msgMeetingNotFound = "Meeting ID not found"

func (ctl *Controller) handleJoin(
	id core.ConnID,
	conn *wsConn,
	data []byte,
) {
	var p protocol.Join
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "invalid message")
		return
	}
	if p.Username == "" || p.MeetingName == "" {
		ctl.sendError(conn, "Username and meeting name are required")
		return
	}

	log.Info().Str("module", "signal").Str("cid", string(id)).Str("meeting", p.MeetingName).Str("username", p.Username).Msg("join")
	if err := ctl.Relay.Join(id, p.Username, p.MeetingName); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ctl.sendError(conn, msgMeetingNotFound)
			return
		}
		ctl.sendError(conn, err.Error())
	}
}

// handleLeave drops the membership without closing the socket, so the
// client can join another meeting on the same connection.
func (ctl *Controller) handleLeave(
	id core.ConnID,
	conn *wsConn,
) {
	log.Info().Str("module", "signal").Str("cid", string(id)).Msg("leave")
	ctl.Relay.Leave(id)
	ctl.sendJSON(conn, protocol.Envelope{Type: protocol.TypeLeft})
}
