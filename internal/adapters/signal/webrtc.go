package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/protocol"
)

// handleSignal routes offer, answer and ice_candidate. Only the
// routing header is decoded; the raw frame is forwarded untouched to
// the resolved target, never to the sender, never broadcast.
func (ctl *Controller) handleSignal(
	conn *wsConn,
	eventType string,
	data []byte,
) {
	var p protocol.Signal
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("type", eventType).Msg("bad signal payload")
		ctl.sendError(conn, "invalid message")
		return
	}
	if p.MeetingName == "" || p.To == "" {
		ctl.sendError(conn, "Meeting name and target are required")
		return
	}

	err := ctl.Relay.Forward(eventType, p.MeetingName, p.To, data)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		ctl.sendError(conn, msgMeetingNotFound)
	case errors.Is(err, domain.ErrTargetNotFound):
		ctl.sendError(conn, "Target user not found")
	default:
		ctl.sendError(conn, err.Error())
	}
}
