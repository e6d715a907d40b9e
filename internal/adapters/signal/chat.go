package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/assist"
	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/protocol"
)

func (ctl *Controller) handleChat(
	conn *wsConn,
	data []byte,
) {
	var p protocol.Chat
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendError(conn, "invalid message")
		return
	}
	if err := ctl.Relay.Chat(p.MeetingName, p.Sender, p.Text); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ctl.sendError(conn, msgMeetingNotFound)
			return
		}
		ctl.sendError(conn, err.Error())
	}
}

func (ctl *Controller) handleGooseAsk(
	ctx context.Context,
	conn *wsConn,
	data []byte,
) {
	var p protocol.GooseAsk
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad goose payload")
		ctl.sendError(conn, "invalid message")
		return
	}
	if p.MeetingName == "" || p.Text == "" {
		ctl.sendError(conn, "Meeting name and text are required")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	err := ctl.Relay.AskGoose(ctx, p.MeetingName, p.Username, p.Text)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		ctl.sendError(conn, msgMeetingNotFound)
	case errors.Is(err, assist.ErrDisabled):
		ctl.sendError(conn, "assistant is not available")
	default:
		log.Error().Err(err).Str("module", "signal").Str("meeting", p.MeetingName).Msg("goose ask failed")
		ctl.sendError(conn, err.Error())
	}
}
