package signal

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/protocol"
)

// handleSendAudio streams the configured local audio asset to the
// whole room in fixed-size binary chunks followed by a completion
// marker.
func (ctl *Controller) handleSendAudio(
	conn *wsConn,
	data []byte,
) {
	var p protocol.SendAudio
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad send_audio payload")
		ctl.sendError(conn, "invalid message")
		return
	}
	if p.MeetingName == "" {
		ctl.sendError(conn, "Meeting name is required")
		return
	}

	f, err := os.Open(ctl.AudioFile)
	if err != nil {
		if os.IsNotExist(err) {
			ctl.sendError(conn, "MP3 file not found")
			return
		}
		ctl.sendError(conn, err.Error())
		return
	}
	defer f.Close()

	if err := ctl.Relay.StreamAudio(p.MeetingName, f); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ctl.sendError(conn, msgMeetingNotFound)
			return
		}
		ctl.sendError(conn, err.Error())
	}
}
