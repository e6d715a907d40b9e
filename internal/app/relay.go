package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/assist"
	"github.com/huddleapp/huddle/internal/core"
	"github.com/huddleapp/huddle/internal/metrics"
	"github.com/huddleapp/huddle/internal/protocol"
)

// Relay orchestrates meeting lifecycle and event routing: connect,
// join, chat, signaling forward, audio broadcast, disconnect cleanup.
// All room mutations go through the store's atomic operations; the
// registry mirrors membership for disconnect reverse lookup and is
// written only here.
type Relay struct {
	Registry *Registry
	Rooms    *Store
	Metrics  *metrics.Metrics

	// Optional collaborators. Nil means the assistant surface is off.
	Responder assist.Responder
	Speech    assist.Synthesizer
	Memory    assist.Memory
}

// Connect assigns an identifier to a fresh transport connection and
// binds it. The identifier is never reused.
func (rl *Relay) Connect(conn core.SignalConnection) core.ConnID {
	id := core.ConnID(uuid.NewString())
	rl.Registry.Bind(id, conn)
	rl.Metrics.ConnectionsActive.Inc()
	return id
}

// Disconnect removes the connection's membership, notifies the room
// and unbinds. Resolving a disconnect to no room is normal, not an
// error.
func (rl *Relay) Disconnect(id core.ConnID) {
	rl.removeMembership(id)
	rl.Registry.Unbind(id)
	rl.Metrics.ConnectionsActive.Dec()
}

// Leave drops the membership but keeps the connection bound, so the
// client may join another meeting on the same socket.
func (rl *Relay) Leave(id core.ConnID) {
	rl.removeMembership(id)
}

func (rl *Relay) removeMembership(id core.ConnID) {
	meeting, username, ok := rl.Registry.Membership(id)
	if !ok {
		return
	}
	rl.Registry.ClearMembership(id)
	removal, err := rl.Rooms.RemoveMember(meeting, username)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Str("cid", string(id)).Str("meeting", meeting).Msg("stale membership on removal")
		return
	}
	if removal.RoomDeleted {
		rl.Metrics.MeetingsActive.Dec()
		rl.archiveTranscript(meeting, removal)
		return
	}
	rl.broadcast(meeting, protocol.UserLeft{
		Type:        protocol.TypeUserLeft,
		MeetingName: meeting,
		Username:    username,
	})
}

// archiveTranscript hands the finished conversation to the memory
// collaborator. Best effort: failures are logged, never fatal.
func (rl *Relay) archiveTranscript(meeting string, removal Removal) {
	if rl.Memory == nil || len(removal.Transcript) == 0 {
		return
	}
	var transcript strings.Builder
	for _, msg := range removal.Transcript {
		fmt.Fprintf(&transcript, "%s: %s\n", msg.Sender, msg.Text)
	}
	id := fmt.Sprintf("%s_%s", meeting, uuid.NewString())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := rl.Memory.SaveConversation(ctx, id, transcript.String()); err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Str("meeting", meeting).Msg("transcript archive failed")
	}
}

// CreateMeeting registers a new meeting with its host. Field
// validation happens at the boundary before any state change.
func (rl *Relay) CreateMeeting(name, host string) error {
	if err := rl.Rooms.Create(name, host); err != nil {
		return err
	}
	rl.Metrics.MeetingsCreated.Inc()
	rl.Metrics.MeetingsActive.Inc()
	return nil
}

// Join registers the connection as username in the named meeting and
// broadcasts user_joined to the whole room, joiner included. A
// duplicate username evicts the previous connection rather than
// silently orphaning it. A connection already in a meeting leaves it
// first, with the usual user_left broadcast and teardown, so no roster
// keeps an entry the registry no longer tracks. Rejoining the current
// meeting does not pass through leave.
func (rl *Relay) Join(id core.ConnID, username, meeting string) error {
	if prevMeeting, _, ok := rl.Registry.Membership(id); ok && prevMeeting != meeting {
		rl.removeMembership(id)
	}
	prev, replaced, err := rl.Rooms.AddMember(meeting, username, id)
	if err != nil {
		return err
	}
	if replaced && prev != id {
		rl.evict(prev)
	}
	rl.Registry.SetMembership(id, meeting, username)
	rl.broadcast(meeting, protocol.UserJoined{
		Type:        protocol.TypeUserJoined,
		Username:    username,
		MeetingName: meeting,
	})
	return nil
}

// evict closes a connection whose username was claimed by a newer
// join. Its membership is cleared first so its own disconnect cannot
// remove the replacement mapping.
func (rl *Relay) evict(id core.ConnID) {
	rl.Registry.ClearMembership(id)
	conn, ok := rl.Registry.Conn(id)
	if !ok {
		return
	}
	if data, err := json.Marshal(protocol.NewError("signed in from another connection")); err == nil {
		_ = conn.TrySend(data)
	}
	conn.Close()
	log.Info().Str("module", "app.relay").Str("cid", string(id)).Msg("evicted stale connection")
}

// Chat appends the message to the meeting history, then broadcasts it
// to the whole room, sender included. Unknown meeting: no append, no
// broadcast.
func (rl *Relay) Chat(meeting, sender, text string) error {
	if err := rl.Rooms.AppendChat(meeting, sender, text); err != nil {
		return err
	}
	rl.Metrics.ChatMessages.Inc()
	rl.broadcast(meeting, protocol.Chat{
		Type:   protocol.TypeChatMessage,
		Sender: sender,
		Text:   text,
	})
	return nil
}

// broadcast fans a marshaled event out to every member of the meeting.
// Delivery is fire-and-forget; a slow receiver drops its frame and
// does not stall the others.
func (rl *Relay) broadcast(meeting string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Msg("broadcast marshal")
		return
	}
	rl.broadcastFrame(meeting, data, false)
}

func (rl *Relay) broadcastFrame(meeting string, data core.Frame, binary bool) {
	members, err := rl.Rooms.MemberConns(meeting)
	if err != nil {
		return
	}
	for _, member := range members {
		conn, ok := rl.Registry.Conn(member.Conn)
		if !ok {
			continue
		}
		if binary {
			err = conn.TrySendBinary(data)
		} else {
			err = conn.TrySend(data)
		}
		if err != nil {
			log.Warn().Err(err).Str("module", "app.relay").Str("meeting", meeting).Str("username", member.Username).Msg("dropped frame")
		}
	}
}
