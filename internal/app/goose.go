package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/assist"
)

// GooseSender is the roster-less sender name AI replies are attributed
// to in chat.
const GooseSender = "goose"

// AskGoose generates an AI reply to a member's prompt, publishes it to
// the room as a regular chat message and, when speech synthesis is
// configured, streams the spoken reply to the room with the audio
// chunk protocol. Collaborator failures abort the operation and are
// reported to the asking connection only.
func (rl *Relay) AskGoose(ctx context.Context, meeting, username, text string) error {
	if rl.Responder == nil {
		return assist.ErrDisabled
	}
	history, err := rl.Rooms.History(meeting)
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(history)+5)
	if rl.Memory != nil {
		related, err := rl.Memory.Related(ctx, text, 5)
		if err != nil {
			log.Warn().Err(err).Str("module", "app.goose").Msg("memory retrieval failed")
		} else {
			lines = append(lines, related...)
		}
	}
	for _, msg := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Sender, msg.Text))
	}

	if err := rl.Chat(meeting, username, text); err != nil {
		return err
	}
	reply, err := rl.Responder.Reply(ctx, text, lines)
	if err != nil {
		return fmt.Errorf("generate reply: %w", err)
	}
	if err := rl.Chat(meeting, GooseSender, reply); err != nil {
		return err
	}

	if rl.Speech == nil {
		return nil
	}
	path, err := rl.Speech.Synthesize(ctx, reply)
	if err != nil {
		return fmt.Errorf("synthesize reply: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open speech file: %w", err)
	}
	defer f.Close()
	return rl.StreamAudio(meeting, f)
}
