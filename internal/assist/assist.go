// Package assist holds the narrow interfaces the relay uses to talk to
// its AI collaborators. The relay treats them as opaque functions
// returning text or file paths and propagates their failures as
// operation errors.
package assist

import (
	"context"
	"errors"
	"io"
)

var ErrDisabled = errors.New("assistant is not available")

// Responder produces an AI reply for a prompt given recent
// conversation history.
type Responder interface {
	Reply(ctx context.Context, prompt string, history []string) (string, error)
}

// Synthesizer converts text to speech and returns the path of the
// generated audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Transcriber converts recorded speech to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Memory stores finished conversations as embeddings and retrieves
// snippets related to a query.
type Memory interface {
	SaveConversation(ctx context.Context, id, transcript string) error
	Related(ctx context.Context, query string, k int) ([]string, error)
}
