package app

import (
	"io"

	"github.com/huddleapp/huddle/internal/core"
	"github.com/huddleapp/huddle/internal/protocol"
)

// AudioChunkSize is the fixed size of binary audio chunks broadcast to
// a room.
const AudioChunkSize = 4096

// StreamAudio reads the source sequentially and broadcasts it to the
// whole meeting in fixed-size binary chunks, in order, terminated by
// an explicit audio_complete event so receivers know when to stop
// buffering. Delivery is best effort with no backpressure handling.
func (rl *Relay) StreamAudio(meeting string, src io.Reader) error {
	if _, err := rl.Rooms.Info(meeting); err != nil {
		return err
	}
	buf := make([]byte, AudioChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			// TrySend queues asynchronously, so every chunk needs its own copy.
			chunk := make(core.Frame, n)
			copy(chunk, buf[:n])
			rl.broadcastFrame(meeting, chunk, true)
			rl.Metrics.AudioChunksSent.Inc()
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	rl.broadcast(meeting, protocol.AudioComplete{Type: protocol.TypeAudioDone})
	return nil
}
