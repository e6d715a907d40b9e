package app

import (
	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/core"
	"github.com/huddleapp/huddle/internal/domain"
)

// Forward delivers a raw signaling frame (offer, answer or
// ice_candidate) to exactly the resolved target connection. Never to
// the sender, never broadcast. Stateless: routing is resolved per
// frame against the store.
func (rl *Relay) Forward(eventType, meeting, to string, raw core.Frame) error {
	target, err := rl.Rooms.Resolve(meeting, to)
	if err != nil {
		return err
	}
	conn, ok := rl.Registry.Conn(target)
	if !ok {
		// Roster entry outlived its connection; treat as missing target.
		log.Warn().Str("module", "app.relay").Str("meeting", meeting).Str("to", to).Msg("signal target has no live connection")
		return domain.ErrTargetNotFound
	}
	if err := conn.TrySend(raw); err != nil {
		log.Warn().Err(err).Str("module", "app.relay").Str("meeting", meeting).Str("to", to).Msg("signal dropped")
		return nil
	}
	rl.Metrics.SignalsForwarded.WithLabelValues(eventType).Inc()
	return nil
}
