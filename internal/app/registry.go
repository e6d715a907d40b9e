package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/core"
)

type regEntry struct {
	Conn     core.SignalConnection
	Meeting  string
	Username string
}

// Registry maps a connection identifier to its transport endpoint and
// to at most one (meeting, username) membership. It is the reverse
// index consulted on disconnect, when the transport hands us only the
// identifier and not the application-level identity. The lifecycle
// controller is the sole writer.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*regEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnID]*regEntry)}
}

func (r *Registry) Bind(id core.ConnID, conn core.SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &regEntry{Conn: conn}
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Msg("bound connection")
}

func (r *Registry) Unbind(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Msg("unbound connection")
}

func (r *Registry) Conn(id core.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

// SetMembership records which room and username the connection joined.
// Kept transactional with every join and removal so the index never
// outlives the roster entry it mirrors.
func (r *Registry) SetMembership(id core.ConnID, meeting, username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	e.Meeting = meeting
	e.Username = username
	log.Info().Str("module", "app.registry").Str("cid", string(id)).Str("meeting", meeting).Str("username", username).Msg("membership set")
	return true
}

func (r *Registry) ClearMembership(id core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[id]; ok {
		e.Meeting = ""
		e.Username = ""
	}
}

// Membership resolves the connection to its (meeting, username), if
// it joined one.
func (r *Registry) Membership(id core.ConnID) (meeting, username string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, found := r.conns[id]
	if !found || e.Meeting == "" {
		return "", "", false
	}
	return e.Meeting, e.Username, true
}
