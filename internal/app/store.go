package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/huddleapp/huddle/internal/core"
	"github.com/huddleapp/huddle/internal/domain"
)

// meeting is the store-internal state of one live room.
type meeting struct {
	meta    *domain.Meeting
	members map[string]core.ConnID
	chat    []domain.ChatMessage
}

// MeetingInfo is a read-only view for APIs (no connection fields).
type MeetingInfo struct {
	Name        string   `json:"meeting_name"`
	Host        string   `json:"host"`
	Members     []string `json:"members"`
	MemberCount int      `json:"member_count"`
}

// MemberRef pairs a roster entry with its live connection.
type MemberRef struct {
	Username string
	Conn     core.ConnID
}

// Removal reports what a member removal did to the room.
type Removal struct {
	RoomDeleted bool
	// Transcript is the full chat history, handed back only when the
	// removal tore the room down.
	Transcript []domain.ChatMessage
}

// Store owns the set of live meetings. All mutations go through its
// operations; each operation is atomic under one lock, which is enough
// serialization at the expected room counts.
type Store struct {
	mu       sync.RWMutex
	meetings map[string]*meeting
}

func NewStore() *Store {
	return &Store{meetings: make(map[string]*meeting)}
}

// Create registers a new empty meeting. The name is the sole lookup
// key; a collision fails without touching the existing room.
func (s *Store) Create(name, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meetings[name]; ok {
		return domain.ErrNameTaken
	}
	s.meetings[name] = &meeting{
		meta:    &domain.Meeting{Name: domain.MeetingName(name), Host: host},
		members: make(map[string]core.ConnID),
	}
	log.Info().Str("module", "app.store").Str("meeting", name).Str("host", host).Msg("meeting created")
	return nil
}

func (s *Store) Info(name string) (MeetingInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[name]
	if !ok {
		return MeetingInfo{}, domain.ErrNotFound
	}
	info := MeetingInfo{
		Name:        name,
		Host:        m.meta.Host,
		Members:     make([]string, 0, len(m.members)),
		MemberCount: len(m.members),
	}
	for username := range m.members {
		info.Members = append(info.Members, username)
	}
	return info, nil
}

// Members lists the roster. The listing is refused once membership
// exceeds domain.MaxListedMembers; the join itself is never refused.
func (s *Store) Members(name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if len(m.members) > domain.MaxListedMembers {
		return nil, domain.ErrRoomFull
	}
	out := make([]string, 0, len(m.members))
	for username := range m.members {
		out = append(out, username)
	}
	return out, nil
}

// AddMember binds username to conn in the named meeting. If the
// username was already bound, the previous connection is returned so
// the caller can evict it.
func (s *Store) AddMember(name, username string, conn core.ConnID) (prev core.ConnID, replaced bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[name]
	if !ok {
		return "", false, domain.ErrNotFound
	}
	prev, replaced = m.members[username]
	m.members[username] = conn
	log.Info().Str("module", "app.store").Str("meeting", name).Str("username", username).Msg("member added")
	return prev, replaced, nil
}

// RemoveMember drops the roster entry. The meeting itself is deleted
// atomically with the removal that empties it.
func (s *Store) RemoveMember(name, username string) (Removal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[name]
	if !ok {
		return Removal{}, domain.ErrNotFound
	}
	if _, ok := m.members[username]; !ok {
		return Removal{}, domain.ErrNotMember
	}
	delete(m.members, username)
	log.Info().Str("module", "app.store").Str("meeting", name).Str("username", username).Msg("member removed")
	if len(m.members) > 0 {
		return Removal{}, nil
	}
	delete(s.meetings, name)
	log.Info().Str("module", "app.store").Str("meeting", name).Msg("meeting deleted")
	return Removal{RoomDeleted: true, Transcript: m.chat}, nil
}

// MemberConns snapshots the roster with live connections for fan-out.
func (s *Store) MemberConns(name string) ([]MemberRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]MemberRef, 0, len(m.members))
	for username, conn := range m.members {
		out = append(out, MemberRef{Username: username, Conn: conn})
	}
	return out, nil
}

// Resolve maps a username inside a meeting to its live connection.
func (s *Store) Resolve(name, username string) (core.ConnID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	conn, ok := m.members[username]
	if !ok {
		return "", domain.ErrTargetNotFound
	}
	return conn, nil
}

func (s *Store) AppendChat(name, sender, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meetings[name]
	if !ok {
		return domain.ErrNotFound
	}
	m.chat = append(m.chat, domain.ChatMessage{Sender: sender, Text: text})
	return nil
}

func (s *Store) History(name string) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]domain.ChatMessage, len(m.chat))
	copy(out, m.chat)
	return out, nil
}

func (s *Store) MeetingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings)
}
