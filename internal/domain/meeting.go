// Package domain contains entities and domain errors, no transport logic.
package domain

import "errors"

const (
	MaxMeetingNameLen = 36
	MaxUsernameLen    = 36

	// MaxListedMembers caps how large a roster the member-listing
	// read reports. Joins beyond the cap are not rejected; only the
	// listing fails.
	MaxListedMembers = 7
)

var (
	ErrNameTaken      = errors.New("meeting name already exists")
	ErrNotFound       = errors.New("meeting not found")
	ErrNotMember      = errors.New("user is not a member of the meeting")
	ErrTargetNotFound = errors.New("target user not found")
	ErrRoomFull       = errors.New("meeting is over capacity")

	ErrUsernameEmpty   = errors.New("username empty")
	ErrUsernameTooLong = errors.New("username too long")
	ErrNameEmpty       = errors.New("meeting name empty")
	ErrNameTooLong     = errors.New("meeting name too long")
)

type MeetingName string

// Meeting is meta only. Membership and chat live in the store.
type Meeting struct {
	Name MeetingName
	Host string
}

// ChatMessage is one append-only chat record. Insertion order is
// chronological order.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func ValidateUsername(username string) error {
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if len(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}

func ValidateMeetingName(name string) error {
	if len(name) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxMeetingNameLen {
		return ErrNameTooLong
	}
	return nil
}
