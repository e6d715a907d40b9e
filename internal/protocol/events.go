// Package protocol defines the wire events exchanged over the signaling
// connection. Every text frame is a JSON object tagged with "type";
// required fields are validated at the gateway before dispatch.
package protocol

import "encoding/json"

const (
	TypeJoin         = "join"
	TypeLeave        = "leave"
	TypeLeft         = "left"
	TypePing         = "ping"
	TypePong         = "pong"
	TypeChatMessage  = "chat_message"
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeICECandidate = "ice_candidate"
	TypeUserJoined   = "user_joined"
	TypeUserLeft     = "user_left"
	TypeSendAudio    = "send_audio"
	TypeAudioDone    = "audio_complete"
	TypeGooseAsk     = "goose_ask"
	TypeError        = "error"
)

type Envelope struct {
	Type string `json:"type"`
}

// PeekType reads only the tag of an inbound frame.
func PeekType(data []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", err
	}
	return env.Type, nil
}

type Join struct {
	Type        string `json:"type"`
	Username    string `json:"username"`
	MeetingName string `json:"meeting_name"`
}

type Chat struct {
	Type        string `json:"type"`
	MeetingName string `json:"meeting_name,omitempty"`
	Sender      string `json:"sender"`
	Text        string `json:"text"`
}

// Signal is the routing header shared by offer, answer and
// ice_candidate. The relay never inspects the rest of the payload; the
// raw frame is forwarded to the resolved target as received.
type Signal struct {
	Type        string `json:"type"`
	MeetingName string `json:"meeting_name"`
	From        string `json:"from"`
	To          string `json:"to"`
}

type SendAudio struct {
	Type        string `json:"type"`
	MeetingName string `json:"meeting_name"`
}

type GooseAsk struct {
	Type        string `json:"type"`
	MeetingName string `json:"meeting_name"`
	Username    string `json:"username"`
	Text        string `json:"text"`
}

type UserJoined struct {
	Type        string `json:"type"`
	Username    string `json:"username"`
	MeetingName string `json:"meeting_name"`
}

type UserLeft struct {
	Type        string `json:"type"`
	MeetingName string `json:"meeting_name"`
	Username    string `json:"username"`
}

type AudioComplete struct {
	Type string `json:"type"`
}

type Pong struct {
	Type string `json:"type"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(message string) Error {
	return Error{Type: TypeError, Message: message}
}
