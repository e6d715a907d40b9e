package protocol

import "testing"

func TestPeekType(t *testing.T) {
	typ, err := PeekType([]byte(`{"type":"chat_message","sender":"alice","text":"hi"}`))
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if typ != TypeChatMessage {
		t.Fatalf("type=%q, want %q", typ, TypeChatMessage)
	}
}

func TestPeekTypeInvalid(t *testing.T) {
	if _, err := PeekType([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid frame")
	}
	typ, err := PeekType([]byte(`{"other":"field"}`))
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if typ != "" {
		t.Fatalf("type=%q, want empty for untagged frame", typ)
	}
}
