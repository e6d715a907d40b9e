package core

// Frame is a marshaled payload ready for the wire.
type Frame []byte

// ConnID identifies one transport-level connection. It is assigned at
// upgrade time and never reused for another connection.
type ConnID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues a text frame without blocking. It fails on a
	// full send buffer or a closed connection.
	TrySend(Frame) error
	// TrySendBinary queues a binary frame (audio chunks).
	TrySendBinary(Frame) error
	Close()
}
