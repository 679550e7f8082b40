package websocket

// MessageType represents a WebSocket application message type.
//
// WebSocket supports two application message types (RFC 6455 Section 5.6):
// text (UTF-8 encoded) and binary (arbitrary data).
type MessageType int

const (
	// TextMessage represents a UTF-8 text message (opcode 0x1).
	TextMessage MessageType = 1

	// BinaryMessage represents a binary data message (opcode 0x2).
	BinaryMessage MessageType = 2
)

// String returns string representation of message type.
func (mt MessageType) String() string {
	switch mt {
	case TextMessage:
		return "Text"
	case BinaryMessage:
		return "Binary"
	default:
		return "Unknown"
	}
}

// opcode returns the wire opcode opening a message of this type.
func (mt MessageType) opcode() Opcode {
	if mt == TextMessage {
		return OpcodeText
	}
	return OpcodeBinary
}

// Frame is one decoded unit of inbound information.
//
// A Frame carries either a complete wire frame or further payload progress
// for a data frame whose payload spans multiple feeds. Control frames are
// always delivered whole. The caller owns the Frame and its payload; no
// internal state aliases it after it is returned.
type Frame struct {
	// Opcode is the resolved frame type. Continuation frames inherit the
	// opcode of the message they continue, so this is never
	// OpcodeContinuation.
	Opcode Opcode

	// Payload is the unmasked, extension-processed payload bytes.
	// For text frames it contains only UTF-8 validated bytes; a multi-byte
	// sequence split across frame or chunk boundaries is withheld until it
	// completes. Nil for close frames (see Close).
	Payload []byte

	// Close holds the decoded close code and reason.
	// Set only when Opcode is OpcodeClose.
	Close *CloseInfo

	// FrameFinished is true when the wire frame's payload has been fully
	// consumed.
	FrameFinished bool

	// MessageFinished is true when this frame completes a logical message
	// (FIN set and payload fully consumed). Always true for control frames.
	MessageFinished bool
}

// Text returns the payload as a string. Meaningful for text frames, whose
// payload is always validated UTF-8.
func (f *Frame) Text() string {
	return string(f.Payload)
}
