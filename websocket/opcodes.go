// Package websocket implements the RFC 6455 framing layer as a sans-I/O
// protocol engine for real-time bidirectional communication.
//
// This package performs no network I/O. Bytes received from a transport are
// fed into a Protocol with ReceiveBytes, decoded frames are drained with
// NextFrame or ReceivedFrames, and outbound frames are returned as
// ready-to-transmit byte slices. It handles:
//   - Frame header parsing (7-bit, 16-bit, 64-bit payload lengths)
//   - Text and binary data frames, fragmentation and continuation
//   - Control frames (close, ping, pong) and their RFC constraints
//   - Client-to-server masking with per-frame random keys
//   - Incremental UTF-8 validation for text messages
//   - A pluggable extension pipeline (RSV bits, payload transforms)
//
// The opening handshake, the transport socket, and connection lifecycle
// management belong to the layers above and below this package.
//
// RFC Reference: https://datatracker.ietf.org/doc/html/rfc6455
package websocket

// Opcode is the frame operation code carried in the low 4 bits of the first
// header byte (RFC 6455 Section 5.2).
//
// Opcodes 0x0-0x2 are data frames, 0x8-0xA are control frames.
// Opcodes 0x3-0x7 and 0xB-0xF are reserved for future use.
type Opcode byte

const (
	// OpcodeContinuation indicates a continuation frame (RFC 6455 Section 5.4).
	// Used for fragmented messages where FIN=0 in a previous frame.
	OpcodeContinuation Opcode = 0x0

	// OpcodeText indicates a text data frame (RFC 6455 Section 5.6).
	// The complete message payload must be valid UTF-8.
	OpcodeText Opcode = 0x1

	// OpcodeBinary indicates a binary data frame (RFC 6455 Section 5.6).
	// Payload is arbitrary binary data.
	OpcodeBinary Opcode = 0x2

	// OpcodeClose indicates a close control frame (RFC 6455 Section 5.5.1).
	OpcodeClose Opcode = 0x8

	// OpcodePing indicates a ping control frame (RFC 6455 Section 5.5.2).
	OpcodePing Opcode = 0x9

	// OpcodePong indicates a pong control frame (RFC 6455 Section 5.5.3).
	OpcodePong Opcode = 0xA
)

// maxControlPayload is the maximum payload length for control frames.
// RFC 6455 Section 5.5: Control frames must have payload <= 125 bytes.
const maxControlPayload = 125

// Payload length encoding markers (RFC 6455 Section 5.2).
const (
	payloadLen7Bit  = 125 // 0-125: stored directly in 7 bits
	payloadLen16Bit = 126 // marker: followed by 16-bit length
	payloadLen64Bit = 127 // marker: followed by 64-bit length
)

// IsControl returns true if the opcode is a control frame (0x8-0xF).
//
// RFC 6455 Section 5.5: Control frames are identified by opcodes where
// the most significant bit of the opcode is 1. They must not be fragmented
// and their payload length must be <= 125 bytes.
func (op Opcode) IsControl() bool {
	return op&0x08 != 0
}

// IsData returns true if the opcode is a data frame (continuation, text,
// binary). Data frames may be fragmented and have no wire-level maximum
// payload length beyond the 64-bit field.
func (op Opcode) IsData() bool {
	return op == OpcodeContinuation || op == OpcodeText || op == OpcodeBinary
}

// valid returns true if the opcode is defined in RFC 6455.
// Opcodes 0x3-0x7 and 0xB-0xF are reserved and rejected at parse time.
func (op Opcode) valid() bool {
	switch op {
	case OpcodeContinuation, OpcodeText, OpcodeBinary,
		OpcodeClose, OpcodePing, OpcodePong:
		return true
	default:
		return false
	}
}

// String returns a human-readable opcode name.
func (op Opcode) String() string {
	switch op {
	case OpcodeContinuation:
		return "Continuation"
	case OpcodeText:
		return "Text"
	case OpcodeBinary:
		return "Binary"
	case OpcodeClose:
		return "Close"
	case OpcodePing:
		return "Ping"
	case OpcodePong:
		return "Pong"
	default:
		return "Unknown"
	}
}
