package websocket

import (
	"encoding/binary"
	"fmt"
	"io"
)

// frameSerializer builds outbound wire bytes for data and control frames.
//
// It chooses the minimal payload-length encoding, applies masking with a
// fresh random key per frame when operating as the masking peer (the
// client), and tracks continuation state for fragmented outbound messages.
type frameSerializer struct {
	client bool
	exts   pipeline
	rand   io.Reader // masking key source

	inMessage   bool
	messageType MessageType
	text        *textValidator // outbound UTF-8 validation across fragments
}

func newFrameSerializer(client bool, exts pipeline, rand io.Reader) *frameSerializer {
	return &frameSerializer{client: client, exts: exts, rand: rand}
}

// sendData serializes one data frame of a logical message.
//
// The first call fixes the message type; subsequent calls before fin must
// carry the same type and are emitted as continuation frames. Text payloads
// are validated incrementally, so a rune may legally straddle fragments.
func (s *frameSerializer) sendData(t MessageType, payload []byte, fin bool) ([]byte, error) {
	var opcode Opcode
	switch t {
	case TextMessage, BinaryMessage:
		opcode = t.opcode()
	default:
		return nil, ErrInvalidMessageType
	}

	text := s.text
	if s.inMessage {
		if t != s.messageType {
			return nil, ErrDataTypeMismatch
		}
		opcode = OpcodeContinuation
	} else if t == TextMessage {
		text = &textValidator{}
	}

	if text != nil {
		if _, err := text.push(payload, fin); err != nil {
			return nil, ErrInvalidUTF8
		}
	}

	out, err := s.serialize(opcode, payload, fin)
	if err != nil {
		return nil, err
	}

	s.messageType = t
	s.inMessage = !fin
	s.text = text
	if fin {
		s.text = nil
	}
	return out, nil
}

// serialize builds the wire bytes for one frame.
//
// Outbound extension hooks run in reverse pipeline order for data frames
// before the header is built, so the extension-transformed payload length
// drives the length encoding.
func (s *frameSerializer) serialize(opcode Opcode, payload []byte, fin bool) ([]byte, error) {
	var rsv RSVBits
	if opcode.IsControl() {
		if !fin {
			return nil, ErrControlFragmented
		}
		if len(payload) > maxControlPayload {
			return nil, ErrControlTooLarge
		}
	} else {
		rsv, payload = s.exts.outbound(opcode, rsv, payload, fin)
	}

	b0 := byte(opcode) & 0x0F
	if fin {
		b0 |= 0x80
	}
	b0 |= rsv.toByte()

	var maskBit byte
	if s.client {
		maskBit = 0x80
	}

	// header is at most 2 + 8 + 4 bytes
	out := make([]byte, 0, 14+len(payload))
	out = append(out, b0)

	// RFC 6455 Section 5.2: use the minimal length encoding.
	switch n := len(payload); {
	case n <= payloadLen7Bit:
		out = append(out, byte(n)|maskBit)
	case n <= 0xFFFF:
		out = append(out, payloadLen16Bit|maskBit)
		out = binary.BigEndian.AppendUint16(out, uint16(n))
	default:
		out = append(out, payloadLen64Bit|maskBit)
		out = binary.BigEndian.AppendUint64(out, uint64(n))
	}

	if s.client {
		// RFC 6455 Section 5.3: a fresh unpredictable key per frame,
		// never derived from prior frames.
		var key [4]byte
		if _, err := io.ReadFull(s.rand, key[:]); err != nil {
			return nil, fmt.Errorf("websocket: masking key: %w", err)
		}
		out = append(out, key[:]...)

		start := len(out)
		out = append(out, payload...)
		(&keyMasker{key: key}).mask(out[start:])
		return out, nil
	}

	return append(out, payload...), nil
}
