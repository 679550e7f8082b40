package websocket

import (
	"encoding/binary"
)

// frameHeader holds the decoded header fields of one WebSocket frame as
// defined in RFC 6455 Section 5.2.
//
// Frame structure:
//
//	 0                   1                   2                   3
//	 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
//	+-+-+-+-+-------+-+-------------+-------------------------------+
//	|F|R|R|R| opcode|M| Payload len |    Extended payload length    |
//	|I|S|S|S|  (4)  |A|     (7)     |             (16/64)           |
//	|N|V|V|V|       |S|             |   (if payload len==126/127)   |
//	| |1|2|3|       |K|             |                               |
//	+-+-+-+-+-------+-+-------------+ - - - - - - - - - - - - - - - +
//	|     Extended payload length continued, if payload len == 127  |
//	+ - - - - - - - - - - - - - - - +-------------------------------+
//	| Masking-key, if MASK set to 1 |          Payload Data         |
//	+-------------------------------- - - - - - - - - - - - - - - - +
//	:                     Payload Data continued ...                :
//	+ - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - +
type frameHeader struct {
	fin        bool
	rsv        RSVBits
	opcode     Opcode
	masked     bool
	maskKey    [4]byte
	payloadLen uint64
}

// parseHeader decodes one frame header from the accumulator, enforcing
// RFC-mandated minimality and control-frame constraints.
//
// Returns (nil, nil) after rolling the accumulator back when more bytes are
// needed at any step; this is distinct from a parse error, which poisons the
// stream. On success the consumed header bytes are left provisionally
// consumed for the caller to commit.
//
// Steps:
//  1. Read 2 fixed bytes: FIN, RSV1-3, opcode, MASK, 7-bit length
//  2. Validate opcode and control-frame FIN
//  3. Resolve extended payload length (16-bit or 64-bit), rejecting
//     non-minimal encodings and a set most-significant bit
//  4. Run extension header hooks; reject unclaimed reserved bits
//  5. Verify mask presence matches the parsing side's expectation
//  6. Read the 4-byte masking key if present
//
//nolint:cyclop // linear decode of every header field per RFC 6455
func parseHeader(buf *buffer, client bool, exts pipeline) (*frameHeader, error) {
	fixed, ok := buf.consumeExactly(2)
	if !ok {
		buf.rollback()
		return nil, nil
	}

	h := &frameHeader{
		fin:    fixed[0]&0x80 != 0,
		rsv:    rsvFromByte(fixed[0]),
		opcode: Opcode(fixed[0] & 0x0F),
		masked: fixed[1]&0x80 != 0,
	}

	if !h.opcode.valid() {
		return nil, protocolError("invalid opcode 0x%X", byte(h.opcode))
	}

	// RFC 6455 Section 5.5: Control frames must NOT be fragmented.
	if h.opcode.IsControl() && !h.fin {
		return nil, protocolError("fragmented control frame")
	}

	length := uint64(fixed[1] & 0x7F)
	switch length {
	case payloadLen16Bit:
		ext, ok := buf.consumeExactly(2)
		if !ok {
			buf.rollback()
			return nil, nil
		}
		length = uint64(binary.BigEndian.Uint16(ext))
		// RFC 6455 Section 5.2: the minimal number of bytes MUST be
		// used to encode the length.
		if length <= payloadLen7Bit {
			return nil, protocolError("non-minimal 2-byte length encoding (%d)", length)
		}
	case payloadLen64Bit:
		ext, ok := buf.consumeExactly(8)
		if !ok {
			buf.rollback()
			return nil, nil
		}
		length = binary.BigEndian.Uint64(ext)
		// RFC 6455 Section 5.2: the most significant bit MUST be 0.
		if length&(1<<63) != 0 {
			return nil, protocolError("8-byte length with set MSB")
		}
		if length <= 0xFFFF {
			return nil, protocolError("non-minimal 8-byte length encoding (%d)", length)
		}
	}

	// RFC 6455 Section 5.5: Control frame payload length must be <= 125,
	// which also rules out the extended length encodings above.
	if h.opcode.IsControl() && length > maxControlPayload {
		return nil, protocolError("control frame payload too large (%d bytes)", length)
	}
	h.payloadLen = length

	if err := exts.header(h.opcode, h.rsv, length); err != nil {
		return nil, err
	}

	// RFC 6455 Section 5.3: Client-to-server frames MUST be masked and
	// server-to-client frames MUST NOT be. A mismatch is a protocol
	// error, never a silent accept.
	if client && h.masked {
		return nil, protocolError("server frames must not be masked")
	}
	if !client && !h.masked {
		return nil, protocolError("client frames must be masked")
	}

	if h.masked {
		key, ok := buf.consumeExactly(4)
		if !ok {
			buf.rollback()
			return nil, nil
		}
		copy(h.maskKey[:], key)
	}

	return h, nil
}
