// Package deflate implements the permessage-deflate WebSocket extension
// (RFC 7692) for the framing engine, in its no-context-takeover mode: every
// message is compressed with a fresh DEFLATE stream, so no sliding-window
// state survives between messages on either side.
//
// The extension claims RSV1 on the first frame of a compressed message.
// Inbound compressed bytes are buffered per message and inflated when the
// final frame completes, delivered through the frame-completion hook.
// Outbound payloads are compressed per fragment with a sync flush; the
// 4-byte flush tail is stripped from the final fragment per RFC 7692
// Section 7.2.1.
package deflate

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/coregx/framing/websocket"
)

// inflateTail restores the sync-flush marker the sender stripped, followed
// by an empty stored final block so the inflater sees a terminated stream.
var inflateTail = []byte{0x00, 0x00, 0xff, 0xff, 0x01, 0x00, 0x00, 0xff, 0xff}

// syncFlushTail is the marker a DEFLATE sync flush leaves at the end of the
// produced bytes.
var syncFlushTail = []byte{0x00, 0x00, 0xff, 0xff}

// Extension is a permessage-deflate pipeline member. It carries per-message
// state and must not be shared between connections.
type Extension struct {
	level int

	// inbound: compressed bytes of the message being received
	rxCompressed bool
	rxBuf        bytes.Buffer

	// outbound: compressor for the message being sent
	txBuf bytes.Buffer
	txW   *flate.Writer
}

// New creates a permessage-deflate extension with the default compression
// level.
func New() *Extension {
	return &Extension{level: flate.DefaultCompression}
}

// NewLevel creates a permessage-deflate extension with an explicit
// compression level (flate.BestSpeed..flate.BestCompression, or
// flate.DefaultCompression).
func NewLevel(level int) (*Extension, error) {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return nil, errors.New("deflate: invalid compression level")
	}
	return &Extension{level: level}, nil
}

// Name returns the extension's negotiation token.
func (e *Extension) Name() string {
	return "permessage-deflate"
}

// OnHeader claims RSV1 on frames that may open a compressed message and
// records whether the incoming message is compressed. Continuation frames
// must not set RSV1, so nothing is claimed for them and the core rejects a
// stray bit.
func (e *Extension) OnHeader(opcode websocket.Opcode, rsv websocket.RSVBits, length uint64) (websocket.RSVBits, error) {
	if opcode.IsControl() || opcode == websocket.OpcodeContinuation {
		return websocket.RSVBits{}, nil
	}
	e.rxCompressed = rsv.RSV1
	e.rxBuf.Reset()
	return websocket.RSVBits{RSV1: true}, nil
}

// OnInboundChunk buffers compressed payload bytes. Uncompressed messages
// pass through untouched.
func (e *Extension) OnInboundChunk(payload []byte) ([]byte, error) {
	if !e.rxCompressed {
		return payload, nil
	}
	e.rxBuf.Write(payload)
	return nil, nil
}

// OnFrameComplete inflates the buffered message once its final frame has
// been consumed and returns the plaintext as trailing bytes.
func (e *Extension) OnFrameComplete(fin bool) ([]byte, error) {
	if !e.rxCompressed || !fin {
		return nil, nil
	}
	e.rxCompressed = false

	compressed := make([]byte, 0, e.rxBuf.Len()+len(inflateTail))
	compressed = append(compressed, e.rxBuf.Bytes()...)
	compressed = append(compressed, inflateTail...)
	e.rxBuf.Reset()

	fr := flate.NewReader(bytes.NewReader(compressed))
	out, err := io.ReadAll(fr)
	_ = fr.Close()
	if err != nil {
		return nil, &websocket.ProtocolError{
			Code:   websocket.CloseInvalidFramePayloadData,
			Reason: "permessage-deflate: corrupt compressed message",
		}
	}
	return out, nil
}

// OnOutbound compresses one data frame's payload, claiming RSV1 on the
// first frame of the message. Control frames pass through untouched.
func (e *Extension) OnOutbound(opcode websocket.Opcode, rsv websocket.RSVBits, payload []byte, fin bool) (websocket.RSVBits, []byte) {
	if opcode.IsControl() {
		return rsv, payload
	}

	if opcode != websocket.OpcodeContinuation {
		// fresh stream per message: no context takeover
		e.txBuf.Reset()
		w, err := flate.NewWriter(&e.txBuf, e.level)
		if err != nil {
			// level was validated at construction
			panic("deflate: " + err.Error())
		}
		e.txW = w
		rsv.RSV1 = true
	}

	_, _ = e.txW.Write(payload)
	_ = e.txW.Flush()
	out := append([]byte(nil), e.txBuf.Bytes()...)
	e.txBuf.Reset()

	if fin {
		e.txW = nil
		if bytes.HasSuffix(out, syncFlushTail) {
			out = out[:len(out)-len(syncFlushTail)]
		}
	}
	return rsv, out
}
