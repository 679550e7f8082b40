package websocket

// rawFrame is one unit of new inbound information produced by the
// assembler: a complete small frame, or further payload progress for a data
// frame whose payload exceeds the currently buffered bytes.
//
// The payload is a fresh unmasked copy, already run through the extension
// pipeline; nothing aliases the accumulator.
type rawFrame struct {
	opcode        Opcode // wire opcode of the owning frame
	fin           bool
	payload       []byte
	frameFinished bool // the owning frame's payload is fully consumed
	newFrame      bool // first chunk of its wire frame
}

// frameAssembler turns the accumulated byte stream into a sequence of raw
// frames. It is an explicit state machine:
//
//	awaiting header --parse ok--> reading payload --consumed==length--> emit,
//	back to awaiting header (or terminal after a close frame)
//
// Control frames require their entire (<= 125 byte) payload in one shot.
// Data frames drain incrementally as bytes arrive, so arbitrarily large
// payloads never require unbounded buffering; the mask rotation state is
// carried across chunk boundaries.
type frameAssembler struct {
	buf    *buffer
	exts   pipeline
	client bool

	hdr        *frameHeader // current frame; nil while awaiting header
	consumed   uint64       // payload bytes drained from the current frame
	cipher     masker
	firstChunk bool
	closed     bool // close frame observed: framing has ended
}

func newFrameAssembler(client bool, buf *buffer, exts pipeline) *frameAssembler {
	return &frameAssembler{buf: buf, exts: exts, client: client}
}

// processBuffer returns the next raw frame, or (nil, nil) when more bytes
// are needed. After a close frame has been emitted it always returns
// (nil, nil); remaining buffered bytes are not parsed further.
func (a *frameAssembler) processBuffer() (*rawFrame, error) {
	if a.closed {
		return nil, nil
	}

	if a.hdr == nil {
		hdr, err := parseHeader(a.buf, a.client, a.exts)
		if err != nil {
			return nil, err
		}
		if hdr == nil {
			return nil, nil // need more data
		}
		a.buf.commit()
		a.hdr = hdr
		a.consumed = 0
		a.cipher = newMasker(hdr.masked, hdr.maskKey)
		a.firstChunk = true
	}

	chunk, ok, err := a.drainPayload()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil // need more data
	}

	hdr := a.hdr
	finished := a.consumed == hdr.payloadLen
	f := &rawFrame{
		opcode:        hdr.opcode,
		fin:           hdr.fin,
		payload:       chunk,
		frameFinished: finished,
		newFrame:      a.firstChunk,
	}
	a.firstChunk = false

	if finished {
		if hdr.opcode == OpcodeClose {
			a.closed = true
		}
		a.hdr = nil
	}
	return f, nil
}

// drainPayload consumes the next payload chunk of the current frame,
// unmasks it and runs the extension payload hooks. ok is false when no new
// payload bytes are buffered yet.
func (a *frameAssembler) drainPayload() ([]byte, bool, error) {
	hdr := a.hdr
	remaining := hdr.payloadLen - a.consumed

	var chunk []byte
	switch {
	case remaining == 0:
		// zero-length payload: the header alone completes the frame

	case hdr.opcode.IsControl():
		// control payloads are <= 125 bytes; take them whole
		raw, ok := a.buf.consumeExactly(int(remaining))
		if !ok {
			a.buf.rollback()
			return nil, false, nil
		}
		chunk = append([]byte(nil), raw...)
		a.buf.commit()

	default:
		if a.buf.available() == 0 {
			return nil, false, nil
		}
		want := a.buf.available()
		if uint64(want) > remaining {
			want = int(remaining)
		}
		chunk = append([]byte(nil), a.buf.consumeAtMost(want)...)
		a.buf.commit()
	}

	a.cipher.mask(chunk)
	a.consumed += uint64(len(chunk))

	if hdr.opcode.IsControl() {
		return chunk, true, nil
	}

	chunk, err := a.exts.inboundChunk(chunk)
	if err != nil {
		return nil, false, err
	}
	if a.consumed == hdr.payloadLen {
		trailing, err := a.exts.frameComplete(hdr.fin)
		if err != nil {
			return nil, false, err
		}
		chunk = append(chunk, trailing...)
	}
	return chunk, true, nil
}
