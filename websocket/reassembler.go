package websocket

// messageReassembler merges the assembler's raw frames into logical message
// events, enforcing the fragmentation rules of RFC 6455 Section 5.4:
//
//   - a continuation frame requires an in-progress message,
//   - a new text/binary frame is illegal while one is in progress,
//   - control frames may be interleaved and never disturb message state.
//
// At most one message is pending at a time. Text payloads pass through an
// incremental UTF-8 validator; binary payloads pass through unchanged.
type messageReassembler struct {
	asm *frameAssembler

	inMessage bool
	opcode    Opcode         // opcode of the pending message
	text      *textValidator // non-nil while the pending message is text
}

func newMessageReassembler(asm *frameAssembler) *messageReassembler {
	return &messageReassembler{asm: asm}
}

// nextFrame returns the next decoded frame event, or (nil, nil) when more
// bytes are needed.
func (r *messageReassembler) nextFrame() (*Frame, error) {
	raw, err := r.asm.processBuffer()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	if raw.opcode.IsControl() {
		return r.controlFrame(raw)
	}
	return r.dataFrame(raw)
}

// controlFrame decodes a complete control frame. Close payloads are
// validated here; ping/pong payloads pass through.
func (r *messageReassembler) controlFrame(raw *rawFrame) (*Frame, error) {
	f := &Frame{
		Opcode:          raw.opcode,
		FrameFinished:   true,
		MessageFinished: true,
	}
	if raw.opcode == OpcodeClose {
		info, err := parseClosePayload(raw.payload)
		if err != nil {
			return nil, err
		}
		f.Close = info
		return f, nil
	}
	f.Payload = raw.payload
	return f, nil
}

// dataFrame applies continuation bookkeeping and per-type payload handling
// to one data frame chunk.
func (r *messageReassembler) dataFrame(raw *rawFrame) (*Frame, error) {
	if raw.newFrame {
		if raw.opcode == OpcodeContinuation {
			if !r.inMessage {
				return nil, protocolError("unexpected CONTINUATION")
			}
		} else {
			if r.inMessage {
				return nil, protocolError("expected CONTINUATION, got %s", raw.opcode)
			}
			r.inMessage = true
			r.opcode = raw.opcode
			r.text = nil
			if raw.opcode == OpcodeText {
				r.text = &textValidator{}
			}
		}
	}

	finished := raw.fin && raw.frameFinished
	payload := raw.payload
	if r.text != nil {
		var err error
		payload, err = r.text.push(payload, finished)
		if err != nil {
			return nil, err
		}
	}

	f := &Frame{
		Opcode:          r.opcode,
		Payload:         payload,
		FrameFinished:   raw.frameFinished,
		MessageFinished: finished,
	}
	if finished {
		r.inMessage = false
		r.text = nil
	}
	return f, nil
}
