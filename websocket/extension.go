package websocket

// RSVBits are the three reserved header bits (RFC 6455 Section 5.2).
// Each may be claimed by at most one negotiated extension; a bit set on the
// wire that no extension claims is a protocol error.
type RSVBits struct {
	RSV1, RSV2, RSV3 bool
}

// rsvFromByte extracts the reserved bits from the first header byte.
func rsvFromByte(b byte) RSVBits {
	return RSVBits{
		RSV1: b&0x40 != 0,
		RSV2: b&0x20 != 0,
		RSV3: b&0x10 != 0,
	}
}

// toByte packs the reserved bits into their first-header-byte positions.
func (r RSVBits) toByte() byte {
	var b byte
	if r.RSV1 {
		b |= 0x40
	}
	if r.RSV2 {
		b |= 0x20
	}
	if r.RSV3 {
		b |= 0x10
	}
	return b
}

// union returns the bitwise OR of two claim sets.
func (r RSVBits) union(o RSVBits) RSVBits {
	return RSVBits{
		RSV1: r.RSV1 || o.RSV1,
		RSV2: r.RSV2 || o.RSV2,
		RSV3: r.RSV3 || o.RSV3,
	}
}

// covers reports whether every bit set in o is also set in r.
func (r RSVBits) covers(o RSVBits) bool {
	return (r.RSV1 || !o.RSV1) && (r.RSV2 || !o.RSV2) && (r.RSV3 || !o.RSV3)
}

// Extension is a frame transform participating in the protocol's pipeline.
//
// Inbound hooks (OnHeader, OnInboundChunk, OnFrameComplete) run in pipeline
// order; outbound runs in reverse order so that outbound transforms mirror
// inbound ones. Payload hooks are invoked for data frames only; control
// frame payloads are never extension-processed (RFC 7692 follows the same
// rule for compression).
//
// Extensions carry per-message state and share the protocol's concurrency
// discipline: one inbound call and one outbound call at a time.
type Extension interface {
	// Name returns the extension's negotiation token, used for logging.
	Name() string

	// OnHeader inspects a parsed frame header and returns the reserved
	// bits this extension claims for the frame. Returning an error (a
	// *ProtocolError carrying a close code) rejects the frame.
	//
	// A header that spans multiple feeds is re-parsed once enough bytes
	// arrive, so OnHeader can run more than once for the same frame and
	// must be idempotent.
	OnHeader(opcode Opcode, rsv RSVBits, length uint64) (RSVBits, error)

	// OnInboundChunk transforms one unmasked payload chunk of a data
	// frame. It may withhold bytes (returning a shorter or empty slice)
	// and deliver them later from OnFrameComplete.
	OnInboundChunk(payload []byte) ([]byte, error)

	// OnFrameComplete runs when a data frame's payload has been fully
	// consumed. fin reports whether the frame ends its message. Returned
	// bytes are appended to the frame's final chunk.
	OnFrameComplete(fin bool) ([]byte, error)

	// OnOutbound transforms an outbound frame before serialization,
	// contributing reserved bits and possibly replacing the payload.
	OnOutbound(opcode Opcode, rsv RSVBits, payload []byte, fin bool) (RSVBits, []byte)
}

// pipeline is an ordered extension chain.
type pipeline []Extension

// header runs the header hooks in order and verifies that every reserved
// bit set on the wire was claimed by some extension.
func (p pipeline) header(opcode Opcode, rsv RSVBits, length uint64) error {
	var claimed RSVBits
	for _, ext := range p {
		c, err := ext.OnHeader(opcode, rsv, length)
		if err != nil {
			return err
		}
		claimed = claimed.union(c)
	}
	if !claimed.covers(rsv) {
		return protocolError("unexpected reserved bit")
	}
	return nil
}

// inboundChunk runs the per-chunk hooks in order, each feeding the next.
func (p pipeline) inboundChunk(payload []byte) ([]byte, error) {
	for _, ext := range p {
		var err error
		payload, err = ext.OnInboundChunk(payload)
		if err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// frameComplete runs the completion hooks in order, concatenating any
// trailing bytes they emit.
func (p pipeline) frameComplete(fin bool) ([]byte, error) {
	var trailing []byte
	for _, ext := range p {
		t, err := ext.OnFrameComplete(fin)
		if err != nil {
			return nil, err
		}
		trailing = append(trailing, t...)
	}
	return trailing, nil
}

// outbound runs the outbound hooks in reverse pipeline order, mirroring the
// inbound direction.
func (p pipeline) outbound(opcode Opcode, rsv RSVBits, payload []byte, fin bool) (RSVBits, []byte) {
	for i := len(p) - 1; i >= 0; i-- {
		rsv, payload = p[i].OnOutbound(opcode, rsv, payload, fin)
	}
	return rsv, payload
}
