package websocket

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"io"
	"iter"

	"github.com/eapache/queue"
	"github.com/sirupsen/logrus"
)

// ProtocolOptions configures a Protocol.
//
// All fields are optional. Zero values use sensible defaults.
type ProtocolOptions struct {
	// Extensions is the ordered pipeline of negotiated extensions.
	// Inbound hooks run in this order, outbound hooks in reverse.
	Extensions []Extension

	// Logger receives structured frame and error traces.
	// nil = discard (the protocol stays silent).
	Logger logrus.FieldLogger

	// Rand is the masking key source for client-side serialization.
	// nil = crypto/rand.
	Rand io.Reader
}

// Protocol is the sans-I/O WebSocket framing engine.
//
// Bytes from the transport are fed in with ReceiveBytes; decoded frames are
// drained with NextFrame or ReceivedFrames. Outbound calls (SendData, Ping,
// Pong, Close) return ready-to-transmit wire bytes; transmission is the
// caller's responsibility and no I/O ever happens here.
//
// Thread-safety: a Protocol is meant to be driven from one reader/writer
// loop per connection. At most one inbound call and one outbound call may
// be in flight at a time; the inbound and outbound paths hold disjoint
// state and may be driven by different goroutines, each with its own
// exclusive access discipline.
//
// Backpressure is the caller's concern: the accumulator grows without bound
// if bytes are fed faster than frames are drained, and no maximum frame
// size is imposed beyond the wire format's 64-bit length field.
type Protocol struct {
	client bool
	log    logrus.FieldLogger

	// inbound state
	buf     *buffer
	msgs    *messageReassembler
	failure error // first protocol error; inbound processing is over

	// outbound state
	ser *frameSerializer

	// outstanding pings awaiting a pong, oldest first
	pings *queue.Queue
}

// NewProtocol creates a framing engine for one side of a connection.
//
// client selects the masking role: a client masks outbound frames and
// requires unmasked inbound frames; a server requires masked inbound frames
// and sends unmasked ones.
func NewProtocol(client bool, opts *ProtocolOptions) *Protocol {
	if opts == nil {
		opts = &ProtocolOptions{}
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.Reader
	}

	buf := &buffer{}
	exts := pipeline(opts.Extensions)
	return &Protocol{
		client: client,
		log:    log,
		buf:    buf,
		msgs:   newMessageReassembler(newFrameAssembler(client, buf, exts)),
		ser:    newFrameSerializer(client, exts, rnd),
		pings:  queue.New(),
	}
}

// ReceiveBytes appends bytes from the transport to the inbound accumulator.
// No parsing happens until frames are drained.
func (p *Protocol) ReceiveBytes(data []byte) {
	p.buf.feed(data)
}

// NextFrame returns the next decoded frame, or (nil, nil) when no complete
// chunk of new information is buffered yet — that is not an error, and
// decoding resumes once more bytes are fed.
//
// The first protocol violation is returned as a *ProtocolError and poisons
// inbound processing: every subsequent call returns the same error, and the
// caller should tear the connection down using the error's close code.
func (p *Protocol) NextFrame() (*Frame, error) {
	if p.failure != nil {
		return nil, p.failure
	}

	f, err := p.msgs.nextFrame()
	if err != nil {
		p.failure = err
		p.log.WithError(err).Error("inbound protocol failure")
		return nil, err
	}
	if f == nil {
		return nil, nil
	}

	if f.Opcode == OpcodePong {
		p.retirePings(f.Payload)
	}

	p.log.WithFields(logrus.Fields{
		"opcode":           f.Opcode.String(),
		"len":              len(f.Payload),
		"frame_finished":   f.FrameFinished,
		"message_finished": f.MessageFinished,
	}).Debug("frame received")
	return f, nil
}

// ReceivedFrames iterates the frames currently decodable from buffered
// bytes. Iteration stops without error when more bytes are needed and
// resumes correctly on the next call after another ReceiveBytes. Each frame
// is consumed exactly once; the sequence is not replayable.
func (p *Protocol) ReceivedFrames() iter.Seq2[*Frame, error] {
	return func(yield func(*Frame, error) bool) {
		for {
			f, err := p.NextFrame()
			if err != nil {
				yield(nil, err)
				return
			}
			if f == nil {
				return
			}
			if !yield(f, nil) {
				return
			}
		}
	}
}

// SendData serializes one data frame of a logical message and returns its
// wire bytes. The first call fixes the message type; further calls before
// fin=true emit continuation frames and must carry the same type.
func (p *Protocol) SendData(t MessageType, payload []byte, fin bool) ([]byte, error) {
	out, err := p.ser.sendData(t, payload, fin)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{
		"type": t.String(),
		"len":  len(payload),
		"fin":  fin,
	}).Debug("data frame serialized")
	return out, nil
}

// SendText serializes a text frame. See SendData.
func (p *Protocol) SendText(text string, fin bool) ([]byte, error) {
	return p.SendData(TextMessage, []byte(text), fin)
}

// SendBinary serializes a binary frame. See SendData.
func (p *Protocol) SendBinary(payload []byte, fin bool) ([]byte, error) {
	return p.SendData(BinaryMessage, payload, fin)
}

// Ping serializes a ping frame and records its payload as outstanding until
// a matching pong is decoded.
func (p *Protocol) Ping(payload []byte) ([]byte, error) {
	out, err := p.ser.serialize(OpcodePing, payload, true)
	if err != nil {
		return nil, err
	}
	p.pings.Add(append([]byte(nil), payload...))
	return out, nil
}

// Pong serializes a pong frame. The payload should echo the ping being
// answered (RFC 6455 Section 5.5.3).
func (p *Protocol) Pong(payload []byte) ([]byte, error) {
	return p.ser.serialize(OpcodePong, payload, true)
}

// Close serializes a close frame. CloseNoStatusReceived sends an empty
// payload; any other code is encoded as 2 big-endian bytes followed by the
// reason, which together must fit a control frame (reason <= 123 bytes).
func (p *Protocol) Close(code CloseCode, reason string) ([]byte, error) {
	var payload []byte
	if code != CloseNoStatusReceived {
		payload = make([]byte, 2+len(reason))
		binary.BigEndian.PutUint16(payload, uint16(code))
		copy(payload[2:], reason)
	}
	return p.ser.serialize(OpcodeClose, payload, true)
}

// OutstandingPings returns the number of pings sent but not yet answered.
func (p *Protocol) OutstandingPings() int {
	return p.pings.Length()
}

// retirePings drops answered pings. RFC 6455 Section 5.5.3: a pong carrying
// the payload of an earlier ping acknowledges that ping and every ping sent
// before it. An unsolicited pong leaves the queue untouched.
func (p *Protocol) retirePings(pong []byte) {
	match := -1
	for i := 0; i < p.pings.Length(); i++ {
		if bytes.Equal(p.pings.Get(i).([]byte), pong) {
			match = i
		}
	}
	for i := 0; i <= match; i++ {
		p.pings.Remove()
	}
}
