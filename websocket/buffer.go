package websocket

// buffer is an append-only accumulator for inbound wire bytes with a
// committed/uncommitted cursor.
//
// Frame parsing is speculative: consume calls advance a provisional cursor,
// and the parser either commits (the bytes are gone for good) or rolls back
// when the buffered data turns out to be insufficient for a complete parse
// step. This keeps "need more data" cheap and side-effect free.
//
// Invariant: 0 <= read <= pos <= len(data).
type buffer struct {
	data []byte
	read int // committed offset; everything before it is consumed
	pos  int // provisional cursor, moved by consume calls
}

// feed appends incoming bytes. Amortized O(1) growth via append.
func (b *buffer) feed(p []byte) {
	b.data = append(b.data, p...)
}

// available returns the number of bytes past the provisional cursor.
func (b *buffer) available() int {
	return len(b.data) - b.pos
}

// consumeExactly returns exactly n bytes and advances the provisional
// cursor, or (nil, false) without moving anything when fewer than n bytes
// are buffered. The returned slice aliases the buffer and is only valid
// until the next commit.
func (b *buffer) consumeExactly(n int) ([]byte, bool) {
	if len(b.data)-b.pos < n {
		return nil, false
	}
	v := b.data[b.pos : b.pos+n]
	b.pos += n
	return v, true
}

// consumeAtMost returns up to n available bytes, advancing the provisional
// cursor by however many were returned. The returned slice aliases the
// buffer and is only valid until the next commit.
func (b *buffer) consumeAtMost(n int) []byte {
	if avail := len(b.data) - b.pos; n > avail {
		n = avail
	}
	v := b.data[b.pos : b.pos+n]
	b.pos += n
	return v
}

// commit makes provisional consumption permanent.
//
// The consumed prefix is physically discarded only when it exceeds half the
// buffered data, so repeated small commits stay amortized O(1) instead of
// memmoving the tail on every frame.
func (b *buffer) commit() {
	b.read = b.pos
	if b.read > 0 && b.read >= len(b.data)-b.read {
		n := copy(b.data, b.data[b.read:])
		b.data = b.data[:n]
		b.read = 0
		b.pos = 0
	}
}

// rollback discards provisional consumption, restoring the cursor to the
// last committed position.
func (b *buffer) rollback() {
	b.pos = b.read
}
