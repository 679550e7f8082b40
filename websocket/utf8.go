package websocket

import (
	"errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// textValidator validates a text message's UTF-8 incrementally across frame
// and chunk boundaries.
//
// A multi-byte sequence may be split anywhere by fragmentation; its leading
// bytes are withheld (up to 3) until the sequence completes or is proven
// malformed. finalize-style rejection of an incomplete trailing sequence
// happens only on the chunk that ends the message.
type textValidator struct {
	pending []byte // incomplete trailing sequence from the previous chunk
}

// push validates the next payload chunk and returns the validated prefix.
// final marks the end of the message, after which an incomplete trailing
// sequence is malformed rather than pending.
func (v *textValidator) push(p []byte, final bool) ([]byte, error) {
	src := p
	if len(v.pending) > 0 {
		src = append(v.pending, p...)
		v.pending = nil
	}
	if len(src) == 0 {
		return nil, nil
	}

	dst := make([]byte, len(src))
	nDst, nSrc, err := encoding.UTF8Validator.Transform(dst, src, final)
	switch {
	case err == nil:
	case errors.Is(err, transform.ErrShortSrc) && !final:
		// a rune split across the boundary; hold its prefix back
		v.pending = append([]byte(nil), src[nSrc:]...)
	default:
		return nil, newProtocolError(CloseInvalidFramePayloadData,
			"invalid UTF-8 in text message")
	}
	return dst[:nDst], nil
}
