package websocket

import (
	"errors"
	"fmt"
)

// Local misuse errors. These indicate a caller bug on the outbound path,
// not untrusted wire input, and are distinct from *ProtocolError.

var (
	// ErrControlTooLarge indicates control frame payload > 125 bytes.
	// RFC 6455 Section 5.5: Control frame payload length must be <= 125.
	ErrControlTooLarge = errors.New("websocket: control frame payload too large")

	// ErrControlFragmented indicates an attempt to send a control frame with FIN=0.
	// RFC 6455 Section 5.5: Control frames must NOT be fragmented.
	ErrControlFragmented = errors.New("websocket: control frame must not be fragmented")

	// ErrDataTypeMismatch indicates a continuation of a fragmented message
	// with a different payload type than the frame that opened it.
	// RFC 6455 Section 5.4: The message type is fixed by the first fragment.
	ErrDataTypeMismatch = errors.New("websocket: data type mismatch inside message")

	// ErrInvalidMessageType indicates a message type other than text or binary
	// passed to SendData.
	ErrInvalidMessageType = errors.New("websocket: invalid message type")

	// ErrInvalidUTF8 indicates outbound text that is not valid UTF-8.
	// RFC 6455 Section 8.1: Text messages must contain valid UTF-8.
	ErrInvalidUTF8 = errors.New("websocket: invalid UTF-8 in text message")
)

// ProtocolError is a violation of the WebSocket framing protocol detected on
// inbound data. It always carries a close code suitable for the close frame
// that should be sent before tearing the connection down.
//
// The first ProtocolError returned by a Protocol poisons its inbound state:
// every subsequent inbound call returns the same error. "Need more data" is
// never an error; it is reported as a nil frame with a nil error.
type ProtocolError struct {
	// Code is the close code describing the violation.
	// Defaults to CloseProtocolError (1002).
	Code CloseCode

	// Reason is a human-readable description of the violation.
	Reason string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("websocket: %s (close code %d)", e.Reason, e.Code)
}

// newProtocolError builds a ProtocolError with an explicit close code.
func newProtocolError(code CloseCode, format string, args ...any) *ProtocolError {
	return &ProtocolError{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// protocolError builds a ProtocolError with the generic 1002 close code.
func protocolError(format string, args ...any) *ProtocolError {
	return newProtocolError(CloseProtocolError, format, args...)
}

// IsProtocolError reports whether err is a wire protocol violation, as
// opposed to a local misuse error from the outbound path.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
