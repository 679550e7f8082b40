package websocket

import (
	"encoding/binary"
	"unicode/utf8"
)

// CloseCode represents WebSocket close status codes (RFC 6455 Section 7.4).
//
// Close frames MAY contain a status code indicating the reason for closure.
// Status codes 1000-4999 are defined by the WebSocket protocol; 3000-3999
// are registered for libraries and frameworks, 4000-4999 are private.
type CloseCode int

const (
	// CloseNormalClosure indicates normal closure (1000).
	CloseNormalClosure CloseCode = 1000

	// CloseGoingAway indicates endpoint going away (1001).
	CloseGoingAway CloseCode = 1001

	// CloseProtocolError indicates protocol error (1002).
	CloseProtocolError CloseCode = 1002

	// CloseUnsupportedData indicates unsupported data type (1003).
	CloseUnsupportedData CloseCode = 1003

	// 1004 is reserved and MUST NOT be used.

	// CloseNoStatusReceived indicates no status code was present (1005).
	// Local-only: MUST NOT appear in a close frame on the wire.
	CloseNoStatusReceived CloseCode = 1005

	// CloseAbnormalClosure indicates closure without a close frame (1006).
	// Local-only: MUST NOT appear in a close frame on the wire.
	CloseAbnormalClosure CloseCode = 1006

	// CloseInvalidFramePayloadData indicates invalid frame payload (1007),
	// for example invalid UTF-8 in a text message.
	CloseInvalidFramePayloadData CloseCode = 1007

	// ClosePolicyViolation indicates policy violation (1008).
	ClosePolicyViolation CloseCode = 1008

	// CloseMessageTooBig indicates message too large to process (1009).
	CloseMessageTooBig CloseCode = 1009

	// CloseMandatoryExtension indicates a missing required extension (1010).
	CloseMandatoryExtension CloseCode = 1010

	// CloseInternalServerErr indicates an unexpected server condition (1011).
	CloseInternalServerErr CloseCode = 1011

	// CloseServiceRestart indicates the service is restarting (1012).
	CloseServiceRestart CloseCode = 1012

	// CloseTryAgainLater indicates temporary overload (1013).
	CloseTryAgainLater CloseCode = 1013

	// 1014 is reserved and MUST NOT be used.

	// CloseTLSHandshake indicates TLS handshake failure (1015).
	// Local-only: MUST NOT appear in a close frame on the wire.
	CloseTLSHandshake CloseCode = 1015
)

// String returns string representation of close code.
//
//nolint:cyclop // 14 close codes per RFC 6455
func (cc CloseCode) String() string {
	switch cc {
	case CloseNormalClosure:
		return "Normal Closure"
	case CloseGoingAway:
		return "Going Away"
	case CloseProtocolError:
		return "Protocol Error"
	case CloseUnsupportedData:
		return "Unsupported Data"
	case CloseNoStatusReceived:
		return "No Status Received"
	case CloseAbnormalClosure:
		return "Abnormal Closure"
	case CloseInvalidFramePayloadData:
		return "Invalid Frame Payload Data"
	case ClosePolicyViolation:
		return "Policy Violation"
	case CloseMessageTooBig:
		return "Message Too Big"
	case CloseMandatoryExtension:
		return "Mandatory Extension"
	case CloseInternalServerErr:
		return "Internal Server Error"
	case CloseServiceRestart:
		return "Service Restart"
	case CloseTryAgainLater:
		return "Try Again Later"
	case CloseTLSHandshake:
		return "TLS Handshake"
	default:
		return "Unknown"
	}
}

// localOnly reports whether the code is reserved for local reporting and
// therefore illegal in a close frame received from the remote peer
// (RFC 6455 Section 7.4.1).
func (cc CloseCode) localOnly() bool {
	switch cc {
	case CloseNoStatusReceived, CloseAbnormalClosure, CloseTLSHandshake:
		return true
	default:
		return false
	}
}

// definedCloseCodes is the set of codes in the 1000-2999 reserved band that
// are defined and acceptable on the wire. Unknown codes in this band are
// rejected; codes >= 3000 are library/private ranges and pass through even
// when unrecognized. This asymmetry is a deliberate interoperability
// boundary, not an oversight.
var definedCloseCodes = map[CloseCode]bool{
	CloseNormalClosure:           true,
	CloseGoingAway:               true,
	CloseProtocolError:           true,
	CloseUnsupportedData:         true,
	CloseInvalidFramePayloadData: true,
	ClosePolicyViolation:         true,
	CloseMessageTooBig:           true,
	CloseMandatoryExtension:      true,
	CloseInternalServerErr:       true,
	CloseServiceRestart:          true,
	CloseTryAgainLater:           true,
}

// CloseInfo is the decoded payload of a close frame.
type CloseInfo struct {
	// Code is the close status code, or CloseNoStatusReceived when the
	// close frame carried no payload.
	Code CloseCode

	// Reason is the optional UTF-8 close reason.
	Reason string
}

// parseClosePayload decodes and validates a close frame payload received
// from the remote peer (RFC 6455 Section 5.5.1 and 7.4).
//
// The payload is either empty or at least 2 bytes: a big-endian status code
// followed by an optional UTF-8 reason. A 1-byte payload is malformed.
func parseClosePayload(payload []byte) (*CloseInfo, error) {
	switch len(payload) {
	case 0:
		return &CloseInfo{Code: CloseNoStatusReceived}, nil
	case 1:
		return nil, protocolError("close frame payload of length 1")
	}

	code := CloseCode(binary.BigEndian.Uint16(payload[:2]))
	switch {
	case code < 1000 || code > 4999:
		return nil, protocolError("invalid close code %d", int(code))
	case code.localOnly():
		return nil, protocolError("remote close frame with local-only code %d", int(code))
	case code < 3000 && !definedCloseCodes[code]:
		return nil, protocolError("unknown reserved close code %d", int(code))
	}

	reason := payload[2:]
	if !utf8.Valid(reason) {
		return nil, newProtocolError(CloseInvalidFramePayloadData,
			"invalid UTF-8 in close reason")
	}

	return &CloseInfo{Code: code, Reason: string(reason)}, nil
}
