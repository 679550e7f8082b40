package websocket

import (
	"testing"
)

// TestParseClosePayload_Accepted tests close payloads that must decode
// successfully. RFC 6455 Sections 5.5.1 and 7.4.
func TestParseClosePayload_Accepted(t *testing.T) {
	tests := []struct {
		name       string
		payload    []byte
		wantCode   CloseCode
		wantReason string
	}{
		{
			name:     "empty payload means no status received",
			payload:  nil,
			wantCode: CloseNoStatusReceived,
		},
		{
			name:     "normal closure, no reason",
			payload:  []byte{0x03, 0xE8},
			wantCode: CloseNormalClosure,
		},
		{
			name:       "normal closure with reason",
			payload:    []byte{0x03, 0xE8, 'b', 'y', 'e'},
			wantCode:   CloseNormalClosure,
			wantReason: "bye",
		},
		{
			name:     "going away",
			payload:  []byte{0x03, 0xE9},
			wantCode: CloseGoingAway,
		},
		{
			name:     "start of the registered application band",
			payload:  []byte{0x0B, 0xB8}, // 3000
			wantCode: 3000,
		},
		{
			name:     "end of the private-use band",
			payload:  []byte{0x13, 0x87}, // 4999
			wantCode: 4999,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parseClosePayload(tt.payload)
			if err != nil {
				t.Fatalf("parseClosePayload failed: %v", err)
			}
			if info.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, info.Code)
			}
			if info.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, info.Reason)
			}
		})
	}
}

// TestParseClosePayload_Rejected tests close payloads that must be rejected
// as protocol errors.
func TestParseClosePayload_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		payload  []byte
		wantCode CloseCode
	}{
		{
			name:     "one-byte payload",
			payload:  []byte{0x03},
			wantCode: CloseProtocolError,
		},
		{
			name:     "code below 1000",
			payload:  []byte{0x03, 0xE7}, // 999
			wantCode: CloseProtocolError,
		},
		{
			name:     "code above 4999",
			payload:  []byte{0x13, 0x88}, // 5000
			wantCode: CloseProtocolError,
		},
		{
			name:     "reserved code 1004",
			payload:  []byte{0x03, 0xEC},
			wantCode: CloseProtocolError,
		},
		{
			name:     "unassigned code 1014 in the defined band",
			payload:  []byte{0x03, 0xF6},
			wantCode: CloseProtocolError,
		},
		{
			name:     "unassigned code 2999 in the defined band",
			payload:  []byte{0x0B, 0xB7},
			wantCode: CloseProtocolError,
		},
		{
			name:     "local-only 1005 on the wire",
			payload:  []byte{0x03, 0xED},
			wantCode: CloseProtocolError,
		},
		{
			name:     "local-only 1006 on the wire",
			payload:  []byte{0x03, 0xEE},
			wantCode: CloseProtocolError,
		},
		{
			name:     "local-only 1015 on the wire",
			payload:  []byte{0x03, 0xF7},
			wantCode: CloseProtocolError,
		},
		{
			name:     "invalid UTF-8 reason",
			payload:  []byte{0x03, 0xE8, 0xFF, 0xFE},
			wantCode: CloseInvalidFramePayloadData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseClosePayload(tt.payload)
			if err == nil {
				t.Fatal("expected a protocol error")
			}
			pe, ok := err.(*ProtocolError)
			if !ok {
				t.Fatalf("expected *ProtocolError, got %T: %v", err, err)
			}
			if pe.Code != tt.wantCode {
				t.Errorf("expected close code %d, got %d", tt.wantCode, pe.Code)
			}
		})
	}
}

// TestCloseCode_LocalOnly tests the codes that exist for local reporting
// only and never appear on the wire. RFC 6455 Section 7.4.1.
func TestCloseCode_LocalOnly(t *testing.T) {
	for _, code := range []CloseCode{CloseNoStatusReceived, CloseAbnormalClosure, CloseTLSHandshake} {
		if !code.localOnly() {
			t.Errorf("code %d should be local-only", code)
		}
	}
	for _, code := range []CloseCode{CloseNormalClosure, CloseProtocolError, 3000, 4999} {
		if code.localOnly() {
			t.Errorf("code %d should not be local-only", code)
		}
	}
}
