package websocket

import (
	"bytes"
	"testing"
)

// TestKeyMasker_Involution tests that masking twice with the same key
// restores the original bytes for payload lengths around the 4-byte key
// boundary. RFC 6455 Section 5.3.
func TestKeyMasker_Involution(t *testing.T) {
	key := [4]byte{0x12, 0x34, 0x56, 0x78}

	for _, n := range []int{0, 1, 3, 4, 5, 1000} {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i)
		}
		original := append([]byte(nil), payload...)

		(&keyMasker{key: key}).mask(payload)
		if n > 0 && bytes.Equal(payload, original) {
			t.Errorf("len=%d: masking changed nothing", n)
		}
		(&keyMasker{key: key}).mask(payload)
		if !bytes.Equal(payload, original) {
			t.Errorf("len=%d: double masking did not restore payload", n)
		}
	}
}

// TestKeyMasker_RotationAcrossCalls tests that split masking calls produce
// the same bytes as a single call: the key position carries across chunks.
func TestKeyMasker_RotationAcrossCalls(t *testing.T) {
	key := [4]byte{0xA1, 0xB2, 0xC3, 0xD4}
	payload := []byte("The quick brown fox jumps over the lazy dog")

	oneShot := append([]byte(nil), payload...)
	(&keyMasker{key: key}).mask(oneShot)

	// Split at positions that do not align with the key length.
	split := append([]byte(nil), payload...)
	m := &keyMasker{key: key}
	m.mask(split[:7])
	m.mask(split[7:10])
	m.mask(split[10:])

	if !bytes.Equal(split, oneShot) {
		t.Errorf("split masking diverged:\n one-shot: %v\n split:    %v", oneShot, split)
	}
}

// TestNopMasker tests that the server-side masker leaves bytes untouched.
func TestNopMasker(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	want := append([]byte(nil), payload...)

	newMasker(false, [4]byte{0xFF, 0xFF, 0xFF, 0xFF}).mask(payload)
	if !bytes.Equal(payload, want) {
		t.Errorf("nop masker modified payload: %v", payload)
	}
}
