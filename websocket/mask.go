package websocket

// masker applies the RFC 6455 Section 5.3 masking algorithm to payload
// byte runs:
//
//	transformed-octet-i = original-octet-i XOR masking-key-octet-j
//	where j = i MOD 4
//
// XOR is its own inverse, so the same masker code masks and unmasks.
type masker interface {
	// mask transforms b in place.
	mask(b []byte)
}

// nopMasker is used for frames that arrive unmasked (server-to-client
// direction).
type nopMasker struct{}

func (nopMasker) mask([]byte) {}

// keyMasker XORs with a rotating 4-byte key. The rotation offset survives
// across calls, so a frame payload drained in several chunks unmasks to the
// same bytes as a single pass.
type keyMasker struct {
	key [4]byte
	pos int // bytes of the key consumed so far, 0-3
}

func (m *keyMasker) mask(b []byte) {
	for i := range b {
		b[i] ^= m.key[(m.pos+i)&3]
	}
	m.pos = (m.pos + len(b)) & 3
}

// newMasker picks the masker variant for a parsed frame header.
func newMasker(masked bool, key [4]byte) masker {
	if !masked {
		return nopMasker{}
	}
	return &keyMasker{key: key}
}
