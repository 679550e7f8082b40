package websocket

import (
	"bytes"
	"testing"
)

// TestBuffer_ConsumeExactly tests all-or-nothing consumption.
func TestBuffer_ConsumeExactly(t *testing.T) {
	b := &buffer{}
	b.feed([]byte{1, 2, 3})

	got, ok := b.consumeExactly(2)
	if !ok {
		t.Fatal("expected 2 bytes available")
	}
	if !bytes.Equal(got, []byte{1, 2}) {
		t.Errorf("expected [1 2], got %v", got)
	}

	// Only one byte left; asking for two must fail without moving the cursor.
	if _, ok := b.consumeExactly(2); ok {
		t.Error("expected consumeExactly(2) to fail with 1 byte remaining")
	}
	got, ok = b.consumeExactly(1)
	if !ok || got[0] != 3 {
		t.Errorf("expected byte 3, got %v (ok=%v)", got, ok)
	}
}

// TestBuffer_Rollback tests that rollback rewinds to the last commit, so the
// same bytes are served again.
func TestBuffer_Rollback(t *testing.T) {
	b := &buffer{}
	b.feed([]byte{0xAA, 0xBB, 0xCC})

	first, _ := b.consumeExactly(2)
	want := append([]byte(nil), first...)
	b.rollback()

	again, ok := b.consumeExactly(2)
	if !ok {
		t.Fatal("expected bytes after rollback")
	}
	if !bytes.Equal(again, want) {
		t.Errorf("expected %v after rollback, got %v", want, again)
	}
}

// TestBuffer_CommitThenRollback tests that rollback only rewinds past
// uncommitted reads.
func TestBuffer_CommitThenRollback(t *testing.T) {
	b := &buffer{}
	b.feed([]byte{1, 2, 3, 4})

	b.consumeExactly(2)
	b.commit()
	b.consumeExactly(1)
	b.rollback()

	got, ok := b.consumeExactly(2)
	if !ok {
		t.Fatal("expected 2 bytes")
	}
	if !bytes.Equal(got, []byte{3, 4}) {
		t.Errorf("expected [3 4], got %v", got)
	}
}

// TestBuffer_ConsumeAtMost tests partial consumption.
func TestBuffer_ConsumeAtMost(t *testing.T) {
	b := &buffer{}
	b.feed([]byte{1, 2, 3})

	got := b.consumeAtMost(10)
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("expected all 3 bytes, got %v", got)
	}
	if got := b.consumeAtMost(10); len(got) != 0 {
		t.Errorf("expected nothing left, got %v", got)
	}
}

// TestBuffer_FeedAcrossConsumes tests that bytes fed later join bytes already
// buffered.
func TestBuffer_FeedAcrossConsumes(t *testing.T) {
	b := &buffer{}
	b.feed([]byte{1})

	if _, ok := b.consumeExactly(2); ok {
		t.Fatal("expected failure with 1 byte buffered")
	}
	b.feed([]byte{2})

	got, ok := b.consumeExactly(2)
	if !ok {
		t.Fatal("expected 2 bytes after second feed")
	}
	if !bytes.Equal(got, []byte{1, 2}) {
		t.Errorf("expected [1 2], got %v", got)
	}
}

// TestBuffer_Compaction tests that committed bytes are reclaimed and the
// remaining data survives the move.
func TestBuffer_Compaction(t *testing.T) {
	b := &buffer{}
	b.feed([]byte{1, 2, 3, 4, 5, 6})

	// Committing 4 of 6 bytes leaves 2 remaining, which is <= the committed
	// prefix, so commit compacts.
	b.consumeExactly(4)
	b.commit()
	if b.read != 0 || b.pos != 0 {
		t.Fatalf("expected compaction to reset cursors, read=%d pos=%d", b.read, b.pos)
	}
	if b.available() != 2 {
		t.Fatalf("expected 2 bytes after compaction, got %d", b.available())
	}

	got, _ := b.consumeExactly(2)
	if !bytes.Equal(got, []byte{5, 6}) {
		t.Errorf("expected [5 6] after compaction, got %v", got)
	}
}

// TestBuffer_NoCompactionWithLargeRemainder tests that commit leaves the
// storage alone while most of it is still unread.
func TestBuffer_NoCompactionWithLargeRemainder(t *testing.T) {
	b := &buffer{}
	b.feed([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	b.consumeExactly(2)
	b.commit()
	if b.read == 0 {
		t.Error("expected no compaction with 8 bytes still unread")
	}
	if b.available() != 8 {
		t.Errorf("expected 8 bytes available, got %d", b.available())
	}
}
