package state

import "testing"

func TestMarkSeen_FirstOccurrenceWins(t *testing.T) {
	s := NewInMemoryStore()

	first, err := s.MarkSeen("k1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first {
		t.Fatalf("first mark should report first")
	}

	// same key again is a duplicate
	first, err = s.MarkSeen("k1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first {
		t.Fatalf("second mark of same key should not report first")
	}

	if _, err := s.MarkSeen("k2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len=%d want=2", s.Len())
	}
}

func TestInMemoryStore_Reset(t *testing.T) {
	s := NewInMemoryStore()
	_, _ = s.MarkSeen("a")
	_, _ = s.MarkSeen("b")
	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("len after reset=%d", s.Len())
	}
	first, _ := s.MarkSeen("a")
	if !first {
		t.Fatalf("key should be new after reset")
	}
	if e := s.data["a"]; e.Seq != 1 {
		t.Fatalf("seq should restart at 1, got %d", e.Seq)
	}
}
