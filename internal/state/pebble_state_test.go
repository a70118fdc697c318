package state

import (
	"testing"
)

func entries(t *testing.T, st *PebbleStore) map[string]Entry {
	t.Helper()
	out := map[string]Entry{}
	if err := st.Range(func(key string, e Entry) error { out[key] = e; return nil }); err != nil {
		t.Fatalf("range err: %v", err)
	}
	return out
}

func TestPebbleStore_MarkSeen(t *testing.T) {
	dir := t.TempDir()
	st, err := NewPebbleStore(dir)
	if err != nil {
		t.Fatalf("pebble open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	first, err := st.MarkSeen("k")
	if err != nil {
		t.Fatalf("mark err: %v", err)
	}
	if !first {
		t.Fatalf("first mark should report first")
	}

	// same key => duplicate
	first, err = st.MarkSeen("k")
	if err != nil {
		t.Fatalf("mark err: %v", err)
	}
	if first {
		t.Fatalf("second mark should be a duplicate")
	}

	got, ok := entries(t, st)["k"]
	if !ok || got.Seq != 1 {
		t.Fatalf("unexpected entry: %+v ok=%v", got, ok)
	}
	if st.Len() != 1 {
		t.Fatalf("len=%d want=1", st.Len())
	}
}

func TestPebbleStore_ResetAndRange(t *testing.T) {
	dir := t.TempDir()
	st, err := NewPebbleStore(dir)
	if err != nil {
		t.Fatalf("pebble open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	for _, k := range []string{"a", "b", "c"} {
		if _, err := st.MarkSeen(k); err != nil {
			t.Fatalf("mark %s: %v", k, err)
		}
	}
	count := 0
	if err := st.Range(func(key string, e Entry) error { count++; return nil }); err != nil {
		t.Fatalf("range err: %v", err)
	}
	if count != 3 {
		t.Fatalf("range count=%d want=3", count)
	}

	if err := st.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("len after reset=%d", st.Len())
	}
	if _, ok := entries(t, st)["a"]; ok {
		t.Fatalf("key survived reset")
	}
	first, err := st.MarkSeen("a")
	if err != nil || !first {
		t.Fatalf("a should be new after reset: first=%v err=%v", first, err)
	}
}

func TestPebbleStore_ReopenKeepsKeys(t *testing.T) {
	dir := t.TempDir()
	st, err := NewPebbleStore(dir)
	if err != nil {
		t.Fatalf("pebble open: %v", err)
	}
	_, _ = st.MarkSeen("x")
	_, _ = st.MarkSeen("y")
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = NewPebbleStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if st.Len() != 2 {
		t.Fatalf("len after reopen=%d want=2", st.Len())
	}
	if _, err := st.MarkSeen("z"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if e, ok := entries(t, st)["z"]; !ok || e.Seq != 3 {
		t.Fatalf("seq should continue after reopen: %+v ok=%v", e, ok)
	}
}
