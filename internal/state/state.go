package state

import "sync"

// Entry is what a store keeps per seen row key.
type Entry struct {
	// Seq is the 1-based order in which the key was first marked.
	Seq int64 `json:"seq"`
}

// Store remembers which row keys were already emitted so that exact
// duplicates can be dropped keeping the first occurrence.
type Store interface {
	// MarkSeen records key. first is false if key was already present.
	MarkSeen(key string) (first bool, err error)
	// Len is the number of keys seen since the last Reset.
	Len() int
	// Reset forgets every key.
	Reset() error
}

// InMemoryStore is a simple thread-safe map store.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]Entry
	seq  int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]Entry)}
}

func (s *InMemoryStore) MarkSeen(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	s.seq++
	s.data[key] = Entry{Seq: s.seq}
	return true, nil
}

func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *InMemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]Entry)
	s.seq = 0
	return nil
}
