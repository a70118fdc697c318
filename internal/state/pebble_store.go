package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/pebble"
)

// PebbleStore implements Store using PebbleDB. It lets the seen set of a
// large run live on disk instead of in memory.
type PebbleStore struct {
	db *pebble.DB

	mu  sync.Mutex
	seq int64
	n   int
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	opts := &pebble.Options{
		MemTableSize:          64 << 20,
		L0CompactionThreshold: 4,
		L0StopWritesThreshold: 8,
	}
	d, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	p := &PebbleStore{db: d}
	// pick up counters from a previous run in the same directory
	if err := p.Range(func(_ string, e Entry) error {
		p.n++
		if e.Seq > p.seq {
			p.seq = e.Seq
		}
		return nil
	}); err != nil {
		_ = d.Close()
		return nil, err
	}
	return p, nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }

func encodeEntry(e Entry) ([]byte, error) { return json.Marshal(e) }
func decodeEntry(val []byte) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (p *PebbleStore) MarkSeen(key string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	k := []byte(key)
	_, closer, err := p.db.Get(k)
	if err == nil {
		_ = closer.Close()
		return false, nil
	}
	if !errors.Is(err, pebble.ErrNotFound) {
		return false, fmt.Errorf("pebble get: %w", err)
	}
	b, err := encodeEntry(Entry{Seq: p.seq + 1})
	if err != nil {
		return false, err
	}
	// WAL covers durability; a crashed run is simply re-run after Reset.
	if err := p.db.Set(k, b, pebble.NoSync); err != nil {
		return false, fmt.Errorf("pebble set: %w", err)
	}
	p.seq++
	p.n++
	return true, nil
}

func (p *PebbleStore) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

// Range visits every stored key in key order.
func (p *PebbleStore) Range(fn func(key string, e Entry) error) error {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	defer it.Close()
	for it.First(); it.Valid(); it.Next() {
		k := append([]byte(nil), it.Key()...)
		e, err := decodeEntry(it.Value())
		if err != nil {
			return err
		}
		if err := fn(string(k), e); err != nil {
			return err
		}
	}
	return it.Error()
}

// Reset deletes every key so a new run starts from an empty seen set.
func (p *PebbleStore) Reset() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var toDelete [][]byte
	it, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	for it.First(); it.Valid(); it.Next() {
		toDelete = append(toDelete, append([]byte(nil), it.Key()...))
	}
	if err := it.Close(); err != nil {
		return err
	}
	if len(toDelete) > 0 {
		wb := p.db.NewBatch()
		for _, k := range toDelete {
			if err := wb.Delete(k, nil); err != nil {
				_ = wb.Close()
				return err
			}
		}
		if err := wb.Commit(pebble.Sync); err != nil {
			_ = wb.Close()
			return fmt.Errorf("pebble commit: %w", err)
		}
		_ = wb.Close()
	}
	p.seq = 0
	p.n = 0
	return nil
}
