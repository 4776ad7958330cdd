// Package memory is an in-process store. Transactions are serialized by a
// single mutex and their writes are applied only when fn succeeds.
package memory

import (
	"bytes"
	"context"
	"sync"

	"transfer-gate/internal/store"
)

// Store is a map-backed store.Store.
type Store struct {
	mu      sync.Mutex
	records map[store.Key][]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{records: make(map[store.Key][]byte)}
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := &tx{records: s.records, writes: make(map[store.Key][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	for k, v := range tx.writes {
		s.records[k] = v
	}
	return nil
}

// View implements store.Store.
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&tx{records: s.records, readOnly: true})
}

// Close implements store.Store.
func (s *Store) Close() error {
	return nil
}

// Len returns the number of committed records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type tx struct {
	records  map[store.Key][]byte
	writes   map[store.Key][]byte
	readOnly bool
}

func (t *tx) lookup(key store.Key) ([]byte, bool) {
	if v, ok := t.writes[key]; ok {
		return v, true
	}
	v, ok := t.records[key]
	return v, ok
}

func (t *tx) Get(_ context.Context, key store.Key) ([]byte, error) {
	v, ok := t.lookup(key)
	if !ok {
		return nil, store.ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (t *tx) Insert(ctx context.Context, key store.Key, data []byte) error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	if _, ok := t.lookup(key); ok {
		return store.ErrExists
	}
	return t.Put(ctx, key, data)
}

func (t *tx) Put(_ context.Context, key store.Key, data []byte) error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	t.writes[key] = bytes.Clone(data)
	return nil
}
