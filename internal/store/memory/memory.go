// Package memory is an in-process Store.
//
// It is the backend for tests and for running without durable storage. The
// optional quota mimics a browser's storage limit: a Save that would push the
// total stored size over the quota fails and leaves the previous document in
// place.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sakif/campus-connect/internal/store"
)

// ErrQuotaExceeded is returned by Save when the quota would be exceeded.
var ErrQuotaExceeded = errors.New("memory: storage quota exceeded")

var (
	_ store.Store  = (*Store)(nil)
	_ store.Lister = (*Store)(nil)
)

// Store keeps documents in a map. Stored bytes are copied on the way in and
// on the way out.
type Store struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	quota int // 0 means unlimited
}

// Option configures a Store.
type Option func(*Store)

// WithQuota caps the total number of stored bytes across all keys.
func WithQuota(bytes int) Option {
	return func(s *Store) { s.quota = bytes }
}

// WithSeed preloads documents, e.g. to simulate a previous session.
func WithSeed(docs map[string][]byte) Option {
	return func(s *Store) {
		for k, v := range docs {
			s.docs[k] = append([]byte(nil), v...)
		}
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{docs: make(map[string][]byte)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *Store) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		size := len(data)
		for k, v := range s.docs {
			if k != key {
				size += len(v)
			}
		}
		if size > s.quota {
			return fmt.Errorf("saving %s (%d bytes, quota %d): %w", key, size, s.quota, ErrQuotaExceeded)
		}
	}

	s.docs[key] = append([]byte(nil), data...)
	return nil
}

func (s *Store) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, key)
	return nil
}

func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// SetQuota changes the quota after construction. Tests use it to make
// writes start failing mid-scenario.
func (s *Store) SetQuota(bytes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quota = bytes
}

// Size returns the total number of stored bytes.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, v := range s.docs {
		n += len(v)
	}
	return n
}
