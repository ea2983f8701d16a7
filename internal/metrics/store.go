package metrics

import (
	"context"
	"time"

	"github.com/sakif/campus-connect/internal/store"
)

// InstrumentStore wraps st so every Save is counted and timed. Loads and
// clears pass straight through.
func (m *Metrics) InstrumentStore(st store.Store) store.Store {
	return &instrumentedStore{Store: st, m: m}
}

type instrumentedStore struct {
	store.Store
	m *Metrics
}

func (s *instrumentedStore) Save(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.Store.Save(ctx, key, data)
	s.m.ObserveSave(key, time.Since(start), err)
	return err
}
