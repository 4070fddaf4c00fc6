package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in process memory. Safe for concurrent
// use; contents are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*DesignRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*DesignRecord)}
}

// Get retrieves a record by design fingerprint.
func (s *MemoryStore) Get(ctx context.Context, fingerprint string) (*DesignRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[fingerprint]
	if !ok {
		return nil, NotFound(fingerprint)
	}
	return rec, nil
}

// Put stores a record.
func (s *MemoryStore) Put(ctx context.Context, rec *DesignRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Fingerprint] = rec
	return nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(ctx context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, fingerprint)
	return nil
}

// List returns the most recent records, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*DesignRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*DesignRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Fingerprint < out[j].Fingerprint
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
