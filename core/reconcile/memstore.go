package reconcile

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is a concurrency-safe in-memory Store.
// It backs tests and the dry-run mode of the sync command.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates a MemoryStore seeded with the given records.
func NewMemoryStore(seed ...Record) *MemoryStore {
	s := &MemoryStore{records: make(map[string]Record, len(seed))}
	for _, rec := range seed {
		s.records[rec.ID] = cloneRecord(rec)
	}
	return s
}

// GetAllIDs implements Store.
func (s *MemoryStore) GetAllIDs(ctx context.Context) (IDSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(IDSet, len(s.records))
	for id := range s.records {
		ids.Add(id)
	}
	return ids, nil
}

// GetAll implements BulkLoader.
func (s *MemoryStore) GetAll(ctx context.Context) (map[string]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Record, len(s.records))
	for id, rec := range s.records {
		out[id] = cloneRecord(rec)
	}
	return out, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(rec), nil
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = cloneRecord(rec)
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cloneRecord(rec Record) Record {
	rec.Fields = maps.Clone(rec.Fields)
	return rec
}
