package archive

import (
	"context"
	"sync"
)

// DefaultMaxRecords caps the memory store when unset
const DefaultMaxRecords = 10000

// MemoryStore keeps records in insertion order and evicts the oldest once
// maxRecords is reached
type MemoryStore struct {
	mu           sync.RWMutex
	records      []*Record
	byID         map[string]*Record
	maxRecords   int
	defaultLimit int
}

// NewMemoryStore creates an in-process store
func NewMemoryStore(maxRecords, defaultLimit int) *MemoryStore {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &MemoryStore{
		byID:         make(map[string]*Record),
		maxRecords:   maxRecords,
		defaultLimit: defaultLimit,
	}
}

// Save stores a copy of rec
func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	cp := *rec

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byID[cp.ID]; ok {
		*old = cp
		return nil
	}
	if len(s.records) >= s.maxRecords {
		evicted := s.records[0]
		s.records = s.records[1:]
		delete(s.byID, evicted.ID)
	}
	s.records = append(s.records, &cp)
	s.byID[cp.ID] = &cp
	return nil
}

// Get returns the record with id
func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// List returns matching records, newest first
func (s *MemoryStore) List(_ context.Context, q Query) ([]*Record, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		rec := s.records[i]
		if q.Kind != "" && rec.Kind != q.Kind {
			continue
		}
		if q.SeriesID != "" && rec.SeriesID != q.SeriesID {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

// Len returns the number of stored records
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
