package evidence

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Backend abstracts durable record persistence. A nil backend keeps records in
// memory only, which is what tests use.
type Backend interface {
	PutRecord(id string, data []byte) error
	DeleteRecord(id string) error
	ListRecords() (map[string][]byte, error)
}

// Store holds captured evidence records keyed by evidence ID.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string // capture order, for stable listing
	backend Backend
}

// NewStore creates an in-memory store, loading any records already persisted
// in the backend.
func NewStore(backend Backend) (*Store, error) {
	s := &Store{
		records: make(map[string]*Record),
		backend: backend,
	}
	if backend == nil {
		return s, nil
	}
	persisted, err := backend.ListRecords()
	if err != nil {
		return nil, fmt.Errorf("load evidence records: %w", err)
	}
	for id, data := range persisted {
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode evidence record %s: %w", id, err)
		}
		s.records[id] = &rec
		s.order = append(s.order, id)
	}
	// Persisted map order is not capture order; timestamp order is the best
	// reconstruction available.
	sort.Slice(s.order, func(i, j int) bool {
		return s.records[s.order[i]].Timestamp.Before(s.records[s.order[j]].Timestamp)
	})
	return s, nil
}

// Put admits a record to the store and persists it.
func (s *Store) Put(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.EvidenceID]; exists {
		return fmt.Errorf("evidence %s already exists", rec.EvidenceID)
	}
	if s.backend != nil {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode evidence record: %w", err)
		}
		if err := s.backend.PutRecord(rec.EvidenceID, data); err != nil {
			return err
		}
	}
	s.records[rec.EvidenceID] = rec
	s.order = append(s.order, rec.EvidenceID)
	return nil
}

// Delete removes a record. Only used to roll back a capture whose chain append
// failed; chained records are never deleted.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[id]; !exists {
		return nil
	}
	if s.backend != nil {
		if err := s.backend.DeleteRecord(id); err != nil {
			return err
		}
	}
	delete(s.records, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the record with the given ID, or nil if absent.
func (s *Store) Get(id string) *Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[id]
}

// ListAll returns all records in capture order.
func (s *Store) ListAll() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Range returns records with timestamps in [start, end] inclusive, sorted by
// timestamp. If tenantID is non-empty only records whose metadata carries that
// tenant_id are returned.
func (s *Store) Range(start, end time.Time, tenantID string) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Record
	for _, id := range s.order {
		rec := s.records[id]
		if rec.Timestamp.Before(start) || rec.Timestamp.After(end) {
			continue
		}
		if tenantID != "" && rec.TenantID() != tenantID {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
