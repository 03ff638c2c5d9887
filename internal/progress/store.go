// Package progress defines the persisted gamification record and the
// key-value store port it is saved through. Backends: in-memory (tests),
// SQLite (internal/database) and Redis.
package progress

// Store loads and saves the single progress record. Load returns
// (nil, nil) when no record has been saved yet; callers initialize a
// zero-state record in that case.
type Store interface {
	Load() (*Record, error)
	Save(*Record) error
}

// MemoryStore keeps the record in process memory. Used in tests and as
// the throwaway backend when persistence is disabled.
type MemoryStore struct {
	record *Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored record, or nil if none was saved.
func (s *MemoryStore) Load() (*Record, error) {
	if s.record == nil {
		return nil, nil
	}
	copied := *s.record
	copied.UnlockedBadges = append([]string(nil), s.record.UnlockedBadges...)
	copied.ArticlesRead = append([]string(nil), s.record.ArticlesRead...)
	copied.TopicsExplored = append([]string(nil), s.record.TopicsExplored...)
	return &copied, nil
}

// Save stores a copy of the record.
func (s *MemoryStore) Save(r *Record) error {
	copied := *r
	copied.UnlockedBadges = append([]string(nil), r.UnlockedBadges...)
	copied.ArticlesRead = append([]string(nil), r.ArticlesRead...)
	copied.TopicsExplored = append([]string(nil), r.TopicsExplored...)
	s.record = &copied
	return nil
}
