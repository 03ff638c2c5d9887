package progress

import (
	"testing"
	"time"
)

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != nil {
		t.Errorf("expected nil record from empty store, got %+v", r)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	r := NewRecord(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	r.Points = 42
	r.UnlockedBadges = []string{"first_search"}
	r.ArticlesRead = []string{"a1"}

	if err := s.Save(r); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Mutating the original must not leak into the store.
	r.Points = 0
	r.UnlockedBadges[0] = "mutated"

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Points != 42 {
		t.Errorf("expected 42 points, got %d", loaded.Points)
	}
	if loaded.LastVisit != "2026-03-14" {
		t.Errorf("expected last visit 2026-03-14, got %q", loaded.LastVisit)
	}
	if len(loaded.UnlockedBadges) != 1 || loaded.UnlockedBadges[0] != "first_search" {
		t.Errorf("expected badge first_search, got %v", loaded.UnlockedBadges)
	}
}

func TestRecordSetMembership(t *testing.T) {
	r := NewRecord(time.Now())
	r.UnlockedBadges = []string{"explorer"}
	r.ArticlesRead = []string{"a1", "a2"}
	r.TopicsExplored = []string{"Biology"}

	if !r.HasBadge("explorer") || r.HasBadge("avid_reader") {
		t.Error("badge membership wrong")
	}
	if !r.HasRead("a2") || r.HasRead("a3") {
		t.Error("read membership wrong")
	}
	if !r.HasExplored("Biology") || r.HasExplored("Physics") {
		t.Error("topic membership wrong")
	}
}
