package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dcereceda/academisearch/internal/article"
	"github.com/dcereceda/academisearch/internal/content"
	"github.com/dcereceda/academisearch/internal/filter"
	"github.com/dcereceda/academisearch/internal/progress"
	"github.com/dcereceda/academisearch/internal/search"
)

// fakeSearcher answers from a script: queries mapped to results, or a
// fixed error.
type fakeSearcher struct {
	results   map[string]*search.ResultSet
	err       error
	connected bool
}

func (f *fakeSearcher) Search(ctx context.Context, query string) (*search.ResultSet, error) {
	if f.err != nil {
		f.connected = false
		return nil, f.err
	}
	f.connected = true
	if set, ok := f.results[query]; ok {
		return set, nil
	}
	return &search.ResultSet{Query: query}, nil
}

func (f *fakeSearcher) Connected() bool { return f.connected }

func resultSet(query string, ids ...string) *search.ResultSet {
	set := &search.ResultSet{Query: query, Count: len(ids)}
	for i, id := range ids {
		set.Articles = append(set.Articles, article.Article{
			ID:    id,
			Title: "Article " + id,
			Topic: "Topic " + id,
			Score: 1 - float64(i)*0.1,
		})
	}
	return set
}

func newTestSession(t *testing.T, searcher Searcher) *Session {
	t.Helper()
	s, err := New(Options{
		Searcher: searcher,
		Store:    progress.NewMemoryStore(),
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return s
}

func TestSearchLoadsAndRecords(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]*search.ResultSet{
		"microgravity": resultSet("microgravity", "a1", "a2"),
	}}
	s := newTestSession(t, searcher)

	out := s.Search(context.Background(), "microgravity")
	if out.Degraded || out.Stale {
		t.Errorf("unexpected outcome flags: %+v", out)
	}
	if len(out.Articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(out.Articles))
	}
	if s.engine.Record().SearchCount != 1 {
		t.Errorf("expected search recorded, got count %d", s.engine.Record().SearchCount)
	}
	if s.LastQuery() != "microgravity" {
		t.Errorf("unexpected last query %q", s.LastQuery())
	}
}

func TestSearchEmptyQueryIgnored(t *testing.T) {
	s := newTestSession(t, &fakeSearcher{})
	s.Search(context.Background(), "   ")
	if s.engine.Record().SearchCount != 0 {
		t.Error("empty query must not count as a search")
	}
}

func TestSearchFailureSubstitutesFallback(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection refused")}
	s := newTestSession(t, searcher)

	out := s.Search(context.Background(), "microgravity")
	if !out.Degraded {
		t.Error("expected degraded outcome")
	}
	if out.Query != "microgravity" {
		t.Errorf("expected query echoed, got %q", out.Query)
	}
	if len(out.Articles) == 0 {
		t.Error("expected non-empty fallback result set")
	}
	if s.Connected() {
		t.Error("expected connectivity down")
	}
	if !s.Degraded() {
		t.Error("expected session marked degraded")
	}
	// Searches still count while offline.
	if s.engine.Record().SearchCount != 1 {
		t.Errorf("expected search recorded, got %d", s.engine.Record().SearchCount)
	}
}

// slowFirstSearcher blocks its first call on a gate; later calls answer
// immediately. Models a slow in-flight search overlapped by a fresh one.
type slowFirstSearcher struct {
	fakeSearcher
	calls int32
	gate  chan struct{}
}

func (f *slowFirstSearcher) Search(ctx context.Context, query string) (*search.ResultSet, error) {
	if atomic.AddInt32(&f.calls, 1) == 1 {
		<-f.gate
	}
	return f.fakeSearcher.Search(ctx, query)
}

func TestSlowResponseDoesNotOverwriteNewerResults(t *testing.T) {
	gate := make(chan struct{})
	searcher := &slowFirstSearcher{
		fakeSearcher: fakeSearcher{results: map[string]*search.ResultSet{
			"old": resultSet("old", "stale1"),
			"new": resultSet("new", "fresh1"),
		}},
		gate: gate,
	}

	s := newTestSession(t, searcher)

	done := make(chan Outcome, 1)
	go func() { done <- s.Search(context.Background(), "old") }()

	// Let the slow search claim its sequence number before the new one.
	time.Sleep(20 * time.Millisecond)
	out := s.Search(context.Background(), "new")
	if out.Stale || len(out.Articles) != 1 || out.Articles[0].ID != "fresh1" {
		t.Fatalf("unexpected fresh outcome: %+v", out)
	}

	close(gate)
	oldOut := <-done
	if !oldOut.Stale {
		t.Error("expected superseded search marked stale")
	}

	articles := s.Articles()
	if len(articles) != 1 || articles[0].ID != "fresh1" {
		t.Errorf("stale response overwrote fresh results: %+v", articles)
	}
	if s.LastQuery() != "new" {
		t.Errorf("expected last query 'new', got %q", s.LastQuery())
	}
}

func TestFilteredAppliesCriteria(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]*search.ResultSet{
		"q": resultSet("q", "a1", "a2", "a3"),
	}}
	s := newTestSession(t, searcher)
	s.Search(context.Background(), "q")

	s.SetCriteria(filter.Criteria{Topic: "Topic a2"})
	got := s.Filtered()
	if len(got) != 1 || got[0].ID != "a2" {
		t.Errorf("expected [a2], got %+v", got)
	}

	// Loaded set is unaffected by filtering.
	if len(s.Articles()) != 3 {
		t.Errorf("expected full set retained, got %d", len(s.Articles()))
	}
}

func TestOpenArticleRecordsOnce(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]*search.ResultSet{
		"q": resultSet("q", "a1"),
	}}
	s := newTestSession(t, searcher)
	s.Search(context.Background(), "q")

	pointsBefore := s.engine.Record().Points
	a, ok := s.OpenArticle("a1")
	if !ok || a.ID != "a1" {
		t.Fatalf("expected article a1, got %+v ok=%v", a, ok)
	}
	afterFirst := s.engine.Record().Points
	if afterFirst <= pointsBefore {
		t.Error("expected read points awarded")
	}

	s.OpenArticle("a1")
	if s.engine.Record().Points != afterFirst {
		t.Error("expected no additional points for repeat open")
	}

	if _, ok := s.OpenArticle("missing"); ok {
		t.Error("expected lookup failure for unknown ID")
	}
}

func TestCompleteStudyAwardsPoints(t *testing.T) {
	s := newTestSession(t, &fakeSearcher{})
	before := s.engine.Record().Points
	s.CompleteStudy()
	r := s.engine.Record()
	if r.FlashcardsCompleted != 1 {
		t.Errorf("expected 1 completed session, got %d", r.FlashcardsCompleted)
	}
	if r.Points != before+15 {
		t.Errorf("expected +15 points, got %d", r.Points-before)
	}
}

func TestNotificationsDrainOnce(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]*search.ResultSet{
		"q": resultSet("q", "a1"),
	}}
	s := newTestSession(t, searcher)
	s.Search(context.Background(), "q") // first_search badge

	notes := s.DrainNotifications()
	if len(notes) == 0 {
		t.Fatal("expected notifications after first search")
	}
	if len(s.DrainNotifications()) != 0 {
		t.Error("expected queue cleared after drain")
	}
}

func TestProfileSwitching(t *testing.T) {
	s := newTestSession(t, &fakeSearcher{})
	if s.Profile() != content.ProfileStudent {
		t.Errorf("expected default student profile, got %q", s.Profile())
	}
	s.SetProfile(content.ProfileManager)
	if s.Profile() != content.ProfileManager {
		t.Errorf("expected manager profile, got %q", s.Profile())
	}
}

func TestStreakEvaluatedOnStartup(t *testing.T) {
	store := progress.NewMemoryStore()
	r := progress.NewRecord(time.Now().AddDate(0, 0, -1))
	r.StreakDays = 2
	if err := store.Save(r); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	s, err := New(Options{Searcher: &fakeSearcher{}, Store: store})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if s.engine.Record().StreakDays != 3 {
		t.Errorf("expected streak extended to 3 on startup, got %d", s.engine.Record().StreakDays)
	}
}

// Progress snapshots while searches mutate the record; caught by the
// race detector.
func TestProgressSnapshotDuringConcurrentSearches(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]*search.ResultSet{
		"q": resultSet("q", "a1", "a2"),
	}}
	s := newTestSession(t, searcher)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			s.Search(context.Background(), "q")
		}
	}()
	for i := 0; i < 100; i++ {
		s.Progress()
	}
	wg.Wait()

	p := s.Progress()
	if p.Searches != 20 {
		t.Errorf("expected 20 recorded searches, got %d", p.Searches)
	}
	if p.Points != 20*5 {
		t.Errorf("expected %d points, got %d", 20*5, p.Points)
	}
}

func TestProgressSnapshotFields(t *testing.T) {
	searcher := &fakeSearcher{results: map[string]*search.ResultSet{
		"q": resultSet("q", "a1"),
	}}
	s := newTestSession(t, searcher)
	s.Search(context.Background(), "q")
	s.OpenArticle("a1")
	s.CompleteStudy()

	p := s.Progress()
	if p.Points != 5+10+15 {
		t.Errorf("expected 30 points, got %d", p.Points)
	}
	if p.Level != "Novice" {
		t.Errorf("expected Novice, got %q", p.Level)
	}
	if p.Searches != 1 || p.ArticlesRead != 1 || p.TopicsExplored != 1 || p.StudySessions != 1 {
		t.Errorf("unexpected counters: %+v", p)
	}
	if len(p.Badges) == 0 {
		t.Error("expected the badge catalog in the snapshot")
	}
}
