// Package session is the application context: it owns the loaded result
// set, the active filters and profile, the game engine and the search
// orchestration, independent of any rendering surface.
package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/dcereceda/academisearch/internal/article"
	"github.com/dcereceda/academisearch/internal/content"
	"github.com/dcereceda/academisearch/internal/filter"
	"github.com/dcereceda/academisearch/internal/game"
	"github.com/dcereceda/academisearch/internal/progress"
	"github.com/dcereceda/academisearch/internal/search"
)

// Searcher is the remote search port.
type Searcher interface {
	Search(ctx context.Context, query string) (*search.ResultSet, error)
	Connected() bool
}

// Options wires a Session.
type Options struct {
	Searcher Searcher
	// Fallback substitutes a result set when the remote search fails.
	// Defaults to the embedded canned set.
	Fallback func(query string) *search.ResultSet
	Store    progress.Store
	Points   game.Points
	Profile  content.Profile
	Clock    func() time.Time
}

// Outcome reports what a search attempt produced.
type Outcome struct {
	Query    string
	Articles []article.Article
	// Degraded is set when the articles came from the fallback source.
	Degraded bool
	// Stale is set when a newer search superseded this one; the session
	// state was left untouched.
	Stale bool
}

// Session serializes all state mutation behind one mutex; the underlying
// model is a single logical thread of control, the lock only guards
// against concurrent HTTP handlers.
type Session struct {
	searcher Searcher
	fallback func(query string) *search.ResultSet
	engine   *game.Engine

	mu        sync.Mutex
	seq       uint64
	articles  []article.Article
	criteria  filter.Criteria
	lastQuery string
	degraded  bool
	profile   content.Profile
	notices   []game.Notification
}

// New builds a session, loading progress and evaluating the daily streak.
func New(opts Options) (*Session, error) {
	s := &Session{
		searcher: opts.Searcher,
		fallback: opts.Fallback,
		profile:  opts.Profile,
	}
	if s.fallback == nil {
		s.fallback = search.Fallback
	}
	if s.profile == "" {
		s.profile = content.ProfileStudent
	}

	points := opts.Points
	if points == (game.Points{}) {
		points = game.DefaultPoints
	}

	engineOpts := []game.Option{
		game.WithPoints(points),
		game.WithNotifier(s.pushNotification),
	}
	if opts.Clock != nil {
		engineOpts = append(engineOpts, game.WithClock(opts.Clock))
	}

	engine, err := game.NewEngine(opts.Store, engineOpts...)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	engine.EvaluateStreak()
	return s, nil
}

// Search runs a query against the remote service, substituting the
// fallback set on any failure. Overlapping searches follow a
// latest-wins policy: responses arriving after a newer search started
// are discarded instead of overwriting fresher results.
func (s *Session) Search(ctx context.Context, query string) Outcome {
	query = strings.TrimSpace(query)
	if query == "" {
		return Outcome{}
	}

	s.mu.Lock()
	s.seq++
	mine := s.seq
	s.mu.Unlock()

	set, err := s.searcher.Search(ctx, query)
	degraded := false
	if err != nil {
		log.Printf("Search failed, using fallback catalog: %v", err)
		set = s.fallback(query)
		degraded = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mine != s.seq {
		return Outcome{Query: query, Stale: true}
	}

	s.articles = set.Articles
	s.lastQuery = query
	s.degraded = degraded
	s.engine.RecordSearch()

	return Outcome{
		Query:    query,
		Articles: filter.Apply(s.articles, s.criteria),
		Degraded: degraded,
	}
}

// SetCriteria replaces the active filter criteria.
func (s *Session) SetCriteria(c filter.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c
}

// Criteria returns the active filter criteria.
func (s *Session) Criteria() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// Filtered applies the active criteria to the loaded articles.
func (s *Session) Filtered() []article.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter.Apply(s.articles, s.criteria)
}

// Articles returns the full loaded result set.
func (s *Session) Articles() []article.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]article.Article(nil), s.articles...)
}

// LastQuery returns the query behind the loaded result set.
func (s *Session) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

// Degraded reports whether the loaded results came from the fallback.
func (s *Session) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Connected reports remote search connectivity.
func (s *Session) Connected() bool {
	return s.searcher.Connected()
}

// Profile returns the active reading profile.
func (s *Session) Profile() content.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// SetProfile switches the reading profile.
func (s *Session) SetProfile(p content.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
}

// OpenArticle looks up a loaded article by ID and records the read.
func (s *Session) OpenArticle(id string) (article.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.articles {
		if a.ID == id {
			s.engine.RecordArticleOpened(a)
			return a, true
		}
	}
	return article.Article{}, false
}

// CompleteStudy records a finished flashcard session.
func (s *Session) CompleteStudy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.RecordFlashcardSession()
}

// ProgressView is a point-in-time snapshot of the progress state. The
// record itself stays behind the session lock; handlers render this copy.
type ProgressView struct {
	Points         int
	Level          string
	Bar            game.LevelProgress
	Badges         []game.BadgeStatus
	StreakDays     int
	Searches       int
	ArticlesRead   int
	TopicsExplored int
	StudySessions  int
}

// Progress snapshots the progress state for display.
func (s *Session) Progress() ProgressView {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.engine.Record()
	return ProgressView{
		Points:         r.Points,
		Level:          r.Level,
		Bar:            s.engine.Progress(),
		Badges:         s.engine.BadgeStatuses(),
		StreakDays:     r.StreakDays,
		Searches:       r.SearchCount,
		ArticlesRead:   len(r.ArticlesRead),
		TopicsExplored: len(r.TopicsExplored),
		StudySessions:  r.FlashcardsCompleted,
	}
}

// DrainNotifications returns pending achievement notifications and
// clears the queue. Display and auto-dismissal belong to the caller.
func (s *Session) DrainNotifications() []game.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	notices := s.notices
	s.notices = nil
	return notices
}

// pushNotification is the engine's notification sink. The engine only
// fires inside session methods that already hold the lock, so no
// locking here.
func (s *Session) pushNotification(n game.Notification) {
	s.notices = append(s.notices, n)
}
