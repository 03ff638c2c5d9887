// Package game implements the points/levels/badges/streak progression over
// user actions. The engine owns the progress record, persists it after
// every mutation and emits notifications for unlocks and level changes.
package game

import (
	"fmt"
	"log"
	"time"

	"github.com/dcereceda/academisearch/internal/article"
	"github.com/dcereceda/academisearch/internal/progress"
)

// Points holds the award sizes for each action.
type Points struct {
	Search             int
	ReadArticle        int
	CompleteFlashcards int
}

// DefaultPoints matches the stock configuration.
var DefaultPoints = Points{Search: 5, ReadArticle: 10, CompleteFlashcards: 15}

// Notification is a fire-and-forget achievement message. Display and
// dismissal timing belong to the presentation layer.
type Notification struct {
	Title       string
	Description string
}

// Engine mutates the progress record in response to user actions.
// Not safe for concurrent use: callers serialize access.
type Engine struct {
	store  progress.Store
	record *progress.Record
	points Points
	notify func(Notification)
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithPoints overrides the award sizes.
func WithPoints(p Points) Option {
	return func(e *Engine) { e.points = p }
}

// WithNotifier registers the notification sink.
func WithNotifier(fn func(Notification)) Option {
	return func(e *Engine) { e.notify = fn }
}

// WithClock overrides the time source (streak tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine loads the record from the store, initializing a zero-state
// record when none exists yet.
func NewEngine(store progress.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		store:  store,
		points: DefaultPoints,
		notify: func(Notification) {},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	record, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	if record == nil {
		record = progress.NewRecord(e.now())
	}
	// The level field is a cache; trust the points, not the stored name.
	record.Level = LevelForPoints(record.Points).Name
	e.record = record
	return e, nil
}

// Record returns the live progress record. Callers must not mutate it.
func (e *Engine) Record() *progress.Record {
	return e.record
}

// AwardPoints adds n points, recomputes the level and persists.
// A level change emits one notification.
func (e *Engine) AwardPoints(n int) {
	if n <= 0 {
		return
	}
	e.record.Points += n

	newLevel := LevelForPoints(e.record.Points)
	if newLevel.Name != e.record.Level {
		e.record.Level = newLevel.Name
		e.notify(Notification{
			Title:       "Level Up! 🚀",
			Description: fmt.Sprintf("You are now %s", newLevel.Name),
		})
	}
	e.persist()
}

// RecordSearch counts a performed search and awards search points.
func (e *Engine) RecordSearch() {
	e.record.SearchCount++
	e.AwardPoints(e.points.Search)
	e.evaluateBadge(BadgeFirstSearch)
	e.persist()
}

// RecordArticleOpened tracks topics explored and articles read. Reading
// points and badge progress are awarded only on the first open of an
// article; repeat opens are no-ops.
func (e *Engine) RecordArticleOpened(a article.Article) {
	if a.Topic != "" && !e.record.HasExplored(a.Topic) {
		e.record.TopicsExplored = append(e.record.TopicsExplored, a.Topic)
		e.evaluateBadge(BadgeExplorer)
	}

	if !e.record.HasRead(a.ID) {
		e.record.ArticlesRead = append(e.record.ArticlesRead, a.ID)
		e.AwardPoints(e.points.ReadArticle)
		e.evaluateBadge(BadgeAvidReader)
	}
	e.persist()
}

// RecordFlashcardSession awards points for a completed study session.
func (e *Engine) RecordFlashcardSession() {
	e.record.FlashcardsCompleted++
	e.AwardPoints(e.points.CompleteFlashcards)
	e.notify(Notification{
		Title:       "Flashcards Completed! 🎯",
		Description: fmt.Sprintf("+%d points for finishing the study session", e.points.CompleteFlashcards),
	})
	e.persist()
}

// EvaluateStreak updates the daily visit streak: a visit the day after the
// last one extends the streak, the same day is a no-op, anything else
// resets to 1. The last-visit date always moves to today.
func (e *Engine) EvaluateStreak() {
	today := e.now().Format(progress.DateFormat)
	if e.record.LastVisit == today {
		return
	}

	yesterday := e.now().AddDate(0, 0, -1).Format(progress.DateFormat)
	if e.record.LastVisit == yesterday {
		e.record.StreakDays++
	} else {
		e.record.StreakDays = 1
	}

	e.record.LastVisit = today
	e.evaluateBadge(BadgeWeekStreak)
	e.persist()
}

// LevelProgress describes how far the user is into the current level.
type LevelProgress struct {
	Level   string
	Percent int
	Label   string
}

// Progress returns the level progress bar state. At the top level there is
// no next range to divide by, so the bar reads complete.
func (e *Engine) Progress() LevelProgress {
	current := LevelForPoints(e.record.Points)
	next, ok := NextLevel(current)
	if !ok {
		return LevelProgress{
			Level:   current.Name,
			Percent: 100,
			Label:   "Top level reached!",
		}
	}

	percent := (e.record.Points - current.Min) * 100 / (next.Min - current.Min)
	if percent > 100 {
		percent = 100
	}
	return LevelProgress{
		Level:   current.Name,
		Percent: percent,
		Label:   fmt.Sprintf("%d/%d pts to %s", e.record.Points, next.Min, next.Name),
	}
}

// BadgeStatus pairs a badge definition with its unlock state.
type BadgeStatus struct {
	Badge
	Unlocked bool
}

// BadgeStatuses returns the full catalog with unlock state for display.
func (e *Engine) BadgeStatuses() []BadgeStatus {
	statuses := make([]BadgeStatus, 0, len(Badges))
	for _, b := range Badges {
		statuses = append(statuses, BadgeStatus{Badge: b, Unlocked: e.record.HasBadge(b.ID)})
	}
	return statuses
}

// evaluateBadge unlocks the badge if its condition holds. Already-unlocked
// badges are skipped, so each badge notifies exactly once.
func (e *Engine) evaluateBadge(id string) {
	if e.record.HasBadge(id) {
		return
	}
	badge, ok := BadgeByID(id)
	if !ok || !badge.Condition(e.record) {
		return
	}

	e.record.UnlockedBadges = append(e.record.UnlockedBadges, badge.ID)
	e.notify(Notification{
		Title:       fmt.Sprintf("Badge Unlocked! %s", badge.Icon),
		Description: badge.Name,
	})
}

// persist saves the record, best effort. Storage trouble must never take
// down the session.
func (e *Engine) persist() {
	if err := e.store.Save(e.record); err != nil {
		log.Printf("Failed to save progress: %v", err)
	}
}
