package progress

import "time"

// DateFormat is the day granularity used for visit tracking.
const DateFormat = "2006-01-02"

// Record holds all persisted gamification state for one profile.
// It is JSON-serialized into whichever store backend is configured.
type Record struct {
	Points              int      `json:"points"`
	Level               string   `json:"level"`
	UnlockedBadges      []string `json:"unlocked_badges"`
	SearchCount         int      `json:"search_count"`
	ArticlesRead        []string `json:"articles_read"`
	TopicsExplored      []string `json:"topics_explored"`
	StreakDays          int      `json:"streak_days"`
	LastVisit           string   `json:"last_visit"` // DateFormat
	FlashcardsCompleted int      `json:"flashcards_completed"`
}

// NewRecord returns the zero-state record for a first visit.
func NewRecord(now time.Time) *Record {
	return &Record{
		Level:     "Novice",
		LastVisit: now.Format(DateFormat),
	}
}

// HasBadge reports whether the badge is already unlocked.
func (r *Record) HasBadge(id string) bool {
	for _, b := range r.UnlockedBadges {
		if b == id {
			return true
		}
	}
	return false
}

// HasRead reports whether the article ID is in the read set.
func (r *Record) HasRead(articleID string) bool {
	for _, id := range r.ArticlesRead {
		if id == articleID {
			return true
		}
	}
	return false
}

// HasExplored reports whether the topic is in the explored set.
func (r *Record) HasExplored(topic string) bool {
	for _, t := range r.TopicsExplored {
		if t == topic {
			return true
		}
	}
	return false
}
