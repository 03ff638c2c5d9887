package game

import "github.com/dcereceda/academisearch/internal/progress"

// Level is one rung of the static level ladder. Min/Max are inclusive and
// the ladder partitions the non-negative integers: no gaps, no overlaps.
type Level struct {
	Name string
	Min  int
	Max  int
}

// Levels is the level ladder, sorted ascending. The last level is open-ended.
var Levels = []Level{
	{Name: "Novice", Min: 0, Max: 50},
	{Name: "Intermediate", Min: 51, Max: 150},
	{Name: "Advanced", Min: 151, Max: 300},
	{Name: "Expert", Min: 301, Max: 999999},
}

// LevelForPoints returns the level whose range contains the point total.
func LevelForPoints(points int) Level {
	for _, l := range Levels {
		if points >= l.Min && points <= l.Max {
			return l
		}
	}
	// Beyond the last declared Max; the top level is effectively unbounded.
	return Levels[len(Levels)-1]
}

// NextLevel returns the level after l, or false at the top of the ladder.
func NextLevel(l Level) (Level, bool) {
	for i, candidate := range Levels {
		if candidate.Name == l.Name && i+1 < len(Levels) {
			return Levels[i+1], true
		}
	}
	return Level{}, false
}

// Badge identifiers.
const (
	BadgeFirstSearch = "first_search"
	BadgeAvidReader  = "avid_reader"
	BadgeExplorer    = "explorer"
	BadgeWeekStreak  = "week_streak"
)

// Badge is a static achievement definition. Condition is a pure predicate
// over the progress record; unlocks are monotonic and never revoked.
type Badge struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Condition   func(*progress.Record) bool
}

// Badges is the badge catalog.
var Badges = []Badge{
	{
		ID:          BadgeFirstSearch,
		Name:        "First Search",
		Description: "Ran your first search",
		Icon:        "🔍",
		Condition:   func(r *progress.Record) bool { return r.SearchCount >= 1 },
	},
	{
		ID:          BadgeAvidReader,
		Name:        "Avid Reader",
		Description: "Read 10 articles",
		Icon:        "📚",
		Condition:   func(r *progress.Record) bool { return len(r.ArticlesRead) >= 10 },
	},
	{
		ID:          BadgeExplorer,
		Name:        "Explorer",
		Description: "Explored 5 different topics",
		Icon:        "🧭",
		Condition:   func(r *progress.Record) bool { return len(r.TopicsExplored) >= 5 },
	},
	{
		ID:          BadgeWeekStreak,
		Name:        "Week Streak",
		Description: "7 consecutive days on the platform",
		Icon:        "🔥",
		Condition:   func(r *progress.Record) bool { return r.StreakDays >= 7 },
	},
}

// BadgeByID looks up a badge definition, or false when unknown.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
