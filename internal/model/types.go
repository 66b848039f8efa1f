// Package model defines shared data structures.
package model

import "time"

// ProgressSnapshot is the latest learning progress published by the host app.
type ProgressSnapshot struct {
	Streak            int
	TodayPoints       int
	TotalWordsLearned int
	LessonsCompleted  int
	LastUpdate        time.Time
}

// WordOfDay is the daily word record shown on the word surface.
type WordOfDay struct {
	Word          string
	Definition    string
	Example       string
	Pronunciation string
}

// DisplayOptions are caller-supplied per refresh and never persisted.
type DisplayOptions struct {
	ShowStreak bool
	ShowStats  bool
}

// DefaultDisplayOptions shows everything.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{ShowStreak: true, ShowStats: true}
}

// DisplayEntry is the snapshot a display surface renders for one refresh.
type DisplayEntry struct {
	GeneratedAt time.Time
	Snapshot    ProgressSnapshot
	// WordOfDay is nil when no word has been published or the stored bytes are unreadable.
	WordOfDay *WordOfDay
	Options   DisplayOptions
}

// Kind names a display surface.
type Kind string

// Display surface kinds.
const (
	KindStats     Kind = "stats"
	KindWordOfDay Kind = "wordOfDay"
)

// Kinds lists every known display surface kind.
func Kinds() []Kind {
	return []Kind{KindStats, KindWordOfDay}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindStats, KindWordOfDay:
		return true
	default:
		return false
	}
}
