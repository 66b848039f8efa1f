package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/wordwidget/internal/model"
)

type entryJSON struct {
	Kind        model.Kind   `json:"kind"`
	GeneratedAt time.Time    `json:"generated_at"`
	RefreshAt   *time.Time   `json:"refresh_at,omitempty"`
	Progress    progressJSON `json:"progress"`
	WordOfDay   *wordJSON    `json:"word_of_day"`
	ShowStreak  bool         `json:"show_streak"`
	ShowStats   bool         `json:"show_stats"`
}

type progressJSON struct {
	Streak            int        `json:"streak"`
	TodayPoints       int        `json:"today_points"`
	TotalWordsLearned int        `json:"total_words_learned"`
	LessonsCompleted  int        `json:"lessons_completed"`
	LastUpdate        *time.Time `json:"last_update,omitempty"`
}

type wordJSON struct {
	Word          string `json:"word"`
	Definition    string `json:"definition"`
	Example       string `json:"example"`
	Pronunciation string `json:"pronunciation"`
}

func toEntryJSON(kind model.Kind, entry model.DisplayEntry, refreshAt time.Time) entryJSON {
	out := entryJSON{
		Kind:        kind,
		GeneratedAt: entry.GeneratedAt,
		Progress: progressJSON{
			Streak:            entry.Snapshot.Streak,
			TodayPoints:       entry.Snapshot.TodayPoints,
			TotalWordsLearned: entry.Snapshot.TotalWordsLearned,
			LessonsCompleted:  entry.Snapshot.LessonsCompleted,
		},
		ShowStreak: entry.Options.ShowStreak,
		ShowStats:  entry.Options.ShowStats,
	}
	if !refreshAt.IsZero() {
		out.RefreshAt = &refreshAt
	}
	if !entry.Snapshot.LastUpdate.IsZero() {
		ts := entry.Snapshot.LastUpdate
		out.Progress.LastUpdate = &ts
	}
	if w := entry.WordOfDay; w != nil {
		out.WordOfDay = &wordJSON{
			Word:          w.Word,
			Definition:    w.Definition,
			Example:       w.Example,
			Pronunciation: w.Pronunciation,
		}
	}
	return out
}

// writeEntry prints text on a terminal and one JSON object per line otherwise.
func writeEntry(w io.Writer, kind model.Kind, entry model.DisplayEntry, refreshAt time.Time, forceJSON bool) error {
	if forceJSON || !isTerminal(w) {
		data, err := json.Marshal(toEntryJSON(kind, entry, refreshAt))
		if err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err := io.WriteString(w, formatEntry(kind, entry))
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func formatEntry(kind model.Kind, entry model.DisplayEntry) string {
	var b strings.Builder
	switch kind {
	case model.KindWordOfDay:
		w := entry.WordOfDay
		if w == nil {
			b.WriteString("No word of the day yet\n")
			break
		}
		fmt.Fprintf(&b, "%s  %s\n", w.Word, w.Pronunciation)
		fmt.Fprintf(&b, "  %s\n", w.Definition)
		if w.Example != "" {
			fmt.Fprintf(&b, "  %q\n", w.Example)
		}
	default:
		snap := entry.Snapshot
		if entry.Options.ShowStreak {
			fmt.Fprintf(&b, "Streak         %d days\n", snap.Streak)
		}
		if entry.Options.ShowStats {
			fmt.Fprintf(&b, "Today          %d pts\n", snap.TodayPoints)
			fmt.Fprintf(&b, "Words learned  %d\n", snap.TotalWordsLearned)
			fmt.Fprintf(&b, "Lessons        %d\n", snap.LessonsCompleted)
		}
		if !snap.LastUpdate.IsZero() {
			fmt.Fprintf(&b, "Updated        %s\n", snap.LastUpdate.Local().Format(time.DateTime))
		}
	}
	return b.String()
}
