package engine

import (
	"strings"
	"time"

	"ecoquest/internal/storage"
)

const dayKeyLayout = "2006-01-02"

// Streak returns the number of consecutive local days with at least one completion,
// ending today, or yesterday when today has none yet. Entries whose timestamp cannot
// be read are skipped.
func Streak(logs []storage.MissionLog, now time.Time) (streak int) {
	defer func() {
		if r := recover(); r != nil {
			streak = 0
		}
	}()

	if len(logs) == 0 {
		return 0
	}

	days := make(map[string]bool, len(logs))
	for _, l := range logs {
		if key, ok := DayKey(l.CompletedAt, now.Location()); ok {
			days[key] = true
		}
	}

	cursor := now
	if !days[cursor.Format(dayKeyLayout)] {
		cursor = cursor.AddDate(0, 0, -1)
		if !days[cursor.Format(dayKeyLayout)] {
			return 0
		}
	}

	for days[cursor.Format(dayKeyLayout)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// DayKey returns the YYYY-MM-DD bucket of an RFC 3339 timestamp in loc.
// A bare date is accepted as-is.
func DayKey(completedAt string, loc *time.Location) (string, bool) {
	s := strings.TrimSpace(completedAt)
	if s == "" {
		return "", false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc).Format(dayKeyLayout), true
	}
	if len(s) >= len(dayKeyLayout) {
		if t, err := time.ParseInLocation(dayKeyLayout, s[:len(dayKeyLayout)], loc); err == nil {
			return t.Format(dayKeyLayout), true
		}
	}
	return "", false
}

// CompletedTitlesOn returns the titles of entries completed on now's local day.
func CompletedTitlesOn(logs []storage.MissionLog, now time.Time) []string {
	today := now.Format(dayKeyLayout)
	var out []string
	for _, l := range logs {
		if key, ok := DayKey(l.CompletedAt, now.Location()); ok && key == today {
			out = append(out, l.Title)
		}
	}
	return out
}
