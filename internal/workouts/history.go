package workouts

import "time"

// MonthGroup is one month bucket of the session history.
type MonthGroup struct {
	Key      string    `json:"key"`   // yyyy-MM
	Label    string    `json:"label"` // e.g. "February 2026"
	Sessions []Session `json:"sessions"`
}

// GroupByMonth buckets sessions by calendar month. The input is expected
// date-descending and the fold preserves it: buckets come out in first
// encounter order, sessions keep their input order within a bucket.
func GroupByMonth(sessions []Session) []MonthGroup {
	var groups []MonthGroup
	keyToIndex := make(map[string]int)

	for _, session := range sessions {
		key := session.Date.Format("2006-01")
		idx, ok := keyToIndex[key]
		if !ok {
			idx = len(groups)
			keyToIndex[key] = idx
			groups = append(groups, MonthGroup{
				Key:   key,
				Label: session.Date.Format("January 2006"),
			})
		}
		groups[idx].Sessions = append(groups[idx].Sessions, session)
	}

	return groups
}

// Streak counts consecutive logging days, walking back from today.
// Dates must be distinct calendar days, most recent first. A session
// logged yesterday still counts even when today has none yet, the walk
// tolerates a one-day gap from now.
func Streak(dates []time.Time, today time.Time) int {
	cursor := truncateToDay(today)
	streak := 0
	for _, date := range dates {
		date = truncateToDay(date)
		diffDays := int(cursor.Sub(date).Hours() / 24)
		if diffDays < 0 || diffDays > 1 {
			break
		}
		streak++
		cursor = date
	}
	return streak
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
