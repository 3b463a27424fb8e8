package model

import "time"

// DayLayout formats a calendar day for storage keys and directory names
const DayLayout = "2006-01-02"

// Day identifies one calendar day of puzzles, e.g. "2024-01-31"
type Day string

// DayOf returns the calendar day of t in t's location
func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}
