package model

import "time"

// DateLayout is the compact YYYYMMDD form used by vendors and config.
const DateLayout = "20060102"

// ParseDate parses YYYYMMDD (or YYYY-MM-DD) into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	layout := DateLayout
	if len(s) == len("2006-01-02") {
		layout = "2006-01-02"
	}
	return time.ParseInLocation(layout, s, time.UTC)
}

// Day truncates t to UTC midnight of its calendar date.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds UTC midnight for the given calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
