package query

import (
	"strings"
	"time"
)

// window is a resolved, inclusive time range. Nil bounds are open.
type window struct {
	from *time.Time
	to   *time.Time
}

func (w window) contains(t time.Time) bool {
	if w.from != nil && t.Before(*w.from) {
		return false
	}
	if w.to != nil && t.After(*w.to) {
		return false
	}
	return true
}

// resolve turns a DateFilter into a window in loc. The bool is false when
// the filter imposes no restriction.
func (d DateFilter) resolve(loc *time.Location) (window, bool) {
	if day, ok := parseDay(d.Day, loc); ok {
		start := startOfDay(day)
		end := endOfDay(day)
		return window{from: &start, to: &end}, true
	}

	var w window
	if from, ok := parseDay(d.From, loc); ok {
		start := startOfDay(from)
		w.from = &start
	}
	if to, ok := parseDay(d.To, loc); ok {
		end := endOfDay(to)
		w.to = &end
	}
	return w, w.from != nil || w.to != nil
}

func parseDay(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}
