// Package calendar computes scheduling windows over business days.
//
// All dates are local, midnight-anchored calendar days. Saturdays and Sundays
// never appear in generated day sequences.
package calendar

import (
	"iter"
	"time"
)

// ViewType selects the size of a calendar window.
type ViewType string

const (
	ViewDay    ViewType = "day"
	ViewWeek   ViewType = "week"
	ViewBiWeek ViewType = "biweek"
	ViewMonth  ViewType = "month"
)

// ParseViewType maps a request string onto a ViewType, defaulting to week.
func ParseViewType(s string) ViewType {
	switch s {
	case string(ViewDay), string(ViewWeek), string(ViewBiWeek), string(ViewMonth):
		return ViewType(s)
	default:
		return ViewWeek
	}
}

// Day is one business day of a calendar window.
type Day struct {
	Date    time.Time `json:"date"`
	DayName string    `json:"day_name"`
	IsToday bool      `json:"is_today"`
}

// Truncate drops the time-of-day component, anchoring t to midnight.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartOf computes the start date of a window anchored at anchor.
//
// Day, Week and BiWeek windows slide: the anchor itself is the start, even on
// a weekend, unless skipWeekendStart is set, in which case a weekend anchor
// advances to the following Monday. Month windows always start on the first
// of the anchor's month.
func StartOf(anchor time.Time, view ViewType, skipWeekendStart bool) time.Time {
	anchor = Truncate(anchor)

	if view == ViewMonth {
		return time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	}

	if skipWeekendStart {
		for IsWeekend(anchor) {
			anchor = anchor.AddDate(0, 0, 1)
		}
	}
	return anchor
}

// EndOf computes the inclusive end date of a window beginning at start.
//
// Week spans 5 business days and BiWeek 10, counting start itself when it is
// a weekday. Month ends on the last calendar day of the month with no weekday
// adjustment.
func EndOf(start time.Time, view ViewType) time.Time {
	start = Truncate(start)

	switch view {
	case ViewDay:
		return start
	case ViewWeek:
		return AddBusinessDays(start, 5)
	case ViewBiWeek:
		return AddBusinessDays(start, 10)
	case ViewMonth:
		firstOfNext := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).AddDate(0, 1, 0)
		return firstOfNext.AddDate(0, 0, -1)
	default:
		return start
	}
}

// AddBusinessDays returns the n-th business day counting forward from start,
// inclusive of start when start is a weekday. n must be positive.
func AddBusinessDays(start time.Time, n int) time.Time {
	d := Truncate(start)
	counted := 0
	for {
		if !IsWeekend(d) {
			counted++
			if counted == n {
				return d
			}
		}
		d = d.AddDate(0, 0, 1)
	}
}

// BusinessDaysBetween yields one Day per weekday in [start, end]. The sequence
// is lazy and restartable; today controls the IsToday flag.
func BusinessDaysBetween(start, end, today time.Time) iter.Seq[Day] {
	start = Truncate(start)
	end = Truncate(end)
	today = Truncate(today)

	return func(yield func(Day) bool) {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if IsWeekend(d) {
				continue
			}
			day := Day{
				Date:    d,
				DayName: d.Weekday().String(),
				IsToday: d.Equal(today),
			}
			if !yield(day) {
				return
			}
		}
	}
}

// Window bundles the resolved range of a calendar view.
type Window struct {
	Start time.Time
	End   time.Time
	View  ViewType
}

// WindowFor resolves an (anchor, view) pair into a concrete window.
func WindowFor(anchor time.Time, view ViewType, skipWeekendStart bool) Window {
	start := StartOf(anchor, view, skipWeekendStart)
	return Window{
		Start: start,
		End:   EndOf(start, view),
		View:  view,
	}
}

// Days collects the window's business days into a slice.
func (w Window) Days(today time.Time) []Day {
	var days []Day
	for d := range BusinessDaysBetween(w.Start, w.End, today) {
		days = append(days, d)
	}
	return days
}
