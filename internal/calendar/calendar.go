// Package calendar implements working-day date arithmetic. Only weekends
// are non-working by default; a holiday-aware predicate can be injected
// by callers that have one.
package calendar

import "time"

// WorkdayFunc reports whether a date is a working day.
type WorkdayFunc func(time.Time) bool

// IsWeekday is the default predicate: everything except Saturday and Sunday.
func IsWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Date truncates t to midnight UTC so date comparisons are exact.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO calendar date (2006-01-02).
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// AddWorkingDays moves d forward by n working days (backward when n is
// negative), skipping non-working days in either direction. The walk is
// symmetric: AddWorkingDays(AddWorkingDays(d, n), -n) == d for n >= 0.
func AddWorkingDays(d time.Time, n int) time.Time {
	return AddWorkingDaysFunc(d, n, IsWeekday)
}

// AddWorkingDaysFunc is AddWorkingDays with an injected working-day predicate.
func AddWorkingDaysFunc(d time.Time, n int, isWorking WorkdayFunc) time.Time {
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	cur := Date(d)
	for n > 0 {
		cur = cur.AddDate(0, 0, step)
		if isWorking(cur) {
			n--
		}
	}
	return cur
}

// WorkingDaysBetween counts working days after start (exclusive) up to
// end (inclusive), walking forward. Returns a negative count when end
// precedes start.
func WorkingDaysBetween(start, end time.Time) int {
	return WorkingDaysBetweenFunc(start, end, IsWeekday)
}

// WorkingDaysBetweenFunc is WorkingDaysBetween with an injected predicate.
func WorkingDaysBetweenFunc(start, end time.Time, isWorking WorkdayFunc) int {
	s, e := Date(start), Date(end)
	if e.Equal(s) {
		return 0
	}
	sign := 1
	if e.Before(s) {
		s, e = e, s
		sign = -1
	}
	n := 0
	for cur := s.AddDate(0, 0, 1); !cur.After(e); cur = cur.AddDate(0, 0, 1) {
		if isWorking(cur) {
			n++
		}
	}
	return sign * n
}
