// Package engine implements the recurring budget period engine: calendar
// math, period generation, status reconciliation, budget transitions, orphan
// expense attachment, and the scheduler loop that drives them.
//
// All date arithmetic is done against an explicitly passed *time.Location
// (the user-configurable reporting timezone), never the host zone, so "local
// midnight" means the same thing regardless of where the process runs.
package engine

import (
	"time"

	"centsible/internal/models"
)

// Midnight returns t truncated to local midnight in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999 on t's date in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// PeriodStart returns the most recent date at or before ref whose weekday is
// startWeekday, at local midnight in loc. When ref itself falls on
// startWeekday the same date is returned, not the one a week earlier.
func PeriodStart(startWeekday time.Weekday, ref time.Time, loc *time.Location) time.Time {
	day := Midnight(ref, loc)
	back := (int(day.Weekday()) - int(startWeekday) + 7) % 7
	return day.AddDate(0, 0, -back)
}

// PeriodEnd returns the inclusive end of a period starting at start and
// spanning durationDays calendar days: 23:59:59.999 on the last day.
func PeriodEnd(start time.Time, durationDays int, loc *time.Location) time.Time {
	return EndOfDay(Midnight(start, loc).AddDate(0, 0, durationDays-1), loc)
}

// NextPeriodStart returns local midnight of the day after end.
func NextPeriodStart(end time.Time, loc *time.Location) time.Time {
	return Midnight(end, loc).AddDate(0, 0, 1)
}

// DatesOverlap reports whether the inclusive date ranges [aStart, aEnd] and
// [bStart, bEnd] intersect. Comparison is date-only: two ranges touch if they
// share any calendar date, regardless of time of day.
func DatesOverlap(aStart, aEnd, bStart, bEnd time.Time, loc *time.Location) bool {
	return !Midnight(aStart, loc).After(Midnight(bEnd, loc)) &&
		!Midnight(aEnd, loc).Before(Midnight(bStart, loc))
}

// ContainsDate reports whether t's calendar date falls within the inclusive
// range [start, end].
func ContainsDate(start, end, t time.Time, loc *time.Location) bool {
	d := Midnight(t, loc)
	return !d.Before(Midnight(start, loc)) && !d.After(Midnight(end, loc))
}

// StatusFor returns the lifecycle status of a period bounded by start and end
// as observed at now. This is the single source of truth for period status;
// the persisted column only ever mirrors it.
func StatusFor(start, end, now time.Time) models.PeriodStatus {
	switch {
	case now.Before(start):
		return models.PeriodStatusUpcoming
	case now.After(end):
		return models.PeriodStatusCompleted
	default:
		return models.PeriodStatusActive
	}
}
