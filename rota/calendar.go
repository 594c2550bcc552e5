// Package rota holds the Saturday shift rotation core: calendar arithmetic,
// the per-department rotation registry, cadence rules, and the repair engine
// that reconciles the persisted schedule with current staff and holidays.
package rota

import (
	"time"
)

// Day truncates t to midnight UTC. All dates in the store are normalized this
// way so equality comparisons work across drivers.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ComingSaturday returns the smallest Saturday on or after from. A Saturday
// maps to itself.
func ComingSaturday(from time.Time) time.Time {
	d := Day(from)
	offset := (int(time.Saturday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// LastSaturdayOfYear returns the largest Saturday on or before Dec 31 of year.
func LastSaturdayOfYear(year int) time.Time {
	d := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	back := (int(d.Weekday()) - int(time.Saturday) + 7) % 7
	return d.AddDate(0, 0, -back)
}

// FirstSaturdayOfYear returns the smallest Saturday on or after Jan 1 of year.
func FirstSaturdayOfYear(year int) time.Time {
	return ComingSaturday(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
}

// SaturdaysBetween steps by exactly 7 days from start through end inclusive.
// Empty if start is after end. start must itself be a Saturday.
func SaturdaysBetween(start, end time.Time) []time.Time {
	var sats []time.Time
	for d := Day(start); !d.After(Day(end)); d = d.AddDate(0, 0, 7) {
		sats = append(sats, d)
	}
	return sats
}

// WeekIndexWithinYear is the zero-based position of date among all Saturdays
// of year, counted from the first Saturday on or after Jan 1. Holidays are not
// subtracted: cadence phase must not shift when a holiday is added or removed
// elsewhere in the year.
func WeekIndexWithinYear(date time.Time, year int) int {
	first := FirstSaturdayOfYear(year)
	return int(Day(date).Sub(first).Hours() / (24 * 7))
}
