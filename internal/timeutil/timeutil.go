// ABOUTME: Calendar period boundaries for counting recently published items
// ABOUTME: Periods are today, yesterday, week and month, relative to a given instant

package timeutil

import "time"

// Periods lists the supported period names, shortest first.
var Periods = []string{"today", "week", "month"}

// StartOfDay returns midnight of the day containing now, in now's location.
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfWeek returns midnight of the most recent Sunday.
func StartOfWeek(now time.Time) time.Time {
	today := StartOfDay(now)
	return today.AddDate(0, 0, -int(today.Weekday()))
}

// StartOfMonth returns midnight of the first day of now's month.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ParsePeriod returns the start of the named period containing now.
// Supported values: "today", "yesterday", "week", "month".
func ParsePeriod(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "today":
		return StartOfDay(now), true
	case "yesterday":
		return StartOfDay(now).AddDate(0, 0, -1), true
	case "week":
		return StartOfWeek(now), true
	case "month":
		return StartOfMonth(now), true
	default:
		return time.Time{}, false
	}
}
