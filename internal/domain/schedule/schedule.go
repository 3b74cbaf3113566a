// Package schedule computes expected rent dates and check days for
// rental properties. It is pure date arithmetic with no I/O, used both
// to select properties due for a check and to project the upcoming
// check schedule.
package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/rentcheck/rentcheck-backend/internal/domain/rental"
)

var weekdayNumbers = map[string]int{
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
	"sunday":    7,
}

// WeekdayName returns the lowercase English weekday name for t.
func WeekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// DueDayNumber parses a property's due-day field into a number.
// Weekday names map to 1 (monday) through 7 (sunday); numeric strings
// parse directly. Malformed values fall back to 1 rather than failing,
// so a bad row degrades to "first day" instead of breaking a run.
func DueDayNumber(dueDay string) int {
	s := strings.ToLower(strings.TrimSpace(dueDay))
	if n, ok := weekdayNumbers[s]; ok {
		return n
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 {
		return n
	}
	return 1
}

// ExpectedRentDate returns the most recent date on or before ref on
// which rent was expected for the property.
//
// Monthly properties use the due day clamped to 28 so short months
// still resolve; if ref falls before the due day the previous month is
// used, rolling the year back across January. Weekly properties walk
// back to the most recent occurrence of the due weekday. Fortnightly
// uses the same walk-back modulo 14, which only approximates "every 14
// days" without an anchor date. An unrecognized frequency returns ref
// unchanged.
func ExpectedRentDate(p *rental.Property, ref time.Time) time.Time {
	dueDay := DueDayNumber(p.DueDay)

	switch p.Frequency {
	case rental.FrequencyMonthly:
		day := dueDay
		if day > 28 {
			day = 28
		}
		expected := time.Date(ref.Year(), ref.Month(), day, 0, 0, 0, 0, ref.Location())
		if ref.Day() < dueDay {
			if expected.Month() == time.January {
				expected = time.Date(expected.Year()-1, time.December, day, 0, 0, 0, 0, ref.Location())
			} else {
				expected = time.Date(expected.Year(), expected.Month()-1, day, 0, 0, 0, 0, ref.Location())
			}
		}
		return expected

	case rental.FrequencyWeekly:
		daysSince := mod(isoWeekday(ref)-(dueDay-1), 7)
		return truncateDay(ref).AddDate(0, 0, -daysSince)

	case rental.FrequencyFortnightly:
		daysSince := mod(isoWeekday(ref)-(dueDay-1), 14)
		return truncateDay(ref).AddDate(0, 0, -daysSince)
	}

	return ref
}

// IsCheckDay reports whether dueDate was a rent due date for the
// property. dueWeekday must be the lowercase weekday name of dueDate;
// callers computing it once per scan day avoid re-deriving it per
// property.
//
// Weekly properties match on the weekday name. Fortnightly additionally
// requires an even ISO week number, a parity heuristic that stands in
// for "every other week" and can misfire where ISO numbering resets at
// year boundaries. Monthly matches on the day of month, with
// non-numeric due days treated as day 1.
func IsCheckDay(p *rental.Property, dueDate time.Time, dueWeekday string) bool {
	switch p.Frequency {
	case rental.FrequencyWeekly:
		return strings.EqualFold(p.DueDay, dueWeekday)

	case rental.FrequencyFortnightly:
		if !strings.EqualFold(p.DueDay, dueWeekday) {
			return false
		}
		_, week := dueDate.ISOWeek()
		return week%2 == 0

	case rental.FrequencyMonthly:
		day := 1
		if n, err := strconv.Atoi(strings.TrimSpace(p.DueDay)); err == nil && n >= 1 {
			day = n
		}
		return dueDate.Day() == day
	}

	return false
}

// isoWeekday returns the weekday as monday=0 .. sunday=6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// mod is a modulo that is never negative.
func mod(a, n int) int {
	return ((a % n) + n) % n
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
