package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrEmptyDate is returned by ParseDayFirst for blank input
var ErrEmptyDate = errors.New("empty date string")

// DateOf returns the calendar date of t as midnight UTC.
// All day arithmetic in this module is done on such values.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a midnight UTC date
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and the last day of the month
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	return Date(year, month, 1), Date(year, month, DaysInMonth(year, month))
}

// MonthStartFromDay places day inside the given month.
// When the month has no such day the result is the day after the month's
// last day, so any range [result, monthEnd] is empty.
func MonthStartFromDay(year int, month time.Month, day int) time.Time {
	last := DaysInMonth(year, month)
	if day > last {
		return Date(year, month, last).AddDate(0, 0, 1)
	}
	if day < 1 {
		day = 1
	}
	return Date(year, month, day)
}

// MaxDate returns the later of two dates
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of two dates
func MinDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// Today returns today's date (midnight UTC)
func Today() time.Time {
	return DateOf(time.Now())
}

// dayFirstFormats are tried before falling back to dateparse.
// Order matters: day-before-month wins for ambiguous numeric dates.
var dayFirstFormats = []string{
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
	"02.01.2006",
	"2.1.2006",
	"02.01.06",
	"2.1.06",
	"02-01-2006",
	"02-01-06",
	"02-01-2006 15:04",
	"02-01-2006 15:04:05",
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
}

// ParseDayFirst parses a date string with day-before-month precedence
// (25/01/2026, 25.01.26, 2026-01-25, "25 Jan 2026", ...).
// A bare day number ("15") is that day of the current month.
// The result is the calendar date as midnight UTC.
func ParseDayFirst(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}

	if len(s) <= 2 {
		if day, err := strconv.Atoi(s); err == nil {
			return dayOfCurrentMonth(s, day)
		}
	}

	for _, format := range dayFirstFormats {
		if t, err := time.Parse(format, s); err == nil {
			return DateOf(t), nil
		}
	}

	t, err := dateparse.ParseIn(s, time.UTC,
		dateparse.PreferMonthFirst(false),
		dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}

	return DateOf(t), nil
}

func dayOfCurrentMonth(s string, day int) (time.Time, error) {
	today := Today()
	if day < 1 || day > DaysInMonth(today.Year(), today.Month()) {
		return time.Time{}, fmt.Errorf("failed to parse date %q: day out of range for %s", s, today.Format("01/2006"))
	}
	return Date(today.Year(), today.Month(), day), nil
}
