// Package schedule turns free-text weekly schedule descriptions
// ("SEG A SEX", "FOLGA TER E DOM", "SEG QUA SEX") into weekday sets.
package schedule

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrUnparseable is returned when a schedule text has no weekday token
var ErrUnparseable = errors.New("no weekday token found in schedule text")

// Weekday indices, Monday first
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdaySet is a set of weekday indices (Monday=0 ... Sunday=6) stored as a bitmask
type WeekdaySet uint8

const (
	// EmptySet has no working days
	EmptySet WeekdaySet = 0
	// FullWeek has every day of the week
	FullWeek WeekdaySet = 1<<7 - 1
)

// NewWeekdaySet builds a set from weekday indices; out of range indices are ignored
func NewWeekdaySet(days ...int) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// Range returns the closed interval [start, end], wrapping across Sunday
// when start > end.
func Range(start, end int) WeekdaySet {
	var s WeekdaySet
	if start <= end {
		for d := start; d <= end; d++ {
			s = s.With(d)
		}
		return s
	}
	for d := start; d <= Sunday; d++ {
		s = s.With(d)
	}
	for d := Monday; d <= end; d++ {
		s = s.With(d)
	}
	return s
}

// With returns a copy of s with day added
func (s WeekdaySet) With(day int) WeekdaySet {
	if day < Monday || day > Sunday {
		return s
	}
	return s | 1<<uint(day)
}

// Has reports whether the weekday index is in the set
func (s WeekdaySet) Has(day int) bool {
	if day < Monday || day > Sunday {
		return false
	}
	return s&(1<<uint(day)) != 0
}

// Contains reports whether the Go weekday is in the set
func (s WeekdaySet) Contains(wd time.Weekday) bool {
	return s.Has(Index(wd))
}

// Complement returns every weekday not in s
func (s WeekdaySet) Complement() WeekdaySet {
	return FullWeek &^ s
}

// Len returns the number of days in the set
func (s WeekdaySet) Len() int {
	n := 0
	for d := Monday; d <= Sunday; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the set has no days
func (s WeekdaySet) IsEmpty() bool {
	return s&FullWeek == 0
}

// Days returns the weekday indices in ascending order
func (s WeekdaySet) Days() []int {
	days := make([]int, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// String renders the set with the Portuguese abbreviations, e.g. "SEG TER QUA"
func (s WeekdaySet) String() string {
	if s.IsEmpty() {
		return "-"
	}
	names := make([]string, 0, 7)
	for _, d := range s.Days() {
		names = append(names, dayNames[d])
	}
	return strings.Join(names, " ")
}

// Index converts a Go weekday (Sunday=0) to a Monday-first index
func Index(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

var dayNames = [7]string{"SEG", "TER", "QUA", "QUI", "SEX", "SAB", "DOM"}

var tokenIndex = map[string]int{
	"SEG": Monday,
	"TER": Tuesday,
	"QUA": Wednesday,
	"QUI": Thursday,
	"SEX": Friday,
	"SAB": Saturday,
	"SÁB": Saturday,
	"DOM": Sunday,
}

var tokenRe = regexp.MustCompile(`SEG|TER|QUA|QUI|SEX|SAB|SÁB|DOM`)

const (
	dayOffKeyword  = "FOLGA"
	rangeConnector = " A "
)

// Tokens returns the weekday indices of every token in text, in order of appearance.
// Matching is case-insensitive and substring based, so "SEXTA" counts as SEX.
func Tokens(text string) []int {
	matches := tokenRe.FindAllString(strings.ToUpper(text), -1)
	days := make([]int, 0, len(matches))
	for _, m := range matches {
		days = append(days, tokenIndex[m])
	}
	return days
}

// Parse converts a schedule description into the set of working weekdays.
//
// Rules, first match wins:
//   - no weekday token: ErrUnparseable
//   - text contains FOLGA: the tokens are days off, the rest of the week works
//   - text contains " A " and two or more tokens: range from the first to the
//     second token, wrapping across Sunday (SEX A TER = SEX SAB DOM SEG TER)
//   - otherwise every token is a working day
func Parse(text string) (WeekdaySet, error) {
	upper := strings.ToUpper(text)

	days := Tokens(upper)
	if len(days) == 0 {
		return EmptySet, ErrUnparseable
	}

	if strings.Contains(upper, dayOffKeyword) {
		return NewWeekdaySet(days...).Complement(), nil
	}

	if strings.Contains(upper, rangeConnector) && len(days) >= 2 {
		return Range(days[0], days[1]), nil
	}

	set := NewWeekdaySet(days...)
	if set.IsEmpty() {
		return EmptySet, ErrUnparseable
	}
	return set, nil
}
