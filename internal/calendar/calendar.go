package calendar

import (
	"sort"
	"time"
)

// Holiday is a single named non-working date
type Holiday struct {
	Date time.Time // midnight UTC
	Name string
}

// Provider returns the national holidays of the given years
type Provider interface {
	// Holidays returns every holiday falling in any of the years, sorted by date
	Holidays(years []int) ([]Holiday, error)
}

// day is the comparable map key used by HolidaySet
type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) day {
	y, m, d := t.Date()
	return day{year: y, month: m, day: d}
}

func (d day) toTime() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// HolidaySet is a set of calendar dates with optional names.
// The zero value is an empty set that must be created with make or
// NewHolidaySet before Add.
type HolidaySet map[day]string

// NewHolidaySet creates a set from holidays
func NewHolidaySet(holidays ...Holiday) HolidaySet {
	s := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		s.Add(h.Date, h.Name)
	}
	return s
}

// Add inserts the calendar date of t. An existing name is kept when name is empty.
func (s HolidaySet) Add(t time.Time, name string) {
	key := dayOf(t)
	if _, ok := s[key]; ok && name == "" {
		return
	}
	s[key] = name
}

// Contains reports whether the calendar date of t is in the set
func (s HolidaySet) Contains(t time.Time) bool {
	_, ok := s[dayOf(t)]
	return ok
}

// Name returns the holiday name for t, or "" if t is not in the set
func (s HolidaySet) Name(t time.Time) string {
	return s[dayOf(t)]
}

// Len returns the number of dates in the set
func (s HolidaySet) Len() int {
	return len(s)
}

// Union returns a new set with the dates of s and other.
// Names from s win on conflicting dates.
func (s HolidaySet) Union(other HolidaySet) HolidaySet {
	out := make(HolidaySet, len(s)+len(other))
	for k, v := range other {
		out[k] = v
	}
	for k, v := range s {
		if v == "" {
			if _, ok := out[k]; ok {
				continue
			}
		}
		out[k] = v
	}
	return out
}

// Years returns the distinct years touched by the set, ascending
func (s HolidaySet) Years() []int {
	seen := make(map[int]struct{})
	for k := range s {
		seen[k.year] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Holidays returns the set contents sorted by date
func (s HolidaySet) Holidays() []Holiday {
	out := make([]Holiday, 0, len(s))
	for k, name := range s {
		out = append(out, Holiday{Date: k.toTime(), Name: name})
	}
	sortHolidays(out)
	return out
}

// InRange returns the holidays in [from, to] sorted by date
func (s HolidaySet) InRange(from, to time.Time) []Holiday {
	lo, hi := dayOf(from).toTime(), dayOf(to).toTime()
	out := []Holiday{}
	for k, name := range s {
		t := k.toTime()
		if t.Before(lo) || t.After(hi) {
			continue
		}
		out = append(out, Holiday{Date: t, Name: name})
	}
	sortHolidays(out)
	return out
}

func sortHolidays(hs []Holiday) {
	sort.Slice(hs, func(i, j int) bool {
		return hs[i].Date.Before(hs[j].Date)
	})
}
