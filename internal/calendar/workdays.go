package calendar

import (
	"fmt"
	"time"

	"github.com/username/escala-updater/internal/schedule"
	"github.com/username/escala-updater/pkg/dateutil"
)

// BuildHolidaySet merges the provider's holidays for years with extra dates.
// With no years the provider is not called and the result is just the extras.
func BuildHolidaySet(provider Provider, years []int, extra HolidaySet) (HolidaySet, error) {
	out := make(HolidaySet)

	if len(years) > 0 && provider != nil {
		holidays, err := provider.Holidays(years)
		if err != nil {
			return nil, fmt.Errorf("failed to load holidays: %w", err)
		}
		for _, h := range holidays {
			out.Add(h.Date, h.Name)
		}
	}

	for k, name := range extra {
		if _, ok := out[k]; ok {
			continue
		}
		out[k] = name
	}

	return out, nil
}

// CountWorkdays counts the dates in [start, end] whose weekday is in days and
// which are not holidays. start after end yields 0.
func CountWorkdays(start, end time.Time, days schedule.WeekdaySet, holidays HolidaySet) int {
	start, end = dateutil.DateOf(start), dateutil.DateOf(end)
	if start.After(end) || days.IsEmpty() {
		return 0
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsWorkday(d, days, holidays) {
			count++
		}
	}
	return count
}

// IsWorkday reports whether date is a working day for days and holidays
func IsWorkday(date time.Time, days schedule.WeekdaySet, holidays HolidaySet) bool {
	return days.Contains(date.Weekday()) && !holidays.Contains(date)
}
