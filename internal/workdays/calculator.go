// Package workdays is the single-month, single-employee working-day
// calculator: a month, the weekdays off and an optional entry/exit window.
package workdays

import (
	"fmt"
	"time"

	"github.com/username/escala-updater/internal/calendar"
	"github.com/username/escala-updater/internal/schedule"
	"github.com/username/escala-updater/pkg/dateutil"
	"go.uber.org/zap"
)

// Input is one calculation request
type Input struct {
	Year    int
	Month   time.Month
	DaysOff [7]bool // Mon..Sun
	Entry   *time.Time
	Exit    *time.Time
	Extra   calendar.HolidaySet
}

// HolidayHit is a holiday falling on a working day inside the range
type HolidayHit struct {
	Day  int
	Name string
}

// Result is the outcome of a calculation
type Result struct {
	Year     int
	Month    time.Month
	WorkDays int
	Start    time.Time
	End      time.Time
	Days     schedule.WeekdaySet
	Holidays []HolidayHit
}

// Empty reports whether the entry/exit window leaves no day in the month
func (r *Result) Empty() bool {
	return r.Start.After(r.End)
}

// Calculator counts working days of a single month
type Calculator struct {
	provider calendar.Provider
	logger   *zap.Logger
}

// NewCalculator creates a new calculator
func NewCalculator(provider calendar.Provider, logger *zap.Logger) *Calculator {
	return &Calculator{
		provider: provider,
		logger:   logger,
	}
}

// WorkingDays returns the working weekdays for a days-off mask
func WorkingDays(daysOff [7]bool) schedule.WeekdaySet {
	set := schedule.EmptySet
	for i, off := range daysOff {
		if !off {
			set = set.With(i)
		}
	}
	return set
}

// Calculate counts the working days of the month clamped to [Entry, Exit]
func (c *Calculator) Calculate(in Input) (*Result, error) {
	if in.Month < time.January || in.Month > time.December {
		return nil, fmt.Errorf("invalid month: %d", in.Month)
	}
	if in.Year < 1 {
		return nil, fmt.Errorf("invalid year: %d", in.Year)
	}

	start, end := dateutil.MonthBounds(in.Year, in.Month)
	if in.Entry != nil {
		start = dateutil.MaxDate(start, dateutil.DateOf(*in.Entry))
	}
	if in.Exit != nil {
		end = dateutil.MinDate(end, dateutil.DateOf(*in.Exit))
	}

	result := &Result{
		Year:  in.Year,
		Month: in.Month,
		Start: start,
		End:   end,
		Days:  WorkingDays(in.DaysOff),
	}

	if result.Empty() {
		c.logger.Info("Entry/exit window leaves no day in month",
			zap.Int("year", in.Year),
			zap.Int("month", int(in.Month)))
		return result, nil
	}

	all, err := calendar.BuildHolidaySet(c.provider, []int{in.Year}, in.Extra)
	if err != nil {
		return nil, fmt.Errorf("failed to build holiday set: %w", err)
	}
	// extra holidays may name observances too
	holidays := all.WithoutObservances()

	result.WorkDays = calendar.CountWorkdays(start, end, result.Days, holidays)
	for _, h := range holidays.InRange(start, end) {
		if !result.Days.Contains(h.Date.Weekday()) {
			continue
		}
		result.Holidays = append(result.Holidays, HolidayHit{Day: h.Date.Day(), Name: h.Name})
	}

	c.logger.Debug("Working days calculated",
		zap.Int("year", in.Year),
		zap.Int("month", int(in.Month)),
		zap.String("days", result.Days.String()),
		zap.Int("work_days", result.WorkDays),
		zap.Int("holidays", len(result.Holidays)))

	return result, nil
}
