package sheet

import (
	"fmt"
	"strings"
	"time"
)

// PeriodPlaceholder is replaced by MM.YYYY in per-month header templates
const PeriodPlaceholder = "{period}"

// DefaultScanRows is how many rows from the top are searched for the header row
const DefaultScanRows = 50

// Layout names every header the engine reads or writes
type Layout struct {
	NewSchedule      string `mapstructure:"new_schedule"`
	NewScheduleStart string `mapstructure:"new_schedule_start"`
	OldSchedule      string `mapstructure:"old_schedule"`
	OldCount         string `mapstructure:"old_count"`
	NewCount         string `mapstructure:"new_count"`
	Due              string `mapstructure:"due"`
	TotalDue         string `mapstructure:"total_due"`
	ScanRows         int    `mapstructure:"scan_rows"`
}

// DefaultLayout returns the headers used by the schedule-change register
func DefaultLayout() Layout {
	return Layout{
		NewSchedule:      "ESCALA NOVA",
		NewScheduleStart: "INÍCIO ESCALA NOVA",
		OldSchedule:      "ESCALA {period}",
		OldCount:         "DIAS ÚTEIS {period} (ESCALA ANTIGA)",
		NewCount:         "DIAS ÚTEIS {period} (ESCALA NOVA)",
		Due:              "DIAS DEVIDOS {period}",
		TotalDue:         "TOTAL DIAS DEVIDOS",
		ScanRows:         DefaultScanRows,
	}
}

// Validate checks that sentinels are set and templates carry the period placeholder
func (l Layout) Validate() error {
	if Normalize(l.NewSchedule) == "" {
		return fmt.Errorf("new_schedule header is required")
	}
	if Normalize(l.NewScheduleStart) == "" {
		return fmt.Errorf("new_schedule_start header is required")
	}
	if Normalize(l.NewSchedule) == Normalize(l.NewScheduleStart) {
		return fmt.Errorf("new_schedule and new_schedule_start headers must differ")
	}

	templates := map[string]string{
		"old_schedule": l.OldSchedule,
		"old_count":    l.OldCount,
		"new_count":    l.NewCount,
		"due":          l.Due,
	}
	for key, tpl := range templates {
		if !strings.Contains(tpl, PeriodPlaceholder) {
			return fmt.Errorf("%s header must contain %s, got %q", key, PeriodPlaceholder, tpl)
		}
	}

	if l.ScanRows < 0 {
		return fmt.Errorf("scan_rows must not be negative")
	}
	return nil
}

// Render fills a template with the month's MM.YYYY
func Render(template string, month TargetMonth) string {
	return strings.ReplaceAll(template, PeriodPlaceholder, month.String())
}

// monthMarkers returns the normalized text before {period} of the output
// templates; a header containing a marker and a MM.YYYY token names a target month.
func (l Layout) monthMarkers() []string {
	seen := make(map[string]struct{})
	var markers []string
	for _, tpl := range []string{l.OldCount, l.NewCount, l.Due} {
		prefix, _, found := strings.Cut(tpl, PeriodPlaceholder)
		if !found {
			continue
		}
		marker := Normalize(prefix)
		if marker == "" {
			continue
		}
		if _, ok := seen[marker]; ok {
			continue
		}
		seen[marker] = struct{}{}
		markers = append(markers, marker)
	}
	return markers
}

func (l Layout) scanRows() int {
	if l.ScanRows <= 0 {
		return DefaultScanRows
	}
	return l.ScanRows
}

// TargetMonth is a (year, month) pair selected by existing output headers
type TargetMonth struct {
	Year  int
	Month time.Month
}

// String renders MM.YYYY
func (m TargetMonth) String() string {
	return fmt.Sprintf("%02d.%d", int(m.Month), m.Year)
}

// Before reports chronological order
func (m TargetMonth) Before(other TargetMonth) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}
