package sheet

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrHeaderNotFound is returned when no row in the scanned prefix carries both sentinel headers
var ErrHeaderNotFound = errors.New("header row not found")

var periodRe = regexp.MustCompile(`(\d{1,2})\.(\d{4})`)

// Normalize upper-cases header text and collapses whitespace
func Normalize(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// ColumnMap maps normalized header text to a 1-based column index.
// It only ever holds headers present in the header row.
type ColumnMap struct {
	index map[string]int
	order []string
}

func newColumnMap() ColumnMap {
	return ColumnMap{index: make(map[string]int)}
}

func (m *ColumnMap) set(name string, col int) {
	if _, ok := m.index[name]; !ok {
		m.order = append(m.order, name)
	}
	m.index[name] = col
}

// Lookup returns the column of a header; name is normalized first
func (m ColumnMap) Lookup(name string) (int, bool) {
	col, ok := m.index[Normalize(name)]
	return col, ok
}

// Len returns the number of headers
func (m ColumnMap) Len() int {
	return len(m.index)
}

// Names returns the normalized headers in the order they first appear
func (m ColumnMap) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Column is a resolved header; Index is 0 when the header does not exist
type Column struct {
	Name  string
	Index int
}

// Exists reports whether the header is present in the sheet
func (c Column) Exists() bool {
	return c.Index > 0
}

// Header is the detected header row of a sheet
type Header struct {
	Row     int
	Columns ColumnMap
	layout  Layout
}

// FindHeader scans the first rows of g, top-down, for the first row holding
// both sentinel headers, and maps every non-blank header of that row.
func FindHeader(g Grid, layout Layout) (*Header, error) {
	newSchedule := Normalize(layout.NewSchedule)
	newStart := Normalize(layout.NewScheduleStart)

	last := layout.scanRows()
	if g.MaxRow() < last {
		last = g.MaxRow()
	}

	for row := 1; row <= last; row++ {
		names := make([]string, g.MaxCol()+1)
		hasNew, hasStart := false, false
		for col := 1; col <= g.MaxCol(); col++ {
			v := g.Cell(row, col)
			if v.IsBlank() {
				continue
			}
			name := Normalize(v.String())
			names[col] = name
			hasNew = hasNew || name == newSchedule
			hasStart = hasStart || name == newStart
		}
		if !hasNew || !hasStart {
			continue
		}

		columns := newColumnMap()
		for col, name := range names {
			if name == "" {
				continue
			}
			columns.set(name, col)
		}
		return &Header{Row: row, Columns: columns, layout: layout}, nil
	}

	return nil, ErrHeaderNotFound
}

// Column resolves a header by exact (normalized) name without creating it
func (h *Header) Column(name string) Column {
	n := Normalize(name)
	col, _ := h.Columns.Lookup(n)
	return Column{Name: n, Index: col}
}

// NewSchedule returns the new-schedule sentinel column
func (h *Header) NewSchedule() Column {
	return h.Column(h.layout.NewSchedule)
}

// NewScheduleStart returns the new-schedule start date sentinel column
func (h *Header) NewScheduleStart() Column {
	return h.Column(h.layout.NewScheduleStart)
}

// TotalDue returns the optional sheet-wide total column
func (h *Header) TotalDue() Column {
	return h.Column(h.layout.TotalDue)
}

// TargetMonths returns the months named by existing output headers,
// deduplicated and sorted chronologically.
func (h *Header) TargetMonths() []TargetMonth {
	markers := h.layout.monthMarkers()
	seen := make(map[TargetMonth]struct{})
	var months []TargetMonth

	for _, name := range h.Columns.Names() {
		if !containsAny(name, markers) {
			continue
		}
		m, ok := ExtractMonth(name)
		if !ok {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}

	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})
	return months
}

// MonthColumns are the per-month columns of one target month
type MonthColumns struct {
	Month       TargetMonth
	OldSchedule Column
	OldCount    Column
	NewCount    Column
	Due         Column
}

// MonthColumns resolves the old-schedule and output headers of a month
func (h *Header) MonthColumns(m TargetMonth) MonthColumns {
	return MonthColumns{
		Month:       m,
		OldSchedule: h.Column(Render(h.layout.OldSchedule, m)),
		OldCount:    h.Column(Render(h.layout.OldCount, m)),
		NewCount:    h.Column(Render(h.layout.NewCount, m)),
		Due:         h.Column(Render(h.layout.Due, m)),
	}
}

// MissingOutputs lists the output headers of the month that do not exist
func (mc MonthColumns) MissingOutputs() []string {
	var missing []string
	for _, c := range []Column{mc.OldCount, mc.NewCount, mc.Due} {
		if !c.Exists() {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

// ExtractMonth finds the first valid MM.YYYY token in text
func ExtractMonth(text string) (TargetMonth, bool) {
	for _, m := range periodRe.FindAllStringSubmatch(text, -1) {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return TargetMonth{Year: year, Month: time.Month(month)}, true
		}
	}
	return TargetMonth{}, false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
