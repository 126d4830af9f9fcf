package reconcile

import (
	"fmt"
	"strings"

	"github.com/username/escala-updater/internal/sheet"
)

// Level is the severity of a report entry
type Level string

const (
	LevelError Level = "ERRO"
	LevelWarn  Level = "AVISO"
	LevelInfo  Level = "INFO"
	LevelOK    Level = "OK"
)

// Entry is one user-facing line of the run log
type Entry struct {
	Level   Level
	Sheet   string // empty for run-level entries
	Message string
}

// String renders the entry as "[LEVEL] Aba 'name': message"
func (e Entry) String() string {
	if e.Sheet == "" {
		return fmt.Sprintf("[%s] %s", e.Level, e.Message)
	}
	return fmt.Sprintf("[%s] Aba '%s': %s", e.Level, e.Sheet, e.Message)
}

// SheetReport is the outcome of one sheet
type SheetReport struct {
	Name          string
	Updated       bool
	Months        []sheet.TargetMonth
	RowsProcessed int
	RowErrors     int
	MonthErrors   int // month cells skipped because the old schedule did not parse
	WriteErrors   int // output cells that could not be written
	Entries       []Entry
}

func (r *SheetReport) add(level Level, format string, args ...any) {
	r.Entries = append(r.Entries, Entry{
		Level:   level,
		Sheet:   r.Name,
		Message: fmt.Sprintf(format, args...),
	})
}

// Failed reports whether the sheet was skipped by a sheet-level error
func (r *SheetReport) Failed() bool {
	for _, e := range r.Entries {
		if e.Level == LevelError {
			return true
		}
	}
	return false
}

// Report is the outcome of a whole run
type Report struct {
	Sheets  []*SheetReport
	Entries []Entry // run-level entries
}

// Totals aggregates the sheet reports
type Totals struct {
	SheetsUpdated int
	RowsProcessed int
	RowErrors     int
	MonthErrors   int
	WriteErrors   int
}

// Totals sums the per-sheet counters
func (r *Report) Totals() Totals {
	var t Totals
	for _, s := range r.Sheets {
		if s.Updated {
			t.SheetsUpdated++
		}
		t.RowsProcessed += s.RowsProcessed
		t.RowErrors += s.RowErrors
		t.MonthErrors += s.MonthErrors
		t.WriteErrors += s.WriteErrors
	}
	return t
}

// UpdatedAny reports whether at least one sheet was written
func (r *Report) UpdatedAny() bool {
	return r.Totals().SheetsUpdated > 0
}

// Lines returns every entry in run order: sheet entries first, run-level last
func (r *Report) Lines() []Entry {
	var out []Entry
	for _, s := range r.Sheets {
		out = append(out, s.Entries...)
	}
	return append(out, r.Entries...)
}

// String renders the run log, one entry per line
func (r *Report) String() string {
	var b strings.Builder
	for _, e := range r.Lines() {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// HasLevel reports whether any entry has the given level
func (r *Report) HasLevel(level Level) bool {
	for _, e := range r.Lines() {
		if e.Level == level {
			return true
		}
	}
	return false
}
