// Package sheet defines the random-access cell grid the reconciliation engine
// works on, the typed cell value, and the header-row resolver.
package sheet

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/username/escala-updater/pkg/dateutil"
)

// ErrUnparseableDate is returned when a cell cannot be read as a date
var ErrUnparseableDate = errors.New("cell is not a date")

// Kind is the type of a cell value
type Kind int

const (
	KindBlank Kind = iota
	KindText
	KindNumber
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	}
	return "unknown"
}

// Value is a typed cell value
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Time   time.Time
}

// Blank is the empty cell
var Blank = Value{Kind: KindBlank}

// TextValue builds a text cell
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// NumberValue builds a numeric cell
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Number: n}
}

// DateValue builds a date/date-time cell
func DateValue(t time.Time) Value {
	return Value{Kind: KindDate, Time: t}
}

// IsBlank reports whether the cell is empty or holds only whitespace
func (v Value) IsBlank() bool {
	switch v.Kind {
	case KindBlank:
		return true
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	}
	return false
}

// String returns the cell as text
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindDate:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	}
	return ""
}

// ParseDate reads a cell as a calendar date (midnight UTC).
// Date cells return their date component directly; anything else is read as
// text with day-before-month precedence.
func ParseDate(v Value) (time.Time, error) {
	if v.IsBlank() {
		return time.Time{}, ErrUnparseableDate
	}
	if v.Kind == KindDate {
		return dateutil.DateOf(v.Time), nil
	}

	t, err := dateutil.ParseDayFirst(v.String())
	if err != nil {
		return time.Time{}, errors.Join(ErrUnparseableDate, err)
	}
	return t, nil
}

// Grid is a 1-based random-access cell store for one sheet
type Grid interface {
	// Name returns the sheet name
	Name() string
	// MaxRow returns the last populated row, 0 for an empty sheet
	MaxRow() int
	// MaxCol returns the last populated column, 0 for an empty sheet
	MaxCol() int
	// Cell returns the value at (row, col); out of range cells are Blank
	Cell(row, col int) Value
	// SetInt overwrites the value at (row, col) keeping its formatting
	SetInt(row, col int, value int) error
}
