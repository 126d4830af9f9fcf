package workbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/escala-updater/internal/sheet"
	"github.com/xuri/excelize/v2"
)

// Grid is one sheet of a Workbook; it implements sheet.Grid
type Grid struct {
	file     *excelize.File
	name     string
	rows     [][]string // raw cell values, 0-based
	maxRow   int
	maxCol   int
	date1904 bool
	dateFmt  map[int]bool // style id → number format is a date
}

func loadGrid(f *excelize.File, name string, date1904 bool) (*Grid, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("get rows: %w", err)
	}

	g := &Grid{
		file:     f,
		name:     name,
		rows:     rows,
		date1904: date1904,
		dateFmt:  make(map[int]bool),
	}
	for r, row := range rows {
		for c := len(row) - 1; c >= 0; c-- {
			if row[c] == "" {
				continue
			}
			g.maxRow = r + 1
			if c+1 > g.maxCol {
				g.maxCol = c + 1
			}
			break
		}
	}
	return g, nil
}

// Name returns the sheet name
func (g *Grid) Name() string {
	return g.name
}

// MaxRow returns the last row holding a value
func (g *Grid) MaxRow() int {
	return g.maxRow
}

// MaxCol returns the last column holding a value
func (g *Grid) MaxCol() int {
	return g.maxCol
}

func (g *Grid) raw(row, col int) string {
	if row < 1 || row > len(g.rows) {
		return ""
	}
	r := g.rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

// Cell returns the typed value at (row, col)
func (g *Grid) Cell(row, col int) sheet.Value {
	raw := g.raw(row, col)
	if raw == "" {
		return sheet.Blank
	}

	ref, err := cellName(row, col)
	if err != nil {
		return sheet.Blank
	}

	cellType, err := g.file.GetCellType(g.name, ref)
	if err != nil {
		return sheet.TextValue(raw)
	}

	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return g.numberCell(ref, raw)
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return sheet.DateValue(t)
		}
		return sheet.TextValue(raw)
	default:
		return sheet.TextValue(raw)
	}
}

func (g *Grid) numberCell(ref, raw string) sheet.Value {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return sheet.TextValue(raw)
	}

	if g.isDateStyled(ref) {
		t, err := excelize.ExcelDateToTime(n, g.date1904)
		if err == nil {
			return sheet.DateValue(t)
		}
	}
	return sheet.NumberValue(n)
}

func (g *Grid) isDateStyled(ref string) bool {
	styleID, err := g.file.GetCellStyle(g.name, ref)
	if err != nil {
		return false
	}
	if isDate, ok := g.dateFmt[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := g.file.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	g.dateFmt[styleID] = isDate
	return isDate
}

// SetInt writes an integer; the cell keeps its existing style
func (g *Grid) SetInt(row, col int, value int) error {
	ref, err := cellName(row, col)
	if err != nil {
		return err
	}
	if err := g.file.SetCellInt(g.name, ref, value); err != nil {
		return fmt.Errorf("cell %s: %w", ref, err)
	}

	g.store(row, col, strconv.Itoa(value))
	return nil
}

func (g *Grid) store(row, col int, raw string) {
	for len(g.rows) < row {
		g.rows = append(g.rows, nil)
	}
	r := g.rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = raw
	g.rows[row-1] = r

	if row > g.maxRow {
		g.maxRow = row
	}
	if col > g.maxCol {
		g.maxCol = col
	}
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z",
	"2006-01-02",
	"20060102T150405.999",
}

func parseISODate(raw string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// cellName converts a 1-based (row, col) pair to an A1 reference
func cellName(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}
