// Package workbook adapts an excelize spreadsheet to the sheet.Grid the
// reconciliation engine works on. Reads are typed, writes only replace
// values and keep each cell's style.
package workbook

import (
	"bytes"
	"fmt"
	"io"

	"github.com/username/escala-updater/internal/sheet"
	"github.com/xuri/excelize/v2"
)

// Workbook wraps an open spreadsheet file
type Workbook struct {
	file     *excelize.File
	date1904 bool
	grids    map[string]*Grid
}

// Open opens the workbook at path
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return FromFile(f), nil
}

// OpenReader reads a workbook from r
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open from reader: %w", err)
	}
	return FromFile(f), nil
}

// OpenBytes reads a workbook from raw bytes
func OpenBytes(data []byte) (*Workbook, error) {
	return OpenReader(bytes.NewReader(data))
}

// FromFile wraps an already open excelize file
func FromFile(f *excelize.File) *Workbook {
	w := &Workbook{
		file:  f,
		grids: make(map[string]*Grid),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		w.date1904 = *props.Date1904
	}
	return w
}

// SheetNames returns the sheet names in workbook order
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// Sheet returns the grid of a sheet; grids are loaded once and reused
func (w *Workbook) Sheet(name string) (sheet.Grid, error) {
	if g, ok := w.grids[name]; ok {
		return g, nil
	}

	g, err := loadGrid(w.file, name, w.date1904)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", name, err)
	}
	w.grids[name] = g
	return g, nil
}

// SaveAs writes the workbook to path
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Bytes returns the workbook serialized as .xlsx
func (w *Workbook) Bytes() ([]byte, error) {
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases temporary files held by the workbook
func (w *Workbook) Close() error {
	return w.file.Close()
}
