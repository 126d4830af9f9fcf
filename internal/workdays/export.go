package workdays

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Dias úteis"

// Export writes a one-sheet summary of r to path
func Export(r *Result, path string) error {
	f, err := build(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// ExportBytes returns the summary of r as .xlsx bytes
func ExportBytes(r *Result) ([]byte, error) {
	f, err := build(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

func build(r *Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeSummary(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("write summary: %w", err)
	}
	if err := writeHolidays(f, r); err != nil {
		f.Close()
		return nil, fmt.Errorf("write holidays: %w", err)
	}
	if err := setWidths(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("set widths: %w", err)
	}
	return f, nil
}

func boldStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
}

func writeSummary(f *excelize.File, r *Result) error {
	bold, err := boldStyle(f)
	if err != nil {
		return err
	}

	period := "-"
	if !r.Empty() {
		period = fmt.Sprintf("%s a %s", r.Start.Format("02/01/2006"), r.End.Format("02/01/2006"))
	}

	rows := [][]any{
		{"Mês", fmt.Sprintf("%02d/%d", int(r.Month), r.Year)},
		{"Período", period},
		{"Dias trabalhados", r.Days.String()},
		{"Dias úteis", r.WorkDays},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, bold); err != nil {
			return err
		}
	}
	return nil
}

// holidaysRow is where the holiday table starts
const holidaysRow = 6

func writeHolidays(f *excelize.File, r *Result) error {
	bold, err := boldStyle(f)
	if err != nil {
		return err
	}

	header := []any{"Dia", "Feriado"}
	cell, err := excelize.CoordinatesToCellName(1, holidaysRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, cell, &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(2, holidaysRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, cell, last, bold); err != nil {
		return err
	}

	for i, h := range r.Holidays {
		cell, err := excelize.CoordinatesToCellName(1, holidaysRow+1+i)
		if err != nil {
			return err
		}
		row := []any{h.Day, h.Name}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("holiday %d: %w", h.Day, err)
		}
	}
	return nil
}

func setWidths(f *excelize.File) error {
	widths := []float64{18, 40}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}
