package workbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/escala-updater/internal/sheet"
	"github.com/xuri/excelize/v2"
)

func newTestFile(t *testing.T) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Nome", "ESCALA NOVA", "INÍCIO ESCALA NOVA", "DIAS DEVIDOS 02.2026"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Ana", "SEG A SEX", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), 3}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Bia", "FOLGA DOM", "15/01/2026", 2.5}))
	return f
}

func roundTrip(t *testing.T, f *excelize.File) *Workbook {
	t.Helper()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	wb, err := OpenBytes(buf.Bytes())
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func TestGrid_TypedReads(t *testing.T) {
	wb := roundTrip(t, newTestFile(t))

	g, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", g.Name())
	assert.Equal(t, 3, g.MaxRow())
	assert.Equal(t, 4, g.MaxCol())

	tests := []struct {
		name string
		row  int
		col  int
		kind sheet.Kind
	}{
		{"header text", 1, 2, sheet.KindText},
		{"schedule text", 2, 2, sheet.KindText},
		{"date styled serial", 2, 3, sheet.KindDate},
		{"date as text", 3, 3, sheet.KindText},
		{"integer", 2, 4, sheet.KindNumber},
		{"float", 3, 4, sheet.KindNumber},
		{"outside data", 10, 10, sheet.KindBlank},
		{"out of range", 0, 1, sheet.KindBlank},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, g.Cell(tt.row, tt.col).Kind)
		})
	}

	start := g.Cell(2, 3)
	assert.True(t, start.Time.Equal(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)), "got %v", start.Time)
	assert.Equal(t, 2.5, g.Cell(3, 4).Number)
	assert.Equal(t, "FOLGA DOM", g.Cell(3, 2).Text)
}

func TestGrid_DateCellsFeedParseDate(t *testing.T) {
	wb := roundTrip(t, newTestFile(t))
	g, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	want := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, row := range []int{2, 3} {
		got, err := sheet.ParseDate(g.Cell(row, 3))
		require.NoError(t, err)
		assert.True(t, got.Equal(want), "row %d: got %v", row, got)
	}
}

func TestGrid_SetIntKeepsStyle(t *testing.T) {
	f := newTestFile(t)
	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFFF00"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "D2", "D2", style))

	wb := FromFile(f)
	g, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, g.SetInt(2, 4, -7))
	require.NoError(t, g.SetInt(5, 6, 1))

	assert.Equal(t, sheet.NumberValue(-7), g.Cell(2, 4))
	assert.Equal(t, 5, g.MaxRow())
	assert.Equal(t, 6, g.MaxCol())

	got, err := f.GetCellStyle("Sheet1", "D2")
	require.NoError(t, err)
	assert.Equal(t, style, got)

	// the written value survives a save and reload
	reloaded := roundTrip(t, f)
	rg, err := reloaded.Sheet("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, sheet.NumberValue(-7), rg.Cell(2, 4))
	assert.Equal(t, "Ana", rg.Cell(2, 1).Text)
}

func TestWorkbook_Sheets(t *testing.T) {
	f := newTestFile(t)
	_, err := f.NewSheet("Março")
	require.NoError(t, err)

	wb := roundTrip(t, f)
	assert.Equal(t, []string{"Sheet1", "Março"}, wb.SheetNames())

	g1, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	g2, err := wb.Sheet("Sheet1")
	require.NoError(t, err)
	assert.Same(t, g1, g2)

	empty, err := wb.Sheet("Março")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.MaxRow())

	_, err = wb.Sheet("Abril")
	assert.Error(t, err)
}

func TestIsDateNumFmt(t *testing.T) {
	custom := func(s string) *string { return &s }

	tests := []struct {
		name   string
		id     int
		custom *string
		want   bool
	}{
		{"general", 0, nil, false},
		{"integer", 1, nil, false},
		{"short date", 14, nil, true},
		{"datetime", 22, nil, true},
		{"time", 46, nil, true},
		{"text", 49, nil, false},
		{"custom date", 164, custom("dd/mm/yyyy"), true},
		{"custom currency", 164, custom(`"R$" #,##0.00`), false},
		{"colour section only", 164, custom("[Red]0.00"), false},
		{"locale date", 164, custom("[$-416]d/m/yy"), true},
		{"escaped letters", 164, custom(`0\d`), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDateNumFmt(tt.id, tt.custom); got != tt.want {
				t.Errorf("isDateNumFmt(%d, %v) = %v, want %v", tt.id, tt.custom, got, tt.want)
			}
		})
	}
}
