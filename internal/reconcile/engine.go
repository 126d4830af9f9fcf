// Package reconcile recomputes the working days owed per employee row when a
// schedule changes, writing the results into the output columns a sheet
// already has.
package reconcile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/username/escala-updater/internal/calendar"
	"github.com/username/escala-updater/internal/schedule"
	"github.com/username/escala-updater/internal/sheet"
	"github.com/username/escala-updater/pkg/dateutil"
	"go.uber.org/zap"
)

// Workbook is the set of sheets a run works on
type Workbook interface {
	SheetNames() []string
	Sheet(name string) (sheet.Grid, error)
}

// Options narrow a run
type Options struct {
	// Sheets to process; empty means every sheet in workbook order
	Sheets []string
	// ExtraHolidays are excluded from counting on top of the provider's holidays
	ExtraHolidays calendar.HolidaySet
}

// Engine reconciles old and new schedule working-day counts
type Engine struct {
	provider calendar.Provider
	layout   sheet.Layout
	logger   *zap.Logger
}

// NewEngine creates a new reconciliation engine
func NewEngine(provider calendar.Provider, layout sheet.Layout, logger *zap.Logger) *Engine {
	return &Engine{
		provider: provider,
		layout:   layout,
		logger:   logger,
	}
}

// Run processes the selected sheets of wb in place.
// Sheet and row failures end up in the report; Run never stops early.
func (e *Engine) Run(wb Workbook, opts Options) *Report {
	report := &Report{}

	names := opts.Sheets
	if len(names) == 0 {
		names = wb.SheetNames()
	}
	existing := make(map[string]bool)
	for _, name := range wb.SheetNames() {
		existing[name] = true
	}

	e.logger.Info("Starting reconciliation",
		zap.Strings("sheets", names),
		zap.Int("extra_holidays", opts.ExtraHolidays.Len()))

	for _, name := range names {
		if !existing[name] {
			e.logger.Warn("Sheet not found in workbook", zap.String("sheet", name))
			report.Entries = append(report.Entries, Entry{
				Level:   LevelWarn,
				Sheet:   name,
				Message: "aba não existe na planilha.",
			})
			continue
		}

		g, err := wb.Sheet(name)
		if err != nil {
			sr := &SheetReport{Name: name}
			sr.add(LevelError, "falha ao ler a aba: %v", err)
			e.logger.Error("Failed to load sheet", zap.String("sheet", name), zap.Error(err))
			report.Sheets = append(report.Sheets, sr)
			continue
		}

		report.Sheets = append(report.Sheets, e.ReconcileSheet(g, opts.ExtraHolidays))
	}

	if !report.UpdatedAny() {
		e.logger.Warn("No sheet was updated")
		report.Entries = append(report.Entries, Entry{
			Level: LevelWarn,
			Message: "Nenhuma aba foi atualizada. Verifique se os cabeçalhos existem e se há colunas de saída " +
				"(DIAS ÚTEIS/DIAS DEVIDOS) com MM.AAAA.",
		})
	}

	totals := report.Totals()
	e.logger.Info("Reconciliation finished",
		zap.Int("sheets_updated", totals.SheetsUpdated),
		zap.Int("rows_processed", totals.RowsProcessed),
		zap.Int("row_errors", totals.RowErrors),
		zap.Int("month_errors", totals.MonthErrors))

	return report
}

// ReconcileSheet processes one sheet in place
func (e *Engine) ReconcileSheet(g sheet.Grid, extra calendar.HolidaySet) *SheetReport {
	sr := &SheetReport{Name: g.Name()}
	log := e.logger.With(zap.String("sheet", g.Name()))

	// 1. Header row and column map
	header, err := sheet.FindHeader(g, e.layout)
	if err != nil {
		if errors.Is(err, sheet.ErrHeaderNotFound) {
			sr.add(LevelError, "não encontrei a linha de cabeçalho com '%s' e '%s'.",
				sheet.Normalize(e.layout.NewSchedule), sheet.Normalize(e.layout.NewScheduleStart))
		} else {
			sr.add(LevelError, "%v", err)
		}
		log.Error("Header row not found", zap.Error(err))
		return sr
	}
	log.Debug("Header row found",
		zap.Int("row", header.Row),
		zap.Int("columns", header.Columns.Len()))

	// 2. Target months from existing output columns
	months := header.TargetMonths()
	if len(months) == 0 {
		sr.add(LevelWarn, "não encontrei colunas de saída (%s) com MM.AAAA. Nada a calcular.", e.outputLabels())
		log.Warn("No target months in sheet")
		return sr
	}
	sr.Months = months

	// 3. Sentinel columns
	colNew := header.NewSchedule()
	colStart := header.NewScheduleStart()
	if !colNew.Exists() || !colStart.Exists() {
		sr.add(LevelError, "faltam colunas obrigatórias '%s' e/ou '%s'.", colNew.Name, colStart.Name)
		log.Error("Required columns missing",
			zap.String("new_schedule", colNew.Name),
			zap.String("new_schedule_start", colStart.Name))
		return sr
	}

	// 4. Holidays for every year in scope
	holidays, err := calendar.BuildHolidaySet(e.provider, holidayYears(months, extra), extra)
	if err != nil {
		sr.add(LevelError, "falha ao carregar feriados: %v", err)
		log.Error("Failed to build holiday set", zap.Error(err))
		return sr
	}

	// 5. Per-month columns; absent ones are never created
	plans := make([]sheet.MonthColumns, 0, len(months))
	var missing []string
	for _, m := range months {
		mc := header.MonthColumns(m)
		plans = append(plans, mc)
		if miss := mc.MissingOutputs(); len(miss) > 0 {
			missing = append(missing, m.String()+": "+strings.Join(miss, " | "))
		}
		if !mc.OldSchedule.Exists() {
			log.Info("Old schedule column missing, month skipped",
				zap.String("month", m.String()),
				zap.String("column", mc.OldSchedule.Name))
		}
	}
	if len(missing) > 0 {
		sr.add(LevelInfo, "algumas colunas de saída não existem e NÃO serão criadas. (%s)", strings.Join(missing, "; "))
		log.Info("Output columns missing, not created", zap.Strings("missing", missing))
	}
	colTotal := header.TotalDue()

	// 6. Rows
	for row := header.Row + 1; row <= g.MaxRow(); row++ {
		e.reconcileRow(g, row, colNew, colStart, colTotal, plans, holidays, sr, log)
	}

	// 7. Summary
	sr.Updated = true
	sr.add(LevelOK, "%d linhas processadas, %d linhas com erro (data/escala inválida).", sr.RowsProcessed, sr.RowErrors)
	log.Info("Sheet reconciled",
		zap.Int("rows_processed", sr.RowsProcessed),
		zap.Int("row_errors", sr.RowErrors),
		zap.Int("month_errors", sr.MonthErrors),
		zap.Int("write_errors", sr.WriteErrors),
		zap.Int("months", len(months)))

	return sr
}

func (e *Engine) reconcileRow(
	g sheet.Grid,
	row int,
	colNew, colStart, colTotal sheet.Column,
	plans []sheet.MonthColumns,
	holidays calendar.HolidaySet,
	sr *SheetReport,
	log *zap.Logger,
) {
	vNew := g.Cell(row, colNew.Index)
	vStart := g.Cell(row, colStart.Index)
	if vNew.IsBlank() && vStart.IsBlank() {
		return
	}

	start, err := sheet.ParseDate(vStart)
	if err != nil {
		sr.RowErrors++
		log.Debug("Row skipped: invalid start date",
			zap.Int("row", row),
			zap.String("value", vStart.String()))
		return
	}
	// only the day of month is used; month and year come from each target month
	startDay := start.Day()

	newDays, err := schedule.Parse(vNew.String())
	if err != nil {
		sr.RowErrors++
		log.Debug("Row skipped: invalid new schedule",
			zap.Int("row", row),
			zap.String("value", vNew.String()))
		return
	}

	totalDue := 0
	for _, p := range plans {
		if !p.OldSchedule.Exists() {
			continue
		}

		vOld := g.Cell(row, p.OldSchedule.Index)
		if vOld.IsBlank() {
			continue
		}
		oldDays, err := schedule.Parse(vOld.String())
		if err != nil {
			sr.MonthErrors++
			log.Debug("Month skipped: invalid old schedule",
				zap.Int("row", row),
				zap.String("month", p.Month.String()),
				zap.String("value", vOld.String()))
			continue
		}

		r := CountMonth(p.Month, startDay, oldDays, newDays, holidays)
		totalDue += r.Due

		e.write(g, row, p.OldCount, r.Old, sr, log)
		e.write(g, row, p.NewCount, r.New, sr, log)
		e.write(g, row, p.Due, r.Due, sr, log)
	}

	if colTotal.Exists() {
		e.write(g, row, colTotal, totalDue, sr, log)
	}

	sr.RowsProcessed++
}

func (e *Engine) write(g sheet.Grid, row int, col sheet.Column, value int, sr *SheetReport, log *zap.Logger) {
	if !col.Exists() {
		return
	}
	if err := g.SetInt(row, col.Index, value); err != nil {
		sr.WriteErrors++
		sr.add(LevelWarn, "falha ao gravar linha %d, coluna '%s': %v", row, col.Name, err)
		log.Warn("Failed to write cell",
			zap.Int("row", row),
			zap.String("column", col.Name),
			zap.Error(err))
	}
}

func (e *Engine) outputLabels() string {
	var labels []string
	seen := make(map[string]bool)
	for _, tpl := range []string{e.layout.OldCount, e.layout.NewCount, e.layout.Due} {
		prefix, _, _ := strings.Cut(tpl, sheet.PeriodPlaceholder)
		label := sheet.Normalize(prefix)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return strings.Join(labels, "/")
}

// MonthResult is the old/new working-day comparison for one month
type MonthResult struct {
	Start time.Time // effective start; after End when the day does not exist in the month
	End   time.Time
	Old   int
	New   int
	Due   int
}

// CountMonth counts old and new working days from startDay to the end of the month.
// A startDay the month does not have yields zero for both.
func CountMonth(m sheet.TargetMonth, startDay int, oldDays, newDays schedule.WeekdaySet, holidays calendar.HolidaySet) MonthResult {
	_, end := dateutil.MonthBounds(m.Year, m.Month)
	start := dateutil.MonthStartFromDay(m.Year, m.Month, startDay)

	r := MonthResult{
		Start: start,
		End:   end,
		Old:   calendar.CountWorkdays(start, end, oldDays, holidays),
		New:   calendar.CountWorkdays(start, end, newDays, holidays),
	}
	r.Due = r.Old - r.New
	return r
}

func holidayYears(months []sheet.TargetMonth, extra calendar.HolidaySet) []int {
	set := make(map[int]struct{})
	for _, m := range months {
		set[m.Year] = struct{}{}
	}
	for _, y := range extra.Years() {
		set[y] = struct{}{}
	}

	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func (r MonthResult) String() string {
	return fmt.Sprintf("%s..%s old=%d new=%d due=%d",
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"), r.Old, r.New, r.Due)
}
