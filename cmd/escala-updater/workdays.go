package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/escala-updater/internal/schedule"
	"github.com/username/escala-updater/internal/workdays"
	"github.com/username/escala-updater/pkg/dateutil"
	"go.uber.org/zap"
)

func workdaysCmd() *cobra.Command {
	var (
		year     int
		month    int
		off      string
		entryStr string
		exitStr  string
		holidays []string
		exportTo string
	)

	today := dateutil.Today()

	cmd := &cobra.Command{
		Use:   "workdays",
		Short: "Calcula os dias úteis de um mês para uma escala",
		RunE: func(cmd *cobra.Command, args []string) error {
			daysOff, err := parseDaysOff(off)
			if err != nil {
				return fmt.Errorf("invalid --off: %w", err)
			}
			in := workdays.Input{
				Year:    year,
				Month:   time.Month(month),
				DaysOff: daysOff,
			}

			if in.Entry, err = parseOptionalDate(entryStr); err != nil {
				return fmt.Errorf("invalid --entry: %w", err)
			}
			if in.Exit, err = parseOptionalDate(exitStr); err != nil {
				return fmt.Errorf("invalid --exit: %w", err)
			}
			if in.Extra, err = loadExtraHolidays(holidays, ""); err != nil {
				return fmt.Errorf("failed to load extra holidays: %w", err)
			}

			calc := workdays.NewCalculator(newProvider(cfg), logger)
			result, err := calc.Calculate(in)
			if err != nil {
				return fmt.Errorf("failed to calculate: %w", err)
			}

			reportPrintf("\n📅 %02d/%d\n", month, year)
			reportPrintln("═══════════════════════════════════════════════════════")
			reportPrintf("  Dias trabalhados: %s\n", result.Days)
			if result.Empty() {
				reportPrintln("  Período:          - (entrada/saída fora do mês)")
			} else {
				reportPrintf("  Período:          %s a %s\n",
					result.Start.Format("02/01/2006"), result.End.Format("02/01/2006"))
			}
			reportPrintf("  Dias úteis:       %d\n", result.WorkDays)

			if len(result.Holidays) > 0 {
				reportPrintln("\n  Feriados em dias trabalhados:")
				for _, h := range result.Holidays {
					reportPrintf("    • %02d - %s\n", h.Day, h.Name)
				}
			}

			if exportTo != "" {
				if err := workdays.Export(result, exportTo); err != nil {
					return fmt.Errorf("failed to export: %w", err)
				}
				logger.Info("Result exported", zap.String("path", exportTo))
				reportPrintf("\n✅ Exportado para %s\n", exportTo)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", today.Year(), "Ano")
	cmd.Flags().IntVar(&month, "month", int(today.Month()), "Mês (1-12)")
	cmd.Flags().StringVar(&off, "off", "sab,dom", "Dias de folga, ex: sab,dom")
	cmd.Flags().StringVar(&entryStr, "entry", "", "Data de entrada (DD/MM/AAAA)")
	cmd.Flags().StringVar(&exitStr, "exit", "", "Data de saída (DD/MM/AAAA)")
	cmd.Flags().StringSliceVar(&holidays, "holiday", nil, "Feriado extra, ex: 25/01/2026 (repetível)")
	cmd.Flags().StringVar(&exportTo, "export", "", "Exporta o resultado para um arquivo .xlsx")

	return cmd
}

// parseDaysOff reads weekday abbreviations ("sab,dom", "SEG QUA") into a Mon..Sun mask.
// Blank text means no days off.
func parseDaysOff(text string) ([7]bool, error) {
	var off [7]bool
	if strings.TrimSpace(text) == "" {
		return off, nil
	}

	days := schedule.Tokens(text)
	if len(days) == 0 {
		return off, fmt.Errorf("no weekday in %q (use seg, ter, qua, qui, sex, sab, dom)", text)
	}
	for _, d := range days {
		off[d] = true
	}
	return off, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := dateutil.ParseDayFirst(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
