package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/username/escala-updater/internal/schedule"
	"github.com/username/escala-updater/pkg/dateutil"
)

func holidaysCmd() *cobra.Command {
	var years []int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Lista os feriados nacionais considerados no cálculo",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(years) == 0 {
				years = []int{dateutil.Today().Year()}
			}

			list, err := newProvider(cfg).Holidays(years)
			if err != nil {
				return fmt.Errorf("failed to load holidays: %w", err)
			}

			reportPrintf("\n🗓  Feriados %v (%s)\n", years, cfg.Holidays.Source)
			reportPrintln("═══════════════════════════════════════════════════════")
			for _, h := range list {
				wd := schedule.NewWeekdaySet(schedule.Index(h.Date.Weekday()))
				reportPrintf("  %s  %s  %s\n", h.Date.Format("02/01/2006"), wd, h.Name)
			}
			reportPrintf("\n  Total: %d\n", len(list))

			return nil
		},
	}

	cmd.Flags().IntSliceVar(&years, "year", nil, "Ano (repetível; padrão: ano atual)")

	return cmd
}
