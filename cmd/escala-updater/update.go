package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/username/escala-updater/internal/reconcile"
	"github.com/username/escala-updater/internal/workbook"
	"go.uber.org/zap"
)

func updateCmd() *cobra.Command {
	var (
		input        string
		output       string
		sheets       []string
		holidays     []string
		holidaysFile string
		dryRun       bool
		teeOutput    string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Atualiza as colunas de dias úteis e dias devidos de uma planilha",
		Long: "Lê a planilha, encontra o cabeçalho (ESCALA NOVA / INÍCIO ESCALA NOVA), calcula os meses " +
			"das colunas de saída existentes e grava os valores sem criar colunas nem alterar a formatação.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outWriter = os.Stdout
			if teeOutput != "" {
				if err := os.MkdirAll(filepath.Dir(teeOutput), 0o755); err != nil {
					return fmt.Errorf("failed to create tee path: %w", err)
				}
				f, err := os.OpenFile(teeOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open tee-output file: %w", err)
				}
				defer f.Close()
				outWriter = io.MultiWriter(os.Stdout, f)
			}
			defer func() {
				outWriter = os.Stdout
			}()

			if output == "" {
				output = defaultOutputPath(input)
			}
			if len(sheets) == 0 {
				sheets = cfg.Workbook.Sheets
			}

			extra, err := loadExtraHolidays(holidays, holidaysFile)
			if err != nil {
				return fmt.Errorf("failed to load extra holidays: %w", err)
			}

			wb, err := workbook.Open(input)
			if err != nil {
				return fmt.Errorf("failed to open workbook: %w", err)
			}
			defer wb.Close()

			logger.Info("Updating workbook",
				zap.String("input", input),
				zap.String("output", output),
				zap.Strings("sheets", sheets),
				zap.Int("extra_holidays", extra.Len()),
				zap.Bool("dry_run", dryRun))

			engine := reconcile.NewEngine(newProvider(cfg), cfg.Headers, logger)
			report := engine.Run(wb, reconcile.Options{
				Sheets:        sheets,
				ExtraHolidays: extra,
			})

			printReport(report)

			if dryRun {
				reportPrintln("\n[DRY RUN] A planilha não foi salva")
				return nil
			}

			if err := wb.SaveAs(output); err != nil {
				return fmt.Errorf("failed to save workbook: %w", err)
			}
			reportPrintf("\n✅ Planilha atualizada: %s\n", output)

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Planilha de entrada (.xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Planilha de saída (padrão: <entrada>_atualizada.xlsx)")
	cmd.Flags().StringSliceVar(&sheets, "sheet", nil, "Aba a processar (repetível; padrão: todas)")
	cmd.Flags().StringSliceVar(&holidays, "holiday", nil, "Feriado extra, ex: 25/01/2026 (repetível)")
	cmd.Flags().StringVar(&holidaysFile, "holidays-file", "", "Arquivo com feriados extras, um por linha")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Calcula e mostra o log sem salvar a planilha")
	cmd.Flags().StringVar(&teeOutput, "tee-output", "", "Espelha o log em um arquivo")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func printReport(report *reconcile.Report) {
	reportPrintln("📋 Log")
	reportPrintln("═══════════════════════════════════════════════════════")
	for _, entry := range report.Lines() {
		reportPrintf("%s %s\n", levelIcon(entry.Level), entry)
	}

	totals := report.Totals()
	reportPrintln("═══════════════════════════════════════════════════════")
	reportPrintf("  Abas atualizadas:   %d\n", totals.SheetsUpdated)
	reportPrintf("  Linhas processadas: %d\n", totals.RowsProcessed)
	reportPrintf("  Linhas com erro:    %d\n", totals.RowErrors)
	if totals.MonthErrors > 0 {
		reportPrintf("  Meses ignorados:    %d (escala antiga inválida)\n", totals.MonthErrors)
	}
	if totals.WriteErrors > 0 {
		reportPrintf("  Células não gravadas: %d\n", totals.WriteErrors)
	}
}

func levelIcon(level reconcile.Level) string {
	switch level {
	case reconcile.LevelError:
		return "❌"
	case reconcile.LevelWarn:
		return "⚠️"
	case reconcile.LevelInfo:
		return "ℹ️"
	default:
		return "✅"
	}
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_atualizada" + ext
}
