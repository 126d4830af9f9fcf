package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/username/escala-updater/internal/calendar"
	"github.com/username/escala-updater/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	outWriter  io.Writer = os.Stdout
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "escala-updater",
		Short: "Atualizador de planilhas de alteração de escala",
		Long: "Recalcula dias úteis (escala antiga x escala nova) e dias devidos nas colunas " +
			"já existentes de uma planilha .xlsx, descontando feriados nacionais do Brasil",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				initLogger("info")
				return err
			}

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
				}
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml if present)")

	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(workdaysCmd())
	rootCmd.AddCommand(holidaysCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func reportPrintf(format string, a ...interface{}) {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	fmt.Fprintf(outWriter, format, a...)
}

func reportPrintln(a ...interface{}) {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	fmt.Fprintln(outWriter, a...)
}

// newProvider builds the holiday provider selected in config
func newProvider(cfg *config.Config) calendar.Provider {
	builtin := calendar.NewBuiltinProvider()

	switch cfg.Holidays.Source {
	case config.SourceBrasilAPI:
		logger.Info("Using BrasilAPI holiday calendar with built-in fallback",
			zap.String("url", cfg.Holidays.APIURL))
		api := calendar.NewAPIProvider(
			cfg.Holidays.APIURL,
			cfg.Holidays.GetTimeout(),
			cfg.Holidays.GetCacheTTL(),
			logger,
		)
		return calendar.NewCompositeProvider(api, builtin, logger)
	default:
		logger.Debug("Using built-in holiday calendar")
		return builtin
	}
}

// loadExtraHolidays merges --holiday values, --holidays-file and holidays.extra_file
func loadExtraHolidays(values []string, file string) (calendar.HolidaySet, error) {
	extra := calendar.ParseExtraHolidayList(values)

	for _, path := range []string{cfg.Holidays.ExtraFile, file} {
		if strings.TrimSpace(path) == "" {
			continue
		}
		fromFile, err := calendar.LoadExtraHolidaysFile(path)
		if err != nil {
			return nil, err
		}
		extra = extra.Union(fromFile)
	}

	return extra, nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Encoding = "console"

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err == nil {
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
