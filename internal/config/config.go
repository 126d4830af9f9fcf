package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/escala-updater/internal/calendar"
	"github.com/username/escala-updater/internal/sheet"
)

// Holiday sources
const (
	SourceBuiltin   = "builtin"
	SourceBrasilAPI = "brasilapi"
)

// Config represents application configuration
type Config struct {
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Headers  sheet.Layout   `mapstructure:"headers"`
	Workbook WorkbookConfig `mapstructure:"workbook"`
	Log      LogConfig      `mapstructure:"log"`
}

// HolidaysConfig represents the holiday calendar configuration
type HolidaysConfig struct {
	Source    string `mapstructure:"source"`  // "builtin" or "brasilapi"
	APIURL    string `mapstructure:"api_url"` // {year} is replaced by the year
	CacheTTL  string `mapstructure:"cache_ttl"`
	Timeout   string `mapstructure:"timeout"`
	ExtraFile string `mapstructure:"extra_file"` // one date per line
}

// WorkbookConfig represents workbook processing defaults
type WorkbookConfig struct {
	Sheets []string `mapstructure:"sheets"` // empty means every sheet
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Holidays: HolidaysConfig{
			Source:   SourceBuiltin,
			APIURL:   calendar.DefaultAPIURL,
			CacheTTL: "24h",
			Timeout:  "10s",
		},
		Headers: sheet.DefaultLayout(),
		Log: LogConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("holidays.source", d.Holidays.Source)
	v.SetDefault("holidays.api_url", d.Holidays.APIURL)
	v.SetDefault("holidays.cache_ttl", d.Holidays.CacheTTL)
	v.SetDefault("holidays.timeout", d.Holidays.Timeout)
	v.SetDefault("holidays.extra_file", "")

	v.SetDefault("headers.new_schedule", d.Headers.NewSchedule)
	v.SetDefault("headers.new_schedule_start", d.Headers.NewScheduleStart)
	v.SetDefault("headers.old_schedule", d.Headers.OldSchedule)
	v.SetDefault("headers.old_count", d.Headers.OldCount)
	v.SetDefault("headers.new_count", d.Headers.NewCount)
	v.SetDefault("headers.due", d.Headers.Due)
	v.SetDefault("headers.total_due", d.Headers.TotalDue)
	v.SetDefault("headers.scan_rows", d.Headers.ScanRows)

	v.SetDefault("workbook.sheets", []string{})

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", d.Log.Level)
}

// Load loads configuration from file.
// Without an explicit path a missing file is not an error and defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.escala-updater")
		v.AddConfigPath("/etc/escala-updater")
	}

	// Read environment variables (ESCALA_HOLIDAYS_SOURCE, ...)
	v.SetEnvPrefix("ESCALA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Holidays.Source {
	case SourceBuiltin:
	case SourceBrasilAPI:
		if !strings.Contains(c.Holidays.APIURL, "{year}") {
			return fmt.Errorf("holidays.api_url must contain {year}, got '%s'", c.Holidays.APIURL)
		}
	default:
		return fmt.Errorf("holidays.source must be '%s' or '%s', got '%s'", SourceBuiltin, SourceBrasilAPI, c.Holidays.Source)
	}

	durations := map[string]string{
		"holidays.cache_ttl": c.Holidays.CacheTTL,
		"holidays.timeout":   c.Holidays.Timeout,
	}
	for key, value := range durations {
		if value == "" {
			continue
		}
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("%s must be a positive duration, got '%s'", key, value)
		}
	}

	if err := c.Headers.Validate(); err != nil {
		return fmt.Errorf("headers: %w", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got '%s'", c.Log.Level)
	}

	return nil
}

// GetCacheTTL returns cache TTL duration
func (c *HolidaysConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetTimeout returns the HTTP timeout of the holiday API
func (c *HolidaysConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Holidays.APIURL = os.ExpandEnv(c.Holidays.APIURL)
	c.Holidays.ExtraFile = os.ExpandEnv(c.Holidays.ExtraFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
