// Package config loads loadplan settings from defaults, an optional YAML
// file and LOADPLAN_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/loadplan/internal/calendar"
	"github.com/spf13/viper"
)

const envPrefix = "LOADPLAN"

// Keys understood in config.yaml. Each maps to LOADPLAN_<KEY> with dots
// replaced by underscores.
const (
	KeyDB                 = "db"
	KeyHolidaysEnabled    = "holidays.enabled"
	KeyHolidaysURL        = "holidays.url"
	KeyHolidaysTimeoutMs  = "holidays.timeout_ms"
	KeyHolidaysMaxRetries = "holidays.max_retries"
	KeyLogLevel           = "log.level"
	KeyLogUseCases        = "log.use_cases"
)

type HolidaysConfig struct {
	Enabled    bool
	URL        string
	TimeoutMs  int
	MaxRetries int
}

type LogConfig struct {
	Level    string
	UseCases bool
}

// Config holds everything the binary needs to wire the services.
type Config struct {
	DBPath   string
	Holidays HolidaysConfig
	Log      LogConfig

	// File is the config file that was read, empty when none was.
	File string
}

// DefaultConfig returns the built-in settings. home is the directory that
// holds the .loadplan folder.
func DefaultConfig(home string) Config {
	return Config{
		DBPath: filepath.Join(home, ".loadplan", "loadplan.db"),
		Holidays: HolidaysConfig{
			Enabled:    true,
			URL:        calendar.DefaultHolidaysURL,
			TimeoutMs:  5000,
			MaxRetries: 2,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads the configuration. The file is $LOADPLAN_CONFIG when set,
// which must then exist, or ~/.loadplan/config.yaml when present.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	return load(viper.New(), home, os.Getenv(envPrefix+"_CONFIG"))
}

func load(v *viper.Viper, home, explicitFile string) (Config, error) {
	def := DefaultConfig(home)
	v.SetDefault(KeyDB, def.DBPath)
	v.SetDefault(KeyHolidaysEnabled, def.Holidays.Enabled)
	v.SetDefault(KeyHolidaysURL, def.Holidays.URL)
	v.SetDefault(KeyHolidaysTimeoutMs, def.Holidays.TimeoutMs)
	v.SetDefault(KeyHolidaysMaxRetries, def.Holidays.MaxRetries)
	v.SetDefault(KeyLogLevel, def.Log.Level)
	v.SetDefault(KeyLogUseCases, def.Log.UseCases)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := explicitFile
	if file == "" {
		candidate := filepath.Join(home, ".loadplan", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			file = candidate
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	cfg := Config{
		DBPath: expandHome(v.GetString(KeyDB), home),
		Holidays: HolidaysConfig{
			Enabled:    v.GetBool(KeyHolidaysEnabled),
			URL:        v.GetString(KeyHolidaysURL),
			TimeoutMs:  v.GetInt(KeyHolidaysTimeoutMs),
			MaxRetries: v.GetInt(KeyHolidaysMaxRetries),
		},
		Log: LogConfig{
			Level:    v.GetString(KeyLogLevel),
			UseCases: v.GetBool(KeyLogUseCases),
		},
		File: file,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the services cannot work with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyDB))
	}
	if c.Holidays.TimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", KeyHolidaysTimeoutMs, c.Holidays.TimeoutMs))
	}
	if c.Holidays.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %d", KeyHolidaysMaxRetries, c.Holidays.MaxRetries))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LogLevel returns the slog level for Log.Level.
func (c Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// FetcherConfig converts the holiday settings for the calendar package.
func (c Config) FetcherConfig() calendar.FetcherConfig {
	fc := calendar.DefaultFetcherConfig()
	fc.URL = c.Holidays.URL
	fc.Timeout = time.Duration(c.Holidays.TimeoutMs) * time.Millisecond
	fc.MaxRetries = c.Holidays.MaxRetries
	return fc
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%s: unknown level %q", KeyLogLevel, s)
	}
	return level, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return path
}
