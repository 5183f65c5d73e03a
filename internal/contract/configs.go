package contract

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/huangsam/relwatch/schema"
)

// Default values for configuration.
const (
	DefaultWindow     = "24h"
	DefaultLocale     = "en_US"
	DefaultListenAddr = ":8080"
	DefaultLogLevel   = "info"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	Window   string
	Category schema.WindowScope
	Locale   string
	Now      time.Time // Fixed clock for labels (zero = wall clock)

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Source          schema.SourceBackend
	Dataset         string // JSON dataset path for the file source
	SourceDBConnect string // Please use env var as this is plaintext

	CompareMode   bool
	BaseRelease   string
	TargetRelease string
	Release       string

	ListenAddr string
	LogLevel   slog.Level
	LogFormat  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Window          string `mapstructure:"window"`
	Category        string `mapstructure:"category"`
	Locale          string `mapstructure:"locale"`
	Now             string `mapstructure:"now"`
	Output          string `mapstructure:"output"`
	OutputFile      string `mapstructure:"output-file"`
	Width           int    `mapstructure:"width"`
	Color           string `mapstructure:"color"`
	Source          string `mapstructure:"source"`
	Dataset         string `mapstructure:"dataset"`
	SourceDBConnect string `mapstructure:"source-db-connect"`
	LogLevel        string `mapstructure:"log-level"`
	LogFormat       string `mapstructure:"log-format"`

	// --- Fields from compareCmd.Flags() ---
	BaseRelease   string `mapstructure:"base-release"`
	TargetRelease string `mapstructure:"target-release"`

	// --- Fields from chartCmd.Flags() ---
	Release string `mapstructure:"release"`

	// --- Fields from serveCmd.Flags() ---
	Listen string `mapstructure:"listen"`
}

// Clock returns the configured fixed clock, or the wall clock.
func (c *Config) Clock() schema.Clock {
	if c.Now.IsZero() {
		return time.Now
	}
	return FixedClock(c.Now)
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processNow(cfg, input); err != nil {
		return err
	}
	if err := validateSourceConfig(cfg, input); err != nil {
		return err
	}
	return processCompareMode(cfg, input)
}

// validateSimpleInputs processes and validates all non-source fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Release = strings.TrimSpace(input.Release)

	cfg.Window = strings.ToLower(strings.TrimSpace(input.Window))
	if cfg.Window == "" {
		cfg.Window = DefaultWindow
	}

	cfg.Locale = strings.TrimSpace(input.Locale)
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}

	cfg.Category = schema.WindowScope(strings.ToLower(input.Category))
	if cfg.Category == "" {
		cfg.Category = schema.ShortWindow
	}
	if _, ok := schema.ValidWindowScopes[cfg.Category]; !ok {
		return fmt.Errorf("invalid category '%s'. must be short, release", input.Category)
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return ErrMissingOutputFile
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	level := input.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}
	if cfg.LogLevel, err = ParseLogLevel(level); err != nil {
		return err
	}
	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = LogFormatText
	}
	if cfg.LogFormat != LogFormatText && cfg.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log format '%s'. must be text, json", input.LogFormat)
	}

	cfg.ListenAddr = strings.TrimSpace(input.Listen)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	return nil
}

// processNow parses the optional fixed clock.
func processNow(cfg *Config, input *ConfigRawInput) error {
	cfg.Now = time.Time{}
	if strings.TrimSpace(input.Now) == "" {
		return nil
	}
	t, err := ParseInstant(input.Now, time.Now())
	if err != nil {
		return fmt.Errorf("invalid --now value: %w", err)
	}
	cfg.Now = t
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.SourceBackend, connStr string) error {
	switch backend {
	case schema.MySQLSource:
		if connStr == "" {
			return fmt.Errorf("source-db-connect is required when using %s source", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' followed by host:port")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLSource:
		if connStr == "" {
			return fmt.Errorf("source-db-connect is required when using %s source", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSourceConfig validates the release source selection.
func validateSourceConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = schema.SourceBackend(strings.ToLower(input.Source))
	if cfg.Source == "" {
		cfg.Source = schema.FileSource
	}
	if _, ok := schema.ValidSourceBackends[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be file, sqlite, mysql, postgresql", input.Source)
	}

	cfg.Dataset = strings.TrimSpace(input.Dataset)
	cfg.SourceDBConnect = input.SourceDBConnect
	if cfg.Source == schema.SQLiteSource && cfg.SourceDBConnect == "" {
		cfg.SourceDBConnect = GetDBFilePath()
	}
	return ValidateDatabaseConnectionString(cfg.Source, cfg.SourceDBConnect)
}

// processCompareMode handles the base and target releases.
func processCompareMode(cfg *Config, input *ConfigRawInput) error {
	cfg.BaseRelease = strings.TrimSpace(input.BaseRelease)
	cfg.TargetRelease = strings.TrimSpace(input.TargetRelease)

	if cfg.BaseRelease == "" && cfg.TargetRelease == "" {
		cfg.CompareMode = false
		return nil
	}
	cfg.CompareMode = true

	if cfg.BaseRelease == "" {
		return ErrMissingBaseRelease
	}
	if cfg.TargetRelease == "" {
		return ErrMissingTargetRelease
	}
	if cfg.BaseRelease == cfg.TargetRelease {
		return fmt.Errorf("%w: %s", ErrSameRelease, cfg.BaseRelease)
	}
	return nil
}

// ChartRelease returns the release to chart: --release, else --target-release.
func (c *Config) ChartRelease() (string, error) {
	if c.Release != "" {
		return c.Release, nil
	}
	if c.TargetRelease != "" {
		return c.TargetRelease, nil
	}
	return "", ErrMissingRelease
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix == "" {
		return nil
	}
	if strings.ContainsAny(profilePrefix, "*?[") {
		return fmt.Errorf("invalid profile prefix '%s'", profilePrefix)
	}
	profile.Enabled = true
	profile.Prefix = profilePrefix
	return nil
}
