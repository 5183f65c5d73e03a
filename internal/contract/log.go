package contract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the process-wide structured logger. Output goes to stderr so that
// stdout stays reserved for command results and the MCP protocol.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// All log formats supported.
const (
	LogFormatText = "text" // default
	LogFormatJSON = "json"
)

// ParseLogLevel converts debug, info, warn or error into a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", s)
	}
	return level, nil
}

// NewLogger builds a text or JSON logger writing to w.
func NewLogger(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "", LogFormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case LogFormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format '%s'. must be text, json", format)
	}
}

// ConfigureLogging replaces Logger according to cfg.
func ConfigureLogging(cfg *Config) error {
	logger, err := NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	Logger = logger
	slog.SetDefault(logger)
	return nil
}

// LogDebug logs a debug message.
func LogDebug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// LogInfo logs an informational message.
func LogInfo(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// LogWarn logs a warning message with its cause.
func LogWarn(msg string, err error, args ...any) {
	Logger.Warn(msg, append([]any{"error", err}, args...)...)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.Error(msg, "error", err)
	os.Exit(1)
}
