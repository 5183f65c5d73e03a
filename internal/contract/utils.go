package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/relwatch/schema"
)

// Color variables for console output.
var (
	ImprovedColor  = color.New(color.FgGreen, color.Bold) // ImprovedColor marks a change for the better.
	WorsenedColor  = color.New(color.FgRed, color.Bold)   // WorsenedColor marks a regression.
	UnchangedColor = color.New(color.FgCyan)              // UnchangedColor is informational.
)

// Arrows shown next to a signed delta.
const (
	UpArrow   = "▲"
	DownArrow = "▼"
)

// GetPlainLabel returns the plain polarity label used for CSV, JSON and uncolored tables.
func GetPlainLabel(p schema.Polarity) string {
	switch p {
	case schema.Improved:
		return "Improved"
	case schema.Worsened:
		return "Worsened"
	default:
		return "Unchanged"
	}
}

// GetColorLabel returns a colored polarity label for console output.
func GetColorLabel(p schema.Polarity) string {
	text := GetPlainLabel(p)
	switch p {
	case schema.Improved:
		return ImprovedColor.Sprint(text)
	case schema.Worsened:
		return WorsenedColor.Sprint(text)
	default:
		return UnchangedColor.Sprint(text)
	}
}

// FormatSignedDelta renders a delta value with an explicit sign and direction arrow.
// The arrow is colored by polarity when useColors is set.
func FormatSignedDelta(d schema.MetricDelta, useColors bool) string {
	if d.Value == 0 {
		return "0"
	}
	arrow := DownArrow
	text := fmt.Sprintf("%d", d.Value)
	if d.Value > 0 {
		arrow = UpArrow
		text = "+" + text
	}
	out := text + " " + arrow
	if !useColors {
		return out
	}
	if d.Polarity == schema.Improved {
		return ImprovedColor.Sprint(out)
	}
	return WorsenedColor.Sprint(out)
}

// SelectOutputFile returns the file handle for output. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetDBFilePath returns the default path of the SQLite release database.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".relwatch.db"
	}
	return filepath.Join(homeDir, ".relwatch.db")
}

// TruncateLabel shortens s to maxWidth runes with an ellipsis suffix.
func TruncateLabel(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
