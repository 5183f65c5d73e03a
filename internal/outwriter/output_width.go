package outwriter

import (
	"os"

	"github.com/huangsam/relwatch/internal/contract"
	"golang.org/x/term"
)

const (
	defaultTermWidth = 80 // Conservative default for narrow terminals and CI
	chartBaseWidth   = 30 // Index + Time columns with borders/padding
	chartColumnWidth = 14 // One series column with borders/padding
	minLabelWidth    = 12
	maxLabelWidth    = 40
)

// GetTerminalWidth returns the width override from cfg, else the detected terminal width.
func GetTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return defaultTermWidth
	}
	return detectedWidth
}

// useWideChart reports whether one column per series fits the terminal.
func useWideChart(termWidth, seriesCount int) bool {
	return chartBaseWidth+seriesCount*chartColumnWidth <= termWidth
}

// GetMaxLabelWidth returns the maximum width of a free-text column such as a
// release version or a series name.
func GetMaxLabelWidth(cfg *contract.Config) int {
	available := GetTerminalWidth(cfg) - chartBaseWidth - chartColumnWidth
	if available < minLabelWidth {
		return minLabelWidth
	}
	if available > maxLabelWidth {
		return maxLabelWidth
	}
	return available
}
