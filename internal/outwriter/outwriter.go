// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

var _ contract.ResultWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteComparison prints a release comparison using the configured output format.
func (ow *OutWriter) WriteComparison(snapshot schema.ComparisonSnapshot, cfg *contract.Config) error {
	return PrintComparisonResults(snapshot, cfg)
}

// WriteChart prints a single-release chart using the configured output format.
func (ow *OutWriter) WriteChart(snapshot schema.ChartSnapshot, cfg *contract.Config) error {
	return PrintChartResults(snapshot, cfg)
}

// WriteWindows prints the window table using the configured output format.
func (ow *OutWriter) WriteWindows(options []schema.WindowOption, cfg *contract.Config) error {
	return PrintWindowOptions(options, cfg)
}

// WriteReleases prints the known releases using the configured output format.
func (ow *OutWriter) WriteReleases(releases []string, cfg *contract.Config) error {
	return PrintReleases(releases, cfg)
}

// WriteSourceStatus prints release source status using the configured output format.
func (ow *OutWriter) WriteSourceStatus(status schema.SourceStatus, cfg *contract.Config) error {
	return PrintSourceStatus(status, cfg)
}
