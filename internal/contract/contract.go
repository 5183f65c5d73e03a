// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"io"

	"github.com/huangsam/relwatch/schema"
)

// ReleaseSource supplies occurrence series and summaries for named releases.
// This allows the comparison flow to be tested without a real dataset or database.
type ReleaseSource interface {
	// FetchSeries returns the occurrence series of a release. Implementations
	// prefer series whose declared granularity matches bucket.
	FetchSeries(ctx context.Context, release string, bucket schema.BucketWidth) ([]schema.Series, error)

	// FetchSummary returns the summary metrics of a release.
	FetchSummary(ctx context.Context, release string) (schema.SummaryMetrics, error)

	// ListReleases returns every known release version, sorted.
	ListReleases(ctx context.Context) ([]string, error)

	// GetStatus returns status information about the source.
	GetStatus() (schema.SourceStatus, error)

	// Close releases any underlying connection.
	io.Closer
}

// ResultWriter renders command results in the configured output format.
type ResultWriter interface {
	WriteComparison(snapshot schema.ComparisonSnapshot, cfg *Config) error
	WriteChart(snapshot schema.ChartSnapshot, cfg *Config) error
	WriteWindows(options []schema.WindowOption, cfg *Config) error
	WriteReleases(releases []string, cfg *Config) error
	WriteSourceStatus(status schema.SourceStatus, cfg *Config) error
}
