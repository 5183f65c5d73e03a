// Package parquet provides data structures and functions for exporting relwatch
// chart points and release deltas to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/relwatch/schema"
	"github.com/parquet-go/parquet-go"
)

// ChartPointRow is one series value of one chart point, in long format.
type ChartPointRow struct {
	// Index is the bucket index, oldest first
	Index int32 `parquet:"index,snappy"`

	// TimeLabel is the formatted bucket instant
	TimeLabel string `parquet:"time_label,snappy"`

	// Series is the series name without the compare suffix
	Series string `parquet:"series,snappy"`

	// Kind is either primary or comparison
	Kind string `parquet:"kind,snappy"`

	// Count is the occurrence count in this bucket
	Count int64 `parquet:"count,snappy"`

	// Window is the requested window token
	Window string `parquet:"window,snappy"`

	// Version is the release the chart was built for (nullable)
	Version *string `parquet:"version,optional,snappy"`

	// GeneratedAt is the instant labels were computed against
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// MetricDeltaRow is the change of one metric between two releases.
type MetricDeltaRow struct {
	Metric        string `parquet:"metric,snappy"`
	BaseVersion   string `parquet:"base_version,snappy"`
	TargetVersion string `parquet:"target_version,snappy"`
	Base          int64  `parquet:"base,snappy"`
	Target        int64  `parquet:"target,snappy"`
	Value         int64  `parquet:"value,snappy"`
	Polarity      string `parquet:"polarity,snappy"`
}

// writeRows writes data to a new Parquet file at outputPath.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is derived from the struct tags of T
	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteChartPointsParquet writes chart point rows to a Parquet file.
func WriteChartPointsParquet(data []ChartPointRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteMetricDeltasParquet writes metric delta rows to a Parquet file.
func WriteMetricDeltasParquet(data []MetricDeltaRow, outputPath string) error {
	return writeRows(data, outputPath)
}

// ReadChartPointsParquet reads chart point rows back from a Parquet file.
func ReadChartPointsParquet(path string) ([]ChartPointRow, error) {
	return parquet.ReadFile[ChartPointRow](path)
}

// ReadMetricDeltasParquet reads metric delta rows back from a Parquet file.
func ReadMetricDeltasParquet(path string) ([]MetricDeltaRow, error) {
	return parquet.ReadFile[MetricDeltaRow](path)
}

// ConvertChartPoints flattens chart points into one row per present series value.
// Absent values produce no row.
func ConvertChartPoints(points []schema.ChartPoint, window, version string, generatedAt time.Time) []ChartPointRow {
	var versionPtr *string
	if version != "" {
		versionPtr = &version
	}
	rows := make([]ChartPointRow, 0, len(points))
	for _, p := range points {
		for _, v := range p.Values {
			rows = append(rows, ChartPointRow{
				Index:       int32(p.Index),
				TimeLabel:   p.TimeLabel,
				Series:      v.Key.Name,
				Kind:        string(v.Key.Kind),
				Count:       int64(v.Count),
				Window:      window,
				Version:     versionPtr,
				GeneratedAt: generatedAt,
			})
		}
	}
	return rows
}

// ConvertComparisonResult converts a release comparison to one row per metric.
func ConvertComparisonResult(result schema.ComparisonResult) []MetricDeltaRow {
	metrics := result.Delta.Metrics()
	rows := make([]MetricDeltaRow, 0, len(metrics))
	for _, m := range metrics {
		d := result.Delta[m]
		rows = append(rows, MetricDeltaRow{
			Metric:        string(m),
			BaseVersion:   result.BaseVersion,
			TargetVersion: result.TargetVersion,
			Base:          int64(d.Base),
			Target:        int64(d.Target),
			Value:         int64(d.Value),
			Polarity:      string(d.Polarity),
		})
	}
	return rows
}
