package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/internal/parquet"
	"github.com/huangsam/relwatch/schema"
)

// PrintComparisonResults outputs a comparison snapshot, dispatching based on the output format configured.
func PrintComparisonResults(snapshot schema.ComparisonSnapshot, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		if err := writeParquetComparison(snapshot, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComparisonResults(w, snapshot, cfg)
	}, fmt.Sprintf("Wrote %s comparison results", cfg.Output))
}

// WriteComparisonResults writes a comparison snapshot to w in a stream format.
func WriteComparisonResults(w io.Writer, snapshot schema.ComparisonSnapshot, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, snapshot); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVComparison(w, snapshot); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return contract.ErrMissingOutputFile
	default:
		// Default to human-readable table
		if err := writeComparisonText(w, snapshot, cfg); err != nil {
			return fmt.Errorf("error writing comparison table output: %w", err)
		}
	}
	return nil
}

// writeComparisonText writes the release header, chart table and delta table.
func writeComparisonText(w io.Writer, snapshot schema.ComparisonSnapshot, cfg *contract.Config) error {
	maxLabelWidth := GetMaxLabelWidth(cfg)
	if err := writeComparisonHeader(w, snapshot.Release, maxLabelWidth); err != nil {
		return err
	}
	if err := writeBucketSummary(w, snapshot.Window, snapshot.Category, snapshot.Bucket, snapshot.Fallback, len(snapshot.ChartPoints)); err != nil {
		return err
	}
	if err := writeChartTable(w, snapshot.ChartPoints, GetTerminalWidth(cfg), maxLabelWidth); err != nil {
		return err
	}
	return writeDeltaTable(w, snapshot.Delta, cfg.UseColors)
}

// writeParquetComparison writes <output-file>.points.parquet and <output-file>.delta.parquet.
func writeParquetComparison(snapshot schema.ComparisonSnapshot, cfg *contract.Config) error {
	if err := requireOutputFile(cfg); err != nil {
		return err
	}

	pointsPath := parquetPath(cfg.OutputFile, "points")
	points := parquet.ConvertChartPoints(snapshot.ChartPoints, snapshot.Window, snapshot.Release.TargetVersion, snapshot.GeneratedAt)
	if err := parquet.WriteChartPointsParquet(points, pointsPath); err != nil {
		return err
	}

	deltaPath := parquetPath(cfg.OutputFile, "delta")
	deltas := parquet.ConvertComparisonResult(snapshot.Release)
	if err := parquet.WriteMetricDeltasParquet(deltas, deltaPath); err != nil {
		return err
	}

	contract.LogInfo("Wrote Parquet comparison", "points", pointsPath, "delta", deltaPath)
	return nil
}
