package outwriter

import (
	"fmt"
	"io"

	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/internal/parquet"
	"github.com/huangsam/relwatch/schema"
)

// PrintChartResults outputs a chart snapshot, dispatching based on the output format configured.
func PrintChartResults(snapshot schema.ChartSnapshot, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		if err := writeParquetChart(snapshot, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		return nil
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteChartResults(w, snapshot, cfg)
	}, fmt.Sprintf("Wrote %s chart results", cfg.Output))
}

// WriteChartResults writes a chart snapshot to w in a stream format.
func WriteChartResults(w io.Writer, snapshot schema.ChartSnapshot, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, snapshot); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeCSVChartPoints(w, snapshot.ChartPoints); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return contract.ErrMissingOutputFile
	default:
		// Default to human-readable table
		if err := writeChartText(w, snapshot, cfg); err != nil {
			return fmt.Errorf("error writing chart table output: %w", err)
		}
	}
	return nil
}

// writeChartText writes the window summary followed by the chart table.
func writeChartText(w io.Writer, snapshot schema.ChartSnapshot, cfg *contract.Config) error {
	if snapshot.Version != "" {
		if _, err := fmt.Fprintf(w, "Release %s\n", snapshot.Version); err != nil {
			return err
		}
	}
	if err := writeBucketSummary(w, snapshot.Window, snapshot.Category, snapshot.Bucket, snapshot.Fallback, len(snapshot.ChartPoints)); err != nil {
		return err
	}
	return writeChartTable(w, snapshot.ChartPoints, GetTerminalWidth(cfg), GetMaxLabelWidth(cfg))
}

// writeParquetChart writes the chart points to <output-file>.points.parquet.
func writeParquetChart(snapshot schema.ChartSnapshot, cfg *contract.Config) error {
	if err := requireOutputFile(cfg); err != nil {
		return err
	}
	path := parquetPath(cfg.OutputFile, "points")
	rows := parquet.ConvertChartPoints(snapshot.ChartPoints, snapshot.Window, snapshot.Version, snapshot.GeneratedAt)
	if err := parquet.WriteChartPointsParquet(rows, path); err != nil {
		return err
	}
	contract.LogInfo("Wrote Parquet chart points", "path", path, "rows", len(rows))
	return nil
}
