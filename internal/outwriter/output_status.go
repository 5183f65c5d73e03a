package outwriter

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
)

// PrintSourceStatus outputs release source status information.
func PrintSourceStatus(status schema.SourceStatus, cfg *contract.Config) error {
	if err := rejectParquet(cfg, "source status"); err != nil {
		return err
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSourceStatus(w, status, cfg)
	}, "Wrote source status")
}

// WriteSourceStatus writes release source status to w.
func WriteSourceStatus(w io.Writer, status schema.SourceStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeJSON(w, status)
	}

	_, _ = fmt.Fprintf(w, "Source Backend: %s\n", status.Backend)
	if status.Database != "" {
		_, _ = fmt.Fprintf(w, "Database: %s\n", status.Database)
	}
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return nil
	}
	_, _ = fmt.Fprintf(w, "Total Releases: %d\n", status.TotalReleases)
	_, _ = fmt.Fprintf(w, "Total Series: %d\n", status.TotalSeries)
	if len(status.TableSizes) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		if _, err := fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table]); err != nil {
			return err
		}
	}
	return nil
}
