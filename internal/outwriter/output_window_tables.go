package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
)

// PrintWindowOptions outputs the window tables, dispatching based on the output format configured.
func PrintWindowOptions(options []schema.WindowOption, cfg *contract.Config) error {
	if err := rejectParquet(cfg, "window tables"); err != nil {
		return err
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteWindowOptions(w, options, cfg)
	}, "Wrote window tables")
}

// WriteWindowOptions writes window options to w.
func WriteWindowOptions(w io.Writer, options []schema.WindowOption, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, options)
	case schema.CSVOut:
		header := []string{"category", "token", "interval", "granularity", "bucket_count", "fallback"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, o := range options {
				row := []string{
					string(o.Category),
					o.Token,
					o.Bucket.Interval,
					o.Bucket.Granularity,
					strconv.Itoa(o.BucketCount),
					strconv.FormatBool(o.Fallback),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		table := newRightAlignedTable(w, []string{"Category", "Window", "Interval", "Granularity", "Buckets"})
		var data [][]string
		for _, o := range options {
			token := o.Token
			if o.Fallback {
				token += " (fallback)"
			}
			data = append(data, []string{
				string(o.Category),
				token,
				o.Bucket.Interval,
				o.Bucket.Granularity,
				strconv.Itoa(o.BucketCount),
			})
		}
		return renderTable(table, data)
	}
}

// PrintReleases outputs the known release versions.
func PrintReleases(releases []string, cfg *contract.Config) error {
	if err := rejectParquet(cfg, "release lists"); err != nil {
		return err
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteReleases(w, releases, cfg)
	}, "Wrote release list")
}

// WriteReleases writes release versions to w.
func WriteReleases(w io.Writer, releases []string, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if releases == nil {
			releases = []string{}
		}
		return writeJSON(w, releases)
	case schema.CSVOut:
		return writeCSVWithHeader(w, []string{"release"}, func(cw *csv.Writer) error {
			for _, r := range releases {
				if err := cw.Write([]string{r}); err != nil {
					return err
				}
			}
			return nil
		})
	default:
		if len(releases) == 0 {
			_, err := fmt.Fprintln(w, "No releases found.")
			return err
		}
		maxWidth := GetMaxLabelWidth(cfg)
		for _, r := range releases {
			if _, err := fmt.Fprintln(w, contract.TruncateLabel(r, maxWidth)); err != nil {
				return err
			}
		}
		return nil
	}
}

// rejectParquet fails for listings that have no Parquet layout.
func rejectParquet(cfg *contract.Config, what string) error {
	if cfg.Output == schema.ParquetOut {
		return fmt.Errorf("parquet output is not supported for %s", what)
	}
	return nil
}
