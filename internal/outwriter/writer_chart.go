package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
)

// absentCell marks a series with no value at a bucket.
const absentCell = "-"

// chartPointsHeader is the long-format CSV header for chart points.
var chartPointsHeader = []string{"index", "time_label", "series", "kind", "count"}

// chartKeys returns the union of series keys across points in first-seen order.
func chartKeys(points []schema.ChartPoint) []schema.SeriesKey {
	seen := map[schema.SeriesKey]bool{}
	var keys []schema.SeriesKey
	for _, p := range points {
		for _, v := range p.Values {
			if !seen[v.Key] {
				seen[v.Key] = true
				keys = append(keys, v.Key)
			}
		}
	}
	return keys
}

// writeChartPointRows writes one CSV row per present series value.
func writeChartPointRows(w *csv.Writer, points []schema.ChartPoint) error {
	for _, p := range points {
		for _, v := range p.Values {
			row := []string{
				strconv.Itoa(p.Index),
				p.TimeLabel,
				v.Key.Name,
				string(v.Key.Kind),
				strconv.Itoa(v.Count),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCSVChartPoints writes chart points in long format.
func writeCSVChartPoints(w io.Writer, points []schema.ChartPoint) error {
	return writeCSVWithHeader(w, chartPointsHeader, func(cw *csv.Writer) error {
		return writeChartPointRows(cw, points)
	})
}

// wideChartRows builds one row per point with one column per series key.
func wideChartRows(points []schema.ChartPoint, keys []schema.SeriesKey) (headers []string, data [][]string) {
	headers = []string{"#", "Time"}
	for _, k := range keys {
		headers = append(headers, k.Wire())
	}
	for _, p := range points {
		row := []string{strconv.Itoa(p.Index), p.TimeLabel}
		for _, k := range keys {
			if count, ok := p.Value(k); ok {
				row = append(row, strconv.Itoa(count))
			} else {
				row = append(row, absentCell)
			}
		}
		data = append(data, row)
	}
	return headers, data
}

// longChartRows builds one row per present series value.
func longChartRows(points []schema.ChartPoint, maxLabelWidth int) (headers []string, data [][]string) {
	headers = []string{"#", "Time", "Series", "Count"}
	for _, p := range points {
		for _, v := range p.Values {
			data = append(data, []string{
				strconv.Itoa(p.Index),
				p.TimeLabel,
				contract.TruncateLabel(v.Key.Wire(), maxLabelWidth),
				strconv.Itoa(v.Count),
			})
		}
	}
	return headers, data
}

// writeChartTable writes the chart points as a table, wide when it fits termWidth.
func writeChartTable(w io.Writer, points []schema.ChartPoint, termWidth, maxLabelWidth int) error {
	if len(points) == 0 {
		_, err := fmt.Fprintln(w, "No data points in this window.")
		return err
	}
	keys := chartKeys(points)
	var headers []string
	var data [][]string
	if useWideChart(termWidth, len(keys)) {
		headers, data = wideChartRows(points, keys)
	} else {
		headers, data = longChartRows(points, maxLabelWidth)
	}
	return renderTable(newRightAlignedTable(w, headers), data)
}

// writeBucketSummary writes the one-line window description above a chart.
func writeBucketSummary(w io.Writer, window string, category schema.WindowScope, bucket schema.BucketWidth, fallback bool, points int) error {
	line := fmt.Sprintf("Window %s (%s): %s buckets over %s, %d points", window, category, bucket.Granularity, bucket.Interval, points)
	if fallback {
		line += " [unknown window, using fallback]"
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
