package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
)

// deltaHeader is the CSV header for metric deltas.
var deltaHeader = []string{"metric", "base", "target", "value", "polarity"}

// writeDeltaRows writes one CSV row per metric.
func writeDeltaRows(w *csv.Writer, delta schema.Delta) error {
	for _, m := range delta.Metrics() {
		d := delta[m]
		row := []string{
			string(m),
			strconv.Itoa(d.Base),
			strconv.Itoa(d.Target),
			strconv.Itoa(d.Value),
			string(d.Polarity),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVDelta writes metric deltas with their header.
func writeCSVDelta(w io.Writer, delta schema.Delta) error {
	return writeCSVWithHeader(w, deltaHeader, func(cw *csv.Writer) error {
		return writeDeltaRows(cw, delta)
	})
}

// writeCSVComparison writes the chart points section, a blank line, then the delta section.
func writeCSVComparison(w io.Writer, snapshot schema.ComparisonSnapshot) error {
	if err := writeCSVChartPoints(w, snapshot.ChartPoints); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return writeCSVDelta(w, snapshot.Delta)
}

// writeDeltaTable writes metric deltas as a table with polarity verdicts.
func writeDeltaTable(w io.Writer, delta schema.Delta, useColors bool) error {
	table := newRightAlignedTable(w, []string{"Metric", "Base", "Target", "Delta", "Verdict"})

	var data [][]string
	for _, m := range delta.Metrics() {
		d := delta[m]
		verdict := contract.GetPlainLabel(d.Polarity)
		if useColors {
			verdict = contract.GetColorLabel(d.Polarity)
		}
		data = append(data, []string{
			string(m),
			strconv.Itoa(d.Base),
			strconv.Itoa(d.Target),
			contract.FormatSignedDelta(d, useColors),
			verdict,
		})
	}
	return renderTable(table, data)
}

// writeComparisonHeader writes the release pair being compared.
func writeComparisonHeader(w io.Writer, result schema.ComparisonResult, maxLabelWidth int) error {
	if result.BaseVersion == "" && result.TargetVersion == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "Comparing %s against %s\n",
		contract.TruncateLabel(result.TargetVersion, maxLabelWidth),
		contract.TruncateLabel(result.BaseVersion, maxLabelWidth))
	return err
}
