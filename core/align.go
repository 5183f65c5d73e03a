package core

import "github.com/huangsam/relwatch/schema"

// keyedSeries is a series tagged with its chart key.
type keyedSeries struct {
	key         schema.SeriesKey
	occurrences []int
}

// keySeries tags each series with kind, lets a later duplicate name replace an
// earlier one in place, and drops series with no non-zero bucket.
func keySeries(series []schema.Series, kind schema.SeriesKind) []keyedSeries {
	positions := make(map[string]int, len(series))
	keyed := make([]keyedSeries, 0, len(series))
	for _, s := range series {
		ks := keyedSeries{key: schema.SeriesKey{Kind: kind, Name: s.Name}, occurrences: s.Occurrences}
		if pos, ok := positions[s.Name]; ok {
			keyed[pos] = ks
			continue
		}
		positions[s.Name] = len(keyed)
		keyed = append(keyed, ks)
	}

	kept := keyed[:0]
	for _, ks := range keyed {
		if hasData(ks.occurrences) {
			kept = append(kept, ks)
		}
	}
	return kept
}

// hasData reports whether any bucket holds a non-zero count.
func hasData(occurrences []int) bool {
	for _, v := range occurrences {
		if v != 0 {
			return true
		}
	}
	return false
}

// Align folds primary and comparison series into one record per bucket index.
// Comparison values share the record of the same index under comparison keys.
// Positions past the end of a series are omitted from the record, never zeroed.
// The record count follows the longest input series, dropped ones included.
// When every series is dropped the result is empty.
// A nil comparison set behaves exactly like an empty one.
func Align(primary, comparison []schema.Series, labels schema.LabelSet) []schema.ChartPoint {
	p := keySeries(primary, schema.PrimaryKind)
	c := keySeries(comparison, schema.ComparisonKind)
	if len(p) == 0 && len(c) == 0 {
		return []schema.ChartPoint{}
	}

	total := max(schema.MaxLength(primary), schema.MaxLength(comparison))
	points := make([]schema.ChartPoint, 0, total)
	for i := range total {
		point := schema.ChartPoint{Index: i, TimeLabel: labelAt(labels, i)}
		point.Values = appendValues(point.Values, p, i)
		point.Values = appendValues(point.Values, c, i)
		points = append(points, point)
	}
	return points
}

// appendValues adds the value of every series that has a bucket at index i.
func appendValues(values []schema.SeriesValue, series []keyedSeries, i int) []schema.SeriesValue {
	for _, s := range series {
		if i < len(s.occurrences) {
			values = append(values, schema.SeriesValue{Key: s.key, Count: s.occurrences[i]})
		}
	}
	return values
}

// labelAt prefers the primary label and falls back to the comparison label.
func labelAt(labels schema.LabelSet, i int) string {
	if label, ok := labels.PrimaryAt(i); ok {
		return label
	}
	if label, ok := labels.ComparisonAt(i); ok {
		return label
	}
	return ""
}
