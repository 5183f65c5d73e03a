// Package schema has the value types shared by every part of relwatch.
package schema

import "time"

// Period is the declared bucket layout of a series, as reported by the backend.
type Period struct {
	Interval    string `json:"interval"`    // Window covered by the series (e.g. "24h")
	Granularity string `json:"granularity"` // Width of one bucket (e.g. "1h")
}

// Series is one named occurrence-count array, oldest bucket first.
type Series struct {
	Name        string `json:"name"`
	Period      Period `json:"period"`
	Occurrences []int  `json:"occurrences"`
}

// BucketWidth is the resolved interval and granularity for a window token.
// Both fields hold span tokens such as "30m", "6h" or "7d".
type BucketWidth struct {
	Interval    string `json:"interval"`
	Granularity string `json:"granularity"`
}

// Clock supplies the current instant. Callers capture it once per build.
type Clock func() time.Time

// WindowOption describes one entry of a canonical window table.
type WindowOption struct {
	Token       string      `json:"token"`
	Category    WindowScope `json:"category"`
	Bucket      BucketWidth `json:"bucket"`
	BucketCount int         `json:"bucket_count"`
	Fallback    bool        `json:"fallback"`
}

// LabelSet holds the time labels for each side of an alignment.
type LabelSet struct {
	Primary    []string
	Comparison []string
}

// PrimaryAt returns the primary label at index i, if any.
func (l LabelSet) PrimaryAt(i int) (string, bool) {
	if i < 0 || i >= len(l.Primary) {
		return "", false
	}
	return l.Primary[i], true
}

// ComparisonAt returns the comparison label at index i, if any.
func (l LabelSet) ComparisonAt(i int) (string, bool) {
	if i < 0 || i >= len(l.Comparison) {
		return "", false
	}
	return l.Comparison[i], true
}

// MaxLength returns the longest occurrences length across the given series.
func MaxLength(series []Series) int {
	longest := 0
	for _, s := range series {
		if len(s.Occurrences) > longest {
			longest = len(s.Occurrences)
		}
	}
	return longest
}
