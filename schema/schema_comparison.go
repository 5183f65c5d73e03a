package schema

import (
	"slices"
	"time"
)

// SummaryMetrics maps a metric name to its integer value for one release.
type SummaryMetrics map[Metric]int

// Get returns the value for m, treating a missing metric as 0.
func (s SummaryMetrics) Get(m Metric) int {
	return s[m]
}

// MetricDelta is the signed change of one metric between two releases.
type MetricDelta struct {
	Value    int      `json:"value"`    // target - base
	Polarity Polarity `json:"polarity"` // improved, worsened or unchanged
	Base     int      `json:"base"`     // value in the base release
	Target   int      `json:"target"`   // value in the target release
}

// Delta maps each compared metric to its change.
type Delta map[Metric]MetricDelta

// Metrics returns the metrics of d with the known metrics first, then extras sorted by name.
func (d Delta) Metrics() []Metric {
	out := make([]Metric, 0, len(d))
	for _, m := range KnownMetrics {
		if _, ok := d[m]; ok {
			out = append(out, m)
		}
	}
	var extras []Metric
	for m := range d {
		if !slices.Contains(KnownMetrics, m) {
			extras = append(extras, m)
		}
	}
	slices.Sort(extras)
	return append(out, extras...)
}

// ComparisonResult is the delta between two named releases.
type ComparisonResult struct {
	BaseVersion   string `json:"base_version"`
	TargetVersion string `json:"target_version"`
	Delta         Delta  `json:"delta"`
}

// ComparisonInput is everything needed to build one release comparison.
type ComparisonInput struct {
	Window        string         `json:"window"`
	Category      WindowScope    `json:"category"`
	Locale        string         `json:"locale,omitempty"`
	Primary       []Series       `json:"primary"`
	Comparison    []Series       `json:"comparison,omitempty"`
	BaseVersion   string         `json:"base_version"`
	TargetVersion string         `json:"target_version"`
	BaseSummary   SummaryMetrics `json:"base_summary"`
	TargetSummary SummaryMetrics `json:"target_summary"`
}

// ReleaseQuery selects two stored releases and the window to chart them over.
type ReleaseQuery struct {
	Window        string      `json:"window"`
	Category      WindowScope `json:"category"`
	Locale        string      `json:"locale,omitempty"`
	BaseVersion   string      `json:"base_version"`
	TargetVersion string      `json:"target_version"`
}

// ComparisonSnapshot is the immutable result of one comparison build.
type ComparisonSnapshot struct {
	Window      string           `json:"window"`
	Category    WindowScope      `json:"category"`
	Bucket      BucketWidth      `json:"bucket"`
	Fallback    bool             `json:"fallback"`
	GeneratedAt time.Time        `json:"generated_at"`
	ChartPoints []ChartPoint     `json:"chart_points"`
	Delta       Delta            `json:"delta"`
	Release     ComparisonResult `json:"release"`
}

// ChartInput is a single-release chart request.
type ChartInput struct {
	Window   string      `json:"window"`
	Category WindowScope `json:"category"`
	Locale   string      `json:"locale,omitempty"`
	Version  string      `json:"version,omitempty"`
	Series   []Series    `json:"series"`
}

// ChartSnapshot is the immutable result of one chart build.
type ChartSnapshot struct {
	Window      string       `json:"window"`
	Category    WindowScope  `json:"category"`
	Version     string       `json:"version,omitempty"`
	Bucket      BucketWidth  `json:"bucket"`
	Fallback    bool         `json:"fallback"`
	GeneratedAt time.Time    `json:"generated_at"`
	ChartPoints []ChartPoint `json:"chart_points"`
}
