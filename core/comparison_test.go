package core

import (
	"sync"
	"testing"
	"time"

	"github.com/huangsam/relwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildComparison(t *testing.T) {
	in := schema.ComparisonInput{
		Window:        "24h",
		Category:      schema.ShortWindow,
		Locale:        "en_US",
		Primary:       []schema.Series{series("error", 0, 0, 3, 5), series("info", 0, 0, 0, 0)},
		Comparison:    []schema.Series{series("error", 1, 1, 1, 1)},
		BaseVersion:   "1.4.0",
		TargetVersion: "1.5.0",
		BaseSummary:   baseSummary,
		TargetSummary: targetSummary,
	}

	snap := BuildComparison(in, fixedClock)

	assert.Equal(t, "24h", snap.Window)
	assert.Equal(t, schema.ShortWindow, snap.Category)
	assert.Equal(t, schema.BucketWidth{Interval: "24h", Granularity: "1h"}, snap.Bucket)
	assert.False(t, snap.Fallback)
	assert.Equal(t, fixedNow, snap.GeneratedAt)

	require.Len(t, snap.ChartPoints, 4)
	assert.Equal(t, "Nov 3 07:00", snap.ChartPoints[0].TimeLabel)
	assert.Equal(t, "Nov 3 10:00", snap.ChartPoints[3].TimeLabel)
	for _, p := range snap.ChartPoints {
		assert.Equal(t, []schema.SeriesKey{schema.PrimaryKey("error"), schema.ComparisonKey("error")}, p.Keys())
	}

	assert.Equal(t, Compare(baseSummary, targetSummary), snap.Delta)
	assert.Equal(t, "1.4.0", snap.Release.BaseVersion)
	assert.Equal(t, "1.5.0", snap.Release.TargetVersion)
	assert.Equal(t, snap.Delta, snap.Release.Delta)
}

func TestBuildComparisonUnknownWindowFallsBack(t *testing.T) {
	snap := BuildComparison(schema.ComparisonInput{
		Window:   "forever",
		Category: schema.ReleaseWindow,
		Primary:  []schema.Series{series("error", 1)},
	}, fixedClock)

	assert.True(t, snap.Fallback)
	assert.Equal(t, schema.BucketWidth{Interval: "30d", Granularity: "1d"}, snap.Bucket)
	require.Len(t, snap.ChartPoints, 1)
	assert.Equal(t, "Nov 3", snap.ChartPoints[0].TimeLabel)
}

func TestBuildComparisonLengthMismatchSharesTimeline(t *testing.T) {
	tests := []struct {
		name       string
		primary    []int
		comparison []int
		last       string
	}{
		{"longer comparison", []int{1, 2, 3, 4}, []int{1, 2, 3, 4, 5, 6}, "Nov 3 10:00"},
		{"longer primary", []int{1, 2, 3, 4, 5, 6}, []int{1, 2}, "Nov 3 10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := BuildComparison(schema.ComparisonInput{
				Window:     "24h",
				Category:   schema.ShortWindow,
				Primary:    []schema.Series{series("error", tt.primary...)},
				Comparison: []schema.Series{series("error", tt.comparison...)},
			}, fixedClock)

			require.Len(t, snap.ChartPoints, 6)
			assert.Equal(t, tt.last, snap.ChartPoints[5].TimeLabel)
			assert.Equal(t, "Nov 3 05:00", snap.ChartPoints[0].TimeLabel)

			seen := map[string]bool{}
			for i := len(snap.ChartPoints) - 1; i > 0; i-- {
				newer, err := time.Parse("Jan 2 15:04", snap.ChartPoints[i].TimeLabel)
				require.NoError(t, err)
				older, err := time.Parse("Jan 2 15:04", snap.ChartPoints[i-1].TimeLabel)
				require.NoError(t, err)
				assert.True(t, older.Before(newer), "label %d must be older than label %d", i-1, i)
				assert.False(t, seen[snap.ChartPoints[i].TimeLabel])
				seen[snap.ChartPoints[i].TimeLabel] = true
			}
		})
	}
}

func TestBuildComparisonIgnoresComparisonGranularity(t *testing.T) {
	comparison := []schema.Series{{
		Name:        "error",
		Period:      schema.Period{Interval: "7d", Granularity: "1d"},
		Occurrences: []int{1, 2, 3},
	}}
	snap := BuildComparison(schema.ComparisonInput{
		Window:     "24h",
		Category:   schema.ShortWindow,
		Primary:    []schema.Series{series("error", 1)},
		Comparison: comparison,
	}, fixedClock)

	require.Len(t, snap.ChartPoints, 3)
	assert.Equal(t, []string{"Nov 3 08:00", "Nov 3 09:00", "Nov 3 10:00"}, []string{
		snap.ChartPoints[0].TimeLabel, snap.ChartPoints[1].TimeLabel, snap.ChartPoints[2].TimeLabel,
	})
}

func TestBuildComparisonCapturesClockOnce(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		return fixedNow.Add(time.Duration(calls) * time.Hour)
	}

	snap := BuildComparison(schema.ComparisonInput{
		Window:     "24h",
		Primary:    []schema.Series{series("error", 1, 1)},
		Comparison: []schema.Series{series("error", 1, 1, 1)},
	}, clock)

	assert.Equal(t, 1, calls)
	assert.Equal(t, fixedNow.Add(time.Hour), snap.GeneratedAt)
}

func TestBuildComparisonNilClock(t *testing.T) {
	before := time.Now()
	snap := BuildComparison(schema.ComparisonInput{Window: "1h"}, nil)

	assert.False(t, snap.GeneratedAt.Before(before))
	assert.Empty(t, snap.ChartPoints)
	assert.Len(t, snap.Delta, len(schema.KnownMetrics))
}

func TestBuildComparisonUnknownCategory(t *testing.T) {
	snap := BuildComparison(schema.ComparisonInput{Window: "1h", Category: "dashboard"}, fixedClock)
	assert.Equal(t, schema.ShortWindow, snap.Category)
	assert.Equal(t, schema.BucketWidth{Interval: "1h", Granularity: "5m"}, snap.Bucket)
}

func TestBuildComparisonConcurrent(t *testing.T) {
	in := schema.ComparisonInput{
		Window:        "7d",
		Category:      schema.ReleaseWindow,
		Primary:       []schema.Series{series("error", 1, 0, 2)},
		BaseSummary:   baseSummary,
		TargetSummary: targetSummary,
	}
	expected := BuildComparison(in, fixedClock)

	var wg sync.WaitGroup
	results := make([]schema.ComparisonSnapshot, 16)
	for i := range results {
		wg.Go(func() {
			results[i] = BuildComparison(in, fixedClock)
		})
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, expected, r)
	}
}

func TestBuildChart(t *testing.T) {
	snap := BuildChart(schema.ChartInput{
		Window:   "24h",
		Category: schema.ShortWindow,
		Version:  "1.5.0",
		Series:   []schema.Series{series("error", 0, 0, 3, 5), series("warning", 0, 0, 0, 0)},
	}, fixedClock)

	assert.Equal(t, "1.5.0", snap.Version)
	assert.False(t, snap.Fallback)
	require.Len(t, snap.ChartPoints, 4)
	for _, p := range snap.ChartPoints {
		assert.Equal(t, []schema.SeriesKey{schema.PrimaryKey("error")}, p.Keys())
	}
}
