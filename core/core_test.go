package core_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/huangsam/relwatch/core"
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/internal/outwriter"
	"github.com/huangsam/relwatch/internal/source"
	"github.com/huangsam/relwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)

var hourly = schema.Period{Interval: "24h", Granularity: "1h"}

func compareConfig() *contract.Config {
	return &contract.Config{
		Window:        "24h",
		Category:      schema.ShortWindow,
		Now:           now,
		Output:        schema.TextOut,
		CompareMode:   true,
		BaseRelease:   "1.4.0",
		TargetRelease: "1.5.0",
	}
}

// captureLogs redirects the package logger for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := contract.Logger
	contract.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { contract.Logger = original })
	return &buf
}

func TestExecuteCompare(t *testing.T) {
	ctx := context.Background()
	cfg := compareConfig()
	bucket := schema.BucketWidth{Interval: "24h", Granularity: "1h"}

	src := &source.MockReleaseSource{}
	src.On("FetchSeries", ctx, "1.5.0", bucket).Return([]schema.Series{
		{Name: "error", Period: hourly, Occurrences: []int{0, 0, 3, 5}},
	}, nil)
	src.On("FetchSeries", ctx, "1.4.0", bucket).Return([]schema.Series{
		{Name: "error", Period: hourly, Occurrences: []int{1, 2, 3, 4, 5, 6}},
	}, nil)
	src.On("FetchSummary", ctx, "1.5.0").Return(schema.SummaryMetrics{schema.UsersAffected: 90}, nil)
	src.On("FetchSummary", ctx, "1.4.0").Return(schema.SummaryMetrics{schema.UsersAffected: 100}, nil)

	w := &outwriter.MockResultWriter{}
	w.On("WriteComparison", mock.MatchedBy(func(s schema.ComparisonSnapshot) bool {
		return len(s.ChartPoints) == 6 &&
			s.GeneratedAt.Equal(now) &&
			s.Release.BaseVersion == "1.4.0" &&
			s.Release.TargetVersion == "1.5.0" &&
			s.Delta[schema.UsersAffected].Value == -10 &&
			s.Delta[schema.UsersAffected].Polarity == schema.Improved
	}), cfg).Return(nil)

	require.NoError(t, core.ExecuteCompare(ctx, cfg, src, w))
	src.AssertExpectations(t)
	w.AssertExpectations(t)
}

func TestExecuteCompareRequiresCompareMode(t *testing.T) {
	cfg := compareConfig()
	cfg.CompareMode = false

	err := core.ExecuteCompare(context.Background(), cfg, &source.MockReleaseSource{}, &outwriter.MockResultWriter{})
	assert.ErrorIs(t, err, contract.ErrMissingBaseRelease)
}

func TestExecuteCompareUnknownRelease(t *testing.T) {
	ctx := context.Background()
	src := &source.MockReleaseSource{}
	src.On("FetchSeries", ctx, "1.5.0", mock.Anything).Return(nil, contract.ErrUnknownRelease)
	w := &outwriter.MockResultWriter{}

	err := core.ExecuteCompare(ctx, compareConfig(), src, w)
	assert.ErrorIs(t, err, contract.ErrUnknownRelease)
	assert.ErrorContains(t, err, "target release")
	w.AssertNotCalled(t, "WriteComparison", mock.Anything, mock.Anything)
}

func TestExecuteChartFallbackWindowIsLogged(t *testing.T) {
	logs := captureLogs(t)
	ctx := core.WithRequestID(context.Background(), "req-42")
	cfg := &contract.Config{Window: "3y", Category: schema.ReleaseWindow, Now: now, Release: "1.5.0"}
	fallback := schema.BucketWidth{Interval: "30d", Granularity: "1d"}

	src := &source.MockReleaseSource{}
	src.On("FetchSeries", ctx, "1.5.0", fallback).Return([]schema.Series{
		{Name: "error", Occurrences: []int{0, 4}},
	}, nil)
	w := &outwriter.MockResultWriter{}
	w.On("WriteChart", mock.MatchedBy(func(s schema.ChartSnapshot) bool {
		return s.Fallback && s.Version == "1.5.0" && len(s.ChartPoints) == 2
	}), cfg).Return(nil)

	require.NoError(t, core.ExecuteChart(ctx, cfg, src, w))
	w.AssertExpectations(t)

	out := logs.String()
	assert.Contains(t, out, "using fallback")
	assert.Contains(t, out, "request_id=req-42")
	assert.Contains(t, out, "unknown window token")
}

func TestExecuteChartMissingRelease(t *testing.T) {
	err := core.ExecuteChart(context.Background(), &contract.Config{}, &source.MockReleaseSource{}, &outwriter.MockResultWriter{})
	assert.ErrorIs(t, err, contract.ErrMissingRelease)
}

func TestExecuteWindows(t *testing.T) {
	tests := []struct {
		name     string
		category schema.WindowScope
		expected int
	}{
		{"all categories", "", len(core.WindowOptions(schema.ShortWindow)) + len(core.WindowOptions(schema.ReleaseWindow))},
		{"release only", schema.ReleaseWindow, len(core.WindowOptions(schema.ReleaseWindow))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Category: tt.category}
			w := &outwriter.MockResultWriter{}
			w.On("WriteWindows", mock.MatchedBy(func(o []schema.WindowOption) bool {
				return len(o) == tt.expected
			}), cfg).Return(nil)

			require.NoError(t, core.ExecuteWindows(context.Background(), cfg, nil, w))
			w.AssertExpectations(t)
		})
	}
}

func TestExecuteReleases(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{}
	src := &source.MockReleaseSource{}
	src.On("ListReleases", ctx).Return([]string{"1.4.0", "1.5.0"}, nil)
	w := &outwriter.MockResultWriter{}
	w.On("WriteReleases", []string{"1.4.0", "1.5.0"}, cfg).Return(nil)

	require.NoError(t, core.ExecuteReleases(ctx, cfg, src, w))
	w.AssertExpectations(t)
}

func TestExecuteSourceStatus(t *testing.T) {
	cfg := &contract.Config{}
	status := schema.SourceStatus{Backend: "file", Connected: true, TotalReleases: 2}

	src := &source.MockReleaseSource{}
	src.On("GetStatus").Return(status, nil)
	w := &outwriter.MockResultWriter{}
	w.On("WriteSourceStatus", status, cfg).Return(nil)
	require.NoError(t, core.ExecuteSourceStatus(context.Background(), cfg, src, w))
	w.AssertExpectations(t)

	failing := &source.MockReleaseSource{}
	failing.On("GetStatus").Return(schema.SourceStatus{}, errors.New("connection refused"))
	err := core.ExecuteSourceStatus(context.Background(), cfg, failing, w)
	assert.ErrorContains(t, err, "failed to get source status")
}

func TestCompareFromFileSource(t *testing.T) {
	ds := schema.Dataset{Releases: map[string]schema.ReleaseRecord{
		"1.4.0": {
			Series:  []schema.Series{{Name: "error", Period: hourly, Occurrences: []int{0, 0, 0}}},
			Summary: schema.SummaryMetrics{schema.KnownIssuesTotal: 10},
		},
		"1.5.0": {
			Series:  []schema.Series{{Name: "error", Period: hourly, Occurrences: []int{1, 0, 2}}},
			Summary: schema.SummaryMetrics{schema.KnownIssuesTotal: 10},
		},
	}}
	q := schema.ReleaseQuery{Window: "24h", Category: schema.ShortWindow, BaseVersion: "1.4.0", TargetVersion: "1.5.0"}

	snapshot, err := core.CompareFromSource(context.Background(), source.NewDatasetSource(ds), q, contract.FixedClock(now))
	require.NoError(t, err)

	require.Len(t, snapshot.ChartPoints, 3)
	for _, p := range snapshot.ChartPoints {
		_, hasCompare := p.Value(schema.ComparisonKey("error"))
		assert.False(t, hasCompare, "all-zero base series must be dropped")
	}
	assert.Equal(t, schema.Unchanged, snapshot.Delta[schema.KnownIssuesTotal].Polarity)
}
