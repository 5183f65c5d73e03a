// Package core has core logic for window resolution, time labeling, series alignment and release deltas.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, src contract.ReleaseSource, w contract.ResultWriter) error

// ResolveWindow resolves a window token and logs a warning when the fallback width is used.
func ResolveWindow(ctx context.Context, scope schema.WindowScope, token string) (schema.BucketWidth, bool) {
	bucket, fallback := Resolve(scope, token)
	if fallback {
		contract.LogWarn("Window token not in table, using fallback",
			fmt.Errorf("%w: %q", contract.ErrUnknownWindow, token),
			logArgs(ctx, "category", scopeOrDefault(scope), "interval", bucket.Interval, "granularity", bucket.Granularity)...)
	}
	return bucket, fallback
}

// CompareFromSource fetches both releases of q from src and builds the comparison.
// The target release is the primary set and the base release is the comparison set.
func CompareFromSource(ctx context.Context, src contract.ReleaseSource, q schema.ReleaseQuery, clock schema.Clock) (schema.ComparisonSnapshot, error) {
	bucket, _ := ResolveWindow(ctx, q.Category, q.Window)

	primary, err := src.FetchSeries(ctx, q.TargetVersion, bucket)
	if err != nil {
		return schema.ComparisonSnapshot{}, fmt.Errorf("failed to fetch series for target release: %w", err)
	}
	comparison, err := src.FetchSeries(ctx, q.BaseVersion, bucket)
	if err != nil {
		return schema.ComparisonSnapshot{}, fmt.Errorf("failed to fetch series for base release: %w", err)
	}
	targetSummary, err := src.FetchSummary(ctx, q.TargetVersion)
	if err != nil {
		return schema.ComparisonSnapshot{}, fmt.Errorf("failed to fetch summary for target release: %w", err)
	}
	baseSummary, err := src.FetchSummary(ctx, q.BaseVersion)
	if err != nil {
		return schema.ComparisonSnapshot{}, fmt.Errorf("failed to fetch summary for base release: %w", err)
	}

	return BuildComparison(schema.ComparisonInput{
		Window:        q.Window,
		Category:      q.Category,
		Locale:        q.Locale,
		Primary:       primary,
		Comparison:    comparison,
		BaseVersion:   q.BaseVersion,
		TargetVersion: q.TargetVersion,
		BaseSummary:   baseSummary,
		TargetSummary: targetSummary,
	}, clock), nil
}

// ChartFromSource fetches one release from src and builds its chart.
func ChartFromSource(ctx context.Context, src contract.ReleaseSource, in schema.ChartInput, clock schema.Clock) (schema.ChartSnapshot, error) {
	bucket, _ := ResolveWindow(ctx, in.Category, in.Window)

	series, err := src.FetchSeries(ctx, in.Version, bucket)
	if err != nil {
		return schema.ChartSnapshot{}, fmt.Errorf("failed to fetch series: %w", err)
	}
	in.Series = series
	return BuildChart(in, clock), nil
}

// ExecuteCompare compares the configured base and target releases and writes the snapshot.
// It serves as the main entry point for the 'compare' command.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, src contract.ReleaseSource, w contract.ResultWriter) error {
	if !cfg.CompareMode {
		return contract.ErrMissingBaseRelease
	}
	start := time.Now()

	snapshot, err := CompareFromSource(ctx, src, schema.ReleaseQuery{
		Window:        cfg.Window,
		Category:      cfg.Category,
		Locale:        cfg.Locale,
		BaseVersion:   cfg.BaseRelease,
		TargetVersion: cfg.TargetRelease,
	}, cfg.Clock())
	if err != nil {
		return err
	}

	contract.LogDebug("Comparison built", logArgs(ctx,
		"base", cfg.BaseRelease, "target", cfg.TargetRelease,
		"points", len(snapshot.ChartPoints), "duration", time.Since(start))...)
	return w.WriteComparison(snapshot, cfg)
}

// ExecuteChart charts a single release and writes the snapshot.
// It serves as the main entry point for the 'chart' command.
func ExecuteChart(ctx context.Context, cfg *contract.Config, src contract.ReleaseSource, w contract.ResultWriter) error {
	release, err := cfg.ChartRelease()
	if err != nil {
		return err
	}
	start := time.Now()

	snapshot, err := ChartFromSource(ctx, src, schema.ChartInput{
		Window:   cfg.Window,
		Category: cfg.Category,
		Locale:   cfg.Locale,
		Version:  release,
	}, cfg.Clock())
	if err != nil {
		return err
	}

	contract.LogDebug("Chart built", logArgs(ctx, "release", release, "points", len(snapshot.ChartPoints), "duration", time.Since(start))...)
	return w.WriteChart(snapshot, cfg)
}

// ExecuteWindows writes the canonical window table of the configured category,
// or of every category when none is set.
func ExecuteWindows(_ context.Context, cfg *contract.Config, _ contract.ReleaseSource, w contract.ResultWriter) error {
	scopes := schema.AllWindowScopes
	if cfg.Category != "" {
		scopes = []schema.WindowScope{cfg.Category}
	}
	var options []schema.WindowOption
	for _, scope := range scopes {
		options = append(options, WindowOptions(scope)...)
	}
	return w.WriteWindows(options, cfg)
}

// ExecuteReleases writes every release known to the source.
func ExecuteReleases(ctx context.Context, cfg *contract.Config, src contract.ReleaseSource, w contract.ResultWriter) error {
	releases, err := src.ListReleases(ctx)
	if err != nil {
		return err
	}
	return w.WriteReleases(releases, cfg)
}

// ExecuteSourceStatus writes status information about the source.
func ExecuteSourceStatus(_ context.Context, cfg *contract.Config, src contract.ReleaseSource, w contract.ResultWriter) error {
	status, err := src.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get source status: %w", err)
	}
	return w.WriteSourceStatus(status, cfg)
}
