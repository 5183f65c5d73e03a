package core

import (
	"time"

	"github.com/huangsam/relwatch/schema"
)

// clockOrNow returns clock, or the wall clock when clock is nil.
func clockOrNow(clock schema.Clock) schema.Clock {
	if clock == nil {
		return time.Now
	}
	return clock
}

// BuildComparison resolves the window once, labels the merged timeline once
// against a single captured now, aligns the series and computes the release delta.
// Both sides index into the same label sequence, so the last point is always now.
func BuildComparison(in schema.ComparisonInput, clock schema.Clock) schema.ComparisonSnapshot {
	now := clockOrNow(clock)()

	bucket, fallback := Resolve(in.Category, in.Window)
	granularity := GranularityOf(bucket)

	primaryLen, comparisonLen := schema.MaxLength(in.Primary), schema.MaxLength(in.Comparison)
	timeline := GenerateLabels(max(primaryLen, comparisonLen), granularity, now, in.Locale)
	labels := schema.LabelSet{
		Primary:    timeline[:primaryLen],
		Comparison: timeline[:comparisonLen],
	}

	release := CompareReleases(in.BaseVersion, in.TargetVersion, in.BaseSummary, in.TargetSummary)

	return schema.ComparisonSnapshot{
		Window:      in.Window,
		Category:    scopeOrDefault(in.Category),
		Bucket:      bucket,
		Fallback:    fallback,
		GeneratedAt: now,
		ChartPoints: Align(in.Primary, in.Comparison, labels),
		Delta:       release.Delta,
		Release:     release,
	}
}

// BuildChart is BuildComparison for a single release with no comparison set.
func BuildChart(in schema.ChartInput, clock schema.Clock) schema.ChartSnapshot {
	now := clockOrNow(clock)()

	bucket, fallback := Resolve(in.Category, in.Window)
	labels := schema.LabelSet{
		Primary: GenerateLabels(schema.MaxLength(in.Series), GranularityOf(bucket), now, in.Locale),
	}

	return schema.ChartSnapshot{
		Window:      in.Window,
		Category:    scopeOrDefault(in.Category),
		Version:     in.Version,
		Bucket:      bucket,
		Fallback:    fallback,
		GeneratedAt: now,
		ChartPoints: Align(in.Series, nil, labels),
	}
}

// scopeOrDefault maps unknown scopes to the short-window scope.
func scopeOrDefault(scope schema.WindowScope) schema.WindowScope {
	if _, ok := schema.ValidWindowScopes[scope]; ok {
		return scope
	}
	return schema.ShortWindow
}
