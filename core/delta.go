package core

import "github.com/huangsam/relwatch/schema"

// metricDirections says which sign of change improves each known metric.
// Metrics not listed here are treated as negative-is-good.
var metricDirections = map[schema.Metric]schema.Direction{
	schema.KnownIssuesTotal:       schema.NegativeIsGood,
	schema.NewIssuesTotal:         schema.NegativeIsGood,
	schema.RegressionsTotal:       schema.NegativeIsGood,
	schema.ResolvedInVersionTotal: schema.PositiveIsGood,
	schema.UsersAffected:          schema.NegativeIsGood,
}

// DirectionOf returns the improvement direction of a metric.
func DirectionOf(metric schema.Metric) schema.Direction {
	if dir, ok := metricDirections[metric]; ok {
		return dir
	}
	return schema.NegativeIsGood
}

// Classify turns a signed change into a polarity verdict for metric.
func Classify(metric schema.Metric, value int) schema.Polarity {
	if value == 0 {
		return schema.Unchanged
	}
	improved := value < 0
	if DirectionOf(metric) == schema.PositiveIsGood {
		improved = value > 0
	}
	if improved {
		return schema.Improved
	}
	return schema.Worsened
}

// Compare computes target minus base for the known metrics and every extra
// metric present on either side. A missing value counts as 0.
func Compare(base, target schema.SummaryMetrics) schema.Delta {
	delta := make(schema.Delta, len(schema.KnownMetrics))
	add := func(m schema.Metric) {
		if _, done := delta[m]; done {
			return
		}
		b, t := base.Get(m), target.Get(m)
		delta[m] = schema.MetricDelta{
			Value:    t - b,
			Polarity: Classify(m, t-b),
			Base:     b,
			Target:   t,
		}
	}

	for _, m := range schema.KnownMetrics {
		add(m)
	}
	for m := range base {
		add(m)
	}
	for m := range target {
		add(m)
	}
	return delta
}

// CompareReleases wraps Compare with the versions being compared.
func CompareReleases(baseVersion, targetVersion string, base, target schema.SummaryMetrics) schema.ComparisonResult {
	return schema.ComparisonResult{
		BaseVersion:   baseVersion,
		TargetVersion: targetVersion,
		Delta:         Compare(base, target),
	}
}
