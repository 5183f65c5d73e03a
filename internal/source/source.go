// Package source reads release series and summaries from a dataset file or a SQL read model.
package source

import (
	"fmt"

	"github.com/huangsam/relwatch/core"
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
)

// NewReleaseSource opens the release source selected by cfg.
func NewReleaseSource(cfg *contract.Config) (contract.ReleaseSource, error) {
	switch {
	case cfg.Source == schema.FileSource:
		return NewFileSource(cfg.Dataset)
	case cfg.Source.IsSQL():
		return NewSQLSource(cfg.Source, cfg.SourceDBConnect)
	default:
		return nil, fmt.Errorf("unsupported source: %s. Must be file, sqlite, mysql, or postgresql", cfg.Source)
	}
}

// unknownRelease wraps ErrUnknownRelease with the requested version.
func unknownRelease(release string) error {
	return fmt.Errorf("%w: %s", contract.ErrUnknownRelease, release)
}

// selectSeries keeps the series whose declared granularity matches bucket.
// When none match, every series is returned so that the chart still renders.
func selectSeries(series []schema.Series, bucket schema.BucketWidth) []schema.Series {
	want, err := core.ParseSpan(bucket.Granularity)
	if err != nil {
		return series
	}
	matched := make([]schema.Series, 0, len(series))
	for _, s := range series {
		if got, err := core.ParseSpan(s.Period.Granularity); err == nil && got == want {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return series
	}
	return matched
}

// cloneSeries deep-copies series so callers cannot mutate source state.
func cloneSeries(series []schema.Series) []schema.Series {
	out := make([]schema.Series, len(series))
	for i, s := range series {
		out[i] = s
		out[i].Occurrences = append([]int(nil), s.Occurrences...)
	}
	return out
}
