package core

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/relwatch/schema"
)

// MaxBuckets bounds the number of buckets any canonical window may produce.
const MaxBuckets = 500

// fallbackGranularity is used when a declared granularity cannot be parsed.
const fallbackGranularity = time.Hour

// windowTable is the canonical token lookup for one window scope.
type windowTable struct {
	order    []string // ascending by interval
	widths   map[string]schema.BucketWidth
	fallback schema.BucketWidth
}

// windowTables holds one canonical table per scope, each with a single fallback entry.
var windowTables = map[schema.WindowScope]windowTable{
	schema.ShortWindow: {
		order: []string{"10m", "30m", "1h", "6h", "12h", "24h", "7d", "14d", "30d", "90d"},
		widths: map[string]schema.BucketWidth{
			"10m": {Interval: "10m", Granularity: "1m"},
			"30m": {Interval: "30m", Granularity: "1m"},
			"1h":  {Interval: "1h", Granularity: "5m"},
			"6h":  {Interval: "6h", Granularity: "30m"},
			"12h": {Interval: "12h", Granularity: "30m"},
			"24h": {Interval: "24h", Granularity: "1h"},
			"7d":  {Interval: "7d", Granularity: "6h"},
			"14d": {Interval: "14d", Granularity: "12h"},
			"30d": {Interval: "30d", Granularity: "1d"},
			"90d": {Interval: "90d", Granularity: "1d"},
		},
		fallback: schema.BucketWidth{Interval: "6h", Granularity: "30m"},
	},
	schema.ReleaseWindow: {
		order: []string{"1d", "7d", "14d", "30d", "60d", "90d"},
		widths: map[string]schema.BucketWidth{
			"1d":  {Interval: "1d", Granularity: "1h"},
			"7d":  {Interval: "7d", Granularity: "1d"},
			"14d": {Interval: "14d", Granularity: "1d"},
			"30d": {Interval: "30d", Granularity: "1d"},
			"60d": {Interval: "60d", Granularity: "1d"},
			"90d": {Interval: "90d", Granularity: "7d"},
		},
		fallback: schema.BucketWidth{Interval: "30d", Granularity: "1d"},
	},
}

// tableFor returns the table of a scope. Unknown scopes use the short-window table.
func tableFor(scope schema.WindowScope) windowTable {
	if table, ok := windowTables[scope]; ok {
		return table
	}
	return windowTables[schema.ShortWindow]
}

// Resolve maps a window token to its bucket width. Unknown tokens resolve to
// the scope's fallback width and report fallback as true.
func Resolve(scope schema.WindowScope, token string) (bucket schema.BucketWidth, fallback bool) {
	table := tableFor(scope)
	if width, ok := table.widths[strings.ToLower(strings.TrimSpace(token))]; ok {
		return width, false
	}
	return table.fallback, true
}

// FallbackWidth returns the bucket width used for unknown tokens in a scope.
func FallbackWidth(scope schema.WindowScope) schema.BucketWidth {
	return tableFor(scope).fallback
}

// WindowTokens returns the known tokens of a scope, shortest window first.
func WindowTokens(scope schema.WindowScope) []string {
	order := tableFor(scope).order
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// WindowOptions returns every canonical entry of a scope followed by its fallback.
func WindowOptions(scope schema.WindowScope) []schema.WindowOption {
	table := tableFor(scope)
	if _, ok := windowTables[scope]; !ok {
		scope = schema.ShortWindow
	}
	options := make([]schema.WindowOption, 0, len(table.order)+1)
	for _, token := range table.order {
		width := table.widths[token]
		options = append(options, schema.WindowOption{
			Token:       token,
			Category:    scope,
			Bucket:      width,
			BucketCount: BucketCount(width),
		})
	}
	options = append(options, schema.WindowOption{
		Token:       "*",
		Category:    scope,
		Bucket:      table.fallback,
		BucketCount: BucketCount(table.fallback),
		Fallback:    true,
	})
	return options
}

// BucketCount returns ceil(interval / granularity), or 0 if either span is invalid.
func BucketCount(bucket schema.BucketWidth) int {
	interval, err := ParseSpan(bucket.Interval)
	if err != nil {
		return 0
	}
	granularity, err := ParseSpan(bucket.Granularity)
	if err != nil {
		return 0
	}
	return int(math.Ceil(float64(interval) / float64(granularity)))
}

// GranularityOf returns the bucket granularity as a duration.
func GranularityOf(bucket schema.BucketWidth) time.Duration {
	return ParseGranularity(bucket.Granularity)
}

// ParseGranularity parses a granularity token, using one hour when it is invalid.
func ParseGranularity(token string) time.Duration {
	d, err := ParseSpan(token)
	if err != nil {
		return fallbackGranularity
	}
	return d
}

// spanRe captures "N[unit]" tokens with day and week units.
var spanRe = regexp.MustCompile(`^(\d+)\s*(d|w)$`)

// ParseSpan converts tokens like "30m", "24h", "7d" or "2w" into a duration.
// Go duration strings are tried first, then day and week suffixes.
func ParseSpan(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, errors.New("empty span")
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("span must be positive: %s", s)
		}
		return d, nil
	}

	matches := spanRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid span format: %s", s)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid span value: %s", s)
	}
	if value == 0 {
		return 0, fmt.Errorf("span must be positive: %s", s)
	}

	day := 24 * time.Hour
	switch matches[2] {
	case "w":
		return time.Duration(value) * 7 * day, nil
	default:
		return time.Duration(value) * day, nil
	}
}
