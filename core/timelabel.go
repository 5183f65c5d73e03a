package core

import (
	"slices"
	"time"

	"github.com/goodsign/monday"
)

// DefaultLocale is used when no locale or an unsupported one is requested.
const DefaultLocale = string(monday.LocaleEnUS)

// Label layouts keyed by granularity class.
const (
	subDayLayout  = "Jan 2 15:04" // short date and time of day
	dayLayout     = "Jan 2"       // date only
	monthlyLayout = "Jan 2006"    // month and year
)

// monthlyThreshold is the smallest granularity rendered as month and year.
const monthlyThreshold = 28 * 24 * time.Hour

// BucketInstant returns the representative instant of a bucket. The last
// bucket (index total-1) is now; each earlier bucket steps back one granularity.
func BucketInstant(index, total int, granularity time.Duration, now time.Time) time.Time {
	offset := time.Duration(total-1-index) * granularity
	return now.Add(-offset)
}

// LayoutFor picks which date fields a label shows for a granularity.
func LayoutFor(granularity time.Duration) string {
	switch {
	case granularity < 24*time.Hour:
		return subDayLayout
	case granularity < monthlyThreshold:
		return dayLayout
	default:
		return monthlyLayout
	}
}

// SupportedLocale reports whether labels can be formatted in locale.
func SupportedLocale(locale string) bool {
	return slices.Contains(monday.ListLocales(), monday.Locale(locale))
}

// resolveLocale returns locale when supported, else the default locale.
func resolveLocale(locale string) monday.Locale {
	if locale != "" && SupportedLocale(locale) {
		return monday.Locale(locale)
	}
	return monday.LocaleEnUS
}

// LabelFor formats the time label of one bucket. An invalid granularity token
// is treated as one hour.
func LabelFor(index, total int, granularity string, now time.Time, locale string) string {
	return formatLabel(index, total, ParseGranularity(granularity), now, resolveLocale(locale))
}

// GenerateLabels returns one label per bucket, oldest first, all relative to the same now.
func GenerateLabels(total int, granularity time.Duration, now time.Time, locale string) []string {
	if total <= 0 {
		return nil
	}
	if granularity <= 0 {
		granularity = fallbackGranularity
	}
	loc := resolveLocale(locale)
	labels := make([]string, total)
	for i := range labels {
		labels[i] = formatLabel(i, total, granularity, now, loc)
	}
	return labels
}

func formatLabel(index, total int, granularity time.Duration, now time.Time, locale monday.Locale) string {
	return monday.Format(BucketInstant(index, total, granularity, now), LayoutFor(granularity), locale)
}
