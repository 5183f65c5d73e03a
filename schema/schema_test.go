package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/huangsam/relwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesKeyWire(t *testing.T) {
	tests := []struct {
		name     string
		key      schema.SeriesKey
		expected string
	}{
		{"primary", schema.PrimaryKey("error"), "error"},
		{"comparison", schema.ComparisonKey("error"), "error_compare"},
		{"comparison with underscore", schema.ComparisonKey("fatal_crash"), "fatal_crash_compare"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key.Wire())
			assert.Equal(t, tt.key, schema.ParseSeriesKey(tt.expected))
		})
	}
}

func TestParseSeriesKeyBareSuffix(t *testing.T) {
	// A series literally named "_compare" stays primary.
	assert.Equal(t, schema.PrimaryKey("_compare"), schema.ParseSeriesKey("_compare"))
}

func TestValidateSeriesNames(t *testing.T) {
	named := func(names ...string) []schema.Series {
		out := make([]schema.Series, len(names))
		for i, n := range names {
			out[i] = schema.Series{Name: n}
		}
		return out
	}

	tests := []struct {
		name    string
		sets    [][]schema.Series
		wantErr bool
	}{
		{"plain names", [][]schema.Series{named("error", "fatal_crash"), named("warning")}, false},
		{"no sets", nil, false},
		{"suffix in primary", [][]schema.Series{named("error", "foo_compare")}, true},
		{"suffix in comparison", [][]schema.Series{named("error"), named("foo_compare")}, true},
		{"suffix inside name", [][]schema.Series{named("error_compared")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.ValidateSeriesNames(tt.sets...)
			if tt.wantErr {
				assert.ErrorIs(t, err, schema.ErrReservedSeriesName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Valid names survive the wire round-trip; a primary "foo_compare" would not.
func TestSeriesKeyRoundTripForValidNames(t *testing.T) {
	for _, name := range []string{"error", "fatal_crash", "error_compared"} {
		require.NoError(t, schema.ValidateSeriesNames([]schema.Series{{Name: name}}))
		assert.Equal(t, schema.PrimaryKey(name), schema.ParseSeriesKey(schema.PrimaryKey(name).Wire()))
		assert.Equal(t, schema.ComparisonKey(name), schema.ParseSeriesKey(schema.ComparisonKey(name).Wire()))
	}
	assert.NotEqual(t, schema.PrimaryKey("foo_compare"), schema.ParseSeriesKey(schema.PrimaryKey("foo_compare").Wire()))
}

func TestChartPointJSON(t *testing.T) {
	point := schema.ChartPoint{
		Index:     2,
		TimeLabel: "Nov 3 08:00",
		Values: []schema.SeriesValue{
			{Key: schema.PrimaryKey("error"), Count: 0},
			{Key: schema.PrimaryKey("warning"), Count: 4},
			{Key: schema.ComparisonKey("error"), Count: 7},
		},
	}

	data, err := json.Marshal(point)
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":2,"timeLabel":"Nov 3 08:00","error":0,"warning":4,"error_compare":7}`, string(data))
	assert.Equal(t, `{"index":2,"timeLabel":"Nov 3 08:00","error":0,"warning":4,"error_compare":7}`, string(data))

	var decoded schema.ChartPoint
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, point, decoded)
}

func TestChartPointValue(t *testing.T) {
	point := schema.ChartPoint{Values: []schema.SeriesValue{{Key: schema.PrimaryKey("error"), Count: 0}}}

	count, ok := point.Value(schema.PrimaryKey("error"))
	assert.True(t, ok)
	assert.Equal(t, 0, count)

	_, ok = point.Value(schema.ComparisonKey("error"))
	assert.False(t, ok, "absent must be distinguishable from zero")
}

func TestChartPointUnmarshalRejectsArray(t *testing.T) {
	var p schema.ChartPoint
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &p))
}

func TestDeltaMetricsOrder(t *testing.T) {
	d := schema.Delta{
		"zeta_total":                  {},
		schema.UsersAffected:          {},
		"alpha_total":                 {},
		schema.KnownIssuesTotal:       {},
		schema.ResolvedInVersionTotal: {},
	}

	assert.Equal(t, []schema.Metric{
		schema.KnownIssuesTotal,
		schema.ResolvedInVersionTotal,
		schema.UsersAffected,
		"alpha_total",
		"zeta_total",
	}, d.Metrics())
}

func TestMaxLength(t *testing.T) {
	assert.Equal(t, 0, schema.MaxLength(nil))
	assert.Equal(t, 6, schema.MaxLength([]schema.Series{
		{Occurrences: []int{1, 2, 3, 4}},
		{Occurrences: []int{1, 2, 3, 4, 5, 6}},
	}))
}

func TestSourceBackendIsSQL(t *testing.T) {
	assert.False(t, schema.FileSource.IsSQL())
	assert.True(t, schema.SQLiteSource.IsSQL())
	assert.True(t, schema.MySQLSource.IsSQL())
	assert.True(t, schema.PostgreSQLSource.IsSQL())
}
