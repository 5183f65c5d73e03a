//go:build basic

package integration

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/relwatch/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileArgs points a command at the bundled dataset with a fixed clock.
func fileArgs(args ...string) []string {
	return append(args, "--dataset", datasetPath, "--now", fixedNow)
}

func TestCompareFromDataset(t *testing.T) {
	out, err := runRelwatch(t, nil, fileArgs("compare",
		"--base-release", "2.3.0", "--target-release", "2.4.0", "--output", "json")...)
	require.NoError(t, err)

	var snapshot schema.ComparisonSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))

	assert.Equal(t, schema.BucketWidth{Interval: "24h", Granularity: "1h"}, snapshot.Bucket)
	require.Len(t, snapshot.ChartPoints, 24)
	assert.Equal(t, "Nov 3 10:00", snapshot.ChartPoints[23].TimeLabel)

	// The all-zero fatal series of the target is dropped, the base one is kept
	_, ok := snapshot.ChartPoints[0].Value(schema.PrimaryKey("fatal"))
	assert.False(t, ok)
	_, ok = snapshot.ChartPoints[0].Value(schema.ComparisonKey("fatal"))
	assert.True(t, ok)

	assert.Equal(t, -4, snapshot.Delta[schema.KnownIssuesTotal].Value)
	assert.Equal(t, schema.Improved, snapshot.Delta[schema.KnownIssuesTotal].Polarity)
	assert.Equal(t, schema.Improved, snapshot.Delta[schema.ResolvedInVersionTotal].Polarity)
	assert.Equal(t, schema.Worsened, snapshot.Delta[schema.RegressionsTotal].Polarity)
	assert.Equal(t, 14, snapshot.Delta["crash_free_sessions_lost"].Value)
}

func TestChartFromDataset(t *testing.T) {
	out, err := runRelwatch(t, nil, fileArgs("chart",
		"--release", "2.3.0", "--category", "release", "--window", "14d", "--output", "csv")...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "index,time_label,series,kind,count", lines[0])
	assert.Len(t, lines, 1+14)
	assert.Contains(t, out, "13,Nov 3,error,primary,80")
}

func TestWindowsAndReleases(t *testing.T) {
	t.Run("windows", func(t *testing.T) {
		out, err := runRelwatch(t, nil, "windows", "--output", "json")
		require.NoError(t, err)

		var options []schema.WindowOption
		require.NoError(t, json.Unmarshal([]byte(out), &options))
		assert.Len(t, options, 18)

		out, err = runRelwatch(t, nil, "windows", "--category", "release", "--output", "json")
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal([]byte(out), &options))
		assert.Len(t, options, 7)
	})

	t.Run("releases", func(t *testing.T) {
		out, err := runRelwatch(t, nil, fileArgs("releases", "--output", "json")...)
		require.NoError(t, err)

		var releases []string
		require.NoError(t, json.Unmarshal([]byte(out), &releases))
		assert.Equal(t, []string{"2.3.0", "2.4.0"}, releases)
	})
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown release", fileArgs("compare", "--base-release", "2.3.0", "--target-release", "9.9.9")},
		{"same release", fileArgs("compare", "--base-release", "2.3.0", "--target-release", "2.3.0")},
		{"missing dataset", []string{"releases"}},
		{"parquet without file", fileArgs("chart", "--release", "2.3.0", "--output", "parquet")},
		{"migrate file source", []string{"source", "migrate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runRelwatch(t, nil, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestSQLiteSource(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "relwatch.db")
	env := []string{"RELWATCH_SOURCE=sqlite", "RELWATCH_SOURCE_DB_CONNECT=" + dbPath}

	out, err := runRelwatch(t, env, "source", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully migrated")

	out, err = runRelwatch(t, env, "source", "import", "--dataset", datasetPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 releases")

	out, err = runRelwatch(t, env, "releases", "--output", "json")
	require.NoError(t, err)
	var releases []string
	require.NoError(t, json.Unmarshal([]byte(out), &releases))
	assert.Equal(t, []string{"2.3.0", "2.4.0"}, releases)

	out, err = runRelwatch(t, env, "compare", "--now", fixedNow,
		"--base-release", "2.3.0", "--target-release", "2.4.0", "--output", "json")
	require.NoError(t, err)
	var snapshot schema.ComparisonSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snapshot))
	assert.Len(t, snapshot.ChartPoints, 24)
	assert.Equal(t, -4, snapshot.Delta[schema.KnownIssuesTotal].Value)

	out, err = runRelwatch(t, env, "source", "status", "--output", "json")
	require.NoError(t, err)
	var status schema.SourceStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 2, status.TotalReleases)

	out, err = runRelwatch(t, env, "source", "migrate", "--target-version", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back")
}
