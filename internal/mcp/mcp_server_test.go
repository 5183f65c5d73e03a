package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/relwatch/internal/contract"
	mcp_internal "github.com/huangsam/relwatch/internal/mcp"
	"github.com/huangsam/relwatch/internal/source"
	"github.com/huangsam/relwatch/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var period = schema.Period{Interval: "24h", Granularity: "1h"}

func baseConfig() *contract.Config {
	return &contract.Config{
		Window:   "24h",
		Category: schema.ShortWindow,
		Locale:   "en_US",
		Now:      time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC),
	}
}

func testDataset() schema.Dataset {
	return schema.Dataset{Releases: map[string]schema.ReleaseRecord{
		"1.4.0": {
			Series:  []schema.Series{{Name: "error", Period: period, Occurrences: []int{1, 2, 3}}},
			Summary: schema.SummaryMetrics{schema.KnownIssuesTotal: 10},
		},
		"1.5.0": {
			Series:  []schema.Series{{Name: "error", Period: period, Occurrences: []int{0, 0, 3, 5}}},
			Summary: schema.SummaryMetrics{schema.KnownIssuesTotal: 12},
		},
	}}
}

// callTool invokes a registered tool handler directly.
func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestResolveWindowTool(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	tests := []struct {
		name        string
		args        map[string]any
		granularity string
		count       int
		fallback    bool
	}{
		{"short 24h", map[string]any{"window": "24h"}, "1h", 24, false},
		{"release 7d", map[string]any{"window": "7d", "category": "release"}, "1d", 7, false},
		{"release unknown", map[string]any{"window": "3y", "category": "release"}, "1d", 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, s, "resolve_window", tt.args)
			require.False(t, res.IsError, resultText(res))

			var option schema.WindowOption
			require.NoError(t, json.Unmarshal([]byte(resultText(res)), &option))
			assert.Equal(t, tt.granularity, option.Bucket.Granularity)
			assert.Equal(t, tt.count, option.BucketCount)
			assert.Equal(t, tt.fallback, option.Fallback)
		})
	}

	t.Run("invalid category", func(t *testing.T) {
		res := callTool(t, s, "resolve_window", map[string]any{"window": "24h", "category": "weekly"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "invalid category")
	})
}

func TestBuildComparisonTool(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	res := callTool(t, s, "build_comparison", map[string]any{
		"primary":        `[{"name":"error","period":{"interval":"24h","granularity":"1h"},"occurrences":[0,0,3,5]}]`,
		"comparison":     `[{"name":"error","period":{"interval":"24h","granularity":"1h"},"occurrences":[1,2,3,4,5,6]}]`,
		"base_summary":   `{"known_issues_total":10,"users_affected":100}`,
		"target_summary": `{"known_issues_total":12,"users_affected":90}`,
		"base_version":   "1.4.0",
		"target_version": "1.5.0",
	})
	require.False(t, res.IsError, resultText(res))

	var snapshot schema.ComparisonSnapshot
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &snapshot))
	require.Len(t, snapshot.ChartPoints, 6)
	assert.Equal(t, "Nov 3 08:00", snapshot.ChartPoints[3].TimeLabel)
	assert.Equal(t, "Nov 3 10:00", snapshot.ChartPoints[5].TimeLabel)
	_, hasPrimary := snapshot.ChartPoints[5].Value(schema.PrimaryKey("error"))
	assert.False(t, hasPrimary)
	assert.Equal(t, schema.Worsened, snapshot.Delta[schema.KnownIssuesTotal].Polarity)
	assert.Equal(t, -10, snapshot.Delta[schema.UsersAffected].Value)
}

func TestBuildComparisonToolValidation(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	res := callTool(t, s, "build_comparison", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "primary is required")

	res = callTool(t, s, "build_comparison", map[string]any{"primary": "[{"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), "invalid primary")

	res = callTool(t, s, "build_comparison", map[string]any{
		"primary": `[{"name":"error_compare","period":{"interval":"24h","granularity":"1h"},"occurrences":[1]}]`,
	})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(res), schema.ErrReservedSeriesName.Error())
}

func TestCompareSummariesTool(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)

	res := callTool(t, s, "compare_summaries", map[string]any{
		"base":   `{"known_issues_total":10,"new_issues_total":5,"regressions_total":2,"resolved_in_version_total":3,"users_affected":100}`,
		"target": `{"known_issues_total":12,"new_issues_total":3,"regressions_total":1,"resolved_in_version_total":6,"users_affected":90}`,
	})
	require.False(t, res.IsError, resultText(res))

	var delta schema.Delta
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &delta))
	assert.Equal(t, 2, delta[schema.KnownIssuesTotal].Value)
	assert.Equal(t, schema.Worsened, delta[schema.KnownIssuesTotal].Polarity)
	assert.Equal(t, 3, delta[schema.ResolvedInVersionTotal].Value)
	assert.Equal(t, schema.Improved, delta[schema.ResolvedInVersionTotal].Polarity)

	res = callTool(t, s, "compare_summaries", map[string]any{"base": "{}"})
	assert.True(t, res.IsError)
}

func TestCompareReleasesTool(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), source.NewDatasetSource(testDataset()))

	t.Run("success", func(t *testing.T) {
		res := callTool(t, s, "compare_releases", map[string]any{"base_release": "1.4.0", "target_release": "1.5.0"})
		require.False(t, res.IsError, resultText(res))

		var snapshot schema.ComparisonSnapshot
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &snapshot))
		assert.Len(t, snapshot.ChartPoints, 4)
		assert.Equal(t, "1.5.0", snapshot.Release.TargetVersion)
		assert.Equal(t, 2, snapshot.Delta[schema.KnownIssuesTotal].Value)
	})

	t.Run("missing base release", func(t *testing.T) {
		res := callTool(t, s, "compare_releases", map[string]any{"target_release": "1.5.0"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "--base-release")
	})

	t.Run("same release", func(t *testing.T) {
		res := callTool(t, s, "compare_releases", map[string]any{"base_release": "1.5.0", "target_release": "1.5.0"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "must differ")
	})

	t.Run("unknown release", func(t *testing.T) {
		res := callTool(t, s, "compare_releases", map[string]any{"base_release": "0.1.0", "target_release": "1.5.0"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "unknown release: 0.1.0")
	})

	t.Run("no source", func(t *testing.T) {
		noSource := mcp_internal.NewMCPServer(baseConfig(), nil)
		res := callTool(t, noSource, "compare_releases", map[string]any{"base_release": "1.4.0", "target_release": "1.5.0"})
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(res), "no release source")
	})
}

func TestListReleasesTool(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), source.NewDatasetSource(testDataset()))

	res := callTool(t, s, "list_releases", nil)
	require.False(t, res.IsError, resultText(res))

	var releases []string
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &releases))
	assert.Equal(t, []string{"1.4.0", "1.5.0"}, releases)
}
