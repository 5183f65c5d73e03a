// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/relwatch/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the relwatch MCP server without starting it.
// The source may be nil, in which case the release tools report an error.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, src contract.ReleaseSource) *server.MCPServer {
	s := server.NewMCPServer(
		"Relwatch Release Comparison Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		src:     src,
	}

	// --- 1. Tool: resolve_window ---
	s.AddTool(mcp.NewTool("resolve_window",
		mcp.WithDescription("Resolve a window token (e.g. '24h', '7d') to its bucket interval and granularity."),
		mcp.WithString("window", mcp.Description("The window token to resolve."), mcp.Required()),
		mcp.WithString("category", mcp.Description("Window table to use. Defaults to 'short'."), mcp.Enum("short", "release")),
	), h.handleResolveWindow)

	// --- 2. Tool: build_comparison ---
	s.AddTool(mcp.NewTool("build_comparison",
		mcp.WithDescription("Align primary and comparison occurrence series into time-labeled chart points and compute the release delta."),
		mcp.WithString("primary", mcp.Description("JSON array of series: [{name, period: {interval, granularity}, occurrences: [...]}]."), mcp.Required()),
		mcp.WithString("comparison", mcp.Description("Optional JSON array of comparison series.")),
		mcp.WithString("base_summary", mcp.Description("Optional JSON object of base release summary metrics.")),
		mcp.WithString("target_summary", mcp.Description("Optional JSON object of target release summary metrics.")),
		mcp.WithString("base_version", mcp.Description("Base release version.")),
		mcp.WithString("target_version", mcp.Description("Target release version.")),
		mcp.WithString("window", mcp.Description("Window token. Defaults to the configured window.")),
		mcp.WithString("category", mcp.Description("Window table to use."), mcp.Enum("short", "release")),
		mcp.WithString("locale", mcp.Description("Locale for time labels (e.g. 'en_US', 'de_DE').")),
	), h.handleBuildComparison)

	// --- 3. Tool: compare_summaries ---
	s.AddTool(mcp.NewTool("compare_summaries",
		mcp.WithDescription("Compute the signed, polarity-aware delta between two release summaries."),
		mcp.WithString("base", mcp.Description("JSON object of base summary metrics."), mcp.Required()),
		mcp.WithString("target", mcp.Description("JSON object of target summary metrics."), mcp.Required()),
	), h.handleCompareSummaries)

	// --- 4. Tool: compare_releases ---
	s.AddTool(mcp.NewTool("compare_releases",
		mcp.WithDescription("Compare two releases stored in the configured release source."),
		mcp.WithString("base_release", mcp.Description("The base release version."), mcp.Required()),
		mcp.WithString("target_release", mcp.Description("The target release version."), mcp.Required()),
		mcp.WithString("window", mcp.Description("Window token. Defaults to the configured window.")),
		mcp.WithString("category", mcp.Description("Window table to use."), mcp.Enum("short", "release")),
	), h.handleCompareReleases)

	// --- 5. Tool: list_releases ---
	s.AddTool(mcp.NewTool("list_releases",
		mcp.WithDescription("List every release known to the configured release source."),
	), h.handleListReleases)

	return s
}

// StartMCPServer starts the relwatch MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, src contract.ReleaseSource) error {
	s := NewMCPServer(baseCfg, src)
	return server.ServeStdio(s)
}
