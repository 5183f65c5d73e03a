package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/relwatch/core"
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// errNoSource is returned by release tools when the server has no source.
var errNoSource = errors.New("no release source is configured")

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	src     contract.ReleaseSource
}

// windowArgs reads the window and category arguments, defaulting to the base config.
func (h *toolHandler) windowArgs(request mcp.CallToolRequest) (string, schema.WindowScope, error) {
	window := request.GetString("window", h.baseCfg.Window)
	category := schema.WindowScope(request.GetString("category", string(h.baseCfg.Category)))
	if category == "" {
		category = schema.ShortWindow
	}
	if _, ok := schema.ValidWindowScopes[category]; !ok {
		return "", "", fmt.Errorf("invalid category '%s'. must be short, release", category)
	}
	return window, category, nil
}

// decodeArg unmarshals an optional JSON string argument into out.
func decodeArg(request mcp.CallToolRequest, name string, out any) error {
	raw := request.GetString(name, "")
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

// jsonResult marshals v as the text content of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleResolveWindow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window, category, err := h.windowArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if window == "" {
		return mcp.NewToolResultError("window is required"), nil
	}

	bucket, fallback := core.ResolveWindow(ctx, category, window)
	return jsonResult(schema.WindowOption{
		Token:       window,
		Category:    category,
		Bucket:      bucket,
		BucketCount: core.BucketCount(bucket),
		Fallback:    fallback,
	})
}

func (h *toolHandler) handleBuildComparison(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	window, category, err := h.windowArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	in := schema.ComparisonInput{
		Window:        window,
		Category:      category,
		Locale:        request.GetString("locale", h.baseCfg.Locale),
		BaseVersion:   request.GetString("base_version", ""),
		TargetVersion: request.GetString("target_version", ""),
	}
	if request.GetString("primary", "") == "" {
		return mcp.NewToolResultError("primary is required"), nil
	}
	for name, out := range map[string]any{
		"primary":        &in.Primary,
		"comparison":     &in.Comparison,
		"base_summary":   &in.BaseSummary,
		"target_summary": &in.TargetSummary,
	} {
		if err := decodeArg(request, name, out); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if err := schema.ValidateSeriesNames(in.Primary, in.Comparison); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Surface the fallback warning before building
	core.ResolveWindow(ctx, category, window)
	return jsonResult(core.BuildComparison(in, h.baseCfg.Clock()))
}

func (h *toolHandler) handleCompareSummaries(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var base, target schema.SummaryMetrics
	if request.GetString("base", "") == "" || request.GetString("target", "") == "" {
		return mcp.NewToolResultError("base and target are required"), nil
	}
	if err := decodeArg(request, "base", &base); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := decodeArg(request, "target", &target); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(core.Compare(base, target))
}

func (h *toolHandler) handleCompareReleases(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.src == nil {
		return mcp.NewToolResultError(errNoSource.Error()), nil
	}
	window, category, err := h.windowArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	q := schema.ReleaseQuery{
		Window:        window,
		Category:      category,
		Locale:        h.baseCfg.Locale,
		BaseVersion:   request.GetString("base_release", ""),
		TargetVersion: request.GetString("target_release", ""),
	}
	switch {
	case q.BaseVersion == "":
		return mcp.NewToolResultError(contract.ErrMissingBaseRelease.Error()), nil
	case q.TargetVersion == "":
		return mcp.NewToolResultError(contract.ErrMissingTargetRelease.Error()), nil
	case q.BaseVersion == q.TargetVersion:
		return mcp.NewToolResultError(contract.ErrSameRelease.Error()), nil
	}

	snapshot, err := core.CompareFromSource(ctx, h.src, q, h.baseCfg.Clock())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(snapshot)
}

func (h *toolHandler) handleListReleases(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.src == nil {
		return mcp.NewToolResultError(errNoSource.Error()), nil
	}
	releases, err := h.src.ListReleases(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing releases failed: %v", err)), nil
	}
	return jsonResult(releases)
}
