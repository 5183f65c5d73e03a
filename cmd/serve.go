package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/huangsam/relwatch/internal/api"
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/internal/mcp"
	"github.com/huangsam/relwatch/internal/source"
	"github.com/huangsam/relwatch/schema"
	"github.com/spf13/cobra"
)

// withOptionalSource runs fn with the configured source, or with nil when the
// file source has no dataset. Servers still answer the stateless routes then.
func withOptionalSource(fn func(src contract.ReleaseSource) error) error {
	if cfg.Source == schema.FileSource && cfg.Dataset == "" {
		contract.LogWarn("Serving without a release source", source.ErrNoDataset)
		return fn(nil)
	}
	return withSource(fn)
}

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relwatch HTTP API",
	Long: `Serve comparisons, charts, deltas and window tables over HTTP for the release dashboard.

Routes:
  POST /api/v1/comparisons                  - build a comparison from posted series
  POST /api/v1/charts                       - build a single-release chart
  POST /api/v1/deltas                       - compare two summaries
  GET  /api/v1/windows/:category            - list a canonical window table
  GET  /api/v1/releases                     - list stored releases
  GET  /api/v1/releases/:version/comparison - compare a stored release against ?base=
  GET  /healthz, /metrics

Examples:
  relwatch serve --dataset releases.json
  relwatch serve --source postgresql --listen :9090`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return withOptionalSource(func(src contract.ReleaseSource) error {
			return api.Serve(ctx, cfg, src)
		})
	},
}

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the relwatch MCP server",
	Long:  `Launch an MCP server that allows AI agents to resolve windows and compare releases via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so stdio stays reserved for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return withOptionalSource(func(src contract.ReleaseSource) error {
			return mcp.StartMCPServer(context.WithoutCancel(rootCtx), cfg, src)
		})
	},
}
