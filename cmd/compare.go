package cmd

import (
	"github.com/huangsam/relwatch/core"
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/spf13/cobra"
)

// checkCompareAndExecute validates compare mode and executes the given function.
func checkCompareAndExecute(executeFunc core.ExecutorFunc) {
	if !cfg.CompareMode {
		contract.LogFatal("Cannot run release comparison", contract.ErrMissingBaseRelease)
	}
	if err := runExecutor(executeFunc); err != nil {
		contract.LogFatal("Cannot run release comparison", err)
	}
}

// compareCmd focused on release-over-release comparisons.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare occurrence series and summaries between two releases.",
	Long: `Compare a target release against a base release over one canonical window.

The target release is charted as the primary series and the base release as the
comparison series (suffixed with _compare). The summary delta is target minus base,
classified per metric as improved, worsened or unchanged.

Ideal for:
- Release audits - see whether a rollout made things better or worse
- Regression detection - catch new errors before users report them
- Dashboards - export aligned chart points as JSON, CSV or Parquet

Examples:
  # Compare two releases from a dataset file
  relwatch compare --dataset releases.json --base-release 1.4.0 --target-release 1.5.0

  # Use the release window table
  relwatch compare --category release --window 14d --base-release 1.4.0 --target-release 1.5.0

  # Export the comparison to CSV
  relwatch compare --base-release 1.4.0 --target-release 1.5.0 --output csv --output-file compare.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		checkCompareAndExecute(core.ExecuteCompare)
	},
}

// chartCmd charts a single release.
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Chart the occurrence series of one release.",
	Long: `Chart one release over a canonical window, with no comparison set and no delta.

The release comes from --release, falling back to --target-release.

Examples:
  # Chart the last 24 hours of a release
  relwatch chart --dataset releases.json --release 1.5.0

  # Chart with German labels and a fixed clock
  relwatch chart --release 1.5.0 --locale de_DE --now 2025-11-03T10:00:00Z`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runExecutor(core.ExecuteChart); err != nil {
			contract.LogFatal("Cannot chart release", err)
		}
	},
}
