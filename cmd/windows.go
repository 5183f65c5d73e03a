package cmd

import (
	"os"

	"github.com/huangsam/relwatch/core"
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// categoryExplicit reports whether the category came from a flag, the environment or the config file.
func categoryExplicit(cmd *cobra.Command) bool {
	_, inEnv := os.LookupEnv("RELWATCH_CATEGORY")
	return cmd.Flags().Changed("category") || inEnv || viper.InConfig("category")
}

// windowsCmd lists the canonical window tables.
var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List the canonical window tokens and their bucket widths.",
	Long: `Print every window token with its interval, granularity and bucket count.

Without --category both tables are printed. The fallback row is the width used
for tokens that are not in the table.

Examples:
  relwatch windows
  relwatch windows --category release --output json`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		// Only an explicit category narrows the listing
		if !categoryExplicit(cmd) {
			cfg.Category = ""
		}
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWindows(rootCtx, cfg, nil, outwriter.NewOutWriter()); err != nil {
			contract.LogFatal("Cannot list windows", err)
		}
	},
}

// releasesCmd lists the releases known to the source.
var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "List the releases available in the configured source.",
	Long: `List every release version stored in the configured source, sorted.

Examples:
  relwatch releases --dataset releases.json
  relwatch releases --source sqlite --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runExecutor(core.ExecuteReleases); err != nil {
			contract.LogFatal("Cannot list releases", err)
		}
	},
}
