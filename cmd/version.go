package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of relwatch.",
	Long: `Display version information including build details and the
source backends compiled into this binary.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("relwatch CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
		cmd.Printf("  Sources: file, sqlite, mysql, postgresql\n")
	},
}
