// Package cmd defines the command-line interface for relwatch.
package cmd

import (
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(windowsCmd)
	rootCmd.AddCommand(releasesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the source subcommands to the parent source command
	sourceCmd.AddCommand(sourceStatusCmd)
	sourceCmd.AddCommand(sourceMigrateCmd)
	sourceCmd.AddCommand(sourceImportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("window", "w", contract.DefaultWindow, "Window token to chart (e.g. 1h, 24h, 7d)")
	rootCmd.PersistentFlags().String("category", string(schema.ShortWindow), "Window table: short or release")
	rootCmd.PersistentFlags().String("locale", contract.DefaultLocale, "Locale for time labels (e.g. en_US, de_DE)")
	rootCmd.PersistentFlags().String("now", "", "Fixed clock for labels in ISO8601 or time ago (empty = wall clock)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("source", string(schema.FileSource), "Release source: file or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("dataset", "", "Path to the JSON dataset read by the file source")
	rootCmd.PersistentFlags().String("source-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.LogFormatText, "Log format: text or json")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of compareCmd to Viper
	compareCmd.Flags().String("base-release", "", "Base release for the BEFORE state")
	compareCmd.Flags().String("target-release", "", "Target release for the AFTER state")
	if err := viper.BindPFlags(compareCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compare flags", err)
	}

	// Bind all flags of chartCmd to Viper
	chartCmd.Flags().String("release", "", "Release to chart")
	if err := viper.BindPFlags(chartCmd.Flags()); err != nil {
		contract.LogFatal("Error binding chart flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListenAddr, "Address for the HTTP API to listen on")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of sourceMigrateCmd to Viper
	sourceMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(sourceMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding source migrate flags", err)
	}
}
