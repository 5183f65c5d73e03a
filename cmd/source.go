package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/relwatch/core"
	"github.com/huangsam/relwatch/internal/contract"
	"github.com/huangsam/relwatch/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// requireSQLSource fails unless the configured source is a database.
func requireSQLSource() error {
	if !cfg.Source.IsSQL() {
		return fmt.Errorf("the %s source has no database; use --source sqlite, mysql or postgresql", cfg.Source)
	}
	return nil
}

// sourceCmd focused on release source management.
var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage the release source and its SQL read model",
	Long: `Inspect and maintain the store that release series and summaries are read from.

Supported sources: file (JSON dataset, default), SQLite, MySQL, PostgreSQL

Subcommands:
  status  - Show source statistics
  migrate - Run database schema migrations
  import  - Load a JSON dataset into the SQL read model

Examples:
  # Check the default SQLite read model
  relwatch source status --source sqlite

  # Load releases into PostgreSQL
  relwatch source import --source postgresql --dataset releases.json`,
}

// sourceStatusCmd shows source status.
var sourceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display source statistics and connection details",
	Long: `Show information about the configured release source.

Displays:
- Backend type and connection status
- Total number of releases and series stored
- Database table sizes (SQL sources)

Examples:
  relwatch source status --dataset releases.json
  relwatch source status --source mysql --source-db-connect 'user:pass@tcp(localhost:3306)/relwatch'`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runExecutor(core.ExecuteSourceStatus); err != nil {
			contract.LogFatal("Failed to get source status", err)
		}
	},
}

// sourceMigrateCmd runs database migrations for the read model.
var sourceMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the release read model.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  relwatch source migrate --source sqlite

  # Migrate to specific version
  relwatch source migrate --source sqlite --target-version 1

  # Rollback everything
  relwatch source migrate --source sqlite --target-version 0`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		return requireSQLSource()
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := source.Migrate(cfg.Source, cfg.SourceDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// sourceImportCmd loads a dataset file into the read model.
var sourceImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a JSON dataset into the SQL read model",
	Long: `Read the releases of --dataset and store them in the configured SQL source.

Every release in the dataset replaces the stored rows of the same version.
Other releases are left untouched.

Examples:
  relwatch source import --source sqlite --dataset releases.json`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		return requireSQLSource()
	},
	Run: func(_ *cobra.Command, _ []string) {
		ds, err := source.LoadDataset(cfg.Dataset)
		if err != nil {
			contract.LogFatal("Failed to load dataset", err)
		}
		store, err := source.NewSQLSource(cfg.Source, cfg.SourceDBConnect)
		if err != nil {
			contract.LogFatal("Failed to open source", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.ImportDataset(rootCtx, ds); err != nil {
			_ = store.Close()
			contract.LogFatal("Failed to import dataset", err)
		}
		fmt.Printf("Imported %d releases into %s.\n", len(ds.Releases), cfg.Source)
	},
}
