package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/readiness/core"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/iocache"
	"github.com/huangsam/readiness/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store maintenance.
// It skips day and weight validation and does not open the stores.
func storeSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("backend"))
	connStr := viper.GetString("db-connect")

	// Basic validation for database backends
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.Backend = backend
	cfg.DBConnect = connStr
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Precision = max(viper.GetInt("precision"), contract.DefaultPrecision)
	cfg.MetricsFile = viper.GetString("metrics-file")
	return nil
}

// storeOpenSetup is storeSetup plus opening the stores.
func storeOpenSetup(cmd *cobra.Command, args []string) error {
	if err := storeSetup(cmd, args); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.Backend, cfg.DBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// storeCmd focused on history store management.
//
// Note: store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by scoring commands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the history store (metrics, check-ins, scores, weights)",
	Long: `Manage the database that holds metrics, check-ins, scores, predictions
and model weights.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show row counts and connection info
  clear   - Remove all stored history
  migrate - Run schema migrations
  export  - Export history to Parquet

Examples:
  # Check store status
  readiness store status

  # Use PostgreSQL (set connection string via env variable)
  READINESS_BACKEND=postgresql READINESS_DB_CONNECT="host=... dbname=..." readiness store status`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display row counts and connection details",
	Long: `Show the backend, connection status, per-table row counts and the
oldest and newest recorded days.`,
	PreRunE: storeOpenSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreStatus(commandContext("store status"), cfg, storeManager); err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored history and model weights",
	Long: `Delete everything the store holds, including the model weights.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the history tables

Examples:
  # Export first, then clear
  readiness store export --output-file backup
  readiness store clear`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStores(cfg.Backend, contract.GetDBFilePath(), cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the history store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run schema migrations on the history store",
	Long: `Apply or roll back schema migrations. Other commands migrate to the
latest version automatically; use this to inspect or pin a version.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  readiness store migrate

  # Roll back every migration
  readiness store migrate --target-version 0`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.Backend, cfg.DBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to migrate store", err)
		}
	},
}

// storeExportCmd exports history to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored history to Parquet for analytics",
	Long: `Export stored history to Parquet files for pandas, DuckDB or Spark.

Writes three files named after --output-file with .scores.parquet,
.predictions.parquet and .metrics.parquet suffixes. The metrics file can
be loaded back with the import command.

Examples:
  readiness store export --output-file history`,
	PreRunE: storeOpenSetup,
	Run: func(_ *cobra.Command, _ []string) {
		var history contract.HistoryStore
		if storeManager != nil {
			history = storeManager.GetHistoryStore()
		}
		if err := iocache.ExportHistory(commandContext("store export"), history, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}
