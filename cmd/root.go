package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/readiness/core"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/internal/iocache"
	"github.com/huangsam/readiness/internal/telemetry"
	"github.com/huangsam/readiness/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "readiness",
	Short:              "Score daily training readiness and forecast tomorrow.",
	Long:               `Readiness turns heart rate, HRV, sleep and energy check-ins into a daily 0-100 score that personalizes itself as history accumulates.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSource()

	// Set environment variable prefix
	viper.SetEnvPrefix("READINESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("transition-days", contract.DefaultTransitionDays)
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("color", "yes")
	viper.SetDefault("emoji", "no")
}

// setConfigSource points viper at --config or the default .readiness.yaml locations.
func setConfigSource() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".readiness") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// loadConfigFile reads the config file if one is present.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the stores.
func sharedSetup(_ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing into the global 'cfg'.
	if err := contract.ProcessAndValidate(cfg, input, time.Now()); err != nil {
		return err
	}

	if err := contract.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 4. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.Backend, cfg.DBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// commandContext tags the root context with a run ID and the process recorder.
func commandContext(name string) context.Context {
	runID := uuid.NewString()
	contract.Logger().Debug("starting command", zap.String("command", name), zap.String("run_id", runID))
	ctx := core.WithRunID(rootCtx, runID)
	return core.WithRecorder(ctx, telemetry.Default)
}

// runExecutor adapts a core executor into a cobra Run function.
func runExecutor(name, failure string, fn core.ExecutorFunc) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := fn(commandContext(name), cfg, storeManager); err != nil {
			contract.LogFatal(failure, err)
		}
		writeMetricsFile()
	}
}

// writeMetricsFile exports the run's counters when --metrics-file is set.
func writeMetricsFile() {
	if err := telemetry.Default.WriteTextfile(cfg.MetricsFile); err != nil {
		contract.LogWarn("Cannot write metrics file", err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}
