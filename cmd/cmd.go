// Package cmd defines the command-line interface for readiness.
package cmd

import (
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the model subcommands to the parent model command
	modelCmd.AddCommand(modelStatusCmd)
	modelCmd.AddCommand(modelClearCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyScoresCmd)
	historyCmd.AddCommand(historyPredictionsCmd)
	historyCmd.AddCommand(historyExamplesCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("date", "", "Day to act on: YYYY-MM-DD, today, yesterday or 'N days ago'")
	rootCmd.PersistentFlags().IntP("energy", "e", 0, "Energy self-report from 1 (drained) to 5 (fresh); 0 means not reported")
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Write output to this file instead of stdout")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns: 1 or 2")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 means auto-detect)")
	rootCmd.PersistentFlags().String("emoji", "no", "Use emojis in text output: yes or no")
	rootCmd.PersistentFlags().String("color", "yes", "Use colors in text output: yes or no")
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Connection string for mysql or postgresql (prefer READINESS_DB_CONNECT)")
	rootCmd.PersistentFlags().Int("transition-days", contract.DefaultTransitionDays, "Days of data before the personalized model takes over fully")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file with rotation")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus textfile metrics here after each command")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of checkinCmd to Viper
	checkinCmd.Flags().String("slot", "", "Check-in slot: morning or evening (defaults by time of day)")
	if err := viper.BindPFlags(checkinCmd.Flags()); err != nil {
		contract.LogFatal("Error binding checkin flags", err)
	}

	// Flags of recordCmd are read directly so that unset signals stay missing
	recordCmd.Flags().Float64("rhr", 0, "Resting heart rate in bpm")
	recordCmd.Flags().Float64("hrv", 0, "Heart rate variability (SDNN) in ms")
	recordCmd.Flags().Float64("sleep-hours", 0, "Hours slept the night before")
	recordCmd.Flags().Int("steps", 0, "Step count")
	recordCmd.Flags().Float64("active-energy", 0, "Active energy burned in kcal")

	// Bind all persistent flags of historyCmd to Viper
	historyCmd.PersistentFlags().String("start", "", "Start day of the window (default 30 days ago)")
	historyCmd.PersistentFlags().String("end", "", "End day of the window (default today)")
	historyCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	if err := viper.BindPFlags(historyCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding history flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
