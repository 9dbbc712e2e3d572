package cmd

import (
	"github.com/huangsam/readiness/core"
	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// checkinCmd records a subjective energy level.
var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record a 1-5 energy check-in for the morning or evening",
	Long: `Record how energetic you feel on a 1-5 scale.

A day has at most one morning and one evening check-in; checking in again
replaces the earlier value for that slot. Energy contributes 20% of the
rules score, and the evening check-in labels the day for model training.

Examples:
  # Morning check-in
  readiness checkin --energy 4 --slot morning

  # Evening check-in for yesterday
  readiness checkin --energy 2 --slot evening --date yesterday`,
	PreRunE: sharedSetup,
	Run:     runExecutor("checkin", "Cannot record check-in", core.ExecuteCheckIn),
}

// recordCmd stores one day of health metrics from flags.
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record resting heart rate, HRV, sleep and activity for a day",
	Long: `Store health metrics for a single day. Only the flags you pass are
recorded; every other signal stays missing and is left out of the score.

Examples:
  # Record this morning's numbers
  readiness record --rhr 54 --hrv 62 --sleep-hours 7.5

  # Backfill yesterday
  readiness record --date yesterday --steps 11000 --active-energy 640`,
	PreRunE: sharedSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		m := metricsFromFlags(cmd.Flags())
		err := core.ExecuteRecord(commandContext("record"), cfg, storeManager, m)
		if err != nil {
			contract.LogFatal("Cannot record metrics", err)
		}
		writeMetricsFile()
	},
}

// metricsFromFlags builds a record from the flags that were explicitly set.
func metricsFromFlags(flags *pflag.FlagSet) schema.MetricsRecord {
	m := schema.MetricsRecord{Date: cfg.Date}
	if flags.Changed("rhr") {
		v, _ := flags.GetFloat64("rhr")
		m.RestingHeartRate = schema.Float64Ptr(v)
	}
	if flags.Changed("hrv") {
		v, _ := flags.GetFloat64("hrv")
		m.HRV = schema.Float64Ptr(v)
	}
	if flags.Changed("sleep-hours") {
		v, _ := flags.GetFloat64("sleep-hours")
		m.SleepDuration = schema.Float64Ptr(v * 3600)
	}
	if flags.Changed("steps") {
		v, _ := flags.GetInt("steps")
		m.StepCount = schema.IntPtr(v)
	}
	if flags.Changed("active-energy") {
		v, _ := flags.GetFloat64("active-energy")
		m.ActiveEnergy = schema.Float64Ptr(v)
	}
	return m
}

// importCmd loads a metrics export file.
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import daily metrics from a CSV, JSON, YAML or Parquet file",
	Long: `Bulk-load daily health metrics. The format follows the file extension:
.csv, .json, .yaml/.yml or .parquet. Rows for a day that already has
metrics replace the stored values.

CSV columns: date, resting_heart_rate, hrv, sleep_hours, step_count, active_energy
(empty cells are missing values)

Examples:
  readiness import ~/Downloads/health.csv
  readiness import export.parquet --backend postgresql`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteImport(commandContext("import"), cfg, storeManager, args[0]); err != nil {
			contract.LogFatal("Cannot import metrics", err)
		}
		writeMetricsFile()
	},
}

// scoreCmd computes the readiness score of a day.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute today's readiness score (0-100)",
	Long: `Compute the readiness score of a day and store it in history.

The score blends a rules-based assessment with a personalized ridge
regression model. The model's share grows linearly with days of data
until --transition-days, and the rules scorer takes over whenever the
model is untrained or lacks the features it needs.

Examples:
  # Score today using the latest check-in
  readiness score

  # Score with an explicit energy level and JSON output
  readiness score --energy 3 --output json`,
	PreRunE: sharedSetup,
	Run:     runExecutor("score", "Cannot compute readiness score", core.ExecuteScore),
}

// forecastCmd predicts tomorrow's score.
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Predict tomorrow's readiness score",
	Long: `Predict the readiness score of the day after --date (default today).

Only the first forecast for a target day is stored; repeating the command
shows that prediction. Once the target day is scored, the prediction is
resolved with the actual score and its absolute error.

Examples:
  readiness forecast
  readiness forecast --energy 2 --output json`,
	PreRunE: sharedSetup,
	Run:     runExecutor("forecast", "Cannot forecast readiness", core.ExecuteForecast),
}

// trainCmd retrains the personalized model.
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Retrain the personalized model from stored history",
	Long: `Fit the ridge regression model on every day that has metrics and an
evening check-in. At least 3 such days are needed; with fewer the model
stays untrained and scores come from the rules scorer.

Examples:
  readiness train
  readiness train --output json`,
	PreRunE: sharedSetup,
	Run:     runExecutor("train", "Cannot train model", core.ExecuteTrain),
}
