package cmd

import (
	"github.com/huangsam/readiness/core"
	"github.com/spf13/cobra"
)

// historyCmd groups the read-only history listings.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored scores, predictions and training examples",
	Long: `List what the history store holds within a day window.

Subcommands:
  scores      - Stored readiness scores, newest first
  predictions - Stored forecasts with their resolution and error summary
  examples    - Labeled days the next retrain would use

Examples:
  # Last 30 days of scores
  readiness history scores

  # Predictions for a month as CSV
  readiness history predictions --start 2026-03-01 --end 2026-03-31 --output csv`,
}

// historyScoresCmd lists stored scores.
var historyScoresCmd = &cobra.Command{
	Use:     "scores",
	Short:   "List stored readiness scores",
	PreRunE: sharedSetup,
	Run:     runExecutor("history scores", "Cannot list scores", core.ExecuteHistoryScores),
}

// historyPredictionsCmd lists stored predictions.
var historyPredictionsCmd = &cobra.Command{
	Use:     "predictions",
	Short:   "List stored predictions and their accuracy",
	PreRunE: sharedSetup,
	Run:     runExecutor("history predictions", "Cannot list predictions", core.ExecuteHistoryPredictions),
}

// historyExamplesCmd lists the training examples.
var historyExamplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List the labeled days used for training",
	Long: `List every day that has both metrics and an evening check-in. The
label is the evening energy level mapped onto 0-100. The window flags do
not apply; the model always trains on the full history.`,
	PreRunE: sharedSetup,
	Run:     runExecutor("history examples", "Cannot list training examples", core.ExecuteHistoryExamples),
}
