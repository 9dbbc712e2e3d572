package cmd

import (
	"github.com/huangsam/readiness/core"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of the scoring rules.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the scoring rules, weights and model constants",
	Long: `Show how readiness scores are computed.

Includes:
- The rules scorer bands for HRV, sleep, resting heart rate and energy
- The component weights, including custom weights from .readiness.yaml
- The ridge regression features and the blend schedule
- The forecast damping and clamping constants

No history is read - this is purely informational.

Examples:
  # Show default scoring rules
  readiness metrics

  # View with custom weights from config file
  readiness metrics --config .readiness.yaml`,
	PreRunE: sharedSetup,
	Run:     runExecutor("metrics", "Cannot display metrics", core.ExecuteMetrics),
}
