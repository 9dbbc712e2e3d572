package cmd

import (
	"github.com/huangsam/readiness/core"
	"github.com/spf13/cobra"
)

// modelCmd groups the personalized model commands.
var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect or reset the personalized model",
	Long: `Inspect or reset the ridge regression model that personalizes scores.

Subcommands:
  status - Show training state, blend weight and learned weights
  clear  - Forget the learned weights and fall back to the rules scorer

Examples:
  readiness model status
  readiness model clear`,
}

// modelStatusCmd shows the model state.
var modelStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show training state, blend weight and learned weights",
	PreRunE: sharedSetup,
	Run:     runExecutor("model status", "Cannot read model status", core.ExecuteModelStatus),
}

// modelClearCmd removes the persisted weights.
var modelClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the learned weights",
	Long: `Delete the persisted model weights. History is kept, so the next
train command rebuilds the model from scratch.`,
	PreRunE: sharedSetup,
	Run:     runExecutor("model clear", "Cannot clear model", core.ExecuteModelClear),
}
