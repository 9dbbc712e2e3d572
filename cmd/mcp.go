package cmd

import (
	"github.com/huangsam/readiness/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Readiness MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents score days,
forecast tomorrow and manage the personalized model via standard tools.`,
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
