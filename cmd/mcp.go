package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Workflow Analyzer MCP server",
	Long: `Launch an MCP server on stdio that allows AI agents to run workflow analyses via standard tools.

Flags and config file values become the defaults of every tool call. Tools
may override the repositories, organization, days, threshold and limit.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		client, err := newGitHubClient()
		if err != nil {
			return err
		}
		return mcp.StartMCPServer(rootCtx, cfg, client, cacheManager)
	},
}
