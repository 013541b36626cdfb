package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/core"
	"github.com/spf13/cobra"
)

// explainCmd breaks down the score of one workflow.
var explainCmd = &cobra.Command{
	Use:   "explain <workflow>",
	Short: "Explain how one workflow was scored",
	Long: `Show the frequency, duration and trigger factors behind the score and
priority of a single workflow.

The argument is matched against the workflow name or "owner/repo/name",
exactly first and then fuzzily.

Examples:
  # Explain the CI workflow of a repository
  workflow-analyzer explain CI --repos acme/api

  # Fuzzy match across an organization
  workflow-analyzer explain "nightly build" --org acme --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		runAnalysis("explain", core.ExplainExecutor(args[0]))(cmd, args)
	},
}
