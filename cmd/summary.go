package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/core"
	"github.com/spf13/cobra"
)

// summaryCmd prints the headline numbers of an analysis.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the headline numbers of an analysis",
	Long: `Print the totals of an analysis: workflows, problematic workflows by
priority, runs, repositories and the analysis window.

Examples:
  # Quick overview
  workflow-analyzer summary --org acme

  # For a dashboard
  workflow-analyzer summary --org acme --output json`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("summary", core.ExecuteSummary),
}
