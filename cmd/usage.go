package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/core"
	"github.com/spf13/cobra"
)

// usageCmd projects monthly CI minutes per repository.
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Project monthly CI minutes per repository",
	Long: `Project how many CI minutes each repository consumes per month, based on
the daily frequency and average duration of its workflows, and show each
repository's share of the total.

Examples:
  # Monthly projection for an organization
  workflow-analyzer usage --org acme

  # As parquet for a spreadsheet or notebook
  workflow-analyzer usage --org acme --output parquet --output-file usage.parquet`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("usage", core.ExecuteUsage),
}
