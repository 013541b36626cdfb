package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/core"
	"github.com/spf13/cobra"
)

// patternsCmd shows trigger and hour-of-day patterns.
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show trigger events and busy hours",
	Long: `Count runs per trigger event and show the mean duration by hour of day (UTC).

Peak hours are the five hours with the highest mean duration and are
marked in the text output.

Examples:
  # Patterns for a single repository
  workflow-analyzer patterns --repos acme/api

  # Export the hourly table as CSV
  workflow-analyzer patterns --org acme --output csv --output-file patterns.csv`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("pattern", core.ExecutePatterns),
}
