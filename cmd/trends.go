package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/core"
	"github.com/spf13/cobra"
)

// trendsCmd shows daily run activity.
var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show daily run counts and durations",
	Long: `Show, for every day with at least one run, how many runs completed,
their mean duration and how many distinct workflows ran.

Days without runs are omitted. The footer reports how many days of the
window were active.

Examples:
  # Daily activity over the last 30 days
  workflow-analyzer trends --org acme --days 30`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("trend", core.ExecuteTrends),
}
