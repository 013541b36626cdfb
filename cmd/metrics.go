package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/core"
	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of the scoring model.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display the formulas behind workflow scores and priorities",
	Long: `Show the formal definitions, formulas, and thresholds used to score workflows.

Provides complete transparency into how workflows are ranked, including:
- Frequency and duration scores
- Trigger multipliers
- Priority rules for the configured threshold
- Repository grade rules

No GitHub analysis is performed - this is purely informational.

Examples:
  # Show the default scoring model
  workflow-analyzer metrics

  # Priority rules for a 20 minute threshold
  workflow-analyzer metrics --threshold 20`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, nil, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
