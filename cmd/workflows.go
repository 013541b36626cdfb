package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/core"
	"github.com/spf13/cobra"
)

// workflowsCmd ranks individual workflows by their optimization priority.
var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "Rank workflows by how much CI time they cost",
	Long: `Rank every active workflow by a combined score of average duration and run frequency.

Each workflow is assigned a priority:
- critical: long and frequent, optimize first
- high: slow or very frequent
- medium: moderately slow or busy
- low: cheap enough to leave alone

Use --problematic to keep only workflows that exceed the threshold or run more
than five times a day, and --priority to keep specific priorities.

Examples:
  # Top workflows of an organization over the last week
  workflow-analyzer workflows --org acme

  # Critical and high workflows of two repositories as JSON
  workflow-analyzer workflows --repos acme/api,acme/web --priority critical,high --output json

  # Everything slower than 15 minutes, with extra columns
  workflow-analyzer workflows --org acme --threshold 15 --problematic --detail`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("workflow", core.ExecuteWorkflows),
}
