package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/core"
	"github.com/spf13/cobra"
)

// reposCmd rolls workflow results up per repository.
var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Summarize workflow health per repository",
	Long: `Group workflows by repository and grade each repository by its share of problematic workflows.

Grades:
- HIGH RISK: at least half of the workflows are problematic
- NEEDS ATTENTION: at least a quarter
- MINOR ISSUES: any problematic workflow
- HEALTHY: none

Examples:
  # Repositories of an organization, worst first
  workflow-analyzer repos --org acme

  # Only repositories whose name contains "service"
  workflow-analyzer repos --org acme --repo-filter service --output csv`,
	PreRunE: sharedSetupWrapper,
	Run:     runAnalysis("repository", core.ExecuteRepositories),
}
