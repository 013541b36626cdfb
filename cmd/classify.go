package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/core"
	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/spf13/cobra"
)

// classifyCmd classifies local workflow files without calling GitHub.
var classifyCmd = &cobra.Command{
	Use:   "classify [path...]",
	Short: "Classify the triggers of local workflow files",
	Long: `Read workflow YAML files from disk and report the trigger category and
multiplier each one would get. No GitHub access is needed.

A directory argument uses its .github/workflows subdirectory when present,
otherwise the *.yml and *.yaml files directly inside it. The default is the
current directory.

Examples:
  # Classify the workflows of the current checkout
  workflow-analyzer classify

  # A single file as JSON
  workflow-analyzer classify .github/workflows/ci.yml --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if len(args) == 0 {
			args = []string{"."}
		}
		if err := core.ExecuteClassify(cfg, args); err != nil {
			contract.LogFatal("Cannot classify workflows", err)
		}
	},
}
