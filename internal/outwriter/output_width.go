package outwriter

import (
	"os"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"golang.org/x/term"
)

// Bounds of the name column in table output.
const (
	minNameWidth = 15
	maxNameWidth = 60
)

// terminalWidth returns the width override, else the detected width of stdout,
// else a conservative default for CI logs.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80
	}
	return detected
}

// GetMaxNameWidth calculates the maximum width for workflow and repository names
// in table output based on terminal width and the columns being shown.
func GetMaxNameWidth(cfg *contract.Config) int {
	baseWidth := 50 // Rank + Runs + Avg + Score + Priority with borders/padding

	if cfg.Detail {
		baseWidth += 45 // Max + Min + Freq/day + Impact + Triggers
	}

	available := (terminalWidth(cfg) - baseWidth) / 2 // shared by repository and workflow
	return min(max(available, minNameWidth), maxNameWidth)
}
