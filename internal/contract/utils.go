package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // LowColor represents informational / low-priority signal.
	HealthyColor  = color.New(color.FgGreen)               // HealthyColor represents a clean scorecard.
)

// GetPlainLabel returns the upper case label of a priority. This is the label used for
// CSV, JSON, and table printing.
func GetPlainLabel(p schema.Priority) string {
	return strings.ToUpper(string(p))
}

// GetColorLabel returns a colored priority label for console output (table).
func GetColorLabel(p schema.Priority) string {
	text := GetPlainLabel(p)

	switch p {
	case schema.CriticalPriority:
		return CriticalColor.Sprint(text)
	case schema.HighPriority:
		return HighColor.Sprint(text)
	case schema.MediumPriority:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetGradeColorLabel returns a colored scorecard grade for console output.
func GetGradeColorLabel(g schema.RepositoryGrade) string {
	text := string(g)

	switch g {
	case schema.HighRiskGrade:
		return CriticalColor.Sprint(text)
	case schema.NeedsAttentionGrade:
		return ModerateColor.Sprint(text)
	case schema.MinorIssuesGrade:
		return LowColor.Sprint(text)
	default:
		return HealthyColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means standard output.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".workflow-analyzer_cache.db"
	}
	return filepath.Join(homeDir, ".workflow-analyzer_cache.db")
}

// TruncatePath truncates a string to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseRepoList splits a comma separated list of owner/name repositories.
// Blank entries are skipped and duplicates are removed, keeping the first position.
func ParseRepoList(s string) ([]string, error) {
	var repos []string
	seen := make(map[string]struct{})
	for part := range strings.SplitSeq(s, ",") {
		repo := strings.TrimSpace(part)
		if repo == "" {
			continue
		}
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
			return nil, fmt.Errorf("invalid repository '%s', expected owner/name", repo)
		}
		if _, dup := seen[repo]; dup {
			continue
		}
		seen[repo] = struct{}{}
		repos = append(repos, repo)
	}
	return repos, nil
}

// ParsePriorities parses a comma separated list of priority names.
func ParsePriorities(s string) ([]schema.Priority, error) {
	var priorities []schema.Priority
	for part := range strings.SplitSeq(s, ",") {
		p := schema.Priority(strings.ToLower(strings.TrimSpace(part)))
		if p == "" {
			continue
		}
		if _, ok := schema.ValidPriorities[p]; !ok {
			return nil, fmt.Errorf("invalid priority '%s'. must be critical, high, medium, low", part)
		}
		priorities = append(priorities, p)
	}
	return priorities, nil
}
