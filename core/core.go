// Package core has core logic for collecting workflow runs, scoring and ranking them.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/core/algo"
	"github.com/AjayJagan/github-workflow-analyzer/core/trigger"
	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/internal/outwriter"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/sahilm/fuzzy"
)

// ExecutorFunc defines the function signature for executing different analysis views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) error

// ErrWorkflowNotFound is returned when an explain query matches no analyzed workflow.
var ErrWorkflowNotFound = errors.New("no matching workflow found")

// writer renders every view.
var writer = outwriter.NewOutWriter()

// analysisOutput is what every view derives its results from.
type analysisOutput struct {
	analyzer *Analyzer
	runs     []schema.RunRecord
	stats    []schema.WorkflowStats
}

// runAnalysisCore collects the runs of the target and analyzes them once.
func runAnalysisCore(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) (*analysisOutput, error) {
	logHeader(ctx, cfg)

	runs, err := CollectRuns(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	analyzer := NewAnalyzer(cfg.Threshold)
	return &analysisOutput{
		analyzer: analyzer,
		runs:     runs,
		stats:    analyzer.Analyze(runs),
	}, nil
}

// logHeader prints the analysis header unless it would corrupt machine readable
// output on stdout or the caller asked for silence.
func logHeader(ctx context.Context, cfg *contract.Config) {
	if shouldSuppressHeader(ctx) {
		return
	}
	if cfg.Output != schema.TextOut && cfg.OutputFile == "" {
		return
	}
	outwriter.LogAnalysisHeader(cfg)
}

// selectWorkflows applies the problematic and priority filters, then the result limit.
func selectWorkflows(out *analysisOutput, cfg *contract.Config) []schema.WorkflowStats {
	stats := out.stats
	if cfg.Problematic {
		stats = out.analyzer.FilterProblematic(stats)
	}
	stats = FilterPriority(stats, cfg.Priorities...)
	return algo.TopWorkflows(stats, cfg.ResultLimit)
}

// limitRows keeps at most limit entries. A non-positive limit keeps all.
func limitRows[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// GetWorkflowResults returns the ranked workflows of the target after filtering.
func GetWorkflowResults(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) ([]schema.WorkflowStats, error) {
	out, err := runAnalysisCore(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	return selectWorkflows(out, cfg), nil
}

// GetRepositoryResults returns repository scorecards, worst first.
func GetRepositoryResults(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) ([]schema.RepositorySummary, error) {
	out, err := runAnalysisCore(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	ranked := algo.RankRepositories(out.analyzer.RepositorySummary(out.stats))
	return limitRows(ranked, cfg.ResultLimit), nil
}

// GetTrendResults returns the daily run series over the analysis window.
func GetTrendResults(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) (schema.TrendResult, error) {
	out, err := runAnalysisCore(ctx, cfg, client, mgr)
	if err != nil {
		return schema.TrendResult{}, err
	}
	return out.analyzer.TrendAnalysis(out.runs, cfg.Days), nil
}

// GetPatternResults returns trigger event and hour-of-day patterns.
func GetPatternResults(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) (schema.PatternResult, error) {
	out, err := runAnalysisCore(ctx, cfg, client, mgr)
	if err != nil {
		return schema.PatternResult{}, err
	}
	return out.analyzer.WorkflowPatterns(out.stats), nil
}

// GetUsageResults returns the projected monthly usage per repository.
func GetUsageResults(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) ([]schema.RepositoryUsage, error) {
	out, err := runAnalysisCore(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	ranked := algo.RankUsage(out.analyzer.MonthlyUsage(out.stats))
	return limitRows(ranked, cfg.ResultLimit), nil
}

// GetSummaryResults returns the headline numbers of an analysis.
func GetSummaryResults(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) (schema.AnalysisSummary, error) {
	out, err := runAnalysisCore(ctx, cfg, client, mgr)
	if err != nil {
		return schema.AnalysisSummary{}, err
	}
	return out.analyzer.Summary(out.stats, cfg.Days, time.Now()), nil
}

// ExecuteWorkflows runs the workflow ranking and prints the results.
// It serves as the main entry point for the 'workflows' command.
func ExecuteWorkflows(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) error {
	start := time.Now()
	stats, err := GetWorkflowResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return writer.WriteWorkflows(stats, cfg, time.Since(start))
}

// ExecuteRepositories runs the repository scorecard and prints the results.
func ExecuteRepositories(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) error {
	start := time.Now()
	summaries, err := GetRepositoryResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return writer.WriteRepositories(summaries, cfg, time.Since(start))
}

// ExecuteTrends runs the daily trend analysis and prints the results.
func ExecuteTrends(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetTrendResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return writer.WriteTrends(result, cfg, time.Since(start))
}

// ExecutePatterns runs the pattern analysis and prints the results.
func ExecutePatterns(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetPatternResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return writer.WritePatterns(result, cfg, time.Since(start))
}

// ExecuteUsage runs the monthly usage projection and prints the results.
func ExecuteUsage(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) error {
	start := time.Now()
	usage, err := GetUsageResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return writer.WriteUsage(usage, cfg, time.Since(start))
}

// ExecuteSummary computes and prints the analysis summary.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) error {
	start := time.Now()
	summary, err := GetSummaryResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return writer.WriteSummary(summary, cfg, time.Since(start))
}

// ExecuteMetrics displays the scoring model for the configured threshold.
// This is a static display that does not fetch any runs.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.GitHubClient, _ contract.CacheManager) error {
	return writer.WriteMetrics(BuildMetricsRenderModel(cfg.Threshold), cfg)
}

// ExplainExecutor returns an executor that prints the details of the workflow best
// matching query. Filters and limits do not apply, so any analyzed workflow can be explained.
func ExplainExecutor(query string) ExecutorFunc {
	return func(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) error {
		out, err := runAnalysisCore(ctx, cfg, client, mgr)
		if err != nil {
			return err
		}
		stat, err := FindWorkflow(out.stats, query)
		if err != nil {
			return err
		}
		return writer.WriteWorkflowDetail(stat, cfg)
	}
}

// workflowSource adapts workflow statistics to fuzzy.Source. Each workflow is
// matched as "repository/workflow name".
type workflowSource []schema.WorkflowStats

func (s workflowSource) String(i int) string {
	return s[i].Repository + "/" + s[i].WorkflowName
}

func (s workflowSource) Len() int {
	return len(s)
}

// FindWorkflow returns the workflow whose "repository/name" best matches query.
// An exact, case-insensitive match of the name or the full label wins outright.
func FindWorkflow(stats []schema.WorkflowStats, query string) (schema.WorkflowStats, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return schema.WorkflowStats{}, fmt.Errorf("%w: empty query", ErrWorkflowNotFound)
	}

	src := workflowSource(stats)
	for i, s := range stats {
		if strings.EqualFold(s.WorkflowName, query) || strings.EqualFold(src.String(i), query) {
			return s, nil
		}
	}

	matches := fuzzy.FindFrom(query, src)
	if len(matches) == 0 {
		return schema.WorkflowStats{}, fmt.Errorf("%w: %q", ErrWorkflowNotFound, query)
	}
	return stats[matches[0].Index], nil
}

// ClassifyPaths runs the trigger classifier on local workflow files. A directory
// contributes every *.yml and *.yaml file under its .github/workflows folder, or
// the directory itself when it has no such folder.
func ClassifyPaths(paths []string) ([]schema.ClassifiedFile, error) {
	var files []string
	for _, p := range paths {
		found, err := workflowFiles(p)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no workflow files found in %s", strings.Join(paths, ", "))
	}

	results := make([]schema.ClassifiedFile, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", f, err)
		}
		results = append(results, schema.ClassifiedFile{Path: f, Trigger: trigger.Classify(content)})
	}
	return results, nil
}

// workflowFiles expands a path into the workflow files it denotes.
func workflowFiles(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{p}, nil
	}

	dir := filepath.Join(p, ".github", "workflows")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = p
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yml", ".yaml":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}

// ExecuteClassify classifies local workflow files and prints their trigger profiles.
func ExecuteClassify(cfg *contract.Config, paths []string) error {
	files, err := ClassifyPaths(paths)
	if err != nil {
		return err
	}
	return writer.WriteClassified(files, cfg)
}
