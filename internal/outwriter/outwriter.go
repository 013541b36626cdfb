// Package outwriter renders analysis results as text tables, CSV, JSON or Parquet.
package outwriter

import (
	"fmt"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteWorkflows prints ranked workflow statistics.
func (ow *OutWriter) WriteWorkflows(stats []schema.WorkflowStats, cfg *contract.Config, duration time.Duration) error {
	return PrintWorkflowResults(stats, cfg, duration)
}

// WriteRepositories prints repository scorecards.
func (ow *OutWriter) WriteRepositories(summaries []schema.RepositorySummary, cfg *contract.Config, duration time.Duration) error {
	return PrintRepositoryResults(summaries, cfg, duration)
}

// WriteTrends prints the daily trend series.
func (ow *OutWriter) WriteTrends(result schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	return PrintTrendResults(result, cfg, duration)
}

// WritePatterns prints event and hour-of-day patterns.
func (ow *OutWriter) WritePatterns(result schema.PatternResult, cfg *contract.Config, duration time.Duration) error {
	return PrintPatternResults(result, cfg, duration)
}

// WriteUsage prints projected monthly usage per repository.
func (ow *OutWriter) WriteUsage(usage []schema.RepositoryUsage, cfg *contract.Config, duration time.Duration) error {
	return PrintUsageResults(usage, cfg, duration)
}

// WriteSummary prints the headline numbers of an analysis.
func (ow *OutWriter) WriteSummary(summary schema.AnalysisSummary, cfg *contract.Config, duration time.Duration) error {
	return PrintSummaryResults(summary, cfg, duration)
}

// WriteWorkflowDetail prints everything known about a single workflow.
func (ow *OutWriter) WriteWorkflowDetail(stat schema.WorkflowStats, cfg *contract.Config) error {
	return PrintWorkflowDetail(stat, cfg)
}

// WriteMetrics prints the scoring model definitions.
func (ow *OutWriter) WriteMetrics(model *schema.MetricsRenderModel, cfg *contract.Config) error {
	return PrintMetricsDefinitions(model, cfg)
}

// WriteClassified prints trigger profiles of local workflow files.
func (ow *OutWriter) WriteClassified(files []schema.ClassifiedFile, cfg *contract.Config) error {
	return PrintClassifiedFiles(files, cfg)
}

// LogAnalysisHeader prints a concise, 2-line header describing what is analyzed.
func LogAnalysisHeader(cfg *contract.Config) {
	target := cfg.Org
	if len(cfg.Repos) > 0 {
		target = fmt.Sprintf("%d repositories", len(cfg.Repos))
		if len(cfg.Repos) == 1 {
			target = cfg.Repos[0]
		}
	}

	// Line 1: what is analyzed and against which threshold
	fmt.Printf("🔎 Target: %s on %s (threshold: %gm)\n", target, cfg.Host, cfg.Threshold)

	// Line 2: the analysis window
	fmt.Printf("📅 Range: %s → %s (%d days)\n",
		cfg.StartTime.Format(contract.DateTimeFormat), cfg.EndTime.Format(contract.DateTimeFormat), cfg.Days)
}

// errParquetUnsupported is returned for views without a Parquet layout.
func errParquetUnsupported(view string) error {
	return fmt.Errorf("parquet output is not available for %s; use text, csv or json", view)
}
