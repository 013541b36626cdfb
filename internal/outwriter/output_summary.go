package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// summaryFields flattens a summary into ordered name/value pairs.
func summaryFields(s schema.AnalysisSummary, fmtFloat func(float64) string) [][2]string {
	return [][2]string{
		{"total_workflows", strconv.Itoa(s.TotalWorkflows)},
		{"problematic_workflows", strconv.Itoa(s.ProblematicWorkflows)},
		{"critical_workflows", strconv.Itoa(s.CriticalWorkflows)},
		{"high_workflows", strconv.Itoa(s.HighWorkflows)},
		{"total_repositories", strconv.Itoa(s.TotalRepositories)},
		{"avg_duration_minutes", fmtFloat(s.AvgDurationMinutes)},
		{"total_runs", strconv.Itoa(s.TotalRuns)},
		{"analysis_period_days", strconv.Itoa(s.AnalysisDays)},
		{"generated_at", s.GeneratedAt.Format(contract.DateTimeFormat)},
	}
}

// PrintSummaryResults outputs the headline numbers of an analysis.
func PrintSummaryResults(summary schema.AnalysisSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut:
		err := printStructured(cfg, "summary", summary, []string{"metric", "value"}, func(w *csv.Writer) error {
			for _, f := range summaryFields(summary, fmtFloat) {
				if err := w.Write(f[:]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
	case schema.ParquetOut:
		return errParquetUnsupported("summary")
	default:
		writeSummaryText(os.Stdout, summary, cfg, fmtFloat, duration)
	}
	return nil
}

// writeSummaryText prints the summary as an aligned block.
func writeSummaryText(out io.Writer, s schema.AnalysisSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) {
	problematic := strconv.Itoa(s.ProblematicWorkflows)
	if cfg.UseColors && s.ProblematicWorkflows > 0 {
		problematic = contract.HighColor.Sprint(problematic)
	}

	_, _ = fmt.Fprintln(out, "📊 Workflow Analysis Summary")
	_, _ = fmt.Fprintf(out, "   Repositories:          %d\n", s.TotalRepositories)
	_, _ = fmt.Fprintf(out, "   Workflows:             %d\n", s.TotalWorkflows)
	_, _ = fmt.Fprintf(out, "   Problematic:           %s (critical: %d, high: %d)\n", problematic, s.CriticalWorkflows, s.HighWorkflows)
	_, _ = fmt.Fprintf(out, "   Mean avg duration:     %s minutes\n", fmtFloat(s.AvgDurationMinutes))
	_, _ = fmt.Fprintf(out, "   Successful runs:       %d over %d days\n", s.TotalRuns, s.AnalysisDays)
	_, _ = fmt.Fprintf(out, "   Generated at:          %s\n", s.GeneratedAt.Format(contract.DateTimeFormat))
	_, _ = fmt.Fprintf(out, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
}
