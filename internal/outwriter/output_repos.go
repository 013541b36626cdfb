package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/internal/parquet"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var repositoryCSVHeader = []string{
	"rank",
	"repository",
	"total_workflows",
	"problematic_workflows",
	"problematic_percent",
	"avg_duration_minutes",
	"total_runs",
	"grade",
	"workflows",
}

// PrintRepositoryResults outputs repository scorecards, dispatching based on the output format configured.
func PrintRepositoryResults(summaries []schema.RepositorySummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut:
		err := printStructured(cfg, "repository results", summaries, repositoryCSVHeader, func(w *csv.Writer) error {
			return writeCSVResultsForRepositories(w, summaries, fmtFloat, intFmt)
		})
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRepositoriesParquet(parquet.ConvertRepositories(summaries), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet repository results to %s\n", cfg.OutputFile)
	default:
		if err := printRepositoryTable(os.Stdout, summaries, cfg, fmtFloat, intFmt, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeCSVResultsForRepositories writes one CSV row per repository.
func writeCSVResultsForRepositories(w *csv.Writer, summaries []schema.RepositorySummary, fmtFloat func(float64) string, intFmt string) error {
	for i, s := range summaries {
		row := []string{
			strconv.Itoa(i + 1),
			s.Repository,
			fmt.Sprintf(intFmt, s.TotalWorkflows),
			fmt.Sprintf(intFmt, s.ProblematicWorkflows),
			fmtFloat(s.ProblematicPercent),
			fmtFloat(s.AvgDurationMinutes),
			fmt.Sprintf(intFmt, s.TotalRuns),
			string(s.Grade),
			strings.Join(s.Workflows, "|"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// printRepositoryTable prints the repository scorecards.
func printRepositoryTable(out io.Writer, summaries []schema.RepositorySummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(out)

	headers := []string{"Rank", "Repository", "Workflows", "Problematic", "Share (%)", "Grade"}
	if cfg.Detail {
		headers = append(headers, "Avg (m)", "Runs")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxNameWidth(cfg)
	var data [][]string
	healthy := 0
	for i, s := range summaries {
		grade := string(s.Grade)
		if cfg.UseColors {
			grade = contract.GetGradeColorLabel(s.Grade)
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(s.Repository, nameWidth),
			fmt.Sprintf(intFmt, s.TotalWorkflows),
			fmt.Sprintf(intFmt, s.ProblematicWorkflows),
			fmtFloat(s.ProblematicPercent),
			grade,
		}
		if cfg.Detail {
			row = append(row, fmtFloat(s.AvgDurationMinutes), fmt.Sprintf(intFmt, s.TotalRuns))
		}
		data = append(data, row)
		if s.Grade == schema.HealthyGrade {
			healthy++
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Showing %d repositories (%d healthy)\n", len(summaries), healthy)
	_, _ = fmt.Fprintf(out, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return nil
}
