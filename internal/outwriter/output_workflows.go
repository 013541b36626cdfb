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

// workflowCSVHeader is the column layout of workflow CSV output.
var workflowCSVHeader = []string{
	"rank",
	"repository",
	"workflow",
	"total_runs",
	"avg_duration_minutes",
	"max_duration_minutes",
	"min_duration_minutes",
	"frequency_score",
	"duration_score",
	"combined_score",
	"daily_impact_minutes",
	"priority",
	"trigger_events",
}

// PrintWorkflowResults outputs ranked workflows, dispatching based on the output format configured.
func PrintWorkflowResults(stats []schema.WorkflowStats, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut:
		err := printStructured(cfg, "workflow results", schema.EnrichWorkflows(stats), workflowCSVHeader, func(w *csv.Writer) error {
			return writeCSVResultsForWorkflows(w, stats, fmtFloat, intFmt)
		})
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
	case schema.ParquetOut:
		rows := parquet.ConvertWorkflowStats(stats, time.Now().UTC())
		if err := parquet.WriteWorkflowStatsParquet(rows, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet workflow results to %s\n", cfg.OutputFile)
	default:
		if err := printWorkflowTable(os.Stdout, stats, cfg, fmtFloat, intFmt, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// writeCSVResultsForWorkflows writes one CSV row per ranked workflow.
func writeCSVResultsForWorkflows(w *csv.Writer, stats []schema.WorkflowStats, fmtFloat func(float64) string, intFmt string) error {
	for i, s := range stats {
		row := []string{
			strconv.Itoa(i + 1),
			s.Repository,
			s.WorkflowName,
			fmt.Sprintf(intFmt, s.TotalRuns),
			fmtFloat(s.AvgDurationMinutes),
			fmtFloat(s.MaxDurationMinutes),
			fmtFloat(s.MinDurationMinutes),
			fmtFloat(s.FrequencyScore),
			fmtFloat(s.DurationScore),
			fmtFloat(s.CombinedScore),
			fmtFloat(s.DailyImpactMinutes()),
			contract.GetPlainLabel(s.Priority),
			strings.Join(s.TriggerEvents, "|"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// priorityLabel returns the colored or plain label depending on configuration.
func priorityLabel(p schema.Priority, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(p)
	}
	return contract.GetPlainLabel(p)
}

// printWorkflowTable prints the ranked workflows as a table followed by a short summary.
func printWorkflowTable(out io.Writer, stats []schema.WorkflowStats, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(out)

	headers := []string{"Rank", "Repository", "Workflow", "Runs", "Avg (m)", "Score", "Priority"}
	if cfg.Detail {
		headers = append(headers, "Max (m)", "Min (m)", "Freq/day", "Impact (m/day)", "Triggers")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxNameWidth(cfg)
	var data [][]string
	for i, s := range stats {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(s.Repository, nameWidth),
			contract.TruncatePath(s.WorkflowName, nameWidth),
			fmt.Sprintf(intFmt, s.TotalRuns),
			fmtFloat(s.AvgDurationMinutes),
			fmtFloat(s.CombinedScore),
			priorityLabel(s.Priority, cfg),
		}
		if cfg.Detail {
			row = append(row,
				fmtFloat(s.MaxDurationMinutes),
				fmtFloat(s.MinDurationMinutes),
				fmtFloat(s.FrequencyScore),
				fmtFloat(s.DailyImpactMinutes()),
				strings.Join(s.TriggerEvents, ","),
			)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	counts := make(map[schema.Priority]int)
	totalRuns := 0
	for _, s := range stats {
		counts[s.Priority]++
		totalRuns += s.TotalRuns
	}
	_, _ = fmt.Fprintf(out, "Showing %d workflows (%d runs; critical: %d, high: %d, medium: %d, low: %d)\n",
		len(stats), totalRuns,
		counts[schema.CriticalPriority], counts[schema.HighPriority], counts[schema.MediumPriority], counts[schema.LowPriority])
	_, _ = fmt.Fprintf(out, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return nil
}

// PrintWorkflowDetail prints the full statistics of one workflow, including its
// most recent runs.
func PrintWorkflowDetail(stat schema.WorkflowStats, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichWorkflows([]schema.WorkflowStats{stat})[0])
		}, "Wrote JSON workflow detail")
	}
	if cfg.Output != schema.TextOut {
		return fmt.Errorf("workflow detail supports text or json output (received %s)", cfg.Output)
	}
	return writeWorkflowDetail(os.Stdout, stat, cfg)
}

// writeWorkflowDetail renders the text form of PrintWorkflowDetail.
func writeWorkflowDetail(out io.Writer, stat schema.WorkflowStats, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	_, _ = fmt.Fprintf(out, "⚙️  %s / %s\n", stat.Repository, stat.WorkflowName)
	_, _ = fmt.Fprintf(out, "   Priority:       %s\n", priorityLabel(stat.Priority, cfg))
	_, _ = fmt.Fprintf(out, "   Runs:           %d\n", stat.TotalRuns)
	_, _ = fmt.Fprintf(out, "   Duration (m):   avg %s, max %s, min %s\n",
		fmtFloat(stat.AvgDurationMinutes), fmtFloat(stat.MaxDurationMinutes), fmtFloat(stat.MinDurationMinutes))
	_, _ = fmt.Fprintf(out, "   Frequency:      %s runs/day\n", fmtFloat(stat.FrequencyScore))
	_, _ = fmt.Fprintf(out, "   Scores:         duration %s, combined %s\n", fmtFloat(stat.DurationScore), fmtFloat(stat.CombinedScore))
	_, _ = fmt.Fprintf(out, "   Daily impact:   %s minutes\n", fmtFloat(stat.DailyImpactMinutes()))
	_, _ = fmt.Fprintf(out, "   Triggers:       %s\n", describeTrigger(stat.Trigger))
	_, _ = fmt.Fprintf(out, "   Events seen:    %s\n", strings.Join(stat.TriggerEvents, ", "))

	if len(stat.RecentRuns) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(out, "   Recent runs:")
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Run", "Event", "Branch", "Created", "Duration (m)"})
	var data [][]string
	for _, r := range stat.RecentRuns {
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			r.Event,
			r.Branch,
			r.CreatedAt.Format(contract.DateTimeFormat),
			fmtFloat(r.DurationMinutes()),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// describeTrigger renders a trigger profile as a compact list of flags.
func describeTrigger(p schema.TriggerProfile) string {
	var parts []string
	if p.PullRequest {
		parts = append(parts, "pull_request")
	}
	if p.Push {
		parts = append(parts, "push")
	}
	if p.Schedule {
		parts = append(parts, "schedule")
	}
	if p.Manual {
		parts = append(parts, "manual")
	}
	if len(parts) == 0 {
		parts = append(parts, "none detected")
	}
	desc := fmt.Sprintf("%s (score %d)", strings.Join(parts, ", "), p.FrequencyScore)
	if p.HighFrequency {
		desc += " high-frequency"
	}
	return desc
}
