package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/internal/parquet"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var trendCSVHeader = []string{"date", "runs", "avg_duration_minutes", "max_duration_minutes", "workflows"}

// PrintTrendResults outputs the daily trend series, dispatching based on the output format configured.
func PrintTrendResults(result schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut:
		err := printStructured(cfg, "trend results", result, trendCSVHeader, func(w *csv.Writer) error {
			return writeCSVResultsForTrends(w, result, fmtFloat, intFmt)
		})
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteDailyTrendsParquet(parquet.ConvertDailyTrends(result.Days), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet trend results to %s\n", cfg.OutputFile)
	default:
		if err := printTrendTable(os.Stdout, result, cfg, fmtFloat, intFmt, duration); err != nil {
			return fmt.Errorf("error writing trend table output: %w", err)
		}
	}
	return nil
}

// writeCSVResultsForTrends writes one CSV row per day.
func writeCSVResultsForTrends(w *csv.Writer, result schema.TrendResult, fmtFloat func(float64) string, intFmt string) error {
	for _, d := range result.Days {
		row := []string{
			d.Date,
			fmt.Sprintf(intFmt, d.Runs),
			fmtFloat(d.AvgDurationMinutes),
			fmtFloat(d.MaxDurationMinutes),
			fmt.Sprintf(intFmt, d.Workflows),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// printTrendTable prints one row per day with activity.
func printTrendTable(out io.Writer, result schema.TrendResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Date", "Runs", "Avg (m)", "Max (m)", "Workflows"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, d := range result.Days {
		data = append(data, []string{
			d.Date,
			fmt.Sprintf(intFmt, d.Runs),
			fmtFloat(d.AvgDurationMinutes),
			fmtFloat(d.MaxDurationMinutes),
			fmt.Sprintf(intFmt, d.Workflows),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%d active days out of %d (%d runs across %d workflows)\n",
		len(result.Days), result.WindowDays, result.TotalRuns, result.TotalWorkflows)
	_, _ = fmt.Fprintf(out, "Trend analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return nil
}
