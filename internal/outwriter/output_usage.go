package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/internal/parquet"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var usageCSVHeader = []string{"rank", "repository", "workflows", "monthly_minutes", "share_percent"}

// PrintUsageResults outputs projected monthly usage, dispatching based on the output format configured.
func PrintUsageResults(usage []schema.RepositoryUsage, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut:
		err := printStructured(cfg, "usage results", usage, usageCSVHeader, func(w *csv.Writer) error {
			return writeCSVResultsForUsage(w, usage, fmtFloat, intFmt)
		})
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteUsageParquet(parquet.ConvertUsage(usage), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote Parquet usage results to %s\n", cfg.OutputFile)
	default:
		if err := printUsageTable(os.Stdout, usage, cfg, fmtFloat, intFmt, duration); err != nil {
			return fmt.Errorf("error writing usage table output: %w", err)
		}
	}
	return nil
}

func writeCSVResultsForUsage(w *csv.Writer, usage []schema.RepositoryUsage, fmtFloat func(float64) string, intFmt string) error {
	for i, u := range usage {
		row := []string{
			strconv.Itoa(i + 1),
			u.Repository,
			fmt.Sprintf(intFmt, u.Workflows),
			fmtFloat(u.MonthlyMinutes),
			fmtFloat(u.SharePercent),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// printUsageTable prints the usage ranking and the projected organisation total.
func printUsageTable(out io.Writer, usage []schema.RepositoryUsage, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Rank", "Repository", "Workflows", "Minutes/month", "Share (%)"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxNameWidth(cfg)
	var data [][]string
	total := 0.0
	for i, u := range usage {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(u.Repository, nameWidth),
			fmt.Sprintf(intFmt, u.Workflows),
			fmtFloat(u.MonthlyMinutes),
			fmtFloat(u.SharePercent),
		})
		total += u.MonthlyMinutes
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Projected usage of shown repositories: %s minutes/month\n", fmtFloat(total))
	_, _ = fmt.Fprintf(out, "Analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return nil
}
