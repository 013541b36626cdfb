package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/olekukonko/tablewriter"
)

var classifyCSVHeader = []string{
	"path",
	"is_pr_triggered",
	"is_push_triggered",
	"is_schedule_triggered",
	"is_manual_triggered",
	"trigger_frequency_score",
	"raw_triggers",
}

// PrintClassifiedFiles outputs the trigger profiles of local workflow files.
func PrintClassifiedFiles(files []schema.ClassifiedFile, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut:
		return printStructured(cfg, "trigger profiles", files, classifyCSVHeader, func(w *csv.Writer) error {
			for _, f := range files {
				row := []string{
					f.Path,
					strconv.FormatBool(f.Trigger.PullRequest),
					strconv.FormatBool(f.Trigger.Push),
					strconv.FormatBool(f.Trigger.Schedule),
					strconv.FormatBool(f.Trigger.Manual),
					strconv.Itoa(f.Trigger.FrequencyScore),
					strings.Join(f.Trigger.Triggers, "|"),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
			return nil
		})
	case schema.ParquetOut:
		return errParquetUnsupported("classify")
	default:
		return writeClassifyTable(os.Stdout, files)
	}
}

// check renders a boolean as a table mark.
func check(b bool) string {
	if b {
		return "✓"
	}
	return ""
}

func writeClassifyTable(out io.Writer, files []schema.ClassifiedFile) error {
	table := tablewriter.NewWriter(out)
	table.Header([]string{"File", "PR", "Push", "Schedule", "Manual", "Score", "Declared"})

	var data [][]string
	for _, f := range files {
		data = append(data, []string{
			f.Path,
			check(f.Trigger.PullRequest),
			check(f.Trigger.Push),
			check(f.Trigger.Schedule),
			check(f.Trigger.Manual),
			strconv.Itoa(f.Trigger.FrequencyScore),
			strings.Join(f.Trigger.Triggers, ","),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Classified %d workflow files\n", len(files))
	return nil
}
