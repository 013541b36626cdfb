package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// PrintMetricsDefinitions displays the formal definitions of the scoring model.
// This is a static display that does not require fetching runs.
func PrintMetricsDefinitions(model *schema.MetricsRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut:
		return printStructured(cfg, "metrics", model, []string{"kind", "name", "definition"}, func(w *csv.Writer) error {
			return writeCSVMetrics(w, model)
		})
	case schema.ParquetOut:
		return errParquetUnsupported("metrics")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsText(w, model, cfg)
		}, "Wrote text")
	}
}

// writeCSVMetrics writes metrics, priority rules and grades as kind/name/definition rows.
func writeCSVMetrics(w *csv.Writer, model *schema.MetricsRenderModel) error {
	for _, m := range model.Metrics {
		if err := w.Write([]string{"metric", m.Name, m.Formula}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	for _, r := range model.PriorityRules {
		if err := w.Write([]string{"priority", string(r.Priority), r.Condition}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	for _, g := range model.Grades {
		if err := w.Write([]string{"grade", string(g.Grade), g.Condition}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	return nil
}

// writeMetricsText displays the scoring model in human-readable text format.
func writeMetricsText(w io.Writer, model *schema.MetricsRenderModel, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "⏱️  %s\n%s\n\n", model.Title, model.Description); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Slow threshold T = %g minutes\n\n", model.Threshold); err != nil {
		return err
	}

	for _, m := range model.Metrics {
		if _, err := fmt.Fprintf(w, "%s: %s\n   Formula: %s\n\n", m.Name, m.Purpose, m.Formula); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "🚦 Priority (first matching rule wins)"); err != nil {
		return err
	}
	for _, r := range model.PriorityRules {
		label := contract.GetPlainLabel(r.Priority)
		if cfg.UseColors {
			label = contract.GetColorLabel(r.Priority)
		}
		if _, err := fmt.Fprintf(w, "   %-8s %s\n", label, r.Condition); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "\n📋 Repository grades"); err != nil {
		return err
	}
	for _, g := range model.Grades {
		if _, err := fmt.Fprintf(w, "   %-15s %s\n", g.Grade, g.Condition); err != nil {
			return err
		}
	}
	return nil
}
