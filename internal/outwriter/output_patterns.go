package outwriter

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var patternCSVHeader = []string{"kind", "key", "runs", "avg_duration_minutes", "peak"}

// eventCount is an entry of the event histogram in display order.
type eventCount struct {
	Event string
	Count int
}

// sortedEvents orders the event histogram by count desc, then name.
func sortedEvents(counts map[string]int) []eventCount {
	events := make([]eventCount, 0, len(counts))
	for e, c := range counts {
		events = append(events, eventCount{Event: e, Count: c})
	}
	slices.SortFunc(events, func(a, b eventCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Event, b.Event)
	})
	return events
}

// PrintPatternResults outputs trigger event and hour-of-day patterns.
func PrintPatternResults(result schema.PatternResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut, schema.CSVOut:
		err := printStructured(cfg, "pattern results", result, patternCSVHeader, func(w *csv.Writer) error {
			return writeCSVResultsForPatterns(w, result, fmtFloat, intFmt)
		})
		if err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
	case schema.ParquetOut:
		return errParquetUnsupported("patterns")
	default:
		if err := printPatternTables(os.Stdout, result, cfg, fmtFloat, intFmt, duration); err != nil {
			return fmt.Errorf("error writing pattern table output: %w", err)
		}
	}
	return nil
}

// isPeak reports whether hour is one of the peak hours.
func isPeak(result schema.PatternResult, hour int) bool {
	return slices.ContainsFunc(result.PeakHours, func(h schema.HourlyDuration) bool { return h.Hour == hour })
}

// writeCSVResultsForPatterns writes event rows followed by hourly rows.
func writeCSVResultsForPatterns(w *csv.Writer, result schema.PatternResult, fmtFloat func(float64) string, intFmt string) error {
	for _, e := range sortedEvents(result.EventCounts) {
		if err := w.Write([]string{"event", e.Event, fmt.Sprintf(intFmt, e.Count), "", ""}); err != nil {
			return err
		}
	}
	for _, h := range result.HourlyPatterns {
		row := []string{
			"hour",
			strconv.Itoa(h.Hour),
			fmt.Sprintf(intFmt, h.Runs),
			fmtFloat(h.AvgDurationMinutes),
			strconv.FormatBool(isPeak(result, h.Hour)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// printPatternTables prints the event histogram and the hourly durations.
func printPatternTables(out io.Writer, result schema.PatternResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	events := tablewriter.NewWriter(out)
	events.Header([]string{"Event", "Runs"})
	var eventRows [][]string
	for _, e := range sortedEvents(result.EventCounts) {
		eventRows = append(eventRows, []string{e.Event, fmt.Sprintf(intFmt, e.Count)})
	}
	if err := events.Bulk(eventRows); err != nil {
		return err
	}
	if err := events.Render(); err != nil {
		return err
	}

	hours := tablewriter.NewWriter(out)
	hours.Header([]string{"Hour", "Runs", "Avg (m)", "Peak"})
	hours.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var hourRows [][]string
	for _, h := range result.HourlyPatterns {
		peak := ""
		if isPeak(result, h.Hour) {
			peak = "🔥"
		}
		hourRows = append(hourRows, []string{
			fmt.Sprintf("%02d:00", h.Hour),
			fmt.Sprintf(intFmt, h.Runs),
			fmtFloat(h.AvgDurationMinutes),
			peak,
		})
	}
	if err := hours.Bulk(hourRows); err != nil {
		return err
	}
	if err := hours.Render(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Pattern analysis completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return nil
}
