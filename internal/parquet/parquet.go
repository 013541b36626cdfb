// Package parquet provides row types and writers for exporting workflow
// analysis results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/parquet-go/parquet-go"
)

// WorkflowStat is one ranked workflow in a workflows export.
type WorkflowStat struct {
	// Rank is the 1-based position in the ranking
	Rank int32 `parquet:"rank,snappy"`

	Repository   string `parquet:"repository,snappy,dict"`
	WorkflowName string `parquet:"workflow_name,snappy"`
	TotalRuns    int32  `parquet:"total_runs,snappy"`

	AvgDurationMinutes float64 `parquet:"avg_duration_minutes,snappy"`
	MaxDurationMinutes float64 `parquet:"max_duration_minutes,snappy"`
	MinDurationMinutes float64 `parquet:"min_duration_minutes,snappy"`

	FrequencyScore float64 `parquet:"frequency_score,snappy"`
	DurationScore  float64 `parquet:"duration_score,snappy"`
	CombinedScore  float64 `parquet:"combined_score,snappy"`
	DailyImpact    float64 `parquet:"daily_impact_minutes,snappy"`

	// Priority is one of critical, high, medium, low
	Priority string `parquet:"optimization_priority,snappy,dict"`

	// TriggerEvents holds the distinct observed events joined with '|'
	TriggerEvents string `parquet:"trigger_events,snappy"`

	PullRequest   bool `parquet:"is_pr_triggered"`
	Push          bool `parquet:"is_push_triggered"`
	Schedule      bool `parquet:"is_schedule_triggered"`
	Manual        bool `parquet:"is_manual_triggered"`
	HighFrequency bool `parquet:"is_high_frequency_trigger"`

	// GeneratedAt is when the export was produced
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// Repository is one repository scorecard row.
type Repository struct {
	Repository           string  `parquet:"repository,snappy"`
	TotalWorkflows       int32   `parquet:"total_workflows,snappy"`
	ProblematicWorkflows int32   `parquet:"problematic_workflows,snappy"`
	ProblematicPercent   float64 `parquet:"problematic_percent,snappy"`
	AvgDurationMinutes   float64 `parquet:"avg_duration_minutes,snappy"`
	TotalRuns            int32   `parquet:"total_runs,snappy"`
	Grade                string  `parquet:"grade,snappy,dict"`
}

// DailyTrend is one day of a trend export.
type DailyTrend struct {
	// Date is the calendar day as YYYY-MM-DD
	Date               string  `parquet:"date,snappy"`
	Runs               int32   `parquet:"runs,snappy"`
	AvgDurationMinutes float64 `parquet:"avg_duration_minutes,snappy"`
	MaxDurationMinutes float64 `parquet:"max_duration_minutes,snappy"`
	Workflows          int32   `parquet:"workflows,snappy"`
}

// Usage is the projected monthly consumption of one repository.
type Usage struct {
	Repository     string  `parquet:"repository,snappy"`
	Workflows      int32   `parquet:"workflows,snappy"`
	MonthlyMinutes float64 `parquet:"monthly_minutes,snappy"`
	SharePercent   float64 `parquet:"share_percent,snappy"`
}

// writeRows writes rows to a new Parquet file at outputPath, inferring the
// schema from the struct tags of T.
func writeRows[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteWorkflowStatsParquet writes ranked workflow rows to a Parquet file.
func WriteWorkflowStatsParquet(data []WorkflowStat, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRepositoriesParquet writes repository scorecard rows to a Parquet file.
func WriteRepositoriesParquet(data []Repository, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteDailyTrendsParquet writes daily trend rows to a Parquet file.
func WriteDailyTrendsParquet(data []DailyTrend, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteUsageParquet writes monthly usage rows to a Parquet file.
func WriteUsageParquet(data []Usage, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertWorkflowStats converts ranked workflow statistics to Parquet rows.
func ConvertWorkflowStats(stats []schema.WorkflowStats, generatedAt time.Time) []WorkflowStat {
	result := make([]WorkflowStat, len(stats))
	for i, s := range stats {
		result[i] = WorkflowStat{
			Rank:               int32(i + 1),
			Repository:         s.Repository,
			WorkflowName:       s.WorkflowName,
			TotalRuns:          int32(s.TotalRuns),
			AvgDurationMinutes: s.AvgDurationMinutes,
			MaxDurationMinutes: s.MaxDurationMinutes,
			MinDurationMinutes: s.MinDurationMinutes,
			FrequencyScore:     s.FrequencyScore,
			DurationScore:      s.DurationScore,
			CombinedScore:      s.CombinedScore,
			DailyImpact:        s.DailyImpactMinutes(),
			Priority:           string(s.Priority),
			TriggerEvents:      strings.Join(s.TriggerEvents, "|"),
			PullRequest:        s.Trigger.PullRequest,
			Push:               s.Trigger.Push,
			Schedule:           s.Trigger.Schedule,
			Manual:             s.Trigger.Manual,
			HighFrequency:      s.Trigger.HighFrequency,
			GeneratedAt:        generatedAt,
		}
	}
	return result
}

// ConvertRepositories converts repository summaries to Parquet rows.
func ConvertRepositories(summaries []schema.RepositorySummary) []Repository {
	result := make([]Repository, len(summaries))
	for i, s := range summaries {
		result[i] = Repository{
			Repository:           s.Repository,
			TotalWorkflows:       int32(s.TotalWorkflows),
			ProblematicWorkflows: int32(s.ProblematicWorkflows),
			ProblematicPercent:   s.ProblematicPercent,
			AvgDurationMinutes:   s.AvgDurationMinutes,
			TotalRuns:            int32(s.TotalRuns),
			Grade:                string(s.Grade),
		}
	}
	return result
}

// ConvertDailyTrends converts a trend series to Parquet rows.
func ConvertDailyTrends(days []schema.DailyTrend) []DailyTrend {
	result := make([]DailyTrend, len(days))
	for i, d := range days {
		result[i] = DailyTrend{
			Date:               d.Date,
			Runs:               int32(d.Runs),
			AvgDurationMinutes: d.AvgDurationMinutes,
			MaxDurationMinutes: d.MaxDurationMinutes,
			Workflows:          int32(d.Workflows),
		}
	}
	return result
}

// ConvertUsage converts monthly usage entries to Parquet rows.
func ConvertUsage(usage []schema.RepositoryUsage) []Usage {
	result := make([]Usage, len(usage))
	for i, u := range usage {
		result[i] = Usage{
			Repository:     u.Repository,
			Workflows:      int32(u.Workflows),
			MonthlyMinutes: u.MonthlyMinutes,
			SharePercent:   u.SharePercent,
		}
	}
	return result
}
