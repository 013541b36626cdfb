package core

import (
	"fmt"

	"github.com/AjayJagan/github-workflow-analyzer/core/algo"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// BuildMetricsRenderModel describes the scoring model for the given slow threshold.
// The formulas are rendered from the same constants the analyzer uses.
func BuildMetricsRenderModel(threshold float64) *schema.MetricsRenderModel {
	return &schema.MetricsRenderModel{
		Title:       "Workflow Scoring Model",
		Description: "Workflows are ranked by a combined score of how slow they are and how often they run.",
		Threshold:   threshold,
		Metrics: []schema.MetricDefinition{
			{
				Name:    "frequency_score",
				Purpose: "Successful runs per day over the observed span",
				Formula: fmt.Sprintf("runs / max(day_span, 1), x%g when triggered on pull_request or push", algo.FrequentTriggerBoost),
			},
			{
				Name:    "duration_score",
				Purpose: "Minutes by which the average run exceeds the threshold",
				Formula: "max(0, avg_duration_minutes - T)",
			},
			{
				Name:    "trigger_multiplier",
				Purpose: "Boost for slow workflows that block pull requests or pushes",
				Formula: fmt.Sprintf("%g if pull_request and slow, %g if push and slow, else 1.0", algo.PullRequestSlowBoost, algo.PushSlowBoost),
			},
			{
				Name:    "combined_score",
				Purpose: "Ranking key, highest first",
				Formula: fmt.Sprintf("(duration_score*%g + frequency_score*%g) * trigger_multiplier", algo.DurationWeight, algo.FrequencyWeight),
			},
			{
				Name:    "daily_impact_minutes",
				Purpose: "Minutes spent on the workflow per day",
				Formula: "avg_duration_minutes * frequency_score",
			},
			{
				Name:    "monthly_minutes",
				Purpose: "Projected CI consumption per repository",
				Formula: fmt.Sprintf("sum(daily_impact_minutes) * %d", algo.DaysPerMonth),
			},
		},
		PriorityRules: []schema.PriorityRule{
			{Priority: schema.CriticalPriority, Condition: "pull_request or push triggered and avg > 2T"},
			{Priority: schema.HighPriority, Condition: "pull_request or push triggered and avg > T"},
			{Priority: schema.HighPriority, Condition: fmt.Sprintf("frequency_score > %g", algo.VeryFrequentRunsPerDay)},
			{Priority: schema.MediumPriority, Condition: "avg > T"},
			{Priority: schema.MediumPriority, Condition: fmt.Sprintf("frequency_score > %g", algo.FrequentRunsPerDay)},
			{Priority: schema.LowPriority, Condition: "otherwise"},
		},
		Grades: []schema.GradeRule{
			{Grade: schema.HighRiskGrade, Condition: "problematic share >= 50%"},
			{Grade: schema.NeedsAttentionGrade, Condition: "problematic share >= 25%"},
			{Grade: schema.MinorIssuesGrade, Condition: "problematic share > 0%"},
			{Grade: schema.HealthyGrade, Condition: "no problematic workflows"},
		},
	}
}
