// Package algo has the scoring and ranking primitives of the workflow analyzer.
package algo

import (
	"math"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// Weights and multipliers of the combined score.
const (
	DurationWeight       = 0.6
	FrequencyWeight      = 0.4
	FrequentTriggerBoost = 1.5
	PullRequestSlowBoost = 1.3
	PushSlowBoost        = 1.2
)

// Frequency thresholds in runs per day.
const (
	VeryFrequentRunsPerDay = 10.0
	FrequentRunsPerDay     = 5.0
)

// DaysPerMonth is used to project daily usage onto a month.
const DaysPerMonth = 30

// DaySpan returns the number of calendar days between the earliest and latest
// creation dates of the runs, floored at 1. Dates are taken in whatever location
// the timestamps already carry.
func DaySpan(runs []schema.RunRecord) int {
	if len(runs) == 0 {
		return 1
	}
	minDate := calendarDate(runs[0].CreatedAt)
	maxDate := minDate
	for _, r := range runs[1:] {
		d := calendarDate(r.CreatedAt)
		if d.Before(minDate) {
			minDate = d
		}
		if d.After(maxDate) {
			maxDate = d
		}
	}
	days := int(maxDate.Sub(minDate).Hours() / 24)
	return max(days, 1)
}

// calendarDate strips the clock from t, keeping its local date.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FrequencyScore returns runs per day, boosted for pull request or push triggered workflows.
func FrequencyScore(runs, daySpan int, profile schema.TriggerProfile) float64 {
	score := float64(runs) / float64(max(daySpan, 1))
	if profile.IsFrequent() {
		score *= FrequentTriggerBoost
	}
	return score
}

// DurationScore returns the minutes by which the average duration exceeds the threshold.
func DurationScore(avgMinutes, threshold float64) float64 {
	return math.Max(0, avgMinutes-threshold)
}

// TriggerMultiplier returns the boost applied to slow workflows on frequent triggers.
func TriggerMultiplier(profile schema.TriggerProfile, avgMinutes, threshold float64) float64 {
	slow := avgMinutes > threshold
	switch {
	case profile.PullRequest && slow:
		return PullRequestSlowBoost
	case profile.Push && slow:
		return PushSlowBoost
	default:
		return 1.0
	}
}

// CombinedScore blends excess duration and frequency into one comparable number.
func CombinedScore(durationScore, frequencyScore, multiplier float64) float64 {
	return (durationScore*DurationWeight + frequencyScore*FrequencyWeight) * multiplier
}

// AssignPriority walks the priority decision table top to bottom. All comparisons
// are strict, so boundary values fall through to the next tier.
func AssignPriority(profile schema.TriggerProfile, avgMinutes, frequencyScore, threshold float64) schema.Priority {
	frequent := profile.IsFrequent()
	switch {
	case frequent && avgMinutes > 2*threshold:
		return schema.CriticalPriority
	case frequent && avgMinutes > threshold:
		return schema.HighPriority
	case frequencyScore > VeryFrequentRunsPerDay:
		return schema.HighPriority
	case avgMinutes > threshold:
		return schema.MediumPriority
	case frequencyScore > FrequentRunsPerDay:
		return schema.MediumPriority
	default:
		return schema.LowPriority
	}
}

// IsProblematic reports whether a workflow is slow or runs more than the frequent rate.
func IsProblematic(stat schema.WorkflowStats, threshold float64) bool {
	return stat.AvgDurationMinutes > threshold || stat.FrequencyScore > FrequentRunsPerDay
}

// GradeRepository maps the share of problematic workflows onto a scorecard grade.
func GradeRepository(problematicPercent float64) schema.RepositoryGrade {
	switch {
	case problematicPercent >= 50:
		return schema.HighRiskGrade
	case problematicPercent >= 25:
		return schema.NeedsAttentionGrade
	case problematicPercent > 0:
		return schema.MinorIssuesGrade
	default:
		return schema.HealthyGrade
	}
}

// MonthlyMinutes projects the daily impact of a workflow onto a month.
func MonthlyMinutes(stat schema.WorkflowStats) float64 {
	return stat.DailyImpactMinutes() * DaysPerMonth
}
