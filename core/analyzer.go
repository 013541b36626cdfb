package core

import (
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/core/agg"
	"github.com/AjayJagan/github-workflow-analyzer/core/algo"
	"github.com/AjayJagan/github-workflow-analyzer/core/trigger"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// Analyzer turns run records into ranked workflow statistics and derived views.
// It holds no state besides the slow workflow threshold, so a single value can be
// shared across goroutines.
type Analyzer struct {
	threshold float64
}

// NewAnalyzer creates an analyzer that treats workflows slower than threshold
// minutes as slow.
func NewAnalyzer(threshold float64) *Analyzer {
	return &Analyzer{threshold: threshold}
}

// Threshold returns the slow workflow threshold in minutes.
func (a *Analyzer) Threshold() float64 {
	return a.threshold
}

// Analyze computes one WorkflowStats per (repository, workflow) pair and returns them
// ranked by combined score, highest first.
func (a *Analyzer) Analyze(runs []schema.RunRecord) []schema.WorkflowStats {
	groups := agg.GroupRuns(runs)
	stats := make([]schema.WorkflowStats, 0, len(groups))
	for _, g := range groups {
		if len(g.Runs) == 0 {
			continue
		}
		stats = append(stats, a.analyzeGroup(g))
	}
	return algo.RankWorkflows(stats)
}

// analyzeGroup computes the statistics of a single non-empty group.
func (a *Analyzer) analyzeGroup(g agg.RunGroup) schema.WorkflowStats {
	avg, maxMinutes, minMinutes := agg.DurationStats(g.Runs)
	events := agg.DistinctEvents(g.Runs)

	profile, ok := agg.AttachedProfile(g.Runs)
	if !ok {
		profile = trigger.FromEvents(events)
	}
	profile.HighFrequency = trigger.IsHighFrequency(profile.FrequencyScore, len(g.Runs))

	frequency := algo.FrequencyScore(len(g.Runs), algo.DaySpan(g.Runs), profile)
	duration := algo.DurationScore(avg, a.threshold)
	multiplier := algo.TriggerMultiplier(profile, avg, a.threshold)

	return schema.WorkflowStats{
		Repository:         g.Key.Repository,
		WorkflowName:       g.Key.WorkflowName,
		TotalRuns:          len(g.Runs),
		AvgDurationMinutes: avg,
		MaxDurationMinutes: maxMinutes,
		MinDurationMinutes: minMinutes,
		FrequencyScore:     frequency,
		DurationScore:      duration,
		CombinedScore:      algo.CombinedScore(duration, frequency, multiplier),
		Priority:           algo.AssignPriority(profile, avg, frequency, a.threshold),
		Trigger:            profile,
		TriggerEvents:      events,
		RecentRuns:         agg.RecentRuns(g.Runs, agg.RecentRunLimit),
	}
}

// FilterProblematic keeps the workflows that are slow or run more than five times a day.
func (a *Analyzer) FilterProblematic(stats []schema.WorkflowStats) []schema.WorkflowStats {
	out := []schema.WorkflowStats{}
	for _, s := range stats {
		if algo.IsProblematic(s, a.threshold) {
			out = append(out, s)
		}
	}
	return out
}

// FilterPriority keeps the workflows with one of the given priorities. An empty
// priority list keeps everything.
func FilterPriority(stats []schema.WorkflowStats, priorities ...schema.Priority) []schema.WorkflowStats {
	if len(priorities) == 0 {
		return stats
	}
	wanted := make(map[schema.Priority]struct{}, len(priorities))
	for _, p := range priorities {
		wanted[p] = struct{}{}
	}
	out := []schema.WorkflowStats{}
	for _, s := range stats {
		if _, ok := wanted[s.Priority]; ok {
			out = append(out, s)
		}
	}
	return out
}

// RepositorySummary rolls workflow statistics up per repository.
func (a *Analyzer) RepositorySummary(stats []schema.WorkflowStats) map[string]schema.RepositorySummary {
	return agg.RepositoryRollup(stats, a.threshold)
}

// TrendAnalysis buckets the raw runs by calendar day.
func (a *Analyzer) TrendAnalysis(runs []schema.RunRecord, windowDays int) schema.TrendResult {
	return agg.DailyTrends(runs, windowDays)
}

// WorkflowPatterns tabulates events and start hours over the recent runs of each workflow.
func (a *Analyzer) WorkflowPatterns(stats []schema.WorkflowStats) schema.PatternResult {
	return agg.Patterns(stats)
}

// Summary computes the headline numbers of an analysis.
func (a *Analyzer) Summary(stats []schema.WorkflowStats, analysisDays int, now time.Time) schema.AnalysisSummary {
	return agg.Summarize(stats, analysisDays, now)
}

// MonthlyUsage projects CI consumption per repository over a month.
func (a *Analyzer) MonthlyUsage(stats []schema.WorkflowStats) []schema.RepositoryUsage {
	return agg.MonthlyUsage(stats)
}
