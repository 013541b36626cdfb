// Package agg has aggregation logic for workflow run data.
package agg

import (
	"sort"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/core/algo"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// RecentRunLimit is the number of most recent runs kept per workflow.
const RecentRunLimit = 10

// PeakHourLimit is the number of hours reported as peaks.
const PeakHourLimit = 5

// dayLayout is the layout of a calendar day key.
const dayLayout = "2006-01-02"

// WorkflowKey identifies a workflow across repositories.
type WorkflowKey struct {
	Repository   string
	WorkflowName string
}

// RunGroup holds the runs of one workflow.
type RunGroup struct {
	Key  WorkflowKey
	Runs []schema.RunRecord
}

// GroupRuns partitions runs by (repository, workflow). Groups are returned in the
// order their first run was seen so that downstream sorting stays deterministic.
func GroupRuns(runs []schema.RunRecord) []RunGroup {
	index := make(map[WorkflowKey]int)
	var groups []RunGroup
	for _, r := range runs {
		key := WorkflowKey{Repository: r.Repository, WorkflowName: r.WorkflowName}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, RunGroup{Key: key})
		}
		groups[i].Runs = append(groups[i].Runs, r)
	}
	return groups
}

// DurationStats returns the average, maximum and minimum duration in minutes.
// All values are zero for an empty slice.
func DurationStats(runs []schema.RunRecord) (avg, maxMinutes, minMinutes float64) {
	if len(runs) == 0 {
		return 0, 0, 0
	}
	var total float64
	maxMinutes = runs[0].DurationMinutes()
	minMinutes = maxMinutes
	for _, r := range runs {
		d := r.DurationMinutes()
		total += d
		maxMinutes = max(maxMinutes, d)
		minMinutes = min(minMinutes, d)
	}
	return total / float64(len(runs)), maxMinutes, minMinutes
}

// DistinctEvents returns the sorted set of raw event strings seen in the runs.
func DistinctEvents(runs []schema.RunRecord) []string {
	seen := make(map[string]struct{})
	events := []string{}
	for _, r := range runs {
		if _, ok := seen[r.Event]; ok {
			continue
		}
		seen[r.Event] = struct{}{}
		events = append(events, r.Event)
	}
	sort.Strings(events)
	return events
}

// AttachedProfile returns the first trigger profile attached to any of the runs.
func AttachedProfile(runs []schema.RunRecord) (schema.TriggerProfile, bool) {
	for _, r := range runs {
		if r.Trigger != nil {
			return *r.Trigger, true
		}
	}
	return schema.TriggerProfile{}, false
}

// RecentRuns returns up to limit runs ordered by creation time, newest first.
// The input slice is left untouched.
func RecentRuns(runs []schema.RunRecord, limit int) []schema.RunRecord {
	sorted := make([]schema.RunRecord, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// RepositoryRollup aggregates workflow statistics per repository.
func RepositoryRollup(stats []schema.WorkflowStats, threshold float64) map[string]schema.RepositorySummary {
	rollup := make(map[string]schema.RepositorySummary)
	durationTotals := make(map[string]float64)
	for _, s := range stats {
		summary := rollup[s.Repository]
		summary.Repository = s.Repository
		summary.TotalWorkflows++
		summary.TotalRuns += s.TotalRuns
		summary.Workflows = append(summary.Workflows, s.WorkflowName)
		if algo.IsProblematic(s, threshold) {
			summary.ProblematicWorkflows++
		}
		durationTotals[s.Repository] += s.AvgDurationMinutes
		rollup[s.Repository] = summary
	}

	for repo, summary := range rollup {
		summary.AvgDurationMinutes = durationTotals[repo] / float64(summary.TotalWorkflows)
		summary.ProblematicPercent = float64(summary.ProblematicWorkflows) / float64(summary.TotalWorkflows) * 100
		summary.Grade = algo.GradeRepository(summary.ProblematicPercent)
		rollup[repo] = summary
	}
	return rollup
}

// DailyTrends buckets runs by the calendar day of their creation timestamp. Only
// days with at least one run appear, ordered by date ascending.
func DailyTrends(runs []schema.RunRecord, windowDays int) schema.TrendResult {
	type bucket struct {
		runs      int
		total     float64
		maxMin    float64
		workflows map[WorkflowKey]struct{}
	}

	buckets := make(map[string]*bucket)
	allWorkflows := make(map[WorkflowKey]struct{})
	for _, r := range runs {
		key := WorkflowKey{Repository: r.Repository, WorkflowName: r.WorkflowName}
		allWorkflows[key] = struct{}{}

		day := r.CreatedAt.Format(dayLayout)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{workflows: make(map[WorkflowKey]struct{})}
			buckets[day] = b
		}
		d := r.DurationMinutes()
		b.runs++
		b.total += d
		b.maxMin = max(b.maxMin, d)
		b.workflows[key] = struct{}{}
	}

	days := make([]schema.DailyTrend, 0, len(buckets))
	for day, b := range buckets {
		days = append(days, schema.DailyTrend{
			Date:               day,
			Runs:               b.runs,
			AvgDurationMinutes: b.total / float64(b.runs),
			MaxDurationMinutes: b.maxMin,
			Workflows:          len(b.workflows),
		})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})

	return schema.TrendResult{
		WindowDays:     windowDays,
		TotalRuns:      len(runs),
		TotalWorkflows: len(allWorkflows),
		Days:           days,
	}
}

// Patterns tabulates event counts and mean duration by hour of day over the
// recent runs of each workflow.
func Patterns(stats []schema.WorkflowStats) schema.PatternResult {
	events := make(map[string]int)
	var hourRuns [24]int
	var hourTotals [24]float64
	for _, s := range stats {
		for _, r := range s.RecentRuns {
			events[r.Event]++
			h := r.CreatedAt.Hour()
			hourRuns[h]++
			hourTotals[h] += r.DurationMinutes()
		}
	}

	hourly := []schema.HourlyDuration{}
	for h := range 24 {
		if hourRuns[h] == 0 {
			continue
		}
		hourly = append(hourly, schema.HourlyDuration{
			Hour:               h,
			Runs:               hourRuns[h],
			AvgDurationMinutes: hourTotals[h] / float64(hourRuns[h]),
		})
	}

	peaks := make([]schema.HourlyDuration, len(hourly))
	copy(peaks, hourly)
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].AvgDurationMinutes > peaks[j].AvgDurationMinutes
	})
	if len(peaks) > PeakHourLimit {
		peaks = peaks[:PeakHourLimit]
	}

	return schema.PatternResult{
		EventCounts:    events,
		HourlyPatterns: hourly,
		PeakHours:      peaks,
	}
}

// Summarize computes the headline numbers of an analysis.
func Summarize(stats []schema.WorkflowStats, analysisDays int, now time.Time) schema.AnalysisSummary {
	summary := schema.AnalysisSummary{
		TotalWorkflows: len(stats),
		AnalysisDays:   analysisDays,
		GeneratedAt:    now,
	}
	repos := make(map[string]struct{})
	var durationTotal float64
	for _, s := range stats {
		repos[s.Repository] = struct{}{}
		durationTotal += s.AvgDurationMinutes
		summary.TotalRuns += s.TotalRuns
		switch s.Priority {
		case schema.CriticalPriority:
			summary.CriticalWorkflows++
		case schema.HighPriority:
			summary.HighWorkflows++
		}
	}
	summary.ProblematicWorkflows = summary.CriticalWorkflows + summary.HighWorkflows
	summary.TotalRepositories = len(repos)
	if len(stats) > 0 {
		summary.AvgDurationMinutes = durationTotal / float64(len(stats))
	}
	return summary
}

// MonthlyUsage projects per-repository CI minutes over a month and the share each
// repository takes of the total. Shares are zero when there is no usage at all.
func MonthlyUsage(stats []schema.WorkflowStats) []schema.RepositoryUsage {
	index := make(map[string]int)
	usage := []schema.RepositoryUsage{}
	var total float64
	for _, s := range stats {
		i, ok := index[s.Repository]
		if !ok {
			i = len(usage)
			index[s.Repository] = i
			usage = append(usage, schema.RepositoryUsage{Repository: s.Repository})
		}
		minutes := algo.MonthlyMinutes(s)
		usage[i].MonthlyMinutes += minutes
		usage[i].Workflows++
		total += minutes
	}

	if total > 0 {
		for i := range usage {
			usage[i].SharePercent = usage[i].MonthlyMinutes / total * 100
		}
	}
	return algo.RankUsage(usage)
}
