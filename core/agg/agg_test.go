package agg

import (
	"testing"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, ts string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	return parsed
}

func newRun(t *testing.T, repo, workflow, event, created string, minutes float64) schema.RunRecord {
	t.Helper()
	c := mustTime(t, created)
	return schema.RunRecord{
		Repository:      repo,
		WorkflowName:    workflow,
		Event:           event,
		CreatedAt:       c,
		UpdatedAt:       c.Add(time.Duration(minutes * float64(time.Minute))),
		DurationSeconds: minutes * 60,
	}
}

func TestGroupRuns(t *testing.T) {
	runs := []schema.RunRecord{
		newRun(t, "org/b", "build", "push", "2024-03-01T10:00:00Z", 1),
		newRun(t, "org/a", "build", "push", "2024-03-01T11:00:00Z", 2),
		newRun(t, "org/b", "build", "push", "2024-03-02T10:00:00Z", 3),
		newRun(t, "org/b", "lint", "push", "2024-03-02T10:00:00Z", 4),
	}

	groups := GroupRuns(runs)

	require.Len(t, groups, 3)
	assert.Equal(t, WorkflowKey{"org/b", "build"}, groups[0].Key)
	assert.Len(t, groups[0].Runs, 2)
	assert.Equal(t, WorkflowKey{"org/a", "build"}, groups[1].Key)
	assert.Equal(t, WorkflowKey{"org/b", "lint"}, groups[2].Key)
	assert.Empty(t, GroupRuns(nil))
}

func TestDurationStats(t *testing.T) {
	runs := []schema.RunRecord{
		newRun(t, "org/a", "build", "push", "2024-03-01T10:00:00Z", 12),
		newRun(t, "org/a", "build", "push", "2024-03-01T11:00:00Z", 8),
		newRun(t, "org/a", "build", "push", "2024-03-01T12:00:00Z", 4),
	}

	avg, maxMinutes, minMinutes := DurationStats(runs)
	assert.InDelta(t, 8.0, avg, 1e-9)
	assert.InDelta(t, 12.0, maxMinutes, 1e-9)
	assert.InDelta(t, 4.0, minMinutes, 1e-9)

	avg, maxMinutes, minMinutes = DurationStats(nil)
	assert.Zero(t, avg)
	assert.Zero(t, maxMinutes)
	assert.Zero(t, minMinutes)
}

func TestDistinctEvents(t *testing.T) {
	runs := []schema.RunRecord{
		{Event: "push"}, {Event: "pull_request"}, {Event: "push"}, {Event: "schedule"},
	}
	assert.Equal(t, []string{"pull_request", "push", "schedule"}, DistinctEvents(runs))
	assert.Equal(t, []string{}, DistinctEvents(nil))
}

func TestAttachedProfile(t *testing.T) {
	profile := &schema.TriggerProfile{Push: true, FrequencyScore: 2}
	runs := []schema.RunRecord{{}, {Trigger: profile}, {Trigger: &schema.TriggerProfile{Schedule: true}}}

	got, ok := AttachedProfile(runs)
	assert.True(t, ok)
	assert.Equal(t, *profile, got)

	_, ok = AttachedProfile([]schema.RunRecord{{}, {}})
	assert.False(t, ok)
}

func TestRecentRuns(t *testing.T) {
	var runs []schema.RunRecord
	base := mustTime(t, "2024-03-01T00:00:00Z")
	for i := range 12 {
		runs = append(runs, schema.RunRecord{ID: int64(i), CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	recent := RecentRuns(runs, RecentRunLimit)

	require.Len(t, recent, 10)
	assert.Equal(t, int64(11), recent[0].ID)
	assert.Equal(t, int64(2), recent[9].ID)
	assert.Equal(t, int64(0), runs[0].ID, "input order is untouched")
}

func TestRepositoryRollup(t *testing.T) {
	stats := []schema.WorkflowStats{
		{Repository: "org/a", WorkflowName: "build", AvgDurationMinutes: 20, TotalRuns: 4},
		{Repository: "org/a", WorkflowName: "lint", AvgDurationMinutes: 2, FrequencyScore: 1, TotalRuns: 6},
		{Repository: "org/a", WorkflowName: "test", AvgDurationMinutes: 5, FrequencyScore: 8, TotalRuns: 40},
		{Repository: "org/b", WorkflowName: "docs", AvgDurationMinutes: 1, TotalRuns: 1},
	}

	rollup := RepositoryRollup(stats, 10)

	require.Len(t, rollup, 2)
	a := rollup["org/a"]
	assert.Equal(t, 3, a.TotalWorkflows)
	assert.Equal(t, 2, a.ProblematicWorkflows)
	assert.Equal(t, 50, a.TotalRuns)
	assert.InDelta(t, 9.0, a.AvgDurationMinutes, 1e-9)
	assert.InDelta(t, 200.0/3.0, a.ProblematicPercent, 1e-9)
	assert.Equal(t, schema.HighRiskGrade, a.Grade)
	assert.Equal(t, []string{"build", "lint", "test"}, a.Workflows)

	b := rollup["org/b"]
	assert.Equal(t, 1, b.TotalWorkflows)
	assert.Equal(t, 0, b.ProblematicWorkflows)
	assert.Equal(t, schema.HealthyGrade, b.Grade)

	assert.Empty(t, RepositoryRollup(nil, 10))
}

func TestDailyTrends(t *testing.T) {
	runs := []schema.RunRecord{
		newRun(t, "org/a", "build", "push", "2024-03-03T10:00:00Z", 6),
		newRun(t, "org/a", "build", "push", "2024-03-01T10:00:00Z", 2),
		newRun(t, "org/a", "lint", "push", "2024-03-01T23:00:00Z", 4),
		newRun(t, "org/b", "build", "push", "2024-03-01T08:00:00Z", 9),
	}

	result := DailyTrends(runs, 15)

	assert.Equal(t, 15, result.WindowDays)
	assert.Equal(t, 4, result.TotalRuns)
	assert.Equal(t, 3, result.TotalWorkflows)
	require.Len(t, result.Days, 2, "days without runs are not synthesized")

	first := result.Days[0]
	assert.Equal(t, "2024-03-01", first.Date)
	assert.Equal(t, 3, first.Runs)
	assert.InDelta(t, 5.0, first.AvgDurationMinutes, 1e-9)
	assert.InDelta(t, 9.0, first.MaxDurationMinutes, 1e-9)
	assert.Equal(t, 3, first.Workflows)

	assert.Equal(t, "2024-03-03", result.Days[1].Date)
	assert.Equal(t, 1, result.Days[1].Workflows)
}

func TestDailyTrendsUsesCarriedTimezone(t *testing.T) {
	runs := []schema.RunRecord{
		newRun(t, "org/a", "build", "push", "2024-03-01T23:30:00-05:00", 1),
	}

	result := DailyTrends(runs, 1)

	require.Len(t, result.Days, 1)
	assert.Equal(t, "2024-03-01", result.Days[0].Date)
}

func TestDailyTrendsEmpty(t *testing.T) {
	result := DailyTrends(nil, 7)
	assert.Equal(t, 7, result.WindowDays)
	assert.Zero(t, result.TotalRuns)
	assert.Empty(t, result.Days)
}

func TestPatterns(t *testing.T) {
	stats := []schema.WorkflowStats{
		{RecentRuns: []schema.RunRecord{
			newRun(t, "org/a", "build", "push", "2024-03-01T09:00:00Z", 10),
			newRun(t, "org/a", "build", "push", "2024-03-02T09:30:00Z", 20),
			newRun(t, "org/a", "build", "pull_request", "2024-03-02T14:00:00Z", 30),
		}},
		{RecentRuns: []schema.RunRecord{
			newRun(t, "org/b", "nightly", "schedule", "2024-03-01T02:00:00Z", 15),
			newRun(t, "org/b", "nightly", "schedule", "2024-03-01T03:00:00Z", 15),
			newRun(t, "org/b", "nightly", "schedule", "2024-03-01T04:00:00Z", 1),
			newRun(t, "org/b", "nightly", "schedule", "2024-03-01T05:00:00Z", 2),
		}},
	}

	result := Patterns(stats)

	assert.Equal(t, map[string]int{"push": 2, "pull_request": 1, "schedule": 4}, result.EventCounts)
	require.Len(t, result.HourlyPatterns, 6)
	assert.Equal(t, 2, result.HourlyPatterns[0].Hour)
	assert.Equal(t, 9, result.HourlyPatterns[4].Hour)
	assert.Equal(t, 2, result.HourlyPatterns[4].Runs)
	assert.InDelta(t, 15.0, result.HourlyPatterns[4].AvgDurationMinutes, 1e-9)

	require.Len(t, result.PeakHours, 5)
	assert.Equal(t, 14, result.PeakHours[0].Hour)
	assert.Equal(t, 2, result.PeakHours[1].Hour, "ties keep the earlier hour first")
	assert.Equal(t, 3, result.PeakHours[2].Hour)
	assert.Equal(t, 9, result.PeakHours[3].Hour)
	assert.Equal(t, 5, result.PeakHours[4].Hour)
}

func TestPatternsEmpty(t *testing.T) {
	result := Patterns(nil)
	assert.Empty(t, result.EventCounts)
	assert.Empty(t, result.HourlyPatterns)
	assert.Empty(t, result.PeakHours)
}

func TestSummarize(t *testing.T) {
	now := mustTime(t, "2024-03-15T12:00:00Z")
	stats := []schema.WorkflowStats{
		{Repository: "org/a", Priority: schema.CriticalPriority, AvgDurationMinutes: 30, TotalRuns: 10},
		{Repository: "org/a", Priority: schema.HighPriority, AvgDurationMinutes: 12, TotalRuns: 5},
		{Repository: "org/b", Priority: schema.LowPriority, AvgDurationMinutes: 3, TotalRuns: 1},
	}

	summary := Summarize(stats, 15, now)

	assert.Equal(t, 3, summary.TotalWorkflows)
	assert.Equal(t, 2, summary.ProblematicWorkflows)
	assert.Equal(t, 1, summary.CriticalWorkflows)
	assert.Equal(t, 1, summary.HighWorkflows)
	assert.Equal(t, 2, summary.TotalRepositories)
	assert.InDelta(t, 15.0, summary.AvgDurationMinutes, 1e-9)
	assert.Equal(t, 16, summary.TotalRuns)
	assert.Equal(t, 15, summary.AnalysisDays)
	assert.Equal(t, now, summary.GeneratedAt)

	empty := Summarize(nil, 15, now)
	assert.Zero(t, empty.TotalWorkflows)
	assert.Zero(t, empty.AvgDurationMinutes)
}

func TestMonthlyUsage(t *testing.T) {
	stats := []schema.WorkflowStats{
		{Repository: "org/a", AvgDurationMinutes: 10, FrequencyScore: 1},
		{Repository: "org/b", AvgDurationMinutes: 5, FrequencyScore: 4},
		{Repository: "org/a", AvgDurationMinutes: 2, FrequencyScore: 5},
	}

	usage := MonthlyUsage(stats)

	require.Len(t, usage, 2)
	assert.Equal(t, "org/b", usage[0].Repository)
	assert.InDelta(t, 600.0, usage[0].MonthlyMinutes, 1e-9)
	assert.InDelta(t, 50.0, usage[0].SharePercent, 1e-9)
	assert.Equal(t, "org/a", usage[1].Repository)
	assert.Equal(t, 2, usage[1].Workflows)
	assert.InDelta(t, 600.0, usage[1].MonthlyMinutes, 1e-9)
}

func TestMonthlyUsageWithoutConsumption(t *testing.T) {
	usage := MonthlyUsage([]schema.WorkflowStats{{Repository: "org/a"}})
	require.Len(t, usage, 1)
	assert.Zero(t, usage[0].SharePercent)
	assert.Empty(t, MonthlyUsage(nil))
}
