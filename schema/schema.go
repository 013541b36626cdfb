// Package schema has the data types shared by the analyzer, its collaborators and its writers.
package schema

import "time"

// RunRecord is one completed, successful execution of a workflow.
type RunRecord struct {
	ID              int64           `json:"id"`
	Repository      string          `json:"repository"`
	WorkflowName    string          `json:"workflow_name"`
	WorkflowID      int64           `json:"workflow_id,omitempty"`
	Event           string          `json:"event"`
	Branch          string          `json:"branch,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DurationSeconds float64         `json:"duration_seconds"`
	Trigger         *TriggerProfile `json:"trigger,omitempty"`
}

// DurationMinutes returns the run duration in minutes.
func (r RunRecord) DurationMinutes() float64 {
	return r.DurationSeconds / 60
}

// TriggerProfile is the classified trigger declaration of a workflow.
type TriggerProfile struct {
	PullRequest    bool     `json:"is_pr_triggered"`
	Push           bool     `json:"is_push_triggered"`
	Schedule       bool     `json:"is_schedule_triggered"`
	Manual         bool     `json:"is_manual_triggered"`
	FrequencyScore int      `json:"trigger_frequency_score"`
	HighFrequency  bool     `json:"is_high_frequency_trigger"`
	Triggers       []string `json:"raw_triggers,omitempty"`
}

// IsFrequent reports whether the workflow runs on pull requests or pushes.
func (p TriggerProfile) IsFrequent() bool {
	return p.PullRequest || p.Push
}

// Workflow is a workflow definition as listed by the remote API.
type Workflow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	State string `json:"state"`
}

// WorkflowStats is the analysis result for one (repository, workflow) pair.
type WorkflowStats struct {
	Repository         string         `json:"repository"`
	WorkflowName       string         `json:"workflow_name"`
	TotalRuns          int            `json:"total_runs"`
	AvgDurationMinutes float64        `json:"avg_duration_minutes"`
	MaxDurationMinutes float64        `json:"max_duration_minutes"`
	MinDurationMinutes float64        `json:"min_duration_minutes"`
	FrequencyScore     float64        `json:"frequency_score"`
	DurationScore      float64        `json:"duration_score"`
	CombinedScore      float64        `json:"combined_score"`
	Priority           Priority       `json:"optimization_priority"`
	Trigger            TriggerProfile `json:"trigger"`
	TriggerEvents      []string       `json:"trigger_events"`
	RecentRuns         []RunRecord    `json:"recent_runs"`
}

// DailyImpactMinutes estimates the developer minutes spent waiting on the workflow per day.
func (s WorkflowStats) DailyImpactMinutes() float64 {
	return s.AvgDurationMinutes * s.FrequencyScore
}

// RepositorySummary is the per-repository rollup of workflow statistics.
type RepositorySummary struct {
	Repository           string          `json:"repository"`
	TotalWorkflows       int             `json:"total_workflows"`
	ProblematicWorkflows int             `json:"problematic_workflows"`
	ProblematicPercent   float64         `json:"problematic_percent"`
	AvgDurationMinutes   float64         `json:"avg_duration_minutes"`
	TotalRuns            int             `json:"total_runs"`
	Grade                RepositoryGrade `json:"grade"`
	Workflows            []string        `json:"workflows"`
}

// DailyTrend holds the run activity of a single calendar day.
type DailyTrend struct {
	Date               string  `json:"date"`
	Runs               int     `json:"runs"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
	MaxDurationMinutes float64 `json:"max_duration_minutes"`
	Workflows          int     `json:"workflows"`
}

// TrendResult is the daily series over an analysis window.
type TrendResult struct {
	WindowDays     int          `json:"total_analysis_days"`
	TotalRuns      int          `json:"total_runs"`
	TotalWorkflows int          `json:"total_workflows"`
	Days           []DailyTrend `json:"daily_trends"`
}

// HourlyDuration is the mean duration of runs started in a given hour of day.
type HourlyDuration struct {
	Hour               int     `json:"hour"`
	Runs               int     `json:"runs"`
	AvgDurationMinutes float64 `json:"avg_duration_minutes"`
}

// PatternResult aggregates events and start hours over the recent runs of each workflow.
type PatternResult struct {
	EventCounts    map[string]int   `json:"trigger_events"`
	HourlyPatterns []HourlyDuration `json:"hourly_patterns"`
	PeakHours      []HourlyDuration `json:"peak_hours"`
}

// AnalysisSummary holds headline numbers for one analysis.
type AnalysisSummary struct {
	TotalWorkflows       int       `json:"total_workflows"`
	ProblematicWorkflows int       `json:"problematic_workflows"`
	CriticalWorkflows    int       `json:"critical_workflows"`
	HighWorkflows        int       `json:"high_workflows"`
	TotalRepositories    int       `json:"total_repositories"`
	AvgDurationMinutes   float64   `json:"avg_duration_minutes"`
	TotalRuns            int       `json:"total_runs"`
	AnalysisDays         int       `json:"analysis_period_days"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// RepositoryUsage is the estimated monthly CI consumption of a repository.
type RepositoryUsage struct {
	Repository     string  `json:"repository"`
	Workflows      int     `json:"workflows"`
	MonthlyMinutes float64 `json:"monthly_minutes"`
	SharePercent   float64 `json:"share_percent"`
}

// ClassifiedFile pairs a local workflow file with its trigger profile.
type ClassifiedFile struct {
	Path    string         `json:"path"`
	Trigger TriggerProfile `json:"trigger"`
}
