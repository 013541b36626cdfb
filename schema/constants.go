package schema

// Custom string types for type safety.
type (
	// Priority is the optimization urgency of a workflow.
	Priority string

	// RepositoryGrade is the scorecard grade of a repository.
	RepositoryGrade string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All optimization priorities, from most to least urgent.
const (
	CriticalPriority Priority = "critical"
	HighPriority     Priority = "high"
	MediumPriority   Priority = "medium"
	LowPriority      Priority = "low"
)

// All repository grades.
const (
	HighRiskGrade       RepositoryGrade = "HIGH RISK"
	NeedsAttentionGrade RepositoryGrade = "NEEDS ATTENTION"
	MinorIssuesGrade    RepositoryGrade = "MINOR ISSUES"
	HealthyGrade        RepositoryGrade = "HEALTHY"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Well-known trigger event names.
const (
	PullRequestEvent      = "pull_request"
	PushEvent             = "push"
	ScheduleEvent         = "schedule"
	WorkflowDispatchEvent = "workflow_dispatch"
)

// AllPriorities lists priorities from most to least urgent.
var AllPriorities = []Priority{CriticalPriority, HighPriority, MediumPriority, LowPriority}

// ValidPriorities lists all valid priorities.
var ValidPriorities = map[Priority]struct{}{
	CriticalPriority: {},
	HighPriority:     {},
	MediumPriority:   {},
	LowPriority:      {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Weight returns the sort weight of a priority, higher is more urgent.
func (p Priority) Weight() int {
	switch p {
	case CriticalPriority:
		return 4
	case HighPriority:
		return 3
	case MediumPriority:
		return 2
	case LowPriority:
		return 1
	default:
		return 0
	}
}

// IsUrgent reports whether the priority is critical or high.
func (p Priority) IsUrgent() bool {
	return p == CriticalPriority || p == HighPriority
}
