package schema

// MetricDefinition describes one score computed for every workflow.
type MetricDefinition struct {
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
	Formula string `json:"formula"`
}

// PriorityRule is one row of the priority decision table. Rules are evaluated
// top to bottom and the first match wins.
type PriorityRule struct {
	Priority  Priority `json:"priority"`
	Condition string   `json:"condition"`
}

// GradeRule maps a range of problematic percentages onto a scorecard grade.
type GradeRule struct {
	Grade     RepositoryGrade `json:"grade"`
	Condition string          `json:"condition"`
}

// MetricsRenderModel contains all processed data needed for displaying the scoring model.
type MetricsRenderModel struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Threshold     float64            `json:"slow_threshold_minutes"`
	Metrics       []MetricDefinition `json:"metrics"`
	PriorityRules []PriorityRule     `json:"priority_rules"`
	Grades        []GradeRule        `json:"repository_grades"`
}
