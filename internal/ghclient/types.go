package ghclient

import "time"

// Status and conclusion values used when filtering runs.
const (
	StatusCompleted   = "completed"
	ConclusionSuccess = "success"
	StateActive       = "active"
)

// repository is the subset of the repository payload the client reads.
type repository struct {
	FullName string `json:"full_name"`
	Archived bool   `json:"archived"`
}

// workflow is one entry of the workflows listing.
type workflow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	State string `json:"state"`
}

// workflowsResponse is the payload of the workflows listing.
type workflowsResponse struct {
	TotalCount int        `json:"total_count"`
	Workflows  []workflow `json:"workflows"`
}

// workflowRun is one entry of the workflow runs listing.
type workflowRun struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	Event      string    `json:"event"`
	HeadBranch string    `json:"head_branch"`
	WorkflowID int64     `json:"workflow_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsSuccess returns true if the run completed successfully.
func (r workflowRun) IsSuccess() bool {
	return r.Status == StatusCompleted && r.Conclusion == ConclusionSuccess
}

// runsResponse is the payload of the workflow runs listing.
type runsResponse struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []workflowRun `json:"workflow_runs"`
}

// contentResponse is the payload of the repository contents endpoint for a file.
type contentResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}
