// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// GitHubClient defines the remote operations needed to collect workflow runs.
// This allows the orchestration logic to be tested without a network connection.
type GitHubClient interface {
	// Host returns the GitHub host the client talks to.
	Host() string

	// ListOrgRepositories returns the full names of the non-archived repositories of
	// an organization whose name contains filter. A filter of "" or "*" matches all.
	ListOrgRepositories(ctx context.Context, org string, filter string) ([]string, error)

	// ListActiveWorkflows returns the active workflows of a repository.
	ListActiveWorkflows(ctx context.Context, repo string) ([]schema.Workflow, error)

	// ListWorkflowRuns returns the successful completed runs of a workflow created after since.
	ListWorkflowRuns(ctx context.Context, repo string, workflow schema.Workflow, since time.Time) ([]schema.RunRecord, error)

	// GetWorkflowContent returns the raw workflow file. A nil slice with a nil error
	// means the file could not be retrieved.
	GetWorkflowContent(ctx context.Context, repo string, path string) ([]byte, error)
}
