package ghclient

import (
	"context"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitHubClient is a mock implementation of contract.GitHubClient for testing.
type MockGitHubClient struct {
	mock.Mock
}

// Host returns the mocked host.
func (m *MockGitHubClient) Host() string {
	args := m.Called()
	return args.String(0)
}

// ListOrgRepositories mocks the organization repository listing.
func (m *MockGitHubClient) ListOrgRepositories(ctx context.Context, org string, filter string) ([]string, error) {
	args := m.Called(ctx, org, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ListActiveWorkflows mocks the workflow listing.
func (m *MockGitHubClient) ListActiveWorkflows(ctx context.Context, repo string) ([]schema.Workflow, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.Workflow), args.Error(1)
}

// ListWorkflowRuns mocks the workflow run listing.
func (m *MockGitHubClient) ListWorkflowRuns(ctx context.Context, repo string, workflow schema.Workflow, since time.Time) ([]schema.RunRecord, error) {
	args := m.Called(ctx, repo, workflow, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schema.RunRecord), args.Error(1)
}

// GetWorkflowContent mocks the workflow file lookup.
func (m *MockGitHubClient) GetWorkflowContent(ctx context.Context, repo string, path string) ([]byte, error) {
	args := m.Called(ctx, repo, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
