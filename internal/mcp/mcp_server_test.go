package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/internal/ghclient"
	mcp_internal "github.com/AjayJagan/github-workflow-analyzer/internal/mcp"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	now := time.Now()
	return &contract.Config{
		Days:         7,
		Threshold:    10,
		StartTime:    now.Add(-7 * 24 * time.Hour),
		EndTime:      now,
		ResultLimit:  25,
		Workers:      2,
		Precision:    1,
		Output:       schema.TextOut,
		CacheBackend: schema.NoneBackend,
	}
}

// singleWorkflowClient serves one repository with a slow pull request workflow.
func singleWorkflowClient() *ghclient.MockGitHubClient {
	client := &ghclient.MockGitHubClient{}
	wf := schema.Workflow{ID: 1, Name: "CI", Path: ".github/workflows/ci.yml", State: "active"}
	created := time.Now().Add(-2 * time.Hour).UTC()

	var runs []schema.RunRecord
	for i := range 3 {
		start := created.Add(time.Duration(i) * time.Minute)
		runs = append(runs, schema.RunRecord{
			ID:              int64(i + 1),
			Repository:      "acme/api",
			WorkflowName:    wf.Name,
			WorkflowID:      wf.ID,
			Event:           schema.PullRequestEvent,
			CreatedAt:       start,
			UpdatedAt:       start.Add(30 * time.Minute),
			DurationSeconds: 1800,
		})
	}

	client.On("ListActiveWorkflows", mock.Anything, "acme/api").Return([]schema.Workflow{wf}, nil)
	client.On("ListWorkflowRuns", mock.Anything, "acme/api", wf, mock.Anything).Return(runs, nil)
	client.On("GetWorkflowContent", mock.Anything, "acme/api", wf.Path).Return([]byte("on: pull_request"), nil)
	return client
}

func callTool(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	// The client is never reached because validation fails first
	s := mcp_internal.NewMCPServer(baseConfig(), &ghclient.MockGitHubClient{}, nil)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"missing target", "analyze_workflows", map[string]any{}, "organization (--org) or a repository list"},
		{"days out of range", "trend_analysis", map[string]any{"repos": "acme/api", "days": 500.0}, "days must be between"},
		{"negative threshold", "repository_summary", map[string]any{"repos": "acme/api", "threshold": -1.0}, "threshold must be greater than 0"},
		{"limit too large", "monthly_usage", map[string]any{"repos": "acme/api", "limit": 5000.0}, "limit must be greater than 0"},
		{"bad repository", "workflow_patterns", map[string]any{"repos": "not-a-repo"}, "invalid parameters"},
		{"bad priority", "analyze_workflows", map[string]any{"repos": "acme/api", "priority": "urgent"}, "invalid parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, s, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestMCPServerTools(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil, nil)
	for _, name := range []string{"analyze_workflows", "repository_summary", "trend_analysis", "workflow_patterns", "monthly_usage", "analysis_summary"} {
		assert.NotNil(t, s.GetTool(name), name)
	}
}

func TestAnalyzeWorkflowsTool(t *testing.T) {
	client := singleWorkflowClient()
	s := mcp_internal.NewMCPServer(baseConfig(), client, nil)

	res := callTool(t, s, "analyze_workflows", map[string]any{"repos": "acme/api", "days": 3.0, "problematic": true})

	require.False(t, res.IsError, resultText(t, res))
	var stats []schema.EnrichedWorkflowStats
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Rank)
	assert.Equal(t, "CI", stats[0].WorkflowName)
	assert.Equal(t, schema.CriticalPriority, stats[0].Priority)
	client.AssertExpectations(t)
}

func TestAnalysisSummaryTool(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), singleWorkflowClient(), nil)

	res := callTool(t, s, "analysis_summary", map[string]any{"repos": "acme/api"})

	require.False(t, res.IsError, resultText(t, res))
	var summary schema.AnalysisSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &summary))
	assert.Equal(t, 1, summary.TotalWorkflows)
	assert.Equal(t, 3, summary.TotalRuns)
	assert.Equal(t, 7, summary.AnalysisDays)
}

func TestToolReportsAnalysisFailure(t *testing.T) {
	client := &ghclient.MockGitHubClient{}
	client.On("ListActiveWorkflows", mock.Anything, "acme/api").Return(nil, assert.AnError)
	s := mcp_internal.NewMCPServer(baseConfig(), client, nil)

	res := callTool(t, s, "repository_summary", map[string]any{"repos": "acme/api"})

	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "no workflow runs found")
}

func TestToolWindowEndsAtCallTime(t *testing.T) {
	cfg := baseConfig()
	cfg.EndTime = time.Now().Add(-10 * 24 * time.Hour)
	cfg.StartTime = cfg.EndTime.Add(-7 * 24 * time.Hour)
	client := singleWorkflowClient()
	s := mcp_internal.NewMCPServer(cfg, client, nil)

	res := callTool(t, s, "trend_analysis", map[string]any{"repos": "acme/api"})

	require.False(t, res.IsError, resultText(t, res))
	var since time.Time
	for _, call := range client.Calls {
		if call.Method == "ListWorkflowRuns" {
			since = call.Arguments.Get(3).(time.Time)
		}
	}
	require.False(t, since.IsZero())
	// Start times are truncated to the cache granularity
	assert.WithinDuration(t, time.Now().Add(-7*24*time.Hour), since, time.Hour)
}

func TestToolOrgOverridesServerRepositories(t *testing.T) {
	cfg := baseConfig()
	cfg.Repos = []string{"acme/legacy"}
	client := singleWorkflowClient()
	client.On("ListOrgRepositories", mock.Anything, "acme", mock.Anything).Return([]string{"acme/api"}, nil)
	s := mcp_internal.NewMCPServer(cfg, client, nil)

	res := callTool(t, s, "analysis_summary", map[string]any{"org": "acme"})

	require.False(t, res.IsError, resultText(t, res))
	client.AssertCalled(t, "ListOrgRepositories", mock.Anything, "acme", mock.Anything)
	client.AssertNotCalled(t, "ListActiveWorkflows", mock.Anything, "acme/legacy")
}
