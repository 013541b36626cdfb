// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// serverVersion is reported to MCP clients during initialization.
const serverVersion = "1.0.0"

// targetOptions are the parameters shared by every analysis tool.
func targetOptions(description string) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("repos", mcp.Description("Comma-separated list of owner/name repositories. Takes precedence over org.")),
		mcp.WithString("org", mcp.Description("Organization whose repositories are analyzed.")),
		mcp.WithNumber("days", mcp.Description("Number of days to look back (1-400).")),
		mcp.WithNumber("threshold", mcp.Description("Slow workflow threshold in minutes.")),
	}
}

// NewMCPServer initializes and configures the workflow analyzer MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"GitHub Workflow Analysis Server",
		serverVersion,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_workflows ---
	s.AddTool(mcp.NewTool("analyze_workflows", append(
		targetOptions("Rank GitHub Actions workflows by how much CI time they cost and assign an optimization priority."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of workflows returned.")),
		mcp.WithBoolean("problematic", mcp.Description("Only return slow or very frequent workflows.")),
		mcp.WithString("priority", mcp.Description("Comma-separated priorities to keep (critical, high, medium, low).")),
	)...), h.handleAnalyzeWorkflows)

	// --- 2. Tool: repository_summary ---
	s.AddTool(mcp.NewTool("repository_summary", append(
		targetOptions("Summarize workflows per repository with a problematic share and a health grade."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of repositories returned.")),
	)...), h.handleRepositorySummary)

	// --- 3. Tool: trend_analysis ---
	s.AddTool(mcp.NewTool("trend_analysis",
		targetOptions("Daily run counts and durations over the analysis window.")...,
	), h.handleTrendAnalysis)

	// --- 4. Tool: workflow_patterns ---
	s.AddTool(mcp.NewTool("workflow_patterns",
		targetOptions("Trigger event counts and mean duration by hour of day, with peak hours.")...,
	), h.handleWorkflowPatterns)

	// --- 5. Tool: monthly_usage ---
	s.AddTool(mcp.NewTool("monthly_usage", append(
		targetOptions("Projected monthly CI minutes per repository and their share of the total."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of repositories returned.")),
	)...), h.handleMonthlyUsage)

	// --- 6. Tool: analysis_summary ---
	s.AddTool(mcp.NewTool("analysis_summary",
		targetOptions("Headline numbers of an analysis: workflows, problematic count, runs and repositories.")...,
	), h.handleAnalysisSummary)

	return s
}

// StartMCPServer starts the workflow analyzer MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
