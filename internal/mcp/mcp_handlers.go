package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/core"
	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitHubClient
	mgr     contract.CacheManager
}

// requestConfig clones the base config and applies the target and window
// parameters of a tool call.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()

	if r := request.GetString("repos", ""); r != "" {
		repos, err := contract.ParseRepoList(r)
		if err != nil {
			return nil, err
		}
		cfg.Repos = repos
	}
	if o := request.GetString("org", ""); o != "" {
		cfg.Org = o
		// An explicit repository list would otherwise shadow the organization
		if request.GetString("repos", "") == "" {
			cfg.Repos = nil
		}
	}
	if p := request.GetString("priority", ""); p != "" {
		priorities, err := contract.ParsePriorities(p)
		if err != nil {
			return nil, err
		}
		cfg.Priorities = priorities
	}
	cfg.Problematic = request.GetBool("problematic", cfg.Problematic)

	err := contract.RevalidateAnalysis(cfg,
		request.GetInt("days", 0),
		request.GetFloat("threshold", 0),
		request.GetInt("limit", 0),
		time.Now(),
	)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// jsonResult renders data as indented JSON text.
func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// run validates the request and hands the resulting config to fetch.
func (h *toolHandler) run(ctx context.Context, request mcp.CallToolRequest, fetch func(context.Context, *contract.Config) (any, error)) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	data, err := fetch(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(data)
}

func (h *toolHandler) handleAnalyzeWorkflows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.run(ctx, request, func(ctx context.Context, cfg *contract.Config) (any, error) {
		stats, err := core.GetWorkflowResults(ctx, cfg, h.client, h.mgr)
		if err != nil {
			return nil, err
		}
		return schema.EnrichWorkflows(stats), nil
	})
}

func (h *toolHandler) handleRepositorySummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.run(ctx, request, func(ctx context.Context, cfg *contract.Config) (any, error) {
		return core.GetRepositoryResults(ctx, cfg, h.client, h.mgr)
	})
}

func (h *toolHandler) handleTrendAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.run(ctx, request, func(ctx context.Context, cfg *contract.Config) (any, error) {
		return core.GetTrendResults(ctx, cfg, h.client, h.mgr)
	})
}

func (h *toolHandler) handleWorkflowPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.run(ctx, request, func(ctx context.Context, cfg *contract.Config) (any, error) {
		return core.GetPatternResults(ctx, cfg, h.client, h.mgr)
	})
}

func (h *toolHandler) handleMonthlyUsage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.run(ctx, request, func(ctx context.Context, cfg *contract.Config) (any, error) {
		return core.GetUsageResults(ctx, cfg, h.client, h.mgr)
	})
}

func (h *toolHandler) handleAnalysisSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.run(ctx, request, func(ctx context.Context, cfg *contract.Config) (any, error) {
		return core.GetSummaryResults(ctx, cfg, h.client, h.mgr)
	})
}
