// Package ghclient fetches repositories, workflows and workflow runs from the GitHub REST API.
package ghclient

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/cli/go-gh/v2/pkg/auth"
)

// Paging limits.
const (
	PerPage         = 100
	MaxRepoPages    = 50
	MaxRunPages     = 10
	MaxWorkflowPage = 10
)

// ErrNoToken is returned when no token can be resolved for the host.
var ErrNoToken = errors.New("GitHub token is required: set --token, GITHUB_TOKEN or log in with gh")

// Options configures a Client.
type Options struct {
	Host      string
	Token     string
	Transport http.RoundTripper
	Timeout   time.Duration
}

// Client implements contract.GitHubClient on top of the go-gh REST client.
type Client struct {
	rest  *api.RESTClient
	host  string
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

var _ contract.GitHubClient = (*Client)(nil)

// NewClient creates a client for the given host. An empty token is resolved through
// the gh configuration and its GH_TOKEN / GITHUB_TOKEN handling.
func NewClient(opts Options) (*Client, error) {
	host := opts.Host
	if host == "" {
		host = contract.DefaultHost
	}
	token := opts.Token
	if token == "" {
		token, _ = auth.TokenForHost(host)
	}
	if token == "" {
		return nil, ErrNoToken
	}

	rest, err := api.NewRESTClient(api.ClientOptions{
		Host:      host,
		AuthToken: token,
		Transport: opts.Transport,
		Timeout:   opts.Timeout,
		Headers:   map[string]string{"User-Agent": "workflow-analyzer"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return &Client{rest: rest, host: host, now: time.Now, sleep: sleepContext}, nil
}

// NewClientFromConfig creates a client from validated configuration.
func NewClientFromConfig(cfg *contract.Config) (*Client, error) {
	return NewClient(Options{Host: cfg.Host, Token: cfg.Token})
}

// Host returns the GitHub host the client talks to.
func (c *Client) Host() string {
	return c.host
}

// ListOrgRepositories returns the non-archived repositories of org matching filter.
func (c *Client) ListOrgRepositories(ctx context.Context, org string, filter string) ([]string, error) {
	var repos []string
	for page := 1; page <= MaxRepoPages; page++ {
		q := url.Values{}
		q.Set("type", "all")
		q.Set("per_page", strconv.Itoa(PerPage))
		q.Set("page", strconv.Itoa(page))

		var batch []repository
		if err := c.get(ctx, fmt.Sprintf("orgs/%s/repos?%s", url.PathEscape(org), q.Encode()), &batch); err != nil {
			return repos, fmt.Errorf("failed to list repositories of %s: %w", org, err)
		}
		for _, r := range batch {
			if r.Archived {
				continue
			}
			if filter == "" || filter == "*" || strings.Contains(r.FullName, filter) {
				repos = append(repos, r.FullName)
			}
		}
		if len(batch) < PerPage {
			break
		}
	}
	return repos, nil
}

// ListActiveWorkflows returns the active workflows of repo.
func (c *Client) ListActiveWorkflows(ctx context.Context, repo string) ([]schema.Workflow, error) {
	var workflows []schema.Workflow
	for page := 1; page <= MaxWorkflowPage; page++ {
		q := url.Values{}
		q.Set("per_page", strconv.Itoa(PerPage))
		q.Set("page", strconv.Itoa(page))

		var resp workflowsResponse
		if err := c.get(ctx, fmt.Sprintf("repos/%s/actions/workflows?%s", repo, q.Encode()), &resp); err != nil {
			return nil, fmt.Errorf("failed to list workflows of %s: %w", repo, err)
		}
		for _, w := range resp.Workflows {
			if w.State != StateActive {
				continue
			}
			workflows = append(workflows, schema.Workflow{ID: w.ID, Name: w.Name, Path: w.Path, State: w.State})
		}
		if len(resp.Workflows) < PerPage {
			break
		}
	}
	return workflows, nil
}

// ListWorkflowRuns returns the successful runs of a workflow created after since.
func (c *Client) ListWorkflowRuns(ctx context.Context, repo string, wf schema.Workflow, since time.Time) ([]schema.RunRecord, error) {
	var runs []schema.RunRecord
	for page := 1; page <= MaxRunPages; page++ {
		q := url.Values{}
		q.Set("status", StatusCompleted)
		q.Set("per_page", strconv.Itoa(PerPage))
		q.Set("page", strconv.Itoa(page))
		q.Set("created", ">"+since.UTC().Format(time.RFC3339))

		var resp runsResponse
		path := fmt.Sprintf("repos/%s/actions/workflows/%d/runs?%s", repo, wf.ID, q.Encode())
		if err := c.get(ctx, path, &resp); err != nil {
			return runs, fmt.Errorf("failed to list runs of %s/%s: %w", repo, wf.Name, err)
		}
		for _, r := range resp.WorkflowRuns {
			if r.Conclusion != ConclusionSuccess {
				continue
			}
			runs = append(runs, toRunRecord(repo, wf, r))
		}
		if len(resp.WorkflowRuns) < PerPage {
			break
		}
	}
	return runs, nil
}

// toRunRecord normalizes an API run into a RunRecord.
func toRunRecord(repo string, wf schema.Workflow, r workflowRun) schema.RunRecord {
	name := r.Name
	if name == "" {
		name = wf.Name
	}
	duration := max(r.UpdatedAt.Sub(r.CreatedAt).Seconds(), 0)
	return schema.RunRecord{
		ID:              r.ID,
		Repository:      repo,
		WorkflowName:    name,
		WorkflowID:      wf.ID,
		Event:           r.Event,
		Branch:          r.HeadBranch,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		DurationSeconds: duration,
	}
}

// GetWorkflowContent returns the decoded workflow file. Lookup failures are reported as
// absent content (nil, nil); only a cancelled context is returned as an error.
func (c *Client) GetWorkflowContent(ctx context.Context, repo string, path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	var resp contentResponse
	if err := c.get(ctx, fmt.Sprintf("repos/%s/contents/%s", repo, strings.Join(segments, "/")), &resp); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, nil
	}
	if resp.Content == "" || (resp.Encoding != "" && resp.Encoding != "base64") {
		return nil, nil
	}
	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return nil, nil
	}
	return content, nil
}

// get performs a GET request, retrying once after a rate limit response.
func (c *Client) get(ctx context.Context, path string, out any) error {
	err := c.rest.DoWithContext(ctx, http.MethodGet, path, nil, out)
	wait, limited := rateLimitWait(err, c.now())
	if !limited {
		return err
	}
	contract.LogWarn(fmt.Sprintf("Rate limit exceeded, sleeping for %s", wait), err)
	if err := c.sleep(ctx, wait); err != nil {
		return err
	}
	return c.rest.DoWithContext(ctx, http.MethodGet, path, nil, out)
}
