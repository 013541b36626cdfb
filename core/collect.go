package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/AjayJagan/github-workflow-analyzer/core/trigger"
	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// ErrNoRuns is returned when no repository yields a successful run in the window.
var ErrNoRuns = errors.New("no workflow runs found")

// CollectRuns gathers the successful runs of every target repository. Repositories
// are fetched concurrently with cfg.Workers workers and their runs are returned in
// repository order. A repository that cannot be fetched is skipped with a warning.
func CollectRuns(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager) ([]schema.RunRecord, error) {
	if err := cfg.ValidateTarget(); err != nil {
		return nil, err
	}

	repos, err := resolveRepositories(ctx, cfg, client)
	if err != nil {
		return nil, err
	}

	perRepo := make([][]schema.RunRecord, len(repos))
	indexCh := make(chan int, len(repos))
	var wg sync.WaitGroup

	// Start worker pool
	for range max(cfg.Workers, 1) {
		wg.Go(func() {
			for i := range indexCh {
				if ctx.Err() != nil {
					continue
				}
				runs, err := cachedRepositoryRuns(ctx, cfg, client, mgr, repos[i])
				if err != nil {
					if ctx.Err() == nil {
						contract.LogWarn(fmt.Sprintf("Skipping repository %s", repos[i]), err)
					}
					continue
				}
				// Each worker writes to a unique index
				perRepo[i] = runs
			}
		})
	}

	for i := range repos {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var runs []schema.RunRecord
	for _, r := range perRepo {
		runs = append(runs, r...)
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	return runs, nil
}

// resolveRepositories returns the explicit repository list, or discovers the
// repositories of the organization capped at cfg.MaxRepos.
func resolveRepositories(ctx context.Context, cfg *contract.Config, client contract.GitHubClient) ([]string, error) {
	if len(cfg.Repos) > 0 {
		return cfg.Repos, nil
	}

	repos, err := client.ListOrgRepositories(ctx, cfg.Org, cfg.RepoFilter)
	if err != nil {
		if len(repos) == 0 {
			return nil, err
		}
		contract.LogWarn(fmt.Sprintf("Repository listing of %s is incomplete", cfg.Org), err)
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("no repositories found in organization %s matching '%s'", cfg.Org, cfg.RepoFilter)
	}
	if cfg.MaxRepos > 0 && len(repos) > cfg.MaxRepos {
		repos = repos[:cfg.MaxRepos]
	}
	return repos, nil
}

// fetchRepositoryRuns lists the active workflows of repo, their successful runs in
// the analysis window and their trigger declaration. The trigger profile is
// classified once per workflow and attached to each of its runs; when the workflow
// file is absent the runs carry no profile. complete is false when the run listing
// of some workflow failed partway and only the runs fetched so far are returned.
func fetchRepositoryRuns(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, repo string) (runs []schema.RunRecord, complete bool, err error) {
	workflows, err := client.ListActiveWorkflows(ctx, repo)
	if err != nil {
		return nil, false, err
	}

	since := cfg.GetAnalysisStartTime()
	runs = []schema.RunRecord{}
	complete = true
	for _, wf := range workflows {
		wfRuns, err := client.ListWorkflowRuns(ctx, repo, wf, since)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, false, ctxErr
			}
			contract.LogWarn(fmt.Sprintf("Incomplete runs for %s/%s", repo, wf.Name), err)
			complete = false
		}
		if len(wfRuns) == 0 {
			continue
		}

		content, err := client.GetWorkflowContent(ctx, repo, wf.Path)
		if err != nil {
			return nil, false, err
		}
		if content != nil {
			profile := trigger.Classify(content)
			for i := range wfRuns {
				wfRuns[i].Trigger = &profile
			}
		}
		runs = append(runs, wfRuns...)
	}
	return runs, complete, nil
}
