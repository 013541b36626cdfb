package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// currentCacheVersion defines the version of the cached run record layout.
const currentCacheVersion = 1

// cachedRepositoryRuns returns the runs of one repository, serving them from the
// run store when a fresh entry exists.
func cachedRepositoryRuns(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, mgr contract.CacheManager, repo string) ([]schema.RunRecord, error) {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetRunStore()
	}
	if store == nil {
		// Fallback to direct fetching
		runs, _, err := fetchRepositoryRuns(ctx, cfg, client, repo)
		return runs, err
	}

	key := generateCacheKey(cfg, client.Host(), repo)

	if runs, ok := checkCacheHit(store, key, cfg.CacheTTL, time.Now()); ok {
		return runs, nil
	}

	return computeAndStore(ctx, cfg, client, store, key, repo)
}

// checkCacheHit attempts to retrieve and validate a cached entry. A non-positive
// ttl turns every lookup into a miss.
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration, now time.Time) ([]schema.RunRecord, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil, false // Cache miss
	}

	if version != currentCacheVersion || ttl <= 0 {
		return nil, false
	}
	if now.Sub(time.Unix(ts, 0)) > ttl {
		return nil, false // Stale
	}

	var runs []schema.RunRecord
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, false
	}
	return runs, true
}

// computeAndStore fetches the runs and stores them in the cache. An incomplete
// fetch is returned but never stored. Store failures only cost a future cache hit.
func computeAndStore(ctx context.Context, cfg *contract.Config, client contract.GitHubClient, store contract.CacheStore, key, repo string) ([]schema.RunRecord, error) {
	runs, complete, err := fetchRepositoryRuns(ctx, cfg, client, repo)
	if err != nil {
		return nil, err
	}
	if !complete {
		return runs, nil
	}

	if data, err := json.Marshal(runs); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn(fmt.Sprintf("Cannot cache runs of %s", repo), err)
		}
	}

	return runs, nil
}

// generateCacheKey creates a unique key based on the fetch parameters.
func generateCacheKey(cfg *contract.Config, host, repo string) string {
	key := fmt.Sprintf("%s:%s:%d:%d",
		host,
		repo,
		cfg.GetAnalysisStartTime().Unix(),
		cfg.Days,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
