package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadCacheConfig reads only the cache related settings into cfg.
func loadCacheConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return contract.ProcessCacheInput(cfg, input)
}

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadCacheConfig(); err != nil {
		return err
	}

	// No target or analysis window is needed to open the store
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by analysis commands. This avoids requiring an
// organization or repository list for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the workflow run cache (improves performance)",
	Long: `Manage the cache of fetched workflow runs that speeds up repeated analyses.

Workflow Analyzer caches the runs it fetches from GitHub, keyed by host, repository,
analysis window and hour. Re-running a view within the cache TTL avoids hitting the API again.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (no caching)

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Apply or roll back cache schema migrations
  prune   - Remove entries older than the cache TTL

Examples:
  # Check cache status
  workflow-analyzer cache status

  # Drop entries older than a day
  workflow-analyzer cache prune --cache-ttl 24h`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached workflow runs",
	Long: `Delete all cached workflow runs from the configured backend.

Use this when:
- Runs were re-run or deleted on GitHub
- Cache may be stale or corrupted
- Testing performance without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  workflow-analyzer cache clear

  # Clear MySQL cache (set connection string via env variable)
  WORKFLOW_ANALYZER_CACHE_BACKEND=mysql WORKFLOW_ANALYZER_CACHE_DB_CONNECT="..." workflow-analyzer cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadCacheConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, iocache.GetDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the workflow run cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  workflow-analyzer cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cacheMigrateCmd runs schema migrations against the cache backend.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply cache schema migrations",
	Long: `Apply or roll back the schema migrations of the cache database.

The store creates its table on first use, so migrate is only needed when
upgrading a shared MySQL or PostgreSQL cache in place.

Examples:
  # Migrate to the latest version
  workflow-analyzer cache migrate

  # Roll back to the initial state
  workflow-analyzer cache migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadCacheConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.MigrateCache(os.Stdout, cfg.CacheBackend, cfg.CacheDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to migrate cache", err)
		}
	},
}

// cachePruneCmd deletes entries older than the cache TTL.
var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached runs older than the cache TTL",
	Long: `Delete cache entries whose timestamp is older than --cache-ttl.

Expired entries are never served, but they still take space until pruned.

Examples:
  # Prune with the default TTL
  workflow-analyzer cache prune

  # Keep only the last hour
  workflow-analyzer cache prune --cache-ttl 1h`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		before := time.Now().Add(-cfg.CacheTTL).Unix()
		removed, err := iocache.Manager.GetRunStore().Prune(before)
		if err != nil {
			contract.LogFatal("Failed to prune cache", err)
		}
		fmt.Printf("Pruned %d cache entries.\n", removed)
	},
}
