// Package cmd defines the command-line interface for workflow-analyzer.
package cmd

import (
	"github.com/AjayJagan/github-workflow-analyzer/internal/contract"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)
	cacheCmd.AddCommand(cachePruneCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("org", "", "GitHub organization to analyze (falls back to TARGET_ORG)")
	rootCmd.PersistentFlags().String("repos", "", "Comma-separated list of owner/name repositories (overrides --org)")
	rootCmd.PersistentFlags().String("repo-filter", contract.DefaultRepoFilter, "Only analyze organization repositories whose name contains this text")
	rootCmd.PersistentFlags().Int("max-repos", contract.DefaultMaxRepos, "Maximum number of organization repositories to analyze")
	rootCmd.PersistentFlags().Int("days", contract.DefaultDays, "Number of days of workflow runs to analyze")
	rootCmd.PersistentFlags().Float64("threshold", contract.DefaultThreshold, "Average duration in minutes above which a workflow is slow")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Bool("detail", false, "Print extra columns (max/min duration, frequency, impact, triggers)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of repositories fetched concurrently")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("host", contract.DefaultHost, "GitHub host, e.g. github.example.com for GitHub Enterprise")
	rootCmd.PersistentFlags().String("token", "", "GitHub token (prefer GITHUB_TOKEN or gh auth login)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL.String(), "How long fetched runs stay valid in the cache (0 disables reuse)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of workflowsCmd to Viper
	workflowsCmd.Flags().Bool("problematic", false, "Only show slow or very frequent workflows")
	workflowsCmd.Flags().String("priority", "", "Comma-separated priorities to show (critical, high, medium, low)")
	if err := viper.BindPFlags(workflowsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding workflows flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
