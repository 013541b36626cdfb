package contract

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
)

// Default values for configuration.
const (
	DefaultDays        = 15
	MaxDays            = 400
	DefaultThreshold   = 10.0
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultMaxRepos    = 300
	DefaultHost        = "github.com"
	DefaultRepoFilter  = "*"
	DefaultCacheTTL    = 6 * time.Hour
)

// CacheGranularity defines the time granularity of the analysis window used in
// cache keys, so that runs started within the same hour share an entry.
const CacheGranularity = time.Hour

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ErrNoTarget is returned when neither an organization nor a repository list is configured.
var ErrNoTarget = errors.New("an organization (--org) or a repository list (--repos) is required")

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Org         string
	Repos       []string
	RepoFilter  string
	MaxRepos    int
	Days        int
	Threshold   float64
	StartTime   time.Time
	EndTime     time.Time
	ResultLimit int
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	Detail      bool
	Problematic bool
	Priorities  []schema.Priority

	Host  string
	Token string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Org            string  `mapstructure:"org"`
	Repos          string  `mapstructure:"repos"`
	RepoFilter     string  `mapstructure:"repo-filter"`
	MaxRepos       int     `mapstructure:"max-repos"`
	Days           int     `mapstructure:"days"`
	Threshold      float64 `mapstructure:"threshold"`
	Limit          int     `mapstructure:"limit"`
	Workers        int     `mapstructure:"workers"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Width          int     `mapstructure:"width"`
	Detail         bool    `mapstructure:"detail"`
	Host           string  `mapstructure:"host"`
	Token          string  `mapstructure:"token"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
	CacheTTL       string  `mapstructure:"cache-ttl"`
	Color          string  `mapstructure:"color"`

	// --- Fields from workflowsCmd.Flags() ---
	Problematic bool   `mapstructure:"problematic"`
	Priority    string `mapstructure:"priority"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Repos = slices.Clone(c.Repos)
	clone.Priorities = slices.Clone(c.Priorities)
	return &clone
}

// setWindow sets an analysis window of days ending at now.
func (c *Config) setWindow(days int, now time.Time) {
	c.Days = days
	c.EndTime = now
	c.StartTime = now.Add(-time.Duration(days) * 24 * time.Hour)
}

// GetAnalysisStartTime returns the configured start time, truncated to the caching granularity.
// This ensures consistent time window alignment across the application and tests.
func (c *Config) GetAnalysisStartTime() time.Time {
	return c.StartTime.Truncate(CacheGranularity)
}

// HasTarget reports whether an organization or explicit repositories are configured.
func (c *Config) HasTarget() bool {
	return c.Org != "" || len(c.Repos) > 0
}

// ValidateTarget returns ErrNoTarget when nothing can be fetched.
func (c *Config) ValidateTarget() error {
	if !c.HasTarget() {
		return ErrNoTarget
	}
	return nil
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAnalysisWindow(cfg, input, time.Now()); err != nil {
		return err
	}
	if err := processTarget(cfg, input); err != nil {
		return err
	}
	if err := processPriorities(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ProcessCacheInput validates only the cache related inputs. Cache commands use it
// because they never talk to GitHub.
func ProcessCacheInput(cfg *Config, input *ConfigRawInput) error {
	return validateBackendConfigs(cfg, input)
}

// validateBackendConfigs validates the cache backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s': %w", input.CacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}
	return nil
}

// validateSimpleInputs processes and validates all fields that need no lookups.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Detail = input.Detail
	cfg.Problematic = input.Problematic

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Threshold Validation ---
	if input.Threshold <= 0 {
		return fmt.Errorf("threshold must be greater than 0 minutes (received %g)", input.Threshold)
	}
	cfg.Threshold = input.Threshold

	// --- 2. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 3. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}

	// --- 5. Repository Cap Validation ---
	if input.MaxRepos <= 0 {
		return fmt.Errorf("max-repos must be greater than 0 (received %d)", input.MaxRepos)
	}
	cfg.MaxRepos = input.MaxRepos
	return nil
}

// processAnalysisWindow sets the analysis window to the last input.Days days.
func processAnalysisWindow(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if input.Days < 1 || input.Days > MaxDays {
		return fmt.Errorf("days must be between 1 and %d (received %d)", MaxDays, input.Days)
	}
	cfg.setWindow(input.Days, now)
	return nil
}

// processTarget resolves the host, token, organization and repository list,
// falling back to the environment variables used by GitHub Actions.
func processTarget(cfg *Config, input *ConfigRawInput) error {
	cfg.Host = strings.TrimSpace(input.Host)
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}

	cfg.Token = input.Token
	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}

	cfg.Org = strings.TrimSpace(input.Org)
	if cfg.Org == "" {
		cfg.Org = os.Getenv("TARGET_ORG")
	}
	if cfg.Org == "" {
		if owner, _, ok := strings.Cut(os.Getenv("GITHUB_REPOSITORY"), "/"); ok {
			cfg.Org = owner
		}
	}

	repos, err := ParseRepoList(input.Repos)
	if err != nil {
		return err
	}
	cfg.Repos = repos

	cfg.RepoFilter = strings.TrimSpace(input.RepoFilter)
	if cfg.RepoFilter == "" {
		cfg.RepoFilter = DefaultRepoFilter
	}
	return nil
}

// processPriorities parses the comma separated --priority flag.
func processPriorities(cfg *Config, input *ConfigRawInput) error {
	priorities, err := ParsePriorities(input.Priority)
	if err != nil {
		return err
	}
	cfg.Priorities = priorities
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// RevalidateAnalysis applies per-request overrides on top of an already validated
// config. Zero values keep the current setting. The analysis window always ends at
// now, so a long-lived config never fetches more than its configured days.
func RevalidateAnalysis(cfg *Config, days int, threshold float64, limit int, now time.Time) error {
	if days == 0 {
		days = cfg.Days
	} else if days < 1 || days > MaxDays {
		return fmt.Errorf("days must be between 1 and %d (received %d)", MaxDays, days)
	}
	cfg.setWindow(days, now)
	if threshold != 0 {
		if threshold < 0 {
			return fmt.Errorf("threshold must be greater than 0 minutes (received %g)", threshold)
		}
		cfg.Threshold = threshold
	}
	if limit != 0 {
		if limit < 0 || limit > MaxResultLimit {
			return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, limit)
		}
		cfg.ResultLimit = limit
	}
	return cfg.ValidateTarget()
}
