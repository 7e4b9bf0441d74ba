package contract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/huangsam/uptake/schema"
	"github.com/robfig/cron/v3"
)

// Default values for configuration.
const (
	DefaultDataDir           = "data"
	DefaultWindowStart       = "2025-01"
	DefaultWindowMonths      = 4
	MaxWindowMonths          = 24
	DefaultBaselineStart     = "2024-10"
	DefaultBaselineMonths    = 2
	DefaultAccuracyThreshold = 0.70
	DefaultResultLimit       = 100
	MaxResultLimit           = 10000
	DefaultPrecision         = 1
)

// Default input file names under the data directory.
const (
	DefaultAILogsFile     = "ai_usage_logs.csv"
	DefaultManualLogsFile = "manual_task_logs.csv"
	DefaultUsersFile      = "user_directory.csv"
	DefaultSummaryFile    = "user_monthly_summary.csv"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	DataDir        string
	AILogsPath     string
	ManualLogsPath string
	UsersPath      string
	SummaryPath    string
	Source         schema.InputSource

	Window         []schema.Month
	BaselineMonths []schema.Month

	GroupBy       schema.GroupBy
	StatusFilter  schema.AdoptionStatus
	Stagnant      bool
	SinceAdoption bool
	Indeterminate bool

	AccuracyThreshold float64

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	Schedule string // cron expression for the summary rebuild

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DataDir           string `mapstructure:"data-dir"`
	AILogs            string `mapstructure:"ai-logs"`
	ManualLogs        string `mapstructure:"manual-logs"`
	Users             string `mapstructure:"users"`
	SummaryFile       string `mapstructure:"summary-file"`
	Source            string `mapstructure:"source"`
	WindowStart       string `mapstructure:"window-start"`
	WindowMonths      int    `mapstructure:"window-months"`
	OutputFile        string `mapstructure:"output-file"`
	Limit             int    `mapstructure:"limit"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	Width             int    `mapstructure:"width"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`

	// --- Fields from trendsCmd.Flags() ---
	By            string `mapstructure:"by"`
	Status        string `mapstructure:"status"`
	Stagnant      bool   `mapstructure:"stagnant"`
	SinceAdoption bool   `mapstructure:"since-adoption"`
	Indeterminate bool   `mapstructure:"indeterminate"`

	// --- Fields from efficiencyCmd.Flags() ---
	BaselineStart  string `mapstructure:"baseline-start"`
	BaselineMonths int    `mapstructure:"baseline-months"`

	// --- Fields from qualityCmd.Flags() ---
	AccuracyThreshold float64 `mapstructure:"accuracy-threshold"`

	// --- Fields from summaryCmd.Flags() ---
	Schedule string `mapstructure:"schedule"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Window != nil {
		clone.Window = make([]schema.Month, len(c.Window))
		copy(clone.Window, c.Window)
	}
	if c.BaselineMonths != nil {
		clone.BaselineMonths = make([]schema.Month, len(c.BaselineMonths))
		copy(clone.BaselineMonths, c.BaselineMonths)
	}
	return &clone
}

// CloneWithWindow creates a copy of the Config with a new reporting window.
func (c *Config) CloneWithWindow(start schema.Month, months int) *Config {
	clone := c.Clone()
	clone.Window = schema.MonthRange(start, months)
	return clone
}

// Params returns the settings recorded alongside an analysis run.
func (c *Config) Params() map[string]any {
	params := map[string]any{
		"source":   c.Source,
		"group_by": c.GroupBy,
		"data_dir": c.DataDir,
	}
	if len(c.Window) > 0 {
		params["window_start"] = c.Window[0].String()
		params["window_months"] = len(c.Window)
	}
	if c.StatusFilter != "" {
		params["status"] = c.StatusFilter
	}
	if c.Indeterminate {
		params["indeterminate"] = true
	}
	return params
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processInputPaths(cfg, input); err != nil {
		return err
	}
	if err := processWindows(cfg, input); err != nil {
		return err
	}
	if err := processTrendOptions(cfg, input); err != nil {
		return err
	}
	if err := processSchedule(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
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

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return fmt.Errorf("analysis-db-connect: %w", err)
	}

	// SQLite paths are resolved so the default file locations are compared too
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if filepath.Clean(cacheDBPath) == filepath.Clean(analysisDBPath) {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processInputPaths resolves the input files against the data directory.
func processInputPaths(cfg *Config, input *ConfigRawInput) error {
	cfg.DataDir = strings.TrimSpace(input.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}

	resolve := func(value, fallback string) string {
		value = strings.TrimSpace(value)
		if value == "" {
			return filepath.Join(cfg.DataDir, fallback)
		}
		return value
	}
	cfg.AILogsPath = resolve(input.AILogs, DefaultAILogsFile)
	cfg.ManualLogsPath = resolve(input.ManualLogs, DefaultManualLogsFile)
	cfg.UsersPath = resolve(input.Users, DefaultUsersFile)
	cfg.SummaryPath = resolve(input.SummaryFile, DefaultSummaryFile)

	cfg.Source = schema.InputSource(strings.ToLower(strings.TrimSpace(input.Source)))
	if cfg.Source == "" {
		cfg.Source = schema.LogsSource
	}
	if _, ok := schema.ValidInputSources[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be logs, summary", input.Source)
	}
	return nil
}

// processWindows parses the reporting and baseline windows.
func processWindows(cfg *Config, input *ConfigRawInput) error {
	start, err := parseMonthOr(input.WindowStart, DefaultWindowStart)
	if err != nil {
		return fmt.Errorf("invalid window start '%s'. Expected YYYY-MM: %w", input.WindowStart, err)
	}
	months := input.WindowMonths
	if months == 0 {
		months = DefaultWindowMonths
	}
	if months < 1 || months > MaxWindowMonths {
		return fmt.Errorf("window months must be between 1 and %d (received %d)", MaxWindowMonths, months)
	}
	cfg.Window = schema.MonthRange(start, months)

	baseStart, err := parseMonthOr(input.BaselineStart, DefaultBaselineStart)
	if err != nil {
		return fmt.Errorf("invalid baseline start '%s'. Expected YYYY-MM: %w", input.BaselineStart, err)
	}
	baseMonths := input.BaselineMonths
	if baseMonths == 0 {
		baseMonths = DefaultBaselineMonths
	}
	if baseMonths < 1 || baseMonths > MaxWindowMonths {
		return fmt.Errorf("baseline months must be between 1 and %d (received %d)", MaxWindowMonths, baseMonths)
	}
	cfg.BaselineMonths = schema.MonthRange(baseStart, baseMonths)
	return nil
}

// processTrendOptions handles grouping, status filters and the accuracy threshold.
// cfg is only updated once every option is valid.
func processTrendOptions(cfg *Config, input *ConfigRawInput) error {
	groupBy := schema.GroupBy(strings.ToLower(strings.TrimSpace(input.By)))
	if groupBy == "" {
		groupBy = schema.UserGroup
	}
	if _, ok := schema.ValidGroupings[groupBy]; !ok {
		return fmt.Errorf("invalid grouping '%s'. must be user, team, team-task, task-type", input.By)
	}
	if cfg.Source == schema.SummarySource && groupBy != schema.UserGroup && groupBy != schema.TeamGroup {
		return fmt.Errorf("grouping '%s' needs task-level logs and cannot be used with --source summary", groupBy)
	}

	var statusFilter schema.AdoptionStatus
	if s := strings.TrimSpace(input.Status); s != "" {
		status, ok := schema.ParseStatus(s)
		if !ok {
			return fmt.Errorf("invalid status '%s'. must be growing, stagnant, full, not-enough-data, indeterminate", input.Status)
		}
		statusFilter = status
	}

	threshold := input.AccuracyThreshold
	if threshold == 0 {
		threshold = DefaultAccuracyThreshold
	}
	if threshold <= 0 || threshold >= 1 {
		return fmt.Errorf("accuracy threshold must be between 0 and 1 exclusive (received %.2f)", threshold)
	}

	cfg.GroupBy = groupBy
	cfg.StatusFilter = statusFilter
	cfg.Stagnant = input.Stagnant
	cfg.SinceAdoption = input.SinceAdoption
	cfg.Indeterminate = input.Indeterminate
	cfg.AccuracyThreshold = threshold
	return nil
}

// processSchedule validates the cron expression of the summary rebuild.
func processSchedule(cfg *Config, input *ConfigRawInput) error {
	cfg.Schedule = strings.TrimSpace(input.Schedule)
	if cfg.Schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return fmt.Errorf("invalid schedule '%s': %w", cfg.Schedule, err)
	}
	return nil
}

func parseMonthOr(value, fallback string) (schema.Month, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	return schema.ParseMonth(value)
}

// RevalidateWindow replaces the reporting window of an already validated config.
// An empty start keeps the current start; zero months keeps the current length.
func RevalidateWindow(cfg *Config, start string, months int) error {
	current := schema.Month{}
	if len(cfg.Window) > 0 {
		current = cfg.Window[0]
	}
	fallback := DefaultWindowStart
	if !current.IsZero() {
		fallback = current.String()
	}
	m, err := parseMonthOr(start, fallback)
	if err != nil {
		return fmt.Errorf("invalid window start '%s'. Expected YYYY-MM: %w", start, err)
	}
	if months == 0 {
		months = len(cfg.Window)
	}
	if months < 1 || months > MaxWindowMonths {
		return fmt.Errorf("window months must be between 1 and %d (received %d)", MaxWindowMonths, months)
	}
	cfg.Window = schema.MonthRange(m, months)
	return nil
}

// RevalidateTrends applies a grouping and status filter on top of an already
// validated config. Empty values keep the current settings.
func RevalidateTrends(cfg *Config, by, status string) error {
	input := &ConfigRawInput{
		By:                string(cfg.GroupBy),
		Status:            string(cfg.StatusFilter),
		Stagnant:          cfg.Stagnant,
		SinceAdoption:     cfg.SinceAdoption,
		Indeterminate:     cfg.Indeterminate,
		AccuracyThreshold: cfg.AccuracyThreshold,
	}
	if by != "" {
		input.By = by
	}
	if status != "" {
		input.Status = status
	}
	return processTrendOptions(cfg, input)
}

// RevalidateLimit replaces the result limit of an already validated config.
// Zero keeps the current limit.
func RevalidateLimit(cfg *Config, limit int) error {
	if limit == 0 {
		return nil
	}
	if limit < 0 || limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, limit)
	}
	cfg.ResultLimit = limit
	return nil
}

// RevalidateThreshold replaces the accuracy threshold of an already validated config.
func RevalidateThreshold(cfg *Config, threshold float64) error {
	if threshold <= 0 || threshold >= 1 {
		return fmt.Errorf("accuracy threshold must be between 0 and 1 exclusive (received %.2f)", threshold)
	}
	cfg.AccuracyThreshold = threshold
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
