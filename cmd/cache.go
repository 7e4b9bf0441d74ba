package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/internal/iocache"
	"github.com/huangsam/uptake/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize caching with the loaded config (no analysis tracking for cache commands)
	if err := iocache.InitCaching(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// sqliteFile returns the SQLite file a connection string points at.
func sqliteFile(connStr, fallback string) string {
	if connStr == "" {
		return fallback
	}
	return connStr
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by analysis commands. This skips window and input
// validation for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the dataset cache (improves performance)",
	Long: `Manage the cache of normalized datasets that speeds up repeated analyses.

Uptake caches the joined and normalized logs, keyed by the contents of the
three input files. Any edit to an input file produces a new key, so a cached
entry never hides fresh data. Entries expire after seven days.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  uptake cache status

  # Clear the cache
  uptake cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached datasets",
	Long: `Delete all cached datasets from the configured backend.

Use this when:
- The cache database grew large after many input revisions
- Testing performance without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  uptake cache clear

  # Clear MySQL cache (set connection string via env variable)
  UPTAKE_CACHE_BACKEND=mysql UPTAKE_CACHE_DB_CONNECT="..." uptake cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, sqliteFile(cfg.CacheDBConnect, contract.GetCacheDBFilePath()), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the dataset cache.

Displays:
- Backend type and connection status
- Total number of cached datasets
- Last and oldest cache entry timestamps
- Cache table size

Examples:
  # Check cache status
  uptake cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetDatasetStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("caching is not enabled"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
