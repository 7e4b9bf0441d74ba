package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
)

// datasetTable is the name of the table for loaded dataset caching.
const datasetTable = "uptake_dataset_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	return contract.GetAnalysisDBFilePath()
}

// InitCaching initializes the global cache manager with separate dataset and analysis stores.
// An empty backend leaves the matching store disabled.
func InitCaching(cacheBackend schema.DatabaseBackend, cacheConnStr string, analysisBackend schema.DatabaseBackend, analysisConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var datasetStore contract.CacheStore
		if cacheBackend != "" {
			datasetStore, err = NewCacheStore(datasetTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize dataset caching: %w", err)
				return
			}
		}

		var analysisStore contract.AnalysisStore
		if analysisBackend != "" {
			analysisStore, err = NewAnalysisStore(analysisBackend, analysisConnStr)
			if err != nil {
				if datasetStore != nil {
					_ = datasetStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize analysis store: %w", err)
				return
			}
		}

		Manager.Lock()
		Manager.dataset = datasetStore
		Manager.analysis = analysisStore
		Manager.Unlock()
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.dataset != nil {
			_ = Manager.dataset.Close()
		}
		if Manager.analysis != nil {
			_ = Manager.analysis.Close()
		}
	})
}

// ClearCache clears the dataset cache for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeDBFile(dbFilePath)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(backend, connStr, datasetTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearAnalysis clears the analysis history for the specified backend.
// For MySQL and PostgreSQL the migration bookkeeping table is dropped too,
// so the next run recreates the schema from scratch.
func ClearAnalysis(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeDBFile(dbFilePath)
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTables(backend, connStr, entityStatusesTable, analysisRunsTable, migrationsTable)
	case schema.NoneBackend:
		return nil
	default:
		return fmt.Errorf("unsupported analysis backend for clearing: %s", backend)
	}
}

func removeDBFile(dbFilePath string) error {
	if dbFilePath == "" {
		return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
	}
	// Remove the file; ignore if it doesn't exist
	if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
	}
	return nil
}

// clearSQLTables connects to the SQL database and drops each table if it exists.
func clearSQLTables(backend schema.DatabaseBackend, connStr string, tables ...string) error {
	driverName, err := driverFor(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(table, backend))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
