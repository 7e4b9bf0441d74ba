package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable   = "uptake_analysis_runs"
	entityStatusesTable = "uptake_entity_statuses"
	migrationsTable     = "uptake_schema_migrations"
)

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

// createAnalysisTables creates the analysis tracking tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{analysisRunsTable, getCreateAnalysisRunsQuery(backend)},
		{entityStatusesTable, getCreateEntityStatusesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateAnalysisRunsQuery returns the CREATE TABLE query for uptake_analysis_runs.
func getCreateAnalysisRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(analysisRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid CHAR(36) NOT NULL,
				command VARCHAR(64) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_entities INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				command TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_entities INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				command TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_entities INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateEntityStatusesQuery returns the CREATE TABLE query for uptake_entity_statuses.
func getCreateEntityStatusesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(entityStatusesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				group_by VARCHAR(16) NOT NULL,
				entity_id VARCHAR(255) NOT NULL,
				task_type VARCHAR(255) NOT NULL,
				status VARCHAR(32) NOT NULL,
				n_months INT NOT NULL,
				decline_count INT NOT NULL,
				avg_mom_abs DOUBLE,
				delta_abs DOUBLE,
				delta_rel DOUBLE,
				since_decline_count INT NOT NULL,
				since_increase_count INT NOT NULL,
				recorded_at DATETIME(6) NOT NULL,
				PRIMARY KEY (analysis_id, group_by, entity_id, task_type)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				group_by TEXT NOT NULL,
				entity_id TEXT NOT NULL,
				task_type TEXT NOT NULL,
				status TEXT NOT NULL,
				n_months INT NOT NULL,
				decline_count INT NOT NULL,
				avg_mom_abs DOUBLE PRECISION,
				delta_abs DOUBLE PRECISION,
				delta_rel DOUBLE PRECISION,
				since_decline_count INT NOT NULL,
				since_increase_count INT NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (analysis_id, group_by, entity_id, task_type)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER NOT NULL,
				group_by TEXT NOT NULL,
				entity_id TEXT NOT NULL,
				task_type TEXT NOT NULL,
				status TEXT NOT NULL,
				n_months INTEGER NOT NULL,
				decline_count INTEGER NOT NULL,
				avg_mom_abs REAL,
				delta_abs REAL,
				delta_rel REAL,
				since_decline_count INTEGER NOT NULL,
				since_increase_count INTEGER NOT NULL,
				recorded_at TEXT NOT NULL,
				PRIMARY KEY (analysis_id, group_by, entity_id, task_type)
			);
		`, quotedTableName)
	}
}

// placeholders returns n comma-separated parameter placeholders.
func (as *AnalysisStoreImpl) placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = placeholder(as.backend, i+1)
	}
	return strings.Join(ps, ", ")
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(command string, startTime time.Time, configParams map[string]any) (int64, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	args := []any{uuid.NewString(), command, formatTime(startTime, as.backend), string(configJSON)}

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, command, start_time, config_params) VALUES (%s) RETURNING analysis_id`,
			quotedTableName, as.placeholders(len(args)))
		err = as.db.QueryRow(query, args...).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, command, start_time, config_params) VALUES (%s)`,
			quotedTableName, as.placeholders(len(args)))
		var result sql.Result
		result, err = as.db.Exec(query, args...)
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}

	return analysisID, nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalEntities int) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, quotedTableName, placeholder(as.backend, 1))
	startTime, err := as.scanTime(as.db.QueryRow(query, analysisID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_entities = %s WHERE analysis_id = %s`,
		quotedTableName,
		placeholder(as.backend, 1), placeholder(as.backend, 2), placeholder(as.backend, 3), placeholder(as.backend, 4))
	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalEntities, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}

	return nil
}

// RecordEntityStatus stores the trend classification of one entity for a run.
func (as *AnalysisStoreImpl) RecordEntityStatus(analysisID int64, grouping schema.GroupBy, c schema.StatusClassification) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	args := []any{
		analysisID, string(grouping), c.Entity.ID, c.Entity.TaskType, string(c.Status),
		c.NMonths, c.DeclineCount, c.AvgMoMAbs.Ptr(), c.DeltaAbsEndpoints.Ptr(), c.DeltaRelEndpoints.Ptr(),
		c.Since.DeclineCount, c.Since.IncreaseCount, formatTime(time.Now(), as.backend),
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (analysis_id, group_by, entity_id, task_type, status,
		                n_months, decline_count, avg_mom_abs, delta_abs, delta_rel,
		                since_decline_count, since_increase_count, recorded_at)
		VALUES (%s)
	`, quoteTableName(entityStatusesTable, as.backend), as.placeholders(len(args)))

	if _, err := as.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert entity status: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.backend == schema.NoneBackend || as.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)
	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRunID int64
		var lastRaw any
		row := as.db.QueryRow(fmt.Sprintf("SELECT analysis_id, start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runsTable))
		if err := row.Scan(&lastRunID, &lastRaw); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := parseTime(lastRaw)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunID = lastRunID
		status.LastRunTime = lastRunTime

		oldest, err := as.scanTime(as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runsTable)))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest

		row = as.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_entities), 0) FROM %s", runsTable))
		if err := row.Scan(&status.TotalEntitiesRecorded); err != nil {
			return status, fmt.Errorf("failed to get total entities recorded: %w", err)
		}
	}

	for _, table := range []string{analysisRunsTable, entityStatusesTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))
		if err := as.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, run_uuid, command, start_time, end_time, run_duration_ms, total_entities, config_params
		FROM %s ORDER BY analysis_id`, quoteTableName(analysisRunsTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		var startRaw, endRaw any
		var total sql.NullInt32
		if err := rows.Scan(&record.AnalysisID, &record.RunUUID, &record.Command, &startRaw, &endRaw,
			&record.RunDurationMs, &total, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		if record.StartTime, err = parseTime(startRaw); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endRaw != nil {
			endTime, err := parseTime(endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		record.TotalEntities = total.Int32
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllEntityStatuses retrieves all recorded entity statuses from the store.
func (as *AnalysisStoreImpl) GetAllEntityStatuses() ([]schema.EntityStatusRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, group_by, entity_id, task_type, status,
		n_months, decline_count, avg_mom_abs, delta_abs, delta_rel,
		since_decline_count, since_increase_count, recorded_at
		FROM %s ORDER BY analysis_id, group_by, entity_id, task_type`, quoteTableName(entityStatusesTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.EntityStatusRecord
	for rows.Next() {
		var record schema.EntityStatusRecord
		var recordedRaw any
		if err := rows.Scan(&record.AnalysisID, &record.Grouping, &record.EntityID, &record.TaskType, &record.Status,
			&record.NMonths, &record.DeclineCount, &record.AvgMoMAbs, &record.DeltaAbs, &record.DeltaRel,
			&record.SinceDeclineCount, &record.SinceIncreaseCount, &recordedRaw); err != nil {
			return nil, fmt.Errorf("failed to scan entity status: %w", err)
		}
		if record.RecordedAt, err = parseTime(recordedRaw); err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entity statuses: %w", err)
	}
	return results, nil
}

// scanTime reads a single time column from row.
func (as *AnalysisStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	var raw any
	if err := row.Scan(&raw); err != nil {
		return time.Time{}, err
	}
	return parseTime(raw)
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// parseTime accepts what the drivers return for a time column: native
// values from PostgreSQL (and MySQL with parseTime=true) or text otherwise.
func parseTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTimeText(v)
	case []byte:
		return parseTimeText(string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", raw)
	}
}

func parseTimeText(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// MySQL DATETIME(6) text without parseTime=true
	return time.Parse("2006-01-02 15:04:05.999999", s)
}
