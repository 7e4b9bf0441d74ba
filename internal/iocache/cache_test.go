package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/uptake/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals lets each test drive the process-wide Manager from scratch.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
}

func TestCaching(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		analysisPath := filepath.Join(dir, "analysis.db")

		err := InitCaching(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, analysisPath)
		require.NoError(t, err)
		assert.NotNil(t, Manager.GetDatasetStore())
		assert.NotNil(t, Manager.GetAnalysisStore())
		CloseCaching()

		_, err = os.Stat(cachePath)
		assert.NoError(t, err, "database file should be created")
		_, err = os.Stat(analysisPath)
		assert.NoError(t, err)
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		connStr := filepath.Join(t.TempDir(), "cache.db")

		for range 3 {
			assert.NoError(t, InitCaching(schema.SQLiteBackend, connStr, "", ""))
		}
		assert.Nil(t, Manager.GetAnalysisStore(), "empty analysis backend leaves tracking off")

		CloseCaching()
		CloseCaching()
	})

	t.Run("none backend", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitCaching(schema.NoneBackend, "", schema.NoneBackend, ""))
		assert.NotNil(t, Manager.GetDatasetStore())
		CloseCaching()
	})

	t.Run("invalid backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitCaching("oracle", "", "", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported cache backend")
	})
}

func TestNoneBackendStore(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.NoneBackend, "")
	require.NoError(t, err)

	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, store.Set("k", []byte("v"), 1, 123456789))
	_, _, _, err = store.Get("k")
	assert.Error(t, err, "Set is a no-op on the none backend")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestSQLiteCacheStore(t *testing.T) {
	store, err := NewCacheStore("test_dataset", schema.SQLiteBackend, filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	now := time.Now().Unix()
	require.NoError(t, store.Set("k1", []byte("first"), 1, now-100))
	require.NoError(t, store.Set("k1", []byte("second"), 2, now))
	require.NoError(t, store.Set("k2", []byte("other"), 2, now-50))

	value, version, ts, err := store.Get("k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), value, "Set replaces an existing key")
	assert.Equal(t, 2, version)
	assert.Equal(t, now, ts)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, now, status.LastEntryTime.Unix())
	assert.Equal(t, now-50, status.OldestEntryTime.Unix())
	assert.Positive(t, status.TableSizeBytes)
}

func TestNewCacheStoreRejectsBadInput(t *testing.T) {
	_, err := NewCacheStore("bad name;", schema.SQLiteBackend, ":memory:")
	assert.Error(t, err)

	_, err = NewCacheStore("ok", "oracle", "")
	assert.Error(t, err)
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"simple", "test_table", false},
		{"with numbers", "test_table_123", false},
		{"leading underscore", "_test_table", false},
		{"mixed case", "TestTable_123", false},
		{"empty", "", true},
		{"leading digit", "1table", true},
		{"space", "test table", true},
		{"injection", "t; DROP TABLE users", true},
		{"hyphen", "test-table", true},
		{"quote", "test\"table", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableNameAndPlaceholder(t *testing.T) {
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))

	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 3))
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))
}

func TestDriverFor(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		driver  string
		wantErr bool
	}{
		{schema.SQLiteBackend, "sqlite", false},
		{schema.MySQLBackend, "mysql", false},
		{schema.PostgreSQLBackend, "pgx", false},
		{schema.NoneBackend, "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			driver, err := driverFor(tt.backend)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.driver, driver)
		})
	}
}

func TestClearCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearCache(schema.SQLiteBackend, path, ""), "missing file is not an error")
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache("oracle", "", ""))
	assert.NoError(t, ClearAnalysis(schema.SQLiteBackend, path, ""))
}

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend: "sqlite", Connected: true, TotalEntries: 1,
		LastEntryTime: ts, OldestEntryTime: ts, TableSizeBytes: 4096,
	})
	assert.Contains(t, buf.String(), "Last Entry: 2025-03-01 12:00:00")
	assert.Contains(t, buf.String(), "Table Size: 4096 bytes")
}
