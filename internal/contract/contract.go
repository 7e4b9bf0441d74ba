// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/uptake/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetDatasetStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs and the
// classifications they produced.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(command string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalEntities int) error

	// RecordEntityStatus stores the classification of one entity
	RecordEntityStatus(analysisID int64, grouping schema.GroupBy, c schema.StatusClassification) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every recorded run ordered by ID
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllEntityStatuses returns every recorded classification ordered by run and entity
	GetAllEntityStatuses() ([]schema.EntityStatusRecord, error)

	// Close closes the underlying connection
	Close() error
}
