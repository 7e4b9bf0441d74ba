package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// GroupBy represents the entity grouping used by the aggregator.
	GroupBy string

	// AdoptionStatus is the categorical outcome of trend classification.
	AdoptionStatus string

	// RecordSource tells which log a task record came from.
	RecordSource string

	// InputSource selects raw logs or a precomputed user monthly summary.
	InputSource string

	// Method is how a task was executed.
	Method string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All entity groupings supported.
const (
	UserGroup     GroupBy = "user" // default
	TeamGroup     GroupBy = "team"
	TeamTaskGroup GroupBy = "team-task"
	TaskTypeGroup GroupBy = "task-type"
)

// All adoption statuses.
const (
	StatusNotEnoughData AdoptionStatus = "Not enough data"
	StatusFullAdopter   AdoptionStatus = "Full Adopter"
	StatusGrowing       AdoptionStatus = "Growing"
	StatusStagnant      AdoptionStatus = "Stagnant/Declining"
	StatusIndeterminate AdoptionStatus = "Indeterminate"
)

// Record sources.
const (
	AILogSource     RecordSource = "ai_log"
	ManualLogSource RecordSource = "manual_log"
)

// Input sources.
const (
	LogsSource    InputSource = "logs" // default
	SummarySource InputSource = "summary"
)

// Task execution methods.
const (
	AIMethod     Method = "AI"
	ManualMethod Method = "Manual"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidGroupings lists all valid entity groupings.
var ValidGroupings = map[GroupBy]struct{}{
	UserGroup:     {},
	TeamGroup:     {},
	TeamTaskGroup: {},
	TaskTypeGroup: {},
}

// ValidStatuses lists all statuses accepted by the status filter.
var ValidStatuses = map[AdoptionStatus]struct{}{
	StatusNotEnoughData: {},
	StatusFullAdopter:   {},
	StatusGrowing:       {},
	StatusStagnant:      {},
	StatusIndeterminate: {},
}

// ValidInputSources lists all valid input sources.
var ValidInputSources = map[InputSource]struct{}{
	LogsSource:    {},
	SummarySource: {},
}

// StatusOrder is the display order of statuses in summaries.
var StatusOrder = []AdoptionStatus{
	StatusFullAdopter,
	StatusGrowing,
	StatusStagnant,
	StatusIndeterminate,
	StatusNotEnoughData,
}
