package schema

import "time"

// AnalysisRunRecord represents a row from the uptake_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID    int64
	RunUUID       string
	Command       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalEntities int32
	ConfigParams  *string
}

// EntityStatusRecord represents a row from the uptake_entity_statuses table.
type EntityStatusRecord struct {
	AnalysisID         int64
	Grouping           string
	EntityID           string
	TaskType           string
	Status             string
	NMonths            int32
	DeclineCount       int32
	AvgMoMAbs          *float64
	DeltaAbs           *float64
	DeltaRel           *float64
	SinceDeclineCount  int32
	SinceIncreaseCount int32
	RecordedAt         time.Time
}
