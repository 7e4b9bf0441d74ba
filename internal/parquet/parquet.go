// Package parquet provides data structures and functions for exporting uptake
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/uptake/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single recorded run with metadata.
// This struct maps to the uptake_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// RunUUID is the globally unique identifier of the run
	RunUUID string `parquet:"run_uuid,snappy"`

	// Command is the subcommand that produced the run
	Command string `parquet:"command,snappy"`

	// StartTime is when the analysis began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalEntities is the number of entities classified in this run
	TotalEntities int32 `parquet:"total_entities,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// EntityStatus is the recorded classification of one entity in a run.
// This struct maps to the uptake_entity_statuses database table.
type EntityStatus struct {
	AnalysisID         int64     `parquet:"analysis_id,snappy"`
	GroupBy            string    `parquet:"group_by,snappy,dict"`
	EntityID           string    `parquet:"entity_id,snappy"`
	TaskType           string    `parquet:"task_type,snappy,dict"`
	Status             string    `parquet:"status,snappy,dict"`
	NMonths            int32     `parquet:"n_months,snappy"`
	DeclineCount       int32     `parquet:"decline_count,snappy"`
	AvgMoMAbs          *float64  `parquet:"avg_mom_abs,optional,snappy"`
	DeltaAbs           *float64  `parquet:"delta_abs,optional,snappy"`
	DeltaRel           *float64  `parquet:"delta_rel,optional,snappy"`
	SinceDeclineCount  int32     `parquet:"since_decline_count,snappy"`
	SinceIncreaseCount int32     `parquet:"since_increase_count,snappy"`
	RecordedAt         time.Time `parquet:"recorded_at,snappy"`
}

// TrendSlot is one month of a trend row. Rate is null when the entity had no tasks.
type TrendSlot struct {
	Month string   `parquet:"month"`
	Rate  *float64 `parquet:"rate,optional"`
}

// Trend is a classified trend row.
type Trend struct {
	EntityID              string      `parquet:"entity_id,snappy"`
	TaskType              string      `parquet:"task_type,snappy,dict"`
	Team                  string      `parquet:"team,snappy,dict"`
	FullName              string      `parquet:"full_name,snappy"`
	Slots                 []TrendSlot `parquet:"slots"`
	Status                string      `parquet:"status,snappy,dict"`
	Rule                  string      `parquet:"rule,snappy,dict"`
	Severity              string      `parquet:"severity,snappy,dict"`
	NMonths               int32       `parquet:"n_months,snappy"`
	DeclineCount          int32       `parquet:"decline_count,snappy"`
	AvgMoMAbs             *float64    `parquet:"avg_mom_abs,optional,snappy"`
	AvgMoMRel             *float64    `parquet:"avg_mom_rel,optional,snappy"`
	DeltaAbsEndpoints     *float64    `parquet:"delta_abs_endpoints,optional,snappy"`
	DeltaRelEndpoints     *float64    `parquet:"delta_rel_endpoints,optional,snappy"`
	SinceFirstMonth       *string     `parquet:"since_first_month,optional,snappy"`
	SinceDeclineCount     int32       `parquet:"since_decline_count,snappy"`
	SinceIncreaseCount    int32       `parquet:"since_increase_count,snappy"`
	DecliningSince        bool        `parquet:"declining_since_adoption"`
	ConsecutivelyStagnant bool        `parquet:"consecutively_stagnant"`
}

// SummaryRow is one row of the user monthly summary.
type SummaryRow struct {
	UserID              string   `parquet:"user_id,snappy"`
	Month               string   `parquet:"month,snappy,dict"`
	TaskCountAI         int32    `parquet:"task_count_ai,snappy"`
	TaskCountManual     int32    `parquet:"task_count_manual,snappy"`
	TotalDurationAI     float64  `parquet:"total_duration_ai,snappy"`
	TotalDurationManual float64  `parquet:"total_duration_manual,snappy"`
	AITasks             int32    `parquet:"ai_tasks,snappy"`
	ManualTasks         int32    `parquet:"manual_tasks,snappy"`
	TotalTasks          int32    `parquet:"total_tasks,snappy"`
	AdoptionRate        *float64 `parquet:"adoption_rate,optional,snappy"`
	AIAvgDur            *float64 `parquet:"ai_avg_dur,optional,snappy"`
	ManualAvgDur        *float64 `parquet:"manual_avg_dur,optional,snappy"`
	FullName            string   `parquet:"full_name,snappy"`
	JoinDate            *string  `parquet:"join_date,optional,snappy"`
	Team                string   `parquet:"team,snappy,dict"`
}

// Write writes rows as a single Parquet file to w.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteEntityStatusesParquet writes a slice of EntityStatus structs to a Parquet file.
func WriteEntityStatusesParquet(data []EntityStatus, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:    record.AnalysisID,
			RunUUID:       record.RunUUID,
			Command:       record.Command,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalEntities: record.TotalEntities,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertEntityStatusRecords converts schema.EntityStatusRecord to EntityStatus for Parquet export.
func ConvertEntityStatusRecords(records []schema.EntityStatusRecord) []EntityStatus {
	result := make([]EntityStatus, len(records))
	for i, record := range records {
		result[i] = EntityStatus{
			AnalysisID:         record.AnalysisID,
			GroupBy:            record.Grouping,
			EntityID:           record.EntityID,
			TaskType:           record.TaskType,
			Status:             record.Status,
			NMonths:            record.NMonths,
			DeclineCount:       record.DeclineCount,
			AvgMoMAbs:          record.AvgMoMAbs,
			DeltaAbs:           record.DeltaAbs,
			DeltaRel:           record.DeltaRel,
			SinceDeclineCount:  record.SinceDeclineCount,
			SinceIncreaseCount: record.SinceIncreaseCount,
			RecordedAt:         record.RecordedAt,
		}
	}
	return result
}

// ConvertTrendResults flattens classified trend rows for Parquet export.
func ConvertTrendResults(results []schema.TrendResult) []Trend {
	out := make([]Trend, len(results))
	for i, r := range results {
		c := r.Classification
		slots := make([]TrendSlot, len(r.Slots))
		for j, s := range r.Slots {
			slots[j] = TrendSlot{Month: s.Month.String(), Rate: s.Rate}
		}
		var first *string
		if c.Since.FirstMonth != nil {
			m := c.Since.FirstMonth.String()
			first = &m
		}
		out[i] = Trend{
			EntityID:              r.Entity.ID,
			TaskType:              r.Entity.TaskType,
			Team:                  r.Team,
			FullName:              r.FullName,
			Slots:                 slots,
			Status:                string(c.Status),
			Rule:                  c.Rule,
			Severity:              c.Severity,
			NMonths:               int32(c.NMonths),
			DeclineCount:          int32(c.DeclineCount),
			AvgMoMAbs:             c.AvgMoMAbs.Ptr(),
			AvgMoMRel:             c.AvgMoMRel.Ptr(),
			DeltaAbsEndpoints:     c.DeltaAbsEndpoints.Ptr(),
			DeltaRelEndpoints:     c.DeltaRelEndpoints.Ptr(),
			SinceFirstMonth:       first,
			SinceDeclineCount:     int32(c.Since.DeclineCount),
			SinceIncreaseCount:    int32(c.Since.IncreaseCount),
			DecliningSince:        c.Since.Declining,
			ConsecutivelyStagnant: c.ConsecutivelyStagnant,
		}
	}
	return out
}

// ConvertSummaryRows converts user monthly summary rows for Parquet export.
func ConvertSummaryRows(rows []schema.UserMonthlySummary) []SummaryRow {
	out := make([]SummaryRow, len(rows))
	for i, s := range rows {
		var joined *string
		if !s.JoinDate.IsZero() {
			d := s.JoinDate.Format(time.DateOnly)
			joined = &d
		}
		out[i] = SummaryRow{
			UserID:              s.UserID,
			Month:               s.Month.String(),
			TaskCountAI:         int32(s.TaskCountAI),
			TaskCountManual:     int32(s.TaskCountManual),
			TotalDurationAI:     s.TotalDurationAI,
			TotalDurationManual: s.TotalDurationManual,
			AITasks:             int32(s.AITasks),
			ManualTasks:         int32(s.ManualTasks),
			TotalTasks:          int32(s.TotalTasks),
			AdoptionRate:        s.AdoptionRate.Ptr(),
			AIAvgDur:            s.AIAvgDur.Ptr(),
			ManualAvgDur:        s.ManualAvgDur.Ptr(),
			FullName:            s.FullName,
			JoinDate:            joined,
			Team:                s.Team,
		}
	}
	return out
}
