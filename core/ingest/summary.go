package ingest

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"time"

	"github.com/huangsam/uptake/schema"
)

// SummaryColumns are the summary table columns, in the order they are written.
var SummaryColumns = schema.SummaryColumns

// RequiredSummaryColumns are the columns a summary must carry to feed the trend pipeline.
var RequiredSummaryColumns = []string{ColUserID, ColMonth, ColAITasks, ColManual, ColTotalTasks, ColTeam}

// ReadSummary parses a precomputed user monthly summary.
func ReadSummary(r io.Reader, source string) ([]schema.UserMonthlySummary, error) {
	t, err := openTable(r, source, RequiredSummaryColumns)
	if err != nil {
		return nil, err
	}
	var out []schema.UserMonthlySummary
	for {
		row, err := t.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		s, err := summaryRow(t, row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
}

// ReadSummaryFile opens and parses a summary file.
func ReadSummaryFile(path string) ([]schema.UserMonthlySummary, error) {
	return readFile(path, ReadSummary)
}

func summaryRow(t *table, row *tableRow) (schema.UserMonthlySummary, error) {
	month, err := parseSummaryMonth(row.str(ColMonth))
	if err != nil {
		return schema.UserMonthlySummary{}, row.fail(ColMonth, err)
	}
	s := schema.UserMonthlySummary{
		UserID:   row.str(ColUserID),
		Month:    month,
		FullName: row.str(ColFullName),
		Team:     row.str(ColTeam),
	}

	ints := []struct {
		col string
		dst *int
	}{
		{"task_count_ai", &s.TaskCountAI},
		{"task_count_manual", &s.TaskCountManual},
		{ColAITasks, &s.AITasks},
		{ColManual, &s.ManualTasks},
		{ColTotalTasks, &s.TotalTasks},
	}
	for _, f := range ints {
		if *f.dst, err = row.integer(f.col); err != nil {
			return s, err
		}
	}

	floats := []struct {
		col string
		dst *float64
	}{
		{"total_duration_ai", &s.TotalDurationAI},
		{"total_duration_manual", &s.TotalDurationManual},
	}
	for _, f := range floats {
		v, err := row.optFloat(f.col)
		if err != nil {
			return s, err
		}
		if v != nil {
			*f.dst = *v
		}
	}

	ratios := []struct {
		col string
		dst *schema.Ratio
	}{
		{"adoption_rate", &s.AdoptionRate},
		{"ai_avg_dur", &s.AIAvgDur},
		{"manual_avg_dur", &s.ManualAvgDur},
	}
	for _, f := range ratios {
		v, err := row.optFloat(f.col)
		if err != nil {
			return s, err
		}
		*f.dst = schema.Ratio(math.NaN())
		if v != nil {
			*f.dst = schema.Ratio(*v)
		}
	}
	if !t.has("adoption_rate") {
		s.AdoptionRate = schema.RatioOf(float64(s.AITasks)*100, float64(s.TotalTasks))
	}

	if row.str(ColJoinDate) != "" {
		if s.JoinDate, err = row.date(ColJoinDate); err != nil {
			return s, err
		}
	}
	return s, nil
}

// parseSummaryMonth accepts YYYY-MM as well as the first-of-month dates that
// date-typed month columns are written as; the day is dropped.
func parseSummaryMonth(s string) (schema.Month, error) {
	if m, err := schema.ParseMonth(s); err == nil {
		return m, nil
	}
	for _, layout := range []string{time.DateOnly, time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return schema.MonthOf(t), nil
		}
	}
	return schema.Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM or YYYY-MM-DD)", s)
}

// SummaryPath returns the default summary location under dataDir.
func SummaryPath(dataDir string) string {
	return filepath.Join(dataDir, DefaultSummaryFile)
}
