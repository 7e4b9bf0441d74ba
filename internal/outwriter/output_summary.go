package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/internal/parquet"
	"github.com/huangsam/uptake/schema"
)

// PrintSummaryResults outputs the user monthly summary. CSV output keeps
// full precision so it can be fed back with --source summary.
func PrintSummaryResults(rows []schema.UserMonthlySummary, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "summary", writers{
		text: func(w io.Writer) error { return writeSummaryTable(w, rows, cfg, duration) },
		csv:  func(w io.Writer) error { return writeSummaryCSV(w, rows) },
		data: rows,
		parquet: func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertSummaryRows(rows))
		},
	})
}

func writeSummaryCSV(w io.Writer, rows []schema.UserMonthlySummary) error {
	return writeCSVWithHeader(w, schema.SummaryColumns, func(cw *csv.Writer) error {
		for _, r := range rows {
			if err := cw.Write(r.Record()); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSummaryTable(w io.Writer, rows []schema.UserMonthlySummary, cfg *contract.Config, duration time.Duration) error {
	fmtRatio, _ := createFormatters(cfg.Precision)
	width := GetMaxTableNameWidth(cfg, 8)

	shown := rows
	if cfg.ResultLimit > 0 && len(shown) > cfg.ResultLimit {
		shown = shown[:cfg.ResultLimit]
	}
	data := make([][]string, 0, len(shown))
	for _, r := range shown {
		data = append(data, []string{
			contract.TruncateText(r.UserID, width),
			contract.TruncateText(schema.AbbreviateName(r.FullName), width),
			r.Team, r.Month.Label(),
			strconv.Itoa(r.AITasks), strconv.Itoa(r.ManualTasks),
			fmtRatio(r.AdoptionRate), fmtRatio(r.AIAvgDur), fmtRatio(r.ManualAvgDur),
		})
	}
	headers := []string{"User", "Name", "Team", "Month", "AI", "Manual", "Rate %", "AI Avg", "Manual Avg"}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Showing %d of %d user-months\n", len(shown), len(rows)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v\n", duration)
	return err
}
