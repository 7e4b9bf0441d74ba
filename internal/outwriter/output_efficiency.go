package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
)

// PrintEfficiencyResults outputs an efficiency report.
func PrintEfficiencyResults(report schema.EfficiencyReport, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "efficiency", writers{
		text: func(w io.Writer) error { return writeEfficiencyText(w, report, cfg, duration) },
		csv:  func(w io.Writer) error { return writeEfficiencyCSV(w, report) },
		data: report,
	})
}

func methodRows(rows []schema.MethodDuration, withTeam bool, width int, fmtRatio func(schema.Ratio) string) [][]string {
	data := make([][]string, 0, len(rows))
	for _, d := range rows {
		var row []string
		if withTeam {
			row = append(row, contract.TruncateText(d.Team, width))
		}
		row = append(row,
			contract.TruncateText(d.TaskType, width),
			strconv.Itoa(d.AICount), strconv.Itoa(d.ManualCount),
			fmtRatio(d.AIAvg), fmtRatio(d.ManualAvg), fmtRatio(d.PctTimeSaved),
		)
		data = append(data, row)
	}
	return data
}

func writeEfficiencyText(w io.Writer, report schema.EfficiencyReport, cfg *contract.Config, duration time.Duration) error {
	fmtRatio, fmtFloat := createFormatters(cfg.Precision)
	width := GetMaxTableNameWidth(cfg, 6)
	cols := []string{"Task Type", "AI #", "Manual #", "AI Avg", "Manual Avg", "Saved %"}

	if _, err := fmt.Fprintln(w, "Duration by team and task type"); err != nil {
		return err
	}
	if err := renderTable(w, append([]string{"Team"}, cols...), methodRows(report.ByTeamTask, true, width, fmtRatio)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Duration by task type"); err != nil {
		return err
	}
	if err := renderTable(w, cols, methodRows(report.ByTaskType, false, width, fmtRatio)); err != nil {
		return err
	}

	if len(report.Baseline) > 0 {
		if _, err := fmt.Fprintf(w, "Manual minutes: baseline %s..%s vs window\n",
			labelOf(report.BaselineMonths, 0), labelOf(report.BaselineMonths, -1)); err != nil {
			return err
		}
		var data [][]string
		for _, b := range report.Baseline {
			data = append(data, []string{
				contract.TruncateText(b.TaskType, width),
				fmtRatio(b.BaselineAvg), fmtRatio(b.WindowAvg), fmtRatio(b.PctChange),
			})
		}
		if err := renderTable(w, []string{"Task Type", "Baseline Avg", "Window Avg", "Change %"}, data); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%d monthly duration groups across %d months (total %s minutes)\n",
		len(report.Monthly), len(report.Window), fmtFloat(totalMinutes(report.Monthly))); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v\n", duration)
	return err
}

// labelOf returns the label of months[i], counting from the end when i is negative.
func labelOf(months []schema.Month, i int) string {
	if len(months) == 0 {
		return "-"
	}
	if i < 0 {
		i += len(months)
	}
	return months[i].Label()
}

func totalMinutes(rows []schema.MonthlyDuration) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.TotalMinutes
	}
	return sum
}

// writeEfficiencyCSV writes the monthly duration profile, the most granular view of the report.
func writeEfficiencyCSV(w io.Writer, report schema.EfficiencyReport) error {
	header := []string{"team", "task_type", "method", "month", "count", "avg_minutes", "total_minutes"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range report.Monthly {
			rec := []string{
				d.Team, d.TaskType, string(d.Method), d.Month.String(),
				strconv.Itoa(d.Count),
				strconv.FormatFloat(d.AvgMinutes, 'f', -1, 64),
				strconv.FormatFloat(d.TotalMinutes, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
