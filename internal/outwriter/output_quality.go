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

// PrintQualityResults outputs a quality report.
func PrintQualityResults(report schema.QualityReport, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "quality", writers{
		text: func(w io.Writer) error { return writeQualityText(w, report, cfg, duration) },
		csv:  func(w io.Writer) error { return writeQualityCSV(w, report) },
		data: report,
	})
}

func accuracyRows(groups []schema.AccuracyGroup, cells func(schema.AccuracyGroup) []string, fmtRatio func(schema.Ratio) string) [][]string {
	data := make([][]string, 0, len(groups))
	for _, g := range groups {
		data = append(data, append(cells(g), strconv.Itoa(g.Count), fmtRatio(g.Mean), fmtRatio(g.PctBelow)))
	}
	return data
}

func writeQualityText(w io.Writer, report schema.QualityReport, cfg *contract.Config, duration time.Duration) error {
	fmtRatio, fmtFloat := createFormatters(cfg.Precision)
	width := GetMaxTableNameWidth(cfg, 5)
	tail := []string{"N", "Mean", "Below %"}

	team := func(g schema.AccuracyGroup) []string { return []string{contract.TruncateText(g.Team, width)} }
	task := func(g schema.AccuracyGroup) []string { return []string{contract.TruncateText(g.TaskType, width)} }
	pair := func(g schema.AccuracyGroup) []string { return append(team(g), task(g)...) }

	sections := []struct {
		title   string
		headers []string
		groups  []schema.AccuracyGroup
		cells   func(schema.AccuracyGroup) []string
	}{
		{"Accuracy by team and task type", []string{"Team", "Task Type"}, report.ByTeamTask, pair},
		{"Accuracy by team", []string{"Team"}, report.ByTeam, team},
		{"Accuracy by task type", []string{"Task Type"}, report.ByTaskType, task},
	}
	for _, sec := range sections {
		if _, err := fmt.Fprintln(w, sec.title); err != nil {
			return err
		}
		if err := renderTable(w, append(sec.headers, tail...), accuracyRows(sec.groups, sec.cells, fmtRatio)); err != nil {
			return err
		}
	}

	monthly := []struct {
		title   string
		headers []string
		rows    []schema.TrendRow
		cells   func(schema.EntityKey) []string
	}{
		{"Monthly mean accuracy by team and task type", []string{"Team", "Task Type"}, report.MonthlyByTeamTask,
			func(k schema.EntityKey) []string {
				return []string{contract.TruncateText(k.ID, width), contract.TruncateText(k.TaskType, width)}
			}},
		{"Monthly mean accuracy by team", []string{"Team"}, report.MonthlyByTeam,
			func(k schema.EntityKey) []string { return []string{contract.TruncateText(k.ID, width)} }},
		{"Monthly mean accuracy by task type", []string{"Task Type"}, report.MonthlyByTaskType,
			func(k schema.EntityKey) []string { return []string{contract.TruncateText(k.ID, width)} }},
	}
	for _, sec := range monthly {
		if len(sec.rows) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, sec.title); err != nil {
			return err
		}
		headers := sec.headers
		for _, m := range report.Months {
			headers = append(headers, m.Label())
		}
		var data [][]string
		for _, r := range sec.rows {
			row := sec.cells(r.Entity)
			for _, s := range r.Slots {
				row = append(row, fmtPtr(s.Rate, fmtFloat))
			}
			data = append(data, row)
		}
		if err := renderTable(w, headers, data); err != nil {
			return err
		}
	}

	if len(report.Distributions) > 0 {
		if _, err := fmt.Fprintln(w, "Accuracy distribution by task type"); err != nil {
			return err
		}
		var data [][]string
		for _, d := range report.Distributions {
			data = append(data, []string{
				contract.TruncateText(d.TaskType, width), strconv.Itoa(d.Count),
				fmtRatio(d.Mean), fmtRatio(d.Std), fmtRatio(d.Min),
				fmtRatio(d.P25), fmtRatio(d.P50), fmtRatio(d.P75), fmtRatio(d.Max),
			})
		}
		if err := renderTable(w, []string{"Task Type", "N", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"}, data); err != nil {
			return err
		}
	}

	if len(report.Users) > 0 {
		if _, err := fmt.Fprintln(w, "Accuracy by user"); err != nil {
			return err
		}
		var data [][]string
		for _, u := range report.Users {
			data = append(data, []string{
				contract.TruncateText(u.UserID, width),
				contract.TruncateText(schema.AbbreviateName(u.FullName), width),
				u.Team, strconv.Itoa(u.Count), fmtRatio(u.Mean), fmtRatio(u.AdoptionRate), fmtRatio(u.AvgDuration),
			})
		}
		if err := renderTable(w, []string{"User", "Name", "Team", "N", "Mean", "Adoption %", "Avg Min"}, data); err != nil {
			return err
		}
	}

	pct := schema.RatioOf(float64(report.BelowCount)*100, float64(report.TotalCount))
	if _, err := fmt.Fprintf(w, "%d of %d predictions below %s (%s%%)\n",
		report.BelowCount, report.TotalCount, strconv.FormatFloat(report.Threshold, 'f', -1, 64), fmtRatio(pct)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v\n", duration)
	return err
}

// writeQualityCSV writes the predictions below the threshold.
func writeQualityCSV(w io.Writer, report schema.QualityReport) error {
	header := []string{"user_id", "full_name", "team", "task_type", "date", "accuracy"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range report.LowAccuracy {
			rec := []string{
				e.UserID, e.FullName, e.Team, e.TaskType,
				e.Date.Format(time.DateOnly),
				strconv.FormatFloat(e.Accuracy, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
