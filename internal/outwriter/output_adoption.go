package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintAdoptionResults outputs an adoption report.
func PrintAdoptionResults(report schema.AdoptionReport, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "adoption", writers{
		text: func(w io.Writer) error { return writeAdoptionText(w, report, cfg, duration) },
		csv:  func(w io.Writer) error { return writeAdoptionCSV(w, report) },
		data: report,
	})
}

func writeAdoptionText(w io.Writer, report schema.AdoptionReport, cfg *contract.Config, duration time.Duration) error {
	fmtRatio, fmtFloat := createFormatters(cfg.Precision)
	width := GetMaxTableNameWidth(cfg, 4)

	team := func(t schema.AdoptionTotal) []string { return []string{contract.TruncateText(t.Team, width)} }
	task := func(t schema.AdoptionTotal) []string { return []string{contract.TruncateText(t.TaskType, width)} }
	pair := func(t schema.AdoptionTotal) []string { return append(team(t), task(t)...) }

	sections := []struct {
		title   string
		headers []string
		rows    []schema.AdoptionTotal
		cells   func(schema.AdoptionTotal) []string
	}{
		{"Adoption by team", []string{"Team"}, report.ByTeam, team},
		{"Adoption by task type", []string{"Task Type"}, report.ByTaskType, task},
		{"Adoption by team and task type", []string{"Team", "Task Type"}, report.ByTeamTask, pair},
	}
	for _, sec := range sections {
		if _, err := fmt.Fprintln(w, sec.title); err != nil {
			return err
		}
		data := make([][]string, 0, len(sec.rows))
		for _, t := range sec.rows {
			row := append(sec.cells(t), strconv.Itoa(t.TotalTasks), strconv.Itoa(t.AITasks), fmtRatio(t.AdoptionRate))
			data = append(data, row)
		}
		if err := renderTable(w, append(sec.headers, "Total", "AI", "Rate %"), data); err != nil {
			return err
		}
	}

	if len(report.TeamTaskTrend) > 0 {
		if _, err := fmt.Fprintln(w, "Monthly adoption by team and task type"); err != nil {
			return err
		}
		headers := []string{"Team", "Task Type"}
		for _, m := range report.Window {
			headers = append(headers, m.Label())
		}
		var data [][]string
		for _, r := range report.TeamTaskTrend {
			row := []string{contract.TruncateText(r.Entity.ID, width), contract.TruncateText(r.Entity.TaskType, width)}
			for _, s := range r.Slots {
				row = append(row, fmtPtr(s.Rate, fmtFloat))
			}
			data = append(data, row)
		}
		if err := renderTable(w, headers, data); err != nil {
			return err
		}
	}

	if report.Highest != nil && report.Lowest != nil {
		if _, err := fmt.Fprintf(w, "Highest adoption: %s (%s%%). Lowest adoption: %s (%s%%)\n",
			report.Highest.Team, fmtRatio(report.Highest.AdoptionRate),
			report.Lowest.Team, fmtRatio(report.Lowest.AdoptionRate)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v\n", duration)
	return err
}

// renderTable writes one right-aligned table.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeAdoptionCSV(w io.Writer, report schema.AdoptionReport) error {
	header := []string{"scope", "team", "task_type", "total_tasks", "ai_tasks", "adoption_rate"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		scopes := []struct {
			name string
			rows []schema.AdoptionTotal
		}{
			{"team", report.ByTeam},
			{"task_type", report.ByTaskType},
			{"team_task", report.ByTeamTask},
		}
		for _, sc := range scopes {
			for _, t := range sc.rows {
				rec := []string{
					sc.name, t.Team, t.TaskType,
					strconv.Itoa(t.TotalTasks), strconv.Itoa(t.AITasks), t.AdoptionRate.Format(-1),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
