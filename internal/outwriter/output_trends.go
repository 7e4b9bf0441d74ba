package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/uptake/internal/contract"
	"github.com/huangsam/uptake/internal/parquet"
	"github.com/huangsam/uptake/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTrendResults outputs a trend report, dispatching based on the output format configured.
func PrintTrendResults(report schema.TrendReport, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "trends", writers{
		text: func(w io.Writer) error { return writeTrendTable(w, report, cfg, duration) },
		csv:  func(w io.Writer) error { return writeTrendCSV(w, report) },
		data: report,
		parquet: func(w io.Writer) error {
			return parquet.Write(w, parquet.ConvertTrendResults(report.Results))
		},
	})
}

// statusLabel renders the severity of a classification, colored when enabled.
func statusLabel(c schema.StatusClassification, cfg *contract.Config) string {
	if !cfg.UseColors {
		return c.Severity
	}
	return contract.GetColorLabel(c.Status, c.Severity)
}

// entityHeaders returns the identifying columns for a grouping.
func entityHeaders(by schema.GroupBy) []string {
	switch by {
	case schema.UserGroup:
		return []string{"User", "Name", "Team"}
	case schema.TeamGroup:
		return []string{"Team"}
	case schema.TeamTaskGroup:
		return []string{"Team", "Task Type"}
	default:
		return []string{"Task Type"}
	}
}

func entityCells(r schema.TrendRow, by schema.GroupBy, width int) []string {
	id := contract.TruncateText(r.Entity.ID, width)
	switch by {
	case schema.UserGroup:
		return []string{id, contract.TruncateText(schema.AbbreviateName(r.FullName), width), r.Team}
	case schema.TeamTaskGroup:
		return []string{id, contract.TruncateText(r.Entity.TaskType, width)}
	default:
		return []string{id}
	}
}

// writeTrendTable generates and writes the human-readable table.
func writeTrendTable(w io.Writer, report schema.TrendReport, cfg *contract.Config, duration time.Duration) error {
	fmtRatio, fmtFloat := createFormatters(cfg.Precision)
	table := tablewriter.NewWriter(w)

	headers := []string{"#"}
	headers = append(headers, entityHeaders(report.GroupBy)...)
	for _, m := range report.Window {
		headers = append(headers, m.Label())
	}
	headers = append(headers, "Months", "Declines", "Avg MoM", "Δ Abs", "Δ Rel", "Status")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	width := GetMaxTableNameWidth(cfg, len(headers)-1)
	var data [][]string
	for i, r := range report.Results {
		c := r.Classification
		row := []string{strconv.Itoa(i + 1)}
		row = append(row, entityCells(r.TrendRow, report.GroupBy, width)...)
		for _, s := range r.Slots {
			row = append(row, fmtPtr(s.Rate, fmtFloat))
		}
		row = append(row,
			strconv.Itoa(c.NMonths),
			strconv.Itoa(c.DeclineCount),
			fmtRatio(c.AvgMoMAbs),
			fmtRatio(c.DeltaAbsEndpoints),
			fmtRatio(c.DeltaRelEndpoints),
			statusLabel(c, cfg),
		)
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d of %d entities by %s (%s)\n",
		len(report.Results), report.TotalEntities, report.GroupBy, formatStatusCounts(report.StatusCounts)); err != nil {
		return err
	}
	if report.DroppedManual > 0 {
		if _, err := fmt.Fprintf(w, "Ignored %d manual tasks from users missing in the AI usage log\n", report.DroppedManual); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// formatStatusCounts renders counts in display order, skipping empty statuses.
func formatStatusCounts(counts map[schema.AdoptionStatus]int) string {
	var parts []string
	for _, s := range schema.StatusOrder {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", s, n))
		}
	}
	if len(parts) == 0 {
		return "no entities"
	}
	return strings.Join(parts, ", ")
}

// trendCSVHeader lists the CSV columns of a trend report.
func trendCSVHeader(window []schema.Month) []string {
	header := []string{"entity_id", "task_type", "team", "full_name"}
	for _, m := range window {
		header = append(header, m.String())
	}
	return append(header,
		"n_months", "decline_count",
		"avg_mom_abs", "avg_mom_rel",
		"delta_abs_endpoints", "delta_rel_endpoints",
		"since_first_month", "since_decline_count", "since_increase_count", "declining_since_adoption",
		"consecutively_stagnant", "status", "rule", "severity",
	)
}

// writeTrendCSV writes full-precision values so identical inputs give identical bytes.
func writeTrendCSV(w io.Writer, report schema.TrendReport) error {
	fmtFull := func(r schema.Ratio) string { return r.Format(-1) }
	fmtRate := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	return writeCSVWithHeader(w, trendCSVHeader(report.Window), func(cw *csv.Writer) error {
		for _, r := range report.Results {
			c := r.Classification
			rec := []string{r.Entity.ID, r.Entity.TaskType, r.Team, r.FullName}
			for _, s := range r.Slots {
				rec = append(rec, fmtPtr(s.Rate, fmtRate))
			}
			first := ""
			if c.Since.FirstMonth != nil {
				first = c.Since.FirstMonth.String()
			}
			rec = append(rec,
				strconv.Itoa(c.NMonths), strconv.Itoa(c.DeclineCount),
				fmtFull(c.AvgMoMAbs), fmtFull(c.AvgMoMRel),
				fmtFull(c.DeltaAbsEndpoints), fmtFull(c.DeltaRelEndpoints),
				first, strconv.Itoa(c.Since.DeclineCount), strconv.Itoa(c.Since.IncreaseCount),
				strconv.FormatBool(c.Since.Declining),
				strconv.FormatBool(c.ConsecutivelyStagnant), string(c.Status), c.Rule, c.Severity,
			)
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
