package schema

// Slot is one calendar month of a trend row. Rate is nil when the entity
// had no tasks that month.
type Slot struct {
	Month Month    `json:"month" yaml:"month"`
	Rate  *float64 `json:"rate" yaml:"rate"`
}

// Present reports whether the slot carries a value.
func (s Slot) Present() bool {
	return s.Rate != nil
}

// TrendRow holds one entity's rates over the reporting window in calendar order.
type TrendRow struct {
	Entity   EntityKey `json:"entity" yaml:"entity"`
	Team     string    `json:"team,omitempty" yaml:"team,omitempty"`
	FullName string    `json:"full_name,omitempty" yaml:"full_name,omitempty"`
	Slots    []Slot    `json:"slots" yaml:"slots"`
}

// Present returns the non-missing slot values in calendar order.
func (r TrendRow) Present() []float64 {
	var vals []float64
	for _, s := range r.Slots {
		if s.Rate != nil {
			vals = append(vals, *s.Rate)
		}
	}
	return vals
}

// SinceAdoption is the month-over-month walk restricted to months at or
// after the entity's first month with a positive rate.
type SinceAdoption struct {
	FirstMonth    *Month `json:"first_month" yaml:"first_month"`
	DeclineCount  int    `json:"decline_count" yaml:"decline_count"`
	IncreaseCount int    `json:"increase_count" yaml:"increase_count"` // seeded at 1 for the adoption event
	Declining     bool   `json:"declining" yaml:"declining"`
}

// StatusClassification is the derived trend metrics and status of one entity.
type StatusClassification struct {
	Entity                EntityKey      `json:"entity" yaml:"entity"`
	Status                AdoptionStatus `json:"status" yaml:"status"`
	Rule                  string         `json:"rule" yaml:"rule"` // name of the rule that decided Status
	NMonths               int            `json:"n_months" yaml:"n_months"`
	DeclineCount          int            `json:"decline_count" yaml:"decline_count"`
	AvgMoMAbs             Ratio          `json:"avg_mom_abs" yaml:"avg_mom_abs"`
	AvgMoMRel             Ratio          `json:"avg_mom_rel" yaml:"avg_mom_rel"`
	DeltaAbsEndpoints     Ratio          `json:"delta_abs_endpoints" yaml:"delta_abs_endpoints"`
	DeltaRelEndpoints     Ratio          `json:"delta_rel_endpoints" yaml:"delta_rel_endpoints"`
	Since                 SinceAdoption  `json:"since_adoption" yaml:"since_adoption"`
	ConsecutivelyStagnant bool           `json:"consecutively_stagnant" yaml:"consecutively_stagnant"`
	Severity              string         `json:"severity" yaml:"severity"`
}

// TrendResult pairs a trend row with its classification.
type TrendResult struct {
	TrendRow       `yaml:",inline"`
	Classification StatusClassification `json:"classification" yaml:"classification"`
}

// TrendReport is the output of a trend run.
// Results holds the rows left after filtering and the limit; TotalEntities
// and StatusCounts describe every classified entity.
type TrendReport struct {
	GroupBy       GroupBy                `json:"group_by" yaml:"group_by"`
	Window        []Month                `json:"window" yaml:"window"`
	Results       []TrendResult          `json:"results" yaml:"results"`
	TotalEntities int                    `json:"total_entities" yaml:"total_entities"`
	StatusCounts  map[AdoptionStatus]int `json:"status_counts" yaml:"status_counts"`
	DroppedManual int                    `json:"dropped_manual" yaml:"dropped_manual"`
}
