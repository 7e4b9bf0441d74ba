package algo

import (
	"fmt"

	"github.com/huangsam/uptake/core/stats"
	"github.com/huangsam/uptake/schema"
)

// mom is the month-over-month walk over consecutive calendar slots.
type mom struct {
	abs      []float64
	rel      []float64
	declines int
	increase int
}

// walk compares every consecutive pair of slots. Pairs with a missing side
// are skipped; relative deltas also skip a zero prior value.
func walk(slots []schema.Slot) mom {
	var m mom
	for i := 1; i < len(slots); i++ {
		prev, next := slots[i-1].Rate, slots[i].Rate
		if prev == nil || next == nil {
			continue
		}
		d := *next - *prev
		m.abs = append(m.abs, d)
		switch {
		case d < 0:
			m.declines++
		case d > 0:
			m.increase++
		}
		if *prev != 0 {
			m.rel = append(m.rel, d / *prev * 100)
		}
	}
	return m
}

// endpoints computes the change between the first and last window slots.
func endpoints(slots []schema.Slot) (abs, rel schema.Ratio) {
	if len(slots) == 0 {
		return schema.Undefined(), schema.Undefined()
	}
	first, last := slots[0].Rate, slots[len(slots)-1].Rate
	if first == nil || last == nil {
		return schema.Undefined(), schema.Undefined()
	}
	d := *last - *first
	return schema.Ratio(d), schema.RatioOf(d*100, *first)
}

// Classify derives the trend metrics of a row and its status under rules.
func Classify(row schema.TrendRow, rules []Rule) schema.StatusClassification {
	present := row.Present()
	w := walk(row.Slots)
	c := schema.StatusClassification{
		Entity:       row.Entity,
		NMonths:      len(present),
		DeclineCount: w.declines,
		AvgMoMAbs:    stats.Mean(w.abs),
		AvgMoMRel:    stats.Mean(w.rel),
		Since:        SinceAdoption(row.Slots),
	}
	c.DeltaAbsEndpoints, c.DeltaRelEndpoints = endpoints(row.Slots)

	facts := Facts{Present: present, NMonths: c.NMonths, Pairs: len(w.abs), AvgMoMAbs: c.AvgMoMAbs}
	if rule, ok := Evaluate(facts, rules); ok {
		c.Status = rule.Outcome
		c.Rule = rule.Name
	} else {
		c.Status = schema.StatusStagnant
	}

	c.ConsecutivelyStagnant = isStagnant(present)
	c.Severity = Severity(c)
	return c
}

// ClassifyAll classifies every row in order.
func ClassifyAll(rows []schema.TrendRow, rules []Rule) []schema.TrendResult {
	out := make([]schema.TrendResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, schema.TrendResult{TrendRow: row, Classification: Classify(row, rules)})
	}
	return out
}

// SinceAdoption repeats the pair walk from the first slot with a positive
// rate. The adoption itself counts as one increase.
func SinceAdoption(slots []schema.Slot) schema.SinceAdoption {
	since := schema.SinceAdoption{IncreaseCount: 1}
	start := -1
	for i, s := range slots {
		if s.Rate != nil && *s.Rate > 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return since
	}
	first := slots[start].Month
	since.FirstMonth = &first

	w := walk(slots[start:])
	since.DeclineCount = w.declines
	since.IncreaseCount += w.increase
	since.Declining = since.DeclineCount > since.IncreaseCount
	return since
}

// isStagnant reports two or more observed months that are all zero.
func isStagnant(present []float64) bool {
	if len(present) < 2 {
		return false
	}
	for _, v := range present {
		if v != 0 {
			return false
		}
	}
	return true
}

// Severity labels Stagnant/Declining rows by their decline count.
func Severity(c schema.StatusClassification) string {
	if c.Status == schema.StatusStagnant {
		return fmt.Sprintf("Decline %d mo", c.DeclineCount)
	}
	return string(c.Status)
}
