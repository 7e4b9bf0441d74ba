package agg

import (
	"slices"

	"github.com/huangsam/uptake/core/stats"
	"github.com/huangsam/uptake/schema"
)

// Describe summarizes the distribution of vals for one task type.
func Describe(task string, vals []float64) schema.AccuracyDistribution {
	sorted := slices.Clone(vals)
	slices.Sort(sorted)
	return schema.AccuracyDistribution{
		TaskType: task,
		Count:    len(sorted),
		Mean:     stats.Mean(sorted),
		Std:      stats.StdDev(sorted),
		Min:      stats.Quantile(sorted, 0),
		P25:      stats.Quantile(sorted, 0.25),
		P50:      stats.Quantile(sorted, 0.5),
		P75:      stats.Quantile(sorted, 0.75),
		Max:      stats.Quantile(sorted, 1),
	}
}
