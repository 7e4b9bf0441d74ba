// Package stats holds the descriptive statistics shared by aggregation and classification.
package stats

import (
	"math"

	"github.com/huangsam/uptake/schema"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or Undefined for no values.
func Mean(vals []float64) schema.Ratio {
	if len(vals) == 0 {
		return schema.Undefined()
	}
	return schema.Ratio(stat.Mean(vals, nil))
}

// StdDev returns the sample standard deviation. It needs two or more values.
func StdDev(vals []float64) schema.Ratio {
	if len(vals) < 2 {
		return schema.Undefined()
	}
	return schema.Ratio(stat.StdDev(vals, nil))
}

// Quantile interpolates linearly between the closest ranks of sorted at
// position (n-1)q, the estimator summary tables report quartiles with.
// gonum's stat.Quantile only offers the empirical and LinInterp CDF estimators.
func Quantile(sorted []float64, q float64) schema.Ratio {
	if len(sorted) == 0 {
		return schema.Undefined()
	}
	if q <= 0 {
		return schema.Ratio(sorted[0])
	}
	if q >= 1 {
		return schema.Ratio(sorted[len(sorted)-1])
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return schema.Ratio(sorted[lo])
	}
	w := pos - float64(lo)
	return schema.Ratio(sorted[lo]*(1-w) + sorted[hi]*w)
}
