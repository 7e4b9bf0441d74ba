package algo

import "github.com/huangsam/uptake/schema"

// Facts are the trend metrics a status rule looks at.
type Facts struct {
	Present   []float64
	NMonths   int
	Pairs     int // consecutive calendar pairs with both sides present
	AvgMoMAbs schema.Ratio
}

// Rule maps a predicate over Facts to a status. Rules are evaluated in order
// and the first one that applies decides.
type Rule struct {
	Name    string
	Applies func(Facts) bool
	Outcome schema.AdoptionStatus
}

var (
	notEnoughData = Rule{
		Name:    "not-enough-data",
		Applies: func(f Facts) bool { return f.NMonths < 2 },
		Outcome: schema.StatusNotEnoughData,
	}
	fullAdopter = Rule{
		Name: "full-adopter",
		Applies: func(f Facts) bool {
			for _, v := range f.Present {
				if v != 100 {
					return false
				}
			}
			return len(f.Present) > 0
		},
		Outcome: schema.StatusFullAdopter,
	}
	undecided = Rule{
		Name:    "indeterminate",
		Applies: func(f Facts) bool { return f.Pairs == 0 },
		Outcome: schema.StatusIndeterminate,
	}
	growing = Rule{
		Name:    "growing",
		Applies: func(f Facts) bool { return !f.AvgMoMAbs.IsUndefined() && f.AvgMoMAbs > 0 },
		Outcome: schema.StatusGrowing,
	}
	noComparablePairs = Rule{
		Name:    "no-comparable-pairs",
		Applies: func(f Facts) bool { return f.Pairs == 0 },
		Outcome: schema.StatusStagnant,
	}
	stagnant = Rule{
		Name:    "stagnant-or-declining",
		Applies: func(Facts) bool { return true },
		Outcome: schema.StatusStagnant,
	}
)

// DefaultRules returns the standard rule order. With two or more months but
// no comparable pair, the entity lands on Stagnant/Declining through the
// no-comparable-pairs rule.
func DefaultRules() []Rule {
	return []Rule{notEnoughData, fullAdopter, growing, noComparablePairs, stagnant}
}

// RulesWith returns DefaultRules, or the order that reports Indeterminate for
// entities without a comparable pair when indeterminate is set.
func RulesWith(indeterminate bool) []Rule {
	if !indeterminate {
		return DefaultRules()
	}
	return []Rule{notEnoughData, fullAdopter, undecided, growing, stagnant}
}

// Evaluate returns the first rule that applies. The final rule of every
// standard order always applies.
func Evaluate(f Facts, rules []Rule) (Rule, bool) {
	for _, r := range rules {
		if r.Applies(f) {
			return r, true
		}
	}
	return Rule{}, false
}
