// Package selection picks the questions for a practice test.
package selection

import (
	"math"

	"github.com/abhisek/quantprep/internal/catalog"
)

// Distribution maps each question type to its share of a test.
// Weights need not sum to 1.
type Distribution map[catalog.Type]float64

// DefaultDistribution is the GRE quantitative mix.
var DefaultDistribution = Distribution{
	catalog.TypeComparison:     0.40,
	catalog.TypeMultipleChoice: 0.30,
	catalog.TypeMultipleAnswer: 0.15,
	catalog.TypeNumeric:        0.15,
}

// TieBreakType absorbs rounding shortfall and gives up overflow first.
const TieBreakType = catalog.TypeMultipleChoice

// floorEpsilon keeps products like 0.15*20 from flooring to 2.
const floorEpsilon = 1e-9

// Targets computes how many questions of each type a test of count
// questions should contain. Each type gets floor(weight*count). Any
// shortfall goes to TieBreakType. When the weights sum above 1 the excess
// is taken from TieBreakType first and then from the remaining types in
// catalog.AllTypes order, never below zero. The result always sums to
// count when count > 0.
func Targets(count int, dist Distribution) map[catalog.Type]int {
	targets := make(map[catalog.Type]int, len(catalog.AllTypes()))
	for _, t := range catalog.AllTypes() {
		targets[t] = 0
	}
	if count <= 0 {
		return targets
	}

	sum := 0
	for _, t := range catalog.AllTypes() {
		w := dist[t]
		if math.IsNaN(w) || w <= 0 {
			continue
		}
		n := int(math.Floor(w*float64(count) + floorEpsilon))
		targets[t] = n
		sum += n
	}

	switch {
	case sum < count:
		targets[TieBreakType] += count - sum
	case sum > count:
		overflow := sum - count
		order := append([]catalog.Type{TieBreakType}, otherTypes()...)
		for _, t := range order {
			if overflow == 0 {
				break
			}
			take := min(targets[t], overflow)
			targets[t] -= take
			overflow -= take
		}
	}
	return targets
}

func otherTypes() []catalog.Type {
	var out []catalog.Type
	for _, t := range catalog.AllTypes() {
		if t != TieBreakType {
			out = append(out, t)
		}
	}
	return out
}
