// Package odds converts decimal prices into implied probabilities and model
// edges.
package odds

import "math"

// CalculateEdge returns the bookmaker's implied probability for a decimal
// price and the model's edge over it in percentage points:
// edge = (model - implied) * 100. Unusable inputs (odds at or below 1.0, NaN,
// probability outside [0,1]) soft-fail to (0, 0) so one bad quote never
// aborts a run; a zero edge clears no threshold.
func CalculateEdge(modelProb, decimalOdds float64) (implied, edgePercent float64) {
	if math.IsNaN(decimalOdds) || math.IsInf(decimalOdds, 0) || decimalOdds <= 1.0 {
		return 0, 0
	}
	if math.IsNaN(modelProb) || modelProb < 0 || modelProb > 1 {
		return 0, 0
	}

	implied = 1 / decimalOdds
	edgePercent = (modelProb - implied) * 100
	return implied, edgePercent
}

// InferUnderOdds estimates the under price from the over price when the book
// quotes only one side, assuming a total market overround of vig. The implied
// under probability is vig - 1/over; the estimate is only usable when that
// lands strictly inside (0, 1).
func InferUnderOdds(overOdds, vig float64) (float64, bool) {
	if math.IsNaN(overOdds) || overOdds <= 1.0 || vig <= 0 {
		return 0, false
	}

	impliedUnder := vig - 1/overOdds
	if impliedUnder <= 0 || impliedUnder >= 1 {
		return 0, false
	}
	return 1 / impliedUnder, true
}
