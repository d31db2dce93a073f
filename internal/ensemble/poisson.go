// Package ensemble blends a gradient-boosted tree model with a Poisson
// regression into one prediction per market, degrading gracefully when either
// member's artifact is missing.
package ensemble

import "math"

// PoissonPMF returns P(X = k) for X ~ Poisson(lambda). Computed in log space
// so large lambda and k do not overflow the factorial.
func PoissonPMF(k int, lambda float64) float64 {
	if k < 0 || lambda < 0 {
		return 0
	}
	if lambda == 0 {
		if k == 0 {
			return 1
		}
		return 0
	}

	logP := float64(k)*math.Log(lambda) - lambda - logFactorial(k)
	return math.Exp(logP)
}

// PoissonCDF returns P(X <= k) for X ~ Poisson(lambda).
func PoissonCDF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += PoissonPMF(i, lambda)
	}
	return math.Min(sum, 1)
}

// OverProbability returns P(X > line) for X ~ Poisson(lambda). Half-point
// lines quantise naturally: P(X > 2.5) = 1 - P(X <= 2). For integer lines a
// push (X exactly on the line) counts toward the under, so over and under
// probabilities always sum to one.
func OverProbability(lambda, line float64) float64 {
	return 1 - PoissonCDF(int(math.Floor(line)), lambda)
}

// UnderProbability returns P(X <= line), the complement of OverProbability.
func UnderProbability(lambda, line float64) float64 {
	return PoissonCDF(int(math.Floor(line)), lambda)
}

func logFactorial(k int) float64 {
	lg, _ := math.Lgamma(float64(k) + 1)
	return lg
}
