package ensemble

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoissonPMF(t *testing.T) {
	// P(X=0) = e^-lambda
	assert.InDelta(t, math.Exp(-2.5), PoissonPMF(0, 2.5), 1e-12)
	// P(X=k) = lambda^k e^-lambda / k!
	assert.InDelta(t, math.Pow(2.5, 3)*math.Exp(-2.5)/6, PoissonPMF(3, 2.5), 1e-12)

	assert.Equal(t, 0.0, PoissonPMF(-1, 2.5))
	assert.Equal(t, 1.0, PoissonPMF(0, 0))
	assert.Equal(t, 0.0, PoissonPMF(2, 0))
}

func TestPoissonPMFLargeInputs(t *testing.T) {
	// Log-space evaluation must stay finite where the naive factorial overflows.
	p := PoissonPMF(200, 200)
	assert.False(t, math.IsNaN(p))
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1.0)
}

func TestPoissonCDFMonotonicInK(t *testing.T) {
	prev := -1.0
	for k := 0; k <= 15; k++ {
		c := PoissonCDF(k, 3.2)
		assert.GreaterOrEqual(t, c, prev)
		prev = c
	}
	assert.InDelta(t, 1.0, PoissonCDF(100, 3.2), 1e-9)
}

func TestOverProbabilityHalfPointLine(t *testing.T) {
	// P(X > 2.5) = 1 - P(X <= 2)
	lambda := 1.8
	expected := 1 - (PoissonPMF(0, lambda) + PoissonPMF(1, lambda) + PoissonPMF(2, lambda))
	assert.InDelta(t, expected, OverProbability(lambda, 2.5), 1e-12)
}

func TestOverUnderSumToOne(t *testing.T) {
	for _, line := range []float64{0.5, 1.5, 2.5, 2.0, 3.0, 4.5} {
		over := OverProbability(2.1, line)
		under := UnderProbability(2.1, line)
		assert.InDelta(t, 1.0, over+under, 1e-12, "line %.1f", line)
	}
}

func TestOverProbabilityIntegerLinePushCountsAsUnder(t *testing.T) {
	// On a whole-number line a result exactly on the line is not an over.
	lambda := 2.0
	overExclusive := 1 - PoissonCDF(2, lambda)
	assert.InDelta(t, overExclusive, OverProbability(lambda, 2.0), 1e-12)
	assert.Less(t, OverProbability(lambda, 2.0), OverProbability(lambda, 1.5))
}

func TestOverProbabilityDecreasesWithLine(t *testing.T) {
	prev := 1.1
	for _, line := range []float64{0.5, 1.5, 2.5, 3.5, 4.5} {
		p := OverProbability(2.4, line)
		assert.Less(t, p, prev)
		prev = p
	}
}

func TestOverProbabilityZeroLambda(t *testing.T) {
	assert.Equal(t, 0.0, OverProbability(0, 0.5))
	assert.Equal(t, 1.0, UnderProbability(0, 0.5))
}
