package ensemble

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-edge/internal/features"
	"github.com/yourusername/prop-edge/internal/logger"
	"github.com/yourusername/prop-edge/internal/models"
)

func testRegistry(t *testing.T, dir string) *Registry {
	t.Helper()
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.PanicLevel)
	return NewRegistry(dir, logger.NewPipelineLogger(log))
}

func writePoisson(t *testing.T, dir, key, body string) {
	t.Helper()
	path := filepath.Join(dir, "poisson_"+key+".json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func propVector(values map[string]float64) features.FeatureVector {
	fv := features.FeatureVector{
		Columns: features.PropFeatureColumns,
		Values:  make([]float64, len(features.PropFeatureColumns)),
	}
	for i, c := range fv.Columns {
		fv.Values[i] = values[c]
	}
	return fv
}

func TestRegistryCompositionNoneWhenNoArtifacts(t *testing.T) {
	registry := testRegistry(t, t.TempDir())

	model, err := registry.Load(models.MarketShots)
	require.NoError(t, err)
	assert.Equal(t, CompositionNone, model.Composition())

	// Second load is served from the cache, same instance.
	again, err := registry.Load(models.MarketShots)
	require.NoError(t, err)
	assert.Same(t, model, again)
}

func TestFallbackExpectedValue(t *testing.T) {
	registry := testRegistry(t, t.TempDir())
	model, err := registry.Load(models.MarketShots)
	require.NoError(t, err)

	ema := features.EMA([]float64{1, 3, 2, 4, 2}, 5) // 190/81
	fv := propVector(map[string]float64{
		"shots_ema_5":            ema,
		"is_home":                1,
		"opp_conceded_shots_avg": 15,
	})

	expected, err := model.ExpectedValue(fv)
	require.NoError(t, err)
	// base * 1.05 home boost * (15/12) defensive leakiness
	assert.InDelta(t, 190.0/81.0*1.05*1.25, expected, 1e-9)
	assert.InDelta(t, 3.078704, expected, 1e-6)
}

func TestFallbackExpectedValueAwayNeutralOpponent(t *testing.T) {
	registry := testRegistry(t, t.TempDir())
	model, err := registry.Load(models.MarketAssists)
	require.NoError(t, err)

	fv := propVector(map[string]float64{
		"assists_last_5":         0.8,
		"is_home":                0,
		"opp_conceded_shots_avg": 12,
	})

	expected, err := model.ExpectedValue(fv)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, expected, 1e-9)
}

func TestFallbackWithoutBasisErrors(t *testing.T) {
	registry := testRegistry(t, t.TempDir())
	model, err := registry.Load(models.MarketPasses)
	require.NoError(t, err)

	_, err = model.ExpectedValue(propVector(nil))
	assert.Error(t, err)
}

func TestPoissonOnlyExpectedValue(t *testing.T) {
	dir := t.TempDir()
	// ln(2.4) intercept with zero coefficients predicts 2.4 everywhere.
	writePoisson(t, dir, "shots", `{
		"columns": ["shots_ema_5", "is_home"],
		"coefficients": [0, 0],
		"intercept": 0.8754687373538999
	}`)

	registry := testRegistry(t, dir)
	model, err := registry.Load(models.MarketShots)
	require.NoError(t, err)
	assert.Equal(t, CompositionPoissonOnly, model.Composition())

	expected, err := model.ExpectedValue(propVector(map[string]float64{"shots_ema_5": 3}))
	require.NoError(t, err)
	assert.InDelta(t, 2.4, expected, 1e-6)
}

func TestPoissonArtifactScaler(t *testing.T) {
	artifact := &PoissonArtifact{
		Columns:      []string{"x"},
		Coefficients: []float64{1},
		Intercept:    0,
		ScalerMean:   []float64{10},
		ScalerScale:  []float64{2},
	}
	// x=14 scales to 2, predict exp(2)
	got, err := artifact.Predict([]float64{14})
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(2), got, 1e-12)
}

func TestLoadPoissonArtifactShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	writePoisson(t, dir, "goals", `{
		"columns": ["a", "b"],
		"coefficients": [0.1],
		"intercept": 0
	}`)

	registry := testRegistry(t, dir)
	_, err := registry.Load(models.MarketGoals)
	assert.Error(t, err)
}

func TestOverUnderProbabilityWithoutMembers(t *testing.T) {
	registry := testRegistry(t, t.TempDir())
	model, err := registry.Load(models.MarketOverUnder25)
	require.NoError(t, err)

	p, err := model.OverUnderProbability(features.FeatureVector{
		Columns: features.OverUnderFeatureColumns,
		Values:  make([]float64, len(features.OverUnderFeatureColumns)),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, p)
}

func TestBTTSProbabilityPoissonPair(t *testing.T) {
	dir := t.TempDir()
	// Home lambda 1.5, away lambda 1.2, via intercept-only regressions.
	writePoisson(t, dir, "home_goals", `{
		"columns": [],
		"coefficients": [],
		"intercept": 0.4054651081081644
	}`)
	writePoisson(t, dir, "away_goals", `{
		"columns": [],
		"coefficients": [],
		"intercept": 0.1823215567939546
	}`)

	registry := testRegistry(t, dir)
	model, err := registry.Load(models.MarketBTTS)
	require.NoError(t, err)
	assert.Equal(t, CompositionPoissonOnly, model.Composition())

	fv := features.FeatureVector{
		Columns: features.BTTSFeatureColumns,
		Values:  make([]float64, len(features.BTTSFeatureColumns)),
	}
	p, err := model.BTTSProbability(fv)
	require.NoError(t, err)

	want := (1 - math.Exp(-1.5)) * (1 - math.Exp(-1.2))
	assert.InDelta(t, want, p, 1e-6)

	home, away, err := model.ExpectedGoalsBySide(fv)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, home, 1e-6)
	assert.InDelta(t, 1.2, away, 1e-6)
}

func TestExpectedTotalGoals(t *testing.T) {
	dir := t.TempDir()
	// ln(2.4) intercept with no coefficients predicts 2.4 everywhere.
	writePoisson(t, dir, "over_under_2.5", `{
		"columns": [],
		"coefficients": [],
		"intercept": 0.8754687373538999
	}`)

	registry := testRegistry(t, dir)
	model, err := registry.Load(models.MarketOverUnder25)
	require.NoError(t, err)

	fv := features.FeatureVector{
		Columns: features.OverUnderFeatureColumns,
		Values:  make([]float64, len(features.OverUnderFeatureColumns)),
	}
	got, err := model.ExpectedTotalGoals(fv)
	require.NoError(t, err)
	assert.InDelta(t, 2.4, got, 1e-6)
}

func TestExpectedTotalGoalsWithoutPoisson(t *testing.T) {
	registry := testRegistry(t, t.TempDir())
	model, err := registry.Load(models.MarketOverUnder25)
	require.NoError(t, err)

	got, err := model.ExpectedTotalGoals(features.FeatureVector{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestBTTSPoissonRequiresBothSides(t *testing.T) {
	dir := t.TempDir()
	writePoisson(t, dir, "home_goals", `{
		"columns": [],
		"coefficients": [],
		"intercept": 0.4
	}`)

	registry := testRegistry(t, dir)
	model, err := registry.Load(models.MarketBTTS)
	require.NoError(t, err)
	assert.Equal(t, CompositionNone, model.Composition())
}
