package ensemble

import (
	"fmt"
	"math"

	"github.com/dmitryikh/leaves"
	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/prop-edge/internal/features"
	"github.com/yourusername/prop-edge/internal/logger"
	"github.com/yourusername/prop-edge/internal/models"
)

// Attack penalty applied to the league-typical shot volume in the heuristic
// fallback: a soft opponent inflates the baseline, a stingy one deflates it.
const fallbackHomeBoost = 1.05

// fallbackBasis names the recent-form column the heuristic fallback starts
// from when no artifact is available for a market. Markets without a basis
// cannot be scored modelless.
var fallbackBasis = map[models.MarketKey]string{
	models.MarketShots:         "shots_ema_5",
	models.MarketShotsOnTarget: "shots_on_target_ema_5",
	models.MarketGoals:         "goals_last_5",
	models.MarketAssists:       "assists_last_5",
}

// Model is the loaded ensemble for one market. Its composition is fixed at
// load time; every prediction path checks the composition, never the disk.
type Model struct {
	Key     models.MarketKey
	comp    Composition
	weights Weights

	tree    *leaves.Ensemble
	poisson *PoissonArtifact

	// BTTS blends two goal-rate regressions, one per side.
	poissonHome *PoissonArtifact
	poissonAway *PoissonArtifact
}

// Composition reports which members loaded.
func (m *Model) Composition() Composition {
	return m.comp
}

// ExpectedValue predicts the expected count for a player prop market,
// blending the loaded members. With no members it falls back to a recent-form
// heuristic: the form baseline, boosted for home advantage and scaled by how
// leaky the opponent's defence is relative to league-typical volume. Negative
// blends clamp to zero.
func (m *Model) ExpectedValue(fv features.FeatureVector) (float64, error) {
	if m.comp == CompositionNone {
		return m.fallbackExpectedValue(fv)
	}

	value := 0.0
	weight := 0.0

	if m.tree != nil {
		value += m.weights.Tree * m.tree.PredictSingle(fv.Values, 0)
		weight += m.weights.Tree
	}
	if m.poisson != nil {
		inputs, err := artifactInputs(m.poisson, fv)
		if err != nil {
			return 0, err
		}
		predicted, err := m.poisson.Predict(inputs)
		if err != nil {
			return 0, err
		}
		value += m.weights.Poisson * predicted
		weight += m.weights.Poisson
	}

	if weight == 0 {
		return m.fallbackExpectedValue(fv)
	}
	return math.Max(0, value/weight), nil
}

func (m *Model) fallbackExpectedValue(fv features.FeatureVector) (float64, error) {
	column, ok := fallbackBasis[m.Key]
	if !ok {
		return 0, fmt.Errorf("no model loaded for market %s and no fallback basis", m.Key)
	}
	base, ok := fv.Get(column)
	if !ok {
		return 0, fmt.Errorf("feature %s missing for fallback", column)
	}

	expected := base
	if isHome, _ := fv.Get("is_home"); isHome == 1 {
		expected *= fallbackHomeBoost
	}
	if conceded, ok := fv.Get("opp_conceded_shots_avg"); ok && conceded > 0 {
		expected *= conceded / features.DefaultTeamShotsAvg
	}
	return math.Max(0, expected), nil
}

// OverUnderProbability predicts P(total goals > 2.5). The tree member is a
// classifier emitting the over probability directly; the Poisson member
// regresses expected total goals and converts to an over probability through
// the count distribution. With no members the market is a coin flip.
func (m *Model) OverUnderProbability(fv features.FeatureVector) (float64, error) {
	prob := 0.0
	weight := 0.0

	if m.tree != nil {
		prob += m.weights.Tree * m.tree.PredictSingle(fv.Values, 0)
		weight += m.weights.Tree
	}
	if m.poisson != nil {
		inputs, err := artifactInputs(m.poisson, fv)
		if err != nil {
			return 0, err
		}
		lambda, err := m.poisson.Predict(inputs)
		if err != nil {
			return 0, err
		}
		prob += m.weights.Poisson * OverProbability(lambda, 2.5)
		weight += m.weights.Poisson
	}

	if weight == 0 {
		return 0.5, nil
	}
	return clampProbability(prob / weight), nil
}

// ExpectedTotalGoals returns the Poisson member's expected total goals for an
// over/under model, or 0 when no Poisson member is loaded. The tree member is
// a classifier and carries no count estimate.
func (m *Model) ExpectedTotalGoals(fv features.FeatureVector) (float64, error) {
	if m.poisson == nil {
		return 0, nil
	}
	inputs, err := artifactInputs(m.poisson, fv)
	if err != nil {
		return 0, err
	}
	return m.poisson.Predict(inputs)
}

// ExpectedGoalsBySide returns the per-side goal rates from a BTTS model's
// Poisson pair, or zeros when the pair is not loaded.
func (m *Model) ExpectedGoalsBySide(fv features.FeatureVector) (home, away float64, err error) {
	if m.poissonHome == nil || m.poissonAway == nil {
		return 0, 0, nil
	}

	homeInputs, err := artifactInputs(m.poissonHome, fv)
	if err != nil {
		return 0, 0, err
	}
	awayInputs, err := artifactInputs(m.poissonAway, fv)
	if err != nil {
		return 0, 0, err
	}
	home, err = m.poissonHome.Predict(homeInputs)
	if err != nil {
		return 0, 0, err
	}
	away, err = m.poissonAway.Predict(awayInputs)
	if err != nil {
		return 0, 0, err
	}
	return home, away, nil
}

// BTTSProbability predicts P(both teams score). The Poisson member models
// each side's goals independently: P(btts) = P(home >= 1) * P(away >= 1).
func (m *Model) BTTSProbability(fv features.FeatureVector) (float64, error) {
	prob := 0.0
	weight := 0.0

	if m.tree != nil {
		prob += m.weights.Tree * m.tree.PredictSingle(fv.Values, 0)
		weight += m.weights.Tree
	}
	if m.poissonHome != nil && m.poissonAway != nil {
		homeInputs, err := artifactInputs(m.poissonHome, fv)
		if err != nil {
			return 0, err
		}
		awayInputs, err := artifactInputs(m.poissonAway, fv)
		if err != nil {
			return 0, err
		}
		lambdaHome, err := m.poissonHome.Predict(homeInputs)
		if err != nil {
			return 0, err
		}
		lambdaAway, err := m.poissonAway.Predict(awayInputs)
		if err != nil {
			return 0, err
		}
		both := (1 - PoissonPMF(0, lambdaHome)) * (1 - PoissonPMF(0, lambdaAway))
		prob += m.weights.Poisson * both
		weight += m.weights.Poisson
	}

	if weight == 0 {
		return 0.5, nil
	}
	return clampProbability(prob / weight), nil
}

// artifactInputs orders feature values per the artifact's trained columns.
func artifactInputs(a *PoissonArtifact, fv features.FeatureVector) ([]float64, error) {
	inputs := make([]float64, len(a.Columns))
	for i, column := range a.Columns {
		v, ok := fv.Get(column)
		if !ok {
			return nil, fmt.Errorf("feature %s required by artifact is missing", column)
		}
		inputs[i] = v
	}
	return inputs, nil
}

func clampProbability(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}

// Registry lazily loads and caches one ensemble per market. Artifacts are
// read from disk at most once per process; a missing artifact is a degraded
// composition, never an error.
type Registry struct {
	dir   string
	cache *gocache.Cache
	plog  *logger.PipelineLogger
}

// NewRegistry creates a registry over a model artifact directory.
func NewRegistry(dir string, plog *logger.PipelineLogger) *Registry {
	return &Registry{
		dir:   dir,
		cache: gocache.New(gocache.NoExpiration, 0),
		plog:  plog,
	}
}

// Load returns the ensemble for a market, loading artifacts on first use.
func (r *Registry) Load(key models.MarketKey) (*Model, error) {
	if cached, ok := r.cache.Get(key.String()); ok {
		return cached.(*Model), nil
	}

	model := &Model{Key: key}

	treePath := treeArtifactPath(r.dir, key.String())
	if artifactExists(treePath) {
		tree, err := loadTreeArtifact(treePath)
		if err != nil {
			return nil, err
		}
		model.tree = tree
	}

	if key == models.MarketBTTS {
		if err := r.loadBTTSPoisson(model); err != nil {
			return nil, err
		}
	} else {
		poissonPath := poissonArtifactPath(r.dir, key.String())
		if artifactExists(poissonPath) {
			poisson, err := LoadPoissonArtifact(poissonPath)
			if err != nil {
				return nil, err
			}
			model.poisson = poisson
		}
	}

	model.comp = composition(model)
	model.weights = BlendWeights(key, model.comp)

	r.plog.LogModelLoaded(key.String(), model.comp.String())
	r.cache.Set(key.String(), model, gocache.NoExpiration)
	return model, nil
}

// loadBTTSPoisson loads the per-side goal regressions. Both must be present
// for the Poisson member to participate; one without the other is ignored.
func (r *Registry) loadBTTSPoisson(model *Model) error {
	homePath := poissonArtifactPath(r.dir, "home_goals")
	awayPath := poissonArtifactPath(r.dir, "away_goals")
	if !artifactExists(homePath) || !artifactExists(awayPath) {
		return nil
	}

	home, err := LoadPoissonArtifact(homePath)
	if err != nil {
		return err
	}
	away, err := LoadPoissonArtifact(awayPath)
	if err != nil {
		return err
	}
	model.poissonHome = home
	model.poissonAway = away
	return nil
}

func composition(m *Model) Composition {
	hasPoisson := m.poisson != nil || (m.poissonHome != nil && m.poissonAway != nil)
	switch {
	case m.tree != nil && hasPoisson:
		return CompositionBoth
	case m.tree != nil:
		return CompositionTreeOnly
	case hasPoisson:
		return CompositionPoissonOnly
	default:
		return CompositionNone
	}
}
