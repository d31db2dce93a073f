package ensemble

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/dmitryikh/leaves"
)

// Artifact filename conventions inside the model directory. Tree members are
// LightGBM text dumps; Poisson members are exported coefficient files.
func treeArtifactPath(dir, key string) string {
	return filepath.Join(dir, fmt.Sprintf("gbm_%s.txt", key))
}

func poissonArtifactPath(dir, key string) string {
	return filepath.Join(dir, fmt.Sprintf("poisson_%s.json", key))
}

// PoissonArtifact is an exported Poisson regression: a log-link linear model
// with optional feature standardisation. Columns must match the assembler's
// schema for the market; they are stored in the file so a mismatch fails at
// load, not silently at predict time.
type PoissonArtifact struct {
	Columns      []string  `json:"columns"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	ScalerMean   []float64 `json:"scaler_mean,omitempty"`
	ScalerScale  []float64 `json:"scaler_scale,omitempty"`
}

// LoadPoissonArtifact reads and validates an exported Poisson regression.
func LoadPoissonArtifact(path string) (*PoissonArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read poisson artifact %s: %w", path, err)
	}

	var artifact PoissonArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse poisson artifact %s: %w", path, err)
	}

	if len(artifact.Coefficients) != len(artifact.Columns) {
		return nil, fmt.Errorf("poisson artifact %s: %d coefficients for %d columns",
			path, len(artifact.Coefficients), len(artifact.Columns))
	}
	if len(artifact.ScalerMean) > 0 && len(artifact.ScalerMean) != len(artifact.Columns) {
		return nil, fmt.Errorf("poisson artifact %s: scaler shape mismatch", path)
	}
	if len(artifact.ScalerScale) != len(artifact.ScalerMean) {
		return nil, fmt.Errorf("poisson artifact %s: scaler mean/scale mismatch", path)
	}

	return &artifact, nil
}

// Predict returns the expected count exp(intercept + w·x) for a feature
// vector ordered per the artifact's columns.
func (p *PoissonArtifact) Predict(values []float64) (float64, error) {
	if len(values) != len(p.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(p.Coefficients), len(values))
	}

	linear := p.Intercept
	for i, v := range values {
		if len(p.ScalerMean) > 0 {
			scale := p.ScalerScale[i]
			if scale == 0 {
				scale = 1
			}
			v = (v - p.ScalerMean[i]) / scale
		}
		linear += p.Coefficients[i] * v
	}
	return math.Exp(linear), nil
}

// loadTreeArtifact reads a LightGBM text dump with its output transformation
// so classifiers return calibrated probabilities directly.
func loadTreeArtifact(path string) (*leaves.Ensemble, error) {
	model, err := leaves.LGEnsembleFromFile(path, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree artifact %s: %w", path, err)
	}
	return model, nil
}

func artifactExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
