package ensemble

import "github.com/yourusername/prop-edge/internal/models"

// Composition records which ensemble members are actually loaded for a
// market. It is computed once at artifact load and drives both weight
// selection and the fallback path; nothing downstream re-checks file
// presence.
type Composition int

const (
	CompositionNone Composition = iota
	CompositionTreeOnly
	CompositionPoissonOnly
	CompositionBoth
)

func (c Composition) String() string {
	switch c {
	case CompositionTreeOnly:
		return "tree_only"
	case CompositionPoissonOnly:
		return "poisson_only"
	case CompositionBoth:
		return "both"
	default:
		return "none"
	}
}

// Weights holds the blend weights applied to each member's output.
type Weights struct {
	Tree    float64
	Poisson float64
}

// BlendWeights returns the member weights for a market given which members
// loaded. High-count stats lean on the tree model, low-count stats lean on
// the Poisson; a lone member always gets full weight.
func BlendWeights(key models.MarketKey, comp Composition) Weights {
	switch comp {
	case CompositionTreeOnly:
		return Weights{Tree: 1}
	case CompositionPoissonOnly:
		return Weights{Poisson: 1}
	case CompositionBoth:
	default:
		return Weights{}
	}

	if key == models.MarketOverUnder25 {
		return Weights{Tree: 0.6, Poisson: 0.4}
	}
	if key == models.MarketBTTS {
		return Weights{Tree: 0.5, Poisson: 0.5}
	}

	switch key.Category() {
	case models.CategoryFrequent:
		return Weights{Tree: 0.7, Poisson: 0.3}
	case models.CategoryRare:
		return Weights{Tree: 0.3, Poisson: 0.7}
	default:
		return Weights{Tree: 0.5, Poisson: 0.5}
	}
}
