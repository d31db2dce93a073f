// Package service runs the prediction pipeline: it scores open markets with
// the ensemble, measures the model's edge over the bookmaker, and persists
// picks that clear the decision thresholds.
package service

import (
	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/models"
	"github.com/yourusername/prop-edge/internal/odds"
)

// Eligibility is judged over a player's last N rows: a prop pick requires a
// player who is actually getting on the pitch, not one nursing a bench role.
const (
	eligibilityWindow = 10
	minGamesPlayed    = 5
	minAvgMinutes     = 45.0
)

// Candidate is a recommendation that cleared its edge threshold, ready to be
// persisted as a pick.
type Candidate struct {
	Recommendation models.Recommendation
	ModelProb      float64
	BookmakerProb  float64
	EdgePercent    float64
}

// DecisionEngine applies the pick thresholds to model outputs.
type DecisionEngine struct {
	thresholds config.ThresholdConfig
}

// NewDecisionEngine creates a decision engine with the configured thresholds.
func NewDecisionEngine(thresholds config.ThresholdConfig) *DecisionEngine {
	return &DecisionEngine{thresholds: thresholds}
}

// Eligible reports whether a player's recent involvement justifies a prop
// pick: at least minGamesPlayed appearances in the last eligibilityWindow
// rows, and average minutes above minAvgMinutes across that window. History
// is expected oldest first; the trailing rows are the most recent.
func (e *DecisionEngine) Eligible(history []*models.PlayerGameStat) bool {
	if len(history) > eligibilityWindow {
		history = history[len(history)-eligibilityWindow:]
	}
	if len(history) == 0 {
		return false
	}

	played := 0
	totalMinutes := 0
	for _, row := range history {
		if row.MinutesPlayed > 0 {
			played++
		}
		totalMinutes += row.MinutesPlayed
	}

	avgMinutes := float64(totalMinutes) / float64(len(history))
	return played >= minGamesPlayed && avgMinutes > minAvgMinutes
}

// EvaluateProp decides whether a prop quote yields a pick. The over side is
// checked first; the under side is only considered when the over price is
// long enough that an inferred or quoted under quote is meaningful, and it
// must clear a much higher bar since under edges inherit the inference error.
func (e *DecisionEngine) EvaluateProp(overProb float64, line *models.PropLine) (Candidate, bool) {
	implied, edge := odds.CalculateEdge(overProb, line.OverOdds())
	if edge >= e.thresholds.MinEdgeOverProp {
		return Candidate{
			Recommendation: models.RecommendOver,
			ModelProb:      overProb,
			BookmakerProb:  implied,
			EdgePercent:    edge,
		}, true
	}

	if line.OverOdds() < e.thresholds.UnderEvalMinOverOdds {
		return Candidate{}, false
	}

	underOdds := line.UnderOdds()
	if !line.HasUnderQuote() {
		inferred, ok := odds.InferUnderOdds(line.OverOdds(), e.thresholds.UnderInferenceVig)
		if !ok {
			return Candidate{}, false
		}
		underOdds = inferred
	}

	underProb := 1 - overProb
	implied, edge = odds.CalculateEdge(underProb, underOdds)
	if edge >= e.thresholds.MinEdgeUnderProp {
		return Candidate{
			Recommendation: models.RecommendUnder,
			ModelProb:      underProb,
			BookmakerProb:  implied,
			EdgePercent:    edge,
		}, true
	}

	return Candidate{}, false
}

// EvaluateOverUnder decides whether the total-goals market yields a pick,
// checking both sides and keeping the stronger qualifying edge.
func (e *DecisionEngine) EvaluateOverUnder(overProb float64, match *models.Match) (Candidate, bool) {
	over := e.matchSide(models.RecommendOver, overProb, match.OddsOver25)
	under := e.matchSide(models.RecommendUnder, 1-overProb, match.OddsUnder25)
	return betterSide(over, under)
}

// EvaluateBTTS decides whether the both-teams-to-score market yields a pick.
func (e *DecisionEngine) EvaluateBTTS(yesProb float64, match *models.Match) (Candidate, bool) {
	yes := e.matchSide(models.RecommendYes, yesProb, match.OddsBTTSYes)
	no := e.matchSide(models.RecommendNo, 1-yesProb, match.OddsBTTSNo)
	return betterSide(yes, no)
}

// Confidence maps an edge to its tier using the configured boundary.
func (e *DecisionEngine) Confidence(edgePercent float64) string {
	if edgePercent > e.thresholds.HighConfidenceEdge {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}

func (e *DecisionEngine) matchSide(rec models.Recommendation, prob float64, price *float64) *Candidate {
	if price == nil {
		return nil
	}
	implied, edge := odds.CalculateEdge(prob, *price)
	if edge < e.thresholds.MinEdgeMatch {
		return nil
	}
	return &Candidate{
		Recommendation: rec,
		ModelProb:      prob,
		BookmakerProb:  implied,
		EdgePercent:    edge,
	}
}

func betterSide(a, b *Candidate) (Candidate, bool) {
	switch {
	case a != nil && (b == nil || a.EdgePercent >= b.EdgePercent):
		return *a, true
	case b != nil:
		return *b, true
	default:
		return Candidate{}, false
	}
}
