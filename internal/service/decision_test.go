package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/models"
)

func defaultThresholds() config.ThresholdConfig {
	return config.ThresholdConfig{
		MinEdgeOverProp:      1.0,
		MinEdgeUnderProp:     10.0,
		MinEdgeMatch:         8.0,
		HighConfidenceEdge:   15.0,
		UnderEvalMinOverOdds: 1.2,
		UnderInferenceVig:    1.07,
	}
}

func historyRows(minutes ...int) []*models.PlayerGameStat {
	rows := make([]*models.PlayerGameStat, len(minutes))
	for i, m := range minutes {
		rows[i] = &models.PlayerGameStat{ID: uuid.New(), MinutesPlayed: m}
	}
	return rows
}

func TestEligible(t *testing.T) {
	engine := NewDecisionEngine(defaultThresholds())

	t.Run("regular starter qualifies", func(t *testing.T) {
		assert.True(t, engine.Eligible(historyRows(90, 90, 85, 90, 72, 90, 90, 88, 90, 90)))
	})

	t.Run("no history", func(t *testing.T) {
		assert.False(t, engine.Eligible(nil))
	})

	t.Run("too few appearances", func(t *testing.T) {
		// Four appearances in the window, even at full minutes.
		assert.False(t, engine.Eligible(historyRows(0, 0, 0, 0, 0, 0, 90, 90, 90, 90)))
	})

	t.Run("enough appearances but low minutes", func(t *testing.T) {
		// Seven cameos off the bench average well under the floor.
		assert.False(t, engine.Eligible(historyRows(0, 0, 0, 15, 20, 10, 15, 20, 15, 10)))
	})

	t.Run("only the trailing window counts", func(t *testing.T) {
		// Early-season starts outside the window can't rescue a benched player.
		rows := historyRows(90, 90, 90, 90, 90, 0, 0, 0, 0, 0, 0, 0, 0, 0, 5)
		assert.False(t, engine.Eligible(rows))
	})
}

func propLine(line float64, overOdds float64, underOdds float64) *models.PropLine {
	pl := &models.PropLine{
		ID:        uuid.New(),
		MatchID:   uuid.New(),
		PlayerID:  uuid.NullUUID{UUID: uuid.New(), Valid: true},
		Market:    models.MarketShots,
		Line:      line,
		Bookmaker: "bet365",
		OverPrice: decimal.NewFromFloat(overOdds),
	}
	if underOdds > 0 {
		pl.UnderPrice = decimal.NewFromFloat(underOdds)
	}
	return pl
}

func TestEvaluatePropOver(t *testing.T) {
	engine := NewDecisionEngine(defaultThresholds())

	// Model 60% vs implied 50%: +10 points clears the over threshold.
	candidate, ok := engine.EvaluateProp(0.60, propLine(2.5, 2.0, 0))
	require.True(t, ok)
	assert.Equal(t, models.RecommendOver, candidate.Recommendation)
	assert.InDelta(t, 10.0, candidate.EdgePercent, 1e-9)
	assert.InDelta(t, 0.5, candidate.BookmakerProb, 1e-9)
}

func TestEvaluatePropBelowThreshold(t *testing.T) {
	engine := NewDecisionEngine(defaultThresholds())

	// Model barely above implied on the over, under edge tiny too.
	_, ok := engine.EvaluateProp(0.505, propLine(2.5, 2.0, 2.0))
	assert.False(t, ok)
}

func TestEvaluatePropUnderGatedByShortOverPrice(t *testing.T) {
	engine := NewDecisionEngine(defaultThresholds())

	// A huge under edge, but the over is too short for the under to be
	// trustworthy.
	_, ok := engine.EvaluateProp(0.05, propLine(1.5, 1.15, 5.0))
	assert.False(t, ok)
}

func TestEvaluatePropUnderWithQuotedPrice(t *testing.T) {
	engine := NewDecisionEngine(defaultThresholds())

	// Under model prob 0.70 vs quoted under at 2.0 (implied 0.50): +20.
	candidate, ok := engine.EvaluateProp(0.30, propLine(2.5, 3.0, 2.0))
	require.True(t, ok)
	assert.Equal(t, models.RecommendUnder, candidate.Recommendation)
	assert.InDelta(t, 0.70, candidate.ModelProb, 1e-9)
	assert.InDelta(t, 20.0, candidate.EdgePercent, 1e-9)
}

func TestEvaluatePropUnderWithInferredPrice(t *testing.T) {
	engine := NewDecisionEngine(defaultThresholds())

	// No under quote: inferred from the over price under a 7% overround.
	// Over 2.50 -> implied under 1.07 - 0.4 = 0.67.
	candidate, ok := engine.EvaluateProp(0.20, propLine(2.5, 2.5, 0))
	require.True(t, ok)
	assert.Equal(t, models.RecommendUnder, candidate.Recommendation)
	assert.InDelta(t, 0.67, candidate.BookmakerProb, 1e-9)
	assert.InDelta(t, (0.80-0.67)*100, candidate.EdgePercent, 1e-9)
}

func matchWithOdds(over, under, yes, no float64) *models.Match {
	m := &models.Match{ID: uuid.New(), HomeTeam: "Arsenal", AwayTeam: "Chelsea"}
	if over > 0 {
		m.OddsOver25 = &over
	}
	if under > 0 {
		m.OddsUnder25 = &under
	}
	if yes > 0 {
		m.OddsBTTSYes = &yes
	}
	if no > 0 {
		m.OddsBTTSNo = &no
	}
	return m
}

func TestEvaluateOverUnder(t *testing.T) {
	engine := NewDecisionEngine(defaultThresholds())

	t.Run("over side qualifies", func(t *testing.T) {
		candidate, ok := engine.EvaluateOverUnder(0.60, matchWithOdds(2.0, 1.9, 0, 0))
		require.True(t, ok)
		assert.Equal(t, models.RecommendOver, candidate.Recommendation)
		assert.InDelta(t, 10.0, candidate.EdgePercent, 1e-9)
	})

	t.Run("under side wins when stronger", func(t *testing.T) {
		candidate, ok := engine.EvaluateOverUnder(0.35, matchWithOdds(2.0, 2.0, 0, 0))
		require.True(t, ok)
		assert.Equal(t, models.RecommendUnder, candidate.Recommendation)
		assert.InDelta(t, 15.0, candidate.EdgePercent, 1e-9)
	})

	t.Run("edge below match threshold", func(t *testing.T) {
		_, ok := engine.EvaluateOverUnder(0.55, matchWithOdds(2.0, 1.9, 0, 0))
		assert.False(t, ok)
	})

	t.Run("unpriced side is skipped", func(t *testing.T) {
		_, ok := engine.EvaluateOverUnder(0.10, matchWithOdds(2.0, 0, 0, 0))
		assert.False(t, ok)
	})
}

func TestEvaluateBTTS(t *testing.T) {
	engine := NewDecisionEngine(defaultThresholds())

	candidate, ok := engine.EvaluateBTTS(0.62, matchWithOdds(0, 0, 1.95, 1.85))
	require.True(t, ok)
	assert.Equal(t, models.RecommendYes, candidate.Recommendation)

	candidate, ok = engine.EvaluateBTTS(0.30, matchWithOdds(0, 0, 1.95, 2.0))
	require.True(t, ok)
	assert.Equal(t, models.RecommendNo, candidate.Recommendation)
	assert.InDelta(t, 20.0, candidate.EdgePercent, 1e-9)
}

func TestConfidenceBoundary(t *testing.T) {
	engine := NewDecisionEngine(defaultThresholds())

	assert.Equal(t, models.ConfidenceMedium, engine.Confidence(10.0))
	assert.Equal(t, models.ConfidenceMedium, engine.Confidence(15.0))
	assert.Equal(t, models.ConfidenceHigh, engine.Confidence(15.01))
}
