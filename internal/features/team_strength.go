package features

import (
	"context"
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/prop-edge/internal/repository"
)

const (
	// DefaultTeamShotsAvg is the league-typical per-match shot volume used
	// when a team has no recorded history.
	DefaultTeamShotsAvg = 12.0

	teamStrengthWindow = 5
)

// TeamStrength summarises a team's recent shot volume on both sides of the
// ball, averaged over its last matches.
type TeamStrength struct {
	ShotsAvg         float64
	ConcededShotsAvg float64
}

// TeamStrengthCache computes team strength on demand and memoises it for the
// lifetime of one pipeline run. A fresh cache must be created per run so that
// strengths reflect the data as of that run; entries never expire within it.
type TeamStrengthCache struct {
	stats repository.PlayerGameStatRepository
	cache *gocache.Cache
}

// NewTeamStrengthCache creates a run-scoped strength cache.
func NewTeamStrengthCache(stats repository.PlayerGameStatRepository) *TeamStrengthCache {
	return &TeamStrengthCache{
		stats: stats,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get returns the team's strength, computing and caching it on first request.
// Teams with no history get league-typical defaults rather than zeros so that
// downstream ratios stay sane.
func (c *TeamStrengthCache) Get(ctx context.Context, team string) (TeamStrength, error) {
	if cached, ok := c.cache.Get(team); ok {
		return cached.(TeamStrength), nil
	}

	strength := TeamStrength{
		ShotsAvg:         DefaultTeamShotsAvg,
		ConcededShotsAvg: DefaultTeamShotsAvg,
	}

	taken, err := c.stats.TeamShotTotals(ctx, team, teamStrengthWindow)
	if err != nil {
		return TeamStrength{}, fmt.Errorf("failed to load shot totals for %s: %w", team, err)
	}
	if len(taken) > 0 {
		strength.ShotsAvg = mean(taken)
	}

	conceded, err := c.stats.ConcededShotTotals(ctx, team, teamStrengthWindow)
	if err != nil {
		return TeamStrength{}, fmt.Errorf("failed to load conceded shot totals for %s: %w", team, err)
	}
	if len(conceded) > 0 {
		strength.ConcededShotsAvg = mean(conceded)
	}

	c.cache.Set(team, strength, gocache.NoExpiration)
	return strength, nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
