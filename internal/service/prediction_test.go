package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/ensemble"
	"github.com/yourusername/prop-edge/internal/logger"
	"github.com/yourusername/prop-edge/internal/metrics"
	"github.com/yourusername/prop-edge/internal/models"
	"github.com/yourusername/prop-edge/internal/repository"
)

// Prometheus collectors register globally, so the test binary shares one set.
var testMetrics = metrics.NewPipelineMetrics()

type fakePlayerRepo struct {
	players map[uuid.UUID]*models.Player
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func (f *fakePlayerRepo) Create(ctx context.Context, p *models.Player) error {
	f.players[p.ID] = p
	return nil
}

type fakeMatchRepo struct {
	matches map[uuid.UUID]*models.Match
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return m, nil
}

func (f *fakeMatchRepo) ListUpcoming(ctx context.Context) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.Status == models.MatchStatusNotStarted {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) ListPlayedByTeam(ctx context.Context, team string, limit int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.Played() && m.Involves(team) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) ListHeadToHead(ctx context.Context, teamA, teamB string, before time.Time, limit int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.Played() && m.Involves(teamA) && m.Involves(teamB) && m.Kickoff.Before(before) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) Create(ctx context.Context, m *models.Match) error {
	f.matches[m.ID] = m
	return nil
}

type fakePropLineRepo struct {
	lines []*models.PropLine
}

func (f *fakePropLineRepo) ListOpen(ctx context.Context) ([]*models.PropLine, error) {
	return f.lines, nil
}

func (f *fakePropLineRepo) Create(ctx context.Context, l *models.PropLine) error {
	f.lines = append(f.lines, l)
	return nil
}

type fakeStatRepo struct {
	byPlayer map[uuid.UUID][]*models.PlayerGameStat
	taken    map[string][]float64
	conceded map[string][]float64
}

func (f *fakeStatRepo) ListByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.PlayerGameStat, error) {
	return f.byPlayer[playerID], nil
}

func (f *fakeStatRepo) TeamShotTotals(ctx context.Context, team string, lastN int) ([]float64, error) {
	return f.taken[team], nil
}

func (f *fakeStatRepo) ConcededShotTotals(ctx context.Context, team string, lastN int) ([]float64, error) {
	return f.conceded[team], nil
}

func (f *fakeStatRepo) Create(ctx context.Context, s *models.PlayerGameStat) error {
	f.byPlayer[s.PlayerID] = append(f.byPlayer[s.PlayerID], s)
	return nil
}

// fakePickRepo enforces the same uniqueness key as the Postgres upsert.
type fakePickRepo struct {
	picks map[string]*models.Pick
}

func pickKey(p *models.Pick) string {
	player := "none"
	if p.PlayerID.Valid {
		player = p.PlayerID.UUID.String()
	}
	line := "none"
	if p.Line != nil {
		line = fmt.Sprintf("%.2f", *p.Line)
	}
	return fmt.Sprintf("%s|%s|%s|%s", player, p.MatchID, p.Market, line)
}

func (f *fakePickRepo) Upsert(ctx context.Context, p *models.Pick) error {
	f.picks[pickKey(p)] = p
	return nil
}

func (f *fakePickRepo) ListForDay(ctx context.Context, day time.Time, market *models.MarketKey) ([]*models.Pick, error) {
	var out []*models.Pick
	for _, p := range f.picks {
		if market == nil || p.Market == *market {
			out = append(out, p)
		}
	}
	return out, nil
}

type fixture struct {
	repos *repository.Repositories
	picks *fakePickRepo
	stats *fakeStatRepo
	cfg   *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	picks := &fakePickRepo{picks: make(map[string]*models.Pick)}
	stats := &fakeStatRepo{
		byPlayer: make(map[uuid.UUID][]*models.PlayerGameStat),
		taken:    make(map[string][]float64),
		conceded: make(map[string][]float64),
	}
	return &fixture{
		repos: &repository.Repositories{
			Player:         &fakePlayerRepo{players: make(map[uuid.UUID]*models.Player)},
			Match:          &fakeMatchRepo{matches: make(map[uuid.UUID]*models.Match)},
			PropLine:       &fakePropLineRepo{},
			PlayerGameStat: stats,
			Pick:           picks,
		},
		picks: picks,
		stats: stats,
		cfg: &config.Config{
			App:    config.AppConfig{Name: "prop-edge-test", Environment: "development", LogLevel: "error"},
			Models: config.ModelsConfig{Dir: t.TempDir()},
			Pipeline: config.PipelineConfig{
				IntervalHours:     6,
				RunTimeoutMinutes: 5,
				Markets:           []string{"shots", "goals", "over_under_2.5", "btts"},
				Thresholds:        defaultThresholds(),
			},
		},
	}
}

func (f *fixture) service(t *testing.T) *PredictionService {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	registry := ensemble.NewRegistry(f.cfg.Models.Dir, logger.NewPipelineLogger(log))
	return NewPredictionService(f.repos, registry, f.cfg, testMetrics, log)
}

// seedEligibleProp adds a starter with strong recent shot volume and a short
// shots line. With no artifacts on disk the heuristic fallback drives the
// expected value well clear of a 0.5 line.
func (f *fixture) seedEligibleProp(t *testing.T, overOdds float64) (*models.Player, *models.Match) {
	t.Helper()
	ctx := context.Background()

	match := &models.Match{
		ID:       uuid.New(),
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Kickoff:  time.Now().UTC().Add(24 * time.Hour),
		Status:   models.MatchStatusNotStarted,
	}
	require.NoError(t, f.repos.Match.Create(ctx, match))

	player := &models.Player{ID: uuid.New(), ExternalID: 7, Name: "Test Striker", Team: "Arsenal", Position: "F"}
	require.NoError(t, f.repos.Player.Create(ctx, player))

	for i := 0; i < 10; i++ {
		require.NoError(t, f.stats.Create(ctx, &models.PlayerGameStat{
			ID:            uuid.New(),
			PlayerID:      player.ID,
			MatchDate:     time.Now().UTC().AddDate(0, 0, -(i + 1)),
			Opponent:      "Chelsea",
			MinutesPlayed: 90,
			Shots:         3,
			Rating:        7.0,
		}))
	}

	require.NoError(t, f.repos.PropLine.Create(ctx, &models.PropLine{
		ID:        uuid.New(),
		MatchID:   match.ID,
		PlayerID:  uuid.NullUUID{UUID: player.ID, Valid: true},
		Market:    models.MarketShots,
		Line:      0.5,
		Bookmaker: "bet365",
		OverPrice: decimal.NewFromFloat(overOdds),
	}))
	return player, match
}

func TestRunStoresQualifyingPropPick(t *testing.T) {
	f := newFixture(t)
	player, match := f.seedEligibleProp(t, 1.50)

	report, err := f.service(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.PicksStored)
	assert.Equal(t, 0, report.Failed)

	picks, _ := f.picks.ListForDay(context.Background(), time.Now(), nil)
	require.Len(t, picks, 1)
	pick := picks[0]
	assert.Equal(t, models.RecommendOver, pick.Recommendation)
	assert.Equal(t, models.PredictionTypePlayerProp, pick.PredictionType)
	assert.Equal(t, player.ID, pick.PlayerID.UUID)
	assert.Equal(t, match.ID, pick.MatchID)
	assert.Equal(t, models.ConfidenceHigh, pick.Confidence)
	assert.Greater(t, pick.ModelExpected, 2.5)
}

func TestRunIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedEligibleProp(t, 1.50)
	svc := f.service(t)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.PicksStored)

	// Same key both runs: still exactly one stored pick.
	assert.Len(t, f.picks.picks, 1)
}

func TestRunSkipsIneligiblePlayer(t *testing.T) {
	f := newFixture(t)
	player, _ := f.seedEligibleProp(t, 1.50)

	// Rewrite the history as bench cameos.
	rows := f.stats.byPlayer[player.ID]
	for _, row := range rows {
		row.MinutesPlayed = 10
	}

	report, err := f.service(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.PicksStored)
	assert.GreaterOrEqual(t, report.Skipped, 1)
}

func TestRunSkipsDisabledMarket(t *testing.T) {
	f := newFixture(t)
	f.seedEligibleProp(t, 1.50)
	f.cfg.Pipeline.Markets = []string{"goals"}

	report, err := f.service(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.PicksStored)
}

func TestRunEmptyBoardIsNotAnError(t *testing.T) {
	f := newFixture(t)

	report, err := f.service(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.PropLines)
	assert.Equal(t, 0, report.Matches)
	assert.Equal(t, 0, report.PicksStored)
}

func TestRunIsolatesItemFailures(t *testing.T) {
	f := newFixture(t)
	f.seedEligibleProp(t, 1.50)

	// A line referencing a missing player must fail alone.
	require.NoError(t, f.repos.PropLine.Create(context.Background(), &models.PropLine{
		ID:        uuid.New(),
		MatchID:   uuid.New(),
		PlayerID:  uuid.NullUUID{UUID: uuid.New(), Valid: true},
		Market:    models.MarketShots,
		Line:      1.5,
		Bookmaker: "bet365",
		OverPrice: decimal.NewFromFloat(1.9),
	}))

	report, err := f.service(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.PicksStored)
}

func TestRunScoresMatchMarkets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	overOdds, underOdds := 2.6, 1.5
	match := &models.Match{
		ID:          uuid.New(),
		HomeTeam:    "Arsenal",
		AwayTeam:    "Chelsea",
		Kickoff:     time.Now().UTC().Add(24 * time.Hour),
		Status:      models.MatchStatusNotStarted,
		OddsOver25:  &overOdds,
		OddsUnder25: &underOdds,
	}
	require.NoError(t, f.repos.Match.Create(ctx, match))

	// With no artifacts the over/under model is a coin flip: 50% vs the
	// 38.5% the over price implies is an 11.5 point edge.
	report, err := f.service(t).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PicksStored)

	key := models.MarketOverUnder25
	picks, _ := f.picks.ListForDay(ctx, time.Now(), &key)
	require.Len(t, picks, 1)
	assert.Equal(t, models.RecommendOver, picks[0].Recommendation)
	assert.Equal(t, models.PredictionTypeMatch, picks[0].PredictionType)
	require.NotNil(t, picks[0].Line)
	assert.Equal(t, 2.5, *picks[0].Line)
}

func TestRunStoresExpectedGoalsOnMatchPick(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// An intercept-only goal-rate regression predicting 3.2 expected goals.
	artifact := []byte(`{"columns": [], "coefficients": [], "intercept": 1.1631508098056809}`)
	path := filepath.Join(f.cfg.Models.Dir, "poisson_over_under_2.5.json")
	require.NoError(t, os.WriteFile(path, artifact, 0o644))

	overOdds := 2.6
	match := &models.Match{
		ID:         uuid.New(),
		HomeTeam:   "Arsenal",
		AwayTeam:   "Chelsea",
		Kickoff:    time.Now().UTC().Add(24 * time.Hour),
		Status:     models.MatchStatusNotStarted,
		OddsOver25: &overOdds,
	}
	require.NoError(t, f.repos.Match.Create(ctx, match))

	report, err := f.service(t).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.PicksStored)

	key := models.MarketOverUnder25
	picks, _ := f.picks.ListForDay(ctx, time.Now(), &key)
	require.Len(t, picks, 1)
	assert.Equal(t, models.RecommendOver, picks[0].Recommendation)
	assert.InDelta(t, 3.2, picks[0].ModelExpected, 1e-6)
}
