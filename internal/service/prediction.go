package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-edge/internal/config"
	"github.com/yourusername/prop-edge/internal/ensemble"
	"github.com/yourusername/prop-edge/internal/features"
	"github.com/yourusername/prop-edge/internal/logger"
	"github.com/yourusername/prop-edge/internal/metrics"
	"github.com/yourusername/prop-edge/internal/models"
	"github.com/yourusername/prop-edge/internal/repository"
)

const (
	playerHistoryLimit = 30
	teamHistoryLimit   = 38
	headToHeadLimit    = 10
)

// RunReport summarises one prediction run.
type RunReport struct {
	RunID       uuid.UUID
	PropLines   int
	Matches     int
	PicksStored int
	Skipped     int
	Failed      int
	Duration    time.Duration
}

// PredictionService orchestrates a full scoring pass over open markets. Items
// are scored sequentially; a failure in one item is logged and counted, never
// propagated to the rest of the run.
type PredictionService struct {
	repos    *repository.Repositories
	registry *ensemble.Registry
	cfg      *config.Config
	engine   *DecisionEngine
	metrics  *metrics.PipelineMetrics
	logger   *logrus.Logger
	plog     *logger.PipelineLogger
	enabled  map[models.MarketKey]bool
}

// NewPredictionService wires the prediction pipeline. The configured market
// list has already been validated, so unknown keys cannot reach scoring.
func NewPredictionService(
	repos *repository.Repositories,
	registry *ensemble.Registry,
	cfg *config.Config,
	pm *metrics.PipelineMetrics,
	log *logrus.Logger,
) *PredictionService {
	enabled := make(map[models.MarketKey]bool, len(cfg.Pipeline.Markets))
	for _, raw := range cfg.Pipeline.Markets {
		if key, err := models.ParseMarketKey(raw); err == nil {
			enabled[key] = true
		}
	}

	return &PredictionService{
		repos:    repos,
		registry: registry,
		cfg:      cfg,
		engine:   NewDecisionEngine(cfg.Pipeline.Thresholds),
		metrics:  pm,
		logger:   log,
		plog:     logger.NewPipelineLogger(log),
		enabled:  enabled,
	}
}

// runContext carries the per-run state. The strength cache and assembler are
// created fresh for every run so no stale team data leaks across runs.
type runContext struct {
	runID     uuid.UUID
	assembler *features.Assembler
	report    *RunReport
}

// Run executes one full scoring pass and returns its report. An empty board
// (no open lines, no upcoming matches) is a normal outcome, not an error.
func (s *PredictionService) Run(ctx context.Context) (*RunReport, error) {
	started := time.Now()

	lines, err := s.repos.PropLine.ListOpen(ctx)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to list open prop lines: %w", err)
	}
	matches, err := s.repos.Match.ListUpcoming(ctx)
	if err != nil {
		s.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to list upcoming matches: %w", err)
	}

	rc := &runContext{
		runID:     uuid.New(),
		assembler: features.NewAssembler(features.NewTeamStrengthCache(s.repos.PlayerGameStat)),
		report:    &RunReport{PropLines: len(lines), Matches: len(matches)},
	}
	rc.report.RunID = rc.runID

	s.plog.LogRunStarted(rc.runID, len(lines), len(matches))
	s.metrics.OpenPropLines.Set(float64(len(lines)))
	s.metrics.UpcomingMatches.Set(float64(len(matches)))

	if len(lines) == 0 && len(matches) == 0 {
		s.logger.WithField("run_id", rc.runID).Info("Nothing to score")
	}

	for _, line := range lines {
		s.scoreItem(ctx, rc, fmt.Sprintf("line:%s", line.ID), line.Market.String(), func() error {
			return s.scorePropLine(ctx, rc, line)
		})
	}
	for _, match := range matches {
		s.scoreItem(ctx, rc, fmt.Sprintf("match:%s", match.ID), "match_markets", func() error {
			return s.scoreMatch(ctx, rc, match)
		})
	}

	rc.report.Duration = time.Since(started)
	s.plog.LogRunCompleted(rc.runID, rc.report.PicksStored, rc.report.Skipped, rc.report.Failed,
		float64(rc.report.Duration.Milliseconds()))
	s.metrics.RunsTotal.WithLabelValues("success").Inc()
	s.metrics.RunDuration.Observe(rc.report.Duration.Seconds())

	return rc.report, nil
}

// scoreItem runs one scoring unit with failure isolation. A panic inside a
// model artifact or a malformed row must not take the run down.
func (s *PredictionService) scoreItem(ctx context.Context, rc *runContext, subject, market string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			rc.report.Failed++
			s.metrics.ItemsFailed.Inc()
			s.plog.LogItemFailed(rc.runID, subject, market, fmt.Sprintf("panic: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		rc.report.Failed++
		s.metrics.ItemsFailed.Inc()
		s.plog.LogItemFailed(rc.runID, subject, market, err.Error())
		return
	}

	if err := fn(); err != nil {
		rc.report.Failed++
		s.metrics.ItemsFailed.Inc()
		s.plog.LogItemFailed(rc.runID, subject, market, err.Error())
	}
}

func (s *PredictionService) scorePropLine(ctx context.Context, rc *runContext, line *models.PropLine) error {
	key, err := models.ParseMarketKey(string(line.Market))
	if err != nil {
		return fmt.Errorf("prop line %s: %w", line.ID, err)
	}
	if !key.IsPlayerProp() || !s.enabled[key] {
		s.skip(rc, "market_disabled")
		return nil
	}
	if !line.PlayerID.Valid {
		return fmt.Errorf("prop line %s has no player", line.ID)
	}

	match, err := s.repos.Match.GetByID(ctx, line.MatchID)
	if err != nil {
		return fmt.Errorf("failed to load match for line %s: %w", line.ID, err)
	}
	player, err := s.repos.Player.GetByID(ctx, line.PlayerID.UUID)
	if err != nil {
		return fmt.Errorf("failed to load player for line %s: %w", line.ID, err)
	}

	history, err := s.repos.PlayerGameStat.ListByPlayer(ctx, player.ID, playerHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load history for %s: %w", player.Name, err)
	}
	past := features.Before(history, match.Kickoff)

	if !s.engine.Eligible(past) {
		s.skip(rc, "ineligible_player")
		return nil
	}

	model, err := s.registry.Load(key)
	if err != nil {
		return err
	}
	s.metrics.ModelLoadsTotal.WithLabelValues(key.String()).Inc()

	fv, err := rc.assembler.AssemblePropFeatures(ctx, player, past, match)
	if err != nil {
		return err
	}
	expected, err := model.ExpectedValue(fv)
	if err != nil {
		return err
	}
	overProb := ensemble.OverProbability(expected, line.Line)

	candidate, ok := s.engine.EvaluateProp(overProb, line)
	if !ok {
		s.skip(rc, "below_threshold")
		return nil
	}

	lineValue := line.Line
	pick := &models.Pick{
		ID:             uuid.New(),
		PlayerID:       line.PlayerID,
		MatchID:        match.ID,
		PredictionType: models.PredictionTypePlayerProp,
		Market:         key,
		Line:           &lineValue,
		Recommendation: candidate.Recommendation,
		ModelExpected:  expected,
		ModelProb:      candidate.ModelProb,
		BookmakerProb:  candidate.BookmakerProb,
		EdgePercent:    candidate.EdgePercent,
		Confidence:     s.engine.Confidence(candidate.EdgePercent),
	}
	return s.storePick(ctx, rc, pick, player.Name)
}

func (s *PredictionService) scoreMatch(ctx context.Context, rc *runContext, match *models.Match) error {
	if !match.HasMarketOdds() {
		s.skip(rc, "no_match_odds")
		return nil
	}

	homeHistory, err := s.repos.Match.ListPlayedByTeam(ctx, match.HomeTeam, teamHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load %s history: %w", match.HomeTeam, err)
	}
	awayHistory, err := s.repos.Match.ListPlayedByTeam(ctx, match.AwayTeam, teamHistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to load %s history: %w", match.AwayTeam, err)
	}
	h2h, err := s.repos.Match.ListHeadToHead(ctx, match.HomeTeam, match.AwayTeam, match.Kickoff, headToHeadLimit)
	if err != nil {
		return fmt.Errorf("failed to load head-to-head: %w", err)
	}

	mc := features.MatchContext{
		Match:       match,
		HomeHistory: homeHistory,
		AwayHistory: awayHistory,
		H2H:         h2h,
	}

	subject := fmt.Sprintf("%s vs %s", match.HomeTeam, match.AwayTeam)

	if s.enabled[models.MarketOverUnder25] && (match.OddsOver25 != nil || match.OddsUnder25 != nil) {
		if err := s.scoreOverUnder(ctx, rc, mc, subject); err != nil {
			return err
		}
	}
	if s.enabled[models.MarketBTTS] && (match.OddsBTTSYes != nil || match.OddsBTTSNo != nil) {
		if err := s.scoreBTTS(ctx, rc, mc, subject); err != nil {
			return err
		}
	}
	return nil
}

func (s *PredictionService) scoreOverUnder(ctx context.Context, rc *runContext, mc features.MatchContext, subject string) error {
	model, err := s.registry.Load(models.MarketOverUnder25)
	if err != nil {
		return err
	}

	fv := rc.assembler.AssembleOverUnderFeatures(mc)
	overProb, err := model.OverUnderProbability(fv)
	if err != nil {
		return err
	}

	candidate, ok := s.engine.EvaluateOverUnder(overProb, mc.Match)
	if !ok {
		s.skip(rc, "below_threshold")
		return nil
	}

	expectedGoals, err := model.ExpectedTotalGoals(fv)
	if err != nil {
		return err
	}

	line := 2.5
	pick := &models.Pick{
		ID:             uuid.New(),
		MatchID:        mc.Match.ID,
		PredictionType: models.PredictionTypeMatch,
		Market:         models.MarketOverUnder25,
		Line:           &line,
		ModelExpected:  expectedGoals,
		Recommendation: candidate.Recommendation,
		ModelProb:      candidate.ModelProb,
		BookmakerProb:  candidate.BookmakerProb,
		EdgePercent:    candidate.EdgePercent,
		Confidence:     s.engine.Confidence(candidate.EdgePercent),
	}
	return s.storePick(ctx, rc, pick, subject)
}

func (s *PredictionService) scoreBTTS(ctx context.Context, rc *runContext, mc features.MatchContext, subject string) error {
	model, err := s.registry.Load(models.MarketBTTS)
	if err != nil {
		return err
	}

	fv := rc.assembler.AssembleBTTSFeatures(mc)
	yesProb, err := model.BTTSProbability(fv)
	if err != nil {
		return err
	}

	candidate, ok := s.engine.EvaluateBTTS(yesProb, mc.Match)
	if !ok {
		s.skip(rc, "below_threshold")
		return nil
	}

	expectedHome, expectedAway, err := model.ExpectedGoalsBySide(fv)
	if err != nil {
		return err
	}

	pick := &models.Pick{
		ID:             uuid.New(),
		MatchID:        mc.Match.ID,
		PredictionType: models.PredictionTypeMatch,
		Market:         models.MarketBTTS,
		ModelExpected:  expectedHome + expectedAway,
		Recommendation: candidate.Recommendation,
		ModelProb:      candidate.ModelProb,
		BookmakerProb:  candidate.BookmakerProb,
		EdgePercent:    candidate.EdgePercent,
		Confidence:     s.engine.Confidence(candidate.EdgePercent),
	}
	return s.storePick(ctx, rc, pick, subject)
}

func (s *PredictionService) storePick(ctx context.Context, rc *runContext, pick *models.Pick, subject string) error {
	if err := s.repos.Pick.Upsert(ctx, pick); err != nil {
		return fmt.Errorf("failed to store pick for %s: %w", subject, err)
	}

	rc.report.PicksStored++
	s.metrics.PicksStored.WithLabelValues(pick.Market.String()).Inc()

	line := 0.0
	if pick.Line != nil {
		line = *pick.Line
	}
	s.plog.LogPickStored(rc.runID, subject, pick.Market.String(), line,
		string(pick.Recommendation), pick.EdgePercent)
	return nil
}

func (s *PredictionService) skip(rc *runContext, reason string) {
	rc.report.Skipped++
	s.metrics.ItemsSkipped.WithLabelValues(reason).Inc()
}
