package features

import (
	"context"
	"fmt"

	"github.com/yourusername/prop-edge/internal/models"
)

// Neutral fallbacks substituted when a source value is missing. The models
// were trained with the same substitutions, so a default is a valid input,
// not a poisoned one.
const (
	DefaultOddsHome = 2.5
	DefaultOddsDraw = 3.2
	DefaultOddsAway = 2.5

	DefaultRating  = 6.5
	DefaultMinutes = 60.0
)

// FeatureVector is an ordered set of named feature values. Column order is
// part of the model contract: artifacts were trained against these exact
// columns in this exact order, so the vector is assembled positionally and
// never reordered.
type FeatureVector struct {
	Columns []string
	Values  []float64
}

// Get returns the value of a named column.
func (v FeatureVector) Get(name string) (float64, bool) {
	for i, c := range v.Columns {
		if c == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// PropFeatureColumns is the input schema shared by all player prop models.
var PropFeatureColumns = []string{
	"shots_ema_5",
	"shots_last_5",
	"shots_on_target_ema_5",
	"shots_on_target_last_5",
	"goals_last_5",
	"assists_last_5",
	"is_striker",
	"minutes_last_5",
	"rating_last_5",
	"is_home",
	"team_shots_avg",
	"opp_conceded_shots_avg",
	"odds_home",
	"odds_draw",
	"odds_away",
}

// OverUnderFeatureColumns is the input schema of the total-goals model. The
// only odds it sees are the 1X2 prices; the over/under quote itself is the
// market being predicted and must not appear as an input.
var OverUnderFeatureColumns = []string{
	"home_goals_avg_last_5",
	"home_goals_avg_last_10",
	"home_goals_avg_season",
	"away_goals_avg_last_5",
	"away_goals_avg_last_10",
	"away_goals_avg_season",
	"home_conceded_avg_last_5",
	"home_conceded_avg_season",
	"away_conceded_avg_last_5",
	"away_conceded_avg_season",
	"h2h_total_goals_avg",
	"combined_offensive_strength",
	"combined_defensive_weakness",
	"home_offense_vs_away_defense",
	"away_offense_vs_home_defense",
	"implied_prob_home",
	"implied_prob_draw",
	"implied_prob_away",
}

// BTTSFeatureColumns is the input schema of the both-teams-to-score model.
var BTTSFeatureColumns = []string{
	"home_scoring_rate_season",
	"home_scoring_rate_last_5",
	"home_goals_avg_last_5",
	"home_goals_avg_season",
	"home_scoreless_rate",
	"home_conceding_rate_season",
	"home_conceding_rate_last_5",
	"home_clean_sheet_rate",
	"away_scoring_rate_season",
	"away_scoring_rate_last_5",
	"away_goals_avg_last_5",
	"away_goals_avg_season",
	"away_scoreless_rate",
	"away_conceding_rate_season",
	"away_conceding_rate_last_5",
	"away_clean_sheet_rate",
	"h2h_btts_rate",
	"combined_scoring_probability",
	"defensive_weakness_indicator",
	"home_scoring_vs_away_conceding",
	"away_scoring_vs_home_conceding",
}

// MatchContext bundles the history a match-market assembler needs. Histories
// may contain rows at or after the fixture's kickoff; the assembler filters
// them out itself.
type MatchContext struct {
	Match       *models.Match
	HomeHistory []*models.Match
	AwayHistory []*models.Match
	H2H         []*models.Match
}

// Assembler builds model input vectors from historical data.
type Assembler struct {
	strengths *TeamStrengthCache
}

// NewAssembler creates an assembler backed by a run-scoped strength cache.
func NewAssembler(strengths *TeamStrengthCache) *Assembler {
	return &Assembler{strengths: strengths}
}

// AssemblePropFeatures builds the player prop input vector for a player in an
// upcoming match. Only stat rows dated strictly before the fixture's kickoff
// contribute.
func (a *Assembler) AssemblePropFeatures(ctx context.Context, player *models.Player, history []*models.PlayerGameStat, match *models.Match) (FeatureVector, error) {
	past := Before(history, match.Kickoff)

	shots, err := Series(past, "shots")
	if err != nil {
		return FeatureVector{}, fmt.Errorf("failed to extract shots series: %w", err)
	}
	onTarget, err := Series(past, "shots_on_target")
	if err != nil {
		return FeatureVector{}, fmt.Errorf("failed to extract shots on target series: %w", err)
	}
	goals, _ := Series(past, "goals")
	assists, _ := Series(past, "assists")
	minutes, _ := Series(past, "minutes")
	ratings, _ := Series(past, "rating")

	minutesLast5 := DefaultMinutes
	ratingLast5 := DefaultRating
	if len(past) > 0 {
		minutesLast5 = RollingMean(minutes, 5)
		ratingLast5 = RollingMean(ratings, 5)
	}

	isHome := 0.0
	opponent := match.HomeTeam
	if player.Team == match.HomeTeam {
		isHome = 1.0
		opponent = match.AwayTeam
	}

	team, err := a.strengths.Get(ctx, player.Team)
	if err != nil {
		return FeatureVector{}, err
	}
	opp, err := a.strengths.Get(ctx, opponent)
	if err != nil {
		return FeatureVector{}, err
	}

	isStriker := 0.0
	if player.IsForward() {
		isStriker = 1.0
	}

	return FeatureVector{
		Columns: PropFeatureColumns,
		Values: []float64{
			EMA(shots, 5),
			RollingMean(shots, 5),
			EMA(onTarget, 5),
			RollingMean(onTarget, 5),
			RollingMean(goals, 5),
			RollingMean(assists, 5),
			isStriker,
			minutesLast5,
			ratingLast5,
			isHome,
			team.ShotsAvg,
			opp.ConcededShotsAvg,
			oddsOrDefault(match.OddsHome, DefaultOddsHome),
			oddsOrDefault(match.OddsDraw, DefaultOddsDraw),
			oddsOrDefault(match.OddsAway, DefaultOddsAway),
		},
	}, nil
}

// AssembleOverUnderFeatures builds the total-goals input vector.
func (a *Assembler) AssembleOverUnderFeatures(mc MatchContext) FeatureVector {
	m := mc.Match
	home := teamForm(mc.HomeHistory, m.HomeTeam, m)
	away := teamForm(mc.AwayHistory, m.AwayTeam, m)

	h2hGoals := HeadToHeadAverage(mc.H2H, m.HomeTeam, m.AwayTeam, m.Kickoff, 5,
		func(h *models.Match) float64 { return float64(h.TotalGoals()) })

	probHome, probDraw, probAway := impliedOneXTwo(m)

	return FeatureVector{
		Columns: OverUnderFeatureColumns,
		Values: []float64{
			home.goalsLast5,
			home.goalsLast10,
			home.goalsSeason,
			away.goalsLast5,
			away.goalsLast10,
			away.goalsSeason,
			home.concededLast5,
			home.concededSeason,
			away.concededLast5,
			away.concededSeason,
			h2hGoals,
			home.goalsSeason + away.goalsSeason,
			home.concededSeason + away.concededSeason,
			(home.goalsSeason + away.concededSeason) / 2,
			(away.goalsSeason + home.concededSeason) / 2,
			probHome,
			probDraw,
			probAway,
		},
	}
}

// AssembleBTTSFeatures builds the both-teams-to-score input vector.
func (a *Assembler) AssembleBTTSFeatures(mc MatchContext) FeatureVector {
	m := mc.Match
	home := teamForm(mc.HomeHistory, m.HomeTeam, m)
	away := teamForm(mc.AwayHistory, m.AwayTeam, m)

	h2hBTTS := HeadToHeadRate(mc.H2H, m.HomeTeam, m.AwayTeam, m.Kickoff, 5,
		func(h *models.Match) bool { return h.BothTeamsScored() })

	return FeatureVector{
		Columns: BTTSFeatureColumns,
		Values: []float64{
			home.scoringSeason,
			home.scoringLast5,
			home.goalsLast5,
			home.goalsSeason,
			1 - home.scoringSeason,
			home.concedingSeason,
			home.concedingLast5,
			1 - home.concedingSeason,
			away.scoringSeason,
			away.scoringLast5,
			away.goalsLast5,
			away.goalsSeason,
			1 - away.scoringSeason,
			away.concedingSeason,
			away.concedingLast5,
			1 - away.concedingSeason,
			h2hBTTS,
			home.scoringSeason * away.scoringSeason,
			home.concedingSeason * away.concedingSeason,
			home.scoringSeason * away.concedingSeason,
			away.scoringSeason * home.concedingSeason,
		},
	}
}

// teamForm aggregates one team's completed matches strictly before target's
// kickoff into the form statistics the match-market models consume.
type formStats struct {
	goalsLast5      float64
	goalsLast10     float64
	goalsSeason     float64
	concededLast5   float64
	concededSeason  float64
	scoringSeason   float64
	scoringLast5    float64
	concedingSeason float64
	concedingLast5  float64
}

func teamForm(history []*models.Match, team string, target *models.Match) formStats {
	past := playedBefore(history, team, target.Kickoff)

	scored := make([]float64, len(past))
	conceded := make([]float64, len(past))
	for i, m := range past {
		scored[i] = float64(m.GoalsFor(team))
		conceded[i] = float64(m.GoalsAgainst(team))
	}

	scoringSeason, scoringLast5 := BinaryRate(scored, func(g float64) bool { return g > 0 })
	concedingSeason, concedingLast5 := BinaryRate(conceded, func(g float64) bool { return g > 0 })

	return formStats{
		goalsLast5:      RollingMean(scored, 5),
		goalsLast10:     RollingMean(scored, 10),
		goalsSeason:     ExpandingMean(scored),
		concededLast5:   RollingMean(conceded, 5),
		concededSeason:  ExpandingMean(conceded),
		scoringSeason:   scoringSeason,
		scoringLast5:    scoringLast5,
		concedingSeason: concedingSeason,
		concedingLast5:  concedingLast5,
	}
}

// impliedOneXTwo converts 1X2 prices into normalised implied probabilities,
// substituting neutral defaults for unpriced outcomes.
func impliedOneXTwo(m *models.Match) (home, draw, away float64) {
	h := 1 / oddsOrDefault(m.OddsHome, DefaultOddsHome)
	d := 1 / oddsOrDefault(m.OddsDraw, DefaultOddsDraw)
	a := 1 / oddsOrDefault(m.OddsAway, DefaultOddsAway)
	total := h + d + a
	return h / total, d / total, a / total
}

func oddsOrDefault(odds *float64, def float64) float64 {
	if odds == nil || *odds <= 1 {
		return def
	}
	return *odds
}
