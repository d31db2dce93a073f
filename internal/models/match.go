package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus represents the lifecycle state of a fixture
type MatchStatus string

const (
	MatchStatusNotStarted MatchStatus = "NS"
	MatchStatusFinished   MatchStatus = "FT"
	MatchStatusPostponed  MatchStatus = "PST"
)

// Match represents a fixture with final stats and bookmaker odds. Scores,
// per-side counters and odds are nullable until a provider supplies them.
type Match struct {
	ID        uuid.UUID   `db:"id" json:"id" validate:"required,uuid4"`
	FixtureID int64       `db:"fixture_id" json:"fixture_id"` // Provider identifier
	LeagueID  int64       `db:"league_id" json:"league_id"`
	HomeTeam  string      `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string      `db:"away_team" json:"away_team" validate:"required"`
	Kickoff   time.Time   `db:"kickoff" json:"kickoff" validate:"required"`
	Status    MatchStatus `db:"status" json:"status" validate:"required"`

	HomeScore *int `db:"home_score" json:"home_score"`
	AwayScore *int `db:"away_score" json:"away_score"`

	HomeShots         *int `db:"home_shots" json:"home_shots"`
	AwayShots         *int `db:"away_shots" json:"away_shots"`
	HomeShotsOnTarget *int `db:"home_shots_on_target" json:"home_shots_on_target"`
	AwayShotsOnTarget *int `db:"away_shots_on_target" json:"away_shots_on_target"`
	HomeCorners       *int `db:"home_corners" json:"home_corners"`
	AwayCorners       *int `db:"away_corners" json:"away_corners"`
	HomeFouls         *int `db:"home_fouls" json:"home_fouls"`
	AwayFouls         *int `db:"away_fouls" json:"away_fouls"`
	HomeCards         *int `db:"home_cards" json:"home_cards"`
	AwayCards         *int `db:"away_cards" json:"away_cards"`

	OddsHome *float64 `db:"odds_home" json:"odds_home"`
	OddsDraw *float64 `db:"odds_draw" json:"odds_draw"`
	OddsAway *float64 `db:"odds_away" json:"odds_away"`

	OddsOver25  *float64 `db:"odds_over_2_5" json:"odds_over_2_5"`
	OddsUnder25 *float64 `db:"odds_under_2_5" json:"odds_under_2_5"`
	OddsBTTSYes *float64 `db:"odds_btts_yes" json:"odds_btts_yes"`
	OddsBTTSNo  *float64 `db:"odds_btts_no" json:"odds_btts_no"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Played reports whether a final score has been recorded.
func (m *Match) Played() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// TotalGoals returns the final goal count, or 0 if the match has not been played.
func (m *Match) TotalGoals() int {
	if !m.Played() {
		return 0
	}
	return *m.HomeScore + *m.AwayScore
}

// BothTeamsScored reports whether both sides found the net.
func (m *Match) BothTeamsScored() bool {
	return m.Played() && *m.HomeScore > 0 && *m.AwayScore > 0
}

// GoalsFor returns the goals scored by the named team in this match.
func (m *Match) GoalsFor(team string) int {
	if !m.Played() {
		return 0
	}
	if m.HomeTeam == team {
		return *m.HomeScore
	}
	return *m.AwayScore
}

// GoalsAgainst returns the goals conceded by the named team in this match.
func (m *Match) GoalsAgainst(team string) int {
	if !m.Played() {
		return 0
	}
	if m.HomeTeam == team {
		return *m.AwayScore
	}
	return *m.HomeScore
}

// HasMarketOdds reports whether at least one scorable match market is priced.
func (m *Match) HasMarketOdds() bool {
	return m.OddsOver25 != nil || m.OddsBTTSYes != nil
}

// Involves reports whether the named team plays in this match.
func (m *Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}
