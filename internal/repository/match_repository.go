package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/prop-edge/internal/database"
	"github.com/yourusername/prop-edge/internal/models"
)

const matchColumns = `
	id, fixture_id, league_id, home_team, away_team, kickoff, status,
	home_score, away_score, home_shots, away_shots, home_shots_on_target,
	away_shots_on_target, home_corners, away_corners, home_fouls, away_fouls,
	home_cards, away_cards, odds_home, odds_draw, odds_away, odds_over_2_5,
	odds_under_2_5, odds_btts_yes, odds_btts_no, created_at, updated_at
`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

func scanMatch(row pgx.Row) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.FixtureID, &m.LeagueID, &m.HomeTeam, &m.AwayTeam, &m.Kickoff, &m.Status,
		&m.HomeScore, &m.AwayScore, &m.HomeShots, &m.AwayShots, &m.HomeShotsOnTarget,
		&m.AwayShotsOnTarget, &m.HomeCorners, &m.AwayCorners, &m.HomeFouls, &m.AwayFouls,
		&m.HomeCards, &m.AwayCards, &m.OddsHome, &m.OddsDraw, &m.OddsAway, &m.OddsOver25,
		&m.OddsUnder25, &m.OddsBTTSYes, &m.OddsBTTSNo, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func collectMatches(rows pgx.Rows) ([]*models.Match, error) {
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// GetByID retrieves a match by ID
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m, err := scanMatch(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return m, nil
}

// ListUpcoming retrieves all not-started matches ordered by kickoff
func (r *PostgresMatchRepository) ListUpcoming(ctx context.Context) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE status = $1
		ORDER BY kickoff ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, models.MatchStatusNotStarted)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming matches: %w", err)
	}

	return collectMatches(rows)
}

// ListPlayedByTeam retrieves a team's most recent completed matches
func (r *PostgresMatchRepository) ListPlayedByTeam(ctx context.Context, team string, limit int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE (home_team = $1 OR away_team = $1)
		  AND home_score IS NOT NULL AND away_score IS NOT NULL
		ORDER BY kickoff DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, team, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for team: %w", err)
	}

	return collectMatches(rows)
}

// ListHeadToHead retrieves completed meetings between two teams before a date
func (r *PostgresMatchRepository) ListHeadToHead(ctx context.Context, teamA, teamB string, before time.Time, limit int) ([]*models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE ((home_team = $1 AND away_team = $2) OR (home_team = $2 AND away_team = $1))
		  AND home_score IS NOT NULL AND away_score IS NOT NULL
		  AND kickoff < $3
		ORDER BY kickoff DESC
		LIMIT $4
	`

	rows, err := r.db.GetPool().Query(ctx, query, teamA, teamB, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query head-to-head matches: %w", err)
	}

	return collectMatches(rows)
}

// Create inserts a new match
func (r *PostgresMatchRepository) Create(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches (
			id, fixture_id, league_id, home_team, away_team, kickoff, status,
			home_score, away_score, home_shots, away_shots, home_shots_on_target,
			away_shots_on_target, home_corners, away_corners, home_fouls, away_fouls,
			home_cards, away_cards, odds_home, odds_draw, odds_away, odds_over_2_5,
			odds_under_2_5, odds_btts_yes, odds_btts_no, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, NOW(), NOW())
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		m.ID, m.FixtureID, m.LeagueID, m.HomeTeam, m.AwayTeam, m.Kickoff, m.Status,
		m.HomeScore, m.AwayScore, m.HomeShots, m.AwayShots, m.HomeShotsOnTarget,
		m.AwayShotsOnTarget, m.HomeCorners, m.AwayCorners, m.HomeFouls, m.AwayFouls,
		m.HomeCards, m.AwayCards, m.OddsHome, m.OddsDraw, m.OddsAway, m.OddsOver25,
		m.OddsUnder25, m.OddsBTTSYes, m.OddsBTTSNo,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}
