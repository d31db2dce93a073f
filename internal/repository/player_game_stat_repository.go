package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/prop-edge/internal/database"
	"github.com/yourusername/prop-edge/internal/models"
)

// PostgresPlayerGameStatRepository implements PlayerGameStatRepository for PostgreSQL
type PostgresPlayerGameStatRepository struct {
	db *database.DB
}

// NewPostgresPlayerGameStatRepository creates a new player game stat repository
func NewPostgresPlayerGameStatRepository(db *database.DB) PlayerGameStatRepository {
	return &PostgresPlayerGameStatRepository{db: db}
}

// ListByPlayer retrieves a player's most recent rows, newest first
func (r *PostgresPlayerGameStatRepository) ListByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.PlayerGameStat, error) {
	query := `
		SELECT id, player_id, match_date, opponent, minutes_played, shots,
		       shots_on_target, goals, assists, passes, tackles, cards, rating
		FROM player_game_stats
		WHERE player_id = $1
		ORDER BY match_date DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query player game stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.PlayerGameStat
	for rows.Next() {
		s := &models.PlayerGameStat{}
		err := rows.Scan(
			&s.ID, &s.PlayerID, &s.MatchDate, &s.Opponent, &s.MinutesPlayed, &s.Shots,
			&s.ShotsOnTarget, &s.Goals, &s.Assists, &s.Passes, &s.Tackles, &s.Cards, &s.Rating,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player game stat: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// TeamShotTotals returns per-match shot totals for a team's last n match dates.
// Player rows are summed per date so the figure reflects the whole side.
func (r *PostgresPlayerGameStatRepository) TeamShotTotals(ctx context.Context, team string, lastN int) ([]float64, error) {
	query := `
		SELECT SUM(s.shots)::float8
		FROM player_game_stats s
		JOIN players p ON p.id = s.player_id
		WHERE p.team = $1
		GROUP BY s.match_date
		ORDER BY s.match_date DESC
		LIMIT $2
	`

	return r.queryTotals(ctx, query, team, lastN)
}

// ConcededShotTotals returns per-match shot totals recorded against a team,
// i.e. shots by players whose opponent column names this team.
func (r *PostgresPlayerGameStatRepository) ConcededShotTotals(ctx context.Context, team string, lastN int) ([]float64, error) {
	query := `
		SELECT SUM(s.shots)::float8
		FROM player_game_stats s
		WHERE s.opponent = $1
		GROUP BY s.match_date
		ORDER BY s.match_date DESC
		LIMIT $2
	`

	return r.queryTotals(ctx, query, team, lastN)
}

func (r *PostgresPlayerGameStatRepository) queryTotals(ctx context.Context, query, team string, lastN int) ([]float64, error) {
	rows, err := r.db.GetPool().Query(ctx, query, team, lastN)
	if err != nil {
		return nil, fmt.Errorf("failed to query shot totals: %w", err)
	}
	defer rows.Close()

	var totals []float64
	for rows.Next() {
		var total float64
		if err := rows.Scan(&total); err != nil {
			return nil, fmt.Errorf("failed to scan shot total: %w", err)
		}
		totals = append(totals, total)
	}

	return totals, rows.Err()
}

// Create inserts a new player game stat row
func (r *PostgresPlayerGameStatRepository) Create(ctx context.Context, s *models.PlayerGameStat) error {
	query := `
		INSERT INTO player_game_stats (id, player_id, match_date, opponent, minutes_played,
		                               shots, shots_on_target, goals, assists, passes,
		                               tackles, cards, rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		s.ID, s.PlayerID, s.MatchDate, s.Opponent, s.MinutesPlayed,
		s.Shots, s.ShotsOnTarget, s.Goals, s.Assists, s.Passes,
		s.Tackles, s.Cards, s.Rating,
	)
	if err != nil {
		return fmt.Errorf("failed to create player game stat: %w", err)
	}

	return nil
}
