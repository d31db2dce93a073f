package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/prop-edge/internal/database"
	"github.com/yourusername/prop-edge/internal/models"
)

// PostgresPickRepository implements PickRepository for PostgreSQL
type PostgresPickRepository struct {
	db *database.DB
}

// NewPostgresPickRepository creates a new pick repository
func NewPostgresPickRepository(db *database.DB) PickRepository {
	return &PostgresPickRepository{db: db}
}

// Upsert stores a pick, overwriting the existing row for the same market key.
// The conflict target is the picks_market_key unique index, so repeated runs
// against identical inputs never grow the table and a changed recommendation
// replaces the previous one.
func (r *PostgresPickRepository) Upsert(ctx context.Context, pick *models.Pick) error {
	query := `
		INSERT INTO picks (id, player_id, match_id, prediction_type, market, line,
		                   recommendation, model_expected, model_prob, bookmaker_prob,
		                   edge_percent, confidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (
			COALESCE(player_id, '00000000-0000-0000-0000-000000000000'::uuid),
			match_id, market, COALESCE(line, -1)
		)
		DO UPDATE SET
			prediction_type = EXCLUDED.prediction_type,
			recommendation = EXCLUDED.recommendation,
			model_expected = EXCLUDED.model_expected,
			model_prob = EXCLUDED.model_prob,
			bookmaker_prob = EXCLUDED.bookmaker_prob,
			edge_percent = EXCLUDED.edge_percent,
			confidence = EXCLUDED.confidence,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		pick.ID, pick.PlayerID, pick.MatchID, pick.PredictionType, pick.Market, pick.Line,
		pick.Recommendation, pick.ModelExpected, pick.ModelProb, pick.BookmakerProb,
		pick.EdgePercent, pick.Confidence,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pick: %w", err)
	}

	return nil
}

// ListForDay retrieves picks created on the given day ranked by edge descending
func (r *PostgresPickRepository) ListForDay(ctx context.Context, day time.Time, market *models.MarketKey) ([]*models.Pick, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	query := `
		SELECT id, player_id, match_id, prediction_type, market, line,
		       recommendation, model_expected, model_prob, bookmaker_prob,
		       edge_percent, confidence, created_at, updated_at
		FROM picks
		WHERE updated_at >= $1 AND updated_at < $2
	`
	args := []interface{}{dayStart, dayEnd}

	if market != nil {
		query += " AND market = $3"
		args = append(args, *market)
	}
	query += " ORDER BY edge_percent DESC"

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query picks: %w", err)
	}
	defer rows.Close()

	var picks []*models.Pick
	for rows.Next() {
		p := &models.Pick{}
		err := rows.Scan(
			&p.ID, &p.PlayerID, &p.MatchID, &p.PredictionType, &p.Market, &p.Line,
			&p.Recommendation, &p.ModelExpected, &p.ModelProb, &p.BookmakerProb,
			&p.EdgePercent, &p.Confidence, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, p)
	}

	return picks, rows.Err()
}
