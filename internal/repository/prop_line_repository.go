package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/prop-edge/internal/database"
	"github.com/yourusername/prop-edge/internal/models"
)

// PostgresPropLineRepository implements PropLineRepository for PostgreSQL
type PostgresPropLineRepository struct {
	db *database.DB
}

// NewPostgresPropLineRepository creates a new prop line repository
func NewPostgresPropLineRepository(db *database.DB) PropLineRepository {
	return &PostgresPropLineRepository{db: db}
}

// ListOpen retrieves prop lines attached to not-started matches
func (r *PostgresPropLineRepository) ListOpen(ctx context.Context) ([]*models.PropLine, error) {
	query := `
		SELECT pl.id, pl.match_id, pl.player_id, pl.market, pl.line,
		       pl.bookmaker, pl.over_price, pl.under_price, pl.updated_at
		FROM prop_lines pl
		JOIN matches m ON m.id = pl.match_id
		WHERE m.status = $1
		ORDER BY m.kickoff ASC, pl.updated_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, models.MatchStatusNotStarted)
	if err != nil {
		return nil, fmt.Errorf("failed to query open prop lines: %w", err)
	}
	defer rows.Close()

	var lines []*models.PropLine
	for rows.Next() {
		line := &models.PropLine{}
		err := rows.Scan(
			&line.ID, &line.MatchID, &line.PlayerID, &line.Market, &line.Line,
			&line.Bookmaker, &line.OverPrice, &line.UnderPrice, &line.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prop line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// Create inserts a new prop line
func (r *PostgresPropLineRepository) Create(ctx context.Context, line *models.PropLine) error {
	query := `
		INSERT INTO prop_lines (id, match_id, player_id, market, line, bookmaker,
		                        over_price, under_price, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		line.ID, line.MatchID, line.PlayerID, line.Market, line.Line,
		line.Bookmaker, line.OverPrice, line.UnderPrice,
	)
	if err != nil {
		return fmt.Errorf("failed to create prop line: %w", err)
	}

	return nil
}
