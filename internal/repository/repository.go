package repository

import (
	"fmt"

	"github.com/yourusername/prop-edge/internal/database"
)

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Player:         NewPostgresPlayerRepository(db),
		Match:          NewPostgresMatchRepository(db),
		PropLine:       NewPostgresPropLineRepository(db),
		PlayerGameStat: NewPostgresPlayerGameStatRepository(db),
		Pick:           NewPostgresPickRepository(db),
	}, nil
}
