// Package repository provides data access for the prediction pipeline. All
// repositories return plain value objects keyed by ID; the pipeline never
// follows live object references between entities.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/prop-edge/internal/models"
)

// PlayerRepository defines player data access
type PlayerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	Create(ctx context.Context, player *models.Player) error
}

// MatchRepository defines match data access
type MatchRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	// ListUpcoming returns not-started fixtures ordered by kickoff.
	ListUpcoming(ctx context.Context) ([]*models.Match, error)
	// ListPlayedByTeam returns a team's most recent completed matches,
	// newest first.
	ListPlayedByTeam(ctx context.Context, team string, limit int) ([]*models.Match, error)
	// ListHeadToHead returns completed meetings between two teams strictly
	// before the given date, newest first.
	ListHeadToHead(ctx context.Context, teamA, teamB string, before time.Time, limit int) ([]*models.Match, error)
	Create(ctx context.Context, match *models.Match) error
}

// PropLineRepository defines bookmaker prop line data access
type PropLineRepository interface {
	// ListOpen returns prop lines attached to not-started matches.
	ListOpen(ctx context.Context) ([]*models.PropLine, error)
	Create(ctx context.Context, line *models.PropLine) error
}

// PlayerGameStatRepository defines historical performance data access
type PlayerGameStatRepository interface {
	// ListByPlayer returns a player's most recent rows, newest first.
	ListByPlayer(ctx context.Context, playerID uuid.UUID, limit int) ([]*models.PlayerGameStat, error)
	// TeamShotTotals returns per-match shot totals for a team's last n match
	// dates, newest first.
	TeamShotTotals(ctx context.Context, team string, lastN int) ([]float64, error)
	// ConcededShotTotals returns per-match shot totals recorded against a
	// team over its last n match dates, newest first.
	ConcededShotTotals(ctx context.Context, team string, lastN int) ([]float64, error)
	Create(ctx context.Context, stat *models.PlayerGameStat) error
}

// PickRepository defines pick persistence. Upsert is the only write path the
// pipeline uses; picks are never deleted by this service.
type PickRepository interface {
	// Upsert stores a pick, overwriting any existing row with the same
	// (player, match, market, line) key. Safe to call repeatedly.
	Upsert(ctx context.Context, pick *models.Pick) error
	// ListForDay returns picks created on the given day ranked by edge
	// descending, optionally filtered by market.
	ListForDay(ctx context.Context, day time.Time, market *models.MarketKey) ([]*models.Pick, error)
}

// Repositories holds all repository implementations
type Repositories struct {
	Player         PlayerRepository
	Match          MatchRepository
	PropLine       PropLineRepository
	PlayerGameStat PlayerGameStatRepository
	Pick           PickRepository
}
