package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerGameStat is one historical performance row for a player. Exactly one
// row exists per (player, match date); ordering by MatchDate defines past vs
// future for leakage avoidance.
type PlayerGameStat struct {
	ID            uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	PlayerID      uuid.UUID `db:"player_id" json:"player_id" validate:"required,uuid4"`
	MatchDate     time.Time `db:"match_date" json:"match_date" validate:"required"`
	Opponent      string    `db:"opponent" json:"opponent"`
	MinutesPlayed int       `db:"minutes_played" json:"minutes_played"`
	Shots         int       `db:"shots" json:"shots"`
	ShotsOnTarget int       `db:"shots_on_target" json:"shots_on_target"`
	Goals         int       `db:"goals" json:"goals"`
	Assists       int       `db:"assists" json:"assists"`
	Passes        int       `db:"passes" json:"passes"`
	Tackles       int       `db:"tackles" json:"tackles"`
	Cards         int       `db:"cards" json:"cards"` // yellow + red
	Rating        float64   `db:"rating" json:"rating"`
}

// StatValue returns the named counter from this row. The names mirror the
// market keys so aggregation requests can be driven by the market taxonomy.
func (s *PlayerGameStat) StatValue(name string) (float64, error) {
	switch name {
	case "shots":
		return float64(s.Shots), nil
	case "shots_on_target":
		return float64(s.ShotsOnTarget), nil
	case "goals":
		return float64(s.Goals), nil
	case "assists":
		return float64(s.Assists), nil
	case "passes":
		return float64(s.Passes), nil
	case "tackles":
		return float64(s.Tackles), nil
	case "cards":
		return float64(s.Cards), nil
	case "minutes":
		return float64(s.MinutesPlayed), nil
	case "rating":
		return s.Rating, nil
	default:
		return 0, ErrUnknownStat
	}
}
