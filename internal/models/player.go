package models

import (
	"github.com/google/uuid"
)

// Player represents a player tracked for prop markets
type Player struct {
	ID         uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	ExternalID int64     `db:"external_id" json:"external_id"` // Provider identifier
	Name       string    `db:"name" json:"name" validate:"required"`
	Team       string    `db:"team" json:"team" validate:"required"`
	Position   string    `db:"position" json:"position"`
}

// IsForward reports whether the player is listed as a forward. The feature
// schema encodes this as the is_striker flag.
func (p *Player) IsForward() bool {
	return p.Position == "F"
}
