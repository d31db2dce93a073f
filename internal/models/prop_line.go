package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropLine represents one bookmaker's quote for a market. Multiple bookmakers
// may quote the same (player, match, market, line); each quote is its own row.
// PlayerID is null for match-level markets.
type PropLine struct {
	ID         uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	MatchID    uuid.UUID       `db:"match_id" json:"match_id" validate:"required,uuid4"`
	PlayerID   uuid.NullUUID   `db:"player_id" json:"player_id"`
	Market     MarketKey       `db:"market" json:"market" validate:"required"`
	Line       float64         `db:"line" json:"line"`
	Bookmaker  string          `db:"bookmaker" json:"bookmaker" validate:"required"`
	OverPrice  decimal.Decimal `db:"over_price" json:"over_price"`
	UnderPrice decimal.Decimal `db:"under_price" json:"under_price"` // zero when not quoted
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// OverOdds returns the Over price as decimal odds, 0 if unquoted.
func (p *PropLine) OverOdds() float64 {
	return p.OverPrice.InexactFloat64()
}

// UnderOdds returns the Under price as decimal odds, 0 if unquoted.
func (p *PropLine) UnderOdds() float64 {
	return p.UnderPrice.InexactFloat64()
}

// HasUnderQuote reports whether the bookmaker priced the Under side.
func (p *PropLine) HasUnderQuote() bool {
	return p.UnderPrice.IsPositive()
}
