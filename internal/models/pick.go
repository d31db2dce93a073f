package models

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is the side of a market a pick backs
type Recommendation string

const (
	RecommendOver  Recommendation = "Over"
	RecommendUnder Recommendation = "Under"
	RecommendYes   Recommendation = "Yes"
	RecommendNo    Recommendation = "No"
)

// Confidence tiers for picks
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
)

// PredictionType distinguishes player-prop picks from match-level picks
const (
	PredictionTypePlayerProp = "player_prop"
	PredictionTypeMatch      = "match"
)

// Pick is a persisted recommendation for a market whose edge cleared the
// decision threshold. At most one live pick exists per (player, match,
// market, line); later runs update the row in place, never duplicate it.
type Pick struct {
	ID             uuid.UUID      `db:"id" json:"id" validate:"required,uuid4"`
	PlayerID       uuid.NullUUID  `db:"player_id" json:"player_id"` // null for match-level picks
	MatchID        uuid.UUID      `db:"match_id" json:"match_id" validate:"required,uuid4"`
	PredictionType string         `db:"prediction_type" json:"prediction_type"`
	Market         MarketKey      `db:"market" json:"market" validate:"required"`
	Line           *float64       `db:"line" json:"line"` // null for BTTS
	Recommendation Recommendation `db:"recommendation" json:"recommendation" validate:"required"`
	ModelExpected  float64        `db:"model_expected" json:"model_expected"`
	ModelProb      float64        `db:"model_prob" json:"model_prob" validate:"gte=0,lte=1"`
	BookmakerProb  float64        `db:"bookmaker_prob" json:"bookmaker_prob" validate:"gte=0,lte=1"`
	EdgePercent    float64        `db:"edge_percent" json:"edge_percent"`
	Confidence     string         `db:"confidence" json:"confidence"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
