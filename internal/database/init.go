package database

import (
	"context"
	"fmt"
)

// schemaStatements creates the tables the pipeline reads and writes. All
// statements are idempotent; running them against an existing database is a
// no-op. Ingestion owns the read-only tables, the pipeline owns picks.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id UUID PRIMARY KEY,
		external_id BIGINT UNIQUE,
		name TEXT NOT NULL,
		team TEXT NOT NULL,
		position TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY,
		fixture_id BIGINT UNIQUE,
		league_id BIGINT,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		kickoff TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL,
		home_score INT,
		away_score INT,
		home_shots INT,
		away_shots INT,
		home_shots_on_target INT,
		away_shots_on_target INT,
		home_corners INT,
		away_corners INT,
		home_fouls INT,
		away_fouls INT,
		home_cards INT,
		away_cards INT,
		odds_home DOUBLE PRECISION,
		odds_draw DOUBLE PRECISION,
		odds_away DOUBLE PRECISION,
		odds_over_2_5 DOUBLE PRECISION,
		odds_under_2_5 DOUBLE PRECISION,
		odds_btts_yes DOUBLE PRECISION,
		odds_btts_no DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS prop_lines (
		id UUID PRIMARY KEY,
		match_id UUID NOT NULL REFERENCES matches(id),
		player_id UUID REFERENCES players(id),
		market TEXT NOT NULL,
		line DOUBLE PRECISION NOT NULL,
		bookmaker TEXT NOT NULL,
		over_price NUMERIC(8,3) NOT NULL DEFAULT 0,
		under_price NUMERIC(8,3) NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS player_game_stats (
		id UUID PRIMARY KEY,
		player_id UUID NOT NULL REFERENCES players(id),
		match_date DATE NOT NULL,
		opponent TEXT NOT NULL DEFAULT '',
		minutes_played INT NOT NULL DEFAULT 0,
		shots INT NOT NULL DEFAULT 0,
		shots_on_target INT NOT NULL DEFAULT 0,
		goals INT NOT NULL DEFAULT 0,
		assists INT NOT NULL DEFAULT 0,
		passes INT NOT NULL DEFAULT 0,
		tackles INT NOT NULL DEFAULT 0,
		cards INT NOT NULL DEFAULT 0,
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		UNIQUE (player_id, match_date)
	)`,
	`CREATE TABLE IF NOT EXISTS picks (
		id UUID PRIMARY KEY,
		player_id UUID REFERENCES players(id),
		match_id UUID NOT NULL REFERENCES matches(id),
		prediction_type TEXT NOT NULL,
		market TEXT NOT NULL,
		line DOUBLE PRECISION,
		recommendation TEXT NOT NULL,
		model_expected DOUBLE PRECISION NOT NULL,
		model_prob DOUBLE PRECISION NOT NULL,
		bookmaker_prob DOUBLE PRECISION NOT NULL,
		edge_percent DOUBLE PRECISION NOT NULL,
		confidence TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// One live pick per market. COALESCE folds the nullable columns into the
	// key so match-level picks (player_id NULL) and BTTS picks (line NULL)
	// dedupe the same way as player props.
	`CREATE UNIQUE INDEX IF NOT EXISTS picks_market_key ON picks (
		COALESCE(player_id, '00000000-0000-0000-0000-000000000000'::uuid),
		match_id,
		market,
		COALESCE(line, -1)
	)`,
	`CREATE INDEX IF NOT EXISTS player_game_stats_player_date ON player_game_stats (player_id, match_date DESC)`,
	`CREATE INDEX IF NOT EXISTS prop_lines_match ON prop_lines (match_id)`,
	`CREATE INDEX IF NOT EXISTS picks_created_at ON picks (created_at DESC)`,
}

// InitSchema applies the pipeline schema to the connected database.
func InitSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
