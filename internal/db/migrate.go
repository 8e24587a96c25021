package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		currency   TEXT NOT NULL DEFAULT 'USD' CHECK(length(currency) = 3),
		locale     TEXT NOT NULL DEFAULT 'en-US',
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS period_snapshots (
		id             TEXT PRIMARY KEY,
		team_id        TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		period_type    TEXT NOT NULL
		               CHECK(period_type IN ('weekly','monthly','quarterly','yearly')),
		period_year    INTEGER NOT NULL,
		period_number  INTEGER NOT NULL,
		period_start   TEXT NOT NULL,
		period_end     TEXT NOT NULL,
		current_json   TEXT NOT NULL,
		previous_json  TEXT NOT NULL,
		activity_json  TEXT NOT NULL,
		transactions   INTEGER NOT NULL DEFAULT 0,
		last_bank_sync TEXT,
		created_at     TEXT NOT NULL,
		UNIQUE(team_id, period_type, period_year, period_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_team ON period_snapshots(team_id)`,

	`CREATE TABLE IF NOT EXISTS insights (
		id            TEXT PRIMARY KEY,
		team_id       TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		period_type   TEXT NOT NULL
		              CHECK(period_type IN ('weekly','monthly','quarterly','yearly')),
		period_year   INTEGER NOT NULL,
		period_number INTEGER NOT NULL,
		title         TEXT NOT NULL,
		summary       TEXT NOT NULL,
		story         TEXT NOT NULL DEFAULT '',
		actions_json  TEXT NOT NULL DEFAULT '[]',
		audio_script  TEXT NOT NULL DEFAULT '',
		used_fallback INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		UNIQUE(team_id, period_type, period_year, period_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_insights_team_created ON insights(team_id, created_at)`,

	// Label shown in lists; older rows get the short label derived from the period.
	`ALTER TABLE insights ADD COLUMN period_label TEXT NOT NULL DEFAULT ''`,
	`UPDATE insights SET period_label = CASE period_type
		WHEN 'weekly'    THEN 'Week ' || period_number || ', ' || period_year
		WHEN 'quarterly' THEN 'Q' || period_number || ' ' || period_year
		WHEN 'yearly'    THEN period_year || ' Year in Review'
		ELSE CASE period_number
			WHEN 1 THEN 'January'
			WHEN 2 THEN 'February'
			WHEN 3 THEN 'March'
			WHEN 4 THEN 'April'
			WHEN 5 THEN 'May'
			WHEN 6 THEN 'June'
			WHEN 7 THEN 'July'
			WHEN 8 THEN 'August'
			WHEN 9 THEN 'September'
			WHEN 10 THEN 'October'
			WHEN 11 THEN 'November'
			WHEN 12 THEN 'December'
		END || ' ' || period_year
	END WHERE period_label = ''`,

	// Mean deterministic eval score at generation time.
	`ALTER TABLE insights ADD COLUMN eval_score REAL`,
}
