package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"teams", "period_snapshots", "insights"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
	for _, idx := range []string{"idx_snapshots_team", "idx_insights_team_created"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_AddedColumns(t *testing.T) {
	db := openTestDB(t)

	cols := map[string]bool{}
	rows, err := db.Query(`PRAGMA table_info(insights)`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             sql.NullString
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		cols[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, cols["period_label"])
	assert.True(t, cols["eval_score"])
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	_, err := db.Exec(`INSERT INTO insights (id, team_id, period_type, period_year, period_number, title, summary, created_at)
		VALUES ('i1', 'missing-team', 'weekly', 2026, 2, 't', 's', '2026-01-12T07:00:00Z')`)
	assert.Error(t, err, "insight without a team violates the foreign key")
}

func TestMigrate_PeriodTypeCheck(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO teams (id, name, created_at) VALUES ('t1', 'Acme', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO insights (id, team_id, period_type, period_year, period_number, title, summary, created_at)
		VALUES ('i1', 't1', 'daily', 2026, 2, 't', 's', '2026-01-12T07:00:00Z')`)
	assert.Error(t, err)
}

func TestMigrate_UniquePeriodPerTeam(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO teams (id, name, created_at) VALUES ('t1', 'Acme', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	insert := `INSERT INTO insights (id, team_id, period_type, period_year, period_number, title, summary, created_at)
		VALUES (?, 't1', 'monthly', 2026, 1, 't', 's', '2026-02-01T07:00:00Z')`
	_, err = db.Exec(insert, "i1")
	require.NoError(t, err)
	_, err = db.Exec(insert, "i2")
	assert.ErrorContains(t, err, "UNIQUE")
}

func TestOpenDB_InMemoryJournal(t *testing.T) {
	db := openTestDB(t)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}
