package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A database created before period_label and eval_score existed keeps its
// rows and gets the label backfilled.
func TestMigrate_UpgradeFromInitialSchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	// The first five statements are the initial release.
	for _, stmt := range migrations[:5] {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	_, err = db.Exec(`INSERT INTO teams (id, name, currency, created_at) VALUES ('t1', 'Acme', 'SEK', '2025-12-01T00:00:00Z')`)
	require.NoError(t, err)
	legacy := `INSERT INTO insights (id, team_id, period_type, period_year, period_number, title, summary, created_at)
		VALUES (?, 't1', ?, ?, ?, 'Title', 'Summary', '2026-01-12T07:00:00Z')`
	for _, row := range []struct {
		id, typ      string
		year, number int
	}{
		{"w", "weekly", 2026, 2},
		{"m", "monthly", 2025, 12},
		{"q", "quarterly", 2025, 4},
		{"y", "yearly", 2025, 2025},
	} {
		_, err := db.Exec(legacy, row.id, row.typ, row.year, row.number)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	labels := map[string]string{}
	rows, err := db.Query(`SELECT id, period_label, eval_score FROM insights`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var (
			id, label string
			score     sql.NullFloat64
		)
		require.NoError(t, rows.Scan(&id, &label, &score))
		assert.False(t, score.Valid, "legacy rows have no score")
		labels[id] = label
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, "Week 2, 2026", labels["w"])
	assert.Equal(t, "Q4 2025", labels["q"])
	assert.Equal(t, "2025 Year in Review", labels["y"])
	assert.Equal(t, "December 2025", labels["m"])

	// Running again does not touch labels that are already set.
	_, err = db.Exec(`UPDATE insights SET period_label = 'Year end' WHERE id = 'm'`)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	var label string
	require.NoError(t, db.QueryRow(`SELECT period_label FROM insights WHERE id = 'm'`).Scan(&label))
	assert.Equal(t, "Year end", label)
}
