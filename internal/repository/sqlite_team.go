package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/ledgerpulse/internal/db"
	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// SQLiteTeamRepo implements TeamRepo.
type SQLiteTeamRepo struct {
	db db.DBTX
}

func NewSQLiteTeamRepo(conn db.DBTX) *SQLiteTeamRepo {
	return &SQLiteTeamRepo{db: conn}
}

// Upsert inserts the team or updates its name, currency and locale.
// CreatedAt is kept from the first insert.
func (r *SQLiteTeamRepo) Upsert(ctx context.Context, t *domain.Team) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO teams (id, name, currency, locale, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			currency = excluded.currency,
			locale = excluded.locale`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Currency, t.Locale, t.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upserting team: %w", err)
	}
	return nil
}

func (r *SQLiteTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, currency, locale, created_at FROM teams WHERE id = ?`, id)
	t, err := scanTeam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTeamRepo) List(ctx context.Context) ([]*domain.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, currency, locale, created_at FROM teams ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams: %w", err)
	}
	return teams, nil
}

func scanTeam(row rowScanner) (*domain.Team, error) {
	var t domain.Team
	var createdAt string
	if err := row.Scan(&t.ID, &t.Name, &t.Currency, &t.Locale, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning team: %w", err)
	}
	var err error
	if t.CreatedAt, err = parseTime("team created_at", createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}
