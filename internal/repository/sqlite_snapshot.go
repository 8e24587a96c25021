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

// SQLiteSnapshotRepo implements SnapshotRepo. Metric data and activity are
// stored as JSON columns.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

const snapshotColumns = `id, team_id, period_type, period_year, period_number, period_start, period_end,
	current_json, previous_json, activity_json, transactions, last_bank_sync, created_at`

// Upsert stores the snapshot, replacing the data of an existing snapshot for
// the same team and period. On conflict the stored row keeps its ID, which is
// written back to s.
func (r *SQLiteSnapshotRepo) Upsert(ctx context.Context, s *domain.Snapshot) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	current, err := toJSON("current metrics", s.Current)
	if err != nil {
		return err
	}
	previous, err := toJSON("previous metrics", s.Previous)
	if err != nil {
		return err
	}
	activity, err := toJSON("activity", s.Activity)
	if err != nil {
		return err
	}

	query := `INSERT INTO period_snapshots (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(team_id, period_type, period_year, period_number) DO UPDATE SET
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			current_json = excluded.current_json,
			previous_json = excluded.previous_json,
			activity_json = excluded.activity_json,
			transactions = excluded.transactions,
			last_bank_sync = excluded.last_bank_sync`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.TeamID,
		string(s.Period.Type), s.Period.Year, s.Period.Number,
		s.PeriodStart.UTC().Format(time.RFC3339Nano),
		s.PeriodEnd.UTC().Format(time.RFC3339Nano),
		current, previous, activity,
		s.Transactions,
		nullableTimeToString(s.LastBankSync, time.RFC3339Nano),
		s.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT id FROM period_snapshots
		WHERE team_id = ? AND period_type = ? AND period_year = ? AND period_number = ?`,
		s.TeamID, string(s.Period.Type), s.Period.Year, s.Period.Number,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("reading snapshot id: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Get(ctx context.Context, teamID string, ref domain.PeriodRef) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM period_snapshots
		WHERE team_id = ? AND period_type = ? AND period_year = ? AND period_number = ?`,
		teamID, string(ref.Type), ref.Year, ref.Number)
	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s %s %d/%d: %w", teamID, ref.Type, ref.Year, ref.Number, ErrNotFound)
	}
	return s, err
}

// Latest returns the most recent snapshot of the given period type.
func (r *SQLiteSnapshotRepo) Latest(ctx context.Context, teamID string, periodType domain.PeriodType) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM period_snapshots
		WHERE team_id = ? AND period_type = ?
		ORDER BY period_start DESC LIMIT 1`,
		teamID, string(periodType))
	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest %s snapshot for %s: %w", periodType, teamID, ErrNotFound)
	}
	return s, err
}

func (r *SQLiteSnapshotRepo) ListByTeam(ctx context.Context, teamID string) ([]*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM period_snapshots WHERE team_id = ?
		ORDER BY period_start DESC, period_type`, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return out, nil
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var (
		s                           domain.Snapshot
		periodType                  string
		start, end, createdAt       string
		current, previous, activity string
		lastSync                    sql.NullString
	)
	err := row.Scan(
		&s.ID, &s.TeamID, &periodType, &s.Period.Year, &s.Period.Number,
		&start, &end, &current, &previous, &activity,
		&s.Transactions, &lastSync, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	s.Period.Type = domain.PeriodType(periodType)

	if s.PeriodStart, err = parseTime("period_start", start); err != nil {
		return nil, err
	}
	if s.PeriodEnd, err = parseTime("period_end", end); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime("snapshot created_at", createdAt); err != nil {
		return nil, err
	}
	s.LastBankSync = parseNullableTime(lastSync, time.RFC3339Nano)

	if err := fromJSON("current metrics", current, &s.Current); err != nil {
		return nil, err
	}
	if err := fromJSON("previous metrics", previous, &s.Previous); err != nil {
		return nil, err
	}
	if err := fromJSON("activity", activity, &s.Activity); err != nil {
		return nil, err
	}
	return &s, nil
}
