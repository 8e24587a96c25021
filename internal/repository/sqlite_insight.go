package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ledgerpulse/internal/db"
	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// SQLiteInsightRepo implements InsightRepo.
type SQLiteInsightRepo struct {
	db db.DBTX
}

func NewSQLiteInsightRepo(conn db.DBTX) *SQLiteInsightRepo {
	return &SQLiteInsightRepo{db: conn}
}

// minIDPrefix matches Insight.DisplayID.
const minIDPrefix = 8

const insightColumns = `id, team_id, period_type, period_year, period_number, period_label,
	title, summary, story, actions_json, audio_script, used_fallback, eval_score, created_at`

func (r *SQLiteInsightRepo) Upsert(ctx context.Context, i *domain.Insight) error {
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	actions := i.Content.Actions
	if actions == nil {
		actions = []domain.ActionItem{}
	}
	actionsJSON, err := toJSON("actions", actions)
	if err != nil {
		return err
	}

	query := `INSERT INTO insights (` + insightColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(team_id, period_type, period_year, period_number) DO UPDATE SET
			id = excluded.id,
			period_label = excluded.period_label,
			title = excluded.title,
			summary = excluded.summary,
			story = excluded.story,
			actions_json = excluded.actions_json,
			audio_script = excluded.audio_script,
			used_fallback = excluded.used_fallback,
			eval_score = excluded.eval_score,
			created_at = excluded.created_at`
	_, err = r.db.ExecContext(ctx, query,
		i.ID, i.TeamID,
		string(i.Period.Type), i.Period.Year, i.Period.Number,
		i.PeriodLabel,
		i.Content.Title, i.Content.Summary, i.Content.Story,
		actionsJSON, i.Content.AudioScript,
		boolToInt(i.UsedFallback),
		nullableFloat(i.EvalScore),
		i.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting insight: %w", err)
	}
	return nil
}

func (r *SQLiteInsightRepo) GetByID(ctx context.Context, id string) (*domain.Insight, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+insightColumns+` FROM insights WHERE id = ?`, id)
	ins, err := scanInsight(row)
	if err == nil {
		return ins, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if len(id) < minIDPrefix {
		return nil, fmt.Errorf("insight %s: %w", id, ErrNotFound)
	}
	return r.getByPrefix(ctx, id)
}

func (r *SQLiteInsightRepo) getByPrefix(ctx context.Context, prefix string) (*domain.Insight, error) {
	pattern := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix) + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+insightColumns+` FROM insights WHERE id LIKE ? ESCAPE '\' LIMIT 2`, pattern)
	if err != nil {
		return nil, fmt.Errorf("looking up insight prefix: %w", err)
	}
	defer rows.Close()

	var matches []*domain.Insight
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating insights: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("insight %s: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("insight prefix %s is ambiguous", prefix)
	}
}

func (r *SQLiteInsightRepo) Get(ctx context.Context, teamID string, ref domain.PeriodRef) (*domain.Insight, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+insightColumns+` FROM insights
		WHERE team_id = ? AND period_type = ? AND period_year = ? AND period_number = ?`,
		teamID, string(ref.Type), ref.Year, ref.Number)
	ins, err := scanInsight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("insight %s %s %d/%d: %w", teamID, ref.Type, ref.Year, ref.Number, ErrNotFound)
	}
	return ins, err
}

func (r *SQLiteInsightRepo) List(ctx context.Context, teamID string, limit int) ([]*domain.Insight, error) {
	query := `SELECT ` + insightColumns + ` FROM insights`
	var args []any
	if teamID != "" {
		query += ` WHERE team_id = ?`
		args = append(args, teamID)
	}
	query += ` ORDER BY created_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing insights: %w", err)
	}
	defer rows.Close()

	var out []*domain.Insight
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating insights: %w", err)
	}
	return out, nil
}

func (r *SQLiteInsightRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM insights WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting insight: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("insight %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanInsight(row rowScanner) (*domain.Insight, error) {
	var (
		ins          domain.Insight
		periodType   string
		actionsJSON  string
		usedFallback int
		score        sql.NullFloat64
		createdAt    string
	)
	err := row.Scan(
		&ins.ID, &ins.TeamID, &periodType, &ins.Period.Year, &ins.Period.Number, &ins.PeriodLabel,
		&ins.Content.Title, &ins.Content.Summary, &ins.Content.Story,
		&actionsJSON, &ins.Content.AudioScript, &usedFallback, &score, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning insight: %w", err)
	}
	ins.Period.Type = domain.PeriodType(periodType)
	ins.UsedFallback = intToBool(usedFallback)
	if score.Valid {
		v := score.Float64
		ins.EvalScore = &v
	}
	if ins.CreatedAt, err = parseTime("insight created_at", createdAt); err != nil {
		return nil, err
	}
	if err := fromJSON("actions", actionsJSON, &ins.Content.Actions); err != nil {
		return nil, err
	}
	return &ins, nil
}
