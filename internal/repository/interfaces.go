package repository

import (
	"context"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

type TeamRepo interface {
	Upsert(ctx context.Context, t *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
}

type SnapshotRepo interface {
	Upsert(ctx context.Context, s *domain.Snapshot) error
	Get(ctx context.Context, teamID string, ref domain.PeriodRef) (*domain.Snapshot, error)
	Latest(ctx context.Context, teamID string, periodType domain.PeriodType) (*domain.Snapshot, error)
	ListByTeam(ctx context.Context, teamID string) ([]*domain.Snapshot, error)
}

type InsightRepo interface {
	// Upsert replaces any insight already stored for the same team and period.
	Upsert(ctx context.Context, i *domain.Insight) error
	// GetByID accepts a full ID or a unique prefix of at least 8 characters.
	GetByID(ctx context.Context, id string) (*domain.Insight, error)
	Get(ctx context.Context, teamID string, ref domain.PeriodRef) (*domain.Insight, error)
	// List returns newest first; an empty teamID lists every team.
	List(ctx context.Context, teamID string, limit int) ([]*domain.Insight, error)
	Delete(ctx context.Context, id string) error
}
