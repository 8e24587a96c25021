package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/ledgerpulse/internal/db"
	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/importer"
	"github.com/alexanderramin/ledgerpulse/internal/repository"
)

// ImportResult holds the outcome of a snapshot import.
type ImportResult struct {
	Team    *domain.Team
	Periods []domain.PeriodRef
}

// Import loads a snapshot file and stores it.
func (s *InsightService) Import(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema)
}

// ImportSchema validates, converts and stores a parsed import in one
// transaction: either the team and every period are written, or nothing.
func (s *InsightService) ImportSchema(ctx context.Context, schema *importer.ImportSchema) (res *ImportResult, err error) {
	started := s.now()
	defer func() {
		fields := map[string]any{}
		if res != nil {
			fields["team_id"] = res.Team.ID
			fields["periods"] = len(res.Periods)
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import_snapshots",
			StartedAt: started,
			Duration:  s.now().Sub(started),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	batch, err := importer.Convert(schema, s.loc, s.locale)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteTeamRepo(tx).Upsert(ctx, batch.Team); err != nil {
			return fmt.Errorf("storing team: %w", err)
		}
		snaps := repository.NewSQLiteSnapshotRepo(tx)
		for _, snap := range batch.Snapshots {
			if err := snaps.Upsert(ctx, snap); err != nil {
				return fmt.Errorf("storing %s %d/%d: %w", snap.Period.Type, snap.Period.Year, snap.Period.Number, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.teamCache.Delete(batch.Team.ID)

	refs := make([]domain.PeriodRef, 0, len(batch.Snapshots))
	for _, snap := range batch.Snapshots {
		refs = append(refs, snap.Period)
	}
	return &ImportResult{Team: batch.Team, Periods: refs}, nil
}

func formatValidationErrors(errs []error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Error())
	}
	return fmt.Errorf("%s", b.String())
}
