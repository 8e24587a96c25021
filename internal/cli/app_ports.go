package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/period"
	"github.com/alexanderramin/ledgerpulse/internal/service"
)

// InsightUseCases is the slice of *service.InsightService the commands
// call.
type InsightUseCases interface {
	Import(ctx context.Context, filePath string) (*service.ImportResult, error)
	Generate(ctx context.Context, req service.GenerateRequest) (*service.GenerateResult, error)
	GenerateAll(ctx context.Context, periodType domain.PeriodType) ([]*service.GenerateResult, map[string]error, error)
	Evaluate(ctx context.Context, insightID string) (*service.EvalReport, error)
	GetInsight(ctx context.Context, id string) (*domain.Insight, error)
	ListInsights(ctx context.Context, teamID string, limit int) ([]*domain.Insight, error)
	ListTeams(ctx context.Context) ([]*domain.Team, error)
	NextRun(periodType domain.PeriodType) (time.Time, error)
	LatestComplete(periodType domain.PeriodType) (period.Period, error)
}

var _ InsightUseCases = (*service.InsightService)(nil)

// teamNames maps team IDs to names for display.
func teamNames(ctx context.Context, app *App) map[string]string {
	teams, err := app.Insights.ListTeams(ctx)
	if err != nil {
		return nil
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names
}
