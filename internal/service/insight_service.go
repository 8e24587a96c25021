package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/ledgerpulse/internal/cache"
	"github.com/alexanderramin/ledgerpulse/internal/db"
	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/evals"
	"github.com/alexanderramin/ledgerpulse/internal/facts"
	"github.com/alexanderramin/ledgerpulse/internal/generation"
	"github.com/alexanderramin/ledgerpulse/internal/metrics"
	"github.com/alexanderramin/ledgerpulse/internal/period"
	"github.com/alexanderramin/ledgerpulse/internal/repository"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

const defaultTeamCacheTTL = 5 * time.Minute

// Options tunes an InsightService. Zero values fall back to defaults.
type Options struct {
	Enabled     EnabledTeams
	Location    *time.Location
	Locale      string
	InsightHour int
	TeamTTL     time.Duration
	Clock       cache.Clock
	Logger      *slog.Logger
	Observer    UseCaseObserver
}

// InsightService runs the insight use cases: import snapshots, then gate,
// compute, generate and persist one insight per team and period.
type InsightService struct {
	teams     repository.TeamRepo
	snapshots repository.SnapshotRepo
	insights  repository.InsightRepo
	uow       db.UnitOfWork
	generator *generation.Orchestrator

	teamCache   *cache.TTL[string, *domain.Team]
	enabled     EnabledTeams
	loc         *time.Location
	locale      string
	insightHour int
	now         cache.Clock
	logger      *slog.Logger
	observer    UseCaseObserver
}

func NewInsightService(
	teams repository.TeamRepo,
	snapshots repository.SnapshotRepo,
	insights repository.InsightRepo,
	uow db.UnitOfWork,
	generator *generation.Orchestrator,
	opts Options,
) *InsightService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Locale == "" {
		opts.Locale = metrics.DefaultLocale
	}
	if opts.TeamTTL <= 0 {
		opts.TeamTTL = defaultTeamCacheTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &InsightService{
		teams:       teams,
		snapshots:   snapshots,
		insights:    insights,
		uow:         uow,
		generator:   generator,
		teamCache:   cache.NewTTL[string, *domain.Team](opts.TeamTTL, opts.Clock),
		enabled:     opts.Enabled,
		loc:         opts.Location,
		locale:      opts.Locale,
		insightHour: opts.InsightHour,
		now:         opts.Clock,
		logger:      opts.Logger,
		observer:    useCaseObserverOrNoop([]UseCaseObserver{opts.Observer}),
	}
}

// GenerateRequest selects the period to generate for. A nil Period means
// the most recent complete period of PeriodType.
type GenerateRequest struct {
	TeamID     string
	PeriodType domain.PeriodType
	Period     *domain.PeriodRef
}

// GenerateResult is a stored insight and how it was produced.
type GenerateResult struct {
	Insight        *domain.Insight
	Scores         []evals.Score
	FallbackReason error
}

// Prepared is the computed input of one generation run.
type Prepared struct {
	Team     *domain.Team
	Snapshot *domain.Snapshot
	Period   period.Period
	Slots    *slots.InsightSlots
	Facts    *facts.InsightFacts
}

// Generate produces and stores the insight for one team and period,
// replacing any insight already stored for that period.
func (s *InsightService) Generate(ctx context.Context, req GenerateRequest) (_ *GenerateResult, err error) {
	started := s.now()
	fields := map[string]any{"team_id": req.TeamID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generate_insight",
			StartedAt: started,
			Duration:  s.now().Sub(started),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	ref, err := s.resolvePeriod(req)
	if err != nil {
		return nil, err
	}
	fields["period"] = fmt.Sprintf("%s %d/%d", ref.Type, ref.Year, ref.Number)

	p, err := s.Prepare(ctx, req.TeamID, ref)
	if err != nil {
		return nil, err
	}
	if err := CheckDataQuality(p.Snapshot, s.now()); err != nil {
		return nil, err
	}

	res := s.generator.Generate(ctx, generation.Input{Slots: p.Slots, Facts: p.Facts, Activity: p.Snapshot.Activity})
	fields["used_fallback"] = res.UsedFallback

	score := evals.Mean(res.Scores)
	ins := &domain.Insight{
		ID:           uuid.New().String(),
		TeamID:       req.TeamID,
		Period:       ref,
		PeriodLabel:  p.Period.Label,
		Content:      res.Content,
		UsedFallback: res.UsedFallback,
		EvalScore:    &score,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.insights.Upsert(ctx, ins); err != nil {
		return nil, fmt.Errorf("storing insight: %w", err)
	}
	fields["insight_id"] = ins.DisplayID()

	return &GenerateResult{Insight: ins, Scores: res.Scores, FallbackReason: res.FallbackReason}, nil
}

// Prepare gates the team and runs the deterministic part of the pipeline:
// metrics, selection, slots and facts. It stores nothing.
func (s *InsightService) Prepare(ctx context.Context, teamID string, ref domain.PeriodRef) (*Prepared, error) {
	if !s.enabled.Allows(teamID) {
		return nil, fmt.Errorf("team %s: %w", teamID, ErrInsightsDisabled)
	}
	team, err := s.team(ctx, teamID)
	if err != nil {
		return nil, err
	}
	per, err := period.Info(ref.Type, ref.Year, ref.Number, s.loc)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Get(ctx, teamID, per.Ref())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: no snapshot for %s", ErrInsufficientData, per.Label)
		}
		return nil, err
	}
	all, err := s.snapshots.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	h := history(all)

	prior := h.find(period.Previous(per).Ref())
	var priorActivity *domain.InsightActivity
	if prior != nil {
		priorActivity = &prior.Activity
	}

	currency := team.Currency
	set := metrics.CalculateAllMetrics(snap.Current, snap.Previous, currency)
	metrics.AddActivityMetrics(&set, snap.Activity, priorActivity, currency)
	markRecords(&set, snap, h)

	locale := team.Locale
	if locale == "" {
		locale = s.locale
	}
	sl := slots.ComputeSlots(slots.Input{
		Metrics:     set,
		TopMetrics:  metrics.SelectTopMetrics(set, metrics.DefaultTopMetricsCount),
		Activity:    snap.Activity,
		Currency:    currency,
		Locale:      locale,
		PeriodLabel: per.Label,
		PeriodType:  per.Type,
		Context:     buildContext(snap, per, prior, h, set, currency),
		Logger:      s.logger.With("team_id", teamID),
	})
	f := facts.ExtractFacts(&sl)

	return &Prepared{Team: team, Snapshot: snap, Period: per, Slots: &sl, Facts: &f}, nil
}

// GenerateAll generates the latest complete period for every enabled team.
// Teams that are skipped or fail are reported per team ID; one failure does
// not stop the others.
func (s *InsightService) GenerateAll(ctx context.Context, periodType domain.PeriodType) ([]*GenerateResult, map[string]error, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	var results []*GenerateResult
	skipped := make(map[string]error)
	for _, t := range teams {
		if !s.enabled.Allows(t.ID) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, skipped, err
		}
		res, err := s.Generate(ctx, GenerateRequest{TeamID: t.ID, PeriodType: periodType})
		if err != nil {
			skipped[t.ID] = err
			continue
		}
		results = append(results, res)
	}
	return results, skipped, nil
}

// EvalReport is the deterministic evaluation of a stored insight.
type EvalReport struct {
	Insight *domain.Insight
	Scores  []evals.Score
	Mean    float64
}

// Evaluate re-scores a stored insight against facts recomputed from its
// snapshot.
func (s *InsightService) Evaluate(ctx context.Context, insightID string) (*EvalReport, error) {
	ins, err := s.insights.GetByID(ctx, insightID)
	if err != nil {
		return nil, err
	}
	p, err := s.Prepare(ctx, ins.TeamID, ins.Period)
	if err != nil {
		return nil, err
	}
	scores := evals.Run(ins.Content, p.Facts, p.Slots)
	return &EvalReport{Insight: ins, Scores: scores, Mean: evals.Mean(scores)}, nil
}

func (s *InsightService) GetInsight(ctx context.Context, id string) (*domain.Insight, error) {
	return s.insights.GetByID(ctx, id)
}

func (s *InsightService) ListInsights(ctx context.Context, teamID string, limit int) ([]*domain.Insight, error) {
	return s.insights.List(ctx, teamID, limit)
}

func (s *InsightService) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	return s.teams.List(ctx)
}

// NextRun is when the next insight of periodType is due after now.
func (s *InsightService) NextRun(periodType domain.PeriodType) (time.Time, error) {
	return period.NextInsightTime(periodType, s.now(), s.loc, s.insightHour)
}

// LatestComplete is the most recent complete period of periodType.
func (s *InsightService) LatestComplete(periodType domain.PeriodType) (period.Period, error) {
	return period.PreviousCompletePeriod(periodType, s.now(), s.loc)
}

func (s *InsightService) resolvePeriod(req GenerateRequest) (domain.PeriodRef, error) {
	if req.Period != nil {
		return *req.Period, nil
	}
	pt := req.PeriodType
	if pt == "" {
		pt = domain.PeriodWeekly
	}
	p, err := s.LatestComplete(pt)
	if err != nil {
		return domain.PeriodRef{}, err
	}
	return p.Ref(), nil
}

// team reads a team through the TTL cache.
func (s *InsightService) team(ctx context.Context, id string) (*domain.Team, error) {
	return s.teamCache.GetOrLoad(id, func() (*domain.Team, error) {
		return s.teams.GetByID(ctx, id)
	})
}
