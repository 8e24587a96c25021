package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/testutil"
)

func TestInsightRepo_RoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	team := seedTeam(t, NewSQLiteTeamRepo(database))
	repo := NewSQLiteInsightRepo(database)
	ctx := context.Background()

	ins := testutil.NewTestInsight(team.ID,
		testutil.WithEvalScore(0.83),
		testutil.WithContent(domain.InsightContent{
			Title:       "Globex owes you 7,500 kr.",
			Summary:     "Follow up with Globex.",
			Story:       "A steady week.",
			Actions:     []domain.ActionItem{{Text: "Chase Globex", Type: domain.ActionOverdue, EntityType: "invoice", EntityID: "inv-7"}},
			AudioScript: "Week two.",
		}),
	)
	require.NoError(t, repo.Upsert(ctx, ins))

	got, err := repo.GetByID(ctx, ins.ID)
	require.NoError(t, err)
	assert.Equal(t, ins.Content, got.Content)
	assert.Equal(t, "Week 2, 2026", got.PeriodLabel)
	assert.False(t, got.UsedFallback)
	require.NotNil(t, got.EvalScore)
	assert.InDelta(t, 0.83, *got.EvalScore, 1e-9)

	byPeriod, err := repo.Get(ctx, team.ID, ins.Period)
	require.NoError(t, err)
	assert.Equal(t, ins.ID, byPeriod.ID)
}

func TestInsightRepo_NilActionsStoredAsEmpty(t *testing.T) {
	database := testutil.NewTestDB(t)
	team := seedTeam(t, NewSQLiteTeamRepo(database))
	repo := NewSQLiteInsightRepo(database)
	ctx := context.Background()

	ins := testutil.NewTestInsight(team.ID, testutil.WithFallback())
	ins.Content.Actions = nil
	require.NoError(t, repo.Upsert(ctx, ins))

	got, err := repo.GetByID(ctx, ins.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Content.Actions)
	assert.Empty(t, got.Content.Actions)
	assert.True(t, got.UsedFallback)
	assert.Nil(t, got.EvalScore)
}

func TestInsightRepo_RegenerateReplacesPeriod(t *testing.T) {
	database := testutil.NewTestDB(t)
	team := seedTeam(t, NewSQLiteTeamRepo(database))
	repo := NewSQLiteInsightRepo(database)
	ctx := context.Background()

	first := testutil.NewTestInsight(team.ID)
	require.NoError(t, repo.Upsert(ctx, first))

	second := testutil.NewTestInsight(team.ID, testutil.WithFallback())
	require.NoError(t, repo.Upsert(ctx, second))

	all, err := repo.List(ctx, team.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, second.ID, all[0].ID)
	assert.True(t, all[0].UsedFallback)

	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInsightRepo_GetByIDPrefix(t *testing.T) {
	database := testutil.NewTestDB(t)
	team := seedTeam(t, NewSQLiteTeamRepo(database))
	repo := NewSQLiteInsightRepo(database)
	ctx := context.Background()

	ins := testutil.NewTestInsight(team.ID)
	require.NoError(t, repo.Upsert(ctx, ins))

	got, err := repo.GetByID(ctx, ins.DisplayID())
	require.NoError(t, err)
	assert.Equal(t, ins.ID, got.ID)

	_, err = repo.GetByID(ctx, ins.ID[:4])
	assert.ErrorIs(t, err, ErrNotFound, "prefixes shorter than the display ID are not matched")
}

func TestInsightRepo_GetByIDAmbiguousPrefix(t *testing.T) {
	database := testutil.NewTestDB(t)
	team := seedTeam(t, NewSQLiteTeamRepo(database))
	repo := NewSQLiteInsightRepo(database)
	ctx := context.Background()

	a := testutil.NewTestInsight(team.ID)
	a.ID = "abcdef12-0000-0000-0000-000000000001"
	b := testutil.NewTestInsight(team.ID, testutil.WithInsightPeriod(domain.PeriodRef{Type: domain.PeriodWeekly, Year: 2026, Number: 3}, "Week 3, 2026"))
	b.ID = "abcdef12-0000-0000-0000-000000000002"
	require.NoError(t, repo.Upsert(ctx, a))
	require.NoError(t, repo.Upsert(ctx, b))

	_, err := repo.GetByID(ctx, "abcdef12")
	assert.ErrorContains(t, err, "ambiguous")
}

func TestInsightRepo_ListNewestFirstAcrossTeams(t *testing.T) {
	database := testutil.NewTestDB(t)
	teams := NewSQLiteTeamRepo(database)
	acme := seedTeam(t, teams)
	globex := testutil.NewTestTeam("Globex")
	require.NoError(t, teams.Upsert(context.Background(), globex))
	repo := NewSQLiteInsightRepo(database)
	ctx := context.Background()

	base := time.Date(2026, 1, 12, 7, 0, 0, 0, time.UTC)
	for week := 1; week <= 3; week++ {
		ref := domain.PeriodRef{Type: domain.PeriodWeekly, Year: 2026, Number: week}
		require.NoError(t, repo.Upsert(ctx, testutil.NewTestInsight(acme.ID,
			testutil.WithInsightPeriod(ref, ""),
			testutil.WithCreatedAt(base.AddDate(0, 0, 7*week)))))
	}
	require.NoError(t, repo.Upsert(ctx, testutil.NewTestInsight(globex.ID, testutil.WithCreatedAt(base))))

	all, err := repo.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	acmeOnly, err := repo.List(ctx, acme.ID, 2)
	require.NoError(t, err)
	require.Len(t, acmeOnly, 2)
	assert.Equal(t, 3, acmeOnly[0].Period.Number)
	assert.Equal(t, 2, acmeOnly[1].Period.Number)
}

func TestInsightRepo_Delete(t *testing.T) {
	database := testutil.NewTestDB(t)
	team := seedTeam(t, NewSQLiteTeamRepo(database))
	repo := NewSQLiteInsightRepo(database)
	ctx := context.Background()

	ins := testutil.NewTestInsight(team.ID)
	require.NoError(t, repo.Upsert(ctx, ins))
	require.NoError(t, repo.Delete(ctx, ins.ID))
	assert.ErrorIs(t, repo.Delete(ctx, ins.ID), ErrNotFound)
}
