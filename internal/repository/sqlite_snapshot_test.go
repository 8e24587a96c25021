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

func seedTeam(t *testing.T, teams *SQLiteTeamRepo) *domain.Team {
	t.Helper()
	team := testutil.NewTestTeam("Acme")
	require.NoError(t, teams.Upsert(context.Background(), team))
	return team
}

func TestSnapshotRepo_RoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	team := seedTeam(t, NewSQLiteTeamRepo(database))
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	sync := time.Date(2026, 1, 10, 14, 30, 0, 0, time.UTC)
	snap := testutil.NewTestSnapshot(team.ID,
		testutil.WithLastBankSync(sync),
		testutil.WithActivity(domain.InsightActivity{
			InvoicesSent: 2,
			MoneyOnTable: domain.MoneyOnTable{
				OverdueInvoices: []domain.OverdueInvoice{{ID: "inv-7", CustomerName: "Globex", Amount: 7500, DaysOverdue: 12}},
			},
			Context: &domain.ActivityContext{Streak: &domain.Streak{Type: "revenue_growth", Count: 3}},
		}),
	)
	snap.Current.CategorySpending = []domain.CategorySpending{{Slug: "software", Name: "Software", Amount: 1200}}
	require.NoError(t, repo.Upsert(ctx, snap))

	got, err := repo.Get(ctx, team.ID, snap.Period)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, snap.Period, got.Period)
	assert.True(t, snap.PeriodEnd.Equal(got.PeriodEnd), "nanosecond period end survives storage")
	assert.Equal(t, snap.Current, got.Current)
	assert.Equal(t, snap.Previous, got.Previous)
	assert.Equal(t, snap.Activity, got.Activity)
	assert.Equal(t, 24, got.Transactions)
	require.NotNil(t, got.LastBankSync)
	assert.True(t, sync.Equal(*got.LastBankSync))
}

func TestSnapshotRepo_UpsertKeepsID(t *testing.T) {
	database := testutil.NewTestDB(t)
	team := seedTeam(t, NewSQLiteTeamRepo(database))
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	first := testutil.NewTestSnapshot(team.ID)
	require.NoError(t, repo.Upsert(ctx, first))

	second := testutil.NewTestSnapshot(team.ID, testutil.WithTransactions(40))
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID, "re-import of the same period reuses the stored row")

	all, err := repo.ListByTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 40, all[0].Transactions)
}

func TestSnapshotRepo_Latest(t *testing.T) {
	database := testutil.NewTestDB(t)
	team := seedTeam(t, NewSQLiteTeamRepo(database))
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	for week := 1; week <= 3; week++ {
		start := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*(week-1))
		ref := domain.PeriodRef{Type: domain.PeriodWeekly, Year: 2026, Number: week}
		require.NoError(t, repo.Upsert(ctx, testutil.NewTestSnapshot(team.ID,
			testutil.WithPeriod(ref, start, start.AddDate(0, 0, 7).Add(-time.Nanosecond)))))
	}

	latest, err := repo.Latest(ctx, team.ID, domain.PeriodWeekly)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Period.Number)

	_, err = repo.Latest(ctx, team.ID, domain.PeriodMonthly)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotRepo_GetNotFound(t *testing.T) {
	repo := NewSQLiteSnapshotRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "team", domain.PeriodRef{Type: domain.PeriodWeekly, Year: 2026, Number: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotRepo_DeletedWithTeam(t *testing.T) {
	database := testutil.NewTestDB(t)
	team := seedTeam(t, NewSQLiteTeamRepo(database))
	repo := NewSQLiteSnapshotRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestSnapshot(team.ID)))
	_, err := database.Exec(`DELETE FROM teams WHERE id = ?`, team.ID)
	require.NoError(t, err)

	all, err := repo.ListByTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Empty(t, all)
}
