package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/testutil"
)

func TestParseEnabledTeams(t *testing.T) {
	tests := []struct {
		raw     string
		team    string
		allowed bool
	}{
		{"", "team-a", false},
		{"   ", "team-a", false},
		{"*", "anything", true},
		{" * ", "anything", true},
		{"team-a, team-b", "team-b", true},
		{"team-a,,team-b,", "team-c", false},
		{"team-a", "team-a ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, ParseEnabledTeams(tt.raw).Allows(tt.team), "raw=%q team=%q", tt.raw, tt.team)
	}

	assert.Nil(t, ParseEnabledTeams("*").IDs())
	assert.ElementsMatch(t, []string{"a", "b"}, ParseEnabledTeams("a, b").IDs())
}

func TestCheckDataQuality(t *testing.T) {
	now := time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 1, 11, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name string
		opts []testutil.SnapshotOption
		ok   bool
	}{
		{"plenty of transactions", nil, true},
		{"few transactions made up by invoices", []testutil.SnapshotOption{
			testutil.WithTransactions(1),
			testutil.WithActivity(domain.InsightActivity{InvoicesSent: 2}),
		}, true},
		{"too few data points", []testutil.SnapshotOption{
			testutil.WithTransactions(1),
			testutil.WithActivity(domain.InsightActivity{InvoicesSent: 1}),
		}, false},
		{"nothing at all", []testutil.SnapshotOption{
			testutil.WithTransactions(0),
			testutil.WithActivity(domain.InsightActivity{}),
		}, false},
		{"fresh bank sync", []testutil.SnapshotOption{
			testutil.WithLastBankSync(periodEnd.AddDate(0, 0, -6)),
		}, true},
		{"stale bank sync", []testutil.SnapshotOption{
			testutil.WithLastBankSync(periodEnd.AddDate(0, 0, -9)),
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testutil.NewTestSnapshot("team", tt.opts...)
			err := CheckDataQuality(snap, now)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInsufficientData)
			}
		})
	}
}

func TestCheckDataQuality_SyncAgeMeasuredAtPeriodEnd(t *testing.T) {
	// Regenerating an old period months later is judged by how fresh the
	// data was when the period closed.
	snap := testutil.NewTestSnapshot("team", testutil.WithLastBankSync(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.NoError(t, CheckDataQuality(snap, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)))
}
