package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/metrics"
	"github.com/alexanderramin/ledgerpulse/internal/period"
	"github.com/alexanderramin/ledgerpulse/internal/testutil"
)

func monthSnap(t *testing.T, year, month int, revenue, prevRevenue, profit float64) *domain.Snapshot {
	t.Helper()
	p, err := period.Info(domain.PeriodMonthly, year, month, time.UTC)
	require.NoError(t, err)
	s := testutil.NewTestSnapshot("team", testutil.WithPeriod(p.Ref(), p.Start, p.End))
	s.Current.Revenue = revenue
	s.Current.NetProfit = profit
	s.Previous.Revenue = prevRevenue
	return s
}

func TestMomentum(t *testing.T) {
	prior := monthSnap(t, 2026, 1, 110, 100, -50) // +10%
	tests := []struct {
		name    string
		revenue float64
		want    domain.Momentum
	}{
		{"faster growth", 132, domain.MomentumAccelerating}, // +20%
		{"similar growth", 123, domain.MomentumSteady},      // +11.8%
		{"slower growth", 110, domain.MomentumDecelerating}, // 0%
	}
	for _, tt := range tests {
		cur := monthSnap(t, 2026, 2, tt.revenue, 110, 20)
		m := momentum(cur, prior)
		assert.Equal(t, tt.want, m.Momentum, tt.name)
		require.NotNil(t, m.Recovery, "loss last month, profit now")
		assert.Equal(t, "back to profit after a loss last month", m.Recovery.Description)
	}
}

func TestYearOverYear(t *testing.T) {
	cur := monthSnap(t, 2026, 3, 150, 140, 30)
	ly := monthSnap(t, 2025, 3, 100, 90, 20)

	assert.Nil(t, yearOverYear(cur, history{cur}))

	yoy := yearOverYear(cur, history{cur, ly})
	require.NotNil(t, yoy)
	assert.True(t, yoy.HasComparison)
	assert.InDelta(t, 50, yoy.RevenueChangePercent, 1e-9)
	assert.InDelta(t, 50, yoy.ProfitChangePercent, 1e-9)
}

func TestQuarterPace(t *testing.T) {
	jan := monthSnap(t, 2026, 1, 100000, 0, 0)
	feb := monthSnap(t, 2026, 2, 80000, 0, 0)
	per, err := period.Info(domain.PeriodMonthly, 2026, 2, time.UTC)
	require.NoError(t, err)

	q, err := period.Info(domain.PeriodQuarterly, 2025, 1, time.UTC)
	require.NoError(t, err)
	lastQ := testutil.NewTestSnapshot("team", testutil.WithPeriod(q.Ref(), q.Start, q.End))
	lastQ.Current.Revenue = 250000

	qp := quarterPace(feb, per, history{jan, feb, lastQ})
	require.NotNil(t, qp)
	assert.Equal(t, 1, qp.CurrentQuarter)

	// 180k over 59 of 90 days.
	assert.InDelta(t, 180000/(59.0/90.0), qp.ProjectedRevenue, 1)
	assert.True(t, qp.HasComparison)
	assert.InDelta(t, metrics.CalculatePercentageChange(qp.ProjectedRevenue, 250000), qp.VsLastYearPercent, 1e-9)

	assert.Nil(t, quarterPace(lastQ, q, history{lastQ}), "quarterly periods get no pace")
}

func TestBuildContext_History(t *testing.T) {
	dec := monthSnap(t, 2025, 12, 90, 80, 10)
	jan := monthSnap(t, 2026, 1, 100, 90, 12)
	jan.Current.RunwayMonths = 4.5
	per, err := period.Info(domain.PeriodMonthly, 2026, 1, time.UTC)
	require.NoError(t, err)

	set := metrics.CalculateAllMetrics(jan.Current, jan.Previous, "SEK")
	c := buildContext(jan, per, dec, history{dec, jan}, set, "SEK")

	assert.Equal(t, 1, c.WeeksOfHistory)
	assert.True(t, c.PeriodEnd.Equal(per.End))
	require.NotNil(t, c.RunwayMonths)
	assert.InDelta(t, 4.5, *c.RunwayMonths, 1e-9)
	require.NotNil(t, c.Momentum)
	assert.Nil(t, c.Momentum.Recovery)
	assert.Nil(t, c.YearOverYear)
}

func weekSnap(t *testing.T, year, week int, profit float64) *domain.Snapshot {
	t.Helper()
	p, err := period.Info(domain.PeriodWeekly, year, week, time.UTC)
	require.NoError(t, err)
	s := testutil.NewTestSnapshot("team", testutil.WithPeriod(p.Ref(), p.Start, p.End))
	s.Current.NetProfit = profit
	return s
}

func TestRecordContext(t *testing.T) {
	profit := func(m domain.MetricData) float64 { return m.NetProfit }
	earlier := history{
		weekSnap(t, 2025, 50, 5000),
		weekSnap(t, 2025, 51, 7000),
		weekSnap(t, 2025, 52, 8000),
		weekSnap(t, 2026, 1, 9000),
	}
	cur := weekSnap(t, 2026, 2, 12000)

	tests := []struct {
		name string
		snap *domain.Snapshot
		h    history
		want string
	}{
		{"record", cur, append(earlier, cur), "Best profit week since December 2025"},
		{"too little history", cur, history{earlier[2], earlier[3], cur}, ""},
		{"beaten before", cur, append(history{weekSnap(t, 2025, 49, 15000)}, earlier...), ""},
		{"loss is never a record", weekSnap(t, 2026, 2, -100), earlier, ""},
		{"other period types ignored", cur, history{monthSnap(t, 2025, 10, 0, 0, 1), monthSnap(t, 2025, 11, 0, 0, 1), monthSnap(t, 2025, 12, 0, 0, 1)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recordContext(tt.snap, tt.h, "profit", profit))
		})
	}
}

func TestMarkRecords(t *testing.T) {
	h := history{
		weekSnap(t, 2025, 51, 7000),
		weekSnap(t, 2025, 52, 8000),
		weekSnap(t, 2026, 1, 9000),
	}
	cur := weekSnap(t, 2026, 2, 12000)
	set := metrics.CalculateAllMetrics(cur.Current, cur.Previous, "SEK")

	markRecords(&set, cur, append(h, cur))

	profit, ok := set.Get(domain.MetricNetProfit)
	require.True(t, ok)
	assert.Equal(t, "Best profit week since December 2025", profit.HistoricalContext)
	revenue, _ := set.Get(domain.MetricRevenue)
	assert.Empty(t, revenue.HistoricalContext, "revenue matched earlier weeks")
}
