package prompts

import (
	"bytes"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/facts"
	"github.com/alexanderramin/ledgerpulse/internal/metrics"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

type fixture struct {
	slots slots.InsightSlots
	facts facts.InsightFacts
}

func build(t *testing.T, cur, prev domain.MetricData, act domain.InsightActivity, currency string, history int) fixture {
	t.Helper()
	set := metrics.CalculateAllMetrics(cur, prev, currency)
	metrics.AddActivityMetrics(&set, act, nil, currency)
	s := slots.ComputeSlots(slots.Input{
		Metrics:     set,
		TopMetrics:  metrics.SelectTopMetrics(set, metrics.DefaultTopMetricsCount),
		Activity:    act,
		Currency:    currency,
		Locale:      "en-US",
		PeriodLabel: "Week 2, 2026",
		PeriodType:  domain.PeriodWeekly,
		Context: slots.Context{
			WeeksOfHistory: history,
			PeriodEnd:      time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
			Anomalies:      metrics.DetectAnomalies(set),
		},
		Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	return fixture{slots: s, facts: facts.ExtractFacts(&s)}
}

func lossFixture(t *testing.T) fixture {
	return build(t,
		domain.MetricData{Revenue: 10000, Expenses: 17148, NetProfit: -7148, RunwayMonths: 1.4},
		domain.MetricData{Revenue: 5000, Expenses: 194376, NetProfit: -189376, RunwayMonths: 1.2},
		domain.InsightActivity{
			MoneyOnTable: domain.MoneyOnTable{
				OverdueInvoices: []domain.OverdueInvoice{{ID: "inv-7", CustomerName: "Acme", Amount: 7500, DaysOverdue: 18}},
			},
		},
		"SEK", 6,
	)
}

func profitFixture(t *testing.T) fixture {
	return build(t,
		domain.MetricData{Revenue: 120200, Expenses: 3139, NetProfit: 117061, CashFlow: 115000, ProfitMargin: 97.4, RunwayMonths: 8},
		domain.MetricData{Revenue: 90000, Expenses: 5000, NetProfit: 85000, CashFlow: 80000, ProfitMargin: 94.4, RunwayMonths: 7},
		domain.InsightActivity{InvoicesSent: 4},
		"USD", 10,
	)
}

func TestBuildSummary_LossWithCriticalRunway(t *testing.T) {
	fx := lossFixture(t)
	p := BuildSummary(&fx.slots, &fx.facts)

	assert.True(t, strings.HasPrefix(p, "<role>"))
	assert.Contains(t, p, "CRITICAL RUNWAY WARNING")
	assert.Contains(t, p, "change: loss decreased 96% vs last week")
	assert.Contains(t, p, "profit: 7,148 kr loss (-7,148 kr)")
	assert.Contains(t, p, "cash lasts until February 22, 2026")
	assert.Contains(t, p, "Acme: 7,500 kr (18 days)")
	assert.Contains(t, p, "expenses MUST be mentioned")
	assert.Contains(t, p, "comfortable")
	assert.NotContains(t, p, "up 96%")
	assert.Contains(t, p, "<pattern_example>")
}

func TestBuildSummary_FirstInsight(t *testing.T) {
	fx := build(t,
		domain.MetricData{Revenue: 15000, Expenses: 3000, NetProfit: 12000, RunwayMonths: 6},
		domain.MetricData{},
		domain.InsightActivity{},
		"EUR", 0,
	)
	require.True(t, fx.facts.IsFirstInsight)

	p := BuildSummary(&fx.slots, &fx.facts)
	assert.Contains(t, p, "FIRST insight")
	assert.Contains(t, p, "Welcome to your weekly insights")
	assert.NotContains(t, p, "change:")
}

func TestSummaryPattern(t *testing.T) {
	f := facts.InsightFacts{ProfitStatus: facts.Profit{Amount: "$1", RawAmount: 1}, Runway: facts.RunwayStatus{IsCritical: true}}
	assert.Equal(t, summaryPatterns["low_runway_profitable"], summaryPattern(&f))

	f = facts.InsightFacts{ProfitStatus: facts.NoActivity{}}
	assert.Equal(t, summaryPatterns["zero_activity"], summaryPattern(&f))

	f = facts.InsightFacts{ProfitStatus: facts.Loss{}, WeekType: domain.WeekChallenging}
	assert.Equal(t, summaryPatterns["challenging"], summaryPattern(&f))

	f = facts.InsightFacts{ProfitStatus: facts.Profit{}, Streak: &facts.Streak{Count: 3}}
	assert.Equal(t, summaryPatterns["streak"], summaryPattern(&f))
}

func TestBuildTitle(t *testing.T) {
	fx := profitFixture(t)
	p := BuildTitle(&fx.slots, &fx.facts)
	assert.Contains(t, p, `"$117,061 profit this week"`)
	assert.Contains(t, p, "Never start with a number")
	assert.NotContains(t, p, "CRITICAL RUNWAY WARNING")
}

func TestBuildStory_IncludesSecondaryContext(t *testing.T) {
	fx := lossFixture(t)
	p := BuildStory(&fx.slots, &fx.facts)
	assert.Contains(t, p, "<context>")
	assert.Contains(t, p, "primary action: Collect 7,500 kr overdue from Acme")
}

func TestBuildActions(t *testing.T) {
	fx := profitFixture(t)
	_, ok := BuildActions(&fx.slots, &fx.facts)
	assert.False(t, ok, "nothing actionable")

	fx = lossFixture(t)
	p, ok := BuildActions(&fx.slots, &fx.facts)
	require.True(t, ok)
	assert.Contains(t, p, "type=overdue entityType=invoice entityId=inv-7")
	assert.Contains(t, p, "type=runway")
	assert.Contains(t, p, `{"actions":[`)
}

func TestCandidates_Order(t *testing.T) {
	s := slots.InsightSlots{
		UnbilledHours:        12,
		ExpenseSpikes:        []slots.ExpenseSpikeSlot{{Category: "Travel", Amount: "$500", Change: 80}},
		ConcentrationWarning: &slots.ConcentrationWarning{CustomerName: "Acme", Percentage: 70, Amount: "$7,000"},
	}
	f := facts.InsightFacts{
		Drafts:  facts.DraftStatus{HasDrafts: true, Drafts: []facts.Draft{{ID: "d1", Company: "Initech", Amount: "$900"}}},
		Runway:  facts.RunwayStatus{Months: 2, IsLow: true},
		Overdue: facts.OverdueStatus{HasOverdue: true, Invoices: []facts.OverdueInvoice{{ID: "o1", Company: "Globex", Amount: "$100", DaysOverdue: 3}}},
	}
	var got []domain.ActionType
	for _, c := range Candidates(&s, &f) {
		got = append(got, c.Type)
	}
	assert.Equal(t, []domain.ActionType{
		domain.ActionOverdue, domain.ActionDraft, domain.ActionExpenseSpike,
		domain.ActionConcentration, domain.ActionRunway, domain.ActionUnbilled,
	}, got)
}

func TestBuildAudio_SpokenForm(t *testing.T) {
	fx := profitFixture(t)
	p := BuildAudio(&fx.slots, &fx.facts)
	assert.Contains(t, p, "profit: 117 thousand dollars profit")
	assert.Contains(t, p, `Open with the period, e.g. "Week 2, 2026"`)
	assert.NotContains(t, p, "$")

	fx = lossFixture(t)
	p = BuildAudio(&fx.slots, &fx.facts)
	assert.Contains(t, p, "largest overdue: Acme owes 7 thousand 500 kronor, 18 days late")
	assert.Contains(t, p, "next step: collect the overdue amount from Acme")
	assert.NotContains(t, p, " kr ")
}

// TestBuilders_QuoteSameFacts checks that every written prompt carries the
// same profit and headline text for random periods.
func TestBuilders_QuoteSameFacts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		revenue := float64(rng.Intn(100000))
		expenses := float64(rng.Intn(100000))
		cur := domain.MetricData{Revenue: revenue, Expenses: expenses, NetProfit: revenue - expenses, RunwayMonths: float64(rng.Intn(24))}
		prev := domain.MetricData{Revenue: float64(rng.Intn(100000)), Expenses: float64(rng.Intn(100000))}
		prev.NetProfit = prev.Revenue - prev.Expenses
		fx := build(t, cur, prev, domain.InsightActivity{}, "SEK", rng.Intn(3))

		profit := facts.ProfitDescription(&fx.facts)
		headline := facts.HeadlineFact(&fx.facts)
		for name, p := range map[string]string{
			"title":   BuildTitle(&fx.slots, &fx.facts),
			"summary": BuildSummary(&fx.slots, &fx.facts),
			"story":   BuildStory(&fx.slots, &fx.facts),
		} {
			assert.Contains(t, p, "profit: "+profit, "trial %d %s", trial, name)
			assert.Contains(t, p, "headline: "+headline, "trial %d %s", trial, name)
			if fx.facts.Runway.IsCritical {
				assert.Contains(t, p, "CRITICAL RUNWAY WARNING", "trial %d %s", trial, name)
			}
		}
	}
}
