package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

func findAnomaly(as []domain.InsightAnomaly, t domain.AnomalyType) (domain.InsightAnomaly, bool) {
	for _, a := range as {
		if a.Type == t {
			return a, true
		}
	}
	return domain.InsightAnomaly{}, false
}

func TestDetectAnomalies_Runway(t *testing.T) {
	tests := []struct {
		months   float64
		want     domain.Severity
		expected bool
		contains string
	}{
		{1.5, domain.SeverityAlert, true, "URGENT: Only 1.5 months"},
		{2, domain.SeverityAlert, true, "focus on cash collection"},
		{5, domain.SeverityWarning, true, "Runway is 5.0 months"},
		{8, "", false, ""},
	}
	for _, tt := range tests {
		set := NewSet(metric(domain.MetricRunwayMonths, tt.months, tt.months))
		a, ok := findAnomaly(DetectAnomalies(set), domain.AnomalyLowRunway)
		assert.Equal(t, tt.expected, ok, "runway %.1f", tt.months)
		if tt.expected {
			assert.Equal(t, tt.want, a.Severity, "runway %.1f", tt.months)
			assert.Contains(t, a.Message, tt.contains)
		}
	}
}

func TestDetectAnomalies_ChangeDirections(t *testing.T) {
	set := NewSet(
		metric(domain.MetricRevenue, 150, 100),
		metric(domain.MetricExpenses, 150, 100),
		metric(domain.MetricCashFlow, 50, 100),
		metric(domain.MetricBurnRate, 50, 100),
	)
	as := DetectAnomalies(set)

	inc, ok := findAnomaly(as, domain.AnomalySignificantIncrease)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityInfo, inc.Severity)
	assert.Equal(t, "Revenue increased by 50%", inc.Message)

	expInc, ok := findAnomaly(as, domain.AnomalySignificantExpenseIncrease)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityWarning, expInc.Severity)

	dec, ok := findAnomaly(as, domain.AnomalySignificantDecrease)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityWarning, dec.Severity)
	assert.Equal(t, domain.MetricCashFlow, dec.MetricType)

	burn, ok := findAnomaly(as, domain.AnomalySignificantExpenseDecrease)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityInfo, burn.Severity)
}

func TestDetectAnomalies_MultiplePerMetric(t *testing.T) {
	set := NewSet(metric(domain.MetricNetProfit, -500, 1000))
	as := DetectAnomalies(set)
	require.Len(t, as, 2)
	assert.Equal(t, domain.AnomalySignificantDecrease, as[0].Type)
	assert.Equal(t, domain.AnomalyNegativeProfit, as[1].Type)
	assert.Equal(t, "Business is currently unprofitable", as[1].Message)
}

func TestDetectAnomalies_OverdueInvoices(t *testing.T) {
	one, ok := findAnomaly(DetectAnomalies(NewSet(metric(domain.MetricInvoicesOverdue, 1, 1))), domain.AnomalyOverdueInvoices)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityWarning, one.Severity)
	assert.Equal(t, "1 overdue invoice need attention", one.Message)

	many, ok := findAnomaly(DetectAnomalies(NewSet(metric(domain.MetricInvoicesOverdue, 6, 6))), domain.AnomalyOverdueInvoices)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityAlert, many.Severity)
	assert.Equal(t, "6 overdue invoices need attention", many.Message)
}

func TestIsPeriodicCategory(t *testing.T) {
	assert.True(t, IsPeriodicCategory("payroll-tax", "Payroll Tax"))
	assert.True(t, IsPeriodicCategory("internet-and-telephone", ""))
	assert.True(t, IsPeriodicCategory("custom", "Bank Fees"))
	assert.False(t, IsPeriodicCategory("marketing", "Marketing"))
	assert.False(t, IsPeriodicCategory("travel", ""))
}

func TestDetectExpenseAnomalies(t *testing.T) {
	current := []domain.CategorySpending{
		{Name: "Marketing", Slug: "marketing", Amount: 1000},
		{Name: "Travel", Slug: "travel", Amount: 130},
		{Name: "Equipment", Slug: "equipment", Amount: 800},
		{Name: "Meals", Slug: "meals", Amount: 40},
		{Name: "Office", Slug: "office", Amount: 100},
		{Name: "Payroll", Slug: "payroll", Amount: 90000},
	}
	previous := []domain.CategorySpending{
		{Name: "Marketing", Slug: "marketing", Amount: 400},
		{Name: "Travel", Slug: "travel", Amount: 100},
		{Name: "Office", Slug: "office", Amount: 500},
		{Name: "Payroll", Slug: "payroll", Amount: 10000},
	}

	got := DetectExpenseAnomalies(current, previous, "USD")

	require.Len(t, got, 3)
	// warnings first, larger absolute move first
	assert.Equal(t, domain.ExpenseNewCategory, got[0].Type)
	assert.Equal(t, "equipment", got[0].CategorySlug)
	assert.Equal(t, domain.SeverityWarning, got[0].Severity)
	assert.Equal(t, "New expense category: Equipment", got[0].Message)
	assert.Equal(t, "Review this new expense category to ensure it's expected.", got[0].Tip)

	assert.Equal(t, domain.ExpenseCategorySpike, got[1].Type)
	assert.Equal(t, "marketing", got[1].CategorySlug)
	assert.InDelta(t, 150.0, got[1].Change, 1e-9)
	assert.Equal(t, "Review campaign spending and ROI.", got[1].Tip)

	assert.Equal(t, domain.ExpenseCategoryDecrease, got[2].Type)
	assert.Equal(t, "office", got[2].CategorySlug)
	assert.Equal(t, domain.SeverityInfo, got[2].Severity)
	assert.Equal(t, "Office decreased 80%", got[2].Message)
}

func TestDetectExpenseAnomalies_ModerateSpikeIsInfo(t *testing.T) {
	got := DetectExpenseAnomalies(
		[]domain.CategorySpending{{Name: "Travel", Slug: "travel", Amount: 140}},
		[]domain.CategorySpending{{Name: "Travel", Slug: "travel", Amount: 80}},
		"USD",
	)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SeverityInfo, got[0].Severity)
	assert.Equal(t, "Review travel bookings and reimbursements.", got[0].Tip)
}
