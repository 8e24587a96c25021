package metrics

import (
	"fmt"
	"math"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

const flatThreshold = 0.5

// CalculatePercentageChange returns the change from previous to current as
// a percentage of |previous|. A zero previous value yields 0 when current is
// also zero and 100 otherwise.
func CalculatePercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / math.Abs(previous) * 100
}

// ChangeDirectionFor classifies a percentage change with a ±0.5 dead band.
func ChangeDirectionFor(change float64) domain.ChangeDirection {
	switch {
	case change > flatThreshold:
		return domain.DirectionUp
	case change < -flatThreshold:
		return domain.DirectionDown
	default:
		return domain.DirectionFlat
	}
}

// NewMetric builds an InsightMetric with label and unit from the metric
// definition and change fields computed from the two values.
func NewMetric(t domain.MetricType, current, previous float64, currency string) domain.InsightMetric {
	def := DefinitionFor(t)
	change := CalculatePercentageChange(current, previous)
	m := domain.InsightMetric{
		Type:            t,
		Label:           def.Label,
		Value:           current,
		PreviousValue:   previous,
		Change:          change,
		ChangeDirection: ChangeDirectionFor(change),
		Unit:            def.Unit,
	}
	if def.Unit == domain.UnitCurrency {
		m.Currency = currency
	}
	return m
}

// CalculateAllMetrics derives the ledger metrics for a period comparison.
// Burn rate and cash balance are included only when either period reports them.
func CalculateAllMetrics(current, previous domain.MetricData, currency string) Set {
	s := NewSet(
		NewMetric(domain.MetricRevenue, current.Revenue, previous.Revenue, currency),
		NewMetric(domain.MetricExpenses, current.Expenses, previous.Expenses, currency),
		NewMetric(domain.MetricNetProfit, current.NetProfit, previous.NetProfit, currency),
		NewMetric(domain.MetricCashFlow, current.CashFlow, previous.CashFlow, currency),
		NewMetric(domain.MetricProfitMargin, current.ProfitMargin, previous.ProfitMargin, currency),
		NewMetric(domain.MetricRunwayMonths, current.RunwayMonths, previous.RunwayMonths, currency),
	)
	if current.BurnRate != 0 || previous.BurnRate != 0 {
		s.Put(NewMetric(domain.MetricBurnRate, current.BurnRate, previous.BurnRate, currency))
	}
	if current.CashBalance != 0 || previous.CashBalance != 0 {
		s.Put(NewMetric(domain.MetricCashBalance, current.CashBalance, previous.CashBalance, currency))
	}
	return s
}

// AddActivityMetrics adds invoice, time and customer metrics to s. A nil
// previous activity compares against zero.
func AddActivityMetrics(s *Set, current domain.InsightActivity, previous *domain.InsightActivity, currency string) {
	var prev domain.InsightActivity
	if previous != nil {
		prev = *previous
	}

	sent := NewMetric(domain.MetricInvoicesSent, float64(current.InvoicesSent), float64(prev.InvoicesSent), currency)
	sent.ChangeDescription = DescribeCountChange(current.InvoicesSent, prev.InvoicesSent, "invoices")
	s.Put(sent)

	s.Put(NewMetric(domain.MetricInvoicesPaid, float64(current.InvoicesPaid), float64(prev.InvoicesPaid), currency))
	s.Put(NewMetric(domain.MetricInvoicesOverdue, float64(current.InvoicesOverdue), float64(prev.InvoicesOverdue), currency))
	s.Put(NewMetric(domain.MetricHoursTracked, current.HoursTracked, prev.HoursTracked, currency))
	s.Put(NewMetric(domain.MetricNewCustomers, float64(current.NewCustomers), float64(prev.NewCustomers), currency))

	var overdueNow, overduePrev float64
	for _, inv := range current.MoneyOnTable.OverdueInvoices {
		overdueNow += inv.Amount
	}
	for _, inv := range prev.MoneyOnTable.OverdueInvoices {
		overduePrev += inv.Amount
	}
	s.Put(NewMetric(domain.MetricOverdueAmount, overdueNow, overduePrev, currency))
}

// DescribeCountChange renders a count comparison in words so prompts never
// show "down 100%" for an ordinary quiet stretch.
func DescribeCountChange(current, previous int, noun string) string {
	switch {
	case current == 0 && previous == 0:
		return "no activity"
	case current == 0:
		return fmt.Sprintf("no new %s (%d last time)", noun, previous)
	case previous == 0:
		return fmt.Sprintf("%d new, none last time", current)
	}
	diff := current - previous
	if diff == 0 {
		return "same as last time"
	}
	if abs(diff) <= 5 {
		return fmt.Sprintf("%+d", diff)
	}
	return fmt.Sprintf("%+.0f%%", CalculatePercentageChange(float64(current), float64(previous)))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
