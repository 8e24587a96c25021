package domain

import "fmt"

// MetricType is a closed enumeration of every metric the pipeline knows
// about. Its integer value indexes fixed-size metric arrays, so iteration
// order is always declaration order.
type MetricType int

const (
	MetricRevenue MetricType = iota
	MetricNetProfit
	MetricExpenses
	MetricCashFlow
	MetricProfitMargin
	MetricBurnRate
	MetricRunwayMonths
	MetricCashBalance
	MetricInvoicesSent
	MetricInvoicesPaid
	MetricInvoicesOverdue
	MetricOverdueAmount
	MetricHoursTracked
	MetricNewCustomers

	NumMetricTypes
)

var metricTypeNames = [NumMetricTypes]string{
	MetricRevenue:         "revenue",
	MetricNetProfit:       "net_profit",
	MetricExpenses:        "expenses",
	MetricCashFlow:        "cash_flow",
	MetricProfitMargin:    "profit_margin",
	MetricBurnRate:        "burn_rate",
	MetricRunwayMonths:    "runway_months",
	MetricCashBalance:     "cash_balance",
	MetricInvoicesSent:    "invoices_sent",
	MetricInvoicesPaid:    "invoices_paid",
	MetricInvoicesOverdue: "invoices_overdue",
	MetricOverdueAmount:   "overdue_amount",
	MetricHoursTracked:    "hours_tracked",
	MetricNewCustomers:    "new_customers",
}

func (t MetricType) Valid() bool { return t >= 0 && t < NumMetricTypes }

func (t MetricType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("MetricType(%d)", int(t))
	}
	return metricTypeNames[t]
}

func (t MetricType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid metric type %d", int(t))
	}
	return []byte(metricTypeNames[t]), nil
}

func (t *MetricType) UnmarshalText(b []byte) error {
	parsed, err := ParseMetricType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseMetricType maps a snake_case metric name back to its MetricType.
func ParseMetricType(s string) (MetricType, error) {
	for i, name := range metricTypeNames {
		if name == s {
			return MetricType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown metric type %q", s)
}

// AllMetricTypes returns every metric type in declaration order.
func AllMetricTypes() []MetricType {
	out := make([]MetricType, NumMetricTypes)
	for i := range out {
		out[i] = MetricType(i)
	}
	return out
}

// IsCoreFinancial reports membership in {revenue, net_profit, cash_flow, expenses}.
func (t MetricType) IsCoreFinancial() bool {
	switch t {
	case MetricRevenue, MetricNetProfit, MetricCashFlow, MetricExpenses:
		return true
	}
	return false
}

// IsExpense reports whether growth in this metric is bad news.
func (t MetricType) IsExpense() bool {
	return t == MetricExpenses || t == MetricBurnRate
}

type InsightMetric struct {
	Type              MetricType      `json:"type"`
	Label             string          `json:"label"`
	Value             float64         `json:"value"`
	PreviousValue     float64         `json:"previousValue"`
	Change            float64         `json:"change"`
	ChangeDirection   ChangeDirection `json:"changeDirection"`
	Unit              MetricUnit      `json:"unit,omitempty"`
	Currency          string          `json:"currency,omitempty"`
	HistoricalContext string          `json:"historicalContext,omitempty"`
	// ChangeDescription is a prose rendering for activity counts where a
	// raw percentage reads badly ("no new invoices" instead of "-100%").
	ChangeDescription string `json:"changeDescription,omitempty"`
}

type InsightAnomaly struct {
	Type       AnomalyType `json:"type"`
	Severity   Severity    `json:"severity"`
	Message    string      `json:"message"`
	MetricType MetricType  `json:"metricType"`
}

type ExpenseAnomaly struct {
	Type           ExpenseAnomalyType `json:"type"`
	Severity       Severity           `json:"severity"`
	CategoryName   string             `json:"categoryName"`
	CategorySlug   string             `json:"categorySlug"`
	CurrentAmount  float64            `json:"currentAmount"`
	PreviousAmount float64            `json:"previousAmount"`
	Change         float64            `json:"change"`
	Currency       string             `json:"currency"`
	Message        string             `json:"message"`
	Tip            string             `json:"tip,omitempty"`
}

type CategorySpending struct {
	Name   string  `json:"name" yaml:"name" validate:"required"`
	Slug   string  `json:"slug" yaml:"slug" validate:"required"`
	Amount float64 `json:"amount" yaml:"amount" validate:"gte=0"`
}

// MetricData holds one period's aggregated ledger numbers.
type MetricData struct {
	Revenue          float64            `json:"revenue" yaml:"revenue"`
	Expenses         float64            `json:"expenses" yaml:"expenses" validate:"gte=0"`
	NetProfit        float64            `json:"netProfit" yaml:"net_profit"`
	CashFlow         float64            `json:"cashFlow" yaml:"cash_flow"`
	ProfitMargin     float64            `json:"profitMargin" yaml:"profit_margin"`
	RunwayMonths     float64            `json:"runwayMonths" yaml:"runway_months" validate:"gte=0"`
	BurnRate         float64            `json:"burnRate,omitempty" yaml:"burn_rate,omitempty" validate:"gte=0"`
	CashBalance      float64            `json:"cashBalance,omitempty" yaml:"cash_balance,omitempty"`
	CategorySpending []CategorySpending `json:"categorySpending,omitempty" yaml:"category_spending,omitempty" validate:"dive"`
}
