package metrics

import "github.com/alexanderramin/ledgerpulse/internal/domain"

// Definition is the static description of a metric type. Lower Priority
// values are more important.
type Definition struct {
	Label    string
	Unit     domain.MetricUnit
	Category domain.MetricCategory
	Priority int
}

var definitions = [domain.NumMetricTypes]Definition{
	domain.MetricRevenue:         {"Revenue", domain.UnitCurrency, domain.CategoryFinancial, 1},
	domain.MetricNetProfit:       {"Net Profit", domain.UnitCurrency, domain.CategoryFinancial, 1},
	domain.MetricExpenses:        {"Expenses", domain.UnitCurrency, domain.CategoryFinancial, 2},
	domain.MetricCashFlow:        {"Cash Flow", domain.UnitCurrency, domain.CategoryFinancial, 2},
	domain.MetricProfitMargin:    {"Profit Margin", domain.UnitPercentage, domain.CategoryFinancial, 3},
	domain.MetricBurnRate:        {"Burn Rate", domain.UnitCurrency, domain.CategoryRunway, 3},
	domain.MetricRunwayMonths:    {"Runway", domain.UnitMonths, domain.CategoryRunway, 2},
	domain.MetricCashBalance:     {"Cash Balance", domain.UnitCurrency, domain.CategoryRunway, 2},
	domain.MetricInvoicesSent:    {"Invoices Sent", domain.UnitCount, domain.CategoryInvoicing, 3},
	domain.MetricInvoicesPaid:    {"Invoices Paid", domain.UnitCount, domain.CategoryInvoicing, 3},
	domain.MetricInvoicesOverdue: {"Overdue Invoices", domain.UnitCount, domain.CategoryInvoicing, 2},
	domain.MetricOverdueAmount:   {"Overdue Amount", domain.UnitCurrency, domain.CategoryInvoicing, 2},
	domain.MetricHoursTracked:    {"Hours Tracked", domain.UnitHours, domain.CategoryOperations, 4},
	domain.MetricNewCustomers:    {"New Customers", domain.UnitCount, domain.CategoryCustomers, 3},
}

// DefinitionFor returns the static definition of t. Unknown types get the
// middle priority and an empty category.
func DefinitionFor(t domain.MetricType) Definition {
	if !t.Valid() {
		return Definition{Label: t.String(), Priority: 3}
	}
	return definitions[t]
}
