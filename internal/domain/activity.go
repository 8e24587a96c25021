package domain

type OverdueInvoice struct {
	ID           string  `json:"id" yaml:"id" validate:"required"`
	CustomerName string  `json:"customerName" yaml:"customer" validate:"required"`
	Amount       float64 `json:"amount" yaml:"amount" validate:"gt=0"`
	DaysOverdue  int     `json:"daysOverdue" yaml:"days_overdue" validate:"gte=0"`
	// IsUnusual flags a customer who normally pays faster than this.
	IsUnusual     bool   `json:"isUnusual,omitempty" yaml:"is_unusual,omitempty"`
	UnusualReason string `json:"unusualReason,omitempty" yaml:"unusual_reason,omitempty"`
}

type DraftInvoice struct {
	ID           string  `json:"id" yaml:"id" validate:"required"`
	CustomerName string  `json:"customerName" yaml:"customer" validate:"required"`
	Amount       float64 `json:"amount" yaml:"amount" validate:"gt=0"`
}

type MoneyOnTable struct {
	OverdueInvoices []OverdueInvoice `json:"overdueInvoices" yaml:"overdue_invoices" validate:"dive"`
	DraftInvoices   []DraftInvoice   `json:"draftInvoices" yaml:"draft_invoices" validate:"dive"`
	// UnbilledHours is tracked time not yet on any invoice.
	UnbilledHours float64 `json:"unbilledHours,omitempty" yaml:"unbilled_hours,omitempty" validate:"gte=0"`
}

// TotalAmount sums overdue and draft invoice amounts.
func (m MoneyOnTable) TotalAmount() float64 {
	var total float64
	for _, inv := range m.OverdueInvoices {
		total += inv.Amount
	}
	for _, inv := range m.DraftInvoices {
		total += inv.Amount
	}
	return total
}

type Payment struct {
	Customer string  `json:"customer" yaml:"customer" validate:"required"`
	Amount   float64 `json:"amount" yaml:"amount" validate:"gt=0"`
}

type Streak struct {
	Type        string `json:"type" yaml:"type"`
	Count       int    `json:"count" yaml:"count" validate:"gte=0"`
	Description string `json:"description" yaml:"description"`
}

type Comparison struct {
	Description string `json:"description" yaml:"description"`
}

type ActivityContext struct {
	Streak     *Streak     `json:"streak,omitempty" yaml:"streak,omitempty"`
	Comparison *Comparison `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

// InsightActivity is the non-ledger activity of one period.
type InsightActivity struct {
	InvoicesSent    int              `json:"invoicesSent" yaml:"invoices_sent" validate:"gte=0"`
	InvoicesPaid    int              `json:"invoicesPaid" yaml:"invoices_paid" validate:"gte=0"`
	InvoicesOverdue int              `json:"invoicesOverdue" yaml:"invoices_overdue" validate:"gte=0"`
	HoursTracked    float64          `json:"hoursTracked" yaml:"hours_tracked" validate:"gte=0"`
	NewCustomers    int              `json:"newCustomers" yaml:"new_customers" validate:"gte=0"`
	LargestPayment  *Payment         `json:"largestPayment,omitempty" yaml:"largest_payment,omitempty"`
	MoneyOnTable    MoneyOnTable     `json:"moneyOnTable" yaml:"money_on_table"`
	Context         *ActivityContext `json:"context,omitempty" yaml:"context,omitempty"`
}
