package domain

import "fmt"

type MetricCategory string

const (
	CategoryFinancial  MetricCategory = "financial"
	CategoryRunway     MetricCategory = "runway"
	CategoryInvoicing  MetricCategory = "invoicing"
	CategoryOperations MetricCategory = "operations"
	CategoryCustomers  MetricCategory = "customers"
)

type MetricUnit string

const (
	UnitCurrency   MetricUnit = "currency"
	UnitPercentage MetricUnit = "percentage"
	UnitMonths     MetricUnit = "months"
	UnitCount      MetricUnit = "count"
	UnitHours      MetricUnit = "hours"
)

type ChangeDirection string

const (
	DirectionUp   ChangeDirection = "up"
	DirectionDown ChangeDirection = "down"
	DirectionFlat ChangeDirection = "flat"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityAlert   Severity = "alert"
)

// Rank orders severities for sorting: alert sorts first.
func (s Severity) Rank() int {
	switch s {
	case SeverityAlert:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

type AnomalyType string

const (
	AnomalySignificantIncrease        AnomalyType = "significant_increase"
	AnomalySignificantDecrease        AnomalyType = "significant_decrease"
	AnomalySignificantExpenseIncrease AnomalyType = "significant_expense_increase"
	AnomalySignificantExpenseDecrease AnomalyType = "significant_expense_decrease"
	AnomalyLowRunway                  AnomalyType = "low_runway"
	AnomalyNegativeProfit             AnomalyType = "negative_profit"
	AnomalyNegativeCashFlow           AnomalyType = "negative_cash_flow"
	AnomalyOverdueInvoices            AnomalyType = "overdue_invoices"
)

type ExpenseAnomalyType string

const (
	ExpenseCategorySpike    ExpenseAnomalyType = "category_spike"
	ExpenseNewCategory      ExpenseAnomalyType = "new_category"
	ExpenseCategoryDecrease ExpenseAnomalyType = "category_decrease"
)

type WeekType string

const (
	WeekGreat       WeekType = "great"
	WeekGood        WeekType = "good"
	WeekQuiet       WeekType = "quiet"
	WeekChallenging WeekType = "challenging"
)

type Mood string

const (
	MoodCelebratory Mood = "celebratory"
	MoodPositive    Mood = "positive"
	MoodNeutral     Mood = "neutral"
	MoodSupportive  Mood = "supportive"
)

type Momentum string

const (
	MomentumAccelerating Momentum = "accelerating"
	MomentumSteady       Momentum = "steady"
	MomentumDecelerating Momentum = "decelerating"
)

type PeriodType string

const (
	PeriodWeekly    PeriodType = "weekly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
)

// ValidPeriodTypes is the canonical set of accepted period type strings.
var ValidPeriodTypes = map[string]bool{
	"weekly": true, "monthly": true, "quarterly": true, "yearly": true,
}

// ParsePeriodType validates s against ValidPeriodTypes.
func ParsePeriodType(s string) (PeriodType, error) {
	if !ValidPeriodTypes[s] {
		return "", fmt.Errorf("invalid period type %q (expected weekly, monthly, quarterly or yearly)", s)
	}
	return PeriodType(s), nil
}

// Noun returns the word used in prose for one period ("week", "month").
func (p PeriodType) Noun() string {
	switch p {
	case PeriodMonthly:
		return "month"
	case PeriodQuarterly:
		return "quarter"
	case PeriodYearly:
		return "year"
	default:
		return "week"
	}
}

type ActionType string

const (
	ActionOverdue       ActionType = "overdue"
	ActionDraft         ActionType = "draft"
	ActionExpenseSpike  ActionType = "expense_spike"
	ActionConcentration ActionType = "concentration"
	ActionRunway        ActionType = "runway"
	ActionUnbilled      ActionType = "unbilled"
)
