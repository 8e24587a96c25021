// Package slots flattens metrics, activity and period context into one
// prompt-ready record. Every amount in it is rendered through
// metrics.FormatMetricValue so downstream text never reformats numbers.
package slots

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/metrics"
	"github.com/alexanderramin/ledgerpulse/internal/profitchange"
)

type OverdueSlot struct {
	ID            string
	Company       string
	Amount        string
	RawAmount     float64
	DaysOverdue   int
	IsUnusual     bool
	UnusualReason string
}

type DraftSlot struct {
	ID        string
	Company   string
	Amount    string
	RawAmount float64
}

type ExpenseSpikeSlot struct {
	Category  string
	Amount    string
	RawAmount float64
	Change    float64
	Tip       string
}

type ConcentrationWarning struct {
	CustomerName string
	Percentage   float64
	Amount       string
}

type AnomalySlot struct {
	Type     domain.AnomalyType
	Severity domain.Severity
	Message  string
}

type PaymentSlot struct {
	Customer  string
	Amount    string
	RawAmount float64
}

type StreakSlot struct {
	Type        string
	Count       int
	Description string
}

type InvoicesDueSlot struct {
	Count  int
	Amount string
}

// InsightSlots is the pre-formatted snapshot every prompt builder reads.
type InsightSlots struct {
	WeekType  domain.WeekType
	Highlight Highlight

	TopMetrics []domain.InsightMetric

	Profit               string
	ProfitRaw            float64
	PreviousProfitRaw    float64
	Revenue              string
	RevenueRaw           float64
	Expenses             string
	ExpensesRaw          float64
	Margin               string
	MarginRaw            float64
	Runway               int
	RunwayExhaustionDate string
	CashFlow             string
	CashFlowRaw          float64
	CashFlowExplanation  string

	ProfitChange            float64
	ProfitDirection         domain.ChangeDirection
	ProfitTransition        profitchange.Transition
	ProfitChangeDescription string
	RevenueChange           float64
	RevenueDirection        domain.ChangeDirection

	HistoricalContext string
	IsPersonalBest    bool

	HasOverdue     bool
	OverdueTotal   string
	OverdueCount   int
	Overdue        []OverdueSlot
	LargestOverdue *OverdueSlot

	HasDrafts   bool
	DraftsTotal string
	DraftsCount int
	Drafts      []DraftSlot

	HasExpenseSpikes     bool
	ExpenseSpikes        []ExpenseSpikeSlot
	ConcentrationWarning *ConcentrationWarning

	Anomalies   []AnomalySlot
	HasAlerts   bool
	HasWarnings bool

	InvoicesPaid       int
	InvoicesSent       int
	InvoicesSentChange string
	HoursTracked       float64
	UnbilledHours      float64
	NewCustomers       int
	LargestPayment     *PaymentSlot

	Streak              *StreakSlot
	Momentum            domain.Momentum
	IsRecovery          bool
	RecoveryDescription string
	VsAverage           string

	YoYRevenue  string
	YoYProfit   string
	QuarterPace string

	NextWeekInvoicesDue *InvoicesDueSlot

	Currency       string
	Locale         string
	PeriodLabel    string
	PeriodType     domain.PeriodType
	IsFirstInsight bool
}

// Format renders an amount exactly the way every other slot amount is rendered.
func (s *InsightSlots) Format(amount float64) string {
	return metrics.FormatCurrency(amount, s.Currency, s.Locale)
}

type RecoveryContext struct {
	IsRecovery  bool
	Description string
}

type MomentumContext struct {
	Momentum domain.Momentum
	Recovery *RecoveryContext
}

type YearOverYear struct {
	HasComparison        bool
	RevenueChangePercent float64
	ProfitChangePercent  float64
}

type QuarterPace struct {
	ProjectedRevenue  float64
	CurrentQuarter    int
	HasComparison     bool
	VsLastYearPercent float64
}

type CustomerShare struct {
	Name       string
	Revenue    float64
	Percentage float64
}

type RevenueConcentration struct {
	TopCustomer    *CustomerShare
	IsConcentrated bool
}

type InvoicesDue struct {
	Count       int
	TotalAmount float64
}

// Context carries optional period context. Zero values mean "not known".
type Context struct {
	Momentum             *MomentumContext
	YearOverYear         *YearOverYear
	QuarterPace          *QuarterPace
	RunwayMonths         *float64
	PeriodEnd            time.Time
	WeeksOfHistory       int
	ExpenseAnomalies     []domain.ExpenseAnomaly
	RevenueConcentration *RevenueConcentration
	Anomalies            []domain.InsightAnomaly
	InvoicesDue          *InvoicesDue
}

// Input is everything ComputeSlots needs for one (team, period).
type Input struct {
	Metrics     metrics.Set
	TopMetrics  []domain.InsightMetric
	Activity    domain.InsightActivity
	Currency    string
	Locale      string
	PeriodLabel string
	PeriodType  domain.PeriodType
	Context     Context
	// Logger receives data-consistency repairs. Defaults to slog.Default().
	Logger *slog.Logger
}

const (
	maxRunwayForDate   = 24.0
	daysPerMonth       = 30
	cashFlowRelDiff    = 0.2
	cashFlowAbsDiff    = 500.0
	maxExpenseSpikes   = 2
	minSpikeChange     = 50.0
	exhaustionDateForm = "January 2, 2006"
)

// ComputeSlots assembles InsightSlots. It never fails: missing metrics
// read as zero.
func ComputeSlots(in Input) InsightSlots {
	logger := in.Logger
	if logger == nil {
		logger = slog.Default()
	}
	locale := in.Locale
	if locale == "" {
		locale = metrics.DefaultLocale
	}
	s := InsightSlots{
		TopMetrics:  in.TopMetrics,
		Currency:    in.Currency,
		Locale:      locale,
		PeriodLabel: in.PeriodLabel,
		PeriodType:  in.PeriodType,
	}
	ctx := in.Context

	profitM, _ := in.Metrics.Get(domain.MetricNetProfit)
	revenueM, _ := in.Metrics.Get(domain.MetricRevenue)
	expensesM, _ := in.Metrics.Get(domain.MetricExpenses)
	marginM, hasMargin := in.Metrics.Get(domain.MetricProfitMargin)
	cashFlowM, _ := in.Metrics.Get(domain.MetricCashFlow)
	runwayM, _ := in.Metrics.Get(domain.MetricRunwayMonths)

	profit := profitM.Value
	revenue := revenueM.Value
	expenses := expensesM.Value

	// profit = revenue - expenses must hold for the numbers we show.
	if implied := revenue - profit; expenses == 0 && implied > 0 {
		logger.Warn("data fix: expenses derived from revenue and profit",
			"revenue", revenue, "profit", profit, "derived_expenses", implied)
		expenses = implied
	}
	if implied := profit + expenses; revenue == 0 && implied > 0 && profit > 0 {
		logger.Warn("data fix: revenue derived from profit and expenses",
			"profit", profit, "expenses", expenses, "derived_revenue", implied)
		revenue = implied
	}

	margin := 0.0
	switch {
	case hasMargin:
		margin = marginM.Value
	case revenue > 0:
		margin = profit / revenue * 100
	}

	runway := runwayM.Value
	if ctx.RunwayMonths != nil {
		runway = *ctx.RunwayMonths
	}

	s.ProfitRaw, s.Profit = profit, s.Format(profit)
	s.PreviousProfitRaw = profitM.PreviousValue
	s.RevenueRaw, s.Revenue = revenue, s.Format(revenue)
	s.ExpensesRaw, s.Expenses = expenses, s.Format(expenses)
	s.MarginRaw, s.Margin = margin, fmt.Sprintf("%.1f", margin)
	s.CashFlowRaw, s.CashFlow = cashFlowM.Value, s.Format(cashFlowM.Value)
	s.Runway = int(math.Round(runway))

	if runway > 0 && runway < maxRunwayForDate && !ctx.PeriodEnd.IsZero() {
		days := int(math.Round(runway * daysPerMonth))
		s.RunwayExhaustionDate = ctx.PeriodEnd.AddDate(0, 0, days).Format(exhaustionDateForm)
	}
	s.CashFlowExplanation = cashFlowExplanation(s.CashFlowRaw, profit)

	s.ProfitChange = profitM.Change
	s.ProfitDirection = directionOr(profitM.ChangeDirection)
	s.RevenueChange = revenueM.Change
	s.RevenueDirection = directionOr(revenueM.ChangeDirection)
	s.ProfitTransition = profitchange.Classify(profit, profitM.PreviousValue, profitM.Change)
	s.ProfitChangeDescription = profitchange.Describe(s.ProfitTransition, profitM.Change)

	s.HistoricalContext = domain.CoalesceStr(profitM.HistoricalContext, revenueM.HistoricalContext)
	hc := strings.ToLower(s.HistoricalContext)
	s.IsPersonalBest = strings.Contains(hc, "best") || strings.Contains(hc, "ever")

	s.WeekType = DetermineWeekType(profit, s.ProfitChange, revenue, s.RevenueChange, s.IsPersonalBest)

	fillMoneyOnTable(&s, in.Activity.MoneyOnTable)
	fillActivity(&s, in)
	fillComparisons(&s, ctx)
	fillRisks(&s, ctx)

	s.Highlight = computeHighlight(highlightInput{
		isPersonalBest:      s.IsPersonalBest,
		historicalContext:   s.HistoricalContext,
		isRecovery:          s.IsRecovery,
		recoveryDescription: s.RecoveryDescription,
		streak:              s.Streak,
		largestPayment:      s.LargestPayment,
		yoyProfit:           s.YoYProfit,
		profitRaw:           profit,
		previousProfitRaw:   profitM.PreviousValue,
		vsAverage:           s.VsAverage,
	})

	s.IsFirstInsight = ctx.WeeksOfHistory == 0
	return s
}

func directionOr(d domain.ChangeDirection) domain.ChangeDirection {
	if d == "" {
		return domain.DirectionFlat
	}
	return d
}

func cashFlowExplanation(cashFlow, profit float64) string {
	threshold := math.Max(math.Abs(profit)*cashFlowRelDiff, cashFlowAbsDiff)
	if profit == 0 || math.Abs(cashFlow-profit) <= threshold {
		return ""
	}
	if cashFlow > profit {
		return "Cash flow exceeds profit due to collected receivables from previous periods"
	}
	return "Cash flow is lower than profit because some revenue hasn't been collected yet"
}

func fillMoneyOnTable(s *InsightSlots, m domain.MoneyOnTable) {
	var overdueTotal float64
	for _, inv := range m.OverdueInvoices {
		s.Overdue = append(s.Overdue, OverdueSlot{
			ID:            inv.ID,
			Company:       inv.CustomerName,
			Amount:        s.Format(inv.Amount),
			RawAmount:     inv.Amount,
			DaysOverdue:   inv.DaysOverdue,
			IsUnusual:     inv.IsUnusual,
			UnusualReason: inv.UnusualReason,
		})
		overdueTotal += inv.Amount
	}
	for i := range s.Overdue {
		if s.LargestOverdue == nil || s.Overdue[i].RawAmount > s.LargestOverdue.RawAmount {
			largest := s.Overdue[i]
			s.LargestOverdue = &largest
		}
	}
	s.HasOverdue = len(s.Overdue) > 0
	s.OverdueCount = len(s.Overdue)
	s.OverdueTotal = s.Format(overdueTotal)

	var draftsTotal float64
	for _, inv := range m.DraftInvoices {
		s.Drafts = append(s.Drafts, DraftSlot{
			ID:        inv.ID,
			Company:   inv.CustomerName,
			Amount:    s.Format(inv.Amount),
			RawAmount: inv.Amount,
		})
		draftsTotal += inv.Amount
	}
	s.HasDrafts = len(s.Drafts) > 0
	s.DraftsCount = len(s.Drafts)
	s.DraftsTotal = s.Format(draftsTotal)
	s.UnbilledHours = m.UnbilledHours
}

func fillActivity(s *InsightSlots, in Input) {
	a := in.Activity
	s.InvoicesPaid = a.InvoicesPaid
	s.InvoicesSent = a.InvoicesSent
	s.HoursTracked = a.HoursTracked
	s.NewCustomers = a.NewCustomers
	if sent, ok := in.Metrics.Get(domain.MetricInvoicesSent); ok {
		s.InvoicesSentChange = sent.ChangeDescription
	}
	if a.LargestPayment != nil {
		s.LargestPayment = &PaymentSlot{
			Customer:  a.LargestPayment.Customer,
			Amount:    s.Format(a.LargestPayment.Amount),
			RawAmount: a.LargestPayment.Amount,
		}
	}
	if a.Context != nil {
		if st := a.Context.Streak; st != nil {
			s.Streak = &StreakSlot{Type: st.Type, Count: st.Count, Description: st.Description}
		}
		if c := a.Context.Comparison; c != nil {
			s.VsAverage = c.Description
		}
	}
	if m := in.Context.Momentum; m != nil {
		s.Momentum = m.Momentum
		if r := m.Recovery; r != nil {
			s.IsRecovery = r.IsRecovery
			s.RecoveryDescription = r.Description
		}
	}
	if due := in.Context.InvoicesDue; due != nil {
		s.NextWeekInvoicesDue = &InvoicesDueSlot{Count: due.Count, Amount: s.Format(due.TotalAmount)}
	}
}

func fillComparisons(s *InsightSlots, ctx Context) {
	if yoy := ctx.YearOverYear; yoy != nil && yoy.HasComparison {
		s.YoYRevenue = yearOverYearPhrase(yoy.RevenueChangePercent)
		s.YoYProfit = yearOverYearPhrase(yoy.ProfitChangePercent)
	}
	if qp := ctx.QuarterPace; qp != nil && qp.ProjectedRevenue > 0 {
		projected := s.Format(qp.ProjectedRevenue)
		if qp.HasComparison && qp.VsLastYearPercent != 0 {
			dir := "ahead of"
			if qp.VsLastYearPercent < 0 {
				dir = "behind"
			}
			s.QuarterPace = fmt.Sprintf("On pace for %s this Q%d — %.0f%% %s Q%d last year",
				projected, qp.CurrentQuarter, math.Abs(qp.VsLastYearPercent), dir, qp.CurrentQuarter)
		} else {
			s.QuarterPace = fmt.Sprintf("On pace for %s this Q%d", projected, qp.CurrentQuarter)
		}
	}
}

func yearOverYearPhrase(pct float64) string {
	if pct == 0 {
		return ""
	}
	dir := "up"
	if pct < 0 {
		dir = "down"
	}
	return fmt.Sprintf("%s %.0f%% vs last year", dir, math.Abs(pct))
}

func fillRisks(s *InsightSlots, ctx Context) {
	for _, ea := range ctx.ExpenseAnomalies {
		if len(s.ExpenseSpikes) >= maxExpenseSpikes {
			break
		}
		spike := ea.Type == domain.ExpenseCategorySpike && ea.Change >= minSpikeChange
		if !spike && ea.Type != domain.ExpenseNewCategory {
			continue
		}
		s.ExpenseSpikes = append(s.ExpenseSpikes, ExpenseSpikeSlot{
			Category:  ea.CategoryName,
			Amount:    s.Format(ea.CurrentAmount),
			RawAmount: ea.CurrentAmount,
			Change:    math.Round(ea.Change),
			Tip:       ea.Tip,
		})
	}
	s.HasExpenseSpikes = len(s.ExpenseSpikes) > 0

	if rc := ctx.RevenueConcentration; rc != nil && rc.IsConcentrated && rc.TopCustomer != nil {
		s.ConcentrationWarning = &ConcentrationWarning{
			CustomerName: rc.TopCustomer.Name,
			Percentage:   rc.TopCustomer.Percentage,
			Amount:       s.Format(rc.TopCustomer.Revenue),
		}
	}

	for _, a := range ctx.Anomalies {
		s.Anomalies = append(s.Anomalies, AnomalySlot{Type: a.Type, Severity: a.Severity, Message: a.Message})
		switch a.Severity {
		case domain.SeverityAlert:
			s.HasAlerts = true
		case domain.SeverityWarning:
			s.HasWarnings = true
		}
	}
}
