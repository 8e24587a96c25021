// Package facts derives the canonical InsightFacts snapshot from slots.
// Facts are computed once per generation and read by every text builder,
// which is what keeps independently generated fragments consistent.
package facts

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/profitchange"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

type ProfitKind string

const (
	ProfitKindProfit     ProfitKind = "profit"
	ProfitKindLoss       ProfitKind = "loss"
	ProfitKindBreakEven  ProfitKind = "break-even"
	ProfitKindNoActivity ProfitKind = "no-activity"
)

// ProfitStatus holds exactly one of Profit, Loss, BreakEven or NoActivity.
type ProfitStatus interface {
	Kind() ProfitKind
	isProfitStatus()
}

// Profit and Loss carry a positive magnitude and its formatted rendering.
type Profit struct {
	Amount    string
	RawAmount float64
}

type Loss struct {
	Amount    string
	RawAmount float64
}

type BreakEven struct{}
type NoActivity struct{}

func (Profit) Kind() ProfitKind     { return ProfitKindProfit }
func (Loss) Kind() ProfitKind       { return ProfitKindLoss }
func (BreakEven) Kind() ProfitKind  { return ProfitKindBreakEven }
func (NoActivity) Kind() ProfitKind { return ProfitKindNoActivity }

func (Profit) isProfitStatus()     {}
func (Loss) isProfitStatus()       {}
func (BreakEven) isProfitStatus()  {}
func (NoActivity) isProfitStatus() {}

// RevenueStatus holds exactly one of Revenue or NoRevenue.
type RevenueStatus interface {
	HasRevenue() bool
	isRevenueStatus()
}

type Revenue struct {
	Amount    string
	RawAmount float64
}

type NoRevenue struct{}

func (Revenue) HasRevenue() bool   { return true }
func (NoRevenue) HasRevenue() bool { return false }
func (Revenue) isRevenueStatus()   {}
func (NoRevenue) isRevenueStatus() {}

type RunwayStatus struct {
	Months         int
	ExhaustionDate string
	IsCritical     bool
	IsLow          bool
}

type OverdueInvoice struct {
	ID            string
	Company       string
	Amount        string
	RawAmount     float64
	DaysOverdue   int
	IsUnusual     bool
	UnusualReason string
}

type OverdueStatus struct {
	HasOverdue bool
	Count      int
	Total      string
	TotalRaw   float64
	Largest    *OverdueInvoice
	Invoices   []OverdueInvoice
}

type Draft struct {
	ID        string
	Company   string
	Amount    string
	RawAmount float64
}

type DraftStatus struct {
	HasDrafts bool
	Count     int
	Total     string
	TotalRaw  float64
	Drafts    []Draft
}

type Streak struct {
	Count       int
	Description string
}

type Payment struct {
	Customer  string
	Amount    string
	RawAmount float64
}

// InsightFacts is the single source of truth for every text builder.
// Optional phrases are empty strings when absent.
type InsightFacts struct {
	PeriodLabel  string
	PeriodType   domain.PeriodType
	Currency     string
	CurrencyWord string

	WeekType domain.WeekType
	Mood     domain.Mood

	ProfitStatus   ProfitStatus
	RevenueStatus  RevenueStatus
	ExpensesAmount string
	ExpensesRaw    float64
	MarginPercent  *float64

	Runway RunwayStatus

	ProfitTransition profitchange.Transition
	ProfitChange     string
	RevenueChange    string

	Overdue OverdueStatus
	Drafts  DraftStatus

	HistoricalContext   string
	IsPersonalBest      bool
	IsRecovery          bool
	RecoveryDescription string
	Streak              *Streak

	YoYRevenue  string
	YoYProfit   string
	QuarterPace string

	LargestPayment *Payment

	HasAlerts   bool
	HasWarnings bool
	Alerts      []string
	Warnings    []string

	IsFirstInsight bool
}

const (
	runwayCriticalMonths = 2
	runwayLowMonths      = 3
	minProfitChange      = 5.0
	minRevenueChange     = 15.0
	positiveProfitChange = 20.0
)

// ExtractFacts derives facts from s. It is pure: equal slots give equal facts.
func ExtractFacts(s *slots.InsightSlots) InsightFacts {
	f := InsightFacts{
		PeriodLabel:         s.PeriodLabel,
		PeriodType:          s.PeriodType,
		Currency:            s.Currency,
		CurrencyWord:        CurrencyWord(s.Currency),
		WeekType:            s.WeekType,
		Mood:                computeMood(s),
		ProfitStatus:        profitStatus(s),
		RevenueStatus:       revenueStatus(s),
		ExpensesRaw:         s.ExpensesRaw,
		ProfitTransition:    s.ProfitTransition,
		HistoricalContext:   s.HistoricalContext,
		IsPersonalBest:      s.IsPersonalBest,
		IsRecovery:          s.IsRecovery,
		RecoveryDescription: s.RecoveryDescription,
		YoYRevenue:          s.YoYRevenue,
		YoYProfit:           s.YoYProfit,
		QuarterPace:         s.QuarterPace,
		HasAlerts:           s.HasAlerts,
		HasWarnings:         s.HasWarnings,
		IsFirstInsight:      s.IsFirstInsight,
	}

	if s.ExpensesRaw > 0 {
		f.ExpensesAmount = s.Expenses
	}
	if s.RevenueRaw > 0 {
		margin := s.MarginRaw
		f.MarginPercent = &margin
	}

	f.Runway = RunwayStatus{
		Months:         s.Runway,
		ExhaustionDate: s.RunwayExhaustionDate,
		IsCritical:     s.Runway < runwayCriticalMonths,
		IsLow:          s.Runway < runwayLowMonths,
	}

	f.Overdue = overdueStatus(s)
	f.Drafts = draftStatus(s)

	if math.Abs(s.ProfitChange) >= minProfitChange && s.ProfitChangeDescription != "" &&
		s.ProfitChangeDescription != profitchange.FlatPhrase {
		f.ProfitChange = s.ProfitChangeDescription
	}
	switch {
	case s.RevenueRaw == 0:
		f.RevenueChange = "no revenue this " + s.PeriodType.Noun()
	case math.Abs(s.RevenueChange) >= minRevenueChange:
		dir := "up"
		if s.RevenueChange < 0 {
			dir = "down"
		}
		f.RevenueChange = fmt.Sprintf("%s %.0f%%", dir, math.Abs(math.Round(s.RevenueChange)))
	}

	if s.Streak != nil {
		f.Streak = &Streak{Count: s.Streak.Count, Description: s.Streak.Description}
	}
	if p := s.LargestPayment; p != nil {
		f.LargestPayment = &Payment{Customer: p.Customer, Amount: p.Amount, RawAmount: p.RawAmount}
	}

	for _, a := range s.Anomalies {
		switch a.Severity {
		case domain.SeverityAlert:
			f.Alerts = append(f.Alerts, a.Message)
		case domain.SeverityWarning:
			f.Warnings = append(f.Warnings, a.Message)
		}
	}
	return f
}

// profitStatus applies the activity check before the sign check, so a
// period with no revenue and no expenses is never reported as break-even.
func profitStatus(s *slots.InsightSlots) ProfitStatus {
	switch {
	case s.RevenueRaw == 0 && s.ExpensesRaw == 0:
		return NoActivity{}
	case s.ProfitRaw == 0:
		return BreakEven{}
	case s.ProfitRaw > 0:
		return Profit{Amount: s.Profit, RawAmount: s.ProfitRaw}
	default:
		magnitude := math.Abs(s.ProfitRaw)
		return Loss{Amount: s.Format(magnitude), RawAmount: magnitude}
	}
}

func revenueStatus(s *slots.InsightSlots) RevenueStatus {
	if s.RevenueRaw > 0 {
		return Revenue{Amount: s.Revenue, RawAmount: s.RevenueRaw}
	}
	return NoRevenue{}
}

func overdueStatus(s *slots.InsightSlots) OverdueStatus {
	st := OverdueStatus{
		HasOverdue: s.HasOverdue,
		Count:      s.OverdueCount,
		Total:      s.OverdueTotal,
	}
	for _, inv := range s.Overdue {
		st.TotalRaw += inv.RawAmount
		st.Invoices = append(st.Invoices, OverdueInvoice(inv))
	}
	if l := s.LargestOverdue; l != nil {
		largest := OverdueInvoice(*l)
		st.Largest = &largest
	}
	return st
}

func draftStatus(s *slots.InsightSlots) DraftStatus {
	st := DraftStatus{
		HasDrafts: s.HasDrafts,
		Count:     s.DraftsCount,
		Total:     s.DraftsTotal,
	}
	for _, d := range s.Drafts {
		st.TotalRaw += d.RawAmount
		st.Drafts = append(st.Drafts, Draft(d))
	}
	return st
}

// computeMood maps the period to a voice. A challenging week is always
// supportive, whatever else is true.
func computeMood(s *slots.InsightSlots) domain.Mood {
	switch {
	case s.WeekType == domain.WeekChallenging:
		return domain.MoodSupportive
	case s.IsPersonalBest, s.WeekType == domain.WeekGreat:
		return domain.MoodCelebratory
	case s.IsRecovery, s.ProfitChange > positiveProfitChange && s.ProfitRaw > 0, s.WeekType == domain.WeekGood:
		return domain.MoodPositive
	case s.WeekType == domain.WeekQuiet:
		return domain.MoodSupportive
	default:
		return domain.MoodNeutral
	}
}

var currencyWords = map[string]string{
	"SEK": "kronor",
	"NOK": "kroner",
	"DKK": "kroner",
	"USD": "dollars",
	"EUR": "euros",
	"GBP": "pounds",
	"CHF": "francs",
	"JPY": "yen",
}

// CurrencyWord returns the spoken name of a currency code.
func CurrencyWord(code string) string {
	if w, ok := currencyWords[strings.ToUpper(code)]; ok {
		return w
	}
	return strings.ToLower(code)
}
