package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// Team options
type TeamOption func(*domain.Team)

func WithCurrency(code string) TeamOption {
	return func(t *domain.Team) {
		t.Currency = code
	}
}

func WithTeamLocale(locale string) TeamOption {
	return func(t *domain.Team) {
		t.Locale = locale
	}
}

func NewTestTeam(name string, opts ...TeamOption) *domain.Team {
	t := &domain.Team{
		ID:        uuid.New().String(),
		Name:      name,
		Currency:  "SEK",
		Locale:    "en-US",
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Snapshot options
type SnapshotOption func(*domain.Snapshot)

// WithPeriod sets the period reference and its date range.
func WithPeriod(ref domain.PeriodRef, start, end time.Time) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Period = ref
		s.PeriodStart = start
		s.PeriodEnd = end
	}
}

func WithCurrent(m domain.MetricData) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Current = m
	}
}

func WithPrevious(m domain.MetricData) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Previous = m
	}
}

func WithActivity(a domain.InsightActivity) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Activity = a
	}
}

func WithTransactions(n int) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.Transactions = n
	}
}

func WithLastBankSync(t time.Time) SnapshotOption {
	return func(s *domain.Snapshot) {
		s.LastBankSync = &t
	}
}

// NewTestSnapshot returns a profitable ISO week 2 of 2026 with enough
// transactions to pass the data quality gate.
func NewTestSnapshot(teamID string, opts ...SnapshotOption) *domain.Snapshot {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	s := &domain.Snapshot{
		ID:          uuid.New().String(),
		TeamID:      teamID,
		Period:      domain.PeriodRef{Type: domain.PeriodWeekly, Year: 2026, Number: 2},
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 0, 7).Add(-time.Nanosecond),
		Current: domain.MetricData{
			Revenue:      42000,
			Expenses:     30000,
			NetProfit:    12000,
			CashFlow:     9000,
			ProfitMargin: 28.6,
			RunwayMonths: 8.5,
			CashBalance:  250000,
		},
		Previous: domain.MetricData{
			Revenue:      38000,
			Expenses:     29000,
			NetProfit:    9000,
			CashFlow:     7000,
			ProfitMargin: 23.7,
			RunwayMonths: 8.1,
			CashBalance:  241000,
		},
		Activity: domain.InsightActivity{
			InvoicesSent: 4,
			InvoicesPaid: 3,
			HoursTracked: 62,
		},
		Transactions: 24,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insight options
type InsightOption func(*domain.Insight)

func WithInsightPeriod(ref domain.PeriodRef, label string) InsightOption {
	return func(i *domain.Insight) {
		i.Period = ref
		i.PeriodLabel = label
	}
}

func WithContent(c domain.InsightContent) InsightOption {
	return func(i *domain.Insight) {
		i.Content = c
	}
}

func WithFallback() InsightOption {
	return func(i *domain.Insight) {
		i.UsedFallback = true
	}
}

func WithEvalScore(v float64) InsightOption {
	return func(i *domain.Insight) {
		i.EvalScore = &v
	}
}

func WithCreatedAt(t time.Time) InsightOption {
	return func(i *domain.Insight) {
		i.CreatedAt = t
	}
}

func NewTestInsight(teamID string, opts ...InsightOption) *domain.Insight {
	i := &domain.Insight{
		ID:          uuid.New().String(),
		TeamID:      teamID,
		Period:      domain.PeriodRef{Type: domain.PeriodWeekly, Year: 2026, Number: 2},
		PeriodLabel: "Week 2, 2026",
		Content: domain.InsightContent{
			Title:   "Your profit rose to 12,000 kr this week.",
			Summary: "Revenue grew and expenses held steady.",
			Actions: []domain.ActionItem{{Text: "Send the remaining invoices"}},
		},
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}
