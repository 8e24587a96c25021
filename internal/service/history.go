package service

import (
	"fmt"
	"math"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/metrics"
	"github.com/alexanderramin/ledgerpulse/internal/period"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

// momentumThreshold is the change-of-growth, in percentage points, that
// counts as accelerating or decelerating.
const momentumThreshold = 5.0

// minRecordHistory is how many earlier periods of the same type a value
// must beat before it counts as a record.
const minRecordHistory = 3

// history is a team's stored snapshots, used to derive period context.
type history []*domain.Snapshot

func (h history) find(ref domain.PeriodRef) *domain.Snapshot {
	for _, s := range h {
		if s.Period == ref {
			return s
		}
	}
	return nil
}

// earlier counts snapshots of the same type that start before s.
func (h history) earlier(s *domain.Snapshot) int {
	n := 0
	for _, o := range h {
		if o.Period.Type == s.Period.Type && o.PeriodStart.Before(s.PeriodStart) {
			n++
		}
	}
	return n
}

// buildContext derives the slot context for snap from the team's history.
func buildContext(snap *domain.Snapshot, per period.Period, prior *domain.Snapshot, h history, set metrics.Set, currency string) slots.Context {
	cur := snap.Current
	c := slots.Context{
		PeriodEnd:        per.End,
		WeeksOfHistory:   h.earlier(snap),
		Anomalies:        metrics.DetectAnomalies(set),
		ExpenseAnomalies: metrics.DetectExpenseAnomalies(cur.CategorySpending, snap.Previous.CategorySpending, currency),
	}
	if cur.RunwayMonths > 0 {
		runway := cur.RunwayMonths
		c.RunwayMonths = &runway
	}
	if prior != nil {
		c.Momentum = momentum(snap, prior)
	}
	c.YearOverYear = yearOverYear(snap, h)
	c.QuarterPace = quarterPace(snap, per, h)
	return c
}

// momentum compares this period's revenue growth with the prior period's.
func momentum(snap, prior *domain.Snapshot) *slots.MomentumContext {
	now := metrics.CalculatePercentageChange(snap.Current.Revenue, snap.Previous.Revenue)
	before := metrics.CalculatePercentageChange(prior.Current.Revenue, prior.Previous.Revenue)

	m := &slots.MomentumContext{Momentum: domain.MomentumSteady}
	switch d := now - before; {
	case d > momentumThreshold:
		m.Momentum = domain.MomentumAccelerating
	case d < -momentumThreshold:
		m.Momentum = domain.MomentumDecelerating
	}
	if prior.Current.NetProfit < 0 && snap.Current.NetProfit > 0 {
		m.Recovery = &slots.RecoveryContext{
			IsRecovery:  true,
			Description: "back to profit after a loss last " + snap.Period.Type.Noun(),
		}
	}
	return m
}

// yearOverYear compares with the same period a year earlier. Yearly
// periods already compare with the previous year and get none.
func yearOverYear(snap *domain.Snapshot, h history) *slots.YearOverYear {
	if snap.Period.Type == domain.PeriodYearly {
		return nil
	}
	ly := h.find(domain.PeriodRef{Type: snap.Period.Type, Year: snap.Period.Year - 1, Number: snap.Period.Number})
	if ly == nil {
		return nil
	}
	return &slots.YearOverYear{
		HasComparison:        true,
		RevenueChangePercent: metrics.CalculatePercentageChange(snap.Current.Revenue, ly.Current.Revenue),
		ProfitChangePercent:  metrics.CalculatePercentageChange(snap.Current.NetProfit, ly.Current.NetProfit),
	}
}

// quarterPace projects the running quarter's revenue from the weekly or
// monthly snapshots seen so far, scaled by how much of the quarter has
// elapsed, and compares with last year's quarterly snapshot when present.
func quarterPace(snap *domain.Snapshot, per period.Period, h history) *slots.QuarterPace {
	if snap.Period.Type != domain.PeriodWeekly && snap.Period.Type != domain.PeriodMonthly {
		return nil
	}
	q := (int(per.End.Month())-1)/3 + 1
	quarter, err := period.Info(domain.PeriodQuarterly, per.End.Year(), q, per.End.Location())
	if err != nil {
		return nil
	}

	var revenue float64
	var seen int
	for _, o := range h {
		if o.Period.Type != snap.Period.Type {
			continue
		}
		if o.PeriodStart.Before(quarter.Start) || o.PeriodEnd.After(per.End) {
			continue
		}
		revenue += o.Current.Revenue
		seen++
	}
	if seen == 0 {
		revenue, seen = snap.Current.Revenue, 1
	}

	elapsed := per.End.Sub(quarter.Start).Seconds() / quarter.End.Sub(quarter.Start).Seconds()
	if elapsed <= 0 || revenue <= 0 {
		return nil
	}
	qp := &slots.QuarterPace{
		ProjectedRevenue: math.Round(revenue / math.Min(elapsed, 1)),
		CurrentQuarter:   q,
	}
	if last := h.find(domain.PeriodRef{Type: domain.PeriodQuarterly, Year: quarter.Year - 1, Number: q}); last != nil && last.Current.Revenue > 0 {
		qp.HasComparison = true
		qp.VsLastYearPercent = metrics.CalculatePercentageChange(qp.ProjectedRevenue, last.Current.Revenue)
	}
	return qp
}

// recordContext returns a note such as "Best profit week since October 2025"
// when value beats the snapshot's own previous period and every stored
// earlier period of the same type. It returns "" otherwise.
func recordContext(snap *domain.Snapshot, h history, what string, value func(domain.MetricData) float64) string {
	cur := value(snap.Current)
	if cur <= 0 || value(snap.Previous) >= cur {
		return ""
	}
	var first *domain.Snapshot
	n := 0
	for _, o := range h {
		if o.Period.Type != snap.Period.Type || !o.PeriodStart.Before(snap.PeriodStart) {
			continue
		}
		if value(o.Current) >= cur {
			return ""
		}
		if first == nil || o.PeriodStart.Before(first.PeriodStart) {
			first = o
		}
		n++
	}
	if n < minRecordHistory {
		return ""
	}
	return fmt.Sprintf("Best %s %s since %s", what, snap.Period.Type.Noun(), first.PeriodStart.Format("January 2006"))
}

// markRecords attaches record notes to the profit and revenue metrics.
func markRecords(set *metrics.Set, snap *domain.Snapshot, h history) {
	records := []struct {
		metric domain.MetricType
		what   string
		value  func(domain.MetricData) float64
	}{
		{domain.MetricNetProfit, "profit", func(m domain.MetricData) float64 { return m.NetProfit }},
		{domain.MetricRevenue, "revenue", func(m domain.MetricData) float64 { return m.Revenue }},
	}
	for _, r := range records {
		m, ok := set.Get(r.metric)
		if !ok {
			continue
		}
		if note := recordContext(snap, h, r.what, r.value); note != "" {
			m.HistoricalContext = note
			set.Put(m)
		}
	}
}
