package metrics

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

const (
	runwayCritical    = 3.0
	runwayUrgent      = 2.0
	overdueAlertCount = 5

	newCategoryMajor      = 500.0
	newCategoryMinor      = 50.0
	largeSpikePercent     = 50.0
	largeSpikeAbsolute    = 100.0
	moderateSpikePercent  = 30.0
	moderateSpikeAbsolute = 50.0
	maxExpenseAnomalies   = 3
)

// DetectAnomalies flags threshold crossings for every metric in set.
// Several anomalies may fire for one metric; nothing is deduplicated.
func DetectAnomalies(set Set) []domain.InsightAnomaly {
	var out []domain.InsightAnomaly
	for _, m := range set.All() {
		out = append(out, anomaliesFor(m)...)
	}
	return out
}

func anomaliesFor(m domain.InsightMetric) []domain.InsightAnomaly {
	var out []domain.InsightAnomaly
	add := func(t domain.AnomalyType, sev domain.Severity, msg string) {
		out = append(out, domain.InsightAnomaly{Type: t, Severity: sev, Message: msg, MetricType: m.Type})
	}

	pct := math.Abs(m.Change)
	if m.Change > significantChange {
		if m.Type.IsExpense() {
			add(domain.AnomalySignificantExpenseIncrease, domain.SeverityWarning, fmt.Sprintf("%s increased by %.0f%%", m.Label, pct))
		} else {
			add(domain.AnomalySignificantIncrease, domain.SeverityInfo, fmt.Sprintf("%s increased by %.0f%%", m.Label, pct))
		}
	}
	if m.Change < -significantChange {
		if m.Type.IsExpense() {
			add(domain.AnomalySignificantExpenseDecrease, domain.SeverityInfo, fmt.Sprintf("%s decreased by %.0f%%", m.Label, pct))
		} else {
			add(domain.AnomalySignificantDecrease, domain.SeverityWarning, fmt.Sprintf("%s decreased by %.0f%%", m.Label, pct))
		}
	}

	switch m.Type {
	case domain.MetricRunwayMonths:
		if m.Value < runwayWarning {
			switch {
			case m.Value < runwayUrgent:
				add(domain.AnomalyLowRunway, domain.SeverityAlert, fmt.Sprintf(
					"URGENT: Only %.1f months of runway remaining — prioritize collecting receivables and securing new revenue", m.Value))
			case m.Value < runwayCritical:
				add(domain.AnomalyLowRunway, domain.SeverityAlert, fmt.Sprintf(
					"Runway is %.1f months — focus on cash collection and revenue", m.Value))
			default:
				add(domain.AnomalyLowRunway, domain.SeverityWarning, fmt.Sprintf("Runway is %.1f months", m.Value))
			}
		}
	case domain.MetricNetProfit:
		if m.Value < 0 {
			add(domain.AnomalyNegativeProfit, domain.SeverityWarning, "Business is currently unprofitable")
		}
	case domain.MetricCashFlow:
		if m.Value < 0 {
			add(domain.AnomalyNegativeCashFlow, domain.SeverityWarning, "Negative cash flow this period")
		}
	case domain.MetricInvoicesOverdue:
		if m.Value > 0 {
			sev := domain.SeverityWarning
			if m.Value > overdueAlertCount {
				sev = domain.SeverityAlert
			}
			n := int(m.Value)
			noun := "invoice"
			if n > 1 {
				noun = "invoices"
			}
			add(domain.AnomalyOverdueInvoices, sev, fmt.Sprintf("%d overdue %s need attention", n, noun))
		}
	}
	return out
}

// periodicCategories vary by billing cycle, so swings in them are noise.
var periodicCategories = []string{
	"payroll", "payroll_tax", "payroll_tax_remittances", "taxes", "tax",
	"income_tax", "sales_tax",
	"insurance", "capital_insurance", "health_insurance", "liability_insurance",
	"subscriptions", "memberships", "software", "saas",
	"telephone", "phone", "internet", "internet_and_telephone", "communications",
	"fees", "bank_fees", "transaction_fees", "payment_processing",
	"rent", "utilities",
	"uncategorized",
}

var separatorPattern = regexp.MustCompile(`[-_\s]`)

func normalizeCategory(s string) string {
	return separatorPattern.ReplaceAllString(strings.ToLower(s), "_")
}

// IsPeriodicCategory matches slug or name against the periodic list,
// accepting a substring match in either direction.
func IsPeriodicCategory(slug, name string) bool {
	candidates := []string{normalizeCategory(slug)}
	if name != "" {
		candidates = append(candidates, normalizeCategory(name))
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, p := range periodicCategories {
			if strings.Contains(c, p) || strings.Contains(p, c) {
				return true
			}
		}
	}
	return false
}

var categoryTips = []struct {
	key string
	tip string
}{
	{"software", "Review recent subscription signups or renewals."},
	{"subscriptions", "Check for new or upgraded subscriptions."},
	{"office", "Verify office supply orders are necessary."},
	{"travel", "Review travel bookings and reimbursements."},
	{"meals", "Check team meal and entertainment expenses."},
	{"marketing", "Review campaign spending and ROI."},
	{"advertising", "Evaluate ad performance vs spend increase."},
	{"equipment", "Verify equipment purchases were approved."},
	{"utilities", "Check for rate changes or usage spikes."},
	{"rent", "Review lease terms if rent increased."},
	{"professional", "Verify consulting or legal fees."},
	{"insurance", "Check for policy changes or renewals."},
}

const (
	newCategoryTip = "Review this new expense category to ensure it's expected."
	defaultTip     = "Review recent transactions in this category."
)

// TipForCategory returns a short review hint keyed by slug.
func TipForCategory(slug string, isNew bool) string {
	if isNew {
		return newCategoryTip
	}
	norm := normalizeCategory(slug)
	for _, t := range categoryTips {
		if norm == t.key || strings.HasPrefix(norm, t.key+"_") {
			return t.tip
		}
	}
	return defaultTip
}

// DetectExpenseAnomalies compares per-category spending between periods and
// returns the three most significant spikes, new categories or drops.
func DetectExpenseAnomalies(current, previous []domain.CategorySpending, currency string) []domain.ExpenseAnomaly {
	prevBySlug := make(map[string]domain.CategorySpending, len(previous))
	for _, c := range previous {
		prevBySlug[c.Slug] = c
	}

	var out []domain.ExpenseAnomaly
	for _, cur := range current {
		if IsPeriodicCategory(cur.Slug, cur.Name) {
			continue
		}
		base := domain.ExpenseAnomaly{
			CategoryName:  cur.Name,
			CategorySlug:  cur.Slug,
			CurrentAmount: cur.Amount,
			Currency:      currency,
		}

		prev, seen := prevBySlug[cur.Slug]
		if !seen {
			if cur.Amount < newCategoryMinor {
				continue
			}
			a := base
			a.Type = domain.ExpenseNewCategory
			a.Severity = domain.SeverityInfo
			if cur.Amount >= newCategoryMajor {
				a.Severity = domain.SeverityWarning
			}
			a.Change = 100
			a.Message = "New expense category: " + cur.Name
			a.Tip = TipForCategory(cur.Slug, true)
			out = append(out, a)
			continue
		}

		abs := cur.Amount - prev.Amount
		var pct float64
		switch {
		case prev.Amount > 0:
			pct = abs / prev.Amount * 100
		case cur.Amount > 0:
			pct = 100
		}

		a := base
		a.PreviousAmount = prev.Amount
		a.Change = math.Round(pct)
		switch {
		case pct >= largeSpikePercent && abs >= largeSpikeAbsolute:
			a.Type, a.Severity = domain.ExpenseCategorySpike, domain.SeverityWarning
			a.Message = fmt.Sprintf("%s increased %.0f%%", cur.Name, math.Round(pct))
			a.Tip = TipForCategory(cur.Slug, false)
		case pct >= moderateSpikePercent && abs >= moderateSpikeAbsolute:
			a.Type, a.Severity = domain.ExpenseCategorySpike, domain.SeverityInfo
			a.Message = fmt.Sprintf("%s increased %.0f%%", cur.Name, math.Round(pct))
			a.Tip = TipForCategory(cur.Slug, false)
		case pct <= -largeSpikePercent && math.Abs(abs) >= largeSpikeAbsolute:
			a.Type, a.Severity = domain.ExpenseCategoryDecrease, domain.SeverityInfo
			a.Message = fmt.Sprintf("%s decreased %.0f%%", cur.Name, math.Round(math.Abs(pct)))
		default:
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Severity.Rank(), out[j].Severity.Rank()
		if ri != rj {
			return ri < rj
		}
		return math.Abs(out[i].CurrentAmount-out[i].PreviousAmount) > math.Abs(out[j].CurrentAmount-out[j].PreviousAmount)
	})
	if len(out) > maxExpenseAnomalies {
		out = out[:maxExpenseAnomalies]
	}
	return out
}
