// Package prompts renders the five generation prompts (title, summary,
// story, actions, audio) from slots and facts. Builders only arrange and
// quote what facts already say; none of them looks at raw metrics.
package prompts

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ledgerpulse/internal/facts"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

// section wraps body in an XML-style tag. Empty bodies produce nothing.
func section(tag, body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	return fmt.Sprintf("<%s>\n%s\n</%s>", tag, body, tag)
}

// join concatenates non-empty sections with a blank line between them.
func join(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

type lines struct{ b strings.Builder }

func (l *lines) add(format string, args ...any) {
	fmt.Fprintf(&l.b, format, args...)
	l.b.WriteByte('\n')
}

func (l *lines) blank() { l.b.WriteByte('\n') }

func (l *lines) String() string { return l.b.String() }

// runwayWarning is placed above everything else in a data block when
// runway is short. It overrides the voice for the whole fragment.
func runwayWarning(f *facts.InsightFacts) string {
	var l lines
	switch {
	case f.Runway.IsCritical:
		l.add("CRITICAL RUNWAY WARNING")
		l.add("%s", facts.RunwayDescription(f))
		l.add("NEVER use words like: %s", strings.Join(facts.CriticalRunwayBannedWords, ", "))
		l.add("MUST frame as: urgent, priority, tight, limited time, needs immediate attention")
	case f.Runway.IsLow:
		l.add("LOW RUNWAY WARNING")
		l.add("Runway is %d months. Avoid overly reassuring language.", f.Runway.Months)
	}
	return l.String()
}

// dataSection is the written-number data block shared by title, summary
// and story so all three quote identical figures.
func dataSection(s *slots.InsightSlots, f *facts.InsightFacts) string {
	var l lines
	if w := runwayWarning(f); w != "" {
		l.b.WriteString(w)
		l.blank()
	}

	l.add("currency: %s (use the same format as the amounts below, e.g. %q)", f.Currency, s.Profit)
	l.add("period: %s", f.PeriodLabel)
	l.blank()
	l.add("headline: %s", facts.HeadlineFact(f))
	l.blank()

	if len(f.Alerts) > 0 {
		l.add("ALERTS (mention these):")
		for _, a := range f.Alerts {
			l.add("  - %s", a)
		}
		l.blank()
	}
	if len(f.Warnings) > 0 {
		l.add("warnings (weave in naturally if relevant):")
		for _, w := range f.Warnings {
			l.add("  - %s", w)
		}
		l.blank()
	}

	if !f.IsFirstInsight {
		if notable := slots.NotableContext(s); notable != "" {
			l.add("notable: %s", notable)
			l.blank()
		}
	}

	l.add("profit: %s (%s)", facts.ProfitDescription(f), s.Profit)
	l.add("revenue: %s (%s)", facts.RevenueDescription(f), s.Revenue)
	l.add("expenses: %s", s.Expenses)
	if f.MarginPercent != nil {
		l.add("margin: %s%%", s.Margin)
	}

	noun := f.PeriodType.Noun()
	switch {
	case s.InvoicesSentChange != "":
		l.add("invoices sent: %s", s.InvoicesSentChange)
	case s.InvoicesSent == 0:
		l.add("invoices sent: no new invoices this %s", noun)
	}

	if f.Runway.ExhaustionDate != "" {
		l.add("runway: %d months (cash lasts until %s)", f.Runway.Months, f.Runway.ExhaustionDate)
	} else {
		l.add("runway: %d months", f.Runway.Months)
	}
	if s.CashFlowExplanation != "" {
		l.add("cash flow: %s (%s)", s.CashFlow, s.CashFlowExplanation)
	}

	if f.Overdue.HasOverdue {
		l.blank()
		l.add("overdue:")
		for _, inv := range f.Overdue.Invoices {
			if inv.IsUnusual && inv.UnusualReason != "" {
				l.add("  - %s: %s (%d days) UNUSUAL: %s", inv.Company, inv.Amount, inv.DaysOverdue, inv.UnusualReason)
				continue
			}
			l.add("  - %s: %s (%d days)", inv.Company, inv.Amount, inv.DaysOverdue)
		}
	}
	if f.Drafts.HasDrafts {
		l.blank()
		l.add("unsent drafts: %d totalling %s", f.Drafts.Count, f.Drafts.Total)
	}

	if !f.IsFirstInsight && f.ProfitChange != "" {
		l.blank()
		l.add("change: %s", f.ProfitChange)
	}
	if !f.IsFirstInsight && f.RevenueChange != "" {
		l.add("revenue change: %s", f.RevenueChange)
	}

	if f.YoYRevenue != "" || f.YoYProfit != "" {
		l.blank()
		l.add("vs last year:")
		if f.YoYRevenue != "" {
			l.add("  revenue: %s", f.YoYRevenue)
		}
		if f.YoYProfit != "" {
			l.add("  profit: %s", f.YoYProfit)
		}
	}
	if f.QuarterPace != "" {
		l.blank()
		l.add("quarter projection: %s", f.QuarterPace)
	}
	return l.String()
}

// accuracyRules are repeated in every prose prompt. They describe how the
// facts may be phrased, never what the facts are.
func accuracyRules(f *facts.InsightFacts) string {
	var l lines
	l.add("- All figures must match the data exactly, in the same format")
	l.add("- Profit of 0 with no revenue and no expenses is \"no activity\", NOT a loss")
	if _, loss := f.ProfitStatus.(facts.Loss); loss {
		l.add("- Profit is NEGATIVE: expenses MUST be mentioned")
		l.add("- Never say profit \"improved\", \"doubled\" or \"grew\". Say \"loss decreased\" or \"loss shrank\" instead")
	}
	if !f.RevenueStatus.HasRevenue() {
		l.add("- Revenue is 0, so margin is meaningless. Do not mention it")
	}
	l.add("- For invoices sent use the description from data. If it says \"no new invoices\", say that, NOT \"down 100%%\"")
	if f.Runway.IsCritical {
		l.add("- Runway is under 2 months. This is urgent, not stable. Emphasize collecting money now")
	}
	return l.String()
}

func bannedWords(f *facts.InsightFacts) string {
	words := strings.Join(facts.BannedWords, ", ")
	if f.Runway.IsCritical {
		words += ", " + strings.Join(facts.CriticalRunwayBannedWords, ", ")
	}
	return words
}
