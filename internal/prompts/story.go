package prompts

import (
	"fmt"
	"math"

	"github.com/alexanderramin/ledgerpulse/internal/facts"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

const (
	storyMinWords = 80
	storyMaxWords = 130
)

// storyContext lists the secondary details the summary has no room for.
func storyContext(s *slots.InsightSlots, f *facts.InsightFacts) string {
	var l lines
	if h := s.Highlight; h != nil && h.Text() != "" {
		l.add("highlight: %s", h.Text())
	}
	if p := f.LargestPayment; p != nil {
		l.add("largest payment: %s paid %s", p.Customer, p.Amount)
	}
	if s.NewCustomers > 0 {
		l.add("new customers: %d", s.NewCustomers)
	}
	if s.InvoicesPaid > 0 {
		l.add("invoices paid: %d", s.InvoicesPaid)
	}
	for _, sp := range s.ExpenseSpikes {
		line := fmt.Sprintf("expense spike: %s at %s (up %.0f%%)", sp.Category, sp.Amount, math.Abs(sp.Change))
		if sp.Tip != "" {
			line += ". Tip: " + sp.Tip
		}
		l.add("%s", line)
	}
	if cw := s.ConcentrationWarning; cw != nil {
		l.add("revenue concentration: %.0f%% of revenue (%s) came from %s", cw.Percentage, cw.Amount, cw.CustomerName)
	}
	if due := s.NextWeekInvoicesDue; due != nil && due.Count > 0 {
		l.add("coming up: %d invoice(s) due next week totalling %s", due.Count, due.Amount)
	}
	if s.UnbilledHours > 0 {
		l.add("unbilled hours: %.1f h tracked but not yet invoiced", s.UnbilledHours)
	}
	if a := slots.SelectPrimaryAction(s); a != nil {
		l.add("primary action: %s", a.Description)
	}
	return l.String()
}

// BuildStory renders the prompt for the longer narrative that explains why
// the numbers moved and what to do next.
func BuildStory(s *slots.InsightSlots, f *facts.InsightFacts) string {
	noun := f.PeriodType.Noun()

	var c lines
	c.add("%d-%d words in two short paragraphs.", storyMinWords, storyMaxWords)
	c.add("First paragraph: what happened and why, using the context below. Do not repeat every number from the summary.")
	c.add("Second paragraph: the one thing worth doing next, named with customer and amount when the data has them.")
	c.add("Never say \"this period\". Say \"this %s\".", noun)
	c.add("Do not invent causes that are not in the data.")

	return join(
		section("role", fmt.Sprintf("You write the story section of a %s business insight for a small business owner. The reader has already seen the title and summary.", noun)),
		section("voice", facts.ToneGuidanceFromFacts(f)+"\n"+slots.ToneGuidance(f.WeekType)),
		section("data", dataSection(s, f)),
		section("context", storyContext(s, f)),
		section("banned_words", bannedWords(f)),
		section("constraints", c.String()),
		section("accuracy", accuracyRules(f)),
		section("output", "Output only the story text. No headings, no lists, no preamble."),
	)
}
