package prompts

import (
	"fmt"

	"github.com/alexanderramin/ledgerpulse/internal/facts"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

const (
	audioMinWords = 60
	audioMaxWords = 80
)

// spokenData restates the facts with numbers and currency written the way
// they are read aloud. It never carries symbols or currency codes.
func spokenData(f *facts.InsightFacts) string {
	var l lines
	if w := runwayWarning(f); w != "" {
		l.b.WriteString(w)
		l.blank()
	}
	l.add("period: %s", f.PeriodLabel)
	l.add("currency word: %s", f.CurrencyWord)
	if lead := spokenLead(f); lead != "" {
		l.add("lead: %s", lead)
	}
	l.add("profit: %s", facts.ProfitDescriptionSpoken(f))
	l.add("revenue: %s", facts.RevenueDescriptionSpoken(f))
	if f.ExpensesRaw > 0 {
		l.add("expenses: %s %s", facts.FormatNumberForSpeech(f.ExpensesRaw), f.CurrencyWord)
	}
	if f.ProfitChange != "" && !f.IsFirstInsight {
		l.add("change: %s", f.ProfitChange)
	}
	l.add("runway: %s", facts.RunwayDescription(f))
	if f.Overdue.HasOverdue && f.Overdue.Largest != nil {
		o := f.Overdue.Largest
		l.add("largest overdue: %s owes %s %s, %d days late",
			o.Company, facts.FormatNumberForSpeech(o.RawAmount), f.CurrencyWord, o.DaysOverdue)
		if f.Overdue.Count > 1 {
			l.add("total overdue: %s %s across %d invoices",
				facts.FormatNumberForSpeech(f.Overdue.TotalRaw), f.CurrencyWord, f.Overdue.Count)
		}
	}
	if p := f.LargestPayment; p != nil {
		l.add("largest payment: %s paid %s %s", p.Customer, facts.FormatNumberForSpeech(p.RawAmount), f.CurrencyWord)
	}
	for _, a := range f.Alerts {
		l.add("alert: %s", a)
	}
	if a := facts.PrimaryAction(f); a != nil {
		verb := "collect the overdue amount from"
		if !f.Overdue.HasOverdue {
			verb = "send the draft invoice to"
		}
		l.add("next step: %s %s", verb, a.Company)
	}
	return l.String()
}

// spokenLead is the headline without any written amount in it.
func spokenLead(f *facts.InsightFacts) string {
	switch {
	case f.IsPersonalBest && f.HistoricalContext != "":
		return f.HistoricalContext
	case f.IsRecovery && f.RecoveryDescription != "":
		return f.RecoveryDescription
	case f.Streak != nil && f.Streak.Count >= 3:
		return f.Streak.Description
	}
	return ""
}

// BuildAudio renders the prompt for a short script read aloud by a
// speech synthesizer.
func BuildAudio(s *slots.InsightSlots, f *facts.InsightFacts) string {
	var c lines
	c.add("%d-%d words. Short sentences, under 15 words on average.", audioMinWords, audioMaxWords)
	c.add("Open with the period, e.g. %q. No greetings.", f.PeriodLabel)
	c.add("Say amounts the way they are written in the data (\"85 thousand %s\"). Never use symbols or currency codes.", f.CurrencyWord)
	c.add("No exclamation marks, no lists, no thanking customers, no congratulations.")
	c.add("End with the next step if there is one.")

	return join(
		section("role", "You write a short spoken briefing about a small business's finances. It will be read aloud, so it must sound natural when heard once."),
		section("voice", facts.ToneGuidanceFromFacts(f)),
		section("data", spokenData(f)),
		section("banned_words", bannedWords(f)),
		section("constraints", c.String()),
		section("accuracy", accuracyRules(f)),
		section("output", fmt.Sprintf("Output only the script (%d-%d words). No stage directions, no preamble.", audioMinWords, audioMaxWords)),
	)
}
