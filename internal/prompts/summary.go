package prompts

import (
	"fmt"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/facts"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

const (
	summaryMinWords = 40
	summaryMaxWords = 60
)

type example struct {
	input  string
	output string
}

func (e example) render(tag string) string {
	return fmt.Sprintf("<%s>\n<input>%s</input>\n<output>%s</output>\n</%s>", tag, e.input, e.output, tag)
}

var summaryConcrete = example{
	input: "currency: SEK\nnotable: 3 consecutive profitable weeks\nprofit: 117,061 kr, revenue: 120,200 kr, expenses: 3,139 kr, margin: 97.4%, runway: 8 months, overdue: [Company] 24,300 kr",
	output: "Third profitable week running, with 117,061 kr kept from 120,200 kr of revenue and margin near 97%. " +
		"Expenses stayed at 3,139 kr and your 8-month runway leaves room to plan. [Company] still owes 24,300 kr and is worth a reminder.",
}

var summaryPatterns = map[string]example{
	"milestone": {
		input:  "notable: Best profit week since October\nprofit: 92,400 kr, revenue: 98,000 kr, expenses: 5,600 kr, margin: 94.3%, runway: 9 months",
		output: "Your best profit week since October: 92,400 kr on 98,000 kr of revenue, with margin at 94% and expenses held to 5,600 kr. A 9-month runway gives you space to decide what comes next.",
	},
	"recovery": {
		input:  "notable: Back to profit after 2 down weeks\nprofit: 41,000 kr, revenue: 52,000 kr, expenses: 11,000 kr, margin: 78.8%, runway: 6 months, overdue: [Company] 9,500 kr",
		output: "Back in profit after two down weeks, with 41,000 kr on 52,000 kr of revenue and margin back near 79%. Your runway sits at 6 months, and the 9,500 kr [Company] still owes would add to it.",
	},
	"streak": {
		input:  "notable: 4 profitable weeks in a row\nprofit: 30,200 kr, revenue: 36,000 kr, expenses: 5,800 kr, margin: 83.9%, runway: 11 months",
		output: "Fourth profitable week in a row, adding 30,200 kr on 36,000 kr of revenue at a 84% margin. Expenses came to 5,800 kr, and with 11 months of runway the trend is doing its job.",
	},
	"standard": {
		input:  "profit: 64,000 kr, revenue: 71,000 kr, expenses: 7,000 kr, margin: 90.1%, runway: 10 months, overdue: [Company] 6,000 kr",
		output: "A good week with 64,000 kr profit on 71,000 kr of revenue, keeping margin around 90% after 7,000 kr of expenses. Your runway is 10 months, and [Company] owes 6,000 kr that is worth following up.",
	},
	"challenging": {
		input:  "profit: -18,400 kr, revenue: 0 kr, expenses: 18,400 kr, runway: 2 months (cash lasts until March 15, 2026), overdue: [Company] 4,200 kr",
		output: "No revenue arrived this week while 18,400 kr went out in expenses. With cash lasting until March 15, collecting the 4,200 kr from [Company] and landing new billable work come first.",
	},
	"zero_activity": {
		input:  "profit: 0 kr, revenue: 0 kr, expenses: 0 kr, runway: 1 months (cash lasts until February 10, 2026), overdue: [Company] 5,000 kr",
		output: "No financial activity this week. Your cash lasts until February 10, so collecting the 5,000 kr overdue from [Company] is the priority that buys you the most time.",
	},
	"low_runway_profitable": {
		input:  "CRITICAL RUNWAY WARNING\nprofit: 5,644 kr, revenue: 7,500 kr, expenses: 1,856 kr, margin: 75.3%, runway: 1 months (cash lasts until February 24, 2026), overdue: [Company A] 7,500 kr, [Company B] 7,500 kr",
		output: "You kept 5,644 kr from 7,500 kr of revenue at a 75% margin, but with only 1 month of runway until February 24 cash is tight. The 15,000 kr overdue from two clients needs collecting now.",
	},
}

var firstSummaryPatterns = map[domain.WeekType]example{
	domain.WeekGreat: {
		input:  "profit: 260,340 kr, revenue: 268,000 kr, expenses: 7,660 kr, margin: 97%, runway: 14 months, overdue: [Company] 750 kr",
		output: "Welcome to your weekly insights. You start with 260,340 kr profit on 268,000 kr of revenue, a 97% margin after 7,660 kr of expenses. Runway is 14 months, and one small item remains: 750 kr overdue from [Company].",
	},
	domain.WeekGood: {
		input:  "profit: 85,000 kr, revenue: 95,000 kr, expenses: 10,000 kr, margin: 89%, runway: 8 months",
		output: "Welcome to your weekly insights. This week brought 85,000 kr profit from 95,000 kr of revenue, an 89% margin after 10,000 kr in expenses, and your runway stands at 8 months with nothing overdue.",
	},
	domain.WeekQuiet: {
		input:  "profit: 12,000 kr, revenue: 15,000 kr, expenses: 3,000 kr, margin: 80%, runway: 6 months",
		output: "Welcome to your weekly insights. A quieter start with 12,000 kr profit on 15,000 kr of revenue and an 80% margin. Expenses were 3,000 kr and your runway is 6 months, with no overdue invoices to chase.",
	},
	domain.WeekChallenging: {
		input:  "profit: -15,000 kr, revenue: 0 kr, expenses: 15,000 kr, runway: 10 months, overdue: [Company] 8,000 kr",
		output: "Welcome to your weekly insights. No revenue landed this week against 15,000 kr of expenses, which is often payment timing. Your runway is 10 months, and [Company] owes 8,000 kr worth collecting.",
	},
}

func isZeroActivity(f *facts.InsightFacts) bool {
	_, none := f.ProfitStatus.(facts.NoActivity)
	return none
}

// summaryPattern picks the example closest to this period. Short runway
// wins over everything so a profitable example never sets a cheerful tone
// when cash is nearly gone.
func summaryPattern(f *facts.InsightFacts) example {
	_, profitable := f.ProfitStatus.(facts.Profit)
	switch {
	case f.Runway.IsCritical && profitable:
		return summaryPatterns["low_runway_profitable"]
	case isZeroActivity(f):
		return summaryPatterns["zero_activity"]
	case f.IsPersonalBest && f.HistoricalContext != "":
		return summaryPatterns["milestone"]
	case f.IsRecovery && f.RecoveryDescription != "":
		return summaryPatterns["recovery"]
	case f.Streak != nil && f.Streak.Count >= 3:
		return summaryPatterns["streak"]
	case f.WeekType == domain.WeekChallenging:
		return summaryPatterns["challenging"]
	default:
		return summaryPatterns["standard"]
	}
}

func firstSummaryPattern(f *facts.InsightFacts) example {
	if isZeroActivity(f) {
		return summaryPatterns["zero_activity"]
	}
	if e, ok := firstSummaryPatterns[f.WeekType]; ok {
		return e
	}
	return firstSummaryPatterns[domain.WeekGood]
}

// BuildSummary renders the prompt for the 40-60 word summary paragraph.
func BuildSummary(s *slots.InsightSlots, f *facts.InsightFacts) string {
	noun := f.PeriodType.Noun()
	role := fmt.Sprintf(`You write the summary paragraph of a %s business insight.
It follows the title and gives the full financial picture in flowing prose.
Sound like a knowledgeable colleague giving a short verbal debrief, not a report generator.`, noun)

	var c lines
	if f.IsFirstInsight {
		c.add("This is their FIRST insight. Welcome them in a few words.")
	}
	c.add("Word count: %d-%d words. Count before answering.", summaryMinWords, summaryMaxWords)
	c.add("Include profit, revenue, margin and runway, woven together rather than listed.")
	c.add("Connect facts with words like \"with\", \"while\", \"and your\".")
	c.add("Never say \"this period\". Say \"this %s\" or nothing.", noun)
	c.add("Copy amounts in exactly the format shown in the data.")
	if !f.IsFirstInsight {
		c.add("If money is owed, end with it so the reader has something to act on.")
		c.add("If the data gives a date cash lasts until, include it.")
	}

	pattern := summaryPattern(f)
	if f.IsFirstInsight {
		pattern = firstSummaryPattern(f)
	}

	return join(
		section("role", role),
		section("voice", facts.ToneGuidanceFromFacts(f)+"\n"+slots.ToneGuidance(f.WeekType)),
		section("data", dataSection(s, f)),
		section("banned_words", bannedWords(f)),
		section("constraints", c.String()),
		section("accuracy", accuracyRules(f)),
		section("examples", summaryConcrete.render("concrete_example")+"\n"+pattern.render("pattern_example")),
		section("verify", fmt.Sprintf(`Before responding, silently check and do not include this in the response:
- Between %d and %d words?
- Reads naturally aloud?
- Amounts match the data format?`, summaryMinWords, summaryMaxWords)),
		section("output", fmt.Sprintf("Write ONE summary (%d-%d words). Begin directly with no preamble. Output only the summary text.", summaryMinWords, summaryMaxWords)),
	)
}
