package prompts

import (
	"fmt"

	"github.com/alexanderramin/ledgerpulse/internal/facts"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

const (
	titleMinWords = 12
	titleMaxWords = 20
)

var titleExamples = []example{
	{
		input:  "headline: Best profit week since October\nprofit: 117,061 kr profit\noverdue: [Company] 24,300 kr",
		output: "Your best profit week since October, with 117,061 kr kept and 24,300 kr from [Company] still to collect",
	},
	{
		input:  "headline: 7,148 kr loss this week\nchange: loss decreased 96% vs last week\nrunway: 1 months",
		output: "Your loss shrank to 7,148 kr this week, but with one month of runway collecting cash comes first",
	},
}

// BuildTitle renders the prompt for a one-sentence title that leads with
// the headline fact and speaks to the reader.
func BuildTitle(s *slots.InsightSlots, f *facts.InsightFacts) string {
	var c lines
	c.add("One sentence, %d-%d words, no trailing period.", titleMinWords, titleMaxWords)
	c.add("Address the reader with \"you\" or \"your\".")
	c.add("Lead with context from the headline. Never start with a number or currency symbol.")
	c.add("Use the headline fact as the subject: %q", facts.HeadlineFact(f))
	if a := facts.PrimaryAction(f); a != nil {
		c.add("If it fits, close with the action: %s", a.Description)
	}
	c.add("Never say \"this period\".")

	var ex string
	for _, e := range titleExamples {
		ex += e.render("example") + "\n"
	}

	return join(
		section("role", fmt.Sprintf("You write the title line of a %s business insight. It is the first thing the owner reads.", f.PeriodType.Noun())),
		section("voice", facts.ToneGuidanceFromFacts(f)),
		section("data", dataSection(s, f)),
		section("banned_words", bannedWords(f)),
		section("constraints", c.String()),
		section("accuracy", accuracyRules(f)),
		section("examples", ex),
		section("output", "Output only the title text. No quotes, no preamble."),
	)
}
