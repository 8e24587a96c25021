// Package evals scores generated insight content against the facts it was
// generated from. Scorers are deterministic and cheap so they can run on
// every generation as well as offline.
package evals

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/facts"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

// Score is one scorer's verdict in [0, 1].
type Score struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Reason   string  `json:"reason,omitempty"`
	Critical bool    `json:"critical,omitempty"`
}

// Passed reports whether the scorer gave full marks.
func (s Score) Passed() bool { return s.Value >= 1 }

// Input bundles what every scorer may look at.
type Input struct {
	Content domain.InsightContent
	Facts   *facts.InsightFacts
	Slots   *slots.InsightSlots
}

type scorer struct {
	name     string
	critical bool
	fn       func(in Input) (float64, string)
}

func (in Input) written() string {
	return in.Content.Title + " " + in.Content.Summary + " " + in.Content.Story
}

var (
	reYouYour       = regexp.MustCompile(`(?i)\b(your|you)\b`)
	reLeadingDigit  = regexp.MustCompile(`^\d`)
	reThisPeriod    = regexp.MustCompile(`(?i)this period`)
	reUnpaidTerm    = regexp.MustCompile(`(?i)outstanding\s+(receivables?|invoices?|balance|amount|payment)`)
	reNumber        = regexp.MustCompile(`[\d,.\s]*\d`)
	reNoExpenses    = []*regexp.Regexp{regexp.MustCompile(`(?i)no expenses`), regexp.MustCompile(`(?i)zero expenses`), regexp.MustCompile(`(?i)without (any )?expenses`), regexp.MustCompile(`(?i)expenses\D*\b0\b`)}
	reOwed          = regexp.MustCompile(`(?i)\b(overdue|owes?|owed|outstanding)\b`)
	reUrgency       = regexp.MustCompile(`(?i)prioriti[sz]e|priority|urgent|immediately|act (now|quickly|fast)|limited time|collect|critical`)
	reShortRunway   = regexp.MustCompile(`(?i)\b[1-3]\s*-?\s*month`)
	reMonthName     = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\b`)
	reGreeting      = regexp.MustCompile(`(?i)^(hi|hello|hey|good\s+(morning|afternoon|evening)|greetings|welcome)\b`)
	reListLine      = regexp.MustCompile(`(?m)^\s*([-•*]\s|\d+\.\s)`)
	reCurrencyAbbr  = regexp.MustCompile(`\b(SEK|USD|EUR|GBP|NOK|DKK|CHF|JPY|kr)\b|[€$£¥]`)
	reSentenceBreak = regexp.MustCompile(`[.!?]+(\s+|$)|\n+`)
	reProfitGrowth  = regexp.MustCompile(`(?i)\bprofits?\s+(has\s+|have\s+)?(doubled|tripled|quadrupled|grew|grown|rose|risen|jumped|up|increased|improved)\b`)
	reGrowthWord    = regexp.MustCompile(`(?i)\b(doubled|tripled|quadrupled|grew|grown|growth|momentum)\b`)
	reOtherSubject  = regexp.MustCompile(`(?i)\b(revenue|sales|income|turnover|invoic\w*|billing|expenses?|costs?|spending|burn|loss(es)?|overdue|customers?)\b`)
)

// falseGrowthPhrase returns the first phrase in text that claims the
// business grew. Growth words count only when profit is the subject or the
// sentence names nothing else that could have grown.
func falseGrowthPhrase(text string) string {
	for _, sentence := range reSentenceBreak.Split(text, -1) {
		if m := reProfitGrowth.FindString(sentence); m != "" {
			return m
		}
		if m := reGrowthWord.FindString(sentence); m != "" && !reOtherSubject.MatchString(sentence) {
			return m
		}
	}
	return ""
}

func bannedPattern() *regexp.Regexp {
	words := make([]string, len(facts.BannedWords))
	for i, w := range facts.BannedWords {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`)
}

var reBanned = bannedPattern()

func binary(ok bool, failReason string) (float64, string) {
	if ok {
		return 1, ""
	}
	return 0, failReason
}

func words(s string) int { return len(strings.Fields(s)) }

// extractNumbers pulls every positive number out of text, treating commas
// and spaces as group separators.
func extractNumbers(text string) []float64 {
	var out []float64
	for _, m := range reNumber.FindAllString(text, -1) {
		cleaned := strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(strings.TrimSpace(m))
		cleaned = strings.Trim(cleaned, ".")
		n, err := strconv.ParseFloat(cleaned, 64)
		if err == nil && n > 0 {
			out = append(out, n)
		}
	}
	return out
}

func mentionsNumber(num float64, text string) bool {
	target := math.Abs(num)
	for _, n := range extractNumbers(text) {
		if math.Abs(n-target)/math.Max(target, 1) < 0.01 {
			return true
		}
	}
	return false
}

var scorers = []scorer{
	{name: "title_addresses_reader", fn: func(in Input) (float64, string) {
		return binary(reYouYour.MatchString(in.Content.Title), "title does not say you or your")
	}},
	{name: "title_no_leading_number", fn: func(in Input) (float64, string) {
		return binary(!reLeadingDigit.MatchString(strings.TrimSpace(in.Content.Title)), "title starts with a number")
	}},
	{name: "title_word_count", fn: func(in Input) (float64, string) {
		n := words(in.Content.Title)
		return binary(n >= 12 && n <= 35, fmt.Sprintf("title has %d words, want 12-35", n))
	}},
	{name: "summary_no_this_period", fn: func(in Input) (float64, string) {
		return binary(!reThisPeriod.MatchString(in.Content.Summary), `summary says "this period"`)
	}},
	{name: "summary_word_count", fn: func(in Input) (float64, string) {
		n := words(in.Content.Summary)
		return binary(n >= 35 && n <= 65, fmt.Sprintf("summary has %d words, want 35-65", n))
	}},
	{name: "no_banned_words", fn: func(in Input) (float64, string) {
		text := reUnpaidTerm.ReplaceAllString(in.written(), "UNPAID_TERM")
		if w := reBanned.FindString(text); w != "" {
			return 0, fmt.Sprintf("uses banned word %q", w)
		}
		return 1, ""
	}},
	{name: "profit_amount_correct", fn: func(in Input) (float64, string) {
		profit := in.Slots.ProfitRaw
		if profit == 0 {
			return 1, ""
		}
		ok := mentionsNumber(profit, in.Content.Summary) || mentionsNumber(profit, in.Content.Title)
		return binary(ok, fmt.Sprintf("profit %s not found in title or summary", in.Slots.Profit))
	}},
	{name: "runway_mentioned", fn: func(in Input) (float64, string) {
		months := in.Facts.Runway.Months
		re := regexp.MustCompile(fmt.Sprintf(`(?i)\b%d[- ]month|%d\s*months?\s*(of\s+)?runway`, months, months))
		text := in.Content.Title + " " + in.Content.Summary
		if re.MatchString(text) {
			return 1, ""
		}
		if in.Facts.Runway.ExhaustionDate != "" && reMonthName.MatchString(text) {
			return 1, ""
		}
		return 0, fmt.Sprintf("runway of %d months not mentioned", months)
	}},
	{name: "no_contradictory_expense_claims", critical: true, fn: func(in Input) (float64, string) {
		if _, loss := in.Facts.ProfitStatus.(facts.Loss); !loss {
			return 1, ""
		}
		text := in.written()
		for _, re := range reNoExpenses {
			if m := re.FindString(text); m != "" {
				return 0, fmt.Sprintf("claims %q while in loss", m)
			}
		}
		return 1, ""
	}},
	{name: "overdue_mentioned", fn: func(in Input) (float64, string) {
		if !in.Facts.Overdue.HasOverdue || in.Facts.Overdue.Count == 0 {
			return 1, ""
		}
		return binary(reOwed.MatchString(in.written()), "overdue invoices not mentioned")
	}},
	{name: "no_false_growth_in_loss", critical: true, fn: func(in Input) (float64, string) {
		if _, loss := in.Facts.ProfitStatus.(facts.Loss); !loss {
			return 1, ""
		}
		for _, text := range []string{in.Content.Title, in.Content.Summary, in.Content.Story, in.Content.AudioScript} {
			if p := falseGrowthPhrase(text); p != "" {
				return 0, fmt.Sprintf("growth phrase %q while in loss", strings.ToLower(p))
			}
		}
		return 1, ""
	}},
	{name: "short_runway_urgency", fn: func(in Input) (float64, string) {
		if in.Facts.Runway.Months >= 4 {
			return 1, ""
		}
		text := in.written()
		if reUrgency.MatchString(text) {
			return 1, ""
		}
		if reShortRunway.MatchString(text) {
			return 0.5, "short runway stated without urgency"
		}
		return 0, "short runway without urgency"
	}},
	{name: "critical_runway_not_reassuring", fn: func(in Input) (float64, string) {
		if !in.Facts.Runway.IsCritical {
			return 1, ""
		}
		text := strings.ToLower(in.written() + " " + in.Content.AudioScript)
		for _, w := range facts.CriticalRunwayBannedWords {
			if strings.Contains(text, w) {
				return 0, fmt.Sprintf("reassuring %q with critical runway", w)
			}
		}
		return 1, ""
	}},
	{name: "audio_word_count", fn: func(in Input) (float64, string) {
		n := words(in.Content.AudioScript)
		return binary(n >= 60 && n <= 80, fmt.Sprintf("audio has %d words, want 60-80", n))
	}},
	{name: "audio_starts_with_period", fn: func(in Input) (float64, string) {
		script := strings.ToLower(strings.TrimSpace(in.Content.AudioScript))
		ok := strings.HasPrefix(script, "week") || reMonthName.MatchString(firstWord(script)) ||
			(in.Facts.PeriodLabel != "" && strings.HasPrefix(script, strings.ToLower(in.Facts.PeriodLabel)))
		return binary(ok, "audio does not open with the period")
	}},
	{name: "audio_no_greeting", fn: func(in Input) (float64, string) {
		return binary(!reGreeting.MatchString(strings.TrimSpace(in.Content.AudioScript)), "audio opens with a greeting")
	}},
	{name: "audio_no_exclamation", fn: func(in Input) (float64, string) {
		return binary(!strings.Contains(in.Content.AudioScript, "!"), "audio uses exclamation marks")
	}},
	{name: "audio_no_lists", fn: func(in Input) (float64, string) {
		return binary(!reListLine.MatchString(in.Content.AudioScript), "audio is formatted as a list")
	}},
	{name: "audio_currency_spoken", fn: func(in Input) (float64, string) {
		m := reCurrencyAbbr.FindString(in.Content.AudioScript)
		return binary(m == "", fmt.Sprintf("audio uses %q instead of the spoken currency", m))
	}},
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Run applies every scorer in a fixed order.
func Run(content domain.InsightContent, f *facts.InsightFacts, s *slots.InsightSlots) []Score {
	in := Input{Content: content, Facts: f, Slots: s}
	out := make([]Score, 0, len(scorers))
	for _, sc := range scorers {
		v, reason := sc.fn(in)
		out = append(out, Score{Name: sc.name, Value: v, Reason: reason, Critical: sc.critical})
	}
	return out
}

// CriticalViolations returns the reasons of failed critical scorers. Any
// entry means the content misstates the facts and must not be shown.
func CriticalViolations(content domain.InsightContent, f *facts.InsightFacts, s *slots.InsightSlots) []string {
	var out []string
	for _, sc := range Run(content, f, s) {
		if sc.Critical && !sc.Passed() {
			out = append(out, sc.Name+": "+sc.Reason)
		}
	}
	return out
}

// Mean averages scores, or returns 0 for none.
func Mean(scores []Score) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s.Value
	}
	return sum / float64(len(scores))
}
