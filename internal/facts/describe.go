package facts

import (
	"fmt"
	"math"
	"strconv"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// BannedWords are filler adjectives no generated text may use.
var BannedWords = []string{
	"solid", "healthy", "strong", "great", "robust", "excellent",
	"remarkable", "impressive", "amazing", "outstanding", "significant",
}

// CriticalRunwayBannedWords are reassurances forbidden while runway is critical.
var CriticalRunwayBannedWords = []string{
	"reassuring", "comfortable", "steady", "stable", "flexibility",
	"buffer", "cushion", "gives you time", "no rush",
}

// HeadlineFact is the lead line shared by title, summary and audio.
func HeadlineFact(f *InsightFacts) string {
	if f.IsPersonalBest && f.HistoricalContext != "" {
		return f.HistoricalContext
	}
	if f.IsRecovery && f.RecoveryDescription != "" {
		return f.RecoveryDescription
	}
	if f.Streak != nil && f.Streak.Count >= 3 {
		return f.Streak.Description
	}
	noun := f.PeriodType.Noun()
	switch p := f.ProfitStatus.(type) {
	case NoActivity:
		return "No financial activity this " + noun
	case BreakEven:
		return "Break-even this " + noun
	case Loss:
		return fmt.Sprintf("%s loss this %s", p.Amount, noun)
	case Profit:
		return fmt.Sprintf("%s profit this %s", p.Amount, noun)
	}
	return f.PeriodLabel
}

type Action struct {
	Description string
	Company     string
	Amount      string
	EntityID    string
}

// PrimaryAction returns the money-on-the-table action, or nil.
func PrimaryAction(f *InsightFacts) *Action {
	if f.Overdue.HasOverdue && f.Overdue.Largest != nil {
		l := f.Overdue.Largest
		return &Action{
			Description: fmt.Sprintf("Collect %s overdue from %s", l.Amount, l.Company),
			Company:     l.Company,
			Amount:      l.Amount,
			EntityID:    l.ID,
		}
	}
	if f.Drafts.HasDrafts && len(f.Drafts.Drafts) > 0 {
		top := f.Drafts.Drafts[0]
		for _, d := range f.Drafts.Drafts[1:] {
			if d.RawAmount > top.RawAmount {
				top = d
			}
		}
		return &Action{
			Description: fmt.Sprintf("Send the %s draft to %s", top.Amount, top.Company),
			Company:     top.Company,
			Amount:      top.Amount,
			EntityID:    top.ID,
		}
	}
	return nil
}

func ToneGuidanceFromFacts(f *InsightFacts) string {
	switch f.Mood {
	case domain.MoodCelebratory:
		return "Sound confident and pleased, but understated. Let the numbers speak for themselves."
	case domain.MoodPositive:
		return "Sound calm and assured. Acknowledge progress without overstating."
	case domain.MoodSupportive:
		return "Sound steady and pragmatic. Focus on actionable next steps."
	default:
		return "Sound clear and informative."
	}
}

// FormatNumberForSpeech rounds an amount to something a listener can
// take in: "4 thousand 300", "85 thousand", "1.2 million".
func FormatNumberForSpeech(value float64) string {
	n := int64(math.Round(value))
	if n < 0 {
		n = -n
	}
	switch {
	case n < 1000:
		return strconv.FormatInt(n, 10)
	case n < 10000:
		thousands := n / 1000
		hundreds := int64(math.Round(float64(n%1000)/100)) * 100
		if hundreds == 1000 {
			return fmt.Sprintf("%d thousand", thousands+1)
		}
		if hundreds > 0 {
			return fmt.Sprintf("%d thousand %d", thousands, hundreds)
		}
		return fmt.Sprintf("%d thousand", thousands)
	}
	// Anything that rounds to a thousand thousands is read in millions.
	if thousands := int64(math.Round(float64(n) / 1000)); thousands < 1000 {
		return fmt.Sprintf("%d thousand", thousands)
	}
	millions := math.Round(float64(n)/100_000) / 10
	return strconv.FormatFloat(millions, 'f', -1, 64) + " million"
}

func ProfitDescription(f *InsightFacts) string {
	switch p := f.ProfitStatus.(type) {
	case Profit:
		return p.Amount + " profit"
	case Loss:
		return p.Amount + " loss"
	case BreakEven:
		return "break-even (no profit or loss)"
	default:
		return "no financial activity"
	}
}

func ProfitDescriptionSpoken(f *InsightFacts) string {
	switch p := f.ProfitStatus.(type) {
	case Profit:
		return fmt.Sprintf("%s %s profit", FormatNumberForSpeech(p.RawAmount), f.CurrencyWord)
	case Loss:
		return fmt.Sprintf("%s %s loss", FormatNumberForSpeech(p.RawAmount), f.CurrencyWord)
	case BreakEven:
		return "break-even, no profit or loss"
	default:
		return "no financial activity"
	}
}

func RevenueDescription(f *InsightFacts) string {
	if r, ok := f.RevenueStatus.(Revenue); ok {
		return r.Amount + " revenue"
	}
	return "no revenue"
}

func RevenueDescriptionSpoken(f *InsightFacts) string {
	if r, ok := f.RevenueStatus.(Revenue); ok {
		return fmt.Sprintf("%s %s in revenue", FormatNumberForSpeech(r.RawAmount), f.CurrencyWord)
	}
	return "no revenue"
}

// RunwayDescription phrases runway with urgency matching its length.
func RunwayDescription(f *InsightFacts) string {
	r := f.Runway
	switch {
	case r.IsCritical && r.ExhaustionDate != "":
		unit := "months"
		if r.Months == 1 {
			unit = "month"
		}
		return fmt.Sprintf("only %d %s of runway until %s", r.Months, unit, r.ExhaustionDate)
	case r.ExhaustionDate != "":
		return fmt.Sprintf("%d months of runway (until %s)", r.Months, r.ExhaustionDate)
	default:
		return fmt.Sprintf("%d months of runway", r.Months)
	}
}
