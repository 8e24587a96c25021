package slots

import (
	"fmt"
	"strings"
)

type HighlightKind string

const (
	HighlightPersonalBest     HighlightKind = "personal_best"
	HighlightRecovery         HighlightKind = "recovery"
	HighlightStreak           HighlightKind = "streak"
	HighlightBigPayment       HighlightKind = "big_payment"
	HighlightYoYGrowth        HighlightKind = "yoy_growth"
	HighlightMilestone        HighlightKind = "milestone"
	HighlightProfitMultiplier HighlightKind = "profit_multiplier"
	HighlightVsAverage        HighlightKind = "vs_average"
	HighlightNone             HighlightKind = "none"
)

// Highlight is the single most notable thing about a period. Exactly one
// variant is held; consumers switch on the concrete type.
type Highlight interface {
	Kind() HighlightKind
	// Text is a prompt-ready rendering of the highlight.
	Text() string
	isHighlight()
}

type PersonalBest struct{ Description string }
type Recovery struct{ Description string }
type StreakHighlight struct{ Description string }
type BigPayment struct{ Customer, Amount string }
type YoYGrowth struct{ Description string }
type Milestone struct{ Description string }
type ProfitMultiplier struct{ Multiplier int }
type VsAverage struct{ Description string }
type NoHighlight struct{}

func (PersonalBest) Kind() HighlightKind     { return HighlightPersonalBest }
func (Recovery) Kind() HighlightKind         { return HighlightRecovery }
func (StreakHighlight) Kind() HighlightKind  { return HighlightStreak }
func (BigPayment) Kind() HighlightKind       { return HighlightBigPayment }
func (YoYGrowth) Kind() HighlightKind        { return HighlightYoYGrowth }
func (Milestone) Kind() HighlightKind        { return HighlightMilestone }
func (ProfitMultiplier) Kind() HighlightKind { return HighlightProfitMultiplier }
func (VsAverage) Kind() HighlightKind        { return HighlightVsAverage }
func (NoHighlight) Kind() HighlightKind      { return HighlightNone }

func (h PersonalBest) Text() string    { return h.Description }
func (h Recovery) Text() string        { return h.Description }
func (h StreakHighlight) Text() string { return h.Description }
func (h BigPayment) Text() string      { return fmt.Sprintf("%s paid %s", h.Customer, h.Amount) }
func (h YoYGrowth) Text() string       { return h.Description }
func (h Milestone) Text() string       { return h.Description }
func (h ProfitMultiplier) Text() string {
	return fmt.Sprintf("profit is %dx last week", h.Multiplier)
}
func (h VsAverage) Text() string { return h.Description }
func (NoHighlight) Text() string { return "" }

func (PersonalBest) isHighlight()     {}
func (Recovery) isHighlight()         {}
func (StreakHighlight) isHighlight()  {}
func (BigPayment) isHighlight()       {}
func (YoYGrowth) isHighlight()        {}
func (Milestone) isHighlight()        {}
func (ProfitMultiplier) isHighlight() {}
func (VsAverage) isHighlight()        {}
func (NoHighlight) isHighlight()      {}

const (
	minStreak          = 3
	multiplierTrigger  = 3.0
	yoyGrowthDirection = "up"
)

type highlightInput struct {
	isPersonalBest      bool
	historicalContext   string
	isRecovery          bool
	recoveryDescription string
	streak              *StreakSlot
	largestPayment      *PaymentSlot
	yoyProfit           string
	profitRaw           float64
	previousProfitRaw   float64
	vsAverage           string
}

// computeHighlight walks the priority waterfall; the first match wins.
func computeHighlight(in highlightInput) Highlight {
	if in.isPersonalBest && in.historicalContext != "" {
		return PersonalBest{Description: in.historicalContext}
	}
	if in.isRecovery && in.recoveryDescription != "" {
		return Recovery{Description: in.recoveryDescription}
	}
	if in.streak != nil && in.streak.Count >= minStreak {
		return StreakHighlight{Description: in.streak.Description}
	}
	if in.previousProfitRaw > 0 && in.profitRaw > 0 {
		if ratio := in.profitRaw / in.previousProfitRaw; ratio >= multiplierTrigger {
			return ProfitMultiplier{Multiplier: int(ratio + 0.5)}
		}
	}
	if strings.Contains(in.yoyProfit, yoyGrowthDirection) {
		return YoYGrowth{Description: "Profit " + in.yoyProfit}
	}
	if in.largestPayment != nil {
		return BigPayment{Customer: in.largestPayment.Customer, Amount: in.largestPayment.Amount}
	}
	if in.vsAverage != "" {
		return VsAverage{Description: in.vsAverage}
	}
	return NoHighlight{}
}
