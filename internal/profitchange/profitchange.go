// Package profitchange classifies a period-over-period profit movement
// into one canonical phrase. Sign matters: a shrinking loss and a growing
// profit have the same percentage sign but opposite meaning.
package profitchange

import (
	"fmt"
	"math"
)

// Transition is the kind of movement between two profit figures.
type Transition int

const (
	Flat Transition = iota
	ProfitUp
	ProfitDown
	LossDecreased
	LossIncreased
	ReturnedToProfit
	TurnedToLoss
	ProfitFromZero
	LossFromZero
	BreakEven
)

const flatBand = 5.0

const FlatPhrase = "flat vs last week"

var transitionNames = map[Transition]string{
	Flat:             "flat",
	ProfitUp:         "profit_up",
	ProfitDown:       "profit_down",
	LossDecreased:    "loss_decreased",
	LossIncreased:    "loss_increased",
	ReturnedToProfit: "returned_to_profit",
	TurnedToLoss:     "turned_to_loss",
	ProfitFromZero:   "profit_from_zero",
	LossFromZero:     "loss_from_zero",
	BreakEven:        "break_even",
}

func (t Transition) String() string {
	if s, ok := transitionNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Transition(%d)", int(t))
}

// Crossed reports whether profit changed sign between the two periods.
func (t Transition) Crossed() bool {
	return t == ReturnedToProfit || t == TurnedToLoss
}

// Classify maps (current, previous, pctChange) to a Transition. Rules are
// checked in order and the first match wins.
func Classify(current, previous, pctChange float64) Transition {
	switch {
	case math.Abs(pctChange) < flatBand:
		return Flat
	case previous > 0 && current > 0:
		if pctChange > 0 {
			return ProfitUp
		}
		return ProfitDown
	case previous < 0 && current < 0:
		if math.Abs(current) < math.Abs(previous) {
			return LossDecreased
		}
		return LossIncreased
	case previous < 0 && current > 0:
		return ReturnedToProfit
	case previous > 0 && current < 0:
		return TurnedToLoss
	case previous == 0 && current > 0:
		return ProfitFromZero
	case previous == 0 && current < 0:
		return LossFromZero
	case current == 0 && previous != 0:
		return BreakEven
	default:
		return Flat
	}
}

// Describe renders the canonical phrase for t.
func Describe(t Transition, pctChange float64) string {
	pct := math.Round(math.Abs(pctChange))
	switch t {
	case ProfitUp:
		return fmt.Sprintf("up %.0f%% vs last week", pct)
	case ProfitDown:
		return fmt.Sprintf("down %.0f%% vs last week", pct)
	case LossDecreased:
		return fmt.Sprintf("loss decreased %.0f%% vs last week", pct)
	case LossIncreased:
		return fmt.Sprintf("loss increased %.0f%% vs last week", pct)
	case ReturnedToProfit:
		return "returned to profit"
	case TurnedToLoss:
		return "turned to loss"
	case ProfitFromZero:
		return "profit this week"
	case LossFromZero:
		return "loss this week"
	case BreakEven:
		return "break-even this week"
	default:
		return FlatPhrase
	}
}

// Description is Classify followed by Describe.
func Description(current, previous, pctChange float64) string {
	return Describe(Classify(current, previous, pctChange), pctChange)
}
