package slots

import (
	"fmt"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// NotableContext returns the lead-worthy context line, if any.
func NotableContext(s *InsightSlots) string {
	switch {
	case s.IsPersonalBest && s.HistoricalContext != "":
		return s.HistoricalContext
	case s.IsRecovery && s.RecoveryDescription != "":
		return s.RecoveryDescription
	case s.Streak != nil && s.Streak.Count >= minStreak:
		return s.Streak.Description
	default:
		return s.VsAverage
	}
}

// ToneGuidance returns voice instructions for a week type.
func ToneGuidance(w domain.WeekType) string {
	switch w {
	case domain.WeekGreat:
		return "Tone: confident and acknowledging. Note the achievement the way a trusted advisor would, without hype."
	case domain.WeekQuiet:
		return "Tone: brief and calm. A quiet stretch is normal; say so without concern."
	case domain.WeekChallenging:
		return "Tone: direct and constructive. Be honest about the numbers and point at clear next steps."
	default:
		return "Tone: warm and matter-of-fact. Things are working; report them plainly."
	}
}

type PrimaryAction struct {
	Type        domain.ActionType
	Description string
	Amount      string
	Company     string
	EntityID    string
	DaysOverdue int
	Category    string
	Change      float64
}

// SelectPrimaryAction picks the single most useful next step in the order
// overdue, draft, expense spike, concentration.
func SelectPrimaryAction(s *InsightSlots) *PrimaryAction {
	if s.HasOverdue && s.LargestOverdue != nil {
		o := s.LargestOverdue
		return &PrimaryAction{
			Type:        domain.ActionOverdue,
			Description: fmt.Sprintf("Collect %s overdue from %s", o.Amount, o.Company),
			Amount:      o.Amount,
			Company:     o.Company,
			EntityID:    o.ID,
			DaysOverdue: o.DaysOverdue,
		}
	}
	if s.HasDrafts && len(s.Drafts) > 0 {
		top := s.Drafts[0]
		for _, d := range s.Drafts[1:] {
			if d.RawAmount > top.RawAmount {
				top = d
			}
		}
		return &PrimaryAction{
			Type:        domain.ActionDraft,
			Description: fmt.Sprintf("Send the %s draft invoice to %s", top.Amount, top.Company),
			Amount:      top.Amount,
			Company:     top.Company,
			EntityID:    top.ID,
		}
	}
	if s.HasExpenseSpikes && len(s.ExpenseSpikes) > 0 {
		sp := s.ExpenseSpikes[0]
		return &PrimaryAction{
			Type:        domain.ActionExpenseSpike,
			Description: fmt.Sprintf("Review %s spending — up %.0f%% to %s", sp.Category, sp.Change, sp.Amount),
			Amount:      sp.Amount,
			Category:    sp.Category,
			Change:      sp.Change,
		}
	}
	if cw := s.ConcentrationWarning; cw != nil {
		return &PrimaryAction{
			Type:        domain.ActionConcentration,
			Description: fmt.Sprintf("%.0f%% of revenue from %s — consider diversifying", cw.Percentage, cw.CustomerName),
			Amount:      cw.Amount,
			Company:     cw.CustomerName,
		}
	}
	return nil
}
