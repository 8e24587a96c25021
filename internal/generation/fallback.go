package generation

import (
	"fmt"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// GetFallbackContent builds truthful, generic content straight from the
// activity. It makes no claims about profit or growth, so it cannot
// contradict the facts.
func GetFallbackContent(activity domain.InsightActivity, periodLabel string) domain.InsightContent {
	label := periodLabel
	if label == "" {
		label = "latest"
	}

	if inv := largestOverdue(activity.MoneyOnTable.OverdueInvoices); inv != nil {
		return domain.InsightContent{
			Title: fmt.Sprintf("%s owes you - check your summary.", inv.CustomerName),
			Summary: fmt.Sprintf("You have outstanding invoices to follow up on. %s owes you - check your %s summary for details.",
				inv.CustomerName, label),
			Story: fmt.Sprintf("Your %s numbers are ready on the dashboard. Start with the overdue invoice from %s, then review the rest of the period.",
				label, inv.CustomerName),
			Actions: []domain.ActionItem{{
				Text:       "Review overdue invoices",
				Type:       domain.ActionOverdue,
				EntityType: "invoice",
				EntityID:   inv.ID,
			}},
			AudioScript: fmt.Sprintf("%s. Your summary is ready. %s has an overdue invoice, so following up is the first thing to do.",
				label, inv.CustomerName),
		}
	}

	actions := []domain.ActionItem{}
	if len(activity.MoneyOnTable.DraftInvoices) > 0 {
		actions = append(actions, domain.ActionItem{Text: "Review your dashboard"})
	}
	return domain.InsightContent{
		Title:       fmt.Sprintf("%s summary ready.", label),
		Summary:     fmt.Sprintf("Your %s summary is ready. Check the dashboard for detailed numbers and any items needing attention.", label),
		Story:       fmt.Sprintf("Your %s summary is ready. The dashboard has the detailed numbers for the period.", label),
		Actions:     actions,
		AudioScript: fmt.Sprintf("%s. Your summary is ready. The dashboard has the detailed numbers.", label),
	}
}

func largestOverdue(invoices []domain.OverdueInvoice) *domain.OverdueInvoice {
	var best *domain.OverdueInvoice
	for i := range invoices {
		if best == nil || invoices[i].Amount > best.Amount {
			best = &invoices[i]
		}
	}
	return best
}
