package prompts

import (
	"fmt"
	"math"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/facts"
	"github.com/alexanderramin/ledgerpulse/internal/slots"
)

// MaxActions caps how many actions the model may return.
const MaxActions = 3

// Candidate is one thing the owner could act on, with the identifiers the
// model must copy verbatim into its answer.
type Candidate struct {
	Type       domain.ActionType
	EntityType string
	EntityID   string
	Detail     string
}

// Candidates lists actionable items in priority order. An empty result
// means there is nothing to ask the model about.
func Candidates(s *slots.InsightSlots, f *facts.InsightFacts) []Candidate {
	var out []Candidate
	for _, inv := range f.Overdue.Invoices {
		detail := fmt.Sprintf("%s owes %s, %d days overdue", inv.Company, inv.Amount, inv.DaysOverdue)
		if inv.IsUnusual && inv.UnusualReason != "" {
			detail += " (unusual: " + inv.UnusualReason + ")"
		}
		out = append(out, Candidate{Type: domain.ActionOverdue, EntityType: "invoice", EntityID: inv.ID, Detail: detail})
	}
	for _, d := range f.Drafts.Drafts {
		out = append(out, Candidate{
			Type: domain.ActionDraft, EntityType: "invoice", EntityID: d.ID,
			Detail: fmt.Sprintf("draft invoice to %s for %s not sent yet", d.Company, d.Amount),
		})
	}
	for _, sp := range s.ExpenseSpikes {
		out = append(out, Candidate{
			Type: domain.ActionExpenseSpike, EntityType: "category", EntityID: sp.Category,
			Detail: fmt.Sprintf("%s spending up %.0f%% to %s", sp.Category, math.Abs(sp.Change), sp.Amount),
		})
	}
	if cw := s.ConcentrationWarning; cw != nil {
		out = append(out, Candidate{
			Type: domain.ActionConcentration, EntityType: "customer", EntityID: cw.CustomerName,
			Detail: fmt.Sprintf("%.0f%% of revenue (%s) came from %s", cw.Percentage, cw.Amount, cw.CustomerName),
		})
	}
	if f.Runway.IsLow {
		out = append(out, Candidate{
			Type:   domain.ActionRunway,
			Detail: facts.RunwayDescription(f),
		})
	}
	if s.UnbilledHours > 0 {
		out = append(out, Candidate{
			Type:   domain.ActionUnbilled,
			Detail: fmt.Sprintf("%.1f hours tracked but not invoiced", s.UnbilledHours),
		})
	}
	return out
}

// BuildActions renders the actions prompt. ok is false when there is
// nothing actionable, in which case generation should be skipped.
func BuildActions(s *slots.InsightSlots, f *facts.InsightFacts) (prompt string, ok bool) {
	cands := Candidates(s, f)
	if len(cands) == 0 {
		return "", false
	}

	var l lines
	for i, c := range cands {
		l.add("%d. type=%s entityType=%s entityId=%s: %s", i+1, c.Type, c.EntityType, c.EntityID, c.Detail)
	}

	var c lines
	c.add("Return at most %d actions, most valuable first.", MaxActions)
	c.add("Each text is an imperative sentence under 15 words naming the customer or category and the amount.")
	c.add("Copy type, entityType and entityId exactly from the candidate you used. Leave entityType and entityId empty when the candidate has none.")
	c.add("Only use the candidates listed. Never invent customers, amounts or IDs.")

	return join(
		section("role", "You turn a business owner's open items into a short list of next steps."),
		section("voice", slots.ToneGuidance(f.WeekType)),
		section("candidates", l.String()),
		section("banned_words", bannedWords(f)),
		section("constraints", c.String()),
		section("output", `Output ONLY a JSON object of this shape, with no markdown fences:
{"actions":[{"text":"Collect 2,400 kr from Acme","type":"overdue","entityType":"invoice","entityId":"inv-1"}]}`),
	), true
}
