package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// EnabledTeams is the parsed team allow-list.
type EnabledTeams struct {
	all bool
	ids map[string]bool
}

// ParseEnabledTeams reads the raw allow-list: empty enables no team, "*"
// enables every team, anything else is a comma-separated list of IDs.
func ParseEnabledTeams(raw string) EnabledTeams {
	raw = strings.TrimSpace(raw)
	if raw == "*" {
		return EnabledTeams{all: true}
	}
	e := EnabledTeams{ids: make(map[string]bool)}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			e.ids[id] = true
		}
	}
	return e
}

func (e EnabledTeams) Allows(teamID string) bool {
	return e.all || e.ids[teamID]
}

// IDs returns the explicit list; nil when every team is enabled.
func (e EnabledTeams) IDs() []string {
	if e.all {
		return nil
	}
	out := make([]string, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	return out
}

const (
	minTransactions   = 3
	minDataPoints     = 3
	maxBankSyncAgeDay = 7
)

// CheckDataQuality rejects periods with fewer than three transactions
// unless invoices sent make up the difference, and periods whose last bank
// sync is more than a week old. Sync age is measured at the end of the
// period, or at now for a period still running. A team without any bank
// sync is judged on its transactions and invoices alone.
func CheckDataQuality(s *domain.Snapshot, now time.Time) error {
	tx := s.Transactions
	invoices := s.Activity.InvoicesSent
	if tx < minTransactions && tx+invoices < minDataPoints {
		return fmt.Errorf("%w: only %d transactions and %d invoices in period (minimum %d data points required)",
			ErrInsufficientData, tx, invoices, minDataPoints)
	}
	if s.LastBankSync != nil {
		at := now
		if !s.PeriodEnd.IsZero() && s.PeriodEnd.Before(now) {
			at = s.PeriodEnd
		}
		age := int(at.Sub(*s.LastBankSync).Hours() / 24)
		if age > maxBankSyncAgeDay {
			return fmt.Errorf("%w: last bank sync was %d days ago (maximum %d days allowed)",
				ErrInsufficientData, age, maxBankSyncAgeDay)
		}
	}
	return nil
}
