package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/period"
)

// teamNamespace seeds IDs derived from team names.
var teamNamespace = uuid.MustParse("6f1c3d4e-2b7a-4c59-9e0d-8a41f5b2c763")

// Batch is a converted import ready for persistence.
type Batch struct {
	Team      *domain.Team
	Snapshots []*domain.Snapshot
}

// Convert transforms a validated ImportSchema into domain objects. Period
// boundaries are resolved in loc. Call ValidateImportSchema first.
func Convert(schema *ImportSchema, loc *time.Location, defaultLocale string) (*Batch, error) {
	now := time.Now().UTC()

	team := &domain.Team{
		ID:        schema.Team.ID,
		Name:      schema.Team.Name,
		Currency:  strings.ToUpper(schema.Team.Currency),
		Locale:    schema.Team.Locale,
		CreatedAt: now,
	}
	if team.ID == "" {
		team.ID = TeamIDFromName(team.Name)
	}
	if team.Locale == "" {
		team.Locale = defaultLocale
	}

	snaps := make([]*domain.Snapshot, 0, len(schema.Periods))
	for i := range schema.Periods {
		p := &schema.Periods[i]
		ref := refOf(p)
		info, err := period.Info(ref.Type, ref.Year, ref.Number, loc)
		if err != nil {
			return nil, fmt.Errorf("periods[%d]: %w", i, err)
		}

		s := &domain.Snapshot{
			ID:           uuid.New().String(),
			TeamID:       team.ID,
			Period:       info.Ref(),
			PeriodStart:  info.Start,
			PeriodEnd:    info.End,
			Current:      p.Current,
			Previous:     p.Previous,
			Activity:     p.Activity,
			Transactions: p.Transactions,
			CreatedAt:    now,
		}
		if p.LastBankSync != nil {
			t, err := time.Parse(time.RFC3339, *p.LastBankSync)
			if err != nil {
				return nil, fmt.Errorf("periods[%d]: parsing last_bank_sync: %w", i, err)
			}
			s.LastBankSync = &t
		}
		snaps = append(snaps, s)
	}

	return &Batch{Team: team, Snapshots: snaps}, nil
}

// TeamIDFromName returns the stable ID used for a team imported without one.
func TeamIDFromName(name string) string {
	return uuid.NewSHA1(teamNamespace, []byte(strings.ToLower(strings.TrimSpace(name)))).String()
}
