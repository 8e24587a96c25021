package domain

import "time"

type ActionItem struct {
	Text       string     `json:"text"`
	Type       ActionType `json:"type,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
	EntityID   string     `json:"entityId,omitempty"`
}

// InsightContent is the generated text for one (team, period).
type InsightContent struct {
	Title       string       `json:"title"`
	Summary     string       `json:"summary"`
	Story       string       `json:"story"`
	Actions     []ActionItem `json:"actions"`
	AudioScript string       `json:"audioScript"`
}

type Team struct {
	ID        string
	Name      string
	Currency  string
	Locale    string
	CreatedAt time.Time
}

// PeriodRef identifies a reporting period independently of its dates.
type PeriodRef struct {
	Type   PeriodType
	Year   int
	Number int
}

// Snapshot is the stored input for one team and period: the current and
// previous aggregates plus the period's activity.
type Snapshot struct {
	ID           string
	TeamID       string
	Period       PeriodRef
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Current      MetricData
	Previous     MetricData
	Activity     InsightActivity
	Transactions int
	LastBankSync *time.Time
	CreatedAt    time.Time
}

// Insight is the persisted result of a generation run.
type Insight struct {
	ID           string
	TeamID       string
	Period       PeriodRef
	PeriodLabel  string
	Content      InsightContent
	UsedFallback bool
	// EvalScore is the mean deterministic eval score; nil for rows stored
	// before scoring existed.
	EvalScore *float64
	CreatedAt time.Time
}

// DisplayID truncates ID to 8 characters for tables.
func (i *Insight) DisplayID() string {
	if len(i.ID) >= 8 {
		return i.ID[:8]
	}
	return i.ID
}
