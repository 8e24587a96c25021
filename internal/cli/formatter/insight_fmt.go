package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

// InsightView carries what FormatInsight needs beyond the stored row.
type InsightView struct {
	Insight   *domain.Insight
	TeamName  string
	ShowAudio bool
	Now       time.Time
}

// FormatInsight renders one insight as a boxed report: heading, summary,
// story, then the numbered actions.
func FormatInsight(v InsightView) string {
	ins := v.Insight
	c := ins.Content

	var body strings.Builder

	meta := []string{SourceBadge(ins.UsedFallback)}
	if ins.EvalScore != nil {
		meta = append(meta, ScoreBadge(*ins.EvalScore))
	}
	meta = append(meta, Dim(ins.DisplayID()))
	if !ins.CreatedAt.IsZero() && !v.Now.IsZero() {
		meta = append(meta, Dim(RelativeDateFrom(ins.CreatedAt, v.Now)))
	}
	body.WriteString(strings.Join(meta, Dim("  ·  ")))
	body.WriteString("\n\n")

	body.WriteString(Bold(c.Title))
	body.WriteString("\n")
	if c.Summary != "" {
		body.WriteString(StyleFg.Render(Wrap(c.Summary, ContentWidth)))
		body.WriteString("\n")
	}

	if c.Story != "" {
		body.WriteString("\n")
		body.WriteString(Header("Story"))
		body.WriteString("\n")
		body.WriteString(Wrap(c.Story, ContentWidth))
		body.WriteString("\n")
	}

	if len(c.Actions) > 0 {
		body.WriteString("\n")
		body.WriteString(Header("Actions"))
		body.WriteString("\n")
		body.WriteString(FormatActions(c.Actions))
	}

	if v.ShowAudio && c.AudioScript != "" {
		body.WriteString("\n")
		body.WriteString(Header("Audio script"))
		body.WriteString("\n")
		body.WriteString(StyleBlue.Render(Wrap(c.AudioScript, ContentWidth)))
		body.WriteString("\n")
	}

	title := ins.PeriodLabel
	if v.TeamName != "" {
		title = fmt.Sprintf("%s · %s", v.TeamName, ins.PeriodLabel)
	}
	return RenderBox(title, strings.TrimRight(body.String(), "\n"))
}

// FormatActions renders actions as a numbered list. Actions bound to an
// entity show the reference on a dimmed second line.
func FormatActions(actions []domain.ActionItem) string {
	var b strings.Builder
	for i, a := range actions {
		fmt.Fprintf(&b, "%s %s\n", Bold(fmt.Sprintf("%d.", i+1)), a.Text)
		if ref := actionRef(a); ref != "" {
			fmt.Fprintf(&b, "   %s\n", Dim(ref))
		}
	}
	return b.String()
}

func actionRef(a domain.ActionItem) string {
	var parts []string
	if a.Type != "" {
		parts = append(parts, string(a.Type))
	}
	if a.EntityType != "" && a.EntityID != "" {
		parts = append(parts, a.EntityType+":"+a.EntityID)
	}
	return strings.Join(parts, " ")
}
