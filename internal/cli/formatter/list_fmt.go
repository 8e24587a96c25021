package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/evals"
)

// FormatInsightList renders stored insights newest first. teamNames maps
// team IDs to display names; unknown IDs are shown as-is.
func FormatInsightList(insights []*domain.Insight, teamNames map[string]string, now time.Time) string {
	cols := []Column{
		{Title: "ID"},
		{Title: "TEAM"},
		{Title: "PERIOD"},
		{Title: "TITLE"},
		{Title: "SOURCE"},
		{Title: "SCORE", Right: true},
		{Title: "CREATED"},
	}
	rows := make([][]string, 0, len(insights))
	for _, ins := range insights {
		team := teamNames[ins.TeamID]
		if team == "" {
			team = ins.TeamID
		}
		score := Dim("–")
		if ins.EvalScore != nil {
			score = ScoreStyle(*ins.EvalScore).Render(fmt.Sprintf("%.0f%%", *ins.EvalScore*100))
		}
		rows = append(rows, []string{
			StyleGreen.Render(ins.DisplayID()),
			Truncate(team, 20),
			ins.PeriodLabel,
			Truncate(ins.Content.Title, 40),
			SourceBadge(ins.UsedFallback),
			score,
			Dim(RelativeDateFrom(ins.CreatedAt, now)),
		})
	}
	return RenderTable(cols, rows)
}

// FormatEvalReport renders per-scorer results followed by the mean.
func FormatEvalReport(ins *domain.Insight, scores []evals.Score, mean float64) string {
	cols := []Column{
		{Title: "SCORER"},
		{Title: "SCORE", Right: true},
		{Title: ""},
		{Title: "REASON"},
	}
	rows := make([][]string, 0, len(scores))
	for _, s := range scores {
		flag := ""
		if s.Critical {
			flag = StyleRed.Render("critical")
		}
		rows = append(rows, []string{
			s.Name,
			ScoreStyle(s.Value).Render(fmt.Sprintf("%.2f", s.Value)),
			flag,
			Dim(s.Reason),
		})
	}

	heading := fmt.Sprintf("Eval · %s · %s", ins.DisplayID(), ins.PeriodLabel)
	return fmt.Sprintf("%s\n%s\n\n%s %s\n",
		Header(heading),
		RenderTable(cols, rows),
		Bold("Mean:"),
		ScoreBadge(mean),
	)
}

// ScheduleRow is one period type's next due run.
type ScheduleRow struct {
	PeriodType domain.PeriodType
	Latest     string
	Next       time.Time
}

// FormatSchedule renders when each period type next produces insights.
func FormatSchedule(rows []ScheduleRow, now time.Time) string {
	cols := []Column{
		{Title: "PERIOD"},
		{Title: "LATEST COMPLETE"},
		{Title: "NEXT RUN"},
		{Title: ""},
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			string(r.PeriodType),
			r.Latest,
			r.Next.Format("Mon Jan 2 2006 15:04 MST"),
			StyleBlue.Render(RelativeDateFrom(r.Next, now)),
		})
	}
	return RenderTable(cols, out)
}

// FormatImportResult summarizes an import.
func FormatImportResult(teamName, teamID string, periods []domain.PeriodRef) string {
	out := fmt.Sprintf("%s %s %s\n", StyleGreen.Render("Imported"), Bold(teamName), Dim("("+teamID+")"))
	for _, ref := range periods {
		out += fmt.Sprintf("  %s %s\n", StyleDim.Render("•"), PeriodRef(ref))
	}
	return out
}
