package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/ledgerpulse/internal/cli/formatter"
	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

func ledgerHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// generateAnswers is what the generate form collects. Year and Number
// stay strings until the form completes.
type generateAnswers struct {
	TeamID     string
	PeriodType string
	Year       string
	Number     string
}

// teamOptions lists teams for a huh.Select, labelled "Name (currency)".
func teamOptions(teams []*domain.Team) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(teams))
	for _, t := range teams {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", t.Name, t.Currency), t.ID))
	}
	return opts
}

func periodTypeOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Weekly", string(domain.PeriodWeekly)),
		huh.NewOption("Monthly", string(domain.PeriodMonthly)),
		huh.NewOption("Quarterly", string(domain.PeriodQuarterly)),
		huh.NewOption("Yearly", string(domain.PeriodYearly)),
	}
}

// generateForm asks for the team and period when the flags leave them out.
func generateForm(teams []*domain.Team, a *generateAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Team").
				Options(teamOptions(teams)...).
				Value(&a.TeamID),
			huh.NewSelect[string]().
				Title("Period type").
				Options(periodTypeOptions()...).
				Value(&a.PeriodType),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Year").
				Description("Blank for the latest complete period").
				Placeholder("2026").
				Value(&a.Year).
				Validate(validateOptionalInt),
			huh.NewInput().
				Title("Number").
				Description("Week, month or quarter; ignored for yearly").
				Value(&a.Number).
				Validate(validateOptionalInt),
		),
	).WithTheme(ledgerHuhTheme()).WithShowHelp(false)
}

// promptGenerate runs the generate form and turns the answers into flag
// values.
func promptGenerate(ctx context.Context, app *App, a *generateAnswers) (domain.PeriodType, int, int, error) {
	teams, err := app.Insights.ListTeams(ctx)
	if err != nil {
		return "", 0, 0, err
	}
	if len(teams) == 0 {
		return "", 0, 0, fmt.Errorf("no teams imported yet; run \"ledgerpulse import FILE\" first")
	}
	if err := generateForm(teams, a).RunWithContext(ctx); err != nil {
		return "", 0, 0, err
	}
	return a.resolve()
}

func (a *generateAnswers) resolve() (domain.PeriodType, int, int, error) {
	pt, err := domain.ParsePeriodType(a.PeriodType)
	if err != nil {
		return "", 0, 0, err
	}
	var year, number int
	if a.Year != "" {
		if year, err = strconv.Atoi(a.Year); err != nil {
			return "", 0, 0, fmt.Errorf("invalid year %q", a.Year)
		}
	}
	if a.Number != "" {
		if number, err = strconv.Atoi(a.Number); err != nil {
			return "", 0, 0, fmt.Errorf("invalid number %q", a.Number)
		}
	}
	return pt, year, number, nil
}
