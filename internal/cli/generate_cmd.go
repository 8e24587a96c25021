package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ledgerpulse/internal/cli/formatter"
	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/alexanderramin/ledgerpulse/internal/service"
)

func newGenerateCmd(app *App) *cobra.Command {
	var (
		teamID       string
		year, number int
		all, audio   bool
	)
	pt := newPeriodTypeFlag(domain.PeriodWeekly)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the insight for a team and period",
		Long: `Generate the insight for a team and period.

Without --year the latest complete period of --period-type is used.
Generating a period again replaces its stored insight. With --all every
enabled team is processed; teams without enough data are skipped.`,
		Example: `  ledgerpulse generate --team acme
  ledgerpulse generate --team acme -p monthly --year 2025 --number 12
  ledgerpulse generate --all -p weekly`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if all {
				if teamID != "" {
					return fmt.Errorf("--all and --team are mutually exclusive")
				}
				return runGenerateAll(cmd, app, pt.value)
			}

			periodType := pt.value
			if teamID == "" {
				if !app.interactive() {
					return fmt.Errorf("--team is required (or use --all)")
				}
				answers := generateAnswers{PeriodType: string(pt.value)}
				var err error
				if periodType, year, number, err = promptGenerate(ctx, app, &answers); err != nil {
					return err
				}
				teamID = answers.TeamID
			}

			ref, err := periodRefFromFlags(periodType, year, number)
			if err != nil {
				return err
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Generating insight...")
			}
			res, err := app.Insights.Generate(ctx, service.GenerateRequest{
				TeamID:     teamID,
				PeriodType: periodType,
				Period:     ref,
			})
			stop()
			if err != nil {
				return err
			}

			printGenerated(out, app, res, audio)
			return nil
		},
	}

	cmd.Flags().StringVarP(&teamID, "team", "t", "", "Team ID")
	addPeriodTypeFlag(cmd.Flags(), pt)
	cmd.Flags().IntVar(&year, "year", 0, "Period year (default: latest complete period)")
	cmd.Flags().IntVar(&number, "number", 0, "ISO week, month or quarter number")
	cmd.Flags().BoolVar(&all, "all", false, "Generate for every enabled team")
	cmd.Flags().BoolVar(&audio, "audio", false, "Also print the audio script")

	return cmd
}

func printGenerated(w io.Writer, app *App, res *service.GenerateResult, audio bool) {
	fmt.Fprintln(w, formatter.FormatInsight(formatter.InsightView{
		Insight:   res.Insight,
		ShowAudio: audio,
		Now:       app.now(),
	}))
	if res.FallbackReason != nil {
		fmt.Fprintf(w, "%s %v\n", formatter.StyleYellow.Render("Fallback:"), res.FallbackReason)
	}
}

func runGenerateAll(cmd *cobra.Command, app *App, pt domain.PeriodType) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	results, skipped, err := app.Insights.GenerateAll(ctx, pt)
	names := teamNames(ctx, app)
	name := func(id string) string {
		if n := names[id]; n != "" {
			return n
		}
		return id
	}

	for _, res := range results {
		fmt.Fprintf(out, "%s %s  %s  %s\n",
			formatter.StyleGreen.Render("✓"),
			name(res.Insight.TeamID),
			res.Insight.PeriodLabel,
			formatter.Dim(res.Insight.DisplayID()),
		)
	}

	ids := make([]string, 0, len(skipped))
	for id := range skipped {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var failed int
	for _, id := range ids {
		reason := skipped[id]
		mark := formatter.StyleYellow.Render("–")
		if !service.IsSkip(reason) {
			mark = formatter.StyleRed.Render("✗")
			failed++
		}
		fmt.Fprintf(out, "%s %s  %s\n", mark, name(id), formatter.Dim(reason.Error()))
	}

	fmt.Fprintf(out, "\n%d generated, %d skipped, %d failed\n", len(results), len(skipped)-failed, failed)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d team(s) failed", failed)
	}
	return nil
}
