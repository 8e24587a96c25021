package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ledgerpulse/internal/cli/formatter"
)

func newShowCmd(app *App) *cobra.Command {
	var audio bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a stored insight",
		Long:  "Show a stored insight. ID may be the full ID or a prefix of at least 8 characters.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ins, err := app.Insights.GetInsight(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInsight(formatter.InsightView{
				Insight:   ins,
				TeamName:  teamNames(ctx, app)[ins.TeamID],
				ShowAudio: audio,
				Now:       app.now(),
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&audio, "audio", false, "Also print the audio script")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var (
		teamID string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored insights, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			insights, err := app.Insights.ListInsights(ctx, teamID, limit)
			if err != nil {
				return err
			}
			if len(insights) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No insights found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInsightList(insights, teamNames(ctx, app), app.now()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&teamID, "team", "t", "", "Only this team")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows (0 for all)")
	return cmd
}

func newEvalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "eval ID",
		Short: "Score a stored insight against its facts",
		Long: `Score a stored insight against facts recomputed from its snapshot.

The scorers are deterministic checks on word counts, banned phrasing,
the stated profit amount, runway and overdue mentions, and claims that
contradict the numbers. No model is called.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Insights.Evaluate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvalReport(report.Insight, report.Scores, report.Mean))
			return nil
		},
	}
}
