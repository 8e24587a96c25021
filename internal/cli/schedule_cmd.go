package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ledgerpulse/internal/cli/formatter"
	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

var allPeriodTypes = []domain.PeriodType{
	domain.PeriodWeekly,
	domain.PeriodMonthly,
	domain.PeriodQuarterly,
	domain.PeriodYearly,
}

func newScheduleCmd(app *App) *cobra.Command {
	pt := newPeriodTypeFlag("")

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show when insights are next due",
		Long: `Show when insights are next due, per period type.

Weekly insights run on Mondays, monthly ones on the 1st, quarterly ones on
the first day of each quarter and yearly ones on January 1st, all at the
configured insight hour in the configured timezone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			types := allPeriodTypes
			if pt.value != "" {
				types = []domain.PeriodType{pt.value}
			}

			rows := make([]formatter.ScheduleRow, 0, len(types))
			for _, t := range types {
				next, err := app.Insights.NextRun(t)
				if err != nil {
					return err
				}
				latest, err := app.Insights.LatestComplete(t)
				if err != nil {
					return err
				}
				rows = append(rows, formatter.ScheduleRow{PeriodType: t, Latest: latest.Label, Next: next})
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSchedule(rows, app.now()))
			return nil
		},
	}

	addPeriodTypeFlag(cmd.Flags(), pt)
	return cmd
}
