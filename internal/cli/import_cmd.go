package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/ledgerpulse/internal/cli/formatter"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a team and its period snapshots from YAML or JSON",
		Long: `Import a team and its period snapshots.

The file holds one team and any number of periods. Files ending in .json
are read as JSON, everything else as YAML. Re-importing a period replaces
its data; the import is all-or-nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Insights.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(res.Team.Name, res.Team.ID, res.Periods))
			return nil
		},
	}
}
