package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// App holds what CLI commands need: the insight use cases plus terminal
// detection and a clock.
type App struct {
	Insights InsightUseCases

	// IsInteractive reports whether stdin is a terminal. Forms and the
	// spinner are only shown when it returns true.
	IsInteractive func() bool
	Now           func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "ledgerpulse" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerpulse",
		Short:         "Periodic financial insights for small teams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newImportCmd(app),
		newGenerateCmd(app),
		newShowCmd(app),
		newListCmd(app),
		newEvalCmd(app),
		newScheduleCmd(app),
		newBrowseCmd(app),
	)

	return root
}
