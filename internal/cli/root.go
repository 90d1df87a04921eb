package cli

import (
	"github.com/alexanderramin/loadplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Plans     service.PlanService
	Imports   service.ImportService
	Staging   service.StagingService
	Reconcile service.ReconcileService
	Exports   service.ExportService
	Edits     service.EditService

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses the huh prompt.
	Confirm func(title string) (bool, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	return promptConfirm(title)
}

// NewRootCmd creates the top-level "loadplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "loadplan",
		Short:         "Team capacity planner with staged CSV imports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPlanCmd(app),
		newMemberCmd(app),
		newPeriodCmd(app),
		newLogCmd(app),
		newCapacityCmd(app),
		newStageCmd(app),
		newStagingCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newStoreCmd(app),
	)

	return root
}
