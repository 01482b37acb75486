package cli

import (
	"github.com/alexanderramin/costbook/internal/config"
	"github.com/alexanderramin/costbook/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Estimates service.EstimateService
	Import    service.ImportService
	Config    config.Config

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "costbook" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "costbook",
		Short:        "Hierarchical cost estimates with exact rollups",
		SilenceUsage: true,
	}

	root.AddCommand(
		newEstimateCmd(app),
		newNodeCmd(app),
		newImportCmd(app),
	)

	return root
}
