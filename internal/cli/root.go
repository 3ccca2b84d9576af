package cli

import (
	"github.com/mwoodfin/copydesk/internal/autosave"
	"github.com/mwoodfin/copydesk/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Worklist service.WorklistService
	Reviews  service.ReviewService
	Stats    service.StatsService

	// Actor is attached to every transition and decision this process
	// makes. Defaults to the OS user when main wires the app.
	Actor string

	// Autosave tunes the review screen's save timing. The zero value
	// means "use DefaultOptions".
	Autosave autosave.Options
}

func (a *App) autosaveOptions() autosave.Options {
	if a.Autosave == (autosave.Options{}) {
		return autosave.DefaultOptions()
	}
	return a.Autosave
}

// NewRootCmd creates the top-level "copydesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "copydesk",
		Short: "Editorial worklist and proofreading decision tracker",
	}

	root.AddCommand(
		newItemCmd(app),
		newIssueCmd(app),
		newBatchCmd(app),
		newStatsCmd(app),
		newImportCmd(app),
		newReviewCmd(app),
	)

	return root
}
