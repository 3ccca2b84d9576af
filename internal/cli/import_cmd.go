package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mwoodfin/copydesk/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Register an analysis result file against its item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadAnalysisSchema(args[0])
			if err != nil {
				return err
			}

			if errs := importer.ValidateAnalysisSchema(schema); len(errs) > 0 {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%d validation errors:\n", len(errs))
				for _, e := range errs {
					fmt.Fprintf(out, "  - %s\n", e)
				}
				return fmt.Errorf("analysis file is invalid")
			}

			issues := importer.ConvertAnalysisSchema(schema, time.Now().UTC())
			result, err := app.Worklist.RegisterAnalysis(context.Background(), schema.Item.ID, issues)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Registered %d issues on item %d (%d prior decisions preserved)\n",
				result.IssueCount, result.ItemID, result.PreservedDecisions)
			return nil
		},
	}
}
