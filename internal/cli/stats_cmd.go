package cli

import (
	"context"
	"fmt"

	"github.com/mwoodfin/copydesk/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var cycles bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show pipeline statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			out := cmd.OutOrStdout()

			breakdown, err := app.Stats.StatusBreakdown(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatBreakdown(breakdown))

			if cycles {
				cycleTimes, err := app.Stats.CycleTimes(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatter.FormatCycleTimes(cycleTimes))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cycles, "cycles", false, "Include average time per status")

	return cmd
}
