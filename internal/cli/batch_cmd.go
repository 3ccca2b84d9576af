package cli

import (
	"context"
	"fmt"

	"github.com/mwoodfin/copydesk/internal/cli/formatter"
	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/service"
	"github.com/mwoodfin/copydesk/internal/workflow"
	"github.com/spf13/cobra"
)

func newBatchCmd(app *App) *cobra.Command {
	var decisionStr, rationale string

	cmd := &cobra.Command{
		Use:   "batch ITEM ISSUE...",
		Short: "Apply one decision to many issues",
		Long: "Applies the same decision type to every listed issue. Entries " +
			"fail independently; failures are reported without aborting the rest.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}

			decisionType := domain.DecisionType(decisionStr)
			if !decisionType.Valid() {
				return fmt.Errorf("unknown decision type %q", decisionStr)
			}
			if decisionType == domain.DecisionTypeModified {
				return fmt.Errorf("modified decisions need per-issue content; use 'issue decide'")
			}

			result, err := app.Reviews.ApplyBatch(context.Background(), service.BatchRequest{
				ItemID:    id,
				IssueIDs:  args[1:],
				Type:      decisionType,
				Rationale: rationale,
				Actor:     workflow.Actor{Name: app.Actor, Kind: workflow.ActorHuman},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processed %d: %d saved, %d failed\n",
				result.ProcessedCount, len(result.Saved), len(result.Failed))
			for _, failure := range result.Failed {
				fmt.Fprintf(out, "  %s %s: %s\n",
					formatter.StyleRed.Render("✗"), failure.IssueID, failure.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&decisionStr, "decision", "", "accepted|rejected")
	cmd.Flags().StringVar(&rationale, "rationale", "", "Shared rationale for every entry")
	_ = cmd.MarkFlagRequired("decision")

	return cmd
}
