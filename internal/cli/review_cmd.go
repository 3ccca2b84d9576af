package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/mwoodfin/copydesk/internal/autosave"
	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/review"
	"github.com/mwoodfin/copydesk/internal/service"
	"github.com/mwoodfin/copydesk/internal/workflow"
	"github.com/spf13/cobra"
)

func newReviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "review ITEM",
		Short: "Review an item's issues interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("review needs a terminal; use 'issue decide' or 'batch' instead")
			}

			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}

			ctx := context.Background()
			item, err := app.Worklist.GetByID(ctx, id)
			if err != nil {
				return err
			}
			issues, err := app.Worklist.ListIssues(ctx, id)
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to review: no issues recorded.")
				return nil
			}

			actor := workflow.Actor{Name: app.Actor, Kind: workflow.ActorHuman}
			session := domain.NewReviewSession(id, time.Now().UTC())
			coordinator := autosave.NewCoordinator(
				&serviceSaver{reviews: app.Reviews, actor: actor},
				session,
				autosave.NewTimerScheduler(),
				autosave.NewTimerScheduler(),
				app.autosaveOptions(),
			)

			model := newReviewModel(item, issues, coordinator)
			program := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return err
			}

			// Flush whatever the debounce had not written yet.
			flushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := coordinator.Close(flushCtx); err != nil {
				return fmt.Errorf("final save: %w", err)
			}
			return nil
		},
	}
}

// serviceSaver adapts ReviewService to the autosave persistence hook.
type serviceSaver struct {
	reviews service.ReviewService
	actor   workflow.Actor
}

func (s *serviceSaver) Save(ctx context.Context, snap autosave.Snapshot) error {
	entries := make([]review.BatchEntry, 0, len(snap.Decisions))
	for _, d := range snap.Decisions {
		entries = append(entries, review.BatchEntry{
			IssueID:          d.IssueID,
			Type:             d.Type,
			Rationale:        d.Rationale,
			ModifiedContent:  d.ModifiedContent,
			FeedbackCategory: d.FeedbackCategory,
			FeedbackNotes:    d.FeedbackNotes,
		})
	}

	// Per-entry rejections are not transport failures; retrying them would
	// wedge the buffer, so the flush succeeds and the rejects are dropped.
	_, err := s.reviews.SaveDecisions(ctx, service.SaveDecisionsRequest{
		ItemID:    snap.ItemID,
		Decisions: entries,
		Notes:     snap.Notes,
		Actor:     s.actor,
	})
	return err
}
