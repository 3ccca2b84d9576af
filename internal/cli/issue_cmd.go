package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/mwoodfin/copydesk/internal/cli/formatter"
	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/review"
	"github.com/mwoodfin/copydesk/internal/service"
	"github.com/mwoodfin/copydesk/internal/workflow"
	"github.com/spf13/cobra"
)

func newIssueCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Inspect and decide proofreading issues",
	}

	cmd.AddCommand(
		newIssueListCmd(app),
		newIssueShowCmd(app),
		newIssueDecideCmd(app),
		newIssueHistoryCmd(app),
	)

	return cmd
}

func newIssueListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list ITEM",
		Short: "List issues on an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			issues, err := app.Worklist.ListIssues(context.Background(), id)
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No issues recorded.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatIssueList(issues))
			return nil
		},
	}
}

func newIssueShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ITEM ISSUE",
		Short: "Show one issue in full",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			issues, err := app.Worklist.ListIssues(context.Background(), id)
			if err != nil {
				return err
			}
			for _, issue := range issues {
				if issue.ID == args[1] {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatIssueDetail(issue))
					return nil
				}
			}
			return fmt.Errorf("issue %q not found on item %d", args[1], id)
		},
	}
}

func newIssueDecideCmd(app *App) *cobra.Command {
	var decisionStr, rationale, content, feedbackCategory, feedbackNotes string

	cmd := &cobra.Command{
		Use:   "decide ITEM ISSUE",
		Short: "Record a decision on one issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			issueID := args[1]

			// Without --decision on a terminal, fall back to the form.
			if decisionStr == "" {
				if !isatty.IsTerminal(os.Stdin.Fd()) {
					return fmt.Errorf("--decision is required when not running interactively")
				}
				if err := runDecideForm(&decisionStr, &rationale, &content, &feedbackCategory, &feedbackNotes); err != nil {
					return err
				}
			}

			decisionType := domain.DecisionType(decisionStr)
			if !decisionType.Valid() {
				return fmt.Errorf("unknown decision type %q", decisionStr)
			}

			result, err := app.Reviews.SaveDecisions(context.Background(), service.SaveDecisionsRequest{
				ItemID: id,
				Decisions: []review.BatchEntry{
					{
						IssueID:          issueID,
						Type:             decisionType,
						Rationale:        rationale,
						ModifiedContent:  content,
						FeedbackCategory: feedbackCategory,
						FeedbackNotes:    feedbackNotes,
					},
				},
				Actor: workflow.Actor{Name: app.Actor, Kind: workflow.ActorHuman},
			})
			if err != nil {
				return err
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("decision rejected: %s", result.Errors[0].Reason)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s on %s\n", decisionType, issueID)
			return nil
		},
	}

	cmd.Flags().StringVar(&decisionStr, "decision", "", "accepted|rejected|modified")
	cmd.Flags().StringVar(&rationale, "rationale", "", "Why this decision was made")
	cmd.Flags().StringVar(&content, "content", "", "Replacement text (modified decisions only)")
	cmd.Flags().StringVar(&feedbackCategory, "feedback-category", "", "Structured feedback category for the rule author")
	cmd.Flags().StringVar(&feedbackNotes, "feedback-notes", "", "Free-form feedback notes")

	return cmd
}

func runDecideForm(decision, rationale, content, feedbackCategory, feedbackNotes *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Decision").
				Options(
					huh.NewOption("Accept the suggested edit", "accepted"),
					huh.NewOption("Reject, keep the original", "rejected"),
					huh.NewOption("Modify with my own text", "modified"),
				).
				Value(decision),
			huh.NewInput().
				Title("Rationale (optional)").
				Value(rationale),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Replacement text").
				Value(content),
		).WithHideFunc(func() bool { return *decision != "modified" }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Feedback for the rule (optional)").
				Options(
					huh.NewOption("None", ""),
					huh.NewOption("False positive", "false_positive"),
					huh.NewOption("Bad suggestion", "bad_suggestion"),
					huh.NewOption("Unclear message", "unclear_message"),
				).
				Value(feedbackCategory),
			huh.NewInput().
				Title("Feedback notes").
				Value(feedbackNotes),
		),
	)
	return form.Run()
}

func newIssueHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history ITEM ISSUE",
		Short: "Show the decision audit trail for one issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			decisions, err := app.Reviews.DecisionHistory(context.Background(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDecisionHistory(decisions))
			return nil
		},
	}
}
