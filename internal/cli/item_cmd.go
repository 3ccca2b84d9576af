package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mwoodfin/copydesk/internal/cli/formatter"
	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/workflow"
	"github.com/spf13/cobra"
)

func parseItemID(input string) (int64, error) {
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", input)
	}
	return id, nil
}

func parseStatus(input string) (domain.ItemStatus, error) {
	status, ok := domain.NormalizeItemStatus(input)
	if !ok {
		return "", fmt.Errorf("unknown status %q", input)
	}
	return status, nil
}

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage worklist items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemInspectCmd(app),
		newItemHistoryCmd(app),
		newItemTransitionCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var title, source string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new worklist item",
		RunE: func(cmd *cobra.Command, args []string) error {
			item := &domain.WorklistItem{
				Title:     title,
				SourceRef: source,
				Status:    domain.StatusPending,
			}
			if err := app.Worklist.Create(context.Background(), item); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created item %d: %s\n", item.ID, item.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Item title")
	cmd.Flags().StringVar(&source, "source", "", "Source document reference")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var statusStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List worklist items",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter *domain.ItemStatus
			if statusStr != "" {
				status, err := parseStatus(statusStr)
				if err != nil {
					return err
				}
				filter = &status
			}

			items, err := app.Worklist.List(context.Background(), filter)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No items found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemList(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&statusStr, "status", "", "Filter by status")

	return cmd
}

func newItemInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect ID",
		Aliases: []string{"show"},
		Short:   "Show item details and issue summary",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}

			item, err := app.Worklist.GetByID(ctx, id)
			if err != nil {
				return err
			}
			issues, err := app.Worklist.ListIssues(ctx, id)
			if err != nil {
				return err
			}
			stats, err := app.Reviews.IssueStats(ctx, id)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatItemInspect(formatter.ItemInspectData{
				Item:   item,
				Issues: issues,
				Stats:  *stats,
			}))
			return nil
		},
	}
}

func newItemHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history ID",
		Short: "Show an item's status history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			changes, err := app.Worklist.History(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHistory(changes))
			return nil
		},
	}
}

func newItemTransitionCmd(app *App) *cobra.Command {
	var reason string
	var expectedVersion int64

	cmd := &cobra.Command{
		Use:   "transition ID STATUS",
		Short: "Request a status transition",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			to, err := parseStatus(args[1])
			if err != nil {
				return err
			}

			err = app.Worklist.RequestTransition(context.Background(), workflow.TransitionRequest{
				ItemID:          id,
				To:              to,
				Actor:           workflow.Actor{Name: app.Actor, Kind: workflow.ActorHuman},
				Reason:          reason,
				ExpectedVersion: expectedVersion,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Item %d is now %s\n", id, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the status history")
	cmd.Flags().Int64Var(&expectedVersion, "expect-version", 0, "Fail if the item version has moved past this")

	return cmd
}
