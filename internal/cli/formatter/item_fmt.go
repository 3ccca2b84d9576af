package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/review"
)

// FormatItemList renders worklist items as a table.
func FormatItemList(items []*domain.WorklistItem) string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		failed := ""
		if item.FailedFrom != nil {
			failed = StyleRed.Render("from " + string(*item.FailedFrom))
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			Truncate(item.Title, 40),
			StatusBadge(item.Status),
			failed,
			FormatTime(item.UpdatedAt),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATUS", "FAILED", "UPDATED"}, rows)
}

// ItemInspectData bundles everything the inspect view shows.
type ItemInspectData struct {
	Item   *domain.WorklistItem
	Issues []*domain.ProofreadingIssue
	Stats  review.Stats
}

// FormatItemInspect renders one item with its issue summary.
func FormatItemInspect(data ItemInspectData) string {
	item := data.Item

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", StyleBold.Render(item.Title), StatusBadge(item.Status)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("id %d · source %s · v%d", item.ID, item.SourceRef, item.Version)))
	b.WriteString("\n")
	if item.FailedFrom != nil {
		b.WriteString(StyleRed.Render(fmt.Sprintf("failed during %s; retry re-enters there", *item.FailedFrom)))
		b.WriteString("\n")
	}
	if item.ReviewNotes != "" {
		b.WriteString("\n" + RenderBox("NOTES", item.ReviewNotes) + "\n")
	}

	b.WriteString("\n" + StyleHeader.Render("ISSUES") + "\n")
	if len(data.Issues) == 0 {
		b.WriteString(StyleDim.Render("none recorded") + "\n")
		return b.String()
	}

	s := data.Stats
	b.WriteString(fmt.Sprintf("%d total · %s %d · %s %d · %s %d\n",
		s.Total,
		StyleRed.Render("critical"), s.Critical,
		StyleYellow.Render("warning"), s.Warning,
		StyleBlue.Render("info"), s.Info,
	))
	b.WriteString(fmt.Sprintf("pending %d · accepted %d · rejected %d · modified %d\n\n",
		s.Pending, s.Accepted, s.Rejected, s.Modified))
	b.WriteString(FormatIssueList(data.Issues))
	return b.String()
}

// FormatHistory renders an item's status history, oldest first.
func FormatHistory(changes []domain.StatusChange) string {
	if len(changes) == 0 {
		return Dim("No transitions recorded.")
	}
	rows := make([][]string, 0, len(changes))
	for _, ch := range changes {
		rows = append(rows, []string{
			FormatTime(ch.ChangedAt),
			StatusBadge(ch.OldStatus),
			StatusBadge(ch.NewStatus),
			ch.ChangedBy,
			Truncate(ch.Reason, 40),
		})
	}
	return RenderTable([]string{"WHEN", "FROM", "TO", "BY", "REASON"}, rows)
}
