package formatter

import (
	"fmt"
	"strings"

	"github.com/mwoodfin/copydesk/internal/domain"
)

// FormatIssueList renders issues as a table, detection order.
func FormatIssueList(issues []*domain.ProofreadingIssue) string {
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{
			issue.ID,
			SeverityBadge(issue.Severity),
			string(issue.Engine),
			DecisionBadge(issue.DecisionStatus),
			Excerpt(issue.Original, issue.Suggested, 48),
		})
	}
	return RenderTable([]string{"ISSUE", "SEVERITY", "ENGINE", "DECISION", "EDIT"}, rows)
}

// FormatIssueDetail renders one issue with its full text payloads.
func FormatIssueDetail(issue *domain.ProofreadingIssue) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s  %s\n",
		StyleBold.Render(issue.ID), SeverityBadge(issue.Severity), DecisionBadge(issue.DecisionStatus)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("rule %s · engine %s · text %d..%d · html %d..%d",
		issue.RuleID, issue.Engine,
		issue.Position.TextStart, issue.Position.TextEnd,
		issue.Position.HTMLStart, issue.Position.HTMLEnd)))
	b.WriteString("\n")
	if issue.Message != "" {
		b.WriteString(issue.Message + "\n")
	}
	if issue.Original != "" || issue.Suggested != "" {
		b.WriteString("\n" + StyleRed.Render(issue.Original) + "\n" + StyleGreen.Render(issue.Suggested) + "\n")
	}
	if issue.ModifiedContent != "" {
		b.WriteString("\n" + StyleHeader.Render("REVIEWER REPLACEMENT") + "\n")
		b.WriteString(StylePurple.Render(issue.ModifiedContent) + "\n")
	}
	return b.String()
}

// FormatDecisionHistory renders the audit trail for one issue.
func FormatDecisionHistory(decisions []domain.Decision) string {
	if len(decisions) == 0 {
		return Dim("No decisions recorded.")
	}
	rows := make([][]string, 0, len(decisions))
	for i, d := range decisions {
		marker := ""
		if i == len(decisions)-1 {
			marker = StyleGreen.Render("current")
		}
		rows = append(rows, []string{
			FormatTime(d.DecidedAt),
			string(d.Type),
			d.DecidedBy,
			Truncate(d.Rationale, 36),
			marker,
		})
	}
	return RenderTable([]string{"WHEN", "DECISION", "BY", "RATIONALE", ""}, rows)
}
