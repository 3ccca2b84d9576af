package importer

import (
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
)

// ConvertAnalysisSchema maps a validated schema to domain issues. Derived
// ids are stable across analysis passes, so re-running the converter on a
// fresh analysis of the same document re-aligns with prior decisions.
func ConvertAnalysisSchema(schema *AnalysisSchema, now time.Time) []*domain.ProofreadingIssue {
	issues := make([]*domain.ProofreadingIssue, 0, len(schema.Issues))
	for _, in := range schema.Issues {
		issues = append(issues, &domain.ProofreadingIssue{
			ID:       domain.DeriveIssueID(in.RuleID, in.Position.TextStart),
			ItemID:   schema.Item.ID,
			RuleID:   in.RuleID,
			Engine:   domain.IssueEngine(in.Engine),
			Severity: domain.Severity(in.Severity),
			Position: domain.Position{
				HTMLStart: in.Position.HTMLStart,
				HTMLEnd:   in.Position.HTMLEnd,
				TextStart: in.Position.TextStart,
				TextEnd:   in.Position.TextEnd,
			},
			Message:        in.Message,
			Original:       in.Original,
			Suggested:      in.Suggested,
			DecisionStatus: domain.DecisionPending,
			CreatedAt:      now,
		})
	}
	return issues
}
