package domain

import (
	"fmt"
	"time"
)

// Position locates an issue inside an item's content. Offsets are tracked
// in both the HTML and the plain-text representation because they diverge
// once tags are stripped.
type Position struct {
	HTMLStart int
	HTMLEnd   int
	TextStart int
	TextEnd   int
}

// ProofreadingIssue is one automatically detected candidate edit inside a
// worklist item. Issues are immutable after creation except for
// DecisionStatus and ModifiedContent.
type ProofreadingIssue struct {
	ID       string
	ItemID   int64
	RuleID   string
	Engine   IssueEngine
	Severity Severity
	Position Position

	Message   string
	Original  string
	Suggested string

	DecisionStatus DecisionStatus
	// ModifiedContent is the reviewer-supplied replacement text. Set only
	// while DecisionStatus is modified.
	ModifiedContent string

	CreatedAt time.Time
}

// DeriveIssueID builds the stable identity of an issue from its rule and
// plain-text offset, so a re-analysis pass producing the same finding at
// the same place re-aligns with prior decisions.
func DeriveIssueID(ruleID string, textStart int) string {
	return fmt.Sprintf("%s@%d", ruleID, textStart)
}

// IsDecided reports whether the issue carries a non-pending decision.
func (i *ProofreadingIssue) IsDecided() bool {
	return i.DecisionStatus != DecisionPending
}

// BlocksPublication reports whether this issue, in its current state,
// prevents the owning item from reaching ready_to_publish.
func (i *ProofreadingIssue) BlocksPublication() bool {
	return i.Severity == SeverityCritical && i.DecisionStatus == DecisionPending
}
