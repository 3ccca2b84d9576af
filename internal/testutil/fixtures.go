package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
)

var testSourceCounter atomic.Int64

// Worklist item options
type ItemOption func(*domain.WorklistItem)

func WithStatus(s domain.ItemStatus) ItemOption {
	return func(i *domain.WorklistItem) {
		i.Status = s
	}
}

func WithFailedFrom(s domain.ItemStatus) ItemOption {
	return func(i *domain.WorklistItem) {
		i.FailedFrom = &s
	}
}

func WithReviewNotes(notes string) ItemOption {
	return func(i *domain.WorklistItem) {
		i.ReviewNotes = notes
	}
}

// NewTestItem builds an unsaved worklist item with sensible defaults.
// The ID is assigned by the repository on Create.
func NewTestItem(title string, opts ...ItemOption) *domain.WorklistItem {
	now := time.Now().UTC()
	item := &domain.WorklistItem{
		SourceRef: fmt.Sprintf("doc-%d", testSourceCounter.Add(1)),
		Title:     title,
		Status:    domain.StatusPending,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(item)
	}
	return item
}

// Issue options
type IssueOption func(*domain.ProofreadingIssue)

func WithSeverity(s domain.Severity) IssueOption {
	return func(i *domain.ProofreadingIssue) {
		i.Severity = s
	}
}

func WithEngine(e domain.IssueEngine) IssueOption {
	return func(i *domain.ProofreadingIssue) {
		i.Engine = e
	}
}

func WithDecisionStatus(d domain.DecisionStatus) IssueOption {
	return func(i *domain.ProofreadingIssue) {
		i.DecisionStatus = d
	}
}

func WithPosition(htmlStart, htmlEnd, textStart, textEnd int) IssueOption {
	return func(i *domain.ProofreadingIssue) {
		i.Position = domain.Position{
			HTMLStart: htmlStart,
			HTMLEnd:   htmlEnd,
			TextStart: textStart,
			TextEnd:   textEnd,
		}
		i.ID = domain.DeriveIssueID(i.RuleID, textStart)
	}
}

func WithSuggestion(original, suggested string) IssueOption {
	return func(i *domain.ProofreadingIssue) {
		i.Original = original
		i.Suggested = suggested
	}
}

// NewTestIssue builds an issue for the given item with defaults: warning
// severity, deterministic engine, pending decision, position at offset 0.
func NewTestIssue(itemID int64, ruleID string, opts ...IssueOption) *domain.ProofreadingIssue {
	issue := &domain.ProofreadingIssue{
		ID:             domain.DeriveIssueID(ruleID, 0),
		ItemID:         itemID,
		RuleID:         ruleID,
		Engine:         domain.EngineDeterministic,
		Severity:       domain.SeverityWarning,
		DecisionStatus: domain.DecisionPending,
		CreatedAt:      time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(issue)
	}
	return issue
}
