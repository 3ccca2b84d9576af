package service

import (
	"context"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/review"
	"github.com/mwoodfin/copydesk/internal/workflow"
)

// AnalysisResult reports an analysis intake: how many issues were
// registered and how many of those kept a previously recorded decision.
type AnalysisResult struct {
	ItemID             int64
	IssueCount         int
	PreservedDecisions int
}

type WorklistService interface {
	Create(ctx context.Context, item *domain.WorklistItem) error
	GetByID(ctx context.Context, id int64) (*domain.WorklistItem, error)
	List(ctx context.Context, status *domain.ItemStatus) ([]*domain.WorklistItem, error)
	History(ctx context.Context, itemID int64) ([]domain.StatusChange, error)
	ListIssues(ctx context.Context, itemID int64) ([]*domain.ProofreadingIssue, error)

	// RegisterAnalysis upserts the issue list an analysis pass produced for
	// the item. Issues whose derived id already carries a non-pending
	// decision keep that decision.
	RegisterAnalysis(ctx context.Context, itemID int64, issues []*domain.ProofreadingIssue) (*AnalysisResult, error)

	RequestTransition(ctx context.Context, req workflow.TransitionRequest) error
}

// SaveDecisionsRequest carries one review flush: decisions, optional notes,
// and an optional follow-up transition.
type SaveDecisionsRequest struct {
	ItemID       int64
	Decisions    []review.BatchEntry
	Notes        *string
	TransitionTo *domain.ItemStatus
	Actor        workflow.Actor
}

// SaveDecisionsResult reports what a SaveDecisions call persisted. Errors
// holds per-entry failures; they do not abort the rest of the call.
type SaveDecisionsResult struct {
	SavedCount int
	Saved      []review.SavedDecision
	Errors     []review.BatchEntryError
	Item       *domain.WorklistItem
}

// BatchRequest applies one decision type to many issues of a single item.
type BatchRequest struct {
	ItemID    int64
	IssueIDs  []string
	Type      domain.DecisionType
	Rationale string
	Actor     workflow.Actor
}

// BatchRunResult reports a batch application: processed = saved + failed.
type BatchRunResult struct {
	ProcessedCount int
	Saved          []review.SavedDecision
	Failed         []review.BatchEntryError
}

type ReviewService interface {
	// SaveDecisions persists a batch of decisions plus optional review
	// notes in one transaction, then requests TransitionTo if set. A
	// non-nil result alongside a non-nil error means the decisions were
	// persisted but the transition was rejected; the error carries the
	// rejection (workflow.ErrPreconditionNotMet, workflow.ErrIllegalEdge,
	// or workflow.ErrConcurrentModification).
	SaveDecisions(ctx context.Context, req SaveDecisionsRequest) (*SaveDecisionsResult, error)

	ApplyBatch(ctx context.Context, req BatchRequest) (*BatchRunResult, error)

	IssueStats(ctx context.Context, itemID int64) (*review.Stats, error)
	DecisionHistory(ctx context.Context, itemID int64, issueID string) ([]domain.Decision, error)
}

type StatsService interface {
	StatusBreakdown(ctx context.Context) (map[domain.ItemStatus]int, error)
	CycleTimes(ctx context.Context) (map[domain.ItemStatus]time.Duration, error)
}
