package repository

import (
	"context"
	"errors"

	"github.com/mwoodfin/copydesk/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrVersionConflict is returned when a versioned update matched no row,
// meaning the item changed between read and write.
var ErrVersionConflict = errors.New("version conflict")

type WorklistItemRepo interface {
	Create(ctx context.Context, item *domain.WorklistItem) error
	GetByID(ctx context.Context, id int64) (*domain.WorklistItem, error)
	List(ctx context.Context, status *domain.ItemStatus) ([]*domain.WorklistItem, error)

	// UpdateStatus moves the item to the new status iff its stored version
	// still equals expectedVersion, incrementing the version. Returns
	// ErrVersionConflict otherwise. failedFrom records (or clears) the
	// origin stage of a failure.
	UpdateStatus(ctx context.Context, id int64, to domain.ItemStatus, failedFrom *domain.ItemStatus, expectedVersion int64) error
	UpdateNotes(ctx context.Context, id int64, notes string) error

	AppendStatusChange(ctx context.Context, change *domain.StatusChange) error
	ListStatusHistory(ctx context.Context, itemID int64) ([]domain.StatusChange, error)
}

type IssueRepo interface {
	// Upsert registers or refreshes an issue. An existing row that already
	// carries a non-pending decision keeps its decision_status and
	// modified_content; re-analysis never wipes review work.
	Upsert(ctx context.Context, issue *domain.ProofreadingIssue) error
	GetByID(ctx context.Context, itemID int64, issueID string) (*domain.ProofreadingIssue, error)
	ListByItem(ctx context.Context, itemID int64) ([]*domain.ProofreadingIssue, error)
	SetDecisionStatus(ctx context.Context, itemID int64, issueID string, status domain.DecisionStatus, modifiedContent string) error

	// CountBlocking returns how many issues on the item are critical and
	// still pending.
	CountBlocking(ctx context.Context, itemID int64) (int, error)
}

type DecisionRepo interface {
	// Create appends one decision to the issue's history. The newest row
	// per issue is the current decision; older rows are superseded but
	// retained.
	Create(ctx context.Context, d *domain.Decision) error
	CurrentByIssue(ctx context.Context, itemID int64, issueID string) (*domain.Decision, error)
	ListByIssue(ctx context.Context, itemID int64, issueID string) ([]domain.Decision, error)
	CountByItem(ctx context.Context, itemID int64) (int, error)
}
