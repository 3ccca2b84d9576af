package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwoodfin/copydesk/internal/db"
	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/repository"
)

var (
	// ErrIllegalEdge is returned when the requested transition does not
	// exist in the table.
	ErrIllegalEdge = errors.New("illegal status transition")

	// ErrPreconditionNotMet is returned when the edge exists but its guard
	// fails: unresolved critical issues, or a system actor on an edge that
	// needs human sign-off.
	ErrPreconditionNotMet = errors.New("transition precondition not met")

	// ErrConcurrentModification is returned when the item changed between
	// read and commit. The caller must re-fetch and decide whether to
	// retry; the engine never merges.
	ErrConcurrentModification = errors.New("worklist item was modified concurrently")
)

// ActorKind distinguishes pipeline automation from editors.
type ActorKind string

const (
	ActorHuman  ActorKind = "human"
	ActorSystem ActorKind = "system"
)

// Actor identifies who requested a transition.
type Actor struct {
	Name string
	Kind ActorKind
}

// SystemActor is the actor for pipeline-driven transitions.
var SystemActor = Actor{Name: "pipeline", Kind: ActorSystem}

// TransitionRequest asks the engine to move one item to a new status.
type TransitionRequest struct {
	ItemID int64
	To     domain.ItemStatus
	Actor  Actor
	Reason string

	// ExpectedVersion is the item version the caller computed the request
	// against. Zero means "whatever is current"; non-zero requests fail
	// with ErrConcurrentModification if the stored version differs.
	ExpectedVersion int64
}

// Engine owns all status mutations for worklist items. Transitions are
// validated against the table and their preconditions, then the status
// update and its history entry commit in one transaction.
type Engine struct {
	uow db.UnitOfWork
}

// NewEngine creates a workflow engine persisting through the given unit of
// work.
func NewEngine(uow db.UnitOfWork) *Engine {
	return &Engine{uow: uow}
}

// RequestTransition validates and applies one status transition. On success
// the item's status, version, and history have all advanced; on any error
// nothing changed.
func (e *Engine) RequestTransition(ctx context.Context, req TransitionRequest) error {
	if !req.To.Valid() {
		return fmt.Errorf("target status %q: %w", string(req.To), ErrIllegalEdge)
	}

	return e.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		items := repository.NewSQLiteWorklistItemRepo(tx)
		issues := repository.NewSQLiteIssueRepo(tx)

		item, err := items.GetByID(ctx, req.ItemID)
		if err != nil {
			return err
		}

		if req.ExpectedVersion != 0 && item.Version != req.ExpectedVersion {
			return fmt.Errorf("item %d is at version %d, request computed against %d: %w",
				item.ID, item.Version, req.ExpectedVersion, ErrConcurrentModification)
		}

		if !IsLegal(item.Status, req.To) {
			return fmt.Errorf("no edge %s -> %s: %w", item.Status, req.To, ErrIllegalEdge)
		}

		if err := e.checkPrecondition(ctx, issues, item, req); err != nil {
			return err
		}

		failedFrom := nextFailedFrom(item, req.To)
		if err := items.UpdateStatus(ctx, item.ID, req.To, failedFrom, item.Version); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				return fmt.Errorf("item %d: %w", item.ID, ErrConcurrentModification)
			}
			return err
		}

		return items.AppendStatusChange(ctx, &domain.StatusChange{
			ItemID:    item.ID,
			OldStatus: item.Status,
			NewStatus: req.To,
			ChangedBy: req.Actor.Name,
			Reason:    req.Reason,
			ChangedAt: time.Now().UTC(),
		})
	})
}

func (e *Engine) checkPrecondition(ctx context.Context, issues repository.IssueRepo, item *domain.WorklistItem, req TransitionRequest) error {
	p := RequiredPrecondition(item.Status, req.To)

	if p.RetryOrigin {
		if item.FailedFrom == nil || *item.FailedFrom != req.To {
			return fmt.Errorf("retry must re-enter through the failed stage: %w", ErrIllegalEdge)
		}
	}

	if p.HumanSignoff && req.Actor.Kind != ActorHuman {
		return fmt.Errorf("%s -> %s requires human sign-off: %w", item.Status, req.To, ErrPreconditionNotMet)
	}

	if p.NoPendingCritical {
		blocking, err := issues.CountBlocking(ctx, item.ID)
		if err != nil {
			return err
		}
		if blocking > 0 {
			return fmt.Errorf("%d critical issue(s) still pending: %w", blocking, ErrPreconditionNotMet)
		}
	}

	return nil
}

// nextFailedFrom computes the failure-origin marker after a transition:
// set when entering failed, cleared otherwise.
func nextFailedFrom(item *domain.WorklistItem, to domain.ItemStatus) *domain.ItemStatus {
	if to == domain.StatusFailed {
		from := item.Status
		return &from
	}
	return nil
}
