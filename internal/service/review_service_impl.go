package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mwoodfin/copydesk/internal/db"
	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/repository"
	"github.com/mwoodfin/copydesk/internal/review"
	"github.com/mwoodfin/copydesk/internal/workflow"
)

type reviewService struct {
	uow      db.UnitOfWork
	engine   *workflow.Engine
	observer UseCaseObserver
}

func NewReviewService(uow db.UnitOfWork, engine *workflow.Engine, observers ...UseCaseObserver) ReviewService {
	return &reviewService{
		uow:      uow,
		engine:   engine,
		observer: useCaseObserverOrNoop(observers),
	}
}

// SaveDecisions persists the flush in one transaction: every well-formed
// entry is recorded against the store loaded from the item's current issue
// set, the issue rows are updated to match, and notes are written if
// present. Malformed entries land in result.Errors without aborting the
// rest. The optional transition runs after the commit so a precondition
// rejection never rolls back saved decisions.
func (s *reviewService) SaveDecisions(ctx context.Context, req SaveDecisionsRequest) (result *SaveDecisionsResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "save-decisions",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"item_id": req.ItemID, "entries": len(req.Decisions)},
		})
	}()

	now := time.Now().UTC()

	txErr := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		items := repository.NewSQLiteWorklistItemRepo(tx)
		issueRepo := repository.NewSQLiteIssueRepo(tx)
		decisionRepo := repository.NewSQLiteDecisionRepo(tx)

		if _, err := items.GetByID(ctx, req.ItemID); err != nil {
			return fmt.Errorf("loading item %d: %w", req.ItemID, err)
		}

		stored, err := issueRepo.ListByItem(ctx, req.ItemID)
		if err != nil {
			return fmt.Errorf("loading issues for item %d: %w", req.ItemID, err)
		}
		store := review.NewStoreFromIssues(req.ItemID, stored)

		batch := review.ApplyBatch(store, req.Actor.Name, now, req.Decisions)
		for _, saved := range batch.Saved {
			current, ok := store.Current(saved.IssueID)
			if !ok {
				return fmt.Errorf("decision for issue %s vanished from store", saved.IssueID)
			}
			d := *current
			d.ItemID = req.ItemID
			if err := decisionRepo.Create(ctx, &d); err != nil {
				return fmt.Errorf("persisting decision for issue %s: %w", saved.IssueID, err)
			}
			if err := issueRepo.SetDecisionStatus(ctx, req.ItemID, saved.IssueID, d.Type.Status(), d.ModifiedContent); err != nil {
				return fmt.Errorf("updating issue %s: %w", saved.IssueID, err)
			}
		}

		if req.Notes != nil {
			if err := items.UpdateNotes(ctx, req.ItemID, *req.Notes); err != nil {
				return fmt.Errorf("saving notes for item %d: %w", req.ItemID, err)
			}
		}

		result = &SaveDecisionsResult{
			SavedCount: len(batch.Saved),
			Saved:      batch.Saved,
			Errors:     batch.Errors,
		}
		return nil
	})
	if txErr != nil {
		err = txErr
		return nil, err
	}

	if req.TransitionTo != nil {
		err = s.engine.RequestTransition(ctx, workflow.TransitionRequest{
			ItemID: req.ItemID,
			To:     *req.TransitionTo,
			Actor:  req.Actor,
			Reason: "requested with decision save",
		})
	}

	item, getErr := s.itemProjection(ctx, req.ItemID)
	if getErr != nil && err == nil {
		err = getErr
	}
	result.Item = item
	return result, err
}

func (s *reviewService) ApplyBatch(ctx context.Context, req BatchRequest) (result *BatchRunResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "apply-batch",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"item_id": req.ItemID, "issues": len(req.IssueIDs), "type": string(req.Type)},
		})
	}()

	entries := make([]review.BatchEntry, 0, len(req.IssueIDs))
	for _, id := range req.IssueIDs {
		entries = append(entries, review.BatchEntry{
			IssueID:   id,
			Type:      req.Type,
			Rationale: req.Rationale,
		})
	}

	saved, saveErr := s.SaveDecisions(ctx, SaveDecisionsRequest{
		ItemID:    req.ItemID,
		Decisions: entries,
		Actor:     req.Actor,
	})
	if saveErr != nil {
		return nil, saveErr
	}

	return &BatchRunResult{
		ProcessedCount: len(req.IssueIDs),
		Saved:          saved.Saved,
		Failed:         saved.Errors,
	}, nil
}

func (s *reviewService) IssueStats(ctx context.Context, itemID int64) (*review.Stats, error) {
	var stats review.Stats
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		issueRepo := repository.NewSQLiteIssueRepo(tx)
		issues, err := issueRepo.ListByItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("loading issues for item %d: %w", itemID, err)
		}
		stats = review.NewStoreFromIssues(itemID, issues).StatsFor()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *reviewService) DecisionHistory(ctx context.Context, itemID int64, issueID string) ([]domain.Decision, error) {
	var history []domain.Decision
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		decisionRepo := repository.NewSQLiteDecisionRepo(tx)
		var err error
		history, err = decisionRepo.ListByIssue(ctx, itemID, issueID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading decision history for issue %s: %w", issueID, err)
	}
	return history, nil
}

func (s *reviewService) itemProjection(ctx context.Context, itemID int64) (*domain.WorklistItem, error) {
	var item *domain.WorklistItem
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		item, err = repository.NewSQLiteWorklistItemRepo(tx).GetByID(ctx, itemID)
		return err
	})
	return item, err
}
