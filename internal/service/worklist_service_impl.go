package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mwoodfin/copydesk/internal/db"
	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/repository"
	"github.com/mwoodfin/copydesk/internal/workflow"
)

type worklistService struct {
	items    repository.WorklistItemRepo
	issues   repository.IssueRepo
	engine   *workflow.Engine
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewWorklistService(
	items repository.WorklistItemRepo,
	issues repository.IssueRepo,
	engine *workflow.Engine,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) WorklistService {
	return &worklistService{
		items:    items,
		issues:   issues,
		engine:   engine,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *worklistService) Create(ctx context.Context, item *domain.WorklistItem) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Status == "" {
		item.Status = domain.StatusPending
	}
	if !item.Status.Valid() {
		return fmt.Errorf("creating item: unknown status %q", string(item.Status))
	}
	if item.Version == 0 {
		item.Version = 1
	}
	return s.items.Create(ctx, item)
}

func (s *worklistService) GetByID(ctx context.Context, id int64) (*domain.WorklistItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *worklistService) List(ctx context.Context, status *domain.ItemStatus) ([]*domain.WorklistItem, error) {
	return s.items.List(ctx, status)
}

func (s *worklistService) History(ctx context.Context, itemID int64) ([]domain.StatusChange, error) {
	return s.items.ListStatusHistory(ctx, itemID)
}

func (s *worklistService) ListIssues(ctx context.Context, itemID int64) ([]*domain.ProofreadingIssue, error) {
	return s.issues.ListByItem(ctx, itemID)
}

func (s *worklistService) RegisterAnalysis(ctx context.Context, itemID int64, issues []*domain.ProofreadingIssue) (result *AnalysisResult, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "register-analysis",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"item_id": itemID, "issues": len(issues)},
		})
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		items := repository.NewSQLiteWorklistItemRepo(tx)
		issueRepo := repository.NewSQLiteIssueRepo(tx)

		if _, err := items.GetByID(ctx, itemID); err != nil {
			return fmt.Errorf("loading item %d: %w", itemID, err)
		}

		preserved := 0
		for _, issue := range issues {
			existing, err := issueRepo.GetByID(ctx, itemID, issue.ID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("checking issue %s: %w", issue.ID, err)
			}
			if existing != nil && existing.IsDecided() {
				preserved++
			}

			issue.ItemID = itemID
			if err := issueRepo.Upsert(ctx, issue); err != nil {
				return fmt.Errorf("registering issue %s: %w", issue.ID, err)
			}
		}

		result = &AnalysisResult{
			ItemID:             itemID,
			IssueCount:         len(issues),
			PreservedDecisions: preserved,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *worklistService) RequestTransition(ctx context.Context, req workflow.TransitionRequest) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "request-transition",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"item_id": req.ItemID, "to": string(req.To)},
		})
	}()
	return s.engine.RequestTransition(ctx, req)
}
