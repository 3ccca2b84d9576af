package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/repository"
	"github.com/mwoodfin/copydesk/internal/stats"
)

type statsService struct {
	items repository.WorklistItemRepo
}

func NewStatsService(items repository.WorklistItemRepo) StatsService {
	return &statsService{items: items}
}

func (s *statsService) StatusBreakdown(ctx context.Context) (map[domain.ItemStatus]int, error) {
	items, err := s.items.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	flat := make([]domain.WorklistItem, 0, len(items))
	for _, item := range items {
		flat = append(flat, *item)
	}
	return stats.Breakdown(flat), nil
}

func (s *statsService) CycleTimes(ctx context.Context) (map[domain.ItemStatus]time.Duration, error) {
	items, err := s.items.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	records := make([]stats.ItemHistory, 0, len(items))
	for _, item := range items {
		changes, err := s.items.ListStatusHistory(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("loading history for item %d: %w", item.ID, err)
		}
		records = append(records, stats.ItemHistory{Item: *item, Changes: changes})
	}
	return stats.AverageCycleTime(records), nil
}
