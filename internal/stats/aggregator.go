// Package stats derives read-only projections from worklist state. It has
// no mutation capability; every report is recomputed from the inputs it is
// handed, so the numbers cannot drift from the authoritative records.
package stats

import (
	"sort"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
)

// ItemHistory pairs an item with its full status history, oldest first.
type ItemHistory struct {
	Item    domain.WorklistItem
	Changes []domain.StatusChange
}

// Breakdown counts items per status.
func Breakdown(items []domain.WorklistItem) map[domain.ItemStatus]int {
	out := make(map[domain.ItemStatus]int, len(domain.AllItemStatuses))
	for _, item := range items {
		out[item.Status]++
	}
	return out
}

// AverageCycleTime reports the mean time items spent in each status,
// computed from completed stays only. The interval an item spent in a
// status runs from the moment it entered (item creation for the initial
// status, otherwise the transition into it) until the transition out.
// Time in the current, still-open status is not counted.
func AverageCycleTime(records []ItemHistory) map[domain.ItemStatus]time.Duration {
	totals := make(map[domain.ItemStatus]time.Duration)
	counts := make(map[domain.ItemStatus]int)

	for _, rec := range records {
		changes := append([]domain.StatusChange(nil), rec.Changes...)
		sort.SliceStable(changes, func(i, j int) bool {
			return changes[i].ChangedAt.Before(changes[j].ChangedAt)
		})

		entered := rec.Item.CreatedAt
		for _, ch := range changes {
			if d := ch.ChangedAt.Sub(entered); d > 0 {
				totals[ch.OldStatus] += d
				counts[ch.OldStatus]++
			}
			entered = ch.ChangedAt
		}
	}

	out := make(map[domain.ItemStatus]time.Duration, len(totals))
	for status, total := range totals {
		out[status] = total / time.Duration(counts[status])
	}
	return out
}
