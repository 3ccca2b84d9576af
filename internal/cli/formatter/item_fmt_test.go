package formatter

import (
	"testing"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/review"
	"github.com/stretchr/testify/assert"
)

func sampleItem() *domain.WorklistItem {
	return &domain.WorklistItem{
		ID:        7,
		SourceRef: "doc-7",
		Title:     "Quarterly outlook",
		Status:    domain.StatusProofreadingReview,
		Version:   3,
		UpdatedAt: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
	}
}

func TestFormatItemList(t *testing.T) {
	out := FormatItemList([]*domain.WorklistItem{sampleItem()})

	assert.Contains(t, out, "Quarterly outlook")
	assert.Contains(t, out, "proofreading review")
	assert.Contains(t, out, "TITLE")
}

func TestFormatItemList_FailedFromShown(t *testing.T) {
	item := sampleItem()
	item.Status = domain.StatusFailed
	origin := domain.StatusParsing
	item.FailedFrom = &origin

	out := FormatItemList([]*domain.WorklistItem{item})
	assert.Contains(t, out, "from parsing")
}

func TestFormatItemInspect(t *testing.T) {
	issues := []*domain.ProofreadingIssue{
		{
			ID:             "grammar.agreement@96",
			RuleID:         "grammar.agreement",
			Engine:         domain.EngineDeterministic,
			Severity:       domain.SeverityCritical,
			DecisionStatus: domain.DecisionPending,
			Original:       "teams is",
			Suggested:      "teams are",
		},
	}
	store := review.NewStoreFromIssues(7, issues)

	out := FormatItemInspect(ItemInspectData{
		Item:   sampleItem(),
		Issues: issues,
		Stats:  store.StatsFor(),
	})

	assert.Contains(t, out, "Quarterly outlook")
	assert.Contains(t, out, "1 total")
	assert.Contains(t, out, "grammar.agreement@96")
}

func TestFormatItemInspect_NoIssues(t *testing.T) {
	out := FormatItemInspect(ItemInspectData{Item: sampleItem()})
	assert.Contains(t, out, "none recorded")
}

func TestFormatHistory(t *testing.T) {
	changes := []domain.StatusChange{
		{
			OldStatus: domain.StatusPending,
			NewStatus: domain.StatusParsing,
			ChangedBy: "pipeline",
			Reason:    "import complete",
			ChangedAt: time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
		},
	}

	out := FormatHistory(changes)
	assert.Contains(t, out, "pipeline")
	assert.Contains(t, out, "import complete")
}

func TestFormatHistory_Empty(t *testing.T) {
	assert.Contains(t, FormatHistory(nil), "No transitions")
}

func TestFormatDecisionHistory_MarksCurrent(t *testing.T) {
	decisions := []domain.Decision{
		{Type: domain.DecisionTypeAccepted, DecidedBy: "mnh", Rationale: "first pass"},
		{Type: domain.DecisionTypeRejected, DecidedBy: "mnh", Rationale: "second thoughts"},
	}

	out := FormatDecisionHistory(decisions)
	assert.Contains(t, out, "current")
	assert.Contains(t, out, "second thoughts")
}

func TestFormatBreakdown_IncludesAllStatuses(t *testing.T) {
	out := FormatBreakdown(map[domain.ItemStatus]int{
		domain.StatusPublished: 3,
	})

	assert.Contains(t, out, "published")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "total")
}

func TestFormatCycleTimes(t *testing.T) {
	out := FormatCycleTimes(map[domain.ItemStatus]time.Duration{
		domain.StatusParsing: 90 * time.Minute,
	})
	assert.Contains(t, out, "1.5h")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "long…", Truncate("long title", 5))
	assert.Equal(t, "", Truncate("anything", 0))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"one", "two"}, {"x", "y"}})
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "─")
}
