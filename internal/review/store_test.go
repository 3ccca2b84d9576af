package review

import (
	"testing"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decidedAt = time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)

func TestStore_UpsertAndLookup(t *testing.T) {
	s := NewStore(7)
	s.Upsert(testutil.NewTestIssue(7, "grammar.comma", testutil.WithPosition(10, 14, 8, 12)))
	s.Upsert(testutil.NewTestIssue(7, "seo.meta", testutil.WithPosition(0, 4, 0, 4)))

	issue, ok := s.Issue("grammar.comma@8")
	require.True(t, ok)
	assert.Equal(t, int64(7), issue.ItemID)
	assert.Equal(t, domain.DecisionPending, issue.DecisionStatus)

	assert.Len(t, s.Issues(), 2)
	_, ok = s.Issue("ghost@0")
	assert.False(t, ok)
}

func TestStore_RecordDecision_UpdatesIssueAndHistory(t *testing.T) {
	s := NewStore(7)
	s.Upsert(testutil.NewTestIssue(7, "grammar.comma", testutil.WithPosition(10, 14, 8, 12)))

	d := domain.NewAcceptedDecision("grammar.comma@8", "reads better")
	d.DecidedBy = "ana"
	d.DecidedAt = decidedAt

	id, err := s.RecordDecision(d)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	issue, _ := s.Issue("grammar.comma@8")
	assert.Equal(t, domain.DecisionAccepted, issue.DecisionStatus)

	current, ok := s.Current("grammar.comma@8")
	require.True(t, ok)
	assert.Equal(t, domain.DecisionTypeAccepted, current.Type)
	assert.Equal(t, int64(7), current.ItemID)
}

func TestStore_RecordDecision_UnknownIssue(t *testing.T) {
	s := NewStore(7)
	_, err := s.RecordDecision(domain.NewAcceptedDecision("missing@0", ""))
	assert.ErrorIs(t, err, ErrUnknownIssue)
}

func TestStore_RecordDecision_ModifiedNeedsContent(t *testing.T) {
	s := NewStore(7)
	s.Upsert(testutil.NewTestIssue(7, "grammar.its", testutil.WithPosition(4, 7, 4, 7)))

	_, err := s.RecordDecision(domain.Decision{
		IssueID: "grammar.its@4",
		Type:    domain.DecisionTypeModified,
	})
	assert.ErrorIs(t, err, ErrIllegalDecision)

	id, err := s.RecordDecision(domain.NewModifiedDecision("grammar.its@4", "its", ""))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	issue, _ := s.Issue("grammar.its@4")
	assert.Equal(t, domain.DecisionModified, issue.DecisionStatus)
	assert.Equal(t, "its", issue.ModifiedContent)
}

func TestStore_RedecideSupersedesWithoutDoubleCount(t *testing.T) {
	s := NewStore(7)
	s.Upsert(testutil.NewTestIssue(7, "seo.meta", testutil.WithPosition(0, 4, 0, 4)))

	_, err := s.RecordDecision(domain.NewAcceptedDecision("seo.meta@0", "first pass"))
	require.NoError(t, err)
	_, err = s.RecordDecision(domain.NewRejectedDecision("seo.meta@0", "second thoughts"))
	require.NoError(t, err)

	stats := s.StatsFor()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 0, stats.Accepted)
	assert.Equal(t, 1, stats.Rejected, "re-deciding must not double count")

	history := s.History("seo.meta@0")
	require.Len(t, history, 2)
	assert.Equal(t, "first pass", history[0].Rationale, "superseded rationale retained")

	current, ok := s.Current("seo.meta@0")
	require.True(t, ok)
	assert.Equal(t, domain.DecisionTypeRejected, current.Type)
}

func TestStore_UpsertPreservesDecisionAcrossReanalysis(t *testing.T) {
	s := NewStore(7)
	s.Upsert(testutil.NewTestIssue(7, "fact.date", testutil.WithPosition(0, 8, 0, 8),
		testutil.WithSeverity(domain.SeverityCritical)))

	_, err := s.RecordDecision(domain.NewModifiedDecision("fact.date@0", "March 2026", "checked source"))
	require.NoError(t, err)

	// Re-analysis re-emits the same finding, pending by default.
	s.Upsert(testutil.NewTestIssue(7, "fact.date", testutil.WithPosition(0, 8, 0, 8),
		testutil.WithSeverity(domain.SeverityCritical),
		testutil.WithSuggestion("march 2026", "March 2026")))

	issue, _ := s.Issue("fact.date@0")
	assert.Equal(t, domain.DecisionModified, issue.DecisionStatus)
	assert.Equal(t, "March 2026", issue.ModifiedContent)
	assert.Equal(t, "march 2026", issue.Original, "detection fields refresh")
	assert.False(t, s.HasBlocking())
}

func TestStore_HasBlocking(t *testing.T) {
	s := NewStore(7)
	assert.False(t, s.HasBlocking())

	s.Upsert(testutil.NewTestIssue(7, "fact.claim", testutil.WithPosition(0, 4, 0, 4),
		testutil.WithSeverity(domain.SeverityCritical)))
	s.Upsert(testutil.NewTestIssue(7, "style.tone", testutil.WithPosition(9, 12, 9, 12)))
	assert.True(t, s.HasBlocking())

	_, err := s.RecordDecision(domain.NewRejectedDecision("fact.claim@0", "claim is sourced"))
	require.NoError(t, err)
	assert.False(t, s.HasBlocking(), "warning issues never block")
}

func TestStore_StatsFor(t *testing.T) {
	s := NewStore(7)
	s.Upsert(testutil.NewTestIssue(7, "fact.claim", testutil.WithPosition(0, 4, 0, 4),
		testutil.WithSeverity(domain.SeverityCritical),
		testutil.WithEngine(domain.EngineAI)))
	s.Upsert(testutil.NewTestIssue(7, "grammar.comma", testutil.WithPosition(10, 14, 8, 12)))
	s.Upsert(testutil.NewTestIssue(7, "style.tone", testutil.WithPosition(20, 24, 18, 22),
		testutil.WithSeverity(domain.SeverityInfo),
		testutil.WithEngine(domain.EngineAI)))

	_, err := s.RecordDecision(domain.NewAcceptedDecision("grammar.comma@8", ""))
	require.NoError(t, err)

	stats := s.StatsFor()
	assert.Equal(t, Stats{
		Total:              3,
		Critical:           1,
		Warning:            1,
		Info:               1,
		Pending:            2,
		Accepted:           1,
		AICount:            2,
		DeterministicCount: 1,
	}, stats)
}
