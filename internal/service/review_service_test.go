package service

import (
	"context"
	"testing"

	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/repository"
	"github.com/mwoodfin/copydesk/internal/review"
	"github.com/mwoodfin/copydesk/internal/testutil"
	"github.com/mwoodfin/copydesk/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewActor = workflow.Actor{Name: "mnh", Kind: workflow.ActorHuman}

func setupReviewService(t *testing.T) (ReviewService, WorklistService) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	items := repository.NewSQLiteWorklistItemRepo(database)
	issues := repository.NewSQLiteIssueRepo(database)
	engine := workflow.NewEngine(uow)
	return NewReviewService(uow, engine), NewWorklistService(items, issues, engine, uow)
}

func seedReviewItem(t *testing.T, worklist WorklistService, status domain.ItemStatus, issues ...*domain.ProofreadingIssue) *domain.WorklistItem {
	t.Helper()
	ctx := context.Background()

	item := testutil.NewTestItem("Under review", testutil.WithStatus(status))
	require.NoError(t, worklist.Create(ctx, item))

	for _, issue := range issues {
		issue.ItemID = item.ID
	}
	if len(issues) > 0 {
		_, err := worklist.RegisterAnalysis(ctx, item.ID, issues)
		require.NoError(t, err)
	}
	return item
}

func TestSaveDecisions_PersistsDecisionsAndIssueStatus(t *testing.T) {
	reviews, worklist := setupReviewService(t)
	ctx := context.Background()

	issue := testutil.NewTestIssue(0, "grammar.agreement")
	item := seedReviewItem(t, worklist, domain.StatusProofreadingReview, issue)

	result, err := reviews.SaveDecisions(ctx, SaveDecisionsRequest{
		ItemID: item.ID,
		Decisions: []review.BatchEntry{
			{IssueID: issue.ID, Type: domain.DecisionTypeAccepted, Rationale: "reads fine"},
		},
		Actor: reviewActor,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.SavedCount)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Item)
	assert.Equal(t, domain.StatusProofreadingReview, result.Item.Status)

	issues, err := worklist.ListIssues(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.DecisionAccepted, issues[0].DecisionStatus)

	history, err := reviews.DecisionHistory(ctx, item.ID, issue.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "reads fine", history[0].Rationale)
}

func TestSaveDecisions_PartialFailureDoesNotAbort(t *testing.T) {
	reviews, worklist := setupReviewService(t)
	ctx := context.Background()

	a := testutil.NewTestIssue(0, "grammar.agreement")
	b := testutil.NewTestIssue(0, "seo.title", testutil.WithPosition(10, 20, 8, 16))
	item := seedReviewItem(t, worklist, domain.StatusProofreadingReview, a, b)

	result, err := reviews.SaveDecisions(ctx, SaveDecisionsRequest{
		ItemID: item.ID,
		Decisions: []review.BatchEntry{
			{IssueID: a.ID, Type: domain.DecisionTypeAccepted},
			{IssueID: "nope@0", Type: domain.DecisionTypeAccepted},
			{IssueID: b.ID, Type: domain.DecisionTypeRejected},
		},
		Actor: reviewActor,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SavedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "nope@0", result.Errors[0].IssueID)
	assert.Equal(t, review.ReasonUnknownIssue, result.Errors[0].Reason)
}

func TestSaveDecisions_NotesPersisted(t *testing.T) {
	reviews, worklist := setupReviewService(t)
	ctx := context.Background()

	item := seedReviewItem(t, worklist, domain.StatusProofreadingReview)

	notes := "second paragraph still clunky"
	_, err := reviews.SaveDecisions(ctx, SaveDecisionsRequest{
		ItemID: item.ID,
		Notes:  &notes,
		Actor:  reviewActor,
	})
	require.NoError(t, err)

	fetched, err := worklist.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, notes, fetched.ReviewNotes)
}

func TestSaveDecisions_TransitionBlockedByPendingCritical(t *testing.T) {
	reviews, worklist := setupReviewService(t)
	ctx := context.Background()

	critical := testutil.NewTestIssue(0, "legal.claim", testutil.WithSeverity(domain.SeverityCritical))
	info := testutil.NewTestIssue(0, "style.tone", testutil.WithPosition(30, 40, 25, 33))
	item := seedReviewItem(t, worklist, domain.StatusProofreadingReview, critical, info)

	to := domain.StatusReadyToPublish
	result, err := reviews.SaveDecisions(ctx, SaveDecisionsRequest{
		ItemID: item.ID,
		Decisions: []review.BatchEntry{
			{IssueID: info.ID, Type: domain.DecisionTypeAccepted},
		},
		TransitionTo: &to,
		Actor:        reviewActor,
	})

	// Decisions saved, transition rejected: both reported, neither
	// swallowed.
	require.ErrorIs(t, err, workflow.ErrPreconditionNotMet)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.SavedCount)
	assert.Equal(t, domain.StatusProofreadingReview, result.Item.Status)
}

func TestSaveDecisions_TransitionSucceedsOnceCriticalDecided(t *testing.T) {
	reviews, worklist := setupReviewService(t)
	ctx := context.Background()

	critical := testutil.NewTestIssue(0, "legal.claim", testutil.WithSeverity(domain.SeverityCritical))
	item := seedReviewItem(t, worklist, domain.StatusProofreadingReview, critical)

	to := domain.StatusReadyToPublish
	result, err := reviews.SaveDecisions(ctx, SaveDecisionsRequest{
		ItemID: item.ID,
		Decisions: []review.BatchEntry{
			{IssueID: critical.ID, Type: domain.DecisionTypeRejected, Rationale: "claim is sourced"},
		},
		TransitionTo: &to,
		Actor:        reviewActor,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReadyToPublish, result.Item.Status)

	history, err := worklist.History(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.StatusProofreadingReview, history[0].OldStatus)
	assert.Equal(t, domain.StatusReadyToPublish, history[0].NewStatus)
}

func TestApplyBatch_SharedTypeAndRationale(t *testing.T) {
	reviews, worklist := setupReviewService(t)
	ctx := context.Background()

	a := testutil.NewTestIssue(0, "grammar.agreement")
	b := testutil.NewTestIssue(0, "grammar.comma", testutil.WithPosition(50, 60, 44, 52))
	item := seedReviewItem(t, worklist, domain.StatusProofreadingReview, a, b)

	result, err := reviews.ApplyBatch(ctx, BatchRequest{
		ItemID:    item.ID,
		IssueIDs:  []string{a.ID, b.ID, "ghost@7"},
		Type:      domain.DecisionTypeAccepted,
		Rationale: "house style",
		Actor:     reviewActor,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ProcessedCount)
	assert.Len(t, result.Saved, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, review.ReasonUnknownIssue, result.Failed[0].Reason)
}

func TestIssueStats_ComputedFromStoredIssues(t *testing.T) {
	reviews, worklist := setupReviewService(t)
	ctx := context.Background()

	critical := testutil.NewTestIssue(0, "legal.claim", testutil.WithSeverity(domain.SeverityCritical))
	info := testutil.NewTestIssue(0, "style.tone",
		testutil.WithSeverity(domain.SeverityInfo), testutil.WithPosition(30, 40, 25, 33))
	item := seedReviewItem(t, worklist, domain.StatusProofreadingReview, critical, info)

	_, err := reviews.SaveDecisions(ctx, SaveDecisionsRequest{
		ItemID: item.ID,
		Decisions: []review.BatchEntry{
			{IssueID: info.ID, Type: domain.DecisionTypeAccepted},
		},
		Actor: reviewActor,
	})
	require.NoError(t, err)

	stats, err := reviews.IssueStats(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Critical)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Accepted)
}

func TestDecisionHistory_RetainsSupersededDecisions(t *testing.T) {
	reviews, worklist := setupReviewService(t)
	ctx := context.Background()

	issue := testutil.NewTestIssue(0, "grammar.agreement")
	item := seedReviewItem(t, worklist, domain.StatusProofreadingReview, issue)

	for _, entry := range []review.BatchEntry{
		{IssueID: issue.ID, Type: domain.DecisionTypeAccepted, Rationale: "first pass"},
		{IssueID: issue.ID, Type: domain.DecisionTypeRejected, Rationale: "second thoughts"},
	} {
		_, err := reviews.SaveDecisions(ctx, SaveDecisionsRequest{
			ItemID:    item.ID,
			Decisions: []review.BatchEntry{entry},
			Actor:     reviewActor,
		})
		require.NoError(t, err)
	}

	history, err := reviews.DecisionHistory(ctx, item.ID, issue.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "first pass", history[0].Rationale)
	assert.Equal(t, "second thoughts", history[1].Rationale)

	issues, err := worklist.ListIssues(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionRejected, issues[0].DecisionStatus,
		"current decision is the most recent")
}
