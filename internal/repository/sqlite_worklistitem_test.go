package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
	"github.com/mwoodfin/copydesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorklistItemRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWorklistItemRepo(database)
	ctx := context.Background()

	item := testutil.NewTestItem("Autumn Recipes Roundup")
	require.NoError(t, repo.Create(ctx, item))
	require.NotZero(t, item.ID)

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Title, got.Title)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, int64(1), got.Version)
	assert.Nil(t, got.FailedFrom)
}

func TestWorklistItemRepo_GetByID_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWorklistItemRepo(database)

	_, err := repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorklistItemRepo_ListFilterByStatus(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWorklistItemRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestItem("A")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestItem("B", testutil.WithStatus(domain.StatusProofreading))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestItem("C", testutil.WithStatus(domain.StatusProofreading))))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	status := domain.StatusProofreading
	filtered, err := repo.List(ctx, &status)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, it := range filtered {
		assert.Equal(t, domain.StatusProofreading, it.Status)
	}
}

func TestWorklistItemRepo_UpdateStatus_VersionGate(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWorklistItemRepo(database)
	ctx := context.Background()

	item := testutil.NewTestItem("Versioned")
	require.NoError(t, repo.Create(ctx, item))

	require.NoError(t, repo.UpdateStatus(ctx, item.ID, domain.StatusParsing, nil, 1))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusParsing, got.Status)
	assert.Equal(t, int64(2), got.Version)

	// Stale version must not win.
	err = repo.UpdateStatus(ctx, item.ID, domain.StatusParsingReview, nil, 1)
	assert.ErrorIs(t, err, ErrVersionConflict)

	got, err = repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusParsing, got.Status)
}

func TestWorklistItemRepo_UpdateStatus_FailedFromRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWorklistItemRepo(database)
	ctx := context.Background()

	item := testutil.NewTestItem("Flaky", testutil.WithStatus(domain.StatusParsing))
	require.NoError(t, repo.Create(ctx, item))

	from := domain.StatusParsing
	require.NoError(t, repo.UpdateStatus(ctx, item.ID, domain.StatusFailed, &from, 1))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	require.NotNil(t, got.FailedFrom)
	assert.Equal(t, domain.StatusParsing, *got.FailedFrom)

	// Retry clears the failure origin.
	require.NoError(t, repo.UpdateStatus(ctx, item.ID, domain.StatusParsing, nil, 2))
	got, err = repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FailedFrom)
}

func TestWorklistItemRepo_StatusHistoryAppendOnly(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWorklistItemRepo(database)
	ctx := context.Background()

	item := testutil.NewTestItem("Audited")
	require.NoError(t, repo.Create(ctx, item))

	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	first := &domain.StatusChange{
		ItemID:    item.ID,
		OldStatus: domain.StatusPending,
		NewStatus: domain.StatusParsing,
		ChangedBy: "system",
		ChangedAt: now,
	}
	require.NoError(t, repo.AppendStatusChange(ctx, first))
	require.NoError(t, repo.AppendStatusChange(ctx, &domain.StatusChange{
		ItemID:    item.ID,
		OldStatus: domain.StatusParsing,
		NewStatus: domain.StatusParsingReview,
		ChangedBy: "system",
		Reason:    "parse complete",
		ChangedAt: now.Add(time.Minute),
	}))

	history, err := repo.ListStatusHistory(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.StatusPending, history[0].OldStatus)
	assert.Equal(t, domain.StatusParsing, history[0].NewStatus)
	assert.Equal(t, "parse complete", history[1].Reason)
	assert.Equal(t, now, history[0].ChangedAt)
}

func TestWorklistItemRepo_UpdateNotes(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWorklistItemRepo(database)
	ctx := context.Background()

	item := testutil.NewTestItem("Noted")
	require.NoError(t, repo.Create(ctx, item))

	require.NoError(t, repo.UpdateNotes(ctx, item.ID, "second paragraph needs a source"))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "second paragraph needs a source", got.ReviewNotes)

	assert.ErrorIs(t, repo.UpdateNotes(ctx, 9999, "x"), ErrNotFound)
}

func TestWorklistItemRepo_LegacyStatusNormalizedOnRead(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteWorklistItemRepo(database)
	ctx := context.Background()

	item := testutil.NewTestItem("Historic")
	require.NoError(t, repo.Create(ctx, item))

	// Legacy rows predate the CHECK constraint; simulate one in history.
	_, err := database.Exec(`INSERT INTO status_history
		(item_id, old_status, new_status, changed_by, reason, changed_at)
		VALUES (?, 'proofreading', 'under_review', 'system', '', '2024-05-01T00:00:00Z')`, item.ID)
	require.NoError(t, err)

	history, err := repo.ListStatusHistory(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.StatusProofreadingReview, history[0].NewStatus)
}
