package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTestItem(ctx context.Context, tx DBTX, title string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO worklist_items
		(source_ref, title, status, created_at, updated_at)
		VALUES ('doc', ?, 'pending', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`, title)
	return err
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()

	err = uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		return insertTestItem(ctx, tx, "committed")
	})
	require.NoError(t, err)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM worklist_items`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()
	boom := errors.New("boom")

	err = uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		if err := insertTestItem(ctx, tx, "rolled back"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM worklist_items`).Scan(&n))
	assert.Equal(t, 0, n)
}
