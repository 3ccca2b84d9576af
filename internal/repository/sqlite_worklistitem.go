package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mwoodfin/copydesk/internal/db"
	"github.com/mwoodfin/copydesk/internal/domain"
)

// worklistItemColumns is the canonical SELECT column list for worklist_items.
const worklistItemColumns = `id, source_ref, title, status, version, failed_from,
		review_notes, created_at, updated_at`

// SQLiteWorklistItemRepo implements WorklistItemRepo using a SQLite database.
type SQLiteWorklistItemRepo struct {
	db db.DBTX
}

// NewSQLiteWorklistItemRepo creates a new SQLiteWorklistItemRepo.
func NewSQLiteWorklistItemRepo(db db.DBTX) *SQLiteWorklistItemRepo {
	return &SQLiteWorklistItemRepo{db: db}
}

func (r *SQLiteWorklistItemRepo) Create(ctx context.Context, item *domain.WorklistItem) error {
	query := `INSERT INTO worklist_items (source_ref, title, status, version, failed_from,
		review_notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		item.SourceRef,
		item.Title,
		string(item.Status),
		item.Version,
		nullableStatusToString(item.FailedFrom),
		item.ReviewNotes,
		item.CreatedAt.Format(time.RFC3339),
		item.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting worklist item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading worklist item id: %w", err)
	}
	item.ID = id
	return nil
}

func (r *SQLiteWorklistItemRepo) GetByID(ctx context.Context, id int64) (*domain.WorklistItem, error) {
	query := `SELECT ` + worklistItemColumns + ` FROM worklist_items WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanWorklistItem(row)
}

func (r *SQLiteWorklistItemRepo) List(ctx context.Context, status *domain.ItemStatus) ([]*domain.WorklistItem, error) {
	query := `SELECT ` + worklistItemColumns + ` FROM worklist_items`
	var args []any
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*status))
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing worklist items: %w", err)
	}
	defer rows.Close()

	var items []*domain.WorklistItem
	for rows.Next() {
		item, err := r.scanWorklistItemRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating worklist items: %w", err)
	}
	return items, nil
}

func (r *SQLiteWorklistItemRepo) UpdateStatus(ctx context.Context, id int64, to domain.ItemStatus, failedFrom *domain.ItemStatus, expectedVersion int64) error {
	query := `UPDATE worklist_items
		SET status = ?, failed_from = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(to),
		nullableStatusToString(failedFrom),
		nowUTC(),
		id,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating worklist item status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("worklist item %d at version %d: %w", id, expectedVersion, ErrVersionConflict)
	}
	return nil
}

func (r *SQLiteWorklistItemRepo) UpdateNotes(ctx context.Context, id int64, notes string) error {
	query := `UPDATE worklist_items SET review_notes = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, notes, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating review notes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("worklist item %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteWorklistItemRepo) AppendStatusChange(ctx context.Context, change *domain.StatusChange) error {
	query := `INSERT INTO status_history (item_id, old_status, new_status, changed_by, reason, changed_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		change.ItemID,
		string(change.OldStatus),
		string(change.NewStatus),
		change.ChangedBy,
		change.Reason,
		change.ChangedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("appending status change: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading status change id: %w", err)
	}
	change.ID = id
	return nil
}

func (r *SQLiteWorklistItemRepo) ListStatusHistory(ctx context.Context, itemID int64) ([]domain.StatusChange, error) {
	query := `SELECT id, item_id, old_status, new_status, changed_by, reason, changed_at
		FROM status_history WHERE item_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing status history: %w", err)
	}
	defer rows.Close()

	var changes []domain.StatusChange
	for rows.Next() {
		var c domain.StatusChange
		var oldStr, newStr, changedAtStr string
		if err := rows.Scan(&c.ID, &c.ItemID, &oldStr, &newStr, &c.ChangedBy, &c.Reason, &changedAtStr); err != nil {
			return nil, fmt.Errorf("scanning status change: %w", err)
		}
		c.OldStatus = normalizeStoredStatus(oldStr)
		c.NewStatus = normalizeStoredStatus(newStr)
		c.ChangedAt, err = time.Parse(time.RFC3339, changedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing changed_at: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating status history: %w", err)
	}
	return changes, nil
}

// normalizeStoredStatus resolves a stored status string to its canonical
// value. Unknown strings pass through untouched so audit rows written by
// unknown future versions still round-trip.
func normalizeStoredStatus(raw string) domain.ItemStatus {
	if s, ok := domain.NormalizeItemStatus(raw); ok {
		return s
	}
	return domain.ItemStatus(raw)
}

func (r *SQLiteWorklistItemRepo) scanWorklistItem(row *sql.Row) (*domain.WorklistItem, error) {
	var item domain.WorklistItem
	var statusStr string
	var failedFromStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&item.ID, &item.SourceRef, &item.Title, &statusStr, &item.Version,
		&failedFromStr, &item.ReviewNotes, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("worklist item: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning worklist item: %w", err)
	}
	return r.populateWorklistItem(&item, statusStr, failedFromStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteWorklistItemRepo) scanWorklistItemRow(rows *sql.Rows) (*domain.WorklistItem, error) {
	var item domain.WorklistItem
	var statusStr string
	var failedFromStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := rows.Scan(
		&item.ID, &item.SourceRef, &item.Title, &statusStr, &item.Version,
		&failedFromStr, &item.ReviewNotes, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning worklist item row: %w", err)
	}
	return r.populateWorklistItem(&item, statusStr, failedFromStr, createdAtStr, updatedAtStr)
}

// populateWorklistItem fills in parsed fields after scanning raw values.
// Status normalization happens here, at the read boundary.
func (r *SQLiteWorklistItemRepo) populateWorklistItem(
	item *domain.WorklistItem,
	statusStr string,
	failedFromStr sql.NullString,
	createdAtStr, updatedAtStr string,
) (*domain.WorklistItem, error) {
	status, ok := domain.NormalizeItemStatus(statusStr)
	if !ok {
		return nil, fmt.Errorf("worklist item %d: unknown status %q", item.ID, statusStr)
	}
	item.Status = status
	item.FailedFrom = parseNullableStatus(failedFromStr)

	var parseErr error
	item.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	item.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return item, nil
}
