package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mwoodfin/copydesk/internal/db"
	"github.com/mwoodfin/copydesk/internal/domain"
)

// decisionColumns is the canonical SELECT column list for decisions.
const decisionColumns = `id, item_id, issue_id, decision_type, rationale,
		modified_content, feedback_category, feedback_notes, decided_by, decided_at`

// SQLiteDecisionRepo implements DecisionRepo using a SQLite database.
// Decisions are append-only: the newest row for an issue is the current
// decision and earlier rows form its audit history.
type SQLiteDecisionRepo struct {
	db db.DBTX
}

// NewSQLiteDecisionRepo creates a new SQLiteDecisionRepo.
func NewSQLiteDecisionRepo(db db.DBTX) *SQLiteDecisionRepo {
	return &SQLiteDecisionRepo{db: db}
}

func (r *SQLiteDecisionRepo) Create(ctx context.Context, d *domain.Decision) error {
	query := `INSERT INTO decisions (id, item_id, issue_id, decision_type, rationale,
		modified_content, feedback_category, feedback_notes, decided_by, decided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.ItemID,
		d.IssueID,
		string(d.Type),
		d.Rationale,
		d.ModifiedContent,
		d.FeedbackCategory,
		d.FeedbackNotes,
		d.DecidedBy,
		d.DecidedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting decision: %w", err)
	}
	return nil
}

func (r *SQLiteDecisionRepo) CurrentByIssue(ctx context.Context, itemID int64, issueID string) (*domain.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions
		WHERE item_id = ? AND issue_id = ?
		ORDER BY decided_at DESC, rowid DESC LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, itemID, issueID)

	d, err := scanDecision(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("decision for issue %s: %w", issueID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning decision: %w", err)
	}
	return d, nil
}

func (r *SQLiteDecisionRepo) ListByIssue(ctx context.Context, itemID int64, issueID string) ([]domain.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions
		WHERE item_id = ? AND issue_id = ?
		ORDER BY decided_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, itemID, issueID)
	if err != nil {
		return nil, fmt.Errorf("listing decisions: %w", err)
	}
	defer rows.Close()

	var decisions []domain.Decision
	for rows.Next() {
		d, err := scanDecision(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning decision row: %w", err)
		}
		decisions = append(decisions, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating decisions: %w", err)
	}
	return decisions, nil
}

func (r *SQLiteDecisionRepo) CountByItem(ctx context.Context, itemID int64) (int, error) {
	query := `SELECT COUNT(*) FROM decisions WHERE item_id = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, query, itemID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting decisions: %w", err)
	}
	return n, nil
}

func scanDecision(scan func(dest ...any) error) (*domain.Decision, error) {
	var d domain.Decision
	var typeStr, decidedAtStr string

	err := scan(
		&d.ID, &d.ItemID, &d.IssueID, &typeStr, &d.Rationale,
		&d.ModifiedContent, &d.FeedbackCategory, &d.FeedbackNotes, &d.DecidedBy, &decidedAtStr,
	)
	if err != nil {
		return nil, err
	}

	d.Type = domain.DecisionType(typeStr)
	d.DecidedAt, err = time.Parse(time.RFC3339, decidedAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing decided_at: %w", err)
	}
	return &d, nil
}
