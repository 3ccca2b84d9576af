package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mwoodfin/copydesk/internal/db"
	"github.com/mwoodfin/copydesk/internal/domain"
)

// issueColumns is the canonical SELECT column list for issues.
const issueColumns = `id, item_id, rule_id, engine, severity,
		html_start, html_end, text_start, text_end,
		message, original, suggested, decision_status, modified_content, created_at`

// SQLiteIssueRepo implements IssueRepo using a SQLite database.
type SQLiteIssueRepo struct {
	db db.DBTX
}

// NewSQLiteIssueRepo creates a new SQLiteIssueRepo.
func NewSQLiteIssueRepo(db db.DBTX) *SQLiteIssueRepo {
	return &SQLiteIssueRepo{db: db}
}

func (r *SQLiteIssueRepo) Upsert(ctx context.Context, issue *domain.ProofreadingIssue) error {
	// On conflict the detection fields refresh but decision_status and
	// modified_content are preserved whenever a reviewer already decided;
	// re-analysis must not wipe review work.
	query := `INSERT INTO issues (id, item_id, rule_id, engine, severity,
		html_start, html_end, text_start, text_end,
		message, original, suggested, decision_status, modified_content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id, id) DO UPDATE SET
			rule_id = excluded.rule_id,
			engine = excluded.engine,
			severity = excluded.severity,
			html_start = excluded.html_start,
			html_end = excluded.html_end,
			text_start = excluded.text_start,
			text_end = excluded.text_end,
			message = excluded.message,
			original = excluded.original,
			suggested = excluded.suggested,
			decision_status = CASE WHEN issues.decision_status != 'pending'
				THEN issues.decision_status ELSE excluded.decision_status END,
			modified_content = CASE WHEN issues.decision_status != 'pending'
				THEN issues.modified_content ELSE excluded.modified_content END`
	_, err := r.db.ExecContext(ctx, query,
		issue.ID,
		issue.ItemID,
		issue.RuleID,
		string(issue.Engine),
		string(issue.Severity),
		issue.Position.HTMLStart,
		issue.Position.HTMLEnd,
		issue.Position.TextStart,
		issue.Position.TextEnd,
		issue.Message,
		issue.Original,
		issue.Suggested,
		string(issue.DecisionStatus),
		issue.ModifiedContent,
		issue.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting issue: %w", err)
	}
	return nil
}

func (r *SQLiteIssueRepo) GetByID(ctx context.Context, itemID int64, issueID string) (*domain.ProofreadingIssue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE item_id = ? AND id = ?`
	row := r.db.QueryRowContext(ctx, query, itemID, issueID)

	issue, err := scanIssue(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("issue %s: %w", issueID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning issue: %w", err)
	}
	return issue, nil
}

func (r *SQLiteIssueRepo) ListByItem(ctx context.Context, itemID int64) ([]*domain.ProofreadingIssue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE item_id = ? ORDER BY text_start, id`
	rows, err := r.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing issues: %w", err)
	}
	defer rows.Close()

	var issues []*domain.ProofreadingIssue
	for rows.Next() {
		issue, err := scanIssue(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning issue row: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issues: %w", err)
	}
	return issues, nil
}

func (r *SQLiteIssueRepo) SetDecisionStatus(ctx context.Context, itemID int64, issueID string, status domain.DecisionStatus, modifiedContent string) error {
	query := `UPDATE issues SET decision_status = ?, modified_content = ? WHERE item_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, string(status), modifiedContent, itemID, issueID)
	if err != nil {
		return fmt.Errorf("setting decision status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("issue %s: %w", issueID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteIssueRepo) CountBlocking(ctx context.Context, itemID int64) (int, error) {
	query := `SELECT COUNT(*) FROM issues
		WHERE item_id = ? AND severity = 'critical' AND decision_status = 'pending'`
	var n int
	if err := r.db.QueryRowContext(ctx, query, itemID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting blocking issues: %w", err)
	}
	return n, nil
}

// scanIssue scans one issue via the provided Scan function, shared between
// single-row and multi-row reads.
func scanIssue(scan func(dest ...any) error) (*domain.ProofreadingIssue, error) {
	var i domain.ProofreadingIssue
	var engineStr, severityStr, decisionStr, createdAtStr string

	err := scan(
		&i.ID, &i.ItemID, &i.RuleID, &engineStr, &severityStr,
		&i.Position.HTMLStart, &i.Position.HTMLEnd, &i.Position.TextStart, &i.Position.TextEnd,
		&i.Message, &i.Original, &i.Suggested, &decisionStr, &i.ModifiedContent, &createdAtStr,
	)
	if err != nil {
		return nil, err
	}

	i.Engine = domain.IssueEngine(engineStr)
	i.Severity = domain.Severity(severityStr)
	i.DecisionStatus = domain.DecisionStatus(decisionStr)
	i.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &i, nil
}
