package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// migrations run in order on every open. Statements must be idempotent;
// ALTER TABLE additions are tolerated via the duplicate-column check below.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS worklist_items (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		source_ref      TEXT NOT NULL,
		title           TEXT NOT NULL,
		status          TEXT NOT NULL
		                CHECK(status IN ('pending','parsing','parsing_review','proofreading',
		                                 'proofreading_review','ready_to_publish','publishing',
		                                 'published','failed')),
		version         INTEGER NOT NULL DEFAULT 1,
		failed_from     TEXT,
		review_notes    TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS status_history (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id     INTEGER NOT NULL REFERENCES worklist_items(id) ON DELETE CASCADE,
		old_status  TEXT NOT NULL,
		new_status  TEXT NOT NULL,
		changed_by  TEXT NOT NULL,
		reason      TEXT NOT NULL DEFAULT '',
		changed_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_status_history_item ON status_history(item_id)`,

	`CREATE TABLE IF NOT EXISTS issues (
		id               TEXT NOT NULL,
		item_id          INTEGER NOT NULL REFERENCES worklist_items(id) ON DELETE CASCADE,
		rule_id          TEXT NOT NULL,
		engine           TEXT NOT NULL CHECK(engine IN ('ai','deterministic')),
		severity         TEXT NOT NULL CHECK(severity IN ('critical','warning','info')),
		html_start       INTEGER NOT NULL DEFAULT 0,
		html_end         INTEGER NOT NULL DEFAULT 0,
		text_start       INTEGER NOT NULL DEFAULT 0,
		text_end         INTEGER NOT NULL DEFAULT 0,
		message          TEXT NOT NULL DEFAULT '',
		original         TEXT NOT NULL DEFAULT '',
		suggested        TEXT NOT NULL DEFAULT '',
		decision_status  TEXT NOT NULL DEFAULT 'pending'
		                 CHECK(decision_status IN ('pending','accepted','rejected','modified')),
		modified_content TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		PRIMARY KEY (item_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_item ON issues(item_id)`,

	`CREATE TABLE IF NOT EXISTS decisions (
		id                TEXT PRIMARY KEY,
		item_id           INTEGER NOT NULL REFERENCES worklist_items(id) ON DELETE CASCADE,
		issue_id          TEXT NOT NULL,
		decision_type     TEXT NOT NULL CHECK(decision_type IN ('accepted','rejected','modified')),
		rationale         TEXT NOT NULL DEFAULT '',
		modified_content  TEXT NOT NULL DEFAULT '',
		feedback_category TEXT NOT NULL DEFAULT '',
		feedback_notes    TEXT NOT NULL DEFAULT '',
		decided_by        TEXT NOT NULL DEFAULT '',
		decided_at        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_decisions_issue ON decisions(item_id, issue_id)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
