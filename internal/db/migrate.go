package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

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
	if err := migrateBackfillSubmissionSequences(db); err != nil {
		return fmt.Errorf("backfilling submission sequence allocator state: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		role       TEXT NOT NULL
		           CHECK(role IN ('AUTHOR','REVIEWER','EDITOR','MANAGING_EDITOR','EDITOR_IN_CHIEF','SECURITY_AUDITOR','ADMIN')),
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id                     TEXT PRIMARY KEY,
		code                   TEXT NOT NULL UNIQUE,
		title                  TEXT NOT NULL,
		abstract               TEXT NOT NULL DEFAULT '',
		keywords               TEXT NOT NULL DEFAULT '',
		author_id              TEXT NOT NULL REFERENCES users(id),
		handling_editor_id     TEXT NOT NULL DEFAULT '',
		status                 TEXT NOT NULL DEFAULT 'NEW'
		                       CHECK(status IN ('NEW','UNDER_REVIEW','REVISION','ACCEPTED','IN_PRODUCTION','PUBLISHED','REJECTED','DESK_REJECT')),
		security_level         TEXT NOT NULL DEFAULT 'OPEN'
		                       CHECK(security_level IN ('OPEN','SECRET','TOP_SECRET')),
		current_round          INTEGER NOT NULL DEFAULT 0,
		last_status_change_at  TEXT NOT NULL,
		days_in_current_status INTEGER NOT NULL DEFAULT 0,
		is_overdue             INTEGER NOT NULL DEFAULT 0,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_author ON submissions(author_id)`,

	`CREATE TABLE IF NOT EXISTS submission_sequences (
		year     INTEGER PRIMARY KEY,
		next_seq INTEGER NOT NULL CHECK(next_seq > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS reviews (
		id             TEXT PRIMARY KEY,
		submission_id  TEXT NOT NULL REFERENCES submissions(id),
		reviewer_id    TEXT NOT NULL REFERENCES users(id),
		round_no       INTEGER NOT NULL CHECK(round_no > 0),
		invited_at     TEXT NOT NULL,
		accepted_at    TEXT,
		declined_at    TEXT,
		submitted_at   TEXT,
		recommendation TEXT NOT NULL DEFAULT ''
		               CHECK(recommendation IN ('','ACCEPT','MINOR','MAJOR','REJECT')),
		comments       TEXT NOT NULL DEFAULT '',
		CHECK(accepted_at IS NULL OR declined_at IS NULL),
		CHECK(submitted_at IS NULL OR accepted_at IS NOT NULL),
		UNIQUE(submission_id, reviewer_id, round_no)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_reviews_submission ON reviews(submission_id, round_no)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_reviewer ON reviews(reviewer_id)`,

	// Submitted reviews are immutable.
	`CREATE TRIGGER IF NOT EXISTS trg_reviews_no_delete_submitted
		BEFORE DELETE ON reviews
		WHEN OLD.submitted_at IS NOT NULL
		BEGIN
			SELECT RAISE(ABORT, 'submitted reviews cannot be deleted');
		END`,

	`CREATE TABLE IF NOT EXISTS editor_decisions (
		id            TEXT PRIMARY KEY,
		submission_id TEXT NOT NULL REFERENCES submissions(id),
		round_no      INTEGER NOT NULL CHECK(round_no > 0),
		editor_id     TEXT NOT NULL REFERENCES users(id),
		editor_role   TEXT NOT NULL,
		decision      TEXT NOT NULL CHECK(decision IN ('ACCEPT','MINOR','MAJOR','REJECT')),
		comments      TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		UNIQUE(submission_id, round_no, editor_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_decisions_submission ON editor_decisions(submission_id, round_no)`,

	`CREATE TRIGGER IF NOT EXISTS trg_decisions_immutable
		BEFORE UPDATE ON editor_decisions
		BEGIN
			SELECT RAISE(ABORT, 'editor decisions are immutable');
		END`,

	`CREATE TABLE IF NOT EXISTS deadlines (
		id            TEXT PRIMARY KEY,
		submission_id TEXT NOT NULL REFERENCES submissions(id),
		round_no      INTEGER NOT NULL DEFAULT 0,
		type          TEXT NOT NULL
		              CHECK(type IN ('INITIAL_REVIEW','REVISION_SUBMIT','RE_REVIEW','EDITOR_DECISION','PRODUCTION','PUBLICATION')),
		assigned_to   TEXT NOT NULL DEFAULT '',
		due_date      TEXT NOT NULL,
		completed_at  TEXT,
		completed_by  TEXT NOT NULL DEFAULT '',
		superseded_at TEXT,
		is_overdue    INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_deadlines_submission ON deadlines(submission_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deadlines_open ON deadlines(due_date) WHERE completed_at IS NULL AND superseded_at IS NULL`,

	`CREATE TRIGGER IF NOT EXISTS trg_deadlines_no_delete
		BEFORE DELETE ON deadlines
		BEGIN
			SELECT RAISE(ABORT, 'deadlines are never deleted');
		END`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id           TEXT PRIMARY KEY,
		actor_id     TEXT NOT NULL,
		action       TEXT NOT NULL,
		object_ref   TEXT NOT NULL,
		before_state TEXT,
		after_state  TEXT,
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_object ON audit_log(object_ref, created_at)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		type       TEXT NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT NOT NULL DEFAULT '',
		link       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at)`,

	// Revision note captured alongside the manuscript edit.
	`ALTER TABLE submissions ADD COLUMN revision_note TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillSubmissionSequences raises next_seq for every year that has
// submissions so code allocation never reuses an existing code. Codes look
// like JRN-2026-0007. Idempotent.
func migrateBackfillSubmissionSequences(db *sql.DB) error {
	ctx := context.Background()

	query := `INSERT INTO submission_sequences (year, next_seq)
		SELECT CAST(substr(code, 5, 4) AS INTEGER) AS yr,
		       MAX(CAST(substr(code, 10) AS INTEGER)) + 1
		FROM submissions
		WHERE code LIKE 'JRN-____-%'
		GROUP BY yr
		ON CONFLICT(year) DO UPDATE
		SET next_seq = MAX(submission_sequences.next_seq, excluded.next_seq)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("upserting submission sequence rows: %w", err)
	}
	return nil
}
