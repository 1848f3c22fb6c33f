package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
)

// SQLiteSubmissionRepo implements SubmissionRepo using a SQLite database.
type SQLiteSubmissionRepo struct {
	db db.DBTX
}

func NewSQLiteSubmissionRepo(conn db.DBTX) *SQLiteSubmissionRepo {
	return &SQLiteSubmissionRepo{db: conn}
}

const submissionColumns = `id, code, title, abstract, keywords, author_id, handling_editor_id,
	status, security_level, current_round, revision_note,
	last_status_change_at, days_in_current_status, is_overdue, created_at, updated_at`

func (r *SQLiteSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	query := `INSERT INTO submissions (` + submissionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Code,
		s.Title,
		s.Abstract,
		joinKeywords(s.Keywords),
		s.AuthorID,
		s.HandlingEditorID,
		string(s.Status),
		string(s.SecurityLevel),
		s.CurrentRound,
		s.RevisionNote,
		formatTime(s.LastStatusChangeAt),
		s.DaysInCurrentStatus,
		boolToInt(s.IsOverdue),
		formatTime(s.CreatedAt),
		formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

func (r *SQLiteSubmissionRepo) GetByID(ctx context.Context, id string) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ?`
	return r.get(ctx, query, id)
}

// GetByCode looks a submission up by its human-facing code, case-insensitively.
func (r *SQLiteSubmissionRepo) GetByCode(ctx context.Context, code string) (*domain.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE UPPER(code) = UPPER(?)`
	return r.get(ctx, query, code)
}

func (r *SQLiteSubmissionRepo) get(ctx context.Context, query, key string) (*domain.Submission, error) {
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("submission %s: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLiteSubmissionRepo) List(ctx context.Context, f SubmissionFilter) ([]*domain.Submission, error) {
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.AuthorID != "" {
		where = append(where, "author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.SecurityLevel != "" {
		where = append(where, "security_level = ?")
		args = append(args, string(f.SecurityLevel))
	}
	if f.ActiveOnly {
		where = append(where, "status NOT IN ('PUBLISHED','REJECTED','DESK_REJECT')")
	}
	if f.OverdueOnly {
		where = append(where, "is_overdue = 1")
	}

	query := `SELECT ` + submissionColumns + ` FROM submissions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY code`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}
	return subs, nil
}

func (r *SQLiteSubmissionRepo) Update(ctx context.Context, s *domain.Submission) error {
	query := `UPDATE submissions SET title = ?, abstract = ?, keywords = ?, handling_editor_id = ?,
		status = ?, security_level = ?, current_round = ?, revision_note = ?,
		last_status_change_at = ?, days_in_current_status = ?, is_overdue = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Title,
		s.Abstract,
		joinKeywords(s.Keywords),
		s.HandlingEditorID,
		string(s.Status),
		string(s.SecurityLevel),
		s.CurrentRound,
		s.RevisionNote,
		formatTime(s.LastStatusChangeAt),
		s.DaysInCurrentStatus,
		boolToInt(s.IsOverdue),
		formatTime(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating submission: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("submission %s: %w", s.ID, ErrNotFound)
	}
	return nil
}

func scanSubmission(row rowScanner) (*domain.Submission, error) {
	var s domain.Submission
	var keywords, status, level, lastChange, createdAt, updatedAt string
	var overdue int
	err := row.Scan(
		&s.ID, &s.Code, &s.Title, &s.Abstract, &keywords, &s.AuthorID, &s.HandlingEditorID,
		&status, &level, &s.CurrentRound, &s.RevisionNote,
		&lastChange, &s.DaysInCurrentStatus, &overdue, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning submission: %w", err)
	}
	s.Keywords = splitKeywords(keywords)
	s.Status = domain.SubmissionStatus(status)
	s.SecurityLevel = domain.SecurityLevel(level)
	s.IsOverdue = intToBool(overdue)

	if s.LastStatusChangeAt, err = parseTime(lastChange, "last_status_change_at"); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime(createdAt, "submission created_at"); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt, "submission updated_at"); err != nil {
		return nil, err
	}
	return &s, nil
}
