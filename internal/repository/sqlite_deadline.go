package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
)

// SQLiteDeadlineRepo implements DeadlineRepo using a SQLite database.
type SQLiteDeadlineRepo struct {
	db db.DBTX
}

func NewSQLiteDeadlineRepo(conn db.DBTX) *SQLiteDeadlineRepo {
	return &SQLiteDeadlineRepo{db: conn}
}

const deadlineColumns = `id, submission_id, round_no, type, assigned_to, due_date, completed_at, completed_by,
	superseded_at, is_overdue, created_at`

const openDeadline = `completed_at IS NULL AND superseded_at IS NULL`

func (r *SQLiteDeadlineRepo) Create(ctx context.Context, d *domain.Deadline) error {
	query := `INSERT INTO deadlines (` + deadlineColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.SubmissionID,
		d.RoundNo,
		string(d.Type),
		d.AssignedTo,
		formatTime(d.DueDate),
		nullableTimeToString(d.CompletedAt, timeLayout),
		d.CompletedBy,
		nullableTimeToString(d.SupersededAt, timeLayout),
		boolToInt(d.IsOverdue),
		formatTime(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting deadline: %w", err)
	}
	return nil
}

func (r *SQLiteDeadlineRepo) GetByID(ctx context.Context, id string) (*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines WHERE id = ?`
	d, err := scanDeadline(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("deadline %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

func (r *SQLiteDeadlineRepo) ListBySubmission(ctx context.Context, submissionID string) ([]*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines WHERE submission_id = ? ORDER BY created_at, due_date, id`
	return r.query(ctx, query, submissionID)
}

// ListOpen returns every deadline neither completed nor superseded, soonest first.
func (r *SQLiteDeadlineRepo) ListOpen(ctx context.Context) ([]*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines WHERE ` + openDeadline + ` ORDER BY due_date, id`
	return r.query(ctx, query)
}

func (r *SQLiteDeadlineRepo) ListOpenByAssignee(ctx context.Context, userID string) ([]*domain.Deadline, error) {
	query := `SELECT ` + deadlineColumns + ` FROM deadlines WHERE assigned_to = ? AND ` + openDeadline + ` ORDER BY due_date, id`
	return r.query(ctx, query, userID)
}

func (r *SQLiteDeadlineRepo) Update(ctx context.Context, d *domain.Deadline) error {
	query := `UPDATE deadlines SET due_date = ?, completed_at = ?, completed_by = ?, superseded_at = ?, is_overdue = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		formatTime(d.DueDate),
		nullableTimeToString(d.CompletedAt, timeLayout),
		d.CompletedBy,
		nullableTimeToString(d.SupersededAt, timeLayout),
		boolToInt(d.IsOverdue),
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating deadline: %w", err)
	}
	return nil
}

func (r *SQLiteDeadlineRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Deadline, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing deadlines: %w", err)
	}
	defer rows.Close()

	var out []*domain.Deadline
	for rows.Next() {
		d, err := scanDeadline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deadlines: %w", err)
	}
	return out, nil
}

func scanDeadline(row rowScanner) (*domain.Deadline, error) {
	var d domain.Deadline
	var typ, dueDate, createdAt string
	var completedAt, supersededAt sql.NullString
	var overdue int
	err := row.Scan(&d.ID, &d.SubmissionID, &d.RoundNo, &typ, &d.AssignedTo, &dueDate,
		&completedAt, &d.CompletedBy, &supersededAt, &overdue, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning deadline: %w", err)
	}
	d.Type = domain.DeadlineType(typ)
	d.IsOverdue = intToBool(overdue)
	d.CompletedAt = parseNullableTime(completedAt, timeLayout)
	d.SupersededAt = parseNullableTime(supersededAt, timeLayout)
	if d.DueDate, err = parseTime(dueDate, "deadline due_date"); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(createdAt, "deadline created_at"); err != nil {
		return nil, err
	}
	return &d, nil
}
