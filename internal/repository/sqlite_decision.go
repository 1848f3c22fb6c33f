package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
)

// SQLiteDecisionRepo stores editor decisions. Rows are append-only.
type SQLiteDecisionRepo struct {
	db db.DBTX
}

func NewSQLiteDecisionRepo(conn db.DBTX) *SQLiteDecisionRepo {
	return &SQLiteDecisionRepo{db: conn}
}

func (r *SQLiteDecisionRepo) Create(ctx context.Context, d *domain.EditorDecision) error {
	query := `INSERT INTO editor_decisions (id, submission_id, round_no, editor_id, editor_role, decision, comments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.SubmissionID,
		d.RoundNo,
		d.EditorID,
		string(d.EditorRole),
		string(d.Decision),
		d.Comments,
		formatTime(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting editor decision: %w", err)
	}
	return nil
}

func (r *SQLiteDecisionRepo) ListBySubmission(ctx context.Context, submissionID string) ([]domain.EditorDecision, error) {
	query := `SELECT id, submission_id, round_no, editor_id, editor_role, decision, comments, created_at
		FROM editor_decisions WHERE submission_id = ? ORDER BY round_no, created_at, id`
	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("listing editor decisions: %w", err)
	}
	defer rows.Close()

	var out []domain.EditorDecision
	for rows.Next() {
		var d domain.EditorDecision
		var role, decision, createdAt string
		if err := rows.Scan(&d.ID, &d.SubmissionID, &d.RoundNo, &d.EditorID, &role, &decision, &d.Comments, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning editor decision: %w", err)
		}
		d.EditorRole = domain.Role(role)
		d.Decision = domain.Decision(decision)
		if d.CreatedAt, err = parseTime(createdAt, "decision created_at"); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating editor decisions: %w", err)
	}
	return out, nil
}
