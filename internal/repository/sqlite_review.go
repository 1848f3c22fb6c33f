package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
)

// SQLiteReviewRepo implements ReviewRepo using a SQLite database.
type SQLiteReviewRepo struct {
	db db.DBTX
}

func NewSQLiteReviewRepo(conn db.DBTX) *SQLiteReviewRepo {
	return &SQLiteReviewRepo{db: conn}
}

const reviewColumns = `id, submission_id, reviewer_id, round_no, invited_at, accepted_at, declined_at,
	submitted_at, recommendation, comments`

func (r *SQLiteReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO reviews (` + reviewColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rv.ID,
		rv.SubmissionID,
		rv.ReviewerID,
		rv.RoundNo,
		formatTime(rv.InvitedAt),
		nullableTimeToString(rv.AcceptedAt, timeLayout),
		nullableTimeToString(rv.DeclinedAt, timeLayout),
		nullableTimeToString(rv.SubmittedAt, timeLayout),
		string(rv.Recommendation),
		rv.Comments,
	)
	if err != nil {
		return fmt.Errorf("inserting review: %w", err)
	}
	return nil
}

func (r *SQLiteReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`
	rv, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &rv, nil
}

// ListBySubmission returns every review of a submission across all rounds.
func (r *SQLiteReviewRepo) ListBySubmission(ctx context.Context, submissionID string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE submission_id = ? ORDER BY round_no, invited_at, reviewer_id`
	return r.query(ctx, query, submissionID)
}

func (r *SQLiteReviewRepo) ListByReviewer(ctx context.Context, reviewerID string) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE reviewer_id = ? ORDER BY invited_at, submission_id`
	return r.query(ctx, query, reviewerID)
}

func (r *SQLiteReviewRepo) Update(ctx context.Context, rv *domain.Review) error {
	query := `UPDATE reviews SET accepted_at = ?, declined_at = ?, submitted_at = ?, recommendation = ?, comments = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(rv.AcceptedAt, timeLayout),
		nullableTimeToString(rv.DeclinedAt, timeLayout),
		nullableTimeToString(rv.SubmittedAt, timeLayout),
		string(rv.Recommendation),
		rv.Comments,
		rv.ID,
	)
	if err != nil {
		return fmt.Errorf("updating review: %w", err)
	}
	return nil
}

// Delete removes a pending review. The schema refuses to delete submitted ones.
func (r *SQLiteReviewRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting review: %w", err)
	}
	return nil
}

func (r *SQLiteReviewRepo) query(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviews: %w", err)
	}
	return reviews, nil
}

func scanReview(row rowScanner) (domain.Review, error) {
	var rv domain.Review
	var invitedAt, rec string
	var acceptedAt, declinedAt, submittedAt sql.NullString
	err := row.Scan(&rv.ID, &rv.SubmissionID, &rv.ReviewerID, &rv.RoundNo, &invitedAt,
		&acceptedAt, &declinedAt, &submittedAt, &rec, &rv.Comments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rv, err
		}
		return rv, fmt.Errorf("scanning review: %w", err)
	}
	if rv.InvitedAt, err = parseTime(invitedAt, "review invited_at"); err != nil {
		return rv, err
	}
	rv.AcceptedAt = parseNullableTime(acceptedAt, timeLayout)
	rv.DeclinedAt = parseNullableTime(declinedAt, timeLayout)
	rv.SubmittedAt = parseNullableTime(submittedAt, timeLayout)
	rv.Recommendation = domain.Recommendation(rec)
	return rv, nil
}
