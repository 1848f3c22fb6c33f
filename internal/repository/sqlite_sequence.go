package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/folio/internal/db"
)

// SQLiteSequenceRepo allocates per-year submission sequence values
// atomically using the submission_sequences table.
type SQLiteSequenceRepo struct {
	db db.DBTX
}

func NewSQLiteSequenceRepo(conn db.DBTX) *SQLiteSequenceRepo {
	return &SQLiteSequenceRepo{db: conn}
}

// NextSubmissionSeq returns the next available sequence for year, starting at 1.
// Allocation is atomic and safe under concurrent writes.
func (r *SQLiteSequenceRepo) NextSubmissionSeq(ctx context.Context, year int) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO submission_sequences (year, next_seq) VALUES (?, 1)`
	if _, err := r.db.ExecContext(ctx, seedQuery, year); err != nil {
		return 0, fmt.Errorf("seeding submission sequence for %d: %w", year, err)
	}

	var next int
	allocQuery := `UPDATE submission_sequences
		SET next_seq = next_seq + 1
		WHERE year = ?
		RETURNING next_seq - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next submission seq for %d: %w", year, err)
	}
	return next, nil
}
