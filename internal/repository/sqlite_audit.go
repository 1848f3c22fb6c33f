package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
)

// SQLiteAuditRepo is the append-only audit log.
type SQLiteAuditRepo struct {
	db db.DBTX
}

func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

func (r *SQLiteAuditRepo) Append(ctx context.Context, e *domain.AuditEntry) error {
	before, err := snapshotToJSON(e.Before)
	if err != nil {
		return fmt.Errorf("encoding audit before: %w", err)
	}
	after, err := snapshotToJSON(e.After)
	if err != nil {
		return fmt.Errorf("encoding audit after: %w", err)
	}
	query := `INSERT INTO audit_log (id, actor_id, action, object_ref, before_state, after_state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, e.ID, e.ActorID, e.Action, e.ObjectRef, before, after, formatTime(e.CreatedAt)); err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

// ListByObject returns an object's history in insertion order.
func (r *SQLiteAuditRepo) ListByObject(ctx context.Context, objectRef string) ([]*domain.AuditEntry, error) {
	return r.query(ctx, `WHERE object_ref = ?`, objectRef)
}

func (r *SQLiteAuditRepo) ListByAction(ctx context.Context, action string) ([]*domain.AuditEntry, error) {
	return r.query(ctx, `WHERE action = ?`, action)
}

func (r *SQLiteAuditRepo) query(ctx context.Context, where string, args ...any) ([]*domain.AuditEntry, error) {
	query := `SELECT id, actor_id, action, object_ref, before_state, after_state, created_at
		FROM audit_log ` + where + ` ORDER BY rowid`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var out []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var before, after sql.NullString
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.ObjectRef, &before, &after, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if e.Before, err = snapshotFromJSON(before); err != nil {
			return nil, fmt.Errorf("decoding audit before: %w", err)
		}
		if e.After, err = snapshotFromJSON(after); err != nil {
			return nil, fmt.Errorf("decoding audit after: %w", err)
		}
		if e.CreatedAt, err = parseTime(createdAt, "audit created_at"); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return out, nil
}
