package testutil

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/alexanderramin/folio/internal/db"
)

// FailOnNthExecUoW wraps a real unit of work and injects Err on the Nth
// ExecContext of every transaction it opens, counting from 1. Reads pass
// through. Because it delegates to Inner, transactions keep the production
// BEGIN IMMEDIATE behaviour and compose with db.WithinLockedTx.
//
// Each injected failure records the table the write targeted, so rollback
// tests can report which step of a workflow change was cut off.
type FailOnNthExecUoW struct {
	Inner  db.UnitOfWork
	FailOn int32
	Err    error

	mu     sync.Mutex
	failed []string
}

// NewFailOnNthExecUoW fails the nth write of each transaction on database.
func NewFailOnNthExecUoW(database *sql.DB, n int32, err error) *FailOnNthExecUoW {
	return &FailOnNthExecUoW{Inner: db.NewSQLiteUnitOfWork(database), FailOn: n, Err: err}
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.Inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failOnNthExec{DBTX: tx, uow: u})
	})
}

// FailedTables lists the tables whose writes were cut off, in order.
func (u *FailOnNthExecUoW) FailedTables() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.failed...)
}

func (u *FailOnNthExecUoW) record(query string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.failed = append(u.failed, WriteTarget(query))
}

type failOnNthExec struct {
	db.DBTX
	uow   *FailOnNthExecUoW
	count atomic.Int32
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.count.Add(1) == f.uow.FailOn {
		f.uow.record(query)
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// WriteTarget returns the table an INSERT, UPDATE or DELETE statement
// writes to, or "" when it cannot tell.
func WriteTarget(query string) string {
	fields := strings.Fields(strings.ToUpper(query))
	for i, f := range fields {
		switch f {
		case "INTO", "UPDATE", "FROM":
			if i+1 < len(fields) {
				return strings.ToLower(strings.Trim(fields[i+1], "(`\""))
			}
		}
	}
	return ""
}
