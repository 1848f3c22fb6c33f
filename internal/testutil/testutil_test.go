package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestDB_SeedsMasthead(t *testing.T) {
	database := NewTestDB(t, Masthead(map[string]domain.Role{
		"ed":    domain.RoleEditor,
		"rev-1": domain.RoleReviewer,
	})...)

	var role string
	require.NoError(t, database.QueryRow(`SELECT role FROM users WHERE id = 'rev-1'`).Scan(&role))
	assert.Equal(t, string(domain.RoleReviewer), role)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestWriteTarget(t *testing.T) {
	assert.Equal(t, "audit_log", WriteTarget(`INSERT INTO audit_log (id, actor_id) VALUES (?, ?)`))
	assert.Equal(t, "submissions", WriteTarget("UPDATE submissions\n\tSET status = ?"))
	assert.Equal(t, "reviews", WriteTarget(`DELETE FROM reviews WHERE id = ?`))
	assert.Equal(t, "", WriteTarget(`PRAGMA foreign_keys`))
}

func TestFailOnNthExecUoW_RollsBackAndRecordsTable(t *testing.T) {
	database := NewTestDB(t)
	injected := errors.New("injected")
	uow := NewFailOnNthExecUoW(database, 2, injected)
	locker := db.NewKeyedLocker()

	err := db.WithinLockedTx(context.Background(), uow, locker, "masthead", func(ctx context.Context, tx db.DBTX) error {
		for _, id := range []string{"a", "b"} {
			u := NewTestUser(id, domain.RoleEditor, WithUserID(id))
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO users (id, name, email, role, created_at) VALUES (?, ?, '', ?, ?)`,
				u.ID, u.Name, string(u.Role), "2026-03-02T09:00:00Z"); err != nil {
				return err
			}
		}
		return nil
	})
	require.ErrorIs(t, err, injected)
	assert.Equal(t, []string{"users"}, uow.FailedTables())

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n, "first insert rolled back with the second")
}
