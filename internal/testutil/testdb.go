package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied
// and the given users already in the directory. Workflow steps resolve the
// acting user's role from that table, so most tests seed a masthead here.
// The database is closed when the test completes.
func NewTestDB(t *testing.T, masthead ...*domain.User) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	for _, u := range masthead {
		_, err := database.ExecContext(context.Background(),
			`INSERT INTO users (id, name, email, role, created_at) VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Name, u.Email, string(u.Role), u.CreatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			t.Fatalf("seeding user %s (%s): %v", u.ID, u.Role, err)
		}
	}
	return database
}

// Masthead builds one user per role, each with its name as ID.
func Masthead(roles map[string]domain.Role) []*domain.User {
	out := make([]*domain.User, 0, len(roles))
	for id, role := range roles {
		out = append(out, NewTestUser(id, role, WithUserID(id)))
	}
	return out
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
