package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_AppendAndListInOrder(t *testing.T) {
	repo := NewSQLiteAuditRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	ref := domain.SubmissionRef("sub-1")

	first := &domain.AuditEntry{
		ID: "a1", ActorID: "ed-1", Action: "send_to_review", ObjectRef: ref,
		Before:    map[string]any{"status": "NEW", "round": 0},
		After:     map[string]any{"status": "UNDER_REVIEW", "round": 1},
		CreatedAt: testutil.FixedNow,
	}
	second := &domain.AuditEntry{
		ID: "a2", ActorID: "au-1", Action: domain.AuditActionSecurityDenied, ObjectRef: ref,
		CreatedAt: testutil.FixedNow,
	}
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	require.NoError(t, repo.Append(ctx, &domain.AuditEntry{ID: "a3", ActorID: "x", Action: "noop", ObjectRef: "submission:other", CreatedAt: testutil.FixedNow}))

	history, err := repo.ListByObject(ctx, ref)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "a1", history[0].ID)
	assert.Equal(t, "UNDER_REVIEW", history[0].After["status"])
	assert.Equal(t, float64(1), history[0].After["round"], "JSON numbers decode as float64")
	assert.Nil(t, history[1].Before)

	denied, err := repo.ListByAction(ctx, domain.AuditActionSecurityDenied)
	require.NoError(t, err)
	require.Len(t, denied, 1)
	assert.Equal(t, "au-1", denied[0].ActorID)
}

func TestNotificationRepo_Outbox(t *testing.T) {
	repo := NewSQLiteNotificationRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Notification{
		ID: "n1", UserID: "author-1", Type: domain.NotifyRevisionRequested,
		Title: "Revision requested", Message: "Please revise.", Link: "/submissions/sub-1",
		CreatedAt: testutil.FixedNow,
	}))
	require.NoError(t, repo.Create(ctx, &domain.Notification{
		ID: "n2", UserID: "rev-1", Type: domain.NotifyReviewAssigned, Title: "Invite", CreatedAt: testutil.FixedNow,
	}))

	got, err := repo.ListByUser(ctx, "author-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.NotifyRevisionRequested, got[0].Type)
	assert.Equal(t, "/submissions/sub-1", got[0].Link)
}
