package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteDeadline_AssigneeOrManagingEditor(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)

	var mine, theirs domain.Deadline
	for _, d := range openDeadlines(j.view(t, sub.ID), domain.DeadlineInitialReview) {
		if d.AssignedTo == j.rev1.ID {
			mine = d
		} else {
			theirs = d
		}
	}
	require.NotEmpty(t, mine.ID)
	require.NotEmpty(t, theirs.ID)

	_, err := j.wf.CompleteDeadline(ctx, contract.CompleteDeadlineRequest{ActorID: j.rev1.ID, DeadlineID: theirs.ID})
	assert.ErrorIs(t, err, workflow.ErrUnauthorized)
	_, err = j.wf.CompleteDeadline(ctx, contract.CompleteDeadlineRequest{ActorID: j.editor.ID, DeadlineID: theirs.ID})
	assert.ErrorIs(t, err, workflow.ErrUnauthorized, "plain editors are below the threshold")

	done, err := j.wf.CompleteDeadline(ctx, contract.CompleteDeadlineRequest{ActorID: j.rev1.ID, DeadlineID: mine.ID})
	require.NoError(t, err)
	assert.Equal(t, j.rev1.ID, done.CompletedBy)

	done, err = j.wf.CompleteDeadline(ctx, contract.CompleteDeadlineRequest{ActorID: j.managing.ID, DeadlineID: theirs.ID})
	require.NoError(t, err)
	assert.Equal(t, j.managing.ID, done.CompletedBy)

	_, err = j.wf.CompleteDeadline(ctx, contract.CompleteDeadlineRequest{ActorID: j.managing.ID, DeadlineID: theirs.ID})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = j.wf.CompleteDeadline(ctx, contract.CompleteDeadlineRequest{ActorID: j.managing.ID, DeadlineID: "nope"})
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	history, err := j.subs.History(ctx, sub.ID)
	require.NoError(t, err)
	actions := auditActions(history)
	assert.Contains(t, actions, string(domain.ActionCompleteDeadline))
	assert.Contains(t, actions, domain.AuditActionSecurityDenied)
}

func TestNotifierDecorator_WrapsOutbox(t *testing.T) {
	var logged []string
	j := newMemoryJournal(t, WithNotifierDecorator(func(next Notifier) Notifier {
		return recordingNotifier{next: next, sent: &logged}
	}))
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)

	assert.ElementsMatch(t, []string{j.rev1.ID, j.rev2.ID}, logged)
	assert.Len(t, notificationTypes(t, j, j.rev1.ID), 1, "the outbox still receives the row")
}

type recordingNotifier struct {
	next Notifier
	sent *[]string
}

func (n recordingNotifier) Notify(ctx context.Context, userID string, typ domain.NotificationType, title, message, link string) error {
	*n.sent = append(*n.sent, userID)
	return n.next.Notify(ctx, userID, typ, title, message, link)
}

func TestLoggingNotifier_LogsQueuedNotifications(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	j := newMemoryJournal(t, WithNotifierDecorator(LoggingNotifier(logger)), WithObserver(NewLogUseCaseObserver(logger)))
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)

	out := buf.String()
	assert.Contains(t, out, `"msg":"notification_queued"`)
	assert.Contains(t, out, `"user_id":"rev-1"`)
	assert.Contains(t, out, `"use_case":"send_to_review"`)
}
