package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/testutil"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected write failure")

// state is everything a workflow step may write for one submission.
type state struct {
	view          *contract.SubmissionView
	history       int
	notifications int
}

func snapshotState(t *testing.T, j *journal, subID string) state {
	t.Helper()
	history, err := j.subs.History(context.Background(), subID)
	require.NoError(t, err)
	n := 0
	for _, u := range []*domain.User{j.author, j.editor, j.chief, j.admin, j.auditor, j.rev1, j.rev2, j.rev3} {
		n += len(notificationTypes(t, j, u.ID))
	}
	return state{view: j.view(t, subID), history: len(history), notifications: n}
}

// failingWorkflow returns a workflow service whose n-th write in every
// transaction fails. It shares locker with the caller so the test can check
// the submission lock is released after the rollback.
func failingWorkflow(j *journal, locker *db.KeyedLocker, n int32) (WorkflowService, *testutil.FailOnNthExecUoW) {
	uow := testutil.NewFailOnNthExecUoW(j.db, n, errInjected)
	return NewWorkflowService(j.db, uow, locker, nil, WithClock(func() time.Time { return j.now })), uow
}

func assertUnlocked(t *testing.T, locker *db.KeyedLocker, key string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlock, err := locker.Lock(ctx, key)
	require.NoError(t, err, "submission lock still held after rollback")
	unlock()
}

// assertAtomic fails every write of step in turn and checks that each failure
// leaves the submission exactly as prepare left it. It stops at the first n
// that lets step succeed.
func assertAtomic(t *testing.T, prepare func(j *journal) string, step func(wf WorkflowService, subID string) error) {
	t.Helper()
	for n := int32(1); n < 64; n++ {
		j := newMemoryJournal(t)
		subID := prepare(j)
		j.advance(hour)
		before := snapshotState(t, j, subID)

		locker := db.NewKeyedLocker()
		wf, uow := failingWorkflow(j, locker, n)
		err := step(wf, subID)
		assertUnlocked(t, locker, subID)
		if err == nil {
			require.Greater(t, n, int32(1), "step wrote nothing")
			return
		}
		require.ErrorIs(t, err, errInjected, "write #%d", n)
		failed := uow.FailedTables()
		require.NotEmpty(t, failed)
		assert.Equal(t, before, snapshotState(t, j, subID), "write #%d to %s left partial state", n, failed[0])
	}
	t.Fatal("step never succeeded")
}

func TestRollback_SendToReview(t *testing.T) {
	assertAtomic(t,
		func(j *journal) string { return j.submit(t, domain.SecurityOpen).ID },
		func(wf WorkflowService, subID string) error {
			_, err := wf.Transition(context.Background(), contract.TransitionRequest{
				ActorID: "ed", SubmissionID: subID, Action: domain.ActionSendToReview,
				ReviewerIDs: []string{"rev-1", "rev-2"},
			})
			return err
		})
}

func TestRollback_SubmitReviewCompletingRound(t *testing.T) {
	assertAtomic(t,
		func(j *journal) string {
			sub := j.submit(t, domain.SecurityOpen)
			j.sendToReview(t, sub.ID, j.rev1, j.rev2)
			j.review(t, sub.ID, j.rev1, domain.RecommendAccept)
			return sub.ID
		},
		func(wf WorkflowService, subID string) error {
			_, err := wf.SubmitReview(context.Background(), contract.SubmitReviewRequest{
				ActorID: "rev-2", SubmissionID: subID, Recommendation: domain.RecommendMinor,
			})
			return err
		})
}

func TestRollback_RequestRevisionDecision(t *testing.T) {
	assertAtomic(t,
		func(j *journal) string {
			sub := j.submit(t, domain.SecurityOpen)
			j.sendToReview(t, sub.ID, j.rev1, j.rev2)
			j.review(t, sub.ID, j.rev1, domain.RecommendMajor)
			j.review(t, sub.ID, j.rev2, domain.RecommendMajor)
			return sub.ID
		},
		func(wf WorkflowService, subID string) error {
			_, err := wf.RecordDecision(context.Background(), contract.RecordDecisionRequest{
				ActorID: "ed", SubmissionID: subID, Decision: domain.DecisionMajor,
			})
			return err
		})
}

func TestRollback_QuorumCompletingDecision(t *testing.T) {
	assertAtomic(t,
		func(j *journal) string {
			sub := j.submit(t, domain.SecurityTopSecret)
			j.sendToReview(t, sub.ID, j.rev1, j.rev2)
			_, err := j.decide(sub.ID, j.chief, domain.DecisionAccept)
			require.NoError(t, err)
			return sub.ID
		},
		func(wf WorkflowService, subID string) error {
			_, err := wf.RecordDecision(context.Background(), contract.RecordDecisionRequest{
				ActorID: "sam", SubmissionID: subID, Decision: domain.DecisionAccept,
			})
			return err
		})
}

func TestRollback_SecurityDenialIsStillAudited(t *testing.T) {
	j := newMemoryJournal(t)
	sub := j.submit(t, domain.SecurityOpen)

	_, err := j.wf.Transition(context.Background(), contract.TransitionRequest{
		ActorID: j.rev1.ID, SubmissionID: sub.ID, Action: domain.ActionDeskReject,
	})
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	history, err := j.subs.History(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"create_submission", domain.AuditActionSecurityDenied}, auditActions(history))
	assert.Equal(t, string(domain.ActionDeskReject), history[1].After["action"])
	assert.Equal(t, domain.StatusNew, j.view(t, sub.ID).Submission.Status)

	_, err = j.wf.Transition(context.Background(), contract.TransitionRequest{
		ActorID: j.editor.ID, SubmissionID: sub.ID, Action: domain.ActionPublish,
	})
	require.ErrorIs(t, err, workflow.ErrIllegalTransition)
	history, err = j.subs.History(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2, "illegal transitions are not audited")
}
