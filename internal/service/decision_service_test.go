package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/testutil"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDecision_RejectWhileAwaitingRevision(t *testing.T) {
	j := newMemoryJournal(t)
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)
	_, err := j.decide(sub.ID, j.editor, domain.DecisionMajor)
	require.NoError(t, err)

	_, err = j.decide(sub.ID, j.managing, domain.DecisionAccept)
	assert.ErrorIs(t, err, workflow.ErrIllegalTransition)

	res, err := j.decide(sub.ID, j.managing, domain.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, res.Status)
	assert.Empty(t, openDeadlines(j.view(t, sub.ID), domain.DeadlineRevisionSubmit))
}

func TestRecordDecision_RoundMustBeCurrent(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)

	_, err := j.wf.RecordDecision(ctx, contract.RecordDecisionRequest{
		ActorID: j.editor.ID, SubmissionID: sub.ID, Round: 2, Decision: domain.DecisionMinor,
	})
	assert.ErrorIs(t, err, workflow.ErrValidation)
	assert.Empty(t, j.view(t, sub.ID).Decisions)
}

func TestRecordDecision_AcceptNeedsManagingEditor(t *testing.T) {
	j := newMemoryJournal(t)
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)

	_, err := j.decide(sub.ID, j.editor, domain.DecisionAccept)
	assert.ErrorIs(t, err, workflow.ErrUnauthorized)

	_, err = j.decide(sub.ID, j.auditor, domain.DecisionReject)
	assert.ErrorIs(t, err, workflow.ErrUnauthorized, "auditors only sign classified work")

	res, err := j.decide(sub.ID, j.managing, domain.DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProduction, res.Status)
}

func TestRecordDecision_AcceptTargetAccepted(t *testing.T) {
	j := newMemoryJournal(t)
	j.wf = NewWorkflowService(j.db, testutil.NewTestUoW(j.db), nil, workflow.NewMachine(nil, workflow.Settings{
		AcceptTarget: domain.StatusAccepted,
	}), WithClock(func() time.Time { return j.now }))

	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)
	res, err := j.decide(sub.ID, j.managing, domain.DecisionAccept)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, res.Status)
	assert.Len(t, openDeadlines(j.view(t, sub.ID), domain.DeadlinePublication), 1)

	moved, err := j.wf.Transition(context.Background(), contract.TransitionRequest{
		ActorID: j.managing.ID, SubmissionID: sub.ID, Action: domain.ActionStartProduction,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProduction, moved.To)
	v := j.view(t, sub.ID)
	assert.Empty(t, openDeadlines(v, domain.DeadlinePublication))
	assert.Len(t, openDeadlines(v, domain.DeadlineProduction), 1)
}
