package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendToReview_SingleReviewerLeavesNothingBehind(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)

	_, err := j.wf.Transition(ctx, contract.TransitionRequest{
		ActorID: j.editor.ID, SubmissionID: sub.ID, Action: domain.ActionSendToReview,
		ReviewerIDs: []string{j.rev1.ID, j.rev1.ID},
	})
	require.ErrorIs(t, err, workflow.ErrValidation)

	v := j.view(t, sub.ID)
	assert.Equal(t, domain.StatusNew, v.Submission.Status)
	assert.Equal(t, 0, v.Submission.CurrentRound)
	assert.Empty(t, v.Reviews)
	assert.Empty(t, v.Deadlines)
	assert.Empty(t, notificationTypes(t, j, j.rev1.ID))
	history, err := j.subs.History(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"create_submission"}, auditActions(history))
}

func TestAssignReviewers_SingleReviewerKeepsCurrentPanel(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)
	j.advance(hour)
	before := snapshotState(t, j, sub.ID)

	for _, ids := range [][]string{{j.rev3.ID}, {j.rev1.ID}, {j.rev3.ID, j.rev3.ID}} {
		_, err := j.wf.AssignReviewers(ctx, contract.AssignReviewersRequest{
			ActorID: j.editor.ID, SubmissionID: sub.ID, ReviewerIDs: ids,
		})
		require.ErrorIs(t, err, workflow.ErrValidation, "reviewers=%v", ids)
		assert.Equal(t, before, snapshotState(t, j, sub.ID), "reviewers=%v", ids)
	}

	v := j.view(t, sub.ID)
	assert.Equal(t, domain.StatusUnderReview, v.Submission.Status)
	assert.Equal(t, 1, v.Submission.CurrentRound)
	panel := make([]string, 0, len(v.Reviews))
	for _, r := range v.Reviews {
		panel = append(panel, r.ReviewerID)
	}
	assert.ElementsMatch(t, []string{j.rev1.ID, j.rev2.ID}, panel)
	assert.Len(t, openDeadlines(v, domain.DeadlineInitialReview), 2)
	assert.Empty(t, notificationTypes(t, j, j.rev3.ID))
}

func TestAssignReviewers_RecomposesCurrentRound(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)

	resp, err := j.wf.AssignReviewers(ctx, contract.AssignReviewersRequest{
		ActorID: j.editor.ID, SubmissionID: sub.ID, ReviewerIDs: []string{j.rev1.ID, j.rev3.ID},
	})
	require.NoError(t, err)
	assert.False(t, resp.Transitioned)
	assert.Equal(t, 1, resp.Round)
	assert.Equal(t, []string{j.rev3.ID}, resp.Added)
	assert.Equal(t, []string{j.rev2.ID}, resp.Removed)

	v := j.view(t, sub.ID)
	reviewers := map[string]bool{}
	for _, r := range v.Reviews {
		reviewers[r.ReviewerID] = true
	}
	assert.Equal(t, map[string]bool{j.rev1.ID: true, j.rev3.ID: true}, reviewers)

	open := openDeadlines(v, domain.DeadlineInitialReview)
	require.Len(t, open, 2)
	for _, d := range open {
		assert.NotEqual(t, j.rev2.ID, d.AssignedTo)
	}
	for _, d := range v.Deadlines {
		if d.AssignedTo == j.rev2.ID {
			assert.NotNil(t, d.SupersededAt, "removed reviewer's deadline is superseded, never deleted")
		}
	}
}

func TestAssignReviewers_SameSetIsNoop(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)

	resp, err := j.wf.AssignReviewers(ctx, contract.AssignReviewersRequest{
		ActorID: j.editor.ID, SubmissionID: sub.ID, ReviewerIDs: []string{j.rev2.ID, j.rev1.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Added)
	assert.Empty(t, resp.Removed)

	history, err := j.subs.History(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"create_submission", "send_to_review", "assign_reviewers"}, auditActions(history))
}

func TestAssignReviewers_SubmittedReviewCannotBeDropped(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)
	j.review(t, sub.ID, j.rev2, domain.RecommendMinor)

	_, err := j.wf.AssignReviewers(ctx, contract.AssignReviewersRequest{
		ActorID: j.editor.ID, SubmissionID: sub.ID, ReviewerIDs: []string{j.rev1.ID, j.rev3.ID},
	})
	require.ErrorIs(t, err, workflow.ErrValidation)
	assert.Len(t, j.view(t, sub.ID).Reviews, 2)
}

func TestAssignReviewers_Rejections(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)

	tests := []struct {
		name      string
		actor     string
		reviewers []string
		want      error
	}{
		{"unknown reviewer", j.editor.ID, []string{j.rev1.ID, "ghost"}, workflow.ErrNotFound},
		{"author reviews own work", j.editor.ID, []string{j.rev1.ID, j.author.ID}, workflow.ErrValidation},
		{"reviewer cannot assign", j.rev3.ID, []string{j.rev1.ID, j.rev2.ID}, workflow.ErrUnauthorized},
		{"unknown actor", "nobody", []string{j.rev1.ID, j.rev2.ID}, workflow.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.wf.AssignReviewers(ctx, contract.AssignReviewersRequest{
				ActorID: tt.actor, SubmissionID: sub.ID, ReviewerIDs: tt.reviewers,
			})
			assert.ErrorIs(t, err, tt.want)
			v := j.view(t, sub.ID)
			assert.Equal(t, domain.StatusNew, v.Submission.Status)
			assert.Empty(t, v.Reviews)
		})
	}
}

func TestSendToReview_IllegalWhileUnderReview(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)

	_, err := j.wf.Transition(ctx, contract.TransitionRequest{
		ActorID: j.editor.ID, SubmissionID: sub.ID, Action: domain.ActionSendToReview,
		ReviewerIDs: []string{j.rev1.ID, j.rev3.ID},
	})
	require.ErrorIs(t, err, workflow.ErrIllegalTransition)
	assert.Len(t, j.view(t, sub.ID).Reviews, 2, "the panel is unchanged")
}

func TestAssignReviewers_IllegalAfterTerminal(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)
	_, err := j.wf.Transition(ctx, contract.TransitionRequest{
		ActorID: j.editor.ID, SubmissionID: sub.ID, Action: domain.ActionDeskReject, Reason: "out of scope",
	})
	require.NoError(t, err)

	_, err = j.wf.AssignReviewers(ctx, contract.AssignReviewersRequest{
		ActorID: j.editor.ID, SubmissionID: sub.ID, ReviewerIDs: []string{j.rev1.ID, j.rev2.ID},
	})
	assert.ErrorIs(t, err, workflow.ErrIllegalTransition)
}

func TestRoundNumbering_FollowsHighestExistingRound(t *testing.T) {
	j := newMemoryJournal(t)
	sub := j.submit(t, domain.SecurityOpen)

	for round := 1; round <= 3; round++ {
		sent := j.sendToReview(t, sub.ID, j.rev1, j.rev2)
		assert.Equal(t, round, sent.Submission.CurrentRound)
		j.review(t, sub.ID, j.rev1, domain.RecommendMinor)
		j.review(t, sub.ID, j.rev2, domain.RecommendMinor)
		res, err := j.decide(sub.ID, j.editor, domain.DecisionMinor)
		require.NoError(t, err)
		require.Equal(t, domain.StatusRevision, res.Status)
	}

	v := j.view(t, sub.ID)
	assert.Equal(t, 3, v.Submission.CurrentRound)
	assert.Equal(t, 3, workflow.MaxRound(v.Reviews))
	for _, d := range v.Decisions {
		assert.LessOrEqual(t, d.RoundNo, v.Submission.CurrentRound)
	}
	assert.Len(t, openDeadlines(v, domain.DeadlineRevisionSubmit), 1, "each new round supersedes the last revision deadline")
}
