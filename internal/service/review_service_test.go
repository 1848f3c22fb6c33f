package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondToInvitation_DeclineClosesDeadlineAndCanCompleteRound(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)

	accepted, err := j.wf.RespondToInvitation(ctx, contract.RespondInvitationRequest{
		ActorID: j.rev1.ID, SubmissionID: sub.ID, Accept: true,
	})
	require.NoError(t, err)
	assert.NotNil(t, accepted.Review.AcceptedAt)
	assert.False(t, accepted.RoundComplete)

	j.review(t, sub.ID, j.rev1, domain.RecommendAccept)

	declined, err := j.wf.RespondToInvitation(ctx, contract.RespondInvitationRequest{
		ActorID: j.rev2.ID, SubmissionID: sub.ID, Accept: false,
	})
	require.NoError(t, err)
	assert.NotNil(t, declined.Review.DeclinedAt)
	assert.True(t, declined.RoundComplete, "the only outstanding review was declined")

	v := j.view(t, sub.ID)
	assert.Empty(t, openDeadlines(v, domain.DeadlineInitialReview))
	assert.Len(t, openDeadlines(v, domain.DeadlineEditorDecision), 1)

	_, err = j.wf.SubmitReview(ctx, contract.SubmitReviewRequest{
		ActorID: j.rev2.ID, SubmissionID: sub.ID, Recommendation: domain.RecommendReject,
	})
	assert.ErrorIs(t, err, workflow.ErrValidation, "a declined invitation cannot be submitted")
}

func TestSubmitReview_Rejections(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)

	_, err := j.wf.SubmitReview(ctx, contract.SubmitReviewRequest{
		ActorID: j.rev1.ID, SubmissionID: sub.ID, Recommendation: domain.RecommendAccept,
	})
	assert.ErrorIs(t, err, workflow.ErrIllegalTransition, "no reviews before the round opens")

	j.sendToReview(t, sub.ID, j.rev1, j.rev2)

	_, err = j.wf.SubmitReview(ctx, contract.SubmitReviewRequest{
		ActorID: j.rev3.ID, SubmissionID: sub.ID, Recommendation: domain.RecommendAccept,
	})
	assert.ErrorIs(t, err, workflow.ErrUnauthorized)

	_, err = j.wf.SubmitReview(ctx, contract.SubmitReviewRequest{
		ActorID: j.rev1.ID, SubmissionID: sub.ID, Recommendation: "MAYBE",
	})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	j.review(t, sub.ID, j.rev1, domain.RecommendAccept)
	_, err = j.wf.SubmitReview(ctx, contract.SubmitReviewRequest{
		ActorID: j.rev1.ID, SubmissionID: sub.ID, Recommendation: domain.RecommendReject,
	})
	assert.ErrorIs(t, err, workflow.ErrValidation, "submitted reviews are immutable")

	denied, err := repository.NewSQLiteAuditRepo(j.db).ListByAction(ctx, domain.AuditActionSecurityDenied)
	require.NoError(t, err)
	require.Len(t, denied, 1)
	assert.Equal(t, j.rev3.ID, denied[0].ActorID)
	assert.Equal(t, domain.AuditActionSubmitReview, denied[0].After["action"])
	assert.Equal(t, string(domain.RoleReviewer), denied[0].After["role"])
}

func TestSubmitReview_EditorDecisionDeadlineCreatedOnce(t *testing.T) {
	j := newMemoryJournal(t)
	ctx := context.Background()
	sub := j.submit(t, domain.SecurityOpen)
	j.sendToReview(t, sub.ID, j.rev1, j.rev2)
	j.review(t, sub.ID, j.rev1, domain.RecommendAccept)
	j.review(t, sub.ID, j.rev2, domain.RecommendAccept)

	// Growing the panel reopens the round; the pending decision deadline stays.
	_, err := j.wf.AssignReviewers(ctx, contract.AssignReviewersRequest{
		ActorID: j.editor.ID, SubmissionID: sub.ID, ReviewerIDs: []string{j.rev1.ID, j.rev2.ID, j.rev3.ID},
	})
	require.NoError(t, err)
	resp := j.review(t, sub.ID, j.rev3, domain.RecommendMinor)
	assert.True(t, resp.RoundComplete)

	assert.Len(t, openDeadlines(j.view(t, sub.ID), domain.DeadlineEditorDecision), 1)
}
