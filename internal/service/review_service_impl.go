package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/workflow"
)

var reviewDeadlineTypes = []domain.DeadlineType{domain.DeadlineInitialReview, domain.DeadlineReReview}

func (s *workflowService) RespondToInvitation(ctx context.Context, req contract.RespondInvitationRequest) (resp *contract.ReviewResponse, err error) {
	fields := map[string]any{"submission_id": req.SubmissionID, "actor_id": req.ActorID, "accept": req.Accept}
	ctx, finish := s.instrument(ctx, "respond_invitation", fields)
	defer func() { finish(err) }()

	now := s.clock(req.Now)
	err = s.withSubmission(ctx, req.SubmissionID, now, func(ctx context.Context, st *txStore) error {
		sub, review, reviews, err := s.currentReview(ctx, st, req.ActorID, req.SubmissionID)
		if err != nil {
			return err
		}

		var in workflow.Intents
		if req.Accept {
			err = review.Accept(now)
		} else {
			err = review.Decline(now)
			in.SupersedeDeadlines = append(in.SupersedeDeadlines, workflow.DeadlineFilter{
				Types: reviewDeadlineTypes, AssignedTo: review.ReviewerID, RoundNo: review.RoundNo,
			})
		}
		if err != nil {
			return workflow.Validation(err.Error(), map[string]string{"review": review.ID})
		}
		if err := st.reviews.Update(ctx, review); err != nil {
			return err
		}

		in.Audit = append(in.Audit, workflow.AuditIntent{
			ActorID:   req.ActorID,
			Action:    domain.AuditActionRespondInvite,
			ObjectRef: domain.SubmissionRef(sub.ID),
			After:     map[string]any{"round": review.RoundNo, "accepted": req.Accept},
		})
		complete, err := s.roundCompletion(ctx, st, sub, reviews, review, &in, now)
		if err != nil {
			return err
		}
		if err := st.execute(ctx, *sub, req.ActorID, in, now); err != nil {
			return err
		}
		resp = &contract.ReviewResponse{Review: *review, RoundComplete: complete}
		return nil
	})
	if err != nil {
		s.auditDenied(ctx, req.ActorID, domain.SubmissionRef(req.SubmissionID), domain.Action(domain.AuditActionRespondInvite), err, now)
		return nil, err
	}
	return resp, nil
}

func (s *workflowService) SubmitReview(ctx context.Context, req contract.SubmitReviewRequest) (resp *contract.ReviewResponse, err error) {
	fields := map[string]any{"submission_id": req.SubmissionID, "actor_id": req.ActorID, "recommendation": string(req.Recommendation)}
	ctx, finish := s.instrument(ctx, "submit_review", fields)
	defer func() { finish(err) }()

	now := s.clock(req.Now)
	err = s.withSubmission(ctx, req.SubmissionID, now, func(ctx context.Context, st *txStore) error {
		sub, review, reviews, err := s.currentReview(ctx, st, req.ActorID, req.SubmissionID)
		if err != nil {
			return err
		}
		if err := review.Submit(req.Recommendation, req.Comments, now); err != nil {
			return workflow.Validation(err.Error(), map[string]string{"review": review.ID})
		}
		if err := st.reviews.Update(ctx, review); err != nil {
			return err
		}

		var in workflow.Intents
		in.CompleteDeadlines = append(in.CompleteDeadlines, workflow.DeadlineFilter{
			Types: reviewDeadlineTypes, AssignedTo: review.ReviewerID, RoundNo: review.RoundNo,
		})
		in.Audit = append(in.Audit, workflow.AuditIntent{
			ActorID:   req.ActorID,
			Action:    domain.AuditActionSubmitReview,
			ObjectRef: domain.SubmissionRef(sub.ID),
			After: map[string]any{
				"round":          review.RoundNo,
				"recommendation": string(review.Recommendation),
			},
		})
		complete, err := s.roundCompletion(ctx, st, sub, reviews, review, &in, now)
		if err != nil {
			return err
		}
		if err := st.execute(ctx, *sub, req.ActorID, in, now); err != nil {
			return err
		}
		resp = &contract.ReviewResponse{Review: *review, RoundComplete: complete}
		return nil
	})
	if err != nil {
		s.auditDenied(ctx, req.ActorID, domain.SubmissionRef(req.SubmissionID), domain.Action(domain.AuditActionSubmitReview), err, now)
		return nil, err
	}
	return resp, nil
}

// currentReview loads the submission and the actor's review in its current
// round. Only invited reviewers may act, and only while UNDER_REVIEW.
func (s *workflowService) currentReview(ctx context.Context, st *txStore, actorID, submissionID string) (*domain.Submission, *domain.Review, []domain.Review, error) {
	actor, err := st.actor(ctx, actorID)
	if err != nil {
		return nil, nil, nil, err
	}
	sub, err := st.submission(ctx, submissionID)
	if err != nil {
		return nil, nil, nil, err
	}
	if sub.Status != domain.StatusUnderReview {
		return nil, nil, nil, workflow.IllegalTransition(
			fmt.Sprintf("reviews are only taken while UNDER_REVIEW, submission is %s", sub.Status),
			map[string]string{"status": string(sub.Status)},
		)
	}
	reviews, err := st.reviews.ListBySubmission(ctx, sub.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	for i := range reviews {
		r := &reviews[i]
		if r.RoundNo == sub.CurrentRound && r.ReviewerID == actor.ID {
			return sub, r, reviews, nil
		}
	}
	return nil, nil, nil, workflow.Unauthorized("actor is not a reviewer of the current round", map[string]string{
		"role":  string(actor.Role),
		"round": strconv.Itoa(sub.CurrentRound),
	})
}

// roundCompletion adds an EDITOR_DECISION deadline for the handling editor
// once the round's last outstanding review is in. reviews already holds the
// updated review through its pointer.
func (s *workflowService) roundCompletion(ctx context.Context, st *txStore, sub *domain.Submission, reviews []domain.Review, updated *domain.Review, in *workflow.Intents, now time.Time) (bool, error) {
	if !workflow.RoundReadyForDecision(workflow.ReviewsInRound(reviews, updated.RoundNo)) {
		return false, nil
	}
	deadlines, err := st.deadlines.ListBySubmission(ctx, sub.ID)
	if err != nil {
		return false, err
	}
	pending := workflow.DeadlineFilter{Types: []domain.DeadlineType{domain.DeadlineEditorDecision}, RoundNo: updated.RoundNo}
	for _, d := range deadlines {
		if pending.Matches(d) {
			return true, nil
		}
	}
	in.CreateDeadlines = append(in.CreateDeadlines, workflow.DeadlineIntent{
		Type:       domain.DeadlineEditorDecision,
		RoundNo:    updated.RoundNo,
		AssignedTo: sub.HandlingEditorID,
		DueDate:    s.machine.Settings().DueDate(domain.DeadlineEditorDecision, now),
	})
	return true, nil
}
