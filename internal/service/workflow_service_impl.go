package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/google/uuid"
)

type workflowService struct {
	core
	machine *workflow.Machine
}

// NewWorkflowService wires the pure workflow machine to storage. conn is used
// for lookups outside a transaction; every mutation runs through uow while
// holding the submission's lock in locker.
func NewWorkflowService(conn db.DBTX, uow db.UnitOfWork, locker *db.KeyedLocker, machine *workflow.Machine, opts ...Option) WorkflowService {
	if machine == nil {
		machine = workflow.NewMachine(nil, workflow.DefaultSettings())
	}
	return &workflowService{core: newCore(conn, uow, locker, opts), machine: machine}
}

func (s *workflowService) Transition(ctx context.Context, req contract.TransitionRequest) (resp *contract.TransitionResponse, err error) {
	if req.Action == domain.ActionSendToReview {
		assigned, err := s.assign(ctx, contract.AssignReviewersRequest{
			ActorID:      req.ActorID,
			SubmissionID: req.SubmissionID,
			ReviewerIDs:  req.ReviewerIDs,
			Now:          req.Now,
		}, true)
		if err != nil {
			return nil, err
		}
		return &contract.TransitionResponse{
			Submission: assigned.Submission,
			From:       assigned.From,
			To:         assigned.Submission.Status,
		}, nil
	}

	fields := map[string]any{"submission_id": req.SubmissionID, "actor_id": req.ActorID, "action": string(req.Action)}
	ctx, finish := s.instrument(ctx, "transition", fields)
	defer func() { finish(err) }()

	now := s.clock(req.Now)
	err = s.withSubmission(ctx, req.SubmissionID, now, func(ctx context.Context, st *txStore) error {
		actor, err := st.actor(ctx, req.ActorID)
		if err != nil {
			return err
		}
		sub, err := st.submission(ctx, req.SubmissionID)
		if err != nil {
			return err
		}
		reviews, err := st.reviews.ListBySubmission(ctx, sub.ID)
		if err != nil {
			return err
		}

		out, err := s.machine.ApplyTransition(*sub, req.Action, actor, workflow.Payload{
			Now:      now,
			MaxRound: workflow.MaxRound(reviews),
			Reason:   req.Reason,
		})
		if err != nil {
			return err
		}
		if err := st.submissions.Update(ctx, &out.Submission); err != nil {
			return err
		}
		if err := st.execute(ctx, out.Submission, actor.ID, out.Intents, now); err != nil {
			return err
		}
		resp = &contract.TransitionResponse{Submission: out.Submission, From: out.From, To: out.To}
		fields["to"] = string(out.To)
		return nil
	})
	if err != nil {
		s.auditDenied(ctx, req.ActorID, domain.SubmissionRef(req.SubmissionID), req.Action, err, now)
		return nil, err
	}
	return resp, nil
}

func (s *workflowService) AssignReviewers(ctx context.Context, req contract.AssignReviewersRequest) (*contract.AssignReviewersResponse, error) {
	return s.assign(ctx, req, false)
}

// assign plans and applies a reviewer assignment. With newRound set the call
// is a send_to_review and must open a round.
func (s *workflowService) assign(ctx context.Context, req contract.AssignReviewersRequest, newRound bool) (resp *contract.AssignReviewersResponse, err error) {
	action := domain.ActionAssignReviewers
	if newRound {
		action = domain.ActionSendToReview
	}
	fields := map[string]any{"submission_id": req.SubmissionID, "actor_id": req.ActorID, "reviewers": len(req.ReviewerIDs)}
	ctx, finish := s.instrument(ctx, string(action), fields)
	defer func() { finish(err) }()

	now := s.clock(req.Now)
	err = s.withSubmission(ctx, req.SubmissionID, now, func(ctx context.Context, st *txStore) error {
		actor, err := st.actor(ctx, req.ActorID)
		if err != nil {
			return err
		}
		sub, err := st.submission(ctx, req.SubmissionID)
		if err != nil {
			return err
		}
		if newRound && !workflow.IsLegal(sub.Status, domain.ActionSendToReview) {
			return workflow.IllegalTransition(
				fmt.Sprintf("cannot %s a submission in status %s", domain.ActionSendToReview, sub.Status),
				map[string]string{"action": string(domain.ActionSendToReview), "status": string(sub.Status)},
			)
		}
		reviews, err := st.reviews.ListBySubmission(ctx, sub.ID)
		if err != nil {
			return err
		}

		plan, err := s.machine.PlanAssignment(*sub, reviews, req.ReviewerIDs, actor, now)
		if err != nil {
			return err
		}
		for _, id := range plan.Added {
			if _, err := st.users.GetByID(ctx, id); err != nil {
				return lookupErr("reviewer", id, err)
			}
		}

		resp = &contract.AssignReviewersResponse{
			Submission: *sub,
			From:       sub.Status,
			Round:      plan.Round,
			Added:      plan.Added,
		}
		if !plan.Changed() {
			return nil
		}

		current := *sub
		if plan.Transition != nil {
			current = plan.Transition.Submission
			if err := st.submissions.Update(ctx, &current); err != nil {
				return err
			}
			if err := st.execute(ctx, current, actor.ID, plan.Transition.Intents, now); err != nil {
				return err
			}
			resp.Transitioned = true
		}
		for _, r := range plan.Removed {
			if err := st.reviews.Delete(ctx, r.ID); err != nil {
				return err
			}
			resp.Removed = append(resp.Removed, r.ReviewerID)
		}
		for _, id := range plan.Added {
			review := &domain.Review{
				ID:           uuid.New().String(),
				SubmissionID: current.ID,
				ReviewerID:   id,
				RoundNo:      plan.Round,
				InvitedAt:    now,
			}
			if err := st.reviews.Create(ctx, review); err != nil {
				return err
			}
		}
		if err := st.execute(ctx, current, actor.ID, plan.Intents, now); err != nil {
			return err
		}
		resp.Submission = current
		fields["round"] = plan.Round
		fields["added"] = len(plan.Added)
		fields["removed"] = len(plan.Removed)
		return nil
	})
	if err != nil {
		s.auditDenied(ctx, req.ActorID, domain.SubmissionRef(req.SubmissionID), action, err, now)
		return nil, err
	}
	return resp, nil
}
