package service

import (
	"context"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/google/uuid"
)

func (s *workflowService) RecordDecision(ctx context.Context, req contract.RecordDecisionRequest) (resp *contract.DecisionResponse, err error) {
	fields := map[string]any{"submission_id": req.SubmissionID, "actor_id": req.ActorID, "decision": string(req.Decision)}
	ctx, finish := s.instrument(ctx, "record_decision", fields)
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
		prior, err := st.decisions.ListBySubmission(ctx, sub.ID)
		if err != nil {
			return err
		}
		reviews, err := st.reviews.ListBySubmission(ctx, sub.ID)
		if err != nil {
			return err
		}

		round := req.Round
		if round == 0 {
			round = sub.CurrentRound
		}
		plan, err := s.machine.PlanDecision(workflow.DecisionInput{
			Submission: *sub,
			Round:      round,
			Decision:   req.Decision,
			Comments:   req.Comments,
			Actor:      actor,
			Prior:      prior,
			Reviews:    reviews,
			Now:        now,
		})
		if err != nil {
			return err
		}

		record := plan.Decision
		record.ID = uuid.New().String()
		if err := st.decisions.Create(ctx, &record); err != nil {
			return err
		}
		current := *sub
		if plan.Transition != nil {
			current = plan.Transition.Submission
			if err := st.submissions.Update(ctx, &current); err != nil {
				return err
			}
		}
		if err := st.execute(ctx, current, actor.ID, plan.Intents, now); err != nil {
			return err
		}

		resp = &contract.DecisionResponse{
			Decision:                   record,
			Status:                     current.Status,
			RequiresAdditionalApproval: plan.RequiresAdditionalApproval,
			MissingRoles:               plan.MissingRoles,
		}
		fields["round"] = round
		fields["status"] = string(current.Status)
		fields["quorum_pending"] = plan.RequiresAdditionalApproval
		return nil
	})
	if err != nil {
		s.auditDenied(ctx, req.ActorID, domain.SubmissionRef(req.SubmissionID), domain.ActionRecordDecision, err, now)
		return nil, err
	}
	return resp, nil
}
