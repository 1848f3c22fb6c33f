package service

import (
	"context"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/alexanderramin/folio/internal/workflow"
)

// CompleteDeadline closes a standalone deadline. The assignee may always
// complete it; anyone else needs the complete_deadline capability.
func (s *workflowService) CompleteDeadline(ctx context.Context, req contract.CompleteDeadlineRequest) (out *domain.Deadline, err error) {
	fields := map[string]any{"deadline_id": req.DeadlineID, "actor_id": req.ActorID}
	ctx, finish := s.instrument(ctx, "complete_deadline", fields)
	defer func() { finish(err) }()

	now := s.clock(req.Now)
	// The lock key is the owning submission, so the deadline is read once
	// outside the transaction and again under the lock.
	peek, err := repository.NewSQLiteDeadlineRepo(s.conn).GetByID(ctx, req.DeadlineID)
	if err != nil {
		return nil, lookupErr("deadline", req.DeadlineID, err)
	}
	objectRef := domain.SubmissionRef(peek.SubmissionID)

	err = s.withSubmission(ctx, peek.SubmissionID, now, func(ctx context.Context, st *txStore) error {
		actor, err := st.actor(ctx, req.ActorID)
		if err != nil {
			return err
		}
		d, err := st.deadlines.GetByID(ctx, req.DeadlineID)
		if err != nil {
			return lookupErr("deadline", req.DeadlineID, err)
		}
		if d.AssignedTo != actor.ID && !s.machine.Can(actor.Role, domain.ActionCompleteDeadline) {
			return workflow.Unauthorized("only the assignee or a managing editor may complete this deadline",
				map[string]string{"role": string(actor.Role), "deadline": d.ID})
		}
		if err := d.Complete(actor.ID, now); err != nil {
			return workflow.Validation(err.Error(), map[string]string{"deadline": d.ID})
		}
		if err := st.deadlines.Update(ctx, d); err != nil {
			return err
		}
		if err := st.sinks.Audit.Record(ctx, actor.ID, string(domain.ActionCompleteDeadline), objectRef, nil, map[string]any{
			"deadline": d.ID,
			"type":     string(d.Type),
			"round":    d.RoundNo,
		}); err != nil {
			return err
		}
		out = d
		fields["type"] = string(d.Type)
		return nil
	})
	if err != nil {
		s.auditDenied(ctx, req.ActorID, objectRef, domain.ActionCompleteDeadline, err, now)
		return nil, err
	}
	return out, nil
}
