package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/google/uuid"
)

// execute applies a step's intents in their fixed order: complete,
// supersede, create, notify, audit. It runs inside the caller's transaction;
// the first failure aborts and the transaction rolls everything back.
func (st *txStore) execute(ctx context.Context, sub domain.Submission, actorID string, in workflow.Intents, now time.Time) error {
	if len(in.CompleteDeadlines) > 0 || len(in.SupersedeDeadlines) > 0 {
		open, err := st.deadlines.ListBySubmission(ctx, sub.ID)
		if err != nil {
			return err
		}
		for _, f := range in.CompleteDeadlines {
			for _, d := range open {
				if !f.Matches(d) {
					continue
				}
				if err := d.Complete(actorID, now); err != nil {
					return err
				}
				if err := st.deadlines.Update(ctx, d); err != nil {
					return err
				}
			}
		}
		for _, f := range in.SupersedeDeadlines {
			for _, d := range open {
				if !f.Matches(d) || !d.Supersede(now) {
					continue
				}
				if err := st.deadlines.Update(ctx, d); err != nil {
					return err
				}
			}
		}
	}

	for _, di := range in.CreateDeadlines {
		d := &domain.Deadline{
			ID:           uuid.New().String(),
			SubmissionID: sub.ID,
			RoundNo:      di.RoundNo,
			Type:         di.Type,
			AssignedTo:   di.AssignedTo,
			DueDate:      di.DueDate,
			CreatedAt:    now,
		}
		if err := st.deadlines.Create(ctx, d); err != nil {
			return err
		}
	}

	for _, n := range in.Notifications {
		recipients, err := st.recipients(ctx, n)
		if err != nil {
			return err
		}
		for _, userID := range recipients {
			if err := st.sinks.Notifier.Notify(ctx, userID, n.Type, n.Title, n.Message, n.Link); err != nil {
				return fmt.Errorf("notifying %s: %w", userID, err)
			}
		}
	}

	for _, a := range in.Audit {
		if err := st.sinks.Audit.Record(ctx, a.ActorID, a.Action, a.ObjectRef, a.Before, a.After); err != nil {
			return fmt.Errorf("recording audit %s: %w", a.Action, err)
		}
	}
	return nil
}

// recipients resolves a notification to user IDs. A role target reaches the
// whole role group: every user at or above an editorial role, or every
// holder of a role outside the ladder.
func (st *txStore) recipients(ctx context.Context, n workflow.NotificationIntent) ([]string, error) {
	if n.UserID != "" {
		return []string{n.UserID}, nil
	}
	if n.Role == "" {
		return nil, nil
	}
	users, err := st.users.ListByRoles(ctx, roleGroup(n.Role)...)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

var editorialLadder = []domain.Role{
	domain.RoleEditor, domain.RoleManagingEditor, domain.RoleEditorInChief, domain.RoleAdmin,
}

func roleGroup(role domain.Role) []domain.Role {
	var group []domain.Role
	for _, r := range editorialLadder {
		if r.AtLeast(role) {
			group = append(group, r)
		}
	}
	if len(group) == 0 {
		return []domain.Role{role}
	}
	return group
}
