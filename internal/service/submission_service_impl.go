package service

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/google/uuid"
)

type submissionService struct {
	core
}

func NewSubmissionService(conn db.DBTX, uow db.UnitOfWork, locker *db.KeyedLocker, opts ...Option) SubmissionService {
	return &submissionService{core: newCore(conn, uow, locker, opts)}
}

func (s *submissionService) CreateSubmission(ctx context.Context, req contract.CreateSubmissionRequest) (out *domain.Submission, err error) {
	fields := map[string]any{"actor_id": req.ActorID, "security_level": string(req.SecurityLevel)}
	ctx, finish := s.instrument(ctx, "create_submission", fields)
	defer func() { finish(err) }()

	now := s.clock(req.Now)
	level := req.SecurityLevel
	if level == "" {
		level = domain.SecurityOpen
	}
	sub := &domain.Submission{
		ID:                 uuid.New().String(),
		Title:              strings.TrimSpace(req.Title),
		Abstract:           strings.TrimSpace(req.Abstract),
		Keywords:           domain.NormalizeKeywords(req.Keywords),
		AuthorID:           req.ActorID,
		Status:             domain.StatusNew,
		SecurityLevel:      level,
		LastStatusChangeAt: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := sub.Validate(); err != nil {
		return nil, workflow.Validation(err.Error(), nil)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st := s.store(tx, now)
		if _, err := st.actor(ctx, req.ActorID); err != nil {
			return err
		}
		seq, err := st.sequences.NextSubmissionSeq(ctx, now.Year())
		if err != nil {
			return err
		}
		sub.Code = domain.SubmissionCode(now.Year(), seq)
		if err := st.submissions.Create(ctx, sub); err != nil {
			return err
		}
		return st.sinks.Audit.Record(ctx, req.ActorID, domain.AuditActionCreateSubmission,
			domain.SubmissionRef(sub.ID), nil, sub.Snapshot())
	})
	if err != nil {
		return nil, err
	}
	fields["code"] = sub.Code
	return sub, nil
}

// Revise edits the manuscript metadata. Only the author may revise, and only
// while the submission is NEW or in REVISION.
func (s *submissionService) Revise(ctx context.Context, req contract.ReviseSubmissionRequest) (out *domain.Submission, err error) {
	fields := map[string]any{"submission_id": req.SubmissionID, "actor_id": req.ActorID}
	ctx, finish := s.instrument(ctx, "revise_submission", fields)
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
		if actor.ID != sub.AuthorID {
			return workflow.Unauthorized("only the author may revise a submission",
				map[string]string{"role": string(actor.Role)})
		}
		if !sub.CanAuthorEdit(actor.ID) {
			return workflow.IllegalTransition("a submission can only be revised while NEW or in REVISION",
				map[string]string{"status": string(sub.Status)})
		}

		before := map[string]any{"title": sub.Title, "keywords": strings.Join(sub.Keywords, ",")}
		if req.Title != nil {
			sub.Title = strings.TrimSpace(*req.Title)
		}
		if req.Abstract != nil {
			sub.Abstract = strings.TrimSpace(*req.Abstract)
		}
		if req.Keywords != nil {
			sub.Keywords = domain.NormalizeKeywords(req.Keywords)
		}
		sub.RevisionNote = strings.TrimSpace(req.Note)
		if err := sub.Validate(); err != nil {
			return workflow.Validation(err.Error(), nil)
		}
		sub.UpdatedAt = now
		if err := st.submissions.Update(ctx, sub); err != nil {
			return err
		}

		in := workflow.Intents{
			Audit: []workflow.AuditIntent{{
				ActorID:   actor.ID,
				Action:    domain.AuditActionReviseSubmission,
				ObjectRef: domain.SubmissionRef(sub.ID),
				Before:    before,
				After: map[string]any{
					"title":    sub.Title,
					"keywords": strings.Join(sub.Keywords, ","),
					"note":     sub.RevisionNote,
				},
			}},
		}
		if sub.Status == domain.StatusRevision {
			in.CompleteDeadlines = append(in.CompleteDeadlines, workflow.DeadlineFilter{
				Types: []domain.DeadlineType{domain.DeadlineRevisionSubmit},
			})
		}
		if err := st.execute(ctx, *sub, actor.ID, in, now); err != nil {
			return err
		}
		out = sub
		return nil
	})
	if err != nil {
		s.auditDenied(ctx, req.ActorID, domain.SubmissionRef(req.SubmissionID), domain.Action(domain.AuditActionReviseSubmission), err, now)
		return nil, err
	}
	return out, nil
}

func (s *submissionService) Resolve(ctx context.Context, ref string) (*domain.Submission, error) {
	repo := repository.NewSQLiteSubmissionRepo(s.conn)
	sub, err := repo.GetByID(ctx, ref)
	if errors.Is(err, repository.ErrNotFound) {
		sub, err = repo.GetByCode(ctx, ref)
	}
	if err != nil {
		return nil, lookupErr("submission", ref, err)
	}
	return sub, nil
}

func (s *submissionService) View(ctx context.Context, id string) (*contract.SubmissionView, error) {
	sub, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := repository.NewSQLiteReviewRepo(s.conn).ListBySubmission(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	decisions, err := repository.NewSQLiteDecisionRepo(s.conn).ListBySubmission(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	deadlines, err := repository.NewSQLiteDeadlineRepo(s.conn).ListBySubmission(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	view := &contract.SubmissionView{Submission: *sub, Reviews: reviews, Decisions: decisions}
	for _, d := range deadlines {
		view.Deadlines = append(view.Deadlines, *d)
	}
	return view, nil
}

func (s *submissionService) List(ctx context.Context, f repository.SubmissionFilter) ([]*domain.Submission, error) {
	return repository.NewSQLiteSubmissionRepo(s.conn).List(ctx, f)
}

// History returns the submission's audit trail, oldest first.
func (s *submissionService) History(ctx context.Context, id string) ([]*domain.AuditEntry, error) {
	return repository.NewSQLiteAuditRepo(s.conn).ListByObject(ctx, domain.SubmissionRef(id))
}

func (s *submissionService) Notifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return repository.NewSQLiteNotificationRepo(s.conn).ListByUser(ctx, userID)
}
