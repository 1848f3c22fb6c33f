package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/alexanderramin/folio/internal/workflow"
)

// core is the plumbing shared by the services that mutate submissions: a
// read connection, the unit of work and the per-submission lock.
type core struct {
	conn   db.DBTX
	uow    db.UnitOfWork
	locker *db.KeyedLocker
	options
}

func newCore(conn db.DBTX, uow db.UnitOfWork, locker *db.KeyedLocker, opts []Option) core {
	if locker == nil {
		locker = db.NewKeyedLocker()
	}
	return core{conn: conn, uow: uow, locker: locker, options: buildOptions(opts)}
}

// clock returns the request's time if given, else the service clock, in UTC
// and truncated to the second the store keeps.
func (c *core) clock(override *time.Time) time.Time {
	t := c.now()
	if override != nil {
		t = *override
	}
	return t.UTC().Truncate(time.Second)
}

// txStore groups the repositories and sinks bound to one transaction.
type txStore struct {
	users       repository.UserRepo
	submissions repository.SubmissionRepo
	sequences   repository.SequenceRepo
	reviews     repository.ReviewRepo
	decisions   repository.DecisionRepo
	deadlines   repository.DeadlineRepo
	sinks       Sinks
}

func (c *core) store(tx db.DBTX, now time.Time) *txStore {
	sinks := c.sinks(tx, now)
	if c.decorate != nil {
		sinks.Notifier = c.decorate(sinks.Notifier)
	}
	return &txStore{
		users:       repository.NewSQLiteUserRepo(tx),
		submissions: repository.NewSQLiteSubmissionRepo(tx),
		sequences:   repository.NewSQLiteSequenceRepo(tx),
		reviews:     repository.NewSQLiteReviewRepo(tx),
		decisions:   repository.NewSQLiteDecisionRepo(tx),
		deadlines:   repository.NewSQLiteDeadlineRepo(tx),
		sinks:       sinks,
	}
}

// withSubmission runs fn in one transaction while holding the submission's lock.
func (c *core) withSubmission(ctx context.Context, submissionID string, now time.Time, fn func(ctx context.Context, st *txStore) error) error {
	return db.WithinLockedTx(ctx, c.uow, c.locker, submissionID, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, c.store(tx, now))
	})
}

// auditDenied records an unauthorized attempt in its own transaction. A
// failure to record is logged and does not replace the original error.
func (c *core) auditDenied(ctx context.Context, actorID, objectRef string, action domain.Action, cause error, now time.Time) {
	if workflow.KindOf(cause) != workflow.KindUnauthorized {
		return
	}
	after := map[string]any{"action": string(action), "reason": cause.Error()}
	var werr *workflow.Error
	if errors.As(cause, &werr) {
		if role, ok := werr.Fields["role"]; ok {
			after["role"] = role
		}
	}
	err := c.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return c.sinks(tx, now).Audit.Record(ctx, actorID, domain.AuditActionSecurityDenied, objectRef, nil, after)
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "security_denied_audit_failed", "actor_id", actorID, "object_ref", objectRef, "error", err.Error())
	}
}

// actor resolves the acting user's role from the directory.
func (st *txStore) actor(ctx context.Context, id string) (domain.Actor, error) {
	if id == "" {
		return domain.Actor{}, workflow.Unauthorized("an acting user is required", nil)
	}
	u, err := st.users.GetByID(ctx, id)
	if err != nil {
		return domain.Actor{}, lookupErr("user", id, err)
	}
	return u.Actor(), nil
}

func (st *txStore) submission(ctx context.Context, id string) (*domain.Submission, error) {
	sub, err := st.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr("submission", id, err)
	}
	return sub, nil
}

// lookupErr turns a repository miss into a NotFound workflow error.
func lookupErr(what, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return workflow.NotFound(fmt.Sprintf("%s %s not found", what, id), err)
	}
	return err
}
