package service

import (
	"context"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/alexanderramin/folio/internal/sla"
)

type trackerService struct {
	core
	table sla.Table
}

// NewTrackerService refreshes SLA state against table. A nil table falls back
// to sla.DefaultTable.
func NewTrackerService(conn db.DBTX, uow db.UnitOfWork, locker *db.KeyedLocker, table sla.Table, opts ...Option) TrackerService {
	if table == nil {
		table = sla.DefaultTable()
	}
	return &trackerService{core: newCore(conn, uow, locker, opts), table: table}
}

// Tick recomputes dwell time and overdue flags of every active submission and
// its deadlines. Each submission is refreshed in its own locked transaction;
// a failure is logged, collected and the tick moves on.
func (s *trackerService) Tick(ctx context.Context, req contract.TickRequest) (resp *contract.TickResponse, err error) {
	fields := map[string]any{}
	ctx, finish := s.instrument(ctx, "tick", fields)
	defer func() { finish(err) }()

	now := s.clock(req.Now)
	active, err := repository.NewSQLiteSubmissionRepo(s.conn).List(ctx, repository.SubmissionFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	resp = &contract.TickResponse{Now: now, Scanned: len(active)}
	for _, candidate := range active {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			updated      *domain.Submission
			newlyOverdue bool
			deadlines    []domain.Deadline
		)
		err := s.withSubmission(ctx, candidate.ID, now, func(ctx context.Context, st *txStore) error {
			updated, newlyOverdue, deadlines = nil, false, nil

			sub, err := st.submission(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if sub.Status.IsTerminal() {
				return nil
			}
			wasOverdue := sub.IsOverdue
			if s.table.Apply(sub, now) {
				if err := st.submissions.Update(ctx, sub); err != nil {
					return err
				}
				updated = sub
				newlyOverdue = sub.IsOverdue && !wasOverdue
			}

			all, err := st.deadlines.ListBySubmission(ctx, sub.ID)
			if err != nil {
				return err
			}
			for _, d := range all {
				changed, newly := sla.RefreshDeadline(d, now)
				if !changed {
					continue
				}
				if err := st.deadlines.Update(ctx, d); err != nil {
					return err
				}
				if newly {
					deadlines = append(deadlines, *d)
				}
			}
			return nil
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "sla_tick_failed", "submission_id", candidate.ID, "error", err.Error())
			resp.Failures = append(resp.Failures, contract.TickFailure{SubmissionID: candidate.ID, Err: err})
			continue
		}
		if updated != nil {
			resp.Updated = append(resp.Updated, *updated)
			if newlyOverdue {
				resp.NewlyOverdue = append(resp.NewlyOverdue, *updated)
			}
		}
		resp.NewlyOverdueDeadlines = append(resp.NewlyOverdueDeadlines, deadlines...)
	}

	fields["scanned"] = resp.Scanned
	fields["updated"] = len(resp.Updated)
	fields["newly_overdue"] = len(resp.NewlyOverdue)
	fields["newly_overdue_deadlines"] = len(resp.NewlyOverdueDeadlines)
	fields["failures"] = len(resp.Failures)
	return resp, nil
}

// OpenDeadlines lists open deadlines, optionally for a single assignee.
func (s *trackerService) OpenDeadlines(ctx context.Context, assignee string) ([]*domain.Deadline, error) {
	repo := repository.NewSQLiteDeadlineRepo(s.conn)
	if assignee != "" {
		return repo.ListOpenByAssignee(ctx, assignee)
	}
	return repo.ListOpen(ctx)
}

// OverdueDeadlines lists open deadlines whose cached flag is set.
func (s *trackerService) OverdueDeadlines(ctx context.Context) ([]*domain.Deadline, error) {
	open, err := repository.NewSQLiteDeadlineRepo(s.conn).ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	var overdue []*domain.Deadline
	for _, d := range open {
		if d.IsOverdue {
			overdue = append(overdue, d)
		}
	}
	return overdue, nil
}
