package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/db"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/alexanderramin/folio/internal/sla"
	"github.com/alexanderramin/folio/internal/testutil"
	"github.com/alexanderramin/folio/internal/workflow"
	"github.com/stretchr/testify/require"
)

// journal wires every service over one database with a controllable clock
// and a seeded masthead.
type journal struct {
	db      *sql.DB
	now     time.Time
	users   UserService
	subs    SubmissionService
	wf      WorkflowService
	tracker TrackerService

	author, author2                *domain.User
	editor, managing, chief, admin *domain.User
	auditor                        *domain.User
	rev1, rev2, rev3               *domain.User
}

func newJournal(t *testing.T, database *sql.DB, uow db.UnitOfWork, opts ...Option) *journal {
	t.Helper()
	j := &journal{db: database, now: testutil.FixedNow}
	locker := db.NewKeyedLocker()
	opts = append([]Option{WithClock(func() time.Time { return j.now })}, opts...)

	j.users = NewUserService(repository.NewSQLiteUserRepo(database))
	j.subs = NewSubmissionService(database, uow, locker, opts...)
	j.wf = NewWorkflowService(database, uow, locker, workflow.NewMachine(nil, workflow.DefaultSettings()), opts...)
	j.tracker = NewTrackerService(database, uow, locker, sla.DefaultTable(), opts...)

	seed := func(name string, role domain.Role) *domain.User {
		u := testutil.NewTestUser(name, role, testutil.WithUserID(name))
		require.NoError(t, j.users.Create(context.Background(), u))
		return u
	}
	j.author = seed("ada", domain.RoleAuthor)
	j.author2 = seed("alan", domain.RoleAuthor)
	j.editor = seed("ed", domain.RoleEditor)
	j.managing = seed("meg", domain.RoleManagingEditor)
	j.chief = seed("chief", domain.RoleEditorInChief)
	j.admin = seed("root", domain.RoleAdmin)
	j.auditor = seed("sam", domain.RoleSecurityAuditor)
	j.rev1 = seed("rev-1", domain.RoleReviewer)
	j.rev2 = seed("rev-2", domain.RoleReviewer)
	j.rev3 = seed("rev-3", domain.RoleReviewer)
	return j
}

func newMemoryJournal(t *testing.T, opts ...Option) *journal {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newJournal(t, database, testutil.NewTestUoW(database), opts...)
}

// newFileJournal uses a file-backed database so the connection pool can
// really run transactions in parallel.
func newFileJournal(t *testing.T) *journal {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "folio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return newJournal(t, database, testutil.NewTestUoW(database))
}

func (j *journal) advance(d time.Duration) { j.now = j.now.Add(d) }

func (j *journal) submit(t *testing.T, level domain.SecurityLevel) *domain.Submission {
	t.Helper()
	sub, err := j.subs.CreateSubmission(context.Background(), contract.CreateSubmissionRequest{
		ActorID:       j.author.ID,
		Title:         "Sparse attention at scale",
		Abstract:      "We study sparse attention.",
		Keywords:      []string{"Attention", "sparsity"},
		SecurityLevel: level,
	})
	require.NoError(t, err)
	return sub
}

func (j *journal) sendToReview(t *testing.T, subID string, reviewers ...*domain.User) *contract.TransitionResponse {
	t.Helper()
	ids := make([]string, 0, len(reviewers))
	for _, r := range reviewers {
		ids = append(ids, r.ID)
	}
	resp, err := j.wf.Transition(context.Background(), contract.TransitionRequest{
		ActorID: j.editor.ID, SubmissionID: subID, Action: domain.ActionSendToReview, ReviewerIDs: ids,
	})
	require.NoError(t, err)
	return resp
}

func (j *journal) review(t *testing.T, subID string, reviewer *domain.User, rec domain.Recommendation) *contract.ReviewResponse {
	t.Helper()
	resp, err := j.wf.SubmitReview(context.Background(), contract.SubmitReviewRequest{
		ActorID: reviewer.ID, SubmissionID: subID, Recommendation: rec, Comments: "report",
	})
	require.NoError(t, err)
	return resp
}

func (j *journal) decide(subID string, editor *domain.User, d domain.Decision) (*contract.DecisionResponse, error) {
	return j.wf.RecordDecision(context.Background(), contract.RecordDecisionRequest{
		ActorID: editor.ID, SubmissionID: subID, Decision: d,
	})
}

func (j *journal) view(t *testing.T, subID string) *contract.SubmissionView {
	t.Helper()
	v, err := j.subs.View(context.Background(), subID)
	require.NoError(t, err)
	return v
}

func openDeadlines(v *contract.SubmissionView, typ domain.DeadlineType) []domain.Deadline {
	var out []domain.Deadline
	for _, d := range v.Deadlines {
		if d.Type == typ && d.IsOpen() {
			out = append(out, d)
		}
	}
	return out
}

func auditActions(entries []*domain.AuditEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}

func notificationTypes(t *testing.T, j *journal, userID string) []domain.NotificationType {
	t.Helper()
	ns, err := j.subs.Notifications(context.Background(), userID)
	require.NoError(t, err)
	out := make([]domain.NotificationType, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Type)
	}
	return out
}

const hour = time.Hour

var listOverdue = repository.SubmissionFilter{OverdueOnly: true}

func listStatus(s domain.SubmissionStatus) repository.SubmissionFilter {
	return repository.SubmissionFilter{Status: s}
}
