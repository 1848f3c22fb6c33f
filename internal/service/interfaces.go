package service

import (
	"context"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
)

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// ImportService loads a masthead file into the user directory.
type ImportService interface {
	ImportMasthead(ctx context.Context, req contract.ImportMastheadRequest) (*contract.ImportResult, error)
}

type SubmissionService interface {
	CreateSubmission(ctx context.Context, req contract.CreateSubmissionRequest) (*domain.Submission, error)
	Revise(ctx context.Context, req contract.ReviseSubmissionRequest) (*domain.Submission, error)
	// Resolve accepts either a submission ID or its code.
	Resolve(ctx context.Context, ref string) (*domain.Submission, error)
	View(ctx context.Context, id string) (*contract.SubmissionView, error)
	List(ctx context.Context, f repository.SubmissionFilter) ([]*domain.Submission, error)
	History(ctx context.Context, id string) ([]*domain.AuditEntry, error)
	Notifications(ctx context.Context, userID string) ([]*domain.Notification, error)
}

type WorkflowService interface {
	Transition(ctx context.Context, req contract.TransitionRequest) (*contract.TransitionResponse, error)
	AssignReviewers(ctx context.Context, req contract.AssignReviewersRequest) (*contract.AssignReviewersResponse, error)
	RespondToInvitation(ctx context.Context, req contract.RespondInvitationRequest) (*contract.ReviewResponse, error)
	SubmitReview(ctx context.Context, req contract.SubmitReviewRequest) (*contract.ReviewResponse, error)
	RecordDecision(ctx context.Context, req contract.RecordDecisionRequest) (*contract.DecisionResponse, error)
	CompleteDeadline(ctx context.Context, req contract.CompleteDeadlineRequest) (*domain.Deadline, error)
}

type TrackerService interface {
	Tick(ctx context.Context, req contract.TickRequest) (*contract.TickResponse, error)
	OpenDeadlines(ctx context.Context, assignee string) ([]*domain.Deadline, error)
	OverdueDeadlines(ctx context.Context) ([]*domain.Deadline, error)
}

// AuditSink receives one record per successful workflow change and per
// denied attempt.
type AuditSink interface {
	Record(ctx context.Context, actorID, action, objectRef string, before, after map[string]any) error
}

// Notifier queues a message for a single user. Delivery happens elsewhere.
type Notifier interface {
	Notify(ctx context.Context, userID string, typ domain.NotificationType, title, message, link string) error
}
