package repository

import (
	"context"

	"github.com/alexanderramin/folio/internal/domain"
)

// SubmissionFilter narrows submission listings. Zero values match everything.
type SubmissionFilter struct {
	Status        domain.SubmissionStatus
	AuthorID      string
	ActiveOnly    bool
	OverdueOnly   bool
	SecurityLevel domain.SecurityLevel
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListByRoles(ctx context.Context, roles ...domain.Role) ([]*domain.User, error)
}

type SubmissionRepo interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id string) (*domain.Submission, error)
	GetByCode(ctx context.Context, code string) (*domain.Submission, error)
	List(ctx context.Context, f SubmissionFilter) ([]*domain.Submission, error)
	Update(ctx context.Context, s *domain.Submission) error
}

type SequenceRepo interface {
	NextSubmissionSeq(ctx context.Context, year int) (int, error)
}

type ReviewRepo interface {
	Create(ctx context.Context, r *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]domain.Review, error)
	ListByReviewer(ctx context.Context, reviewerID string) ([]domain.Review, error)
	Update(ctx context.Context, r *domain.Review) error
	Delete(ctx context.Context, id string) error
}

type DecisionRepo interface {
	Create(ctx context.Context, d *domain.EditorDecision) error
	ListBySubmission(ctx context.Context, submissionID string) ([]domain.EditorDecision, error)
}

type DeadlineRepo interface {
	Create(ctx context.Context, d *domain.Deadline) error
	GetByID(ctx context.Context, id string) (*domain.Deadline, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]*domain.Deadline, error)
	ListOpen(ctx context.Context) ([]*domain.Deadline, error)
	ListOpenByAssignee(ctx context.Context, userID string) ([]*domain.Deadline, error)
	Update(ctx context.Context, d *domain.Deadline) error
}

type AuditRepo interface {
	Append(ctx context.Context, e *domain.AuditEntry) error
	ListByObject(ctx context.Context, objectRef string) ([]*domain.AuditEntry, error)
	ListByAction(ctx context.Context, action string) ([]*domain.AuditEntry, error)
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
}
