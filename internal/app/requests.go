package app

import (
	"time"

	"github.com/alexanderramin/folio/internal/domain"
)

// Every request carries the acting user's ID; the role is looked up in the
// user directory. Now overrides the service clock when set.

type CreateSubmissionRequest struct {
	ActorID       string
	Title         string
	Abstract      string
	Keywords      []string
	SecurityLevel domain.SecurityLevel
	Now           *time.Time
}

type ReviseSubmissionRequest struct {
	ActorID      string
	SubmissionID string
	Title        *string
	Abstract     *string
	Keywords     []string
	Note         string
	Now          *time.Time
}

type TransitionRequest struct {
	ActorID      string
	SubmissionID string
	Action       domain.Action
	Reason       string
	// ReviewerIDs is required for send_to_review, which always opens a round.
	ReviewerIDs []string
	Now         *time.Time
}

type TransitionResponse struct {
	Submission domain.Submission
	From       domain.SubmissionStatus
	To         domain.SubmissionStatus
}

type AssignReviewersRequest struct {
	ActorID      string
	SubmissionID string
	ReviewerIDs  []string
	Now          *time.Time
}

type AssignReviewersResponse struct {
	Submission domain.Submission
	From       domain.SubmissionStatus
	Round      int
	Added      []string
	Removed    []string
	// Transitioned is true when the assignment opened a new round.
	Transitioned bool
}

type RespondInvitationRequest struct {
	ActorID      string
	SubmissionID string
	Accept       bool
	Now          *time.Time
}

type SubmitReviewRequest struct {
	ActorID        string
	SubmissionID   string
	Recommendation domain.Recommendation
	Comments       string
	Now            *time.Time
}

type ReviewResponse struct {
	Review domain.Review
	// RoundComplete is set once every non-declined review of the round is in.
	RoundComplete bool
}

type RecordDecisionRequest struct {
	ActorID      string
	SubmissionID string
	// Round defaults to the submission's current round when zero.
	Round    int
	Decision domain.Decision
	Comments string
	Now      *time.Time
}

type DecisionResponse struct {
	Decision                   domain.EditorDecision
	Status                     domain.SubmissionStatus
	RequiresAdditionalApproval bool
	MissingRoles               []domain.Role
}

type CompleteDeadlineRequest struct {
	ActorID    string
	DeadlineID string
	Now        *time.Time
}

type TickRequest struct {
	Now *time.Time
}

// TickFailure records one submission the tracker could not refresh.
type TickFailure struct {
	SubmissionID string
	Err          error
}

type TickResponse struct {
	Now                   time.Time
	Scanned               int
	Updated               []domain.Submission
	NewlyOverdue          []domain.Submission
	NewlyOverdueDeadlines []domain.Deadline
	Failures              []TickFailure
}

// ImportMastheadRequest loads users from Path. ActorID may be empty only
// while the directory is still empty.
type ImportMastheadRequest struct {
	ActorID string
	Path    string
	Now     *time.Time
}

type ImportResult struct {
	Users []*domain.User
}

// SubmissionView is a submission with everything recorded against it.
type SubmissionView struct {
	Submission domain.Submission
	Reviews    []domain.Review
	Decisions  []domain.EditorDecision
	Deadlines  []domain.Deadline
}
