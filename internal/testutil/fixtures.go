package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/google/uuid"
)

var testCodeCounter atomic.Int64

// FixedNow is a second-aligned instant fixtures default to, so values
// survive the RFC3339 round trip through SQLite unchanged.
var FixedNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// User options
type UserOption func(*domain.User)

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func WithUserID(id string) UserOption {
	return func(u *domain.User) {
		u.ID = id
	}
}

func NewTestUser(name string, role domain.Role, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Role:      role,
		CreatedAt: FixedNow,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Submission options
type SubmissionOption func(*domain.Submission)

func WithStatus(s domain.SubmissionStatus) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.Status = s
	}
}

func WithSecurityLevel(l domain.SecurityLevel) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.SecurityLevel = l
	}
}

func WithRound(n int) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.CurrentRound = n
	}
}

func WithHandlingEditor(id string) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.HandlingEditorID = id
	}
}

func WithStatusChangedAt(t time.Time) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.LastStatusChangeAt = t
	}
}

func WithKeywords(k ...string) SubmissionOption {
	return func(sub *domain.Submission) {
		sub.Keywords = domain.NormalizeKeywords(k)
	}
}

func NewTestSubmission(authorID, title string, opts ...SubmissionOption) *domain.Submission {
	seq := int(testCodeCounter.Add(1))
	s := &domain.Submission{
		ID:                 uuid.New().String(),
		Code:               domain.SubmissionCode(2099, seq),
		Title:              title,
		Abstract:           fmt.Sprintf("Abstract of %s", title),
		AuthorID:           authorID,
		Status:             domain.StatusNew,
		SecurityLevel:      domain.SecurityOpen,
		LastStatusChangeAt: FixedNow,
		CreatedAt:          FixedNow,
		UpdatedAt:          FixedNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Review options
type ReviewOption func(*domain.Review)

func WithRecommendation(rec domain.Recommendation) ReviewOption {
	return func(r *domain.Review) {
		at := r.InvitedAt.Add(time.Hour)
		r.AcceptedAt = &at
		r.SubmittedAt = &at
		r.Recommendation = rec
	}
}

func WithDeclined() ReviewOption {
	return func(r *domain.Review) {
		at := r.InvitedAt.Add(time.Hour)
		r.DeclinedAt = &at
	}
}

func NewTestReview(submissionID, reviewerID string, round int, opts ...ReviewOption) *domain.Review {
	r := &domain.Review{
		ID:           uuid.New().String(),
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		RoundNo:      round,
		InvitedAt:    FixedNow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func NewTestDeadline(submissionID string, typ domain.DeadlineType, assignedTo string, due time.Time) *domain.Deadline {
	return &domain.Deadline{
		ID:           uuid.New().String(),
		SubmissionID: submissionID,
		RoundNo:      1,
		Type:         typ,
		AssignedTo:   assignedTo,
		DueDate:      due,
		CreatedAt:    FixedNow,
	}
}
