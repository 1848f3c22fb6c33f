package domain

import (
	"fmt"
	"time"
)

type Review struct {
	ID             string
	SubmissionID   string
	ReviewerID     string
	RoundNo        int
	InvitedAt      time.Time
	AcceptedAt     *time.Time
	DeclinedAt     *time.Time
	SubmittedAt    *time.Time
	Recommendation Recommendation
	Comments       string
}

func (r *Review) IsSubmitted() bool { return r.SubmittedAt != nil }

func (r *Review) IsDeclined() bool { return r.DeclinedAt != nil }

// IsPending reports whether the review may still be withdrawn by re-assignment.
func (r *Review) IsPending() bool { return r.SubmittedAt == nil }

// Accept records the reviewer agreeing to review.
func (r *Review) Accept(now time.Time) error {
	if r.DeclinedAt != nil {
		return fmt.Errorf("review invitation already declined")
	}
	if r.AcceptedAt != nil {
		return nil
	}
	r.AcceptedAt = &now
	return nil
}

// Decline records the reviewer refusing the invitation.
func (r *Review) Decline(now time.Time) error {
	if r.AcceptedAt != nil {
		return fmt.Errorf("review invitation already accepted")
	}
	if r.DeclinedAt != nil {
		return nil
	}
	r.DeclinedAt = &now
	return nil
}

// Submit stores the recommendation. A still-open invitation is accepted implicitly.
func (r *Review) Submit(rec Recommendation, comments string, now time.Time) error {
	if !rec.Valid() {
		return fmt.Errorf("unknown recommendation %q", rec)
	}
	if r.SubmittedAt != nil {
		return fmt.Errorf("review already submitted")
	}
	if r.DeclinedAt != nil {
		return fmt.Errorf("review invitation was declined")
	}
	if r.AcceptedAt == nil {
		r.AcceptedAt = &now
	}
	r.SubmittedAt = &now
	r.Recommendation = rec
	r.Comments = comments
	return nil
}
