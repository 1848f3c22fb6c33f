package domain

import "time"

// EditorDecision is immutable once stored. EditorRole is captured at record
// time so quorum checks do not depend on later role changes.
type EditorDecision struct {
	ID           string
	SubmissionID string
	RoundNo      int
	EditorID     string
	EditorRole   Role
	Decision     Decision
	Comments     string
	CreatedAt    time.Time
}
