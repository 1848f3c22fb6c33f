package domain

import "time"

// AuditEntry is an immutable record of a workflow change or security denial.
type AuditEntry struct {
	ID        string
	ActorID   string
	Action    string
	ObjectRef string
	Before    map[string]any
	After     map[string]any
	CreatedAt time.Time
}

// Audit actions recorded outside the transition table.
const (
	// AuditActionSecurityDenied marks an attempted action rejected for lack of role.
	AuditActionSecurityDenied   = "security_denied"
	AuditActionCreateSubmission = "create_submission"
	AuditActionReviseSubmission = "revise_submission"
	AuditActionRespondInvite    = "respond_invitation"
	AuditActionSubmitReview     = "submit_review"
	AuditActionImportUser       = "import_user"
)

// Notification is an outbox row; delivery happens elsewhere.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	Link      string
	CreatedAt time.Time
}

// SubmissionRef is the audit object reference for a submission.
func SubmissionRef(id string) string {
	return "submission:" + id
}

// UserRef is the audit object reference for a user.
func UserRef(id string) string {
	return "user:" + id
}
