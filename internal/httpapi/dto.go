package httpapi

import (
	"time"

	"github.com/alexanderramin/folio/internal/app"
	"github.com/alexanderramin/folio/internal/domain"
)

type submissionJSON struct {
	ID                  string    `json:"id"`
	Code                string    `json:"code"`
	Title               string    `json:"title"`
	Abstract            string    `json:"abstract"`
	Keywords            []string  `json:"keywords"`
	AuthorID            string    `json:"author_id"`
	HandlingEditorID    string    `json:"handling_editor_id,omitempty"`
	Status              string    `json:"status"`
	SecurityLevel       string    `json:"security_level"`
	CurrentRound        int       `json:"current_round"`
	RevisionNote        string    `json:"revision_note,omitempty"`
	LastStatusChangeAt  time.Time `json:"last_status_change_at"`
	DaysInCurrentStatus int       `json:"days_in_current_status"`
	IsOverdue           bool      `json:"is_overdue"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toSubmissionJSON(s domain.Submission) submissionJSON {
	keywords := s.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return submissionJSON{
		ID:                  s.ID,
		Code:                s.Code,
		Title:               s.Title,
		Abstract:            s.Abstract,
		Keywords:            keywords,
		AuthorID:            s.AuthorID,
		HandlingEditorID:    s.HandlingEditorID,
		Status:              string(s.Status),
		SecurityLevel:       string(s.SecurityLevel),
		CurrentRound:        s.CurrentRound,
		RevisionNote:        s.RevisionNote,
		LastStatusChangeAt:  s.LastStatusChangeAt,
		DaysInCurrentStatus: s.DaysInCurrentStatus,
		IsOverdue:           s.IsOverdue,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

type reviewJSON struct {
	ID             string     `json:"id"`
	ReviewerID     string     `json:"reviewer_id"`
	Round          int        `json:"round"`
	InvitedAt      time.Time  `json:"invited_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	DeclinedAt     *time.Time `json:"declined_at,omitempty"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	Recommendation string     `json:"recommendation,omitempty"`
	Comments       string     `json:"comments,omitempty"`
}

func toReviewJSON(r domain.Review) reviewJSON {
	return reviewJSON{
		ID:             r.ID,
		ReviewerID:     r.ReviewerID,
		Round:          r.RoundNo,
		InvitedAt:      r.InvitedAt,
		AcceptedAt:     r.AcceptedAt,
		DeclinedAt:     r.DeclinedAt,
		SubmittedAt:    r.SubmittedAt,
		Recommendation: string(r.Recommendation),
		Comments:       r.Comments,
	}
}

type decisionJSON struct {
	ID         string    `json:"id"`
	Round      int       `json:"round"`
	EditorID   string    `json:"editor_id"`
	EditorRole string    `json:"editor_role"`
	Decision   string    `json:"decision"`
	Comments   string    `json:"comments,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toDecisionJSON(d domain.EditorDecision) decisionJSON {
	return decisionJSON{
		ID:         d.ID,
		Round:      d.RoundNo,
		EditorID:   d.EditorID,
		EditorRole: string(d.EditorRole),
		Decision:   string(d.Decision),
		Comments:   d.Comments,
		CreatedAt:  d.CreatedAt,
	}
}

type deadlineJSON struct {
	ID           string     `json:"id"`
	SubmissionID string     `json:"submission_id"`
	Round        int        `json:"round"`
	Type         string     `json:"type"`
	AssignedTo   string     `json:"assigned_to"`
	DueDate      time.Time  `json:"due_date"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CompletedBy  string     `json:"completed_by,omitempty"`
	SupersededAt *time.Time `json:"superseded_at,omitempty"`
	IsOverdue    bool       `json:"is_overdue"`
}

func toDeadlineJSON(d domain.Deadline) deadlineJSON {
	return deadlineJSON{
		ID:           d.ID,
		SubmissionID: d.SubmissionID,
		Round:        d.RoundNo,
		Type:         string(d.Type),
		AssignedTo:   d.AssignedTo,
		DueDate:      d.DueDate,
		CompletedAt:  d.CompletedAt,
		CompletedBy:  d.CompletedBy,
		SupersededAt: d.SupersededAt,
		IsOverdue:    d.IsOverdue,
	}
}

type viewJSON struct {
	Submission submissionJSON `json:"submission"`
	Reviews    []reviewJSON   `json:"reviews"`
	Decisions  []decisionJSON `json:"decisions"`
	Deadlines  []deadlineJSON `json:"deadlines"`
}

func toViewJSON(v *app.SubmissionView) viewJSON {
	out := viewJSON{
		Submission: toSubmissionJSON(v.Submission),
		Reviews:    make([]reviewJSON, 0, len(v.Reviews)),
		Decisions:  make([]decisionJSON, 0, len(v.Decisions)),
		Deadlines:  make([]deadlineJSON, 0, len(v.Deadlines)),
	}
	for _, r := range v.Reviews {
		out.Reviews = append(out.Reviews, toReviewJSON(r))
	}
	for _, d := range v.Decisions {
		out.Decisions = append(out.Decisions, toDecisionJSON(d))
	}
	for _, d := range v.Deadlines {
		out.Deadlines = append(out.Deadlines, toDeadlineJSON(d))
	}
	return out
}

type auditJSON struct {
	ActorID   string         `json:"actor_id"`
	Action    string         `json:"action"`
	Before    map[string]any `json:"before,omitempty"`
	After     map[string]any `json:"after,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type notificationJSON struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}
