package workflow

import (
	"fmt"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
)

// Settings is the injected policy the machine reads deadline offsets and the
// accept target from.
type Settings struct {
	// AcceptTarget is IN_PRODUCTION (straight to production) or ACCEPTED.
	AcceptTarget domain.SubmissionStatus
	// DeadlineOffsets maps a deadline type to days after creation.
	DeadlineOffsets map[domain.DeadlineType]int
}

// DefaultDeadlineOffsets returns the standard offsets in days.
func DefaultDeadlineOffsets() map[domain.DeadlineType]int {
	return map[domain.DeadlineType]int{
		domain.DeadlineInitialReview:  21,
		domain.DeadlineReReview:       14,
		domain.DeadlineRevisionSubmit: 14,
		domain.DeadlineEditorDecision: 7,
		domain.DeadlineProduction:     14,
		domain.DeadlinePublication:    30,
	}
}

func DefaultSettings() Settings {
	return Settings{
		AcceptTarget:    domain.StatusInProduction,
		DeadlineOffsets: DefaultDeadlineOffsets(),
	}
}

// DueDate returns now plus the configured offset for t.
func (s Settings) DueDate(t domain.DeadlineType, now time.Time) time.Time {
	days, ok := s.DeadlineOffsets[t]
	if !ok {
		days = DefaultDeadlineOffsets()[t]
	}
	return now.AddDate(0, 0, days)
}

// Machine evaluates workflow steps against a capability table and settings.
type Machine struct {
	can      Capability
	settings Settings
}

func NewMachine(can Capability, settings Settings) *Machine {
	if can == nil {
		can = DefaultCapability
	}
	if settings.AcceptTarget == "" {
		settings.AcceptTarget = domain.StatusInProduction
	}
	if settings.DeadlineOffsets == nil {
		settings.DeadlineOffsets = DefaultDeadlineOffsets()
	}
	return &Machine{can: can, settings: settings}
}

func (m *Machine) Settings() Settings { return m.settings }

// Can exposes the capability table the machine was built with.
func (m *Machine) Can(role domain.Role, action domain.Action) bool {
	return m.can(role, action)
}

// Payload carries the inputs a transition needs beyond the submission itself.
type Payload struct {
	Now time.Time
	// MaxRound is the highest round number used so far on the submission.
	MaxRound int
	Reason   string
}

// Outcome is the result of a legal, authorized transition. Submission is an
// updated copy; the input is never modified.
type Outcome struct {
	Action     domain.Action
	From       domain.SubmissionStatus
	To         domain.SubmissionStatus
	Submission domain.Submission
	Intents    Intents
}

// ApplyTransition validates and evaluates a status transition. Legality is
// checked before authorization, so an action outside the table fails with
// IllegalTransition whatever the actor's role.
func (m *Machine) ApplyTransition(sub domain.Submission, action domain.Action, actor domain.Actor, p Payload) (Outcome, error) {
	if !IsLegal(sub.Status, action) {
		return Outcome{}, IllegalTransition(
			fmt.Sprintf("cannot %s a submission in status %s", action, sub.Status),
			map[string]string{"action": string(action), "status": string(sub.Status)},
		)
	}
	if !m.can(actor.Role, action) {
		return Outcome{}, unauthorizedFor(actor, action)
	}
	if action == domain.ActionAccept && sub.SecurityLevel.IsClassified() {
		return Outcome{}, Unauthorized(
			"classified submissions are accepted only through a two-person decision quorum",
			map[string]string{"security_level": string(sub.SecurityLevel)},
		)
	}
	return m.transition(sub, action, actor, p), nil
}

func unauthorizedFor(actor domain.Actor, action domain.Action) *Error {
	return Unauthorized(
		fmt.Sprintf("role %s may not %s", actor.Role, action),
		map[string]string{"action": string(action), "role": string(actor.Role)},
	)
}

// transition builds the outcome of an already-validated action.
func (m *Machine) transition(sub domain.Submission, action domain.Action, actor domain.Actor, p Payload) Outcome {
	now := p.Now
	before := sub.Snapshot()
	next := sub
	next.Keywords = append([]string(nil), sub.Keywords...)

	to := transitions[action].to
	if action == domain.ActionAccept {
		to = m.settings.AcceptTarget
	}

	var in Intents
	round := sub.CurrentRound
	editor := sub.HandlingEditorID
	if editor == "" {
		editor = actor.ID
	}
	reviewTypes := []domain.DeadlineType{domain.DeadlineInitialReview, domain.DeadlineReReview}

	switch action {
	case domain.ActionSendToReview:
		next.CurrentRound = p.MaxRound + 1
		if next.CurrentRound <= sub.CurrentRound {
			next.CurrentRound = sub.CurrentRound + 1
		}
		next.HandlingEditorID = editor
		in.SupersedeDeadlines = append(in.SupersedeDeadlines, DeadlineFilter{
			Types: []domain.DeadlineType{domain.DeadlineRevisionSubmit},
		})

	case domain.ActionRequestRevision:
		in.CompleteDeadlines = append(in.CompleteDeadlines, DeadlineFilter{
			Types: []domain.DeadlineType{domain.DeadlineEditorDecision}, RoundNo: round,
		})
		in.SupersedeDeadlines = append(in.SupersedeDeadlines, DeadlineFilter{Types: reviewTypes, RoundNo: round})
		in.CreateDeadlines = append(in.CreateDeadlines, DeadlineIntent{
			Type:       domain.DeadlineRevisionSubmit,
			RoundNo:    round,
			AssignedTo: sub.AuthorID,
			DueDate:    m.settings.DueDate(domain.DeadlineRevisionSubmit, now),
		})
		in.Notifications = append(in.Notifications, NotificationIntent{
			UserID:  sub.AuthorID,
			Type:    domain.NotifyRevisionRequested,
			Title:   fmt.Sprintf("Revision requested for %s", sub.Code),
			Message: revisionMessage(sub, p.Reason),
			Link:    submissionLink(sub),
		})

	case domain.ActionAccept:
		in.CompleteDeadlines = append(in.CompleteDeadlines, DeadlineFilter{
			Types: []domain.DeadlineType{domain.DeadlineEditorDecision}, RoundNo: round,
		})
		in.SupersedeDeadlines = append(in.SupersedeDeadlines, DeadlineFilter{Types: reviewTypes, RoundNo: round})
		stage := domain.DeadlineProduction
		if to == domain.StatusAccepted {
			stage = domain.DeadlinePublication
		}
		in.CreateDeadlines = append(in.CreateDeadlines, DeadlineIntent{
			Type: stage, RoundNo: round, AssignedTo: editor, DueDate: m.settings.DueDate(stage, now),
		})

	case domain.ActionStartProduction:
		in.CompleteDeadlines = append(in.CompleteDeadlines, DeadlineFilter{
			Types: []domain.DeadlineType{domain.DeadlinePublication},
		})
		in.CreateDeadlines = append(in.CreateDeadlines, DeadlineIntent{
			Type: domain.DeadlineProduction, RoundNo: round, AssignedTo: editor,
			DueDate: m.settings.DueDate(domain.DeadlineProduction, now),
		})

	case domain.ActionPublish:
		in.CompleteDeadlines = append(in.CompleteDeadlines, DeadlineFilter{
			Types: []domain.DeadlineType{domain.DeadlineProduction},
		})
		in.SupersedeDeadlines = append(in.SupersedeDeadlines, DeadlineFilter{})

	case domain.ActionReject:
		in.CompleteDeadlines = append(in.CompleteDeadlines, DeadlineFilter{
			Types: []domain.DeadlineType{domain.DeadlineEditorDecision},
		})
		in.SupersedeDeadlines = append(in.SupersedeDeadlines, DeadlineFilter{})

	case domain.ActionDeskReject:
		in.SupersedeDeadlines = append(in.SupersedeDeadlines, DeadlineFilter{})
	}

	next.ChangeStatus(to, now)

	after := next.Snapshot()
	if p.Reason != "" {
		after["reason"] = p.Reason
	}
	in.Audit = append(in.Audit, AuditIntent{
		ActorID:   actor.ID,
		Action:    string(action),
		ObjectRef: domain.SubmissionRef(sub.ID),
		Before:    before,
		After:     after,
	})

	return Outcome{Action: action, From: sub.Status, To: to, Submission: next, Intents: in}
}

func submissionLink(sub domain.Submission) string {
	return "/submissions/" + sub.ID
}

func revisionMessage(sub domain.Submission, reason string) string {
	msg := fmt.Sprintf("The editors have requested a revision of %q.", sub.Title)
	if reason != "" {
		msg += " " + reason
	}
	return msg
}
