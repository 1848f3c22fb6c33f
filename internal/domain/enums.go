package domain

type SubmissionStatus string

const (
	StatusNew          SubmissionStatus = "NEW"
	StatusUnderReview  SubmissionStatus = "UNDER_REVIEW"
	StatusRevision     SubmissionStatus = "REVISION"
	StatusAccepted     SubmissionStatus = "ACCEPTED"
	StatusInProduction SubmissionStatus = "IN_PRODUCTION"
	StatusPublished    SubmissionStatus = "PUBLISHED"
	StatusRejected     SubmissionStatus = "REJECTED"
	StatusDeskReject   SubmissionStatus = "DESK_REJECT"
)

// AllStatuses lists every submission status in pipeline order.
var AllStatuses = []SubmissionStatus{
	StatusNew, StatusUnderReview, StatusRevision, StatusAccepted,
	StatusInProduction, StatusPublished, StatusRejected, StatusDeskReject,
}

// IsTerminal reports whether no further transition can leave the status.
func (s SubmissionStatus) IsTerminal() bool {
	switch s {
	case StatusPublished, StatusRejected, StatusDeskReject:
		return true
	default:
		return false
	}
}

// Valid reports whether s is a known status.
func (s SubmissionStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type SecurityLevel string

const (
	SecurityOpen      SecurityLevel = "OPEN"
	SecuritySecret    SecurityLevel = "SECRET"
	SecurityTopSecret SecurityLevel = "TOP_SECRET"
)

// SecurityLevels lists the levels from least to most restricted.
var SecurityLevels = []SecurityLevel{SecurityOpen, SecuritySecret, SecurityTopSecret}

// IsClassified reports whether decisions at this level need the two-person rule.
func (l SecurityLevel) IsClassified() bool {
	return l == SecuritySecret || l == SecurityTopSecret
}

func (l SecurityLevel) Valid() bool {
	return l == SecurityOpen || l == SecuritySecret || l == SecurityTopSecret
}

type Recommendation string

const (
	RecommendAccept Recommendation = "ACCEPT"
	RecommendMinor  Recommendation = "MINOR"
	RecommendMajor  Recommendation = "MAJOR"
	RecommendReject Recommendation = "REJECT"
)

func (r Recommendation) Valid() bool {
	switch r {
	case RecommendAccept, RecommendMinor, RecommendMajor, RecommendReject:
		return true
	default:
		return false
	}
}

// Decision shares its vocabulary with reviewer recommendations.
type Decision = Recommendation

const (
	DecisionAccept = RecommendAccept
	DecisionMinor  = RecommendMinor
	DecisionMajor  = RecommendMajor
	DecisionReject = RecommendReject
)

type DeadlineType string

const (
	DeadlineInitialReview  DeadlineType = "INITIAL_REVIEW"
	DeadlineRevisionSubmit DeadlineType = "REVISION_SUBMIT"
	DeadlineReReview       DeadlineType = "RE_REVIEW"
	DeadlineEditorDecision DeadlineType = "EDITOR_DECISION"
	DeadlineProduction     DeadlineType = "PRODUCTION"
	DeadlinePublication    DeadlineType = "PUBLICATION"
)

// AllDeadlineTypes is the canonical set of deadline types.
var AllDeadlineTypes = []DeadlineType{
	DeadlineInitialReview, DeadlineRevisionSubmit, DeadlineReReview,
	DeadlineEditorDecision, DeadlineProduction, DeadlinePublication,
}

func (t DeadlineType) Valid() bool {
	for _, known := range AllDeadlineTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsReview reports whether the deadline tracks a reviewer's report.
func (t DeadlineType) IsReview() bool {
	return t == DeadlineInitialReview || t == DeadlineReReview
}

type Action string

const (
	ActionSendToReview     Action = "send_to_review"
	ActionDeskReject       Action = "desk_reject"
	ActionRequestRevision  Action = "request_revision"
	ActionAccept           Action = "accept"
	ActionReject           Action = "reject"
	ActionStartProduction  Action = "start_production"
	ActionPublish          Action = "publish"
	ActionAssignReviewers  Action = "assign_reviewers"
	ActionRecordDecision   Action = "record_decision"
	ActionCompleteDeadline Action = "complete_deadline"
)

// TransitionActions are the actions that move a submission between statuses.
var TransitionActions = []Action{
	ActionSendToReview, ActionDeskReject, ActionRequestRevision, ActionAccept,
	ActionReject, ActionStartProduction, ActionPublish,
}

type NotificationType string

const (
	NotifyRevisionRequested NotificationType = "revision_requested"
	NotifyReviewAssigned    NotificationType = "review_assigned"
	NotifyApprovalRequired  NotificationType = "approval_required"
)
