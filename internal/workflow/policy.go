// Package workflow holds the pure submission workflow: legal transitions,
// the authorization table, reviewer assignment diffs and decision
// aggregation. Nothing here performs I/O; every operation returns the
// intents a caller must execute.
package workflow

import "github.com/alexanderramin/folio/internal/domain"

// Capability reports whether a role may invoke an action. It is supplied by
// the caller; DefaultCapability implements the journal's standard table.
type Capability func(role domain.Role, action domain.Action) bool

// minimumRole is the policy table: the lowest editorial role allowed per action.
var minimumRole = map[domain.Action]domain.Role{
	domain.ActionSendToReview:     domain.RoleEditor,
	domain.ActionDeskReject:       domain.RoleEditor,
	domain.ActionRequestRevision:  domain.RoleEditor,
	domain.ActionAccept:           domain.RoleManagingEditor,
	domain.ActionReject:           domain.RoleEditor,
	domain.ActionStartProduction:  domain.RoleManagingEditor,
	domain.ActionPublish:          domain.RoleEditorInChief,
	domain.ActionAssignReviewers:  domain.RoleEditor,
	domain.ActionRecordDecision:   domain.RoleEditor,
	domain.ActionCompleteDeadline: domain.RoleManagingEditor,
}

// DefaultCapability grants an action to every role at or above the action's
// minimum editorial role. Security auditors may only record decisions.
func DefaultCapability(role domain.Role, action domain.Action) bool {
	if role == domain.RoleSecurityAuditor {
		return action == domain.ActionRecordDecision
	}
	minRole, ok := minimumRole[action]
	if !ok {
		return false
	}
	return role.AtLeast(minRole)
}

// MinimumRole exposes the policy table for display.
func MinimumRole(action domain.Action) (domain.Role, bool) {
	r, ok := minimumRole[action]
	return r, ok
}

// transitionRule is one row of the legal transition table.
type transitionRule struct {
	from []domain.SubmissionStatus
	to   domain.SubmissionStatus
}

var transitions = map[domain.Action]transitionRule{
	domain.ActionSendToReview:    {from: []domain.SubmissionStatus{domain.StatusNew, domain.StatusRevision}, to: domain.StatusUnderReview},
	domain.ActionDeskReject:      {from: []domain.SubmissionStatus{domain.StatusNew}, to: domain.StatusDeskReject},
	domain.ActionRequestRevision: {from: []domain.SubmissionStatus{domain.StatusUnderReview}, to: domain.StatusRevision},
	domain.ActionAccept:          {from: []domain.SubmissionStatus{domain.StatusUnderReview}, to: domain.StatusInProduction},
	domain.ActionReject:          {from: []domain.SubmissionStatus{domain.StatusUnderReview, domain.StatusRevision}, to: domain.StatusRejected},
	domain.ActionStartProduction: {from: []domain.SubmissionStatus{domain.StatusAccepted}, to: domain.StatusInProduction},
	domain.ActionPublish:         {from: []domain.SubmissionStatus{domain.StatusInProduction}, to: domain.StatusPublished},
}

// IsLegal reports whether action may be applied from status, ignoring roles.
func IsLegal(status domain.SubmissionStatus, action domain.Action) bool {
	rule, ok := transitions[action]
	if !ok {
		return false
	}
	for _, from := range rule.from {
		if from == status {
			return true
		}
	}
	return false
}

// LegalActions lists the transition actions available from status.
func LegalActions(status domain.SubmissionStatus) []domain.Action {
	var out []domain.Action
	for _, a := range domain.TransitionActions {
		if IsLegal(status, a) {
			out = append(out, a)
		}
	}
	return out
}
