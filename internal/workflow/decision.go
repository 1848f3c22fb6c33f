package workflow

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
)

// DecisionPlan is the result of evaluating an editor decision. Transition is
// nil while a classified acceptance still waits for its second signature.
type DecisionPlan struct {
	Decision                   domain.EditorDecision
	Transition                 *Outcome
	RequiresAdditionalApproval bool
	MissingRoles               []domain.Role
	Intents                    Intents
}

// Status is the submission status after the plan is applied.
func (p DecisionPlan) Status(current domain.SubmissionStatus) domain.SubmissionStatus {
	if p.Transition != nil {
		return p.Transition.To
	}
	return current
}

// DecisionInput gathers what the aggregator reads. Prior and Reviews must be
// read under the submission lock.
type DecisionInput struct {
	Submission domain.Submission
	Round      int
	Decision   domain.Decision
	Comments   string
	Actor      domain.Actor
	Prior      []domain.EditorDecision
	Reviews    []domain.Review
	Now        time.Time
}

var decisionActions = map[domain.Decision]domain.Action{
	domain.DecisionAccept: domain.ActionAccept,
	domain.DecisionMinor:  domain.ActionRequestRevision,
	domain.DecisionMajor:  domain.ActionRequestRevision,
	domain.DecisionReject: domain.ActionReject,
}

// PlanDecision records an editor decision for a round and resolves the next
// status. Decisions are taken while UNDER_REVIEW; a REJECT may also close a
// submission waiting in REVISION. Classified acceptances need an EDITOR_IN_CHIEF (or higher) ACCEPT
// and a SECURITY_AUDITOR ACCEPT in the same round; a REJECT from either side
// takes effect immediately.
func (m *Machine) PlanDecision(in DecisionInput) (DecisionPlan, error) {
	sub := in.Submission
	if !in.Decision.Valid() {
		return DecisionPlan{}, Validation(fmt.Sprintf("unknown decision %q", in.Decision), nil)
	}
	rejectDuringRevision := sub.Status == domain.StatusRevision && in.Decision == domain.DecisionReject
	if sub.Status != domain.StatusUnderReview && !rejectDuringRevision {
		return DecisionPlan{}, IllegalTransition(
			fmt.Sprintf("cannot record a decision on a submission in status %s", sub.Status),
			map[string]string{"action": string(domain.ActionRecordDecision), "status": string(sub.Status)},
		)
	}
	if in.Round < 1 || in.Round != sub.CurrentRound {
		return DecisionPlan{}, Validation("decision must reference the current review round",
			map[string]string{"round": strconv.Itoa(in.Round), "current_round": strconv.Itoa(sub.CurrentRound)})
	}
	if err := m.authorizeDecision(sub, in.Decision, in.Actor); err != nil {
		return DecisionPlan{}, err
	}
	for _, d := range in.Prior {
		if d.RoundNo == in.Round && d.EditorID == in.Actor.ID {
			return DecisionPlan{}, Validation("editor already recorded a decision for this round",
				map[string]string{"editor": in.Actor.ID, "round": strconv.Itoa(in.Round)})
		}
	}

	record := domain.EditorDecision{
		SubmissionID: sub.ID,
		RoundNo:      in.Round,
		EditorID:     in.Actor.ID,
		EditorRole:   in.Actor.Role,
		Decision:     in.Decision,
		Comments:     in.Comments,
		CreatedAt:    in.Now,
	}
	plan := DecisionPlan{Decision: record}

	if sub.SecurityLevel.IsClassified() && in.Decision == domain.DecisionAccept {
		round := decisionsInRound(in.Prior, in.Round)
		round = append(round, record)
		plan.MissingRoles = missingApprovers(round)
		plan.RequiresAdditionalApproval = len(plan.MissingRoles) > 0
	}

	if plan.RequiresAdditionalApproval {
		for _, role := range plan.MissingRoles {
			plan.Intents.Notifications = append(plan.Intents.Notifications, NotificationIntent{
				Role:    role,
				Type:    domain.NotifyApprovalRequired,
				Title:   fmt.Sprintf("Second approval required for %s", sub.Code),
				Message: fmt.Sprintf("%q (%s) has one ACCEPT in round %d and needs a %s signature.", sub.Title, sub.SecurityLevel, in.Round, role),
				Link:    submissionLink(sub),
			})
		}
	} else {
		out := m.transition(sub, decisionActions[in.Decision], in.Actor, Payload{Now: in.Now, Reason: in.Comments})
		plan.Transition = &out
	}

	plan.Intents.Audit = append(plan.Intents.Audit, AuditIntent{
		ActorID:   in.Actor.ID,
		Action:    string(domain.ActionRecordDecision),
		ObjectRef: domain.SubmissionRef(sub.ID),
		After: map[string]any{
			"round":                        in.Round,
			"decision":                     string(in.Decision),
			"editor_role":                  string(in.Actor.Role),
			"requires_additional_approval": plan.RequiresAdditionalApproval,
			"reviews":                      SummarizeRecommendations(ReviewsInRound(in.Reviews, in.Round)),
		},
	})
	if plan.Transition != nil {
		plan.Intents.Merge(plan.Transition.Intents)
	}
	return plan, nil
}

func (m *Machine) authorizeDecision(sub domain.Submission, decision domain.Decision, actor domain.Actor) error {
	if !m.can(actor.Role, domain.ActionRecordDecision) {
		return unauthorizedFor(actor, domain.ActionRecordDecision)
	}
	classified := sub.SecurityLevel.IsClassified()
	if actor.Role == domain.RoleSecurityAuditor {
		if !classified || (decision != domain.DecisionAccept && decision != domain.DecisionReject) {
			return Unauthorized("security auditors may only accept or reject classified submissions",
				map[string]string{"role": string(actor.Role), "decision": string(decision), "security_level": string(sub.SecurityLevel)})
		}
		return nil
	}
	if classified && decision == domain.DecisionAccept {
		if !isChiefApprover(actor.Role) {
			return Unauthorized("only an editor-in-chief or security auditor may sign a classified acceptance",
				map[string]string{"role": string(actor.Role), "security_level": string(sub.SecurityLevel)})
		}
		return nil
	}
	action := decisionActions[decision]
	if !m.can(actor.Role, action) {
		return unauthorizedFor(actor, action)
	}
	return nil
}

func isChiefApprover(role domain.Role) bool {
	return role.AtLeast(domain.RoleEditorInChief)
}

// missingApprovers returns the roles whose ACCEPT is still absent from a round.
func missingApprovers(round []domain.EditorDecision) []domain.Role {
	chief, auditor := "", ""
	for _, d := range round {
		if d.Decision != domain.DecisionAccept {
			continue
		}
		switch {
		case d.EditorRole == domain.RoleSecurityAuditor && auditor == "":
			auditor = d.EditorID
		case isChiefApprover(d.EditorRole) && chief == "":
			chief = d.EditorID
		}
	}
	var missing []domain.Role
	if chief == "" || chief == auditor {
		missing = append(missing, domain.RoleEditorInChief)
	}
	if auditor == "" {
		missing = append(missing, domain.RoleSecurityAuditor)
	}
	return missing
}

func decisionsInRound(decisions []domain.EditorDecision, round int) []domain.EditorDecision {
	var out []domain.EditorDecision
	for _, d := range decisions {
		if d.RoundNo == round {
			out = append(out, d)
		}
	}
	return out
}

// SummarizeRecommendations counts submitted recommendations, e.g. "MAJOR=2".
func SummarizeRecommendations(reviews []domain.Review) map[string]int {
	out := make(map[string]int)
	for _, r := range reviews {
		if r.IsSubmitted() {
			out[string(r.Recommendation)]++
		}
	}
	return out
}
