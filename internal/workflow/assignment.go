package workflow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/folio/internal/domain"
)

// MinReviewers is the smallest reviewer set that makes a valid round.
const MinReviewers = 2

// AssignmentPlan describes a reviewer (re)assignment. Transition is set when
// the assignment opened a new round.
type AssignmentPlan struct {
	Round      int
	Added      []string
	Removed    []domain.Review
	Transition *Outcome
	Intents    Intents
}

// Changed reports whether reviewer composition or status changes.
func (p AssignmentPlan) Changed() bool {
	return p.Transition != nil || len(p.Added) > 0 || len(p.Removed) > 0
}

// PlanAssignment diffs reviewerIDs against the current round's reviewers.
// From NEW or REVISION it performs send_to_review and every reviewer is added
// to the new round. reviews must hold every review of the submission, read
// under the submission lock.
func (m *Machine) PlanAssignment(sub domain.Submission, reviews []domain.Review, reviewerIDs []string, actor domain.Actor, now time.Time) (AssignmentPlan, error) {
	startsRound := sub.Status == domain.StatusNew || sub.Status == domain.StatusRevision
	if !startsRound && sub.Status != domain.StatusUnderReview {
		return AssignmentPlan{}, IllegalTransition(
			fmt.Sprintf("cannot assign reviewers to a submission in status %s", sub.Status),
			map[string]string{"action": string(domain.ActionAssignReviewers), "status": string(sub.Status)},
		)
	}
	if !m.can(actor.Role, domain.ActionAssignReviewers) {
		return AssignmentPlan{}, unauthorizedFor(actor, domain.ActionAssignReviewers)
	}

	wanted := uniqueIDs(reviewerIDs)
	if len(wanted) < MinReviewers {
		return AssignmentPlan{}, Validation(
			fmt.Sprintf("a review round needs at least %d distinct reviewers", MinReviewers),
			map[string]string{"given": strconv.Itoa(len(wanted))},
		)
	}
	for _, id := range wanted {
		if id == sub.AuthorID {
			return AssignmentPlan{}, Validation("the author cannot review their own submission",
				map[string]string{"reviewer": id})
		}
	}

	var plan AssignmentPlan
	maxRound := MaxRound(reviews)
	if startsRound {
		out, err := m.ApplyTransition(sub, domain.ActionSendToReview, actor, Payload{Now: now, MaxRound: maxRound})
		if err != nil {
			return AssignmentPlan{}, err
		}
		plan.Transition = &out
		plan.Round = out.Submission.CurrentRound
		plan.Added = wanted
	} else {
		plan.Round = sub.CurrentRound
		current := ReviewsInRound(reviews, plan.Round)
		wantedSet := make(map[string]bool, len(wanted))
		for _, id := range wanted {
			wantedSet[id] = true
		}
		existing := make(map[string]bool, len(current))
		for _, r := range current {
			existing[r.ReviewerID] = true
			if wantedSet[r.ReviewerID] {
				continue
			}
			if r.IsSubmitted() {
				return AssignmentPlan{}, Validation("a submitted review cannot be removed",
					map[string]string{"reviewer": r.ReviewerID, "round": strconv.Itoa(plan.Round)})
			}
			plan.Removed = append(plan.Removed, r)
		}
		for _, id := range wanted {
			if !existing[id] {
				plan.Added = append(plan.Added, id)
			}
		}
	}

	deadlineType := domain.DeadlineInitialReview
	if plan.Round > 1 {
		deadlineType = domain.DeadlineReReview
	}
	for _, id := range plan.Added {
		plan.Intents.CreateDeadlines = append(plan.Intents.CreateDeadlines, DeadlineIntent{
			Type:       deadlineType,
			RoundNo:    plan.Round,
			AssignedTo: id,
			DueDate:    m.settings.DueDate(deadlineType, now),
		})
		plan.Intents.Notifications = append(plan.Intents.Notifications, NotificationIntent{
			UserID:  id,
			Type:    domain.NotifyReviewAssigned,
			Title:   fmt.Sprintf("Review invitation for %s", sub.Code),
			Message: fmt.Sprintf("You have been invited to review %q (round %d).", sub.Title, plan.Round),
			Link:    submissionLink(sub),
		})
	}
	for _, r := range plan.Removed {
		plan.Intents.SupersedeDeadlines = append(plan.Intents.SupersedeDeadlines, DeadlineFilter{
			Types:      []domain.DeadlineType{domain.DeadlineInitialReview, domain.DeadlineReReview},
			AssignedTo: r.ReviewerID,
			RoundNo:    plan.Round,
		})
	}

	if plan.Changed() {
		removed := make([]string, 0, len(plan.Removed))
		for _, r := range plan.Removed {
			removed = append(removed, r.ReviewerID)
		}
		plan.Intents.Audit = append(plan.Intents.Audit, AuditIntent{
			ActorID:   actor.ID,
			Action:    string(domain.ActionAssignReviewers),
			ObjectRef: domain.SubmissionRef(sub.ID),
			After: map[string]any{
				"round":   plan.Round,
				"added":   strings.Join(plan.Added, ","),
				"removed": strings.Join(removed, ","),
			},
		})
	}
	return plan, nil
}

// MaxRound returns the highest round number among reviews, or 0.
func MaxRound(reviews []domain.Review) int {
	highest := 0
	for _, r := range reviews {
		highest = max(highest, r.RoundNo)
	}
	return highest
}

// ReviewsInRound filters reviews to a single round.
func ReviewsInRound(reviews []domain.Review, round int) []domain.Review {
	var out []domain.Review
	for _, r := range reviews {
		if r.RoundNo == round {
			out = append(out, r)
		}
	}
	return out
}

// RoundReadyForDecision reports whether every non-declined review of a round
// is submitted and at least one was.
func RoundReadyForDecision(roundReviews []domain.Review) bool {
	submitted := 0
	for _, r := range roundReviews {
		if r.IsDeclined() {
			continue
		}
		if !r.IsSubmitted() {
			return false
		}
		submitted++
	}
	return submitted > 0
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
