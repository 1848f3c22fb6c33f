package workflow

import (
	"testing"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var editor = domain.Actor{ID: "ed-1", Role: domain.RoleEditor}

func review(reviewer string, round int, submitted bool) domain.Review {
	r := domain.Review{ID: reviewer + "-review", SubmissionID: "sub-1", ReviewerID: reviewer, RoundNo: round, InvitedAt: testNow}
	if submitted {
		at := testNow
		r.AcceptedAt = &at
		r.SubmittedAt = &at
		r.Recommendation = domain.RecommendMajor
	}
	return r
}

func TestPlanAssignment_FirstAssignmentStartsRoundOne(t *testing.T) {
	m := NewMachine(nil, DefaultSettings())
	sub := newSubmission(domain.StatusNew, domain.SecurityOpen)

	plan, err := m.PlanAssignment(sub, nil, []string{"R1", "R2"}, editor, testNow)
	require.NoError(t, err)
	require.NotNil(t, plan.Transition)
	assert.Equal(t, domain.StatusUnderReview, plan.Transition.To)
	assert.Equal(t, 1, plan.Round)
	assert.Equal(t, []string{"R1", "R2"}, plan.Added)
	assert.Empty(t, plan.Removed)

	require.Len(t, plan.Intents.CreateDeadlines, 2)
	for _, d := range plan.Intents.CreateDeadlines {
		assert.Equal(t, domain.DeadlineInitialReview, d.Type)
		assert.Equal(t, 1, d.RoundNo)
		assert.Equal(t, testNow.AddDate(0, 0, 21), d.DueDate)
	}
	require.Len(t, plan.Intents.Notifications, 2)
	assert.Equal(t, domain.NotifyReviewAssigned, plan.Intents.Notifications[0].Type)
	require.Len(t, plan.Intents.Audit, 1)
	assert.Equal(t, "assign_reviewers", plan.Intents.Audit[0].Action)
}

func TestPlanAssignment_RequiresTwoDistinctReviewers(t *testing.T) {
	m := NewMachine(nil, DefaultSettings())
	sub := newSubmission(domain.StatusNew, domain.SecurityOpen)

	for _, ids := range [][]string{nil, {"R1"}, {"R1", "R1"}, {"R1", " "}} {
		_, err := m.PlanAssignment(sub, nil, ids, editor, testNow)
		require.Error(t, err, "ids=%v", ids)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestPlanAssignment_RejectsAuthorAsReviewer(t *testing.T) {
	m := NewMachine(nil, DefaultSettings())
	sub := newSubmission(domain.StatusNew, domain.SecurityOpen)

	_, err := m.PlanAssignment(sub, nil, []string{"R1", sub.AuthorID}, editor, testNow)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPlanAssignment_DiffWithinCurrentRound(t *testing.T) {
	m := NewMachine(nil, DefaultSettings())
	sub := newSubmission(domain.StatusUnderReview, domain.SecurityOpen)
	sub.CurrentRound = 1
	existing := []domain.Review{review("R1", 1, false), review("R2", 1, false)}

	plan, err := m.PlanAssignment(sub, existing, []string{"R1", "R3"}, editor, testNow)
	require.NoError(t, err)
	assert.Nil(t, plan.Transition)
	assert.Equal(t, 1, plan.Round)
	assert.Equal(t, []string{"R3"}, plan.Added)
	require.Len(t, plan.Removed, 1)
	assert.Equal(t, "R2", plan.Removed[0].ReviewerID)

	require.Len(t, plan.Intents.SupersedeDeadlines, 1)
	assert.Equal(t, "R2", plan.Intents.SupersedeDeadlines[0].AssignedTo)
	assert.Equal(t, 1, plan.Intents.SupersedeDeadlines[0].RoundNo)
}

func TestPlanAssignment_SubmittedReviewCannotBeRemoved(t *testing.T) {
	m := NewMachine(nil, DefaultSettings())
	sub := newSubmission(domain.StatusUnderReview, domain.SecurityOpen)
	sub.CurrentRound = 1
	existing := []domain.Review{review("R1", 1, true), review("R2", 1, false)}

	_, err := m.PlanAssignment(sub, existing, []string{"R2", "R3"}, editor, testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "submitted review")
}

func TestPlanAssignment_UnchangedCompositionHasNoAudit(t *testing.T) {
	m := NewMachine(nil, DefaultSettings())
	sub := newSubmission(domain.StatusUnderReview, domain.SecurityOpen)
	sub.CurrentRound = 1
	existing := []domain.Review{review("R1", 1, true), review("R2", 1, false)}

	plan, err := m.PlanAssignment(sub, existing, []string{"R2", "R1"}, editor, testNow)
	require.NoError(t, err)
	assert.False(t, plan.Changed())
	assert.True(t, plan.Intents.Empty())
}

func TestPlanAssignment_AfterRevisionStartsNewRound(t *testing.T) {
	m := NewMachine(nil, DefaultSettings())
	sub := newSubmission(domain.StatusRevision, domain.SecurityOpen)
	sub.CurrentRound = 1
	existing := []domain.Review{review("R1", 1, true), review("R2", 1, true)}

	plan, err := m.PlanAssignment(sub, existing, []string{"R1", "R2"}, editor, testNow)
	require.NoError(t, err)
	require.NotNil(t, plan.Transition)
	assert.Equal(t, 2, plan.Round)
	assert.Equal(t, []string{"R1", "R2"}, plan.Added, "a new round starts empty")
	assert.Empty(t, plan.Removed)
	for _, d := range plan.Intents.CreateDeadlines {
		assert.Equal(t, domain.DeadlineReReview, d.Type)
	}
}

func TestPlanAssignment_IllegalFromTerminalAndUnauthorizedRoles(t *testing.T) {
	m := NewMachine(nil, DefaultSettings())

	_, err := m.PlanAssignment(newSubmission(domain.StatusPublished, domain.SecurityOpen), nil, []string{"R1", "R2"}, editor, testNow)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = m.PlanAssignment(newSubmission(domain.StatusNew, domain.SecurityOpen), nil, []string{"R1", "R2"},
		domain.Actor{ID: "rev", Role: domain.RoleReviewer}, testNow)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRoundHelpers(t *testing.T) {
	reviews := []domain.Review{review("R1", 1, true), review("R2", 1, true), review("R1", 2, false)}
	assert.Equal(t, 2, MaxRound(reviews))
	assert.Equal(t, 0, MaxRound(nil))
	assert.Equal(t, 5, MaxRound([]domain.Review{review("a", 5, true), review("b", 1, false)}), "order does not matter")
	assert.Len(t, ReviewsInRound(reviews, 1), 2)

	assert.True(t, RoundReadyForDecision(ReviewsInRound(reviews, 1)))
	assert.False(t, RoundReadyForDecision(ReviewsInRound(reviews, 2)))

	declined := review("R3", 2, false)
	require.NoError(t, declined.Decline(testNow))
	assert.False(t, RoundReadyForDecision([]domain.Review{declined}), "declined-only round has nothing to decide on")
}
