package formatter

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/folio/internal/app"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func init() {
	DisableColor()
}

func TestRenderTable_EmptyRowsShowsPlaceholder(t *testing.T) {
	assert.Equal(t, "(none)\n", RenderTable([]string{"A"}, nil))
	assert.Equal(t, "", RenderTable(nil, nil))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"ID", "NAME"}, [][]string{{"1", "ada"}, {"22", "alan"}})
	assert.Contains(t, out, "ID  NAME\n")
	assert.Contains(t, out, "1   ada\n")
	assert.Contains(t, out, "22  alan\n")
}

func TestTable_MarksLateRows(t *testing.T) {
	out := NewTable("CODE", "DAYS").
		Row("JRN-2026-0001", "3").
		Late(true, "JRN-2026-0002", "30").
		String()
	assert.Contains(t, out, "   CODE           DAYS\n")
	assert.Contains(t, out, "   JRN-2026-0001  3\n")
	assert.Contains(t, out, "!  JRN-2026-0002  30\n")
	assert.Contains(t, out, "1 overdue\n")
}

func TestTable_NoGutterWhenNothingIsLate(t *testing.T) {
	out := NewTable("CODE").Late(false, "JRN-2026-0001").String()
	assert.Contains(t, out, "\nJRN-2026-0001\n")
	assert.NotContains(t, out, "overdue")
}

func TestTable_ClipsColumn(t *testing.T) {
	out := NewTable("TITLE", "X").Clip(0, 5).Row("Sparse attention", "y").String()
	assert.Contains(t, out, "Spars  y\n")
	assert.NotContains(t, out, "Sparse")
}

func TestFormatDeadlines_FlagsOverdue(t *testing.T) {
	out := FormatDeadlines([]*domain.Deadline{
		{ID: "late-deadline-id", Type: domain.DeadlineRevisionSubmit, AssignedTo: "ada", DueDate: now.AddDate(0, 0, -2), IsOverdue: true},
		{ID: "fresh-deadline-id", Type: domain.DeadlineInitialReview, AssignedTo: "rev-1", DueDate: now.AddDate(0, 0, 5)},
	}, now)
	assert.Contains(t, out, "REVISION_SUBMIT")
	assert.Contains(t, out, "1 overdue")
}

func TestRelativeDateFrom(t *testing.T) {
	assert.Equal(t, "Today", RelativeDateFrom(now, now))
	assert.Equal(t, "Tomorrow", RelativeDateFrom(now.AddDate(0, 0, 1), now))
	assert.Equal(t, "In 3w", RelativeDateFrom(now.AddDate(0, 0, 21), now))
	assert.Equal(t, "5d ago", RelativeDateFrom(now.AddDate(0, 0, -5), now))
}

func TestFormatSubmissionList(t *testing.T) {
	out := FormatSubmissionList([]*domain.Submission{{
		Code: "JRN-2026-0001", Title: "Sparse attention", Status: domain.StatusUnderReview,
		SecurityLevel: domain.SecurityTopSecret, CurrentRound: 1, DaysInCurrentStatus: 22, IsOverdue: true,
	}})
	assert.Contains(t, out, "JRN-2026-0001")
	assert.Contains(t, out, "UNDER REVIEW")
	assert.Contains(t, out, "TOP SECRET")
	assert.Contains(t, out, "!  JRN-2026-0001")
	assert.Contains(t, out, "1 overdue")
}

func TestFormatSubmissionView_OnlyOpenDeadlines(t *testing.T) {
	done := now.Add(-time.Hour)
	v := &app.SubmissionView{
		Submission: domain.Submission{Code: "JRN-2026-0001", Title: "T", AuthorID: "ada", Status: domain.StatusRevision, SecurityLevel: domain.SecurityOpen, CurrentRound: 1},
		Reviews: []domain.Review{
			{RoundNo: 1, ReviewerID: "rev-1", SubmittedAt: &done, AcceptedAt: &done, Recommendation: domain.RecommendMajor},
			{RoundNo: 1, ReviewerID: "rev-2", DeclinedAt: &done},
		},
		Deadlines: []domain.Deadline{
			{ID: "open-deadline", Type: domain.DeadlineRevisionSubmit, AssignedTo: "ada", DueDate: now.AddDate(0, 0, 30)},
			{ID: "closed-deadline", Type: domain.DeadlineInitialReview, AssignedTo: "rev-1", DueDate: now, CompletedAt: &done},
		},
	}
	out := FormatSubmissionView(v, now)
	assert.Contains(t, out, "submitted")
	assert.Contains(t, out, "declined")
	assert.Contains(t, out, "REVISION_SUBMIT")
	assert.NotContains(t, out, "INITIAL_REVIEW")
}

func TestFormatDecision_PendingQuorum(t *testing.T) {
	out := FormatDecision(&app.DecisionResponse{
		Decision:                   domain.EditorDecision{RoundNo: 1, Decision: domain.DecisionAccept},
		Status:                     domain.StatusUnderReview,
		RequiresAdditionalApproval: true,
		MissingRoles:               []domain.Role{domain.RoleEditorInChief, domain.RoleAdmin},
	})
	assert.Contains(t, out, "Awaiting second signature from: EDITOR_IN_CHIEF or ADMIN")
}

func TestFormatTick(t *testing.T) {
	out := FormatTick(&app.TickResponse{
		Now:          now,
		Scanned:      3,
		NewlyOverdue: []domain.Submission{{Code: "JRN-2026-0002", Status: domain.StatusNew, DaysInCurrentStatus: 8}},
		Failures:     []app.TickFailure{{SubmissionID: "s-1", Err: errors.New("database is locked")}},
	})
	assert.Contains(t, out, "scanned 3, updated 0")
	assert.Contains(t, out, "JRN-2026-0002")
	assert.Contains(t, out, "s-1: database is locked")
}

func TestFormatHistory_Summarizes(t *testing.T) {
	out := FormatHistory([]*domain.AuditEntry{{
		ActorID: "ed", Action: "send_to_review", CreatedAt: now,
		After: map[string]any{"status": "UNDER_REVIEW", "round": 1},
	}})
	assert.Contains(t, out, "round=1 status=UNDER_REVIEW")
}
