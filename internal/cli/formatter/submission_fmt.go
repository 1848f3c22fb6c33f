package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/folio/internal/app"
	"github.com/alexanderramin/folio/internal/domain"
)

// FormatSubmissionList renders submissions as a table inside a box.
func FormatSubmissionList(subs []*domain.Submission) string {
	t := NewTable("CODE", "TITLE", "STATUS", "LEVEL", "ROUND", "DAYS").Clip(1, 48)
	for _, s := range subs {
		t.Late(s.IsOverdue,
			s.Code,
			Bold(s.Title),
			StatusPill(s.Status),
			SecurityBadge(s.SecurityLevel),
			fmt.Sprintf("%d", s.CurrentRound),
			fmt.Sprintf("%d", s.DaysInCurrentStatus),
		)
	}
	return RenderBox("Submissions", t.String())
}

// FormatSubmissionView renders one submission with its reviews, decisions
// and open deadlines.
func FormatSubmissionView(v *app.SubmissionView, now time.Time) string {
	s := v.Submission
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s  %s\n", Bold(s.Code), StatusPill(s.Status), SecurityBadge(s.SecurityLevel))
	fmt.Fprintf(&b, "%s\n\n", StyleFg.Render(s.Title))
	fmt.Fprintf(&b, "%s %s\n", Dim("author:  "), s.AuthorID)
	fmt.Fprintf(&b, "%s %s\n", Dim("editor:  "), OrDash(s.HandlingEditorID))
	fmt.Fprintf(&b, "%s %d\n", Dim("round:   "), s.CurrentRound)
	if len(s.Keywords) > 0 {
		fmt.Fprintf(&b, "%s %s\n", Dim("keywords:"), strings.Join(s.Keywords, ", "))
	}
	fmt.Fprintf(&b, "%s %dd in status %s\n", Dim("sla:     "), s.DaysInCurrentStatus, OverdueFlag(s.IsOverdue))

	if len(v.Reviews) > 0 {
		b.WriteString("\n" + Header("Reviews") + "\n")
		rows := make([][]string, 0, len(v.Reviews))
		for _, r := range v.Reviews {
			rows = append(rows, []string{
				fmt.Sprintf("%d", r.RoundNo),
				r.ReviewerID,
				reviewState(r),
				RecommendationColor(r.Recommendation),
			})
		}
		b.WriteString(RenderTable([]string{"ROUND", "REVIEWER", "STATE", "RECOMMENDATION"}, rows))
	}

	if len(v.Decisions) > 0 {
		b.WriteString("\n" + Header("Decisions") + "\n")
		rows := make([][]string, 0, len(v.Decisions))
		for _, d := range v.Decisions {
			rows = append(rows, []string{
				fmt.Sprintf("%d", d.RoundNo),
				d.EditorID,
				Dim(string(d.EditorRole)),
				RecommendationColor(d.Decision),
			})
		}
		b.WriteString(RenderTable([]string{"ROUND", "EDITOR", "ROLE", "DECISION"}, rows))
	}

	var open []*domain.Deadline
	for i := range v.Deadlines {
		if v.Deadlines[i].IsOpen() {
			open = append(open, &v.Deadlines[i])
		}
	}
	if len(open) > 0 {
		b.WriteString("\n" + Header("Open deadlines") + "\n")
		b.WriteString(deadlineTable(open, now))
	}

	return RenderBox("Submission", strings.TrimRight(b.String(), "\n"))
}

func reviewState(r domain.Review) string {
	switch {
	case r.IsSubmitted():
		return StyleGreen.Render("submitted")
	case r.IsDeclined():
		return Dim("declined")
	case r.AcceptedAt != nil:
		return StyleBlue.Render("accepted")
	default:
		return StyleYellow.Render("invited")
	}
}

// FormatDeadlines renders open deadlines ordered by due date.
func FormatDeadlines(deadlines []*domain.Deadline, now time.Time) string {
	return RenderBox("Deadlines", deadlineTable(deadlines, now))
}

func deadlineTable(deadlines []*domain.Deadline, now time.Time) string {
	sorted := append([]*domain.Deadline(nil), deadlines...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].DueDate.Before(sorted[j].DueDate) })

	t := NewTable("ID", "TYPE", "ASSIGNEE", "DUE")
	for _, d := range sorted {
		t.Late(d.IsOverdue, TruncID(d.ID), string(d.Type), OrDash(d.AssignedTo), DueStyled(d.DueDate, now))
	}
	return t.String()
}

// FormatHistory renders audit entries oldest first.
func FormatHistory(entries []*domain.AuditEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		action := e.Action
		if action == domain.AuditActionSecurityDenied {
			action = StyleRed.Render(action)
		}
		rows = append(rows, []string{
			e.CreatedAt.UTC().Format("2006-01-02 15:04"),
			e.ActorID,
			action,
			Dim(summarize(e.After)),
		})
	}
	return RenderBox("History", RenderTable([]string{"WHEN", "ACTOR", "ACTION", "DETAIL"}, rows))
}

// summarize flattens an audit payload into sorted key=value pairs.
func summarize(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return truncate(strings.Join(parts, " "), 60)
}

func FormatNotifications(notes []*domain.Notification) string {
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{
			n.CreatedAt.UTC().Format("2006-01-02 15:04"),
			StylePurple.Render(string(n.Type)),
			n.Title,
			Dim(n.Link),
		})
	}
	return RenderBox("Notifications", RenderTable([]string{"WHEN", "TYPE", "TITLE", "LINK"}, rows))
}

func FormatUsers(users []*domain.User) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, Bold(u.Name), StyleBlue.Render(string(u.Role)), OrDash(u.Email)})
	}
	return RenderBox("Masthead", RenderTable([]string{"ID", "NAME", "ROLE", "EMAIL"}, rows))
}

// FormatDecision reports a recorded decision, including a pending second
// signature under the two-person rule.
func FormatDecision(resp *app.DecisionResponse) string {
	line := fmt.Sprintf("Recorded %s for round %d, status %s",
		RecommendationColor(resp.Decision.Decision), resp.Decision.RoundNo, StatusPill(resp.Status))
	if !resp.RequiresAdditionalApproval {
		return line
	}
	missing := make([]string, 0, len(resp.MissingRoles))
	for _, r := range resp.MissingRoles {
		missing = append(missing, string(r))
	}
	return line + "\n" + StyleYellow.Render("Awaiting second signature from: "+strings.Join(missing, " or "))
}

// FormatTick summarizes one tracker pass.
func FormatTick(resp *app.TickResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s scanned %d, updated %d\n",
		Dim(resp.Now.UTC().Format(time.RFC3339)), resp.Scanned, len(resp.Updated))
	for _, s := range resp.NewlyOverdue {
		fmt.Fprintf(&b, "  %s %s %s (%dd)\n", OverdueFlag(true), s.Code, StatusPill(s.Status), s.DaysInCurrentStatus)
	}
	for _, d := range resp.NewlyOverdueDeadlines {
		fmt.Fprintf(&b, "  %s deadline %s %s for %s\n", OverdueFlag(true), TruncID(d.ID), d.Type, OrDash(d.AssignedTo))
	}
	for _, f := range resp.Failures {
		fmt.Fprintf(&b, "  %s %s: %v\n", StyleRed.Render("failed"), f.SubmissionID, f.Err)
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
