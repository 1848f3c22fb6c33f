package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/gin-gonic/gin"
)

type createSubmissionBody struct {
	Title         string   `json:"title"`
	Abstract      string   `json:"abstract"`
	Keywords      []string `json:"keywords"`
	SecurityLevel string   `json:"security_level"`
}

func (s *Server) createSubmission(c *gin.Context) {
	var body createSubmissionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	sub, err := s.svc.Submissions.CreateSubmission(c.Request.Context(), contract.CreateSubmissionRequest{
		ActorID:       actorID(c),
		Title:         body.Title,
		Abstract:      body.Abstract,
		Keywords:      body.Keywords,
		SecurityLevel: domain.SecurityLevel(body.SecurityLevel),
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSubmissionJSON(*sub))
}

func (s *Server) listSubmissions(c *gin.Context) {
	filter := repository.SubmissionFilter{
		Status:        domain.SubmissionStatus(c.Query("status")),
		AuthorID:      c.Query("author"),
		SecurityLevel: domain.SecurityLevel(c.Query("security_level")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		badRequest(c, fmt.Errorf("unknown status %q", filter.Status))
		return
	}
	if v := c.Query("overdue"); v != "" {
		overdue, err := strconv.ParseBool(v)
		if err != nil {
			badRequest(c, fmt.Errorf("overdue: %w", err))
			return
		}
		filter.OverdueOnly = overdue
	}
	subs, err := s.svc.Submissions.List(c.Request.Context(), filter)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	out := make([]submissionJSON, 0, len(subs))
	for _, sub := range subs {
		out = append(out, toSubmissionJSON(*sub))
	}
	c.JSON(http.StatusOK, gin.H{"submissions": out})
}

func (s *Server) getSubmission(c *gin.Context) {
	view, err := s.svc.Submissions.View(c.Request.Context(), c.Param("ref"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toViewJSON(view))
}

type reviseBody struct {
	Title    *string  `json:"title"`
	Abstract *string  `json:"abstract"`
	Keywords []string `json:"keywords"`
	Note     string   `json:"note"`
}

func (s *Server) reviseSubmission(c *gin.Context) {
	var body reviseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	sub, ok := s.resolve(c)
	if !ok {
		return
	}
	out, err := s.svc.Submissions.Revise(c.Request.Context(), contract.ReviseSubmissionRequest{
		ActorID:      actorID(c),
		SubmissionID: sub.ID,
		Title:        body.Title,
		Abstract:     body.Abstract,
		Keywords:     body.Keywords,
		Note:         body.Note,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionJSON(*out))
}

func (s *Server) submissionHistory(c *gin.Context) {
	sub, ok := s.resolve(c)
	if !ok {
		return
	}
	entries, err := s.svc.Submissions.History(c.Request.Context(), sub.ID)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	out := make([]auditJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditJSON{ActorID: e.ActorID, Action: e.Action, Before: e.Before, After: e.After, CreatedAt: e.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}

type transitionBody struct {
	Action      string   `json:"action" binding:"required"`
	Reason      string   `json:"reason"`
	ReviewerIDs []string `json:"reviewer_ids"`
}

func (s *Server) transition(c *gin.Context) {
	var body transitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	sub, ok := s.resolve(c)
	if !ok {
		return
	}
	resp, err := s.svc.Workflow.Transition(c.Request.Context(), contract.TransitionRequest{
		ActorID:      actorID(c),
		SubmissionID: sub.ID,
		Action:       domain.Action(body.Action),
		Reason:       body.Reason,
		ReviewerIDs:  body.ReviewerIDs,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"from":       resp.From,
		"to":         resp.To,
		"submission": toSubmissionJSON(resp.Submission),
	})
}

type reviewersBody struct {
	ReviewerIDs []string `json:"reviewer_ids"`
}

func (s *Server) assignReviewers(c *gin.Context) {
	var body reviewersBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	sub, ok := s.resolve(c)
	if !ok {
		return
	}
	resp, err := s.svc.Workflow.AssignReviewers(c.Request.Context(), contract.AssignReviewersRequest{
		ActorID:      actorID(c),
		SubmissionID: sub.ID,
		ReviewerIDs:  body.ReviewerIDs,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"round":        resp.Round,
		"added":        nonNil(resp.Added),
		"removed":      nonNil(resp.Removed),
		"transitioned": resp.Transitioned,
		"submission":   toSubmissionJSON(resp.Submission),
	})
}

type invitationBody struct {
	Accept *bool `json:"accept" binding:"required"`
}

func (s *Server) respondInvitation(c *gin.Context) {
	var body invitationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	sub, ok := s.resolve(c)
	if !ok {
		return
	}
	resp, err := s.svc.Workflow.RespondToInvitation(c.Request.Context(), contract.RespondInvitationRequest{
		ActorID:      actorID(c),
		SubmissionID: sub.ID,
		Accept:       *body.Accept,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": toReviewJSON(resp.Review), "round_complete": resp.RoundComplete})
}

type reviewBody struct {
	Recommendation string `json:"recommendation" binding:"required"`
	Comments       string `json:"comments"`
}

func (s *Server) submitReview(c *gin.Context) {
	var body reviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	sub, ok := s.resolve(c)
	if !ok {
		return
	}
	resp, err := s.svc.Workflow.SubmitReview(c.Request.Context(), contract.SubmitReviewRequest{
		ActorID:        actorID(c),
		SubmissionID:   sub.ID,
		Recommendation: domain.Recommendation(body.Recommendation),
		Comments:       body.Comments,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": toReviewJSON(resp.Review), "round_complete": resp.RoundComplete})
}

type decisionBody struct {
	Decision string `json:"decision" binding:"required"`
	Round    int    `json:"round"`
	Comments string `json:"comments"`
}

// recordDecision answers 202 while the two-person rule still waits on a
// second signature.
func (s *Server) recordDecision(c *gin.Context) {
	var body decisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	sub, ok := s.resolve(c)
	if !ok {
		return
	}
	resp, err := s.svc.Workflow.RecordDecision(c.Request.Context(), contract.RecordDecisionRequest{
		ActorID:      actorID(c),
		SubmissionID: sub.ID,
		Round:        body.Round,
		Decision:     domain.Decision(body.Decision),
		Comments:     body.Comments,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	status := http.StatusCreated
	if resp.RequiresAdditionalApproval {
		status = http.StatusAccepted
	}
	missing := make([]string, 0, len(resp.MissingRoles))
	for _, r := range resp.MissingRoles {
		missing = append(missing, string(r))
	}
	c.JSON(status, gin.H{
		"decision":                     toDecisionJSON(resp.Decision),
		"status":                       resp.Status,
		"requires_additional_approval": resp.RequiresAdditionalApproval,
		"missing_roles":                missing,
	})
}

func (s *Server) listDeadlines(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		deadlines []*domain.Deadline
		err       error
	)
	if c.Query("overdue") == "true" {
		deadlines, err = s.svc.Tracker.OverdueDeadlines(ctx)
	} else {
		deadlines, err = s.svc.Tracker.OpenDeadlines(ctx, c.Query("assignee"))
	}
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	out := make([]deadlineJSON, 0, len(deadlines))
	for _, d := range deadlines {
		out = append(out, toDeadlineJSON(*d))
	}
	c.JSON(http.StatusOK, gin.H{"deadlines": out})
}

func (s *Server) completeDeadline(c *gin.Context) {
	d, err := s.svc.Workflow.CompleteDeadline(c.Request.Context(), contract.CompleteDeadlineRequest{
		ActorID:    actorID(c),
		DeadlineID: c.Param("id"),
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDeadlineJSON(*d))
}

// tick runs one tracker pass. Per-submission failures are reported in the
// body; the pass itself still succeeds.
func (s *Server) tick(c *gin.Context) {
	resp, err := s.svc.Tracker.Tick(c.Request.Context(), contract.TickRequest{})
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	overdue := make([]string, 0, len(resp.NewlyOverdue))
	for _, sub := range resp.NewlyOverdue {
		overdue = append(overdue, sub.Code)
	}
	overdueDeadlines := make([]string, 0, len(resp.NewlyOverdueDeadlines))
	for _, d := range resp.NewlyOverdueDeadlines {
		overdueDeadlines = append(overdueDeadlines, d.ID)
	}
	failures := make([]gin.H, 0, len(resp.Failures))
	for _, f := range resp.Failures {
		failures = append(failures, gin.H{"submission_id": f.SubmissionID, "error": f.Err.Error()})
	}
	c.JSON(http.StatusOK, gin.H{
		"now":                     resp.Now,
		"scanned":                 resp.Scanned,
		"updated":                 len(resp.Updated),
		"newly_overdue":           overdue,
		"newly_overdue_deadlines": overdueDeadlines,
		"failures":                failures,
	})
}

// listNotifications returns the calling user's outbox.
func (s *Server) listNotifications(c *gin.Context) {
	notes, err := s.svc.Submissions.Notifications(c.Request.Context(), actorID(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	out := make([]notificationJSON, 0, len(notes))
	for _, n := range notes {
		out = append(out, notificationJSON{Type: string(n.Type), Title: n.Title, Message: n.Message, Link: n.Link, CreatedAt: n.CreatedAt})
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

// resolve looks up the :ref path parameter, which may be an ID or a code.
func (s *Server) resolve(c *gin.Context) (*domain.Submission, bool) {
	sub, err := s.svc.Submissions.Resolve(c.Request.Context(), c.Param("ref"))
	if err != nil {
		s.abortWithError(c, err)
		return nil, false
	}
	return sub, true
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.svc.Users.List(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}
