package contract

import "github.com/alexanderramin/folio/internal/app"

type CreateSubmissionRequest = app.CreateSubmissionRequest

type ReviseSubmissionRequest = app.ReviseSubmissionRequest

type TransitionRequest = app.TransitionRequest

type TransitionResponse = app.TransitionResponse

type AssignReviewersRequest = app.AssignReviewersRequest

type AssignReviewersResponse = app.AssignReviewersResponse

type RespondInvitationRequest = app.RespondInvitationRequest

type SubmitReviewRequest = app.SubmitReviewRequest

type ReviewResponse = app.ReviewResponse

type RecordDecisionRequest = app.RecordDecisionRequest

type DecisionResponse = app.DecisionResponse

type CompleteDeadlineRequest = app.CompleteDeadlineRequest

type SubmissionView = app.SubmissionView

type ImportMastheadRequest = app.ImportMastheadRequest

type ImportResult = app.ImportResult
