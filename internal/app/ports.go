package app

import (
	"context"

	"github.com/alexanderramin/folio/internal/domain"
)

type CreateSubmissionUseCase interface {
	CreateSubmission(ctx context.Context, req CreateSubmissionRequest) (*domain.Submission, error)
}

type TransitionUseCase interface {
	Transition(ctx context.Context, req TransitionRequest) (*TransitionResponse, error)
}

type AssignReviewersUseCase interface {
	AssignReviewers(ctx context.Context, req AssignReviewersRequest) (*AssignReviewersResponse, error)
}

type RecordDecisionUseCase interface {
	RecordDecision(ctx context.Context, req RecordDecisionRequest) (*DecisionResponse, error)
}

type TickUseCase interface {
	Tick(ctx context.Context, req TickRequest) (*TickResponse, error)
}
