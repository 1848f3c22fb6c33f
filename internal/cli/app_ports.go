package cli

import "github.com/alexanderramin/folio/internal/app"

func (a *App) createSubmissionUseCase() app.CreateSubmissionUseCase {
	if a.CreateSubmission != nil {
		return a.CreateSubmission
	}
	return a.Submissions
}

func (a *App) transitionUseCase() app.TransitionUseCase {
	if a.Transition != nil {
		return a.Transition
	}
	return a.Workflow
}

func (a *App) assignReviewersUseCase() app.AssignReviewersUseCase {
	if a.AssignReviewers != nil {
		return a.AssignReviewers
	}
	return a.Workflow
}

func (a *App) recordDecisionUseCase() app.RecordDecisionUseCase {
	if a.RecordDecision != nil {
		return a.RecordDecision
	}
	return a.Workflow
}

func (a *App) tickUseCase() app.TickUseCase {
	if a.Tick != nil {
		return a.Tick
	}
	return a.Tracker
}
