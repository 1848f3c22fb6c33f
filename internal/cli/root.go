package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/folio/internal/app"
	"github.com/alexanderramin/folio/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Users       service.UserService
	Submissions service.SubmissionService
	Workflow    service.WorkflowService
	Tracker     service.TrackerService
	Import      service.ImportService

	// Optional use-case overrides. Nil falls back to the services above.
	CreateSubmission app.CreateSubmissionUseCase
	Transition       app.TransitionUseCase
	AssignReviewers  app.AssignReviewersUseCase
	RecordDecision   app.RecordDecisionUseCase
	Tick             app.TickUseCase

	// Prompt asks for missing input and confirms irreversible steps. Nil
	// means non-interactive: required flags must be given.
	Prompt Prompter

	// Actor is the default acting user. The --as flag overrides it.
	Actor string
	// Now is the clock used for rendering. Defaults to time.Now.
	Now func() time.Time

	// Serve runs the HTTP adapter on addr until ctx is cancelled.
	Serve    func(ctx context.Context, addr string) error
	HTTPAddr string
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "folio" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "folio",
		Short:         "Editorial submission workflow engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("as", "", "Acting user ID (defaults to $FOLIO_ACTOR)")

	root.AddCommand(
		newUserCmd(app),
		newSubmissionCmd(app),
		newWorkflowCmd(app),
		newAssignCmd(app),
		newReviewCmd(app),
		newDecideCmd(app),
		newDeadlineCmd(app),
		newTickCmd(app),
		newHistoryCmd(app),
		newNotificationsCmd(app),
		newServeCmd(app),
	)

	return root
}
