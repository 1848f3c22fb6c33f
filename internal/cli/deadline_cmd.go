package cli

import (
	"fmt"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/spf13/cobra"
)

func newDeadlineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadline",
		Short: "Inspect and complete deadlines",
	}
	cmd.AddCommand(newDeadlineListCmd(app), newDeadlineCompleteCmd(app))
	return cmd
}

func newDeadlineListCmd(app *App) *cobra.Command {
	var assignee string
	var overdue, mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open deadlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mine {
				actor, err := actorFor(cmd, app)
				if err != nil {
					return err
				}
				assignee = actor
			}
			var (
				deadlines []*domain.Deadline
				err       error
			)
			if overdue {
				deadlines, err = app.Tracker.OverdueDeadlines(cmd.Context())
			} else {
				deadlines, err = app.Tracker.OpenDeadlines(cmd.Context(), assignee)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDeadlines(deadlines, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&assignee, "assignee", "", "Only deadlines assigned to this user")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only deadlines assigned to the acting user")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "Only overdue deadlines")

	return cmd
}

func newDeadlineCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a deadline as met",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFor(cmd, app)
			if err != nil {
				return err
			}
			d, err := app.Workflow.CompleteDeadline(cmd.Context(), contract.CompleteDeadlineRequest{
				ActorID:    actor,
				DeadlineID: args[0],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s %s\n", d.Type, formatter.TruncID(d.ID))
			return nil
		},
	}
}
