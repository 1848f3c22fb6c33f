package cli

import (
	"fmt"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history <ref>",
		Short: "Show the audit trail of a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := resolveSubmission(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			entries, err := app.Submissions.History(cmd.Context(), sub.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHistory(entries))
			return nil
		},
	}
}

func newNotificationsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "notifications",
		Short: "List queued notifications for the acting user",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFor(cmd, app)
			if err != nil {
				return err
			}
			notes, err := app.Submissions.Notifications(cmd.Context(), actor)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNotifications(notes))
			return nil
		},
	}
}
