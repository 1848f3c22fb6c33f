package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/spf13/cobra"
)

func newReviewCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Act on a review invitation",
	}
	cmd.AddCommand(newReviewRespondCmd(app), newReviewSubmitCmd(app))
	return cmd
}

func newReviewRespondCmd(app *App) *cobra.Command {
	var accept, decline bool

	cmd := &cobra.Command{
		Use:   "respond <ref>",
		Short: "Accept or decline an invitation for the current round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if accept == decline {
				return fmt.Errorf("pass exactly one of --accept or --decline")
			}
			actor, err := actorFor(cmd, app)
			if err != nil {
				return err
			}
			sub, err := resolveSubmission(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			resp, err := app.Workflow.RespondToInvitation(cmd.Context(), contract.RespondInvitationRequest{
				ActorID:      actor,
				SubmissionID: sub.ID,
				Accept:       accept,
			})
			if err != nil {
				return err
			}
			verb := "Accepted"
			if decline {
				verb = "Declined"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s review of %s round %d\n", verb, formatter.Bold(sub.Code), resp.Review.RoundNo)
			if resp.RoundComplete {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Round complete, ready for decision"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&accept, "accept", false, "Accept the invitation")
	cmd.Flags().BoolVar(&decline, "decline", false, "Decline the invitation")

	return cmd
}

func newReviewSubmitCmd(app *App) *cobra.Command {
	var recommendation, comments string

	cmd := &cobra.Command{
		Use:   "submit <ref>",
		Short: "Submit a review report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFor(cmd, app)
			if err != nil {
				return err
			}
			sub, err := resolveSubmission(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			resp, err := app.Workflow.SubmitReview(cmd.Context(), contract.SubmitReviewRequest{
				ActorID:        actor,
				SubmissionID:   sub.ID,
				Recommendation: domain.Recommendation(strings.ToUpper(recommendation)),
				Comments:       comments,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s for %s round %d\n",
				formatter.RecommendationColor(resp.Review.Recommendation), formatter.Bold(sub.Code), resp.Review.RoundNo)
			if resp.RoundComplete {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Round complete, ready for decision"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&recommendation, "recommendation", "", "ACCEPT, MINOR, MAJOR or REJECT")
	cmd.Flags().StringVar(&comments, "comments", "", "Report to the editor")
	_ = cmd.MarkFlagRequired("recommendation")

	return cmd
}
