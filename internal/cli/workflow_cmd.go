package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/spf13/cobra"
)

func newWorkflowCmd(app *App) *cobra.Command {
	var reason string
	var reviewers []string
	var yes bool

	validActions := make([]string, 0, len(domain.TransitionActions))
	for _, a := range domain.TransitionActions {
		validActions = append(validActions, string(a))
	}

	cmd := &cobra.Command{
		Use:   "workflow <action> <ref>",
		Short: "Apply a transition to a submission",
		Long: "Apply a transition to a submission. Actions: " + strings.Join(validActions, ", ") + ".\n" +
			"send_to_review opens a new review round and needs at least two --reviewer IDs.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: validActions,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFor(cmd, app)
			if err != nil {
				return err
			}
			sub, err := resolveSubmission(cmd.Context(), app, args[1])
			if err != nil {
				return err
			}
			action := domain.Action(strings.ToLower(args[0]))
			if irreversibleActions[action] {
				title, description := terminalConfirmText(sub.Code, action)
				ok, err := confirmIrreversible(cmd.Context(), app, yes, title, description)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}
			resp, err := app.transitionUseCase().Transition(cmd.Context(), contract.TransitionRequest{
				ActorID:      actor,
				SubmissionID: sub.ID,
				Action:       action,
				Reason:       reason,
				ReviewerIDs:  reviewers,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s\n",
				formatter.Bold(resp.Submission.Code), formatter.StatusPill(resp.From), formatter.StatusPill(resp.To))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the audit log")
	cmd.Flags().StringSliceVar(&reviewers, "reviewer", nil, "Reviewer user ID (repeatable, send_to_review only)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation for reject, desk_reject and publish")

	return cmd
}

func newAssignCmd(app *App) *cobra.Command {
	var reviewers []string

	cmd := &cobra.Command{
		Use:   "assign <ref>",
		Short: "Set the reviewer panel of the current round",
		Long: "Set the reviewer panel of the current round. Reviewers not listed are dropped\n" +
			"unless they already submitted; a NEW submission is sent to review.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFor(cmd, app)
			if err != nil {
				return err
			}
			sub, err := resolveSubmission(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			resp, err := app.assignReviewersUseCase().AssignReviewers(cmd.Context(), contract.AssignReviewersRequest{
				ActorID:      actor,
				SubmissionID: sub.ID,
				ReviewerIDs:  reviewers,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(resp.Added) == 0 && len(resp.Removed) == 0 {
				fmt.Fprintf(out, "%s round %d: panel unchanged\n", formatter.Bold(resp.Submission.Code), resp.Round)
				return nil
			}
			fmt.Fprintf(out, "%s round %d\n", formatter.Bold(resp.Submission.Code), resp.Round)
			for _, id := range resp.Added {
				fmt.Fprintf(out, "  %s %s\n", formatter.StyleGreen.Render("+"), id)
			}
			for _, id := range resp.Removed {
				fmt.Fprintf(out, "  %s %s\n", formatter.StyleRed.Render("-"), id)
			}
			if resp.Transitioned {
				fmt.Fprintf(out, "  %s → %s\n", formatter.StatusPill(resp.From), formatter.StatusPill(resp.Submission.Status))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&reviewers, "reviewer", nil, "Reviewer user ID (repeatable)")
	_ = cmd.MarkFlagRequired("reviewer")

	return cmd
}

func newDecideCmd(app *App) *cobra.Command {
	var round int
	var comments string
	var yes bool

	cmd := &cobra.Command{
		Use:       "decide <ref> <ACCEPT|MINOR|MAJOR|REJECT>",
		Short:     "Record an editor decision for a review round",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"ACCEPT", "MINOR", "MAJOR", "REJECT"},
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFor(cmd, app)
			if err != nil {
				return err
			}
			sub, err := resolveSubmission(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			decision := domain.Decision(strings.ToUpper(args[1]))
			title, description := decisionConfirmText(sub.Code, round, decision)
			ok, err := confirmIrreversible(cmd.Context(), app, yes, title, description)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			resp, err := app.recordDecisionUseCase().RecordDecision(cmd.Context(), contract.RecordDecisionRequest{
				ActorID:      actor,
				SubmissionID: sub.ID,
				Round:        round,
				Decision:     decision,
				Comments:     comments,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDecision(resp))
			return nil
		},
	}

	cmd.Flags().IntVar(&round, "round", 0, "Review round (defaults to the current round)")
	cmd.Flags().StringVar(&comments, "comments", "", "Comments to the author")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation")

	return cmd
}
