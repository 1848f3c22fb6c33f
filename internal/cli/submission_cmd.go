package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/alexanderramin/folio/internal/repository"
	"github.com/spf13/cobra"
)

func newSubmissionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submission",
		Aliases: []string{"sub"},
		Short:   "Create and inspect submissions",
	}
	cmd.AddCommand(
		newSubmissionCreateCmd(app),
		newSubmissionShowCmd(app),
		newSubmissionListCmd(app),
		newSubmissionReviseCmd(app),
	)
	return cmd
}

func newSubmissionCreateCmd(app *App) *cobra.Command {
	var title, abstract, level string
	var keywords []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a new manuscript",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := actorFor(cmd, app)
			if err != nil {
				return err
			}
			draft := SubmissionDraft{Title: title, Abstract: abstract, Keywords: strings.Join(keywords, ", "), Level: level}
			if strings.TrimSpace(title) == "" {
				if app.Prompt == nil {
					return fmt.Errorf("--title is required")
				}
				if err := app.Prompt.Draft(cmd.Context(), &draft); err != nil {
					return err
				}
			}
			sub, err := app.createSubmissionUseCase().CreateSubmission(cmd.Context(), contract.CreateSubmissionRequest{
				ActorID:       actor,
				Title:         draft.Title,
				Abstract:      draft.Abstract,
				Keywords:      draft.KeywordList(),
				SecurityLevel: domain.SecurityLevel(strings.ToUpper(draft.Level)),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", formatter.Bold(sub.Code), formatter.Dim(sub.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Manuscript title (prompted for on a terminal when omitted)")
	cmd.Flags().StringVar(&abstract, "abstract", "", "Abstract")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "Keyword (repeatable)")
	cmd.Flags().StringVar(&level, "level", string(domain.SecurityOpen), "Security level: OPEN, SECRET or TOP_SECRET")

	return cmd
}

func newSubmissionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Show a submission with its reviews, decisions and deadlines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := resolveSubmission(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			view, err := app.Submissions.View(cmd.Context(), sub.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSubmissionView(view, app.now()))
			return nil
		},
	}
}

func newSubmissionListCmd(app *App) *cobra.Command {
	var status, author string
	var overdue, active bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := repository.SubmissionFilter{
				Status:      domain.SubmissionStatus(strings.ToUpper(status)),
				AuthorID:    author,
				OverdueOnly: overdue,
				ActiveOnly:  active,
			}
			if f.Status != "" && !f.Status.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			subs, err := app.Submissions.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSubmissionList(subs))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only this status")
	cmd.Flags().StringVar(&author, "author", "", "Only this author")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "Only submissions past their status SLA")
	cmd.Flags().BoolVar(&active, "active", false, "Hide terminal submissions")

	return cmd
}

func newSubmissionReviseCmd(app *App) *cobra.Command {
	var title, abstract, note string
	var keywords []string

	cmd := &cobra.Command{
		Use:   "revise <ref>",
		Short: "Edit a manuscript while it is NEW or in REVISION",
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
			req := contract.ReviseSubmissionRequest{
				ActorID:      actor,
				SubmissionID: sub.ID,
				Note:         note,
			}
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("abstract") {
				req.Abstract = &abstract
			}
			if cmd.Flags().Changed("keyword") {
				req.Keywords = keywords
			}
			revised, err := app.Submissions.Revise(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revised %s %s\n", formatter.Bold(revised.Code), formatter.StatusPill(revised.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&abstract, "abstract", "", "New abstract")
	cmd.Flags().StringSliceVar(&keywords, "keyword", nil, "Replacement keyword (repeatable)")
	cmd.Flags().StringVar(&note, "note", "", "Note to the editor")

	return cmd
}
