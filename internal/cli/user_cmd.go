package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage the masthead",
	}
	cmd.AddCommand(newUserAddCmd(app), newUserListCmd(app), newUserImportCmd(app))
	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var id, name, email, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user with a role",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &domain.User{
				ID:    id,
				Name:  name,
				Email: email,
				Role:  domain.Role(strings.ToUpper(role)),
			}
			if err := app.Users.Create(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) as %s\n", u.Name, u.ID, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "User ID (generated when empty)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&role, "role", "", "AUTHOR, REVIEWER, EDITOR, MANAGING_EDITOR, EDITOR_IN_CHIEF, SECURITY_AUDITOR or ADMIN")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUsers(users))
			return nil
		},
	}
}

func newUserImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load a masthead from a YAML or JSON file",
		Long: "Load a masthead from a YAML or JSON file. The first import into an empty\n" +
			"directory needs no acting user; later imports must be run by an ADMIN.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Import == nil {
				return fmt.Errorf("import is not configured")
			}
			// The acting user is optional while bootstrapping.
			actor, _ := actorFor(cmd, app)
			res, err := app.Import.ImportMasthead(cmd.Context(), contract.ImportMastheadRequest{
				ActorID: actor,
				Path:    args[0],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d users\n", len(res.Users))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatUsers(res.Users))
			return nil
		},
	}
}
