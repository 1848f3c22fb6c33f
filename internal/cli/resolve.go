package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/spf13/cobra"
)

// actorFor returns the acting user: --as when given, else App.Actor.
func actorFor(cmd *cobra.Command, app *App) (string, error) {
	as, _ := cmd.Flags().GetString("as")
	if as = strings.TrimSpace(as); as != "" {
		return as, nil
	}
	if app.Actor != "" {
		return app.Actor, nil
	}
	return "", fmt.Errorf("no acting user: pass --as or set FOLIO_ACTOR")
}

// resolveSubmission accepts a submission ID or code, case-insensitive on
// the code.
func resolveSubmission(ctx context.Context, app *App, ref string) (*domain.Submission, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("submission reference is required")
	}
	if strings.HasPrefix(strings.ToUpper(ref), "JRN-") {
		ref = strings.ToUpper(ref)
	}
	return app.Submissions.Resolve(ctx, ref)
}
