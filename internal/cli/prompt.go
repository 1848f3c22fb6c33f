package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/alexanderramin/folio/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// Prompter asks the operator for what a flag did not supply. Commands only
// prompt when App.Prompt is set, which main does when both ends of the
// session are terminals; scripts and tests run without one.
type Prompter interface {
	// Confirm asks a yes/no question. An aborted prompt counts as no.
	Confirm(ctx context.Context, title, description string) (bool, error)
	// Draft fills in a new submission interactively.
	Draft(ctx context.Context, d *SubmissionDraft) error
}

// SubmissionDraft is the editable state of "submission create".
type SubmissionDraft struct {
	Title    string
	Abstract string
	Keywords string // comma separated
	Level    string
}

// KeywordList splits the comma separated keywords, dropping blanks.
func (d SubmissionDraft) KeywordList() []string {
	var out []string
	for _, k := range strings.Split(d.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

var errPromptCancelled = errors.New("cancelled")

// FormPrompter renders prompts as huh forms on the given terminal streams.
type FormPrompter struct {
	in  io.Reader
	out io.Writer
}

func NewFormPrompter(in io.Reader, out io.Writer) *FormPrompter {
	return &FormPrompter{in: in, out: out}
}

func (p *FormPrompter) run(ctx context.Context, form *huh.Form) error {
	// The process already turns SIGINT into ctx cancellation.
	form = form.
		WithInput(p.in).
		WithOutput(p.out).
		WithProgramOptions(tea.WithoutSignalHandler())
	return form.RunWithContext(ctx)
}

func (p *FormPrompter) Confirm(ctx context.Context, title, description string) (bool, error) {
	var ok bool
	err := p.run(ctx, confirmForm(title, description, &ok))
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

func (p *FormPrompter) Draft(ctx context.Context, d *SubmissionDraft) error {
	err := p.run(ctx, draftForm(d))
	if errors.Is(err, huh.ErrUserAborted) {
		return errPromptCancelled
	}
	return err
}

// confirmIrreversible asks before a step that cannot be undone. It returns
// true without asking when no prompter is configured or --yes was given.
func confirmIrreversible(ctx context.Context, app *App, skip bool, title, description string) (bool, error) {
	if app.Prompt == nil || skip {
		return true, nil
	}
	return app.Prompt.Confirm(ctx, title, description)
}

// irreversibleActions end a submission's life or ship it.
var irreversibleActions = map[domain.Action]bool{
	domain.ActionDeskReject: true,
	domain.ActionReject:     true,
	domain.ActionPublish:    true,
}
