package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/cli/formatter"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// folioHuhTheme styles forms with the formatter's Gruvbox palette.
func folioHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// formKeyMap lets esc abort a prompt as well as ctrl+c.
func formKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))
	return km
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithTheme(folioHuhTheme()).
		WithKeyMap(formKeyMap()).
		WithShowHelp(false)
}

func confirmForm(title, description string, result *bool) *huh.Form {
	return newForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("No").
			Value(result),
	))
}

// draftForm collects a new manuscript. Fields already set by flags are kept
// as the starting values.
func draftForm(d *SubmissionDraft) *huh.Form {
	if d.Level == "" {
		d.Level = string(domain.SecurityOpen)
	}
	levels := make([]huh.Option[string], 0, len(domain.SecurityLevels))
	for _, l := range domain.SecurityLevels {
		levels = append(levels, huh.NewOption(strings.ReplaceAll(string(l), "_", " "), string(l)))
	}
	return newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&d.Title).
				Validate(validateTitle),
			huh.NewText().
				Title("Abstract").
				Value(&d.Abstract),
			huh.NewInput().
				Title("Keywords").
				Description("Comma separated").
				Value(&d.Keywords),
			huh.NewSelect[string]().
				Title("Security level").
				Options(levels...).
				Value(&d.Level),
		),
	)
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// terminalConfirmText describes what an irreversible transition does.
func terminalConfirmText(code string, action domain.Action) (string, string) {
	switch action {
	case domain.ActionPublish:
		return fmt.Sprintf("Publish %s?", code), "Published submissions are final."
	case domain.ActionDeskReject:
		return fmt.Sprintf("Desk reject %s?", code), "The submission closes without review."
	default:
		return fmt.Sprintf("Reject %s?", code), "Rejected submissions cannot be reopened."
	}
}

// decisionConfirmText describes a decision before it is signed.
func decisionConfirmText(code string, round int, d domain.Decision) (string, string) {
	title := fmt.Sprintf("Record %s on %s?", d, code)
	if round > 0 {
		title = fmt.Sprintf("Record %s on %s round %d?", d, code, round)
	}
	return title, "Editor decisions are signed and cannot be changed."
}
