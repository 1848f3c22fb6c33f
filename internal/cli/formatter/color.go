package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/folio/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColor renders every style as plain text, for pipes and NO_COLOR.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// StatusPill returns a colored indicator for a submission status.
func StatusPill(status domain.SubmissionStatus) string {
	label := strings.ReplaceAll(string(status), "_", " ")
	switch status {
	case domain.StatusNew:
		return StyleBlue.Render("○ " + label)
	case domain.StatusUnderReview, domain.StatusRevision:
		return StyleYellow.Render("● " + label)
	case domain.StatusAccepted, domain.StatusInProduction:
		return StyleGreen.Render("● " + label)
	case domain.StatusPublished:
		return StyleGreen.Render("✔ " + label)
	case domain.StatusRejected, domain.StatusDeskReject:
		return StyleDim.Render("✖ " + label)
	default:
		return StyleDim.Render(label)
	}
}

// SecurityBadge highlights classified submissions.
func SecurityBadge(level domain.SecurityLevel) string {
	switch level {
	case domain.SecurityTopSecret:
		return StyleRed.Render("▲ TOP SECRET")
	case domain.SecuritySecret:
		return StylePurple.Render("▲ SECRET")
	default:
		return StyleDim.Render("OPEN")
	}
}

// RecommendationColor colors a reviewer recommendation or editor decision.
func RecommendationColor(r domain.Recommendation) string {
	switch r {
	case domain.RecommendAccept:
		return StyleGreen.Render(string(r))
	case domain.RecommendMinor:
		return StyleBlue.Render(string(r))
	case domain.RecommendMajor:
		return StyleYellow.Render(string(r))
	case domain.RecommendReject:
		return StyleRed.Render(string(r))
	default:
		return StyleDim.Render("--")
	}
}

// OverdueFlag renders the SLA flag, empty when on time.
func OverdueFlag(overdue bool) string {
	if overdue {
		return StyleRed.Render("OVERDUE")
	}
	return ""
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
