package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/inbox/internal/domain"
	"github.com/alexanderramin/inbox/internal/intelligence"
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

// EnvelopeStatusBadge renders what the client should do next.
func EnvelopeStatusBadge(status intelligence.EnvelopeStatus) string {
	switch status {
	case intelligence.StatusReady:
		return StyleGreen.Render("● READY")
	case intelligence.StatusNeedsClarification:
		return StyleYellow.Render("? NEEDS CLARIFICATION")
	case intelligence.StatusSuggestAlternative:
		return StylePurple.Render("⇄ SUGGEST ALTERNATIVE")
	default:
		return StyleDim.Render(string(status))
	}
}

// DraftStatusPill renders a stored draft's lifecycle state.
func DraftStatusPill(status domain.DraftStatus) string {
	switch status {
	case domain.DraftPendingApproval:
		return StyleYellow.Render("◷ Pending")
	case domain.DraftApproved:
		return StyleGreen.Render("✔ Approved")
	case domain.DraftModified:
		return StyleBlue.Render("✎ Modified")
	case domain.DraftRejected:
		return StyleDim.Render("✖ Rejected")
	case domain.DraftExpired:
		return StyleRed.Render("⌛ Expired")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
