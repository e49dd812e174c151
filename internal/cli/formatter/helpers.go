package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/inbox/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0:
		return fmt.Sprintf("In %dw", days/7)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	default:
		return fmt.Sprintf("%dw ago", -days/7)
	}
}

// ExpiresIn describes how long until an expiry horizon, e.g. "in 23h" or
// "expired 2h ago".
func ExpiresIn(expiresAt, now time.Time) string {
	d := expiresAt.Sub(now)
	if d <= 0 {
		return StyleRed.Render("expired " + shortDuration(-d) + " ago")
	}
	text := "in " + shortDuration(d)
	if d < time.Hour {
		return StyleYellow.Render(text)
	}
	return text
}

func shortDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// LifeAreaBadge returns a capitalized, purple-styled life-area label.
func LifeAreaBadge(code string) string {
	if code == "" {
		return StyleDim.Render("--")
	}
	return StylePurple.Render(strings.ToUpper(code[:1]) + code[1:])
}

// IntentLabel renders an intent in upper case.
func IntentLabel(intent domain.Intent) string {
	if intent == "" {
		return StyleDim.Render("--")
	}
	return StyleBlue.Render(strings.ToUpper(string(intent)))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
