package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ContentWidth is the wrap width for prose inside boxes.
const ContentWidth = 72

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(title) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Wrap soft-wraps text at width columns.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// RelativeDateFrom returns a human-friendly distance between t and now,
// such as "3d ago" or "In 2w".
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0 && diff >= 0:
		if diff < time.Hour {
			return fmt.Sprintf("In %dm", int(math.Ceil(diff.Minutes())))
		}
		return fmt.Sprintf("In %dh", int(math.Round(diff.Hours())))
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// PeriodRef renders a period key the way the CLI accepts it back,
// e.g. "weekly 2026/2" or "yearly 2025".
func PeriodRef(ref domain.PeriodRef) string {
	if ref.Type == domain.PeriodYearly {
		return fmt.Sprintf("%s %d", ref.Type, ref.Year)
	}
	return fmt.Sprintf("%s %d/%d", ref.Type, ref.Year, ref.Number)
}

// Truncate shortens s to width visible characters, ending in "…".
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// PadRight pads s with spaces to width visible columns.
func PadRight(s string, width int) string {
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}
