package terminal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// styles are the lipgloss styles derived from a chapter theme.
type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	muted    lipgloss.Style
	warning  lipgloss.Style
	errorBox lipgloss.Style
	toc      lipgloss.Style
}

func newStyles(theme domain.Theme, width int) styles {
	primary := colour(theme.Primary, "#007AFF")
	accent := colour(theme.Accent, "#FF9500")
	border := colour(theme.Border, "#E2E8F0")

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			Padding(0, 1).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(primary),
		label: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		muted: lipgloss.NewStyle().
			Faint(true),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")),
		errorBox: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#EF4444")).
			Padding(0, 1).
			MaxWidth(width),
		toc: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(border).
			PaddingLeft(1),
	}
}

func colour(hex, fallback string) lipgloss.Color {
	if hex == "" {
		hex = fallback
	}
	return lipgloss.Color(hex)
}

