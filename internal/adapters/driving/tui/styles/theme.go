// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/themes"
)

// Terminal neutrals. Book themes target a light page, so their background
// and text colours are not used in the terminal.
const (
	foreground = lipgloss.Color("#CDD6F4")
	muted      = lipgloss.Color("#6C7086")
	errorRed   = lipgloss.Color("#F38BA8")
)

// Theme is the TUI palette.
type Theme struct {
	// Name is the book theme the palette was derived from.
	Name string

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Border    lipgloss.Color

	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme returns the palette of the default book theme.
func DefaultTheme() *Theme {
	t, _ := themes.ByName(themes.DefaultName)
	return FromChapterTheme(t)
}

// FromChapterTheme derives a palette from a chapter theme. Missing accent
// colours fall back to the default book theme.
func FromChapterTheme(ct domain.Theme) *Theme {
	base, _ := themes.ByName(themes.DefaultName)
	pick := func(v, fallback string) lipgloss.Color {
		if v == "" {
			return lipgloss.Color(fallback)
		}
		return lipgloss.Color(v)
	}
	name := ct.Name
	if name == "" {
		name = themes.DefaultName
	}
	return &Theme{
		Name:       name,
		Primary:    pick(ct.Primary, base.Primary),
		Secondary:  pick(ct.Secondary, base.Secondary),
		Border:     pick(ct.Accent, base.Accent),
		Foreground: foreground,
		Muted:      muted,
		Error:      errorRed,
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style

	// InputField frames text inputs.
	InputField lipgloss.Style

	// Help renders key hints in footers.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),
		Error: lipgloss.NewStyle().Foreground(theme.Error),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
