package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/themes"
)

func TestDefaultTheme_UsesDefaultBookTheme(t *testing.T) {
	book, ok := themes.ByName(themes.DefaultName)
	require.True(t, ok)

	theme := DefaultTheme()

	assert.Equal(t, themes.DefaultName, theme.Name)
	assert.Equal(t, lipgloss.Color(book.Primary), theme.Primary)
	assert.Equal(t, lipgloss.Color(book.Secondary), theme.Secondary)
	assert.Equal(t, lipgloss.Color(book.Accent), theme.Border)
}

func TestFromChapterTheme(t *testing.T) {
	tests := []struct {
		name  string
		theme domain.Theme
	}{
		{"history", themes.ForChapter("part0/ch0")},
		{"crystal", themes.ForChapter("part1/ch1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromChapterTheme(tt.theme)

			assert.Equal(t, tt.theme.Name, got.Name)
			assert.Equal(t, lipgloss.Color(tt.theme.Primary), got.Primary)
			assert.Equal(t, lipgloss.Color(tt.theme.Accent), got.Border)
			// Terminal neutrals do not follow the light page colours.
			assert.NotEqual(t, lipgloss.Color(tt.theme.Text), got.Foreground)
		})
	}
}

func TestFromChapterTheme_PartialFallsBack(t *testing.T) {
	got := FromChapterTheme(domain.Theme{Primary: "#123456"})
	def := DefaultTheme()

	assert.Equal(t, themes.DefaultName, got.Name)
	assert.Equal(t, lipgloss.Color("#123456"), got.Primary)
	assert.Equal(t, def.Secondary, got.Secondary)
	assert.Equal(t, def.Border, got.Border)
}

func TestNewStyles(t *testing.T) {
	theme := FromChapterTheme(themes.ForChapter("part1/ch1"))

	s := NewStyles(theme)

	assert.Same(t, theme, s.Theme())
	assert.NotNil(t, NewStyles(nil).Theme())
	assert.NotNil(t, DefaultStyles().Theme())
}

func TestStyles_Render(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"title":    s.Title,
		"subtitle": s.Subtitle,
		"normal":   s.Normal,
		"muted":    s.Muted,
		"selected": s.Selected,
		"error":    s.Error,
		"input":    s.InputField,
		"help":     s.Help,
	} {
		assert.Contains(t, style.Render("晶体管"), "晶体管", name)
	}
}
