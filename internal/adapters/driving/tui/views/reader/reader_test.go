package reader

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/messages"
	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
)

type stubChapters struct {
	driving.ChapterService
	rendered map[string]*domain.RenderedChapter
}

func (s *stubChapters) Render(_ context.Context, slug string) (*domain.RenderedChapter, error) {
	if ch, ok := s.rendered[slug]; ok {
		return ch, nil
	}
	return nil, domain.ErrNotFound
}

type stubPresenter struct {
	err error
}

func (p *stubPresenter) Format() string { return "stub" }

func (p *stubPresenter) Present(chapter *domain.RenderedChapter) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "presented " + chapter.Slug, nil
}

func strPtr(s string) *string { return &s }

func sampleChapter() *domain.RenderedChapter {
	return &domain.RenderedChapter{
		Slug:  "part1/ch1",
		Title: "晶体结构",
		Navigation: domain.Navigation{
			Prev: strPtr("part0/ch0"),
			Next: strPtr("part1/ch2"),
		},
		Blocks: []domain.RenderedBlock{
			{Position: 0, Component: "ConceptExplanationModule", Node: domain.Node{Title: "晶格", Text: "周期性排列"}},
			{Position: 1, Component: "MissingModule", Placeholder: true, Warning: "component not registered"},
		},
		Warnings: []string{"unmatched block 2"},
	}
}

func open(t *testing.T, v *View, slug string) *View {
	t.Helper()
	cmd := v.Open(slug)
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func newReader(p *stubPresenter) *View {
	svc := &stubChapters{rendered: map[string]*domain.RenderedChapter{"part1/ch1": sampleChapter()}}
	if p == nil {
		return NewView(nil, nil, svc, nil)
	}
	return NewView(nil, nil, svc, p)
}

func TestView_OpenWithPresenter(t *testing.T) {
	v := NewView(nil, nil, &stubChapters{rendered: map[string]*domain.RenderedChapter{"part1/ch1": sampleChapter()}}, &stubPresenter{})

	cmd := v.Open("part1/ch1")
	assert.True(t, v.Loading())
	assert.Contains(t, v.View(), "Rendering...")

	v, _ = v.Update(cmd())
	assert.False(t, v.Loading())
	require.NotNil(t, v.Chapter())

	view := v.View()
	assert.Contains(t, view, "晶体结构")
	assert.Contains(t, view, "presented part1/ch1")
	assert.Contains(t, view, "← part0/ch0")
	assert.Contains(t, view, "part1/ch2 →")
}

func TestView_OpenWithoutPresenterUsesMarkdown(t *testing.T) {
	v := open(t, newReader(nil), "part1/ch1")

	view := v.View()
	assert.Contains(t, view, "ConceptExplanationModule")
	assert.Contains(t, view, "### 晶格")
}

func TestView_OpenUnknownChapter(t *testing.T) {
	v := open(t, newReader(nil), "part9/ch9")

	assert.ErrorIs(t, v.Err(), domain.ErrNotFound)
	assert.Contains(t, v.View(), "Error:")
}

func TestView_PresenterError(t *testing.T) {
	v := open(t, newReader(&stubPresenter{err: errors.New("bad style")}), "part1/ch1")

	require.Error(t, v.Err())
	assert.Contains(t, v.Err().Error(), "present part1/ch1")
}

func TestView_NoService(t *testing.T) {
	v := open(t, NewView(nil, nil, nil, nil), "part0/ch0")

	assert.ErrorIs(t, v.Err(), ErrNoChapterService)
}

func TestView_IgnoresStaleRender(t *testing.T) {
	v := newReader(nil)
	stale := v.Open("part1/ch1")
	v.Open("part0/ch0")

	v, _ = v.Update(stale())

	assert.True(t, v.Loading())
	assert.Nil(t, v.Chapter())
	assert.Equal(t, "part0/ch0", v.Slug())
}

func TestView_ChapterNavigation(t *testing.T) {
	v := open(t, newReader(nil), "part1/ch1")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ChapterSelected{Slug: "part1/ch2"}, cmd())

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ChapterSelected{Slug: "part0/ch0"}, cmd())
}

func TestView_NavigationAtEnds(t *testing.T) {
	ch := sampleChapter()
	ch.Navigation = domain.Navigation{}
	v := open(t, NewView(nil, nil, &stubChapters{rendered: map[string]*domain.RenderedChapter{"part1/ch1": ch}}, nil), "part1/ch1")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	assert.Nil(t, cmd)
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")})
	assert.Nil(t, cmd)
}

func TestView_EscGoesBack(t *testing.T) {
	v := newReader(nil)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewChapters}, cmd())
}

func TestView_SetDimensions(t *testing.T) {
	v := newReader(nil)

	v.SetDimensions(100, 30)
	assert.Equal(t, 100, v.viewport.Width)
	assert.Equal(t, 26, v.viewport.Height)

	v.SetDimensions(100, 2)
	assert.Equal(t, 1, v.viewport.Height)
}

func TestPlainText(t *testing.T) {
	text := PlainText(sampleChapter())

	assert.Contains(t, text, "! unmatched block 2")
	assert.Contains(t, text, "[0] ConceptExplanationModule\n### 晶格")
	assert.Contains(t, text, "(unavailable) component not registered")
}

func TestPlainText_RawFallback(t *testing.T) {
	text := PlainText(&domain.RenderedChapter{Raw: "# 原文"})

	assert.Equal(t, "# 原文", text)
}

func TestView_AppliesChapterTheme(t *testing.T) {
	ch := sampleChapter()
	ch.Theme = domain.Theme{Name: "crystal", Primary: "#123456"}
	v := open(t, NewView(nil, nil, &stubChapters{rendered: map[string]*domain.RenderedChapter{"part1/ch1": ch}}, nil), "part1/ch1")

	assert.Equal(t, "#123456", string(v.styles.Theme().Primary))
}
