// Package reader provides the chapter reading view for the TUI.
package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/keymap"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/messages"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/styles"
	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
)

// chrome is the number of lines used by the header and footer.
const chrome = 4

// View shows one rendered chapter in a scrollable viewport.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	viewport  viewport.Model
	service   driving.ChapterService
	presenter driven.Presenter
	ctx       context.Context

	slug    string
	chapter *domain.RenderedChapter
	loading bool
	err     error
	width   int
	height  int
}

// NewView creates a reader. A nil presenter renders plain markdown.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	service driving.ChapterService,
	presenter driven.Presenter,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		viewport:  viewport.New(80, 24-chrome),
		service:   service,
		presenter: presenter,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open starts rendering the chapter with the given slug.
func (v *View) Open(slug string) tea.Cmd {
	v.slug = slug
	v.loading = true
	v.err = nil
	return func() tea.Msg {
		if v.service == nil {
			return messages.ChapterRendered{Slug: slug, Err: ErrNoChapterService}
		}
		chapter, err := v.service.Render(v.ctx, slug)
		if err != nil {
			return messages.ChapterRendered{Slug: slug, Err: err}
		}
		content, err := v.present(chapter)
		return messages.ChapterRendered{Slug: slug, Chapter: chapter, Content: content, Err: err}
	}
}

func (v *View) present(chapter *domain.RenderedChapter) (string, error) {
	if v.presenter != nil {
		out, err := v.presenter.Present(chapter)
		if err != nil {
			return "", fmt.Errorf("present %s: %w", chapter.Slug, err)
		}
		return out, nil
	}
	return PlainText(chapter), nil
}

// PlainText renders a chapter as markdown without terminal styling.
func PlainText(chapter *domain.RenderedChapter) string {
	if chapter.Raw != "" && len(chapter.Blocks) == 0 {
		return chapter.Raw
	}
	var b strings.Builder
	for _, w := range chapter.Warnings {
		b.WriteString("! " + w + "\n")
	}
	for _, block := range chapter.Blocks {
		fmt.Fprintf(&b, "[%d] %s\n", block.Position, block.Component)
		if block.Placeholder {
			msg := block.Warning
			if block.Err != nil {
				msg = block.Err.Error()
			}
			b.WriteString("(unavailable) " + msg + "\n\n")
			continue
		}
		if md := block.Node.Markdown(); md != "" {
			b.WriteString(md + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Update handles messages for the reader.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ChapterRendered:
		if msg.Slug != v.slug {
			// A stale render from a chapter the user already left.
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		v.chapter = msg.Chapter
		if msg.Chapter != nil {
			v.styles = styles.NewStyles(styles.FromChapterTheme(msg.Chapter.Theme))
		}
		if msg.Err == nil {
			v.viewport.SetContent(msg.Content)
			v.viewport.GotoTop()
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewChapters} }
		case keymap.Matches(msg.String(), v.keymap.PrevChapter):
			return v, v.follow(v.prev())
		case keymap.Matches(msg.String(), v.keymap.NextChapter):
			return v, v.follow(v.next())
		case keymap.Matches(msg.String(), v.keymap.Top):
			v.viewport.GotoTop()
			return v, nil
		case keymap.Matches(msg.String(), v.keymap.Bottom):
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) follow(slug string) tea.Cmd {
	if slug == "" {
		return nil
	}
	return func() tea.Msg { return messages.ChapterSelected{Slug: slug} }
}

func (v *View) prev() string {
	if v.chapter == nil || v.chapter.Navigation.Prev == nil {
		return ""
	}
	return *v.chapter.Navigation.Prev
}

func (v *View) next() string {
	if v.chapter == nil || v.chapter.Navigation.Next == nil {
		return ""
	}
	return *v.chapter.Navigation.Next
}

// View renders the reader.
func (v *View) View() string {
	title := v.slug
	if v.chapter != nil && v.chapter.Title != "" {
		title = v.chapter.Title
	}
	header := v.styles.Title.Render(title) + "  " + v.styles.Muted.Render(v.slug)

	var body string
	switch {
	case v.loading:
		body = v.styles.Muted.Render("Rendering...")
	case v.err != nil:
		body = v.styles.Error.Render("Error: " + v.err.Error())
	default:
		body = v.viewport.View()
	}

	nav := fmt.Sprintf("%3.0f%%", v.viewport.ScrollPercent()*100)
	if p := v.prev(); p != "" {
		nav = "← " + p + "  " + nav
	}
	if n := v.next(); n != "" {
		nav += "  " + n + " →"
	}
	footer := v.styles.Help.Render(nav + "  " + keymap.HelpLine([]key.Binding{v.keymap.PrevChapter, v.keymap.NextChapter, v.keymap.Back}))

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, footer)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	h := height - chrome
	if h < 1 {
		h = 1
	}
	v.viewport.Height = h
}

// Slug returns the slug of the open chapter.
func (v *View) Slug() string {
	return v.slug
}

// Chapter returns the rendered chapter, nil until loaded.
func (v *View) Chapter() *domain.RenderedChapter {
	return v.chapter
}

// Loading reports whether a render is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last render error.
func (v *View) Err() error {
	return v.err
}
