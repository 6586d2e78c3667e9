// Package chapters provides the chapter list view for the TUI.
package chapters

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/components/list"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/keymap"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/messages"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/styles"
	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
)

// View lists the chapters in reading order.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	list     *list.ItemList
	service  driving.ChapterService
	ctx      context.Context
	chapters []domain.ChapterRef
	loading  bool
	err      error
	width    int
	height   int
}

// NewView creates a chapter list view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.ChapterService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		list:    list.NewItemList(s, "No chapters found"),
		service: service,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the chapter list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.ChaptersLoaded{Err: ErrNoChapterService}
		}
		refs, err := v.service.List(v.ctx)
		return messages.ChaptersLoaded{Chapters: refs, Err: err}
	}
}

// Update handles messages for the chapter list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ChaptersLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.chapters = msg.Chapters
			v.list.SetItems(list.FromChapters(msg.Chapters))
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Select):
			item := v.list.SelectedItem()
			if item == nil {
				return v, nil
			}
			slug := item.Slug
			return v, func() tea.Msg { return messages.ChapterSelected{Slug: slug} }
		case keymap.Matches(msg.String(), v.keymap.Search):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSearch} }
		case msg.String() == "r":
			v.loading = true
			return v, v.load()
		}
		v.list, _ = v.list.Update(msg)
	}
	return v, nil
}

// View renders the chapter list.
func (v *View) View() string {
	sections := []string{
		v.styles.Title.Render("Chapters"),
		"",
	}
	switch {
	case v.loading:
		sections = append(sections, v.styles.Muted.Render("Loading chapters..."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	default:
		sections = append(sections, v.list.View())
	}
	footer := fmt.Sprintf("%d chapters  %s", len(v.chapters),
		keymap.HelpLine([]key.Binding{v.keymap.Select, v.keymap.Search, v.keymap.Help, v.keymap.Quit}))
	sections = append(sections, "", v.styles.Help.Render(footer))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-5)
}

// Highlight moves the selection to slug, e.g. after returning from the reader.
func (v *View) Highlight(slug string) {
	v.list.SelectBySlug(slug)
}

// Chapters returns the loaded chapters.
func (v *View) Chapters() []domain.ChapterRef {
	return v.chapters
}

// Selected returns the selected chapter slug, or "" when the list is empty.
func (v *View) Selected() string {
	if item := v.list.SelectedItem(); item != nil {
		return item.Slug
	}
	return ""
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
