// Package search provides the chapter search view for the TUI.
package search

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/components/input"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/components/list"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/keymap"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/messages"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/styles"
	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
)

// DefaultLimit caps the number of hits requested per query.
const DefaultLimit = 20

// View represents the search view with an input and a results list.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	input  *input.QueryInput
	list   *list.ItemList

	searchService driving.SearchService
	ctx           context.Context

	results    []domain.SearchResult
	query      string
	searching  bool
	width      int
	height     int
	err        error
	focusInput bool // true = typing a query, false = navigating results
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQueryInput(s, ""),
		list:          list.NewItemList(s, "No results"),
		searchService: searchService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChapters}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := v.input.Value()
			if query == "" {
				return v, nil
			}
			v.searching = true
			v.focusInput = false
			v.input.Blur()
			return v, v.performSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Select):
		item := v.list.SelectedItem()
		if item == nil {
			return v, nil
		}
		slug := item.Slug
		return v, func() tea.Msg { return messages.ChapterSelected{Slug: slug} }
	case keymap.Matches(msg.String(), v.keymap.Search), msg.String() == "n":
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// performSearch executes a search and returns results.
func (v *View) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.SearchCompleted{Query: query, Err: domain.ErrSearchUnavailable}
		}
		results, err := v.searchService.Search(v.ctx, query, domain.SearchOptions{Limit: DefaultLimit})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// handleSearchCompleted processes search results.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	v.searching = false
	v.query = msg.Query
	if msg.Err != nil {
		v.err = msg.Err
		v.focusInput = true
		v.input.Focus()
		return
	}

	v.err = nil
	v.results = msg.Results
	v.list.SetItems(list.FromResults(msg.Results))
	v.focusInput = false
	v.input.Blur()
}

// View renders the search view.
func (v *View) View() string {
	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Search chapters"), "", v.input.View(), "")

	switch {
	case v.searching:
		sections = append(sections, v.styles.Muted.Render("Searching..."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	default:
		if v.query != "" {
			sections = append(sections, v.styles.Subtitle.Render(
				fmt.Sprintf("Results for %q (%d)", v.query, len(v.results))), "")
		}
		sections = append(sections, v.list.View())
	}

	help := []key.Binding{v.keymap.Select, v.keymap.Back}
	sections = append(sections, "", v.styles.Help.Render(keymap.HelpLine(help)+"  [n] new search"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
}

// Query returns the text currently in the input.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.results
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset returns the view to input mode with no results.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetItems(nil)
	v.results = nil
	v.query = ""
	v.searching = false
	v.err = nil
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
