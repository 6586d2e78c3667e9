// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/styles"
	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// Item is one selectable row.
type Item struct {
	// Slug identifies the chapter the row opens.
	Slug string
	// Title is the main line.
	Title string
	// Meta is shown muted after the title (slug, score).
	Meta string
	// Detail is an optional preview line.
	Detail string
}

// FromChapters builds rows for a chapter listing.
func FromChapters(chapters []domain.ChapterRef) []Item {
	items := make([]Item, 0, len(chapters))
	for _, ch := range chapters {
		items = append(items, Item{Slug: ch.Slug, Title: ch.Title, Meta: ch.Slug})
	}
	return items
}

// FromResults builds rows for search hits. The first highlight is the preview.
func FromResults(results []domain.SearchResult) []Item {
	items := make([]Item, 0, len(results))
	for _, r := range results {
		item := Item{
			Slug:  r.Chapter.Slug,
			Title: r.Chapter.Title,
			Meta:  fmt.Sprintf("%s  %.1f", r.Chapter.Slug, r.Score),
		}
		if len(r.Highlights) > 0 {
			item.Detail = r.Highlights[0]
		}
		items = append(items, item)
	}
	return items
}

// ItemList displays items in a navigable list.
type ItemList struct {
	items    []Item
	selected int
	styles   *styles.Styles
	empty    string
	width    int
	height   int
}

// NewItemList creates a list that shows empty when it has no items.
func NewItemList(s *styles.Styles, empty string) *ItemList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if empty == "" {
		empty = "No items"
	}

	return &ItemList{
		styles: s,
		empty:  empty,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *ItemList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *ItemList) Update(msg tea.Msg) (*ItemList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.items) > 0 {
				l.selected = len(l.items) - 1
			}
		}
	}
	return l, nil
}

// View renders the visible window of items.
func (l *ItemList) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render(l.empty)
	}

	// Rows with a detail line take two lines; budget for the worst case.
	visible := (l.height - 2) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.items) {
		end = len(l.items)
	}

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i, &l.items[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *ItemList) renderItem(index int, item *Item) string {
	title := item.Title
	if title == "" {
		title = "(Untitled)"
	}
	maxTitle := l.width - len(item.Meta) - 6
	if maxTitle < 10 {
		maxTitle = 10
	}
	title = truncate(title, maxTitle)

	var line string
	if index == l.selected {
		line = l.styles.Selected.Render("> "+title) + "  " + l.styles.Muted.Render(item.Meta)
	} else {
		line = l.styles.Normal.Render("  "+title) + "  " + l.styles.Muted.Render(item.Meta)
	}

	if item.Detail != "" {
		line += "\n" + l.styles.Muted.Render("    "+truncate(item.Detail, l.width-6))
	}
	return line
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n < 2 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// SetItems replaces the items and resets the selection.
func (l *ItemList) SetItems(items []Item) {
	l.items = items
	l.selected = 0
}

// Items returns the current items.
func (l *ItemList) Items() []Item {
	return l.items
}

// Selected returns the index of the selected item.
func (l *ItemList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index, ignoring out-of-range values.
func (l *ItemList) SetSelected(index int) {
	if index >= 0 && index < len(l.items) {
		l.selected = index
	}
}

// SelectBySlug moves the selection to the item with the given slug.
func (l *ItemList) SelectBySlug(slug string) bool {
	for i := range l.items {
		if l.items[i].Slug == slug {
			l.selected = i
			return true
		}
	}
	return false
}

// SelectedItem returns the selected item, or nil when the list is empty.
func (l *ItemList) SelectedItem() *Item {
	if l.selected < 0 || l.selected >= len(l.items) {
		return nil
	}
	return &l.items[l.selected]
}

// MoveUp moves selection up.
func (l *ItemList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *ItemList) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *ItemList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of items.
func (l *ItemList) Count() int {
	return len(l.items)
}
