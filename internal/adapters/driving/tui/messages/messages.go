// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChapters is the chapter list.
	ViewChapters ViewType = iota
	// ViewReader shows one rendered chapter.
	ViewReader
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChapters:
		return "chapters"
	case ViewReader:
		return "reader"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ChaptersLoaded carries the chapter list.
type ChaptersLoaded struct {
	Chapters []domain.ChapterRef
	Err      error
}

// ChapterSelected asks the reader to open a chapter.
type ChapterSelected struct {
	Slug string
}

// ChapterRendered carries a rendered chapter and its presented text.
type ChapterRendered struct {
	Slug    string
	Chapter *domain.RenderedChapter
	Content string
	Err     error
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
