package driven

import "github.com/semiconbook/chaptermap/internal/core/domain"

// Presenter turns a rendered chapter into output.
type Presenter interface {
	// Format returns the presenter's format name (e.g. "terminal", "json").
	Format() string

	// Present renders the chapter.
	Present(chapter *domain.RenderedChapter) (string, error)
}
