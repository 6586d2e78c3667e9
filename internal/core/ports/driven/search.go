package driven

import (
	"context"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// SearchIndex provides full-text search over chapters.
type SearchIndex interface {
	// Index adds or replaces a chapter in the index.
	Index(ctx context.Context, entry domain.SearchEntry) error

	// Delete removes a chapter from the index.
	Delete(ctx context.Context, slug string) error

	// Search returns chapters matching query, best first.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Count returns the number of indexed chapters.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
