package driving

import (
	"context"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search finds chapters matching the query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// Reindex rebuilds the index from the content source.
	// Returns the number of indexed chapters.
	Reindex(ctx context.Context) (int, error)
}
