package driven

import (
	"context"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// ContentSource loads chapter documents.
type ContentSource interface {
	// Get returns the document for a slug.
	// Returns domain.ErrDocumentNotFound when no document exists.
	// A document whose frontmatter cannot be parsed is returned with
	// Malformed set rather than as an error.
	Get(ctx context.Context, slug string) (*domain.Document, error)

	// List returns every available chapter.
	List(ctx context.Context) ([]domain.ChapterRef, error)
}

// ContentWatcher reports changes to chapter sources.
type ContentWatcher interface {
	// Watch emits changes until ctx is cancelled, then closes the channel.
	Watch(ctx context.Context) (<-chan domain.ContentChange, error)
}

// ChapterConfigSource loads mapping configuration for chapters.
type ChapterConfigSource interface {
	// Load returns the effective configuration for a chapter: the chapter's
	// own rules merged over the default configuration.
	Load(ctx context.Context, slug string) (*domain.ChapterConfig, error)
}
