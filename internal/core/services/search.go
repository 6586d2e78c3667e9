package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
	"github.com/semiconbook/chaptermap/internal/logger"
	"github.com/semiconbook/chaptermap/internal/mdx"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// defaultSearchLimit applies when SearchOptions.Limit is not positive.
const defaultSearchLimit = 20

// SearchService provides full-text search over chapters.
type SearchService struct {
	content driven.ContentSource
	index   driven.SearchIndex
}

// NewSearchService creates a new search service.
func NewSearchService(content driven.ContentSource, index driven.SearchIndex) *SearchService {
	return &SearchService{content: content, index: index}
}

// Search finds chapters matching the query.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}
	if s.index == nil {
		return nil, fmt.Errorf("search: %w", domain.ErrSearchUnavailable)
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchLimit
	}
	logger.Debug("Limit: %d, Part: %q", opts.Limit, opts.Part)

	results, err := s.index.Search(ctx, query, opts)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}
	logger.Debug("Results: %d", len(results))
	return results, nil
}

// Reindex rebuilds the index from the content source.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, fmt.Errorf("reindex: %w", domain.ErrSearchUnavailable)
	}
	if s.content == nil {
		return 0, fmt.Errorf("reindex: no content source: %w", domain.ErrInvalidConfig)
	}
	refs, err := s.content.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("reindex: %w", err)
	}
	if err := s.index.Clear(ctx); err != nil {
		return 0, fmt.Errorf("reindex: clear: %w", err)
	}

	count := 0
	for _, ref := range refs {
		if err := s.indexSlug(ctx, ref.Slug); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("chapter %s vanished during reindex", ref.Slug)
				continue
			}
			return count, fmt.Errorf("reindex: %w", err)
		}
		count++
	}
	logger.Info("Indexed %d chapters", count)
	return count, nil
}

// Refresh re-indexes one chapter after a content change. Chapters that no
// longer exist are removed from the index.
func (s *SearchService) Refresh(ctx context.Context, slug string) error {
	if s.index == nil {
		return fmt.Errorf("refresh %s: %w", slug, domain.ErrSearchUnavailable)
	}
	err := s.indexSlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return s.index.Delete(ctx, slug)
	}
	return err
}

func (s *SearchService) indexSlug(ctx context.Context, slug string) error {
	doc, err := s.content.Get(ctx, slug)
	if err != nil {
		return err
	}
	return s.index.Index(ctx, entryFor(doc))
}

// entryFor builds the search entry of a document. Keywords are indexed
// as tags.
func entryFor(doc *domain.Document) domain.SearchEntry {
	part, chapter, _ := strings.Cut(doc.Slug, "/")
	tags := append([]string{}, doc.Tags()...)
	tags = append(tags, doc.Keywords()...)
	return domain.SearchEntry{
		Slug:    doc.Slug,
		Title:   doc.Title(),
		Content: mdx.PlainText(doc.Content),
		Part:    part,
		Chapter: chapter,
		Tags:    tags,
	}
}
