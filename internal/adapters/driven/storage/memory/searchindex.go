package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
)

// Ensure SearchIndex implements the interface.
var _ driven.SearchIndex = (*SearchIndex)(nil)

// snippetRadius is the context kept on each side of a highlight.
const snippetRadius = 50

// SearchIndex is an in-memory implementation of driven.SearchIndex.
type SearchIndex struct {
	mu      sync.RWMutex
	entries map[string]domain.SearchEntry
}

// NewSearchIndex creates an empty in-memory search index.
func NewSearchIndex() *SearchIndex {
	return &SearchIndex{entries: make(map[string]domain.SearchEntry)}
}

// Index adds or replaces a chapter.
func (s *SearchIndex) Index(_ context.Context, entry domain.SearchEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Tags = append([]string(nil), entry.Tags...)
	s.entries[entry.Slug] = entry
	return nil
}

// Delete removes a chapter. Unknown slugs are ignored.
func (s *SearchIndex) Delete(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, slug)
	return nil
}

// Search returns matching chapters, best first, ties by slug.
func (s *SearchIndex) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []domain.SearchResult{}
	for _, entry := range s.entries {
		if opts.Part != "" && entry.Part != opts.Part {
			continue
		}
		score := entry.Score(query)
		if score == 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			Chapter:    entry.Ref(),
			Score:      score,
			Highlights: []string{entry.Snippet(query, snippetRadius)},
		})
	}
	sortResults(results)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

func sortResults(results []domain.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chapter.Slug < results[j].Chapter.Slug
	})
}

// Clear removes every chapter.
func (s *SearchIndex) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]domain.SearchEntry)
	return nil
}

// Count returns the number of indexed chapters.
func (s *SearchIndex) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close is a no-op.
func (s *SearchIndex) Close() error {
	return nil
}
