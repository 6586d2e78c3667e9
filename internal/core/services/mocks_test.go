package services

import (
	"context"
	"sort"
	"sync"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockContentSource implements driven.ContentSource for testing.
type mockContentSource struct {
	docs    map[string]*domain.Document
	listErr error
	getErr  error
}

var _ driven.ContentSource = (*mockContentSource)(nil)

func newMockContent(docs ...*domain.Document) *mockContentSource {
	m := &mockContentSource{docs: make(map[string]*domain.Document)}
	for _, d := range docs {
		m.docs[d.Slug] = d
	}
	return m
}

func (m *mockContentSource) Get(_ context.Context, slug string) (*domain.Document, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	doc, ok := m.docs[slug]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, nil
}

// List returns refs in reverse slug order so callers must apply their
// own ordering.
func (m *mockContentSource) List(_ context.Context) ([]domain.ChapterRef, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	refs := make([]domain.ChapterRef, 0, len(m.docs))
	for slug, doc := range m.docs {
		refs = append(refs, domain.ChapterRef{Slug: slug, Title: doc.Title()})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Slug > refs[j].Slug })
	return refs, nil
}

// mockConfigSource implements driven.ChapterConfigSource for testing.
type mockConfigSource struct {
	cfg   *domain.ChapterConfig
	err   error
	calls []string
}

var _ driven.ChapterConfigSource = (*mockConfigSource)(nil)

func (m *mockConfigSource) Load(_ context.Context, slug string) (*domain.ChapterConfig, error) {
	m.calls = append(m.calls, slug)
	if m.err != nil {
		return nil, m.err
	}
	cfg := *m.cfg
	cfg.Slug = slug
	return &cfg, nil
}

// mockSearchIndex implements driven.SearchIndex for testing.
type mockSearchIndex struct {
	mu        sync.Mutex
	entries   map[string]domain.SearchEntry
	results   []domain.SearchResult
	lastOpts  domain.SearchOptions
	searchErr error
	indexErr  error
	cleared   int
	deleted   []string
}

var _ driven.SearchIndex = (*mockSearchIndex)(nil)

func newMockIndex() *mockSearchIndex {
	return &mockSearchIndex{entries: make(map[string]domain.SearchEntry)}
}

func (m *mockSearchIndex) Index(_ context.Context, entry domain.SearchEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexErr != nil {
		return m.indexErr
	}
	m.entries[entry.Slug] = entry
	return nil
}

func (m *mockSearchIndex) Delete(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, slug)
	m.deleted = append(m.deleted, slug)
	return nil
}

func (m *mockSearchIndex) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOpts = opts
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

func (m *mockSearchIndex) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]domain.SearchEntry)
	m.cleared++
	return nil
}

func (m *mockSearchIndex) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

func (m *mockSearchIndex) Close() error {
	return nil
}
