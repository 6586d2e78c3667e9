package mcp

import (
	"context"
	"fmt"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
)

// mockChapterService is a mock implementation of driving.ChapterService.
type mockChapterService struct {
	refs         []domain.ChapterRef
	docs         map[string]*domain.Document
	sections     []domain.Section
	rendered     *domain.RenderedChapter
	explanations []driving.BlockExplanation
	err          error
}

var _ driving.ChapterService = (*mockChapterService)(nil)

func (m *mockChapterService) List(_ context.Context) ([]domain.ChapterRef, error) {
	return m.refs, m.err
}

func (m *mockChapterService) Get(_ context.Context, slug string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[slug]
	if !ok {
		return nil, fmt.Errorf("%s: %w", slug, domain.ErrDocumentNotFound)
	}
	return doc, nil
}

func (m *mockChapterService) Sections(_ context.Context, _ string) ([]domain.Section, error) {
	return m.sections, m.err
}

func (m *mockChapterService) Blocks(_ context.Context, _ string) ([]domain.Block, error) {
	return nil, m.err
}

func (m *mockChapterService) Render(_ context.Context, slug string) (*domain.RenderedChapter, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.rendered == nil || m.rendered.Slug != slug {
		return nil, fmt.Errorf("%s: %w", slug, domain.ErrDocumentNotFound)
	}
	return m.rendered, nil
}

func (m *mockChapterService) Navigation(_ context.Context, _ string) (domain.Navigation, error) {
	return domain.Navigation{}, m.err
}

func (m *mockChapterService) Explain(_ context.Context, _ string) ([]driving.BlockExplanation, error) {
	return m.explanations, m.err
}

func (m *mockChapterService) Validate(_ context.Context, _ string) error {
	return m.err
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockSearchService) Reindex(_ context.Context) (int, error) {
	return len(m.results), m.err
}
