package tui

import (
	"context"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
)

// mockChapterService implements driving.ChapterService for testing.
type mockChapterService struct {
	refs     []domain.ChapterRef
	rendered map[string]*domain.RenderedChapter
	err      error
}

func (m *mockChapterService) List(_ context.Context) ([]domain.ChapterRef, error) {
	return m.refs, m.err
}

func (m *mockChapterService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockChapterService) Sections(_ context.Context, _ string) ([]domain.Section, error) {
	return nil, nil
}

func (m *mockChapterService) Blocks(_ context.Context, _ string) ([]domain.Block, error) {
	return nil, nil
}

func (m *mockChapterService) Render(_ context.Context, slug string) (*domain.RenderedChapter, error) {
	if m.err != nil {
		return nil, m.err
	}
	if ch, ok := m.rendered[slug]; ok {
		return ch, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockChapterService) Navigation(_ context.Context, _ string) (domain.Navigation, error) {
	return domain.Navigation{}, nil
}

func (m *mockChapterService) Explain(_ context.Context, _ string) ([]driving.BlockExplanation, error) {
	return nil, nil
}

func (m *mockChapterService) Validate(_ context.Context, _ string) error {
	return nil
}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results []domain.SearchResult
}

func (m *mockSearchService) Search(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	return m.results, nil
}

func (m *mockSearchService) Reindex(_ context.Context) (int, error) {
	return len(m.results), nil
}

func newMockChapters() *mockChapterService {
	next := "part1/ch1"
	return &mockChapterService{
		refs: []domain.ChapterRef{
			{Slug: "part0/ch0", Title: "半导体简史"},
			{Slug: "part1/ch1", Title: "晶体结构"},
		},
		rendered: map[string]*domain.RenderedChapter{
			"part0/ch0": {
				Slug:       "part0/ch0",
				Title:      "半导体简史",
				Navigation: domain.Navigation{Next: &next},
				Blocks: []domain.RenderedBlock{
					{Component: "TimelineModule", Node: domain.Node{Title: "时间线", Text: "1947 晶体管"}},
				},
			},
		},
	}
}
