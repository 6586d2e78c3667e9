package cli

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
)

type mockChapterService struct {
	refs         []domain.ChapterRef
	invalid      map[string]error
	explanations []driving.BlockExplanation
	rendered     map[string]*domain.RenderedChapter
}

func (m *mockChapterService) List(_ context.Context) ([]domain.ChapterRef, error) {
	return m.refs, nil
}

func (m *mockChapterService) Get(_ context.Context, slug string) (*domain.Document, error) {
	return &domain.Document{Slug: slug, Content: "# 标题"}, nil
}

func (m *mockChapterService) Sections(_ context.Context, slug string) ([]domain.Section, error) {
	if slug == "missing" {
		return nil, domain.ErrNotFound
	}
	return []domain.Section{
		{Title: "章节目标", Content: "理解晶体管", Component: "ChapterGoalsModule"},
		{Content: "导言"},
	}, nil
}

func (m *mockChapterService) Blocks(_ context.Context, _ string) ([]domain.Block, error) {
	return []domain.Block{
		{Position: 0, Type: domain.BlockHeading, ContentType: domain.BlockHeading, Text: "晶体结构"},
		{Position: 1, Type: domain.BlockList, ContentType: domain.BlockDefault, Text: "- a\n- b"},
	}, nil
}

func (m *mockChapterService) Render(_ context.Context, slug string) (*domain.RenderedChapter, error) {
	if ch, ok := m.rendered[slug]; ok {
		return ch, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockChapterService) Navigation(_ context.Context, slug string) (domain.Navigation, error) {
	if slug == "part0/ch0" {
		next := "part1/ch1"
		return domain.Navigation{Next: &next}, nil
	}
	return domain.Navigation{}, domain.ErrNotFound
}

func (m *mockChapterService) Explain(_ context.Context, _ string) ([]driving.BlockExplanation, error) {
	return m.explanations, nil
}

func (m *mockChapterService) Validate(_ context.Context, slug string) error {
	return m.invalid[slug]
}

type mockSearchService struct {
	lastQuery string
	lastOpts  domain.SearchOptions
	results   []domain.SearchResult
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, nil
}

func (m *mockSearchService) Reindex(_ context.Context) (int, error) {
	return 3, nil
}

type mockConfigStore struct {
	mu   sync.Mutex
	data map[string]any
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	v, _ := m.Get(key)
	i, _ := v.(int)
	return i
}

func (m *mockConfigStore) GetBool(key string) bool {
	v, _ := m.Get(key)
	b, _ := v.(bool)
	return b
}

func (m *mockConfigStore) GetStringSlice(_ string) []string { return nil }

func (m *mockConfigStore) Set(key string, value any) error {
	if !strings.Contains(key, ".") {
		return domain.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockConfigStore) Save() error  { return nil }
func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return "/tmp/chaptermap/config.toml" }

// recordingPresenter echoes the options it was built with.
type recordingPresenter struct {
	opts PresentOptions
}

func (p *recordingPresenter) Format() string { return p.opts.Format }

func (p *recordingPresenter) Present(ch *domain.RenderedChapter) (string, error) {
	return ch.Title + " format=" + p.opts.Format + " style=" + p.opts.Style + "\n", nil
}

type mockRules struct {
	invalidated []string
	slugs       []string
}

func (m *mockRules) Invalidate(slug string) { m.invalidated = append(m.invalidated, slug) }
func (m *mockRules) Reload()                {}
func (m *mockRules) Slugs() []string        { return m.slugs }

type mockRefresher struct {
	refreshed []string
	err       error
}

func (m *mockRefresher) Refresh(_ context.Context, slug string) error {
	m.refreshed = append(m.refreshed, slug)
	return m.err
}

type mockWatcher struct {
	changes []domain.ContentChange
}

func (m *mockWatcher) Watch(_ context.Context) (<-chan domain.ContentChange, error) {
	ch := make(chan domain.ContentChange, len(m.changes))
	for _, c := range m.changes {
		ch <- c
	}
	close(ch)
	return ch, nil
}

var _ driven.ContentWatcher = (*mockWatcher)(nil)

type testServices struct {
	chapters  *mockChapterService
	search    *mockSearchService
	config    *mockConfigStore
	rules     *mockRules
	refresher *mockRefresher
	watcher   *mockWatcher
}

// setupTestServices installs mocks and returns them with a cleanup func.
func setupTestServices() (*testServices, func()) {
	resetFlags(rootCmd)

	ts := &testServices{
		chapters: &mockChapterService{
			refs: []domain.ChapterRef{
				{Slug: "part0/ch0", Title: "半导体简史"},
				{Slug: "part1/ch1", Title: "晶体结构"},
			},
			rendered: map[string]*domain.RenderedChapter{
				"part0/ch0": {Slug: "part0/ch0", Title: "半导体简史", Blocks: []domain.RenderedBlock{{}, {}}},
			},
		},
		search: &mockSearchService{
			results: []domain.SearchResult{
				{Chapter: domain.ChapterRef{Slug: "part1/ch1", Title: "晶体结构"}, Score: 2.5, Highlights: []string{"...晶体管..."}},
			},
		},
		config:    &mockConfigStore{data: map[string]any{"render.style": "dark", "render.width": 72}},
		rules:     &mockRules{},
		refresher: &mockRefresher{},
		watcher:   &mockWatcher{},
	}

	SetServices(&Services{
		Chapters:  ts.chapters,
		Search:    ts.search,
		Refresher: ts.refresher,
		Watcher:   ts.watcher,
		Rules:     ts.rules,
		Config:    ts.config,
		Presenter: func(opts PresentOptions) (driven.Presenter, error) {
			if opts.Format == "xml" {
				return nil, errors.New("unknown format: xml")
			}
			return &recordingPresenter{opts: opts}, nil
		},
	})

	return ts, func() {
		SetServices(nil)
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
