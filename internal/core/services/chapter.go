package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/semiconbook/chaptermap/internal/classifier"
	"github.com/semiconbook/chaptermap/internal/components"
	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
	"github.com/semiconbook/chaptermap/internal/logger"
	"github.com/semiconbook/chaptermap/internal/mapping"
	"github.com/semiconbook/chaptermap/internal/mdx"
	"github.com/semiconbook/chaptermap/internal/render"
)

// Ensure ChapterService implements the interface.
var _ driving.ChapterService = (*ChapterService)(nil)

// ChapterService loads, classifies, maps and renders chapters.
type ChapterService struct {
	content    driven.ContentSource
	configs    driven.ChapterConfigSource
	registry   *components.Registry
	classifier *classifier.Classifier
	funcs      *mapping.FuncRegistry
}

// ChapterOption configures a ChapterService.
type ChapterOption func(*ChapterService)

// WithClassifier replaces the default block classifier.
func WithClassifier(c *classifier.Classifier) ChapterOption {
	return func(s *ChapterService) {
		s.classifier = c
	}
}

// WithFuncs sets the named props and condition functions available to
// chapter configurations.
func WithFuncs(f *mapping.FuncRegistry) ChapterOption {
	return func(s *ChapterService) {
		s.funcs = f
	}
}

// NewChapterService creates a new chapter service.
// A nil registry uses the built-in components.
func NewChapterService(
	content driven.ContentSource,
	configs driven.ChapterConfigSource,
	registry *components.Registry,
	opts ...ChapterOption,
) *ChapterService {
	s := &ChapterService{content: content, configs: configs, registry: registry}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = components.NewDefaultRegistry()
	}
	if s.classifier == nil {
		s.classifier = classifier.New()
	}
	if s.funcs == nil {
		s.funcs = mapping.DefaultFuncs()
	}
	return s
}

// List returns every chapter in reading order.
func (s *ChapterService) List(ctx context.Context) ([]domain.ChapterRef, error) {
	if s.content == nil {
		return nil, fmt.Errorf("list chapters: no content source: %w", domain.ErrInvalidConfig)
	}
	refs, err := s.content.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	sortChapters(refs)
	return refs, nil
}

// Get returns the document for a slug.
func (s *ChapterService) Get(ctx context.Context, slug string) (*domain.Document, error) {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	if slug == "" {
		return nil, fmt.Errorf("get chapter: empty slug: %w", domain.ErrInvalidInput)
	}
	if s.content == nil {
		return nil, fmt.Errorf("get chapter: no content source: %w", domain.ErrInvalidConfig)
	}
	doc, err := s.content.Get(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get chapter %s: %w", slug, err)
	}
	if doc.Malformed {
		logger.Warn("chapter %s: %s", slug, doc.ParseError)
	}
	return doc, nil
}

// Sections splits a chapter into titled sections.
// A malformed document has no sections.
func (s *ChapterService) Sections(ctx context.Context, slug string) ([]domain.Section, error) {
	doc, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	if doc.Malformed {
		return []domain.Section{}, nil
	}
	return mdx.SplitChapter(doc.Content), nil
}

// Blocks tokenizes and classifies a chapter.
// A malformed document has no blocks.
func (s *ChapterService) Blocks(ctx context.Context, slug string) ([]domain.Block, error) {
	doc, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.blocks(doc), nil
}

func (s *ChapterService) blocks(doc *domain.Document) []domain.Block {
	if doc.Malformed {
		return []domain.Block{}
	}
	return s.classifier.Annotate(mdx.Tokenize(doc.Slug, doc.Content))
}

// config loads the chapter configuration, falling back to the embedded
// default when no config source is set.
func (s *ChapterService) config(ctx context.Context, slug string) (*domain.ChapterConfig, error) {
	if s.configs == nil {
		cfg, err := mapping.DefaultConfig()
		if err != nil {
			return nil, err
		}
		cfg.Slug = slug
		return cfg, nil
	}
	cfg, err := s.configs.Load(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", slug, err)
	}
	return cfg, nil
}

// matcher builds the matcher of a chapter. Unknown components are not
// rejected here; rendering degrades them with a warning.
func (s *ChapterService) matcher(slug string, cfg *domain.ChapterConfig) (*mapping.Matcher, error) {
	set, err := mapping.BuildRuleSet(cfg, mapping.WithChapter(slug), mapping.WithFuncs(s.funcs))
	if err != nil {
		return nil, err
	}
	logger.Debug("chapter %s: %d rules", slug, set.Len())
	return mapping.NewMatcher(set), nil
}

// Render maps every block to a component and builds the presentation tree.
func (s *ChapterService) Render(ctx context.Context, slug string) (*domain.RenderedChapter, error) {
	doc, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	cfg, err := s.config(ctx, doc.Slug)
	if err != nil {
		return nil, err
	}
	m, err := s.matcher(doc.Slug, cfg)
	if err != nil {
		return nil, err
	}
	nav, err := s.Navigation(ctx, doc.Slug)
	if err != nil {
		return nil, err
	}

	r := render.New(m, s.registry.WithChapter(cfg.Registry), render.WithClassifier(s.classifier))
	return r.RenderChapter(ctx, doc, cfg, nav)
}

// Navigation returns the previous and next chapters of slug.
// Unknown slugs have no neighbours.
func (s *ChapterService) Navigation(ctx context.Context, slug string) (domain.Navigation, error) {
	refs, err := s.List(ctx)
	if err != nil {
		return domain.Navigation{}, err
	}
	return neighbours(refs, strings.Trim(slug, "/")), nil
}

// Explain reports, per block, every rule that matched and which one won.
func (s *ChapterService) Explain(ctx context.Context, slug string) ([]driving.BlockExplanation, error) {
	doc, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	cfg, err := s.config(ctx, doc.Slug)
	if err != nil {
		return nil, err
	}
	m, err := s.matcher(doc.Slug, cfg)
	if err != nil {
		return nil, err
	}

	blocks := s.blocks(doc)
	out := make([]driving.BlockExplanation, len(blocks))
	for i := range blocks {
		mctx := domain.ContextFor(doc.Slug, blocks, i, cfg.GlobalProps)
		cands := m.Candidates(blocks[i], mctx)
		top := classifier.TopFeature(blocks[i])
		exp := driving.BlockExplanation{
			Block:            blocks[i],
			Feature:          string(top.Feature),
			FeatureComponent: top.Component,
			Candidates:       make([]driving.RuleCandidate, len(cands)),
		}
		for j, c := range cands {
			exp.Candidates[j] = driving.RuleCandidate{
				Rule:      c.Rule.Name,
				Component: c.Rule.Component,
				Priority:  c.Rule.Priority,
				Score:     c.Score,
				Index:     c.Index,
			}
		}
		out[i] = exp
	}
	return out, nil
}

// Validate builds the rule set of a chapter and reports configuration
// defects, including components that are neither built in nor declared
// by the chapter.
func (s *ChapterService) Validate(ctx context.Context, slug string) error {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	cfg, err := s.config(ctx, slug)
	if err != nil {
		return err
	}
	known := func(name string) bool {
		if s.registry.Has(name) {
			return true
		}
		_, ok := cfg.Registry[name]
		return ok
	}
	if _, err := mapping.BuildRuleSet(cfg,
		mapping.WithChapter(slug),
		mapping.WithFuncs(s.funcs),
		mapping.WithKnownComponents(known),
	); err != nil {
		return err
	}
	if cfg.DefaultComponent != "" && !known(cfg.DefaultComponent) {
		return &domain.ConfigError{
			Chapter: slug,
			Reason:  "default component",
			Err:     &domain.ComponentNotFoundError{Name: cfg.DefaultComponent},
		}
	}
	return nil
}
