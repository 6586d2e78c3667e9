package render

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semiconbook/chaptermap/internal/components"
	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/mapping"
)

type stubComponent struct {
	name string
	fn   func(block domain.Block) (domain.Node, error)
}

func (s *stubComponent) Name() string { return s.name }

func (s *stubComponent) Render(_ context.Context, block domain.Block, _ map[string]any) (domain.Node, error) {
	return s.fn(block)
}

func register(r *components.Registry, name string, fn func(block domain.Block) (domain.Node, error)) {
	r.Register(domain.ComponentEntry{Name: name}, func(domain.ComponentEntry) (driven.Component, error) {
		return &stubComponent{name: name, fn: fn}, nil
	})
}

func fallbackRule() domain.Rule {
	return domain.Rule{Name: "fallback", Match: domain.Default(), Component: components.NameDefault}
}

func newRenderer(t *testing.T, reg *components.Registry, rules ...domain.Rule) *Renderer {
	t.Helper()
	set, err := mapping.NewRuleSet(append(rules, fallbackRule()))
	require.NoError(t, err)
	return New(mapping.NewMatcher(set), reg)
}

func paragraphs(texts ...string) []domain.Block {
	blocks := make([]domain.Block, len(texts))
	for i, text := range texts {
		blocks[i] = domain.Block{
			ID:          text,
			Type:        domain.BlockParagraph,
			ContentType: domain.BlockParagraph,
			Text:        text,
			Position:    i,
		}
	}
	return blocks
}

func TestRenderBlocks_PreservesOrder(t *testing.T) {
	r := newRenderer(t, components.NewDefaultRegistry(),
		domain.Rule{Name: "concept", Match: domain.TextContains("概念"), Component: "ConceptExplanationModule", Priority: 5},
	)

	out := r.RenderBlocks(context.Background(), paragraphs("一", "概念二", "三"), domain.MatchContext{ChapterSlug: "part0/ch0"})

	require.Len(t, out, 3)
	for i, rb := range out {
		assert.Equal(t, i, rb.Position)
		assert.False(t, rb.Placeholder)
	}
	assert.Equal(t, components.NameDefault, out[0].Component)
	assert.Equal(t, "ConceptExplanationModule", out[1].Component)
	assert.Equal(t, "concept", out[1].Rule)
	assert.Equal(t, "概念二", out[1].Node.Text)
}

func TestRenderBlocks_DynamicPropsFailureIsIsolated(t *testing.T) {
	r := newRenderer(t, components.NewDefaultRegistry(), domain.Rule{
		Name:      "dynamic",
		Match:     domain.TypeIs(domain.BlockParagraph),
		Component: "ConceptExplanationModule",
		Priority:  5,
		PropsFunc: func(block domain.Block, _ domain.MatchContext) (map[string]any, error) {
			if block.Text == "bad" {
				return nil, errors.New("cannot compute")
			}
			return map[string]any{"title": block.Text}, nil
		},
	})

	out := r.RenderBlocks(context.Background(), paragraphs("good", "bad", "after"), domain.MatchContext{})

	require.Len(t, out, 3)
	assert.False(t, out[0].Placeholder)
	assert.Equal(t, "good", out[0].Node.Title)

	assert.True(t, out[1].Placeholder)
	assert.Equal(t, components.NameErrorPlaceholder, out[1].Component)
	assert.ErrorIs(t, out[1].Err, domain.ErrDynamicProps)
	var dpe *domain.DynamicPropsError
	require.ErrorAs(t, out[1].Err, &dpe)
	assert.Equal(t, "dynamic", dpe.Rule)
	assert.Equal(t, "bad", dpe.BlockID)
	assert.Contains(t, out[1].Node.Error, "cannot compute")

	assert.False(t, out[2].Placeholder)
	assert.Equal(t, "after", out[2].Node.Title)
}

func TestRenderBlocks_PanickingPropsIsIsolated(t *testing.T) {
	r := newRenderer(t, components.NewDefaultRegistry(), domain.Rule{
		Name:      "panics",
		Match:     domain.TextEquals("boom"),
		Component: components.NameDefault,
		Priority:  5,
		PropsFunc: func(domain.Block, domain.MatchContext) (map[string]any, error) {
			panic("unexpected")
		},
	})

	out := r.RenderBlocks(context.Background(), paragraphs("boom", "fine"), domain.MatchContext{})

	assert.True(t, out[0].Placeholder)
	assert.ErrorIs(t, out[0].Err, domain.ErrDynamicProps)
	assert.False(t, out[1].Placeholder)
}

func TestRenderBlocks_ComponentErrorAndPanic(t *testing.T) {
	reg := components.NewDefaultRegistry()
	register(reg, "Failing", func(domain.Block) (domain.Node, error) {
		return domain.Node{}, errors.New("render failed")
	})
	register(reg, "Panicking", func(domain.Block) (domain.Node, error) {
		panic("nil map")
	})
	r := newRenderer(t, reg,
		domain.Rule{Name: "fail", Match: domain.TextEquals("a"), Component: "Failing", Priority: 1},
		domain.Rule{Name: "panic", Match: domain.TextEquals("b"), Component: "Panicking", Priority: 1},
	)

	out := r.RenderBlocks(context.Background(), paragraphs("a", "b", "c"), domain.MatchContext{})

	assert.True(t, out[0].Placeholder)
	assert.EqualError(t, out[0].Err, "render failed")
	assert.True(t, out[1].Placeholder)
	assert.Contains(t, out[1].Err.Error(), "panicked")
	assert.False(t, out[2].Placeholder)
	assert.Equal(t, components.NameDefault, out[2].Component)
}

func TestRenderBlocks_MissingComponentUsesFallback(t *testing.T) {
	r := newRenderer(t, components.NewDefaultRegistry(), domain.Rule{
		Name:      "ghost",
		Match:     domain.TextEquals("x"),
		Component: "GhostModule",
		Fallback:  "NarrativeContentModule",
		Priority:  5,
	})

	out := r.RenderBlocks(context.Background(), paragraphs("x"), domain.MatchContext{})

	require.Len(t, out, 1)
	assert.False(t, out[0].Placeholder)
	assert.Equal(t, "NarrativeContentModule", out[0].Component)
	assert.Contains(t, out[0].Warning, "GhostModule")
	assert.Equal(t, out[0].Warning, out[0].Node.Warning)
}

func TestRenderBlocks_MissingComponentWithoutFallbackPassesThrough(t *testing.T) {
	r := newRenderer(t, components.NewDefaultRegistry(), domain.Rule{
		Name:      "ghost",
		Match:     domain.TextEquals("x"),
		Component: "GhostModule",
		Fallback:  "AlsoMissing",
		Priority:  5,
	})

	out := r.RenderBlocks(context.Background(), paragraphs("x"), domain.MatchContext{})

	assert.False(t, out[0].Placeholder)
	assert.Equal(t, components.NamePassthrough, out[0].Component)
	assert.Equal(t, "x", out[0].Node.Text)
	assert.Contains(t, out[0].Warning, "AlsoMissing")
}

func TestRenderBlocks_InlineComponent(t *testing.T) {
	r := newRenderer(t, components.NewDefaultRegistry(), domain.Rule{
		Name:      "inline",
		Match:     domain.TypeIs(domain.BlockComponent),
		Component: domain.ComponentFromBlock,
		Fallback:  components.NameDefault,
		Priority:  100,
		Props:     map[string]any{"title": "rule"},
	})
	blocks := []domain.Block{
		{Type: domain.BlockComponent, ComponentName: "DataVisualizationModule", ComponentProps: map[string]any{"title": "block"}, Text: "增长 30%"},
		{Type: domain.BlockComponent, ComponentName: "UnknownModule", Position: 1},
	}

	out := r.RenderBlocks(context.Background(), blocks, domain.MatchContext{})

	assert.Equal(t, "DataVisualizationModule", out[0].Component)
	assert.Equal(t, "block", out[0].Props["title"])
	assert.Equal(t, components.NameDefault, out[1].Component)
	assert.NotEmpty(t, out[1].Warning)
}

func TestRenderBlocks_PropsLayering(t *testing.T) {
	reg := components.NewRegistry()
	components.RegisterDefaults(reg)
	res := reg.WithChapter(map[string]domain.ComponentEntry{
		components.NameDefault: {DefaultProps: map[string]any{"a": "entry", "b": "entry", "c": "entry"}},
	})
	set, err := mapping.NewRuleSet([]domain.Rule{{
		Name: "fallback", Match: domain.Default(), Component: components.NameDefault,
		Props: map[string]any{"c": "rule"}, ClassName: "card",
	}})
	require.NoError(t, err)
	r := New(mapping.NewMatcher(set), res)

	out := r.RenderBlocks(context.Background(), paragraphs("x"), domain.MatchContext{Global: map[string]any{"b": "global", "c": "global"}})

	assert.Equal(t, map[string]any{"a": "entry", "b": "global", "c": "rule"}, out[0].Props)
	assert.Equal(t, "card", out[0].ClassName)
	assert.Equal(t, "card", out[0].Node.ClassName)
}

func TestRenderBlocks_NeighbourContext(t *testing.T) {
	r := newRenderer(t, components.NewDefaultRegistry(), domain.Rule{
		Name:      "after-intro",
		Match:     domain.PreviousIs(domain.TextEquals("intro")),
		Component: "CoreContent",
		Priority:  5,
	})

	out := r.RenderBlocks(context.Background(), paragraphs("intro", "body", "tail"), domain.MatchContext{})

	assert.Equal(t, components.NameDefault, out[0].Component)
	assert.Equal(t, "CoreContent", out[1].Component)
	assert.Equal(t, components.NameDefault, out[2].Component)
}

func TestRenderBlocks_EmptyMatcher(t *testing.T) {
	r := New(mapping.NewMatcher(nil), components.NewDefaultRegistry())

	out := r.RenderBlocks(context.Background(), paragraphs("x"), domain.MatchContext{})

	assert.True(t, out[0].Placeholder)
	assert.ErrorIs(t, out[0].Err, domain.ErrNoRuleMatched)
}

const chapterBody = `# 序章

## 章节目标

理解摩尔定律。

## 核心内容

- 晶体管
- 集成电路

> 引用一句话
`

func TestRenderChapter(t *testing.T) {
	cfg, err := mapping.DefaultConfig()
	require.NoError(t, err)
	set, err := mapping.BuildRuleSet(cfg)
	require.NoError(t, err)
	reg := components.NewDefaultRegistry()
	r := New(mapping.NewMatcher(set), reg.WithChapter(cfg.Registry))

	next := "part1/ch1"
	doc := &domain.Document{
		Slug:     "part0/ch0",
		Metadata: map[string]any{"title": "序章"},
		Content:  chapterBody,
	}

	out, err := r.RenderChapter(context.Background(), doc, cfg, domain.Navigation{Next: &next})
	require.NoError(t, err)

	assert.Equal(t, "序章", out.Title)
	assert.Equal(t, "history", out.Theme.Name)
	assert.Equal(t, domain.LayoutSidebar, out.Layout)
	assert.Equal(t, &next, out.Navigation.Next)
	require.NotEmpty(t, out.Sections)
	assert.Equal(t, "ChapterTitle", out.Sections[0].Component)
	assert.NotEmpty(t, out.Toc)
	require.NotEmpty(t, out.Blocks)
	assert.Empty(t, out.Raw)

	byText := map[string]domain.RenderedBlock{}
	for _, rb := range out.Blocks {
		assert.False(t, rb.Placeholder, rb.Rule)
		byText[rb.Node.Title+rb.Node.Text] = rb
	}
	assert.Equal(t, "ChapterObjectives", byText["章节目标"].Component)
	assert.Equal(t, "CoreContent", byText["核心内容"].Component)
}

func TestRenderChapter_Malformed(t *testing.T) {
	r := New(mapping.NewMatcher(nil), components.NewDefaultRegistry())
	doc := &domain.Document{
		Slug:       "part0/ch0",
		Content:    "---\ntitle: [\n---\nbody",
		Malformed:  true,
		ParseError: "yaml: bad",
	}

	out, err := r.RenderChapter(context.Background(), doc, nil, domain.Navigation{})
	require.NoError(t, err)

	assert.NotNil(t, out.Sections)
	assert.Empty(t, out.Sections)
	assert.Empty(t, out.Blocks)
	assert.Equal(t, doc.Content, out.Raw)
	assert.Equal(t, domain.LayoutDefault, out.Layout)
	require.Len(t, out.Warnings, 1)
	assert.Contains(t, out.Warnings[0], "yaml: bad")
}

func TestRenderChapter_NilDocument(t *testing.T) {
	r := New(mapping.NewMatcher(nil), components.NewDefaultRegistry())

	_, err := r.RenderChapter(context.Background(), nil, nil, domain.Navigation{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRenderChapter_Cancelled(t *testing.T) {
	r := newRenderer(t, components.NewDefaultRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.RenderChapter(ctx, &domain.Document{Slug: "s", Content: "text"}, nil, domain.Navigation{})
	assert.ErrorIs(t, err, context.Canceled)
}
