// Package render turns classified blocks into a presentation tree.
//
// Rendering never fails as a whole because of one block: a missing
// component degrades to the rule's fallback and then to passthrough text,
// and a failing props function or component yields an error placeholder
// for that block only.
package render

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/semiconbook/chaptermap/internal/classifier"
	"github.com/semiconbook/chaptermap/internal/components"
	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/logger"
	"github.com/semiconbook/chaptermap/internal/mapping"
	"github.com/semiconbook/chaptermap/internal/mdx"
	"github.com/semiconbook/chaptermap/internal/themes"
)

// Matcher selects the rule for a block.
type Matcher interface {
	Match(block domain.Block, mctx domain.MatchContext) (*domain.Rule, error)
}

// Ensure the mapping matcher satisfies Matcher.
var _ Matcher = (*mapping.Matcher)(nil)

// Renderer renders the blocks of one chapter.
type Renderer struct {
	matcher    Matcher
	resolver   driven.ComponentResolver
	classifier *classifier.Classifier
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClassifier sets the classifier used by RenderChapter.
func WithClassifier(c *classifier.Classifier) Option {
	return func(r *Renderer) {
		r.classifier = c
	}
}

// New creates a renderer.
func New(m Matcher, resolver driven.ComponentResolver, opts ...Option) *Renderer {
	r := &Renderer{matcher: m, resolver: resolver}
	for _, opt := range opts {
		opt(r)
	}
	if r.classifier == nil {
		r.classifier = classifier.New()
	}
	return r
}

// RenderBlocks renders blocks in order. mctx supplies the chapter slug
// and global props; neighbours are computed per block.
func (r *Renderer) RenderBlocks(ctx context.Context, blocks []domain.Block, mctx domain.MatchContext) []domain.RenderedBlock {
	out := make([]domain.RenderedBlock, len(blocks))
	for i := range blocks {
		bctx := domain.ContextFor(mctx.ChapterSlug, blocks, i, mctx.Global)
		out[i] = r.renderBlock(ctx, blocks[i], bctx)
	}
	return out
}

func (r *Renderer) renderBlock(ctx context.Context, block domain.Block, mctx domain.MatchContext) domain.RenderedBlock {
	rb := domain.RenderedBlock{BlockID: block.ID, Position: block.Position}

	rule, err := r.matcher.Match(block, mctx)
	if err != nil {
		return placeholder(rb, block, err)
	}
	rb.Rule = rule.Name
	rb.ClassName = rule.ClassName

	name := componentName(rule, block)
	comp, err := r.resolver.Resolve(name)
	if errors.Is(err, domain.ErrComponentNotFound) && rule.Fallback != "" {
		rb.Warning = fmt.Sprintf("component %q not found, using fallback %q", name, rule.Fallback)
		name = rule.Fallback
		comp, err = r.resolver.Resolve(name)
	}
	if errors.Is(err, domain.ErrComponentNotFound) {
		rb.Warning = fmt.Sprintf("component %q not found, rendering text", name)
		logger.L().Warnw("component not found", "chapter", mctx.ChapterSlug, "block", block.Position, "component", name)
		rb.Component = components.NamePassthrough
		rb.Node = components.PassthroughNode(block, rb.Warning)
		return rb
	}
	if err != nil {
		return placeholder(rb, block, err)
	}
	if rb.Warning != "" {
		logger.L().Warnw("component fallback used", "chapter", mctx.ChapterSlug, "block", block.Position, "component", name)
	}
	rb.Component = name

	entry, _ := r.resolver.Entry(name)
	props, err := mapping.ResolveProps(entry, rule, block, mctx)
	if err != nil {
		return placeholder(rb, block, err)
	}
	if rule.Component == domain.ComponentFromBlock {
		maps.Copy(props, block.ComponentProps)
	}
	rb.Props = props

	node, err := safeRender(ctx, comp, block, props)
	if err != nil {
		return placeholder(rb, block, err)
	}
	node.ClassName = rule.ClassName
	node.Warning = rb.Warning
	rb.Node = node
	return rb
}

// componentName resolves the component a rule renders with. Rules that
// defer to the block use the name of the inline insertion.
func componentName(rule *domain.Rule, block domain.Block) string {
	if rule.Component == domain.ComponentFromBlock {
		return block.ComponentName
	}
	return rule.Component
}

func placeholder(rb domain.RenderedBlock, block domain.Block, err error) domain.RenderedBlock {
	logger.L().Warnw("block render failed", "block", block.Position, "error", err)
	rb.Placeholder = true
	rb.Err = err
	rb.Component = components.NameErrorPlaceholder
	rb.Node = components.ErrorNode(block, err)
	return rb
}

// safeRender converts a component panic into an error.
func safeRender(ctx context.Context, comp driven.Component, block domain.Block, props map[string]any) (node domain.Node, err error) {
	defer func() {
		if p := recover(); p != nil {
			node, err = domain.Node{}, fmt.Errorf("component %s panicked: %v", comp.Name(), p)
		}
	}()
	return comp.Render(ctx, block, props)
}

// RenderChapter renders a whole document with its chapter configuration.
func (r *Renderer) RenderChapter(ctx context.Context, doc *domain.Document, cfg *domain.ChapterConfig, nav domain.Navigation) (*domain.RenderedChapter, error) {
	if doc == nil {
		return nil, fmt.Errorf("render chapter: %w", domain.ErrInvalidInput)
	}
	if cfg == nil {
		cfg = &domain.ChapterConfig{}
	}
	logger.Section("Render " + doc.Slug)

	layout := cfg.Layout
	if layout == "" {
		layout = domain.LayoutDefault
	}
	out := &domain.RenderedChapter{
		Slug:       doc.Slug,
		Title:      doc.Title(),
		Metadata:   doc.Metadata,
		Theme:      themes.Resolve(cfg.Theme, doc.Slug),
		Layout:     layout,
		Navigation: nav,
		Sections:   []domain.Section{},
		Blocks:     []domain.RenderedBlock{},
	}

	if doc.Malformed {
		out.Raw = doc.Content
		out.Warnings = append(out.Warnings, fmt.Sprintf("malformed document: %s", doc.ParseError))
		logger.Warn("chapter %s: malformed document: %s", doc.Slug, doc.ParseError)
		return out, nil
	}

	out.Sections = mdx.SplitChapter(doc.Content)
	out.Toc = mdx.ExtractTOC(doc.Content)

	blocks := r.classifier.Annotate(mdx.Tokenize(doc.Slug, doc.Content))
	logger.Debug("chapter %s: %d sections, %d blocks", doc.Slug, len(out.Sections), len(blocks))

	out.Blocks = r.RenderBlocks(ctx, blocks, domain.MatchContext{
		ChapterSlug: doc.Slug,
		Global:      cfg.GlobalProps,
	})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render chapter %s: %w", doc.Slug, err)
	}
	for _, rb := range out.Blocks {
		if rb.Warning != "" {
			out.Warnings = append(out.Warnings, fmt.Sprintf("block %d: %s", rb.Position, rb.Warning))
		}
		if rb.Placeholder {
			out.Warnings = append(out.Warnings, fmt.Sprintf("block %d: %v", rb.Position, rb.Err))
		}
	}
	return out, nil
}
