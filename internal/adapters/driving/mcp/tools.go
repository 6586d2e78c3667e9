package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// defaultSearchLimit applies when the search tool gets no limit.
const defaultSearchLimit = 10

// ListChaptersInput is the (empty) input of the list_chapters tool.
type ListChaptersInput struct{}

// ListChaptersOutput is the output schema for the list_chapters tool.
type ListChaptersOutput struct {
	Chapters []domain.ChapterRef `json:"chapters"`
}

// SlugInput selects a chapter.
type SlugInput struct {
	Slug string `json:"slug" jsonschema:"chapter slug such as part1/ch1"`
}

// SectionsOutput is the output schema for the chapter_sections tool.
type SectionsOutput struct {
	Slug     string           `json:"slug"`
	Sections []domain.Section `json:"sections"`
}

// RenderOutput is the output schema for the render_chapter tool.
type RenderOutput struct {
	Slug     string        `json:"slug"`
	Title    string        `json:"title"`
	Theme    string        `json:"theme"`
	Layout   string        `json:"layout"`
	Prev     string        `json:"prev,omitempty"`
	Next     string        `json:"next,omitempty"`
	Blocks   []BlockOutput `json:"blocks"`
	Warnings []string      `json:"warnings,omitempty"`
}

// BlockOutput is one rendered block.
type BlockOutput struct {
	Position    int    `json:"position"`
	Component   string `json:"component"`
	Rule        string `json:"rule,omitempty"`
	Markdown    string `json:"markdown"`
	Warning     string `json:"warning,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// ExplainInput selects a chapter and optionally a block.
type ExplainInput struct {
	Slug     string `json:"slug" jsonschema:"chapter slug such as part1/ch1"`
	Position *int   `json:"position,omitempty" jsonschema:"only explain the block at this position"`
}

// ExplainOutput is the output schema for the explain_chapter tool.
type ExplainOutput struct {
	Blocks []ExplainBlockOutput `json:"blocks"`
}

// ExplainBlockOutput lists the rules that matched one block.
type ExplainBlockOutput struct {
	Position    int               `json:"position"`
	Type        string            `json:"type"`
	ContentType string            `json:"content_type"`
	Text        string            `json:"text"`
	Feature     string            `json:"feature"`
	Candidates  []CandidateOutput `json:"candidates"`
}

// CandidateOutput is a matching rule. The first candidate wins.
type CandidateOutput struct {
	Rule      string `json:"rule"`
	Component string `json:"component"`
	Priority  int    `json:"priority"`
	Score     int    `json:"score"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to find in chapter titles, bodies and tags"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Part  string `json:"part,omitempty" jsonschema:"restrict results to one part such as part1"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	URI        string   `json:"uri"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_chapters",
		Description: "List every textbook chapter in reading order",
	}, s.handleListChapters)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chapter_sections",
		Description: "Split a chapter into its titled sections",
	}, s.handleSections)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "render_chapter",
		Description: "Map every block of a chapter to its presentation component",
	}, s.handleRender)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "explain_chapter",
		Description: "Show which mapping rules matched each block and which one won",
	}, s.handleExplain)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search chapters by title, content and tags",
	}, s.handleSearch)
}

func (s *Server) handleListChapters(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListChaptersInput,
) (*mcp.CallToolResult, ListChaptersOutput, error) {
	refs, err := s.ports.Chapters.List(ctx)
	if err != nil {
		return nil, ListChaptersOutput{}, err
	}
	if refs == nil {
		refs = []domain.ChapterRef{}
	}
	return nil, ListChaptersOutput{Chapters: refs}, nil
}

func (s *Server) handleSections(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SlugInput,
) (*mcp.CallToolResult, SectionsOutput, error) {
	sections, err := s.ports.Chapters.Sections(ctx, input.Slug)
	if err != nil {
		return nil, SectionsOutput{}, err
	}
	return nil, SectionsOutput{Slug: input.Slug, Sections: sections}, nil
}

func (s *Server) handleRender(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SlugInput,
) (*mcp.CallToolResult, RenderOutput, error) {
	ch, err := s.ports.Chapters.Render(ctx, input.Slug)
	if err != nil {
		return nil, RenderOutput{}, err
	}

	out := RenderOutput{
		Slug:     ch.Slug,
		Title:    ch.Title,
		Theme:    ch.Theme.Name,
		Layout:   string(ch.Layout),
		Blocks:   make([]BlockOutput, len(ch.Blocks)),
		Warnings: ch.Warnings,
	}
	if ch.Navigation.Prev != nil {
		out.Prev = *ch.Navigation.Prev
	}
	if ch.Navigation.Next != nil {
		out.Next = *ch.Navigation.Next
	}
	for i, b := range ch.Blocks {
		out.Blocks[i] = BlockOutput{
			Position:    b.Position,
			Component:   b.Component,
			Rule:        b.Rule,
			Markdown:    b.Node.Markdown(),
			Warning:     b.Warning,
			Placeholder: b.Placeholder,
		}
	}
	if ch.Raw != "" && len(out.Blocks) == 0 {
		out.Blocks = append(out.Blocks, BlockOutput{Component: "Raw", Markdown: ch.Raw})
	}
	return nil, out, nil
}

func (s *Server) handleExplain(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExplainInput,
) (*mcp.CallToolResult, ExplainOutput, error) {
	explanations, err := s.ports.Chapters.Explain(ctx, input.Slug)
	if err != nil {
		return nil, ExplainOutput{}, err
	}

	out := ExplainOutput{Blocks: []ExplainBlockOutput{}}
	for _, e := range explanations {
		if input.Position != nil && e.Block.Position != *input.Position {
			continue
		}
		b := ExplainBlockOutput{
			Position:    e.Block.Position,
			Type:        string(e.Block.Type),
			ContentType: string(e.Block.ContentType),
			Text:        e.Block.Text,
			Feature:     e.Feature,
			Candidates:  make([]CandidateOutput, len(e.Candidates)),
		}
		for i, c := range e.Candidates {
			b.Candidates[i] = CandidateOutput{Rule: c.Rule, Component: c.Component, Priority: c.Priority, Score: c.Score}
		}
		out.Blocks = append(out.Blocks, b)
	}
	if input.Position != nil && len(out.Blocks) == 0 {
		return nil, ExplainOutput{}, fmt.Errorf("block %d of %s: %w", *input.Position, input.Slug, domain.ErrNotFound)
	}
	return nil, out, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if s.ports.Search == nil {
		return nil, SearchOutput{}, domain.ErrSearchUnavailable
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	opts := domain.SearchOptions{Limit: limit, Part: input.Part}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Slug:       results[i].Chapter.Slug,
			Title:      results[i].Chapter.Title,
			URI:        chapterURI(results[i].Chapter.Slug),
			Score:      results[i].Score,
			Highlights: results[i].Highlights,
		}
	}
	return nil, output, nil
}
