package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for chaptermap resources.
	uriScheme = "chaptermap://"

	chaptersPrefix = uriScheme + "chapters/"
	renderedPrefix = uriScheme + "rendered/"
)

// chapterURI is the resource URI of a chapter's Markdown source.
func chapterURI(slug string) string {
	return chaptersPrefix + slug
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "chapters",
		Name:        "chapters",
		Description: "Every chapter in reading order",
		MIMEType:    "application/json",
	}, s.handleChaptersResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: chaptersPrefix + "{+slug}",
		Name:        "chapter-source",
		Description: "Markdown body of a chapter",
		MIMEType:    "text/markdown",
	}, s.handleChapterResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: renderedPrefix + "{+slug}",
		Name:        "chapter-rendered",
		Description: "Presentation tree of a chapter",
		MIMEType:    "application/json",
	}, s.handleRenderedResource)
}

func (s *Server) handleChaptersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	refs, err := s.ports.Chapters.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}
	if refs == nil {
		refs = []domain.ChapterRef{}
	}
	return jsonResource(req.Params.URI, refs)
}

func (s *Server) handleChapterResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	slug := extractSlug(req.Params.URI, chaptersPrefix)
	if slug == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Chapters.Get(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting chapter: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     doc.Content,
		}},
	}, nil
}

func (s *Server) handleRenderedResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	slug := extractSlug(req.Params.URI, renderedPrefix)
	if slug == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ch, err := s.ports.Chapters.Render(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("rendering chapter: %w", err)
	}
	return jsonResource(req.Params.URI, ch)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSlug returns the slug after prefix, e.g. part1/ch1 from
// chaptermap://chapters/part1/ch1.
func extractSlug(uri, prefix string) string {
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.Trim(strings.TrimPrefix(uri, prefix), "/")
}
