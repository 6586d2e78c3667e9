package mcp

import (
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chapters loads, splits and renders chapters.
	Chapters driving.ChapterService

	// Search finds chapters. Optional; the search tool reports it as
	// unavailable when nil.
	Search driving.SearchService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Chapters == nil {
		return ErrMissingChapterService
	}
	return nil
}
