// Package tui provides an interactive terminal reader for chaptermap.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
	"github.com/semiconbook/chaptermap/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the TUI.
type Ports struct {
	// Chapters lists and renders chapters.
	Chapters driving.ChapterService

	// Search is optional; the search view reports it as unavailable when nil.
	Search driving.SearchService

	// Presenter turns rendered chapters into reader text.
	// When nil the reader falls back to plain markdown.
	Presenter driven.Presenter
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(chapters driving.ChapterService, search driving.SearchService, presenter driven.Presenter) *Ports {
	return &Ports{
		Chapters:  chapters,
		Search:    search,
		Presenter: presenter,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chapters == nil {
		return ErrMissingChapterService
	}
	return nil
}
