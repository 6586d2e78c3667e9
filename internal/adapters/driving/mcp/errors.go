// Package mcp provides an MCP (Model Context Protocol) server adapter for chaptermap.
// It lets AI assistants list, read, render and search textbook chapters.
package mcp

import "errors"

// ErrMissingChapterService is returned when the chapter service is not provided.
var ErrMissingChapterService = errors.New("mcp: chapter service is required")
