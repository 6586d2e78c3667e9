// Package domain defines the core entities for chaptermap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A chapter loaded from a content source, with frontmatter
//   - Section: A titled span of a document delimited by top-level headings
//   - Block: One semantic unit of document content (heading, paragraph, ...)
//   - Predicate: A tagged-variant match expression over blocks
//   - Rule: A predicate-to-component mapping with priority and props
//   - ChapterConfig: The rule set, component registry and theme of a chapter
//   - RenderedChapter: The presentation tree produced for a chapter
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
