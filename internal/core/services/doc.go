// Package services wires the driven ports into ChapterService and
// SearchService.
package services
