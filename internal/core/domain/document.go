package domain

import (
	"fmt"
	"strings"
)

// Document is a chapter as returned by a content source.
// It is immutable once loaded.
type Document struct {
	// Slug is the stable identifier of the chapter (e.g. "part0/ch0").
	Slug string

	// Path is the location the document was read from.
	Path string

	// Metadata holds the frontmatter key-value pairs.
	Metadata map[string]any

	// Content is the raw body after the frontmatter.
	Content string

	// Malformed is set when the frontmatter could not be parsed.
	// Content then holds the whole raw file.
	Malformed bool

	// ParseError describes why the document is malformed.
	ParseError string
}

// Title returns the "title" frontmatter value, or the slug when absent.
func (d *Document) Title() string {
	if title := d.StringMeta("title"); title != "" {
		return title
	}
	return d.Slug
}

// StringMeta returns a frontmatter value formatted as a string.
// Missing keys yield an empty string.
func (d *Document) StringMeta(key string) string {
	if d == nil || d.Metadata == nil {
		return ""
	}
	val, ok := d.Metadata[key]
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprintf("%v", val)
}

// Keywords returns the "keywords" frontmatter value as a string slice.
// Both list and comma-separated forms are accepted.
func (d *Document) Keywords() []string {
	return d.StringSliceMeta("keywords")
}

// Tags returns the "tags" frontmatter value as a string slice.
func (d *Document) Tags() []string {
	return d.StringSliceMeta("tags")
}

// StringSliceMeta returns a frontmatter list value as strings.
func (d *Document) StringSliceMeta(key string) []string {
	if d == nil || d.Metadata == nil {
		return nil
	}
	switch v := d.Metadata[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	case string:
		var out []string
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == '，' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	default:
		return nil
	}
}

// ChapterRef is a lightweight listing entry for a chapter.
type ChapterRef struct {
	// Slug is the chapter identifier.
	Slug string `json:"slug"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Part is the first slug segment (e.g. "part0").
	Part string `json:"part"`

	// Chapter is the second slug segment (e.g. "ch0").
	Chapter string `json:"chapter"`

	// Tags are the frontmatter tags.
	Tags []string `json:"tags,omitempty"`
}

// Navigation holds the neighbours of a chapter in reading order.
type Navigation struct {
	// Prev is the previous chapter slug, nil at the start.
	Prev *string `json:"prev,omitempty"`

	// Next is the next chapter slug, nil at the end.
	Next *string `json:"next,omitempty"`
}

// ChangeType represents the type of content change.
type ChangeType int

const (
	// ChangeCreated indicates a new chapter file.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified chapter file.
	ChangeUpdated

	// ChangeDeleted indicates a removed chapter file.
	ChangeDeleted
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// ContentChange is emitted by content watchers.
type ContentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Slug is the affected chapter.
	Slug string

	// Path is the affected file.
	Path string
}
