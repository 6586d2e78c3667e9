package mdx

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// ParseFrontmatter splits raw into metadata and body.
// YAML (---), TOML (+++) and JSON frontmatter are accepted. A document
// without frontmatter yields empty metadata and the whole input as body.
func ParseFrontmatter(raw []byte) (map[string]any, string, error) {
	meta := make(map[string]any)
	rest, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return nil, string(raw), err
	}
	return meta, string(rest), nil
}

// ParseDocument builds a Document from a raw chapter file.
// Frontmatter errors do not fail: the document is marked malformed and
// carries the whole file as content.
func ParseDocument(slug, path string, raw []byte) *domain.Document {
	doc := &domain.Document{Slug: slug, Path: path}

	meta, body, err := ParseFrontmatter(raw)
	if err != nil {
		doc.Malformed = true
		doc.ParseError = err.Error()
		doc.Metadata = map[string]any{}
		doc.Content = string(raw)
		return doc
	}

	if _, ok := meta["title"]; !ok {
		if title := Title(body); title != "" {
			meta["title"] = title
		}
	}
	doc.Metadata = meta
	doc.Content = strings.TrimLeft(body, "\n")
	return doc
}
