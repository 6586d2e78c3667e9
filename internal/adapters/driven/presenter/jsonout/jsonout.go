// Package jsonout presents rendered chapters as JSON.
package jsonout

import (
	"encoding/json"
	"fmt"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
)

// Ensure Presenter implements the interface.
var _ driven.Presenter = (*Presenter)(nil)

// FormatName is the format name reported by the presenter.
const FormatName = "json"

// Presenter encodes the presentation tree as JSON.
type Presenter struct {
	indent string
}

// New creates a JSON presenter. Output is indented unless compact is set.
func New(compact bool) *Presenter {
	p := &Presenter{indent: "  "}
	if compact {
		p.indent = ""
	}
	return p
}

// Format returns "json".
func (p *Presenter) Format() string {
	return FormatName
}

// Present encodes the chapter.
func (p *Presenter) Present(ch *domain.RenderedChapter) (string, error) {
	if ch == nil {
		return "", fmt.Errorf("present: %w", domain.ErrInvalidInput)
	}
	data, err := Marshal(ch, p.indent)
	if err != nil {
		return "", fmt.Errorf("encode chapter %s: %w", ch.Slug, err)
	}
	return string(data) + "\n", nil
}

// Marshal encodes v, indented when indent is not empty.
func Marshal(v any, indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", indent)
}
