package domain

import "strings"

// Node is a framework-neutral presentation tree node.
type Node struct {
	// Component is the component that produced the node.
	Component string `json:"component"`

	// Props are the resolved props.
	Props map[string]any `json:"props,omitempty"`

	// ClassName is the wrapper presentation hint.
	ClassName string `json:"class_name,omitempty"`

	// Title is an optional heading for the node.
	Title string `json:"title,omitempty"`

	// Text is Markdown body text.
	Text string `json:"text,omitempty"`

	// Children are nested nodes.
	Children []Node `json:"children,omitempty"`

	// Warning is a visible, non-fatal notice.
	Warning string `json:"warning,omitempty"`

	// Error is set on placeholder nodes.
	Error string `json:"error,omitempty"`
}

// RenderedBlock is the output for one block.
type RenderedBlock struct {
	BlockID     string         `json:"block_id"`
	Position    int            `json:"position"`
	Rule        string         `json:"rule,omitempty"`
	Component   string         `json:"component"`
	Props       map[string]any `json:"props,omitempty"`
	ClassName   string         `json:"class_name,omitempty"`
	Node        Node           `json:"node"`
	Placeholder bool           `json:"placeholder,omitempty"`
	Warning     string         `json:"warning,omitempty"`
	Err         error          `json:"-"`
}

// RenderedChapter is the presentation tree of a whole chapter.
type RenderedChapter struct {
	Slug       string          `json:"slug"`
	Title      string          `json:"title"`
	Metadata   map[string]any  `json:"metadata,omitempty"`
	Theme      Theme           `json:"theme"`
	Layout     LayoutType      `json:"layout"`
	Navigation Navigation      `json:"navigation"`
	Sections   []Section       `json:"sections"`
	Toc        []TocItem       `json:"toc,omitempty"`
	Blocks     []RenderedBlock `json:"blocks"`
	Raw        string          `json:"raw,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// Theme is the colour scheme of a chapter.
type Theme struct {
	Name        string `json:"name" toml:"name" yaml:"name"`
	Primary     string `json:"primary" toml:"primary" yaml:"primary"`
	Secondary   string `json:"secondary" toml:"secondary" yaml:"secondary"`
	Accent      string `json:"accent" toml:"accent" yaml:"accent"`
	Background  string `json:"background" toml:"background" yaml:"background"`
	Text        string `json:"text" toml:"text" yaml:"text"`
	Heading     string `json:"heading" toml:"heading" yaml:"heading"`
	Border      string `json:"border" toml:"border" yaml:"border"`
	CardVariant string `json:"card_variant,omitempty" toml:"card_variant,omitempty" yaml:"card_variant,omitempty"`
	Animation   string `json:"animation,omitempty" toml:"animation,omitempty" yaml:"animation,omitempty"`
}

// Markdown converts the node tree to Markdown. The title becomes a level-3
// heading and children become (nested) list items.
func (n Node) Markdown() string {
	var b strings.Builder
	n.writeMarkdown(&b, 0)
	return strings.TrimSpace(b.String())
}

func (n Node) writeMarkdown(b *strings.Builder, depth int) {
	if depth == 0 {
		if n.Title != "" {
			b.WriteString("### " + n.Title + "\n\n")
		}
		if n.Text != "" {
			b.WriteString(n.Text + "\n\n")
		}
		for _, c := range n.Children {
			c.writeMarkdown(b, 1)
		}
		return
	}

	item := n.Title
	if item == "" {
		item = n.Text
	} else if n.Text != "" && n.Text != n.Title {
		item = "**" + n.Title + "**: " + n.Text
	}
	b.WriteString(strings.Repeat("  ", depth-1) + "- " + strings.ReplaceAll(item, "\n", " ") + "\n")
	for _, c := range n.Children {
		c.writeMarkdown(b, depth+1)
	}
}
