// Package terminal presents rendered chapters as styled terminal text.
//
// Each block's node tree is converted to Markdown and rendered with glamour;
// chapter chrome (title bar, table of contents, component labels, warnings)
// is styled with lipgloss using the chapter's theme colours.
package terminal

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
)

// Ensure Presenter implements the interface.
var _ driven.Presenter = (*Presenter)(nil)

// FormatName is the format name reported by the presenter.
const FormatName = "terminal"

// DefaultWidth is used when the width is unset and not detectable.
const DefaultWidth = 80

// Glamour style names accepted by WithStyle.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
	StyleASCII = "ascii"
)

// markdownRenderer is the part of glamour.TermRenderer the presenter uses.
type markdownRenderer interface {
	Render(in string) (string, error)
}

// Presenter renders chapters for a terminal.
type Presenter struct {
	width     int
	style     string
	showProps bool

	// newMarkdown overrides the glamour renderer in tests.
	newMarkdown func() (markdownRenderer, error)
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithWidth sets the wrap width. Zero or less means auto-detect.
func WithWidth(width int) Option {
	return func(p *Presenter) {
		p.width = width
	}
}

// WithStyle sets the glamour style name.
func WithStyle(style string) Option {
	return func(p *Presenter) {
		if style != "" {
			p.style = style
		}
	}
}

// WithProps lists each block's resolved props under its label.
func WithProps(show bool) Option {
	return func(p *Presenter) {
		p.showProps = show
	}
}

// New creates a terminal presenter.
func New(opts ...Option) *Presenter {
	p := &Presenter{style: StyleAuto}
	for _, opt := range opts {
		opt(p)
	}
	if p.width <= 0 {
		p.width = DetectWidth(os.Stdout)
	}
	return p
}

// DetectWidth returns the terminal width of w, or DefaultWidth when w is not
// a terminal.
func DetectWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// Format returns "terminal".
func (p *Presenter) Format() string {
	return FormatName
}

// Width returns the wrap width in use.
func (p *Presenter) Width() int {
	return p.width
}

// Present renders the chapter.
func (p *Presenter) Present(ch *domain.RenderedChapter) (string, error) {
	if ch == nil {
		return "", fmt.Errorf("present: %w", domain.ErrInvalidInput)
	}
	md, err := p.markdown()
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	st := newStyles(ch.Theme, p.width)

	var b strings.Builder
	b.WriteString(st.title.Render(ch.Title))
	b.WriteString("\n")
	if nav := navLine(ch.Navigation); nav != "" {
		b.WriteString(st.muted.Render(nav))
		b.WriteString("\n")
	}
	for _, w := range ch.Warnings {
		b.WriteString(st.warning.Render("! " + w))
		b.WriteString("\n")
	}
	if ch.Layout == domain.LayoutSidebar && len(ch.Toc) > 0 {
		b.WriteString("\n")
		b.WriteString(st.toc.Render(tocText(ch.Toc)))
		b.WriteString("\n")
	}

	if ch.Raw != "" {
		b.WriteString(renderOrPlain(md, st, ch.Raw, "raw content"))
		return b.String(), nil
	}

	for _, block := range ch.Blocks {
		b.WriteString("\n")
		b.WriteString(st.label.Render(blockLabel(block)))
		b.WriteString("\n")
		if p.showProps && len(block.Props) > 0 {
			b.WriteString(st.muted.Render(propsLine(block.Props)))
			b.WriteString("\n")
		}
		switch {
		case block.Placeholder:
			b.WriteString(st.errorBox.Render(placeholderText(block)))
			b.WriteString("\n")
			continue
		case block.Warning != "":
			b.WriteString(st.warning.Render("! " + block.Warning))
			b.WriteString("\n")
		}
		out := renderOrPlain(md, st, block.Node.Markdown(), fmt.Sprintf("block %d", block.Position))
		b.WriteString(strings.TrimRight(out, "\n"))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// renderOrPlain renders text as Markdown. On failure the text is kept
// as is under a warning line so the rest of the chapter still prints.
func renderOrPlain(md markdownRenderer, st styles, text, what string) string {
	out, err := md.Render(text)
	if err == nil {
		return out
	}
	return st.warning.Render(fmt.Sprintf("! %s: %v", what, err)) + "\n" + text + "\n"
}

func (p *Presenter) markdown() (markdownRenderer, error) {
	if p.newMarkdown != nil {
		return p.newMarkdown()
	}
	return p.renderer()
}

func (p *Presenter) renderer() (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithStandardStyle(p.style)
	if p.style == StyleAuto {
		styleOpt = glamour.WithAutoStyle()
	}
	return glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(p.width))
}

func blockLabel(block domain.RenderedBlock) string {
	label := fmt.Sprintf("[%d] %s", block.Position, block.Component)
	if block.Rule != "" {
		label += " ← " + block.Rule
	}
	return label
}

func placeholderText(block domain.RenderedBlock) string {
	msg := block.Node.Title
	if block.Node.Error != "" {
		msg += "\n" + block.Node.Error
	}
	return msg
}

func propsLine(props map[string]any) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, props[k]))
	}
	return strings.Join(parts, " ")
}

func navLine(nav domain.Navigation) string {
	var parts []string
	if nav.Prev != nil {
		parts = append(parts, "← "+*nav.Prev)
	}
	if nav.Next != nil {
		parts = append(parts, *nav.Next+" →")
	}
	return strings.Join(parts, "   ")
}

func tocText(items []domain.TocItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		level := it.Level - 2
		if level < 0 {
			level = 0
		}
		lines = append(lines, strings.Repeat("  ", level)+"• "+it.Text)
	}
	return strings.Join(lines, "\n")
}
