package components

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
)

const (
	// NamePassthrough renders block text unchanged.
	NamePassthrough = "Passthrough"

	// NameErrorPlaceholder marks a block that failed to render.
	NameErrorPlaceholder = "ErrorPlaceholder"

	// NameDefault is the default content component.
	NameDefault = "DefaultContentModule"
)

type renderFunc func(c *Component, block domain.Block, props map[string]any) (domain.Node, error)

// Component is a built-in component.
type Component struct {
	entry  domain.ComponentEntry
	label  string
	render renderFunc
}

// Ensure Component implements the interface.
var _ driven.Component = (*Component)(nil)

// Name returns the registry identifier.
func (c *Component) Name() string {
	return c.entry.Name
}

// Render produces the node for block.
func (c *Component) Render(ctx context.Context, block domain.Block, props map[string]any) (domain.Node, error) {
	if err := ctx.Err(); err != nil {
		return domain.Node{}, err
	}
	node, err := c.render(c, block, props)
	if err != nil {
		return domain.Node{}, fmt.Errorf("%s: %w", c.entry.Name, err)
	}
	node.Component = c.entry.Name
	node.Props = props
	return node, nil
}

// title picks the node title: an explicit title prop, the text of a
// heading block, then the component label.
func (c *Component) title(block domain.Block, props map[string]any) string {
	if t, ok := props["title"].(string); ok && t != "" {
		return t
	}
	if block.Type == domain.BlockHeading {
		return strings.TrimSpace(block.Text)
	}
	return c.label
}

func (c *Component) body(block domain.Block) string {
	if block.Type == domain.BlockHeading {
		return ""
	}
	return block.Text
}

// NewCard returns a generic titled card component.
func NewCard(entry domain.ComponentEntry, label string) *Component {
	return &Component{entry: entry, label: label, render: renderCard}
}

func renderCard(c *Component, block domain.Block, props map[string]any) (domain.Node, error) {
	return domain.Node{Title: c.title(block, props), Text: c.body(block)}, nil
}

func renderTitle(_ *Component, block domain.Block, _ map[string]any) (domain.Node, error) {
	return domain.Node{Title: strings.TrimSpace(block.Text)}, nil
}

func renderPassthrough(_ *Component, block domain.Block, _ map[string]any) (domain.Node, error) {
	return domain.Node{Text: block.Text}, nil
}

var keywordSeparators = regexp.MustCompile(`[,，、;；\n]+`)

func renderKeywords(c *Component, block domain.Block, props map[string]any) (domain.Node, error) {
	node := domain.Node{Title: c.title(block, props)}
	for _, kw := range keywordSeparators.Split(c.body(block), -1) {
		kw = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(kw), "-*+"))
		if kw != "" {
			node.Children = append(node.Children, domain.Node{Component: "Keyword", Text: kw})
		}
	}
	return node, nil
}

var listItem = regexp.MustCompile(`^\s*(?:[-*+]|\d+\.)\s+(.*)$`)

func renderList(c *Component, block domain.Block, props map[string]any) (domain.Node, error) {
	node := domain.Node{Title: c.titleIfSet(props)}
	for _, line := range strings.Split(block.Text, "\n") {
		m := listItem.FindStringSubmatch(line)
		switch {
		case m != nil:
			node.Children = append(node.Children, domain.Node{Component: "ListItem", Text: strings.TrimSpace(m[1])})
		case strings.TrimSpace(line) != "" && len(node.Children) > 0:
			last := &node.Children[len(node.Children)-1]
			last.Text += " " + strings.TrimSpace(line)
		}
	}
	if len(node.Children) == 0 {
		node.Text = block.Text
	}
	return node, nil
}

func (c *Component) titleIfSet(props map[string]any) string {
	if t, ok := props["title"].(string); ok {
		return t
	}
	return ""
}

func renderQuote(c *Component, block domain.Block, props map[string]any) (domain.Node, error) {
	lines := strings.Split(block.Text, "\n")
	for i, line := range lines {
		line = strings.TrimPrefix(line, ">")
		lines[i] = strings.TrimPrefix(line, " ")
	}
	node := domain.Node{Title: c.titleIfSet(props), Text: strings.TrimSpace(strings.Join(lines, "\n"))}
	if author, ok := props["author"].(string); ok && author != "" {
		node.Children = append(node.Children, domain.Node{Component: "Attribution", Text: author})
	}
	return node, nil
}

func renderCode(c *Component, block domain.Block, props map[string]any) (domain.Node, error) {
	text := strings.TrimSpace(block.Text)
	lang := ""
	if rest, ok := strings.CutPrefix(text, "```"); ok {
		first, body, _ := strings.Cut(rest, "\n")
		lang = strings.TrimSpace(first)
		text = strings.TrimSuffix(strings.TrimRight(body, "\n"), "```")
	}
	if l, ok := props["language"].(string); ok && lang == "" {
		lang = l
	}
	return domain.Node{
		Title: c.titleIfSet(props),
		Text:  "```" + lang + "\n" + strings.TrimRight(text, "\n") + "\n```",
	}, nil
}

func renderFormula(c *Component, block domain.Block, props map[string]any) (domain.Node, error) {
	text := strings.TrimSpace(block.Text)
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "$$"), "$$"))
	return domain.Node{Title: c.titleIfSet(props), Text: text}, nil
}

var numberToken = regexp.MustCompile(`\d+(?:\.\d+)?%?`)

func renderData(c *Component, block domain.Block, props map[string]any) (domain.Node, error) {
	node := domain.Node{Title: c.title(block, props), Text: c.body(block)}
	for _, tok := range numberToken.FindAllString(block.Text, -1) {
		node.Children = append(node.Children, domain.Node{Component: "DataPoint", Text: tok})
	}
	return node, nil
}

var yearEvent = regexp.MustCompile(`((?:1[89]|20)\d{2})\s*年?[，,:：\s]*(.*)`)

func renderTimeline(c *Component, block domain.Block, props map[string]any) (domain.Node, error) {
	node := domain.Node{Title: c.title(block, props)}
	var rest []string
	for _, line := range strings.Split(c.body(block), "\n") {
		m := yearEvent.FindStringSubmatch(line)
		if m == nil {
			if s := strings.TrimSpace(line); s != "" {
				rest = append(rest, s)
			}
			continue
		}
		event := strings.TrimSpace(m[2])
		if event == "" {
			event = strings.TrimSpace(listItem.ReplaceAllString(line, "$1"))
		}
		node.Children = append(node.Children, domain.Node{Component: "TimelineEvent", Title: m[1], Text: event})
	}
	node.Text = strings.Join(rest, "\n")
	if show, ok := props["showTimeline"].(bool); ok && !show {
		node.Text = c.body(block)
		node.Children = nil
	}
	return node, nil
}

type builtin struct {
	name   string
	label  string
	mode   domain.RenderMode
	render renderFunc
}

// builtins lists the built-in textbook components.
var builtins = []builtin{
	{NameDefault, "", domain.RenderServer, renderCard},
	{NamePassthrough, "", domain.RenderServer, renderPassthrough},
	{"ChapterTitle", "", domain.RenderServer, renderTitle},
	{"ChapterObjectives", "章节目标", domain.RenderServer, renderCard},
	{"LogicalPosition", "本章逻辑位", domain.RenderServer, renderCard},
	{"CoreContent", "核心内容", domain.RenderServer, renderCard},
	{"Keywords", "关键词", domain.RenderServer, renderKeywords},
	{"PrerequisitePrompt", "先修提示", domain.RenderServer, renderCard},
	{"OpeningLine", "开篇语", domain.RenderServer, renderCard},
	{"MainContent", "正文", domain.RenderServer, renderCard},
	{"ChapterSummary", "本章小结", domain.RenderServer, renderCard},
	{"LogicalChain", "章节逻辑链", domain.RenderServer, renderCard},
	{"NextChapterPreview", "欲知后事如何，且听下回分解。", domain.RenderServer, renderCard},
	{"SectMentality", "宗门心法", domain.RenderServer, renderCard},
	{"SemiconductorHistoryModule", "半导体发展史", domain.RenderClient, renderTimeline},
	{"SemiconductorRevolutionTimeline", "半导体革命时间线", domain.RenderClient, renderTimeline},
	{"ScaleDownChallengeModule", "尺度微缩的挑战", domain.RenderClient, renderCard},
	{"PostMooreEraModule", "后摩尔时代", domain.RenderClient, renderCard},
	{"ConceptExplanationModule", "概念解析", domain.RenderClient, renderCard},
	{"DataVisualizationModule", "数据", domain.RenderClient, renderData},
	{"ComparisonModule", "对比分析", domain.RenderClient, renderCard},
	{"ListDisplayModule", "", domain.RenderClient, renderList},
	{"StyledBlockquoteModule", "", domain.RenderClient, renderQuote},
	{"CodeDisplayModule", "", domain.RenderClient, renderCode},
	{"FormulaDisplayModule", "", domain.RenderClient, renderFormula},
	{"NarrativeContentModule", "", domain.RenderServer, renderCard},
}

// RegisterDefaults registers all built-in components with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	for _, b := range builtins {
		r.Register(domain.ComponentEntry{
			Name:   b.name,
			Module: "builtin/" + b.name,
			Mode:   b.mode,
		}, func(entry domain.ComponentEntry) (driven.Component, error) {
			return &Component{entry: entry, label: b.label, render: b.render}, nil
		})
	}
}

// NewDefaultRegistry returns a registry holding the built-in components.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// PassthroughNode renders block text unchanged with a visible warning.
func PassthroughNode(block domain.Block, warning string) domain.Node {
	return domain.Node{Component: NamePassthrough, Text: block.Text, Warning: warning}
}

// ErrorNode is the placeholder for a block that failed to render.
func ErrorNode(block domain.Block, err error) domain.Node {
	return domain.Node{
		Component: NameErrorPlaceholder,
		Title:     "block " + strconv.Itoa(block.Position) + " failed to render",
		Error:     err.Error(),
	}
}
