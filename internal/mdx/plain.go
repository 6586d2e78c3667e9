package mdx

import (
	"regexp"
	"strings"
)

var (
	fencedCode    = regexp.MustCompile("(?s)```.*?```")
	formulaBlock  = regexp.MustCompile(`(?s)\$\$.*?\$\$`)
	inlineCode    = regexp.MustCompile("`[^`]+`")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	components    = regexp.MustCompile(`\[component:[^\]]+\]\([^)]*\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingMarks  = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	quoteMarks    = regexp.MustCompile(`(?m)^>\s*`)
	rules         = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarks     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedMarks = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	htmlTags      = regexp.MustCompile(`<[^>]+>`)
	manyNewlines  = regexp.MustCompile(`\n{3,}`)
)

// PlainText strips Markdown and MDX markup from a chapter body, keeping
// the readable text. Used for search indexing and snippets.
func PlainText(body string) string {
	content := fencedCode.ReplaceAllString(body, "")
	content = formulaBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = components.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = htmlTags.ReplaceAllString(content, "")
	content = headingMarks.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")

	content = quoteMarks.ReplaceAllString(content, "")
	content = rules.ReplaceAllString(content, "")
	content = listMarks.ReplaceAllString(content, "")
	content = numberedMarks.ReplaceAllString(content, "")
	content = manyNewlines.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
