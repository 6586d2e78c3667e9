package mdx

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

const (
	// ComponentChapterTitle renders the chapter's level one heading.
	ComponentChapterTitle = "ChapterTitle"

	// ComponentMainContent renders the body section.
	ComponentMainContent = "MainContent"

	// ComponentDefault marks sections without a dedicated component.
	ComponentDefault = "default"

	mainContentHeading = "正文"
)

// sectionComponents maps well-known section headings to components.
var sectionComponents = map[string]string{
	"章节目标":           "ChapterObjectives",
	"本章逻辑位":          "LogicalPosition",
	"核心内容":           "CoreContent",
	"关键词":            "Keywords",
	"先修提示":           "PrerequisitePrompt",
	"前置认知提示":         "PrerequisitePrompt",
	"开篇语":            "OpeningLine",
	"起手式":            "OpeningLine",
	"本章小结":           "ChapterSummary",
	"章节逻辑链":          "LogicalChain",
	"章节逻辑链：":         "LogicalChain",
	"欲知后事如何，且听下回分解。": "NextChapterPreview",
	"欲知后事如何且听下回分解":   "NextChapterPreview",
	"宗门心法":           "SectMentality",
}

// SectionComponent returns the component for a section heading.
func SectionComponent(title string) string {
	if c, ok := sectionComponents[strings.TrimSpace(title)]; ok {
		return c
	}
	return ComponentDefault
}

type heading struct {
	line  int
	level int
	title string
}

// headings locates ATX headings of the given level outside code fences.
func headings(lines []string, level int) []heading {
	prefix := strings.Repeat("#", level) + " "
	var fence fenceTracker
	var out []heading
	for i, line := range lines {
		if fence.step(line) {
			continue
		}
		if strings.HasPrefix(line, prefix) && len(line) > len(prefix) {
			out = append(out, heading{line: i, level: level, title: strings.TrimSpace(line[len(prefix):])})
		}
	}
	return out
}

// splitAt cuts lines into one section per heading. Text before the first
// heading is discarded. Content is trimmed.
func splitAt(lines []string, hs []heading) []domain.Section {
	sections := make([]domain.Section, 0, len(hs))
	for i, h := range hs {
		end := len(lines)
		if i+1 < len(hs) {
			end = hs[i+1].line
		}
		content := strings.TrimSpace(strings.Join(lines[h.line+1:end], "\n"))
		sections = append(sections, domain.Section{Title: h.title, Content: content})
	}
	return sections
}

// Split partitions body into one section per second-level heading.
// A body without such headings yields an empty, non-nil slice.
func Split(body string) []domain.Section {
	lines := splitLines(body)
	return splitAt(lines, headings(lines, 2))
}

// SplitChapter splits body and assigns a component to every section.
//
// The first level one heading becomes a ChapterTitle section. The 正文
// section is expanded into its level three subsections, or kept whole as
// MainContent when it has none.
func SplitChapter(body string) []domain.Section {
	lines := splitLines(body)
	var result []domain.Section

	if titles := headings(lines, 1); len(titles) > 0 {
		result = append(result, domain.Section{
			Title:     titles[0].title,
			Component: ComponentChapterTitle,
		})
	}

	for _, sec := range splitAt(lines, headings(lines, 2)) {
		if sec.Title == mainContentHeading {
			subs := splitMainContent(sec.Content)
			if len(subs) == 0 {
				sec.Component = ComponentMainContent
				result = append(result, sec)
				continue
			}
			result = append(result, subs...)
			continue
		}
		sec.Component = SectionComponent(sec.Title)
		result = append(result, sec)
	}

	for i := range result {
		result[i].ID = GenerateID(result[i].Title)
		if result[i].ID == "" {
			result[i].ID = "section-" + strconv.Itoa(i)
		}
	}
	if result == nil {
		result = []domain.Section{}
	}
	return result
}

func splitMainContent(content string) []domain.Section {
	lines := splitLines(content)
	subs := splitAt(lines, headings(lines, 3))
	for i := range subs {
		subs[i].Component = componentName(subs[i].Title)
	}
	return subs
}

// componentName derives a PascalCase component name from the ASCII words
// of a title, or MainContent when there are none.
func componentName(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		}
		return -1
	}, title)

	var b strings.Builder
	for _, word := range strings.Fields(cleaned) {
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	if b.Len() == 0 {
		return ComponentMainContent
	}
	return b.String()
}
