package mdx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chapterBody = `# 第零章 半导体简史

前言段落会被丢弃。

## 章节目标

- 理解晶体管的由来

## 关键词

晶体管，集成电路

## 正文

### The Transistor Era

1947年，贝尔实验室发明了晶体管。

### 摩尔定律

芯片上的晶体管数量每两年翻一番。

## 本章小结

一切从一个零件开始。

## 番外

其他内容。
`

func TestSplit_Basic(t *testing.T) {
	sections := Split(chapterBody)

	require.Len(t, sections, 5)
	assert.Equal(t, "章节目标", sections[0].Title)
	assert.Equal(t, "- 理解晶体管的由来", sections[0].Content)
	assert.Equal(t, "关键词", sections[1].Title)
	assert.Equal(t, "正文", sections[2].Title)
	assert.Contains(t, sections[2].Content, "### The Transistor Era")
	assert.Equal(t, "番外", sections[4].Title)
	assert.Equal(t, "其他内容。", sections[4].Content)
}

func TestSplit_DiscardsPreamble(t *testing.T) {
	sections := Split("intro text\n\n## A\nbody")

	require.Len(t, sections, 1)
	assert.Equal(t, "A", sections[0].Title)
	assert.Equal(t, "body", sections[0].Content)
}

func TestSplit_NoHeadings(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"plain text", "just a paragraph\nand another line"},
		{"only h1 and h3", "# Title\n### Sub\ntext"},
		{"bare marker", "##\n## \ntext"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := Split(tt.body)
			require.NotNil(t, sections)
			assert.Empty(t, sections)
		})
	}
}

func TestSplit_IgnoresHeadingsInCodeFences(t *testing.T) {
	body := "## Real\n```bash\n## not a heading\n```\n## Second\nx"

	sections := Split(body)

	require.Len(t, sections, 2)
	assert.Equal(t, "Real", sections[0].Title)
	assert.Contains(t, sections[0].Content, "## not a heading")
	assert.Equal(t, "Second", sections[1].Title)
}

func TestSplit_PreservesTitleOrder(t *testing.T) {
	bodies := []string{
		chapterBody,
		"## z\n## a\n## m\n",
		"## 一\n内容\n## 二\n## 三\n更多\n",
	}

	for _, body := range bodies {
		var want []string
		for _, line := range strings.Split(body, "\n") {
			if strings.HasPrefix(line, "## ") {
				want = append(want, strings.TrimSpace(line[3:]))
			}
		}

		var got []string
		for _, sec := range Split(body) {
			got = append(got, sec.Title)
		}
		assert.Equal(t, want, got)

		// Re-joined sections split to the same titles.
		var rebuilt strings.Builder
		for _, sec := range Split(body) {
			rebuilt.WriteString("## " + sec.Title + "\n" + sec.Content + "\n")
		}
		var again []string
		for _, sec := range Split(rebuilt.String()) {
			again = append(again, sec.Title)
		}
		assert.Equal(t, want, again)
	}
}

func TestSplit_CRLF(t *testing.T) {
	sections := Split("## A\r\nline\r\n## B\r\n")

	require.Len(t, sections, 2)
	assert.Equal(t, "A", sections[0].Title)
	assert.Equal(t, "line", sections[0].Content)
}

func TestSplitChapter(t *testing.T) {
	sections := SplitChapter(chapterBody)

	var components []string
	for _, sec := range sections {
		components = append(components, sec.Component)
	}
	assert.Equal(t, []string{
		"ChapterTitle",
		"ChapterObjectives",
		"Keywords",
		"TheTransistorEra",
		"MainContent",
		"ChapterSummary",
		"default",
	}, components)

	assert.Equal(t, "第零章 半导体简史", sections[0].Title)
	assert.Empty(t, sections[0].Content)
	assert.Equal(t, "1947年，贝尔实验室发明了晶体管。", sections[3].Content)
	assert.Equal(t, "the-transistor-era", sections[3].ID)
	assert.Equal(t, "section-1", sections[1].ID)
}

func TestSplitChapter_MainContentWithoutSubsections(t *testing.T) {
	sections := SplitChapter("## 正文\n\n只有一段。\n")

	require.Len(t, sections, 1)
	assert.Equal(t, "MainContent", sections[0].Component)
	assert.Equal(t, "正文", sections[0].Title)
	assert.Equal(t, "只有一段。", sections[0].Content)
}

func TestSplitChapter_Empty(t *testing.T) {
	sections := SplitChapter("")
	require.NotNil(t, sections)
	assert.Empty(t, sections)
}

func TestSectionComponent(t *testing.T) {
	tests := map[string]string{
		"章节目标":           "ChapterObjectives",
		"本章逻辑位":          "LogicalPosition",
		"核心内容":           "CoreContent",
		"先修提示":           "PrerequisitePrompt",
		"前置认知提示":         "PrerequisitePrompt",
		"开篇语":            "OpeningLine",
		"起手式":            "OpeningLine",
		"章节逻辑链：":         "LogicalChain",
		"欲知后事如何，且听下回分解。": "NextChapterPreview",
		"宗门心法":           "SectMentality",
		" 本章小结 ":         "ChapterSummary",
		"未知标题":           "default",
	}

	for title, want := range tests {
		assert.Equal(t, want, SectionComponent(title), title)
	}
}

func TestComponentName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"The Transistor Era", "TheTransistorEra"},
		{"moore's law 2.0", "MooresLaw20"},
		{"摩尔定律", "MainContent"},
		{"Post-Moore 时代", "PostMoore"},
		{"", "MainContent"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, componentName(tt.title))
		})
	}
}
