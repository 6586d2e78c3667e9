package mdx

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

var (
	componentInsertion = regexp.MustCompile(`\[component:([^\]]+)\]\(([^)]*)\)`)
	inlineInsertion    = regexp.MustCompile("`(\\[component:[^\\]]+\\]\\([^)]*\\))`")
	headingLine        = regexp.MustCompile(`^(#{1,6})\s`)
	quoteLine          = regexp.MustCompile(`^>\s`)
	listLine           = regexp.MustCompile(`^[-*+]\s|^\d+\.\s`)
)

// blockNamespace scopes deterministic block IDs.
var blockNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("chaptermap/blocks"))

// BlockID returns the deterministic ID of the block at position in a chapter.
func BlockID(slug string, position int) string {
	return uuid.NewSHA1(blockNamespace, []byte(slug+"#"+strconv.Itoa(position))).String()
}

// Tokenize splits a chapter body into ordered blocks.
//
// Headings and component insertions form one block each. Fenced code and
// $$ formulas run until their closing marker. Blank lines end paragraph,
// list and quote blocks, after which adjacent blocks of the same type are
// merged. A component inserted more than once is kept at its first position.
// ContentType and Keywords are left for the classifier.
func Tokenize(slug, body string) []domain.Block {
	body = inlineInsertion.ReplaceAllString(body, "$1")

	raw := scan(splitLines(body))
	raw = dedupeComponents(raw)
	blocks := mergeAdjacent(raw)

	for i := range blocks {
		blocks[i].Position = i
		blocks[i].ID = BlockID(slug, i)
	}
	return blocks
}

func scan(lines []string) []domain.Block {
	var (
		blocks  []domain.Block
		current *domain.Block
	)
	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
			current = nil
		}
	}
	extend := func(t domain.BlockType, line string) {
		if current != nil && current.Type == t {
			current.Text += "\n" + line
			return
		}
		flush()
		current = &domain.Block{Type: t, Text: line}
	}

	var fence fenceTracker
	for _, line := range lines {
		if fence.marker != "" {
			current.Text += "\n" + line
			fence.step(line)
			if fence.marker == "" {
				flush()
			}
			continue
		}
		if current != nil && current.Type == domain.BlockFormula {
			current.Text += "\n" + line
			if strings.HasPrefix(strings.TrimSpace(line), "$$") {
				flush()
			}
			continue
		}
		if fence.step(line) {
			flush()
			current = &domain.Block{Type: domain.BlockCode, Text: line}
			continue
		}

		if strings.Contains(line, "[component:") {
			if name, props, ok := ParseComponentInsertion(line); ok {
				flush()
				blocks = append(blocks, domain.Block{
					Type:           domain.BlockComponent,
					Text:           strings.TrimSpace(line),
					ComponentName:  name,
					ComponentProps: props,
				})
				continue
			}
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case headingLine.MatchString(line):
			flush()
			m := headingLine.FindStringSubmatch(line)
			blocks = append(blocks, domain.Block{
				Type:  domain.BlockHeading,
				Level: len(m[1]),
				Text:  strings.TrimSpace(line[len(m[0]):]),
			})
		case strings.HasPrefix(line, "$$"):
			flush()
			if len(trimmed) > 4 && strings.HasSuffix(trimmed, "$$") {
				blocks = append(blocks, domain.Block{Type: domain.BlockFormula, Text: line})
				continue
			}
			current = &domain.Block{Type: domain.BlockFormula, Text: line}
		case quoteLine.MatchString(line):
			extend(domain.BlockBlockquote, line)
		case listLine.MatchString(line):
			extend(domain.BlockList, line)
		case trimmed == "":
			flush()
		default:
			extend(domain.BlockParagraph, line)
		}
	}
	flush()
	return blocks
}

func dedupeComponents(blocks []domain.Block) []domain.Block {
	seen := make(map[string]bool)
	out := blocks[:0]
	for _, b := range blocks {
		if b.Type == domain.BlockComponent && b.ComponentName != "" {
			if seen[b.ComponentName] {
				continue
			}
			seen[b.ComponentName] = true
		}
		out = append(out, b)
	}
	return out
}

func mergeAdjacent(blocks []domain.Block) []domain.Block {
	merged := make([]domain.Block, 0, len(blocks))
	for _, b := range blocks {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.Type == b.Type && b.Type != domain.BlockHeading && b.Type != domain.BlockComponent {
				last.Text += "\n\n" + b.Text
				continue
			}
		}
		merged = append(merged, b)
	}
	return merged
}

// ParseComponentInsertion parses `[component:Name](key: value, ...)`.
// Values are converted to int, float64 or bool where possible; quotes
// around strings are removed.
func ParseComponentInsertion(line string) (string, map[string]any, bool) {
	m := componentInsertion.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", nil, false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", nil, false
	}

	props := make(map[string]any)
	for _, pair := range strings.Split(m[2], ",") {
		key, value, ok := strings.Cut(pair, ":")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			continue
		}
		props[key] = parsePropValue(value)
	}
	return name, props, true
}

func parsePropValue(v string) any {
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	if len(v) >= 2 && (v[0] == '"' && v[len(v)-1] == '"' || v[0] == '\'' && v[len(v)-1] == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}
