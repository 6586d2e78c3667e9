// Package classifier tags blocks with a content type and vocabulary hits.
//
// Classification is stateless and deterministic: the same text and hint
// always produce the same result.
package classifier

import (
	"regexp"
	"strings"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// DefaultVocabulary is the textbook's keyword vocabulary.
var DefaultVocabulary = []string{
	"晶体管", "集成电路", "摩尔定律", "半导体革命", "半导体",
	"挑战", "尺度微缩", "瓶颈", "突破", "解决方案",
	"后摩尔时代", "新范式",
	"里程碑", "演进脉络", "发展历程", "时间线", "历史",
	"概念", "定义", "本质", "原理", "核心", "理论", "定律",
	"数据", "统计", "数量", "增长", "比例", "趋势",
	"对比", "比较", "区别", "优势", "劣势", "vs",
}

var (
	headingMarker = regexp.MustCompile(`^#{1,6}\s`)
	listMarker    = regexp.MustCompile(`^([-*+]|\d+\.)\s`)
	insertion     = regexp.MustCompile(`^\[component:[^\]]+\]\([^)]*\)$`)
)

// Result is the outcome of classifying one block.
type Result struct {
	// ContentType is the semantic content tag.
	ContentType domain.BlockType

	// Keywords are the vocabulary terms present, in vocabulary order.
	Keywords []string
}

// Classifier tags text against a fixed vocabulary.
// It is safe for concurrent use.
type Classifier struct {
	vocabulary []string
	lowered    []string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithVocabulary replaces the default vocabulary.
func WithVocabulary(terms ...string) Option {
	return func(c *Classifier) {
		c.vocabulary = terms
	}
}

// New creates a classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{vocabulary: DefaultVocabulary}
	for _, opt := range opts {
		opt(c)
	}

	seen := make(map[string]bool, len(c.vocabulary))
	vocab := make([]string, 0, len(c.vocabulary))
	for _, term := range c.vocabulary {
		term = strings.TrimSpace(term)
		key := strings.ToLower(term)
		if term == "" || seen[key] {
			continue
		}
		seen[key] = true
		vocab = append(vocab, term)
		c.lowered = append(c.lowered, key)
	}
	c.vocabulary = vocab
	return c
}

// Vocabulary returns a copy of the configured terms.
func (c *Classifier) Vocabulary() []string {
	out := make([]string, len(c.vocabulary))
	copy(out, c.vocabulary)
	return out
}

// Classify tags text. A known structural hint wins; otherwise the text
// itself is inspected.
func (c *Classifier) Classify(text string, hint domain.BlockType) Result {
	ct := hint
	if !hint.Valid() || hint == domain.BlockDefault {
		ct = inspect(text)
	}
	return Result{ContentType: ct, Keywords: c.Keywords(text)}
}

// Keywords returns the vocabulary terms contained in text, matched case
// insensitively, in vocabulary order.
func (c *Classifier) Keywords(text string) []string {
	lowered := strings.ToLower(text)
	var hits []string
	for i, term := range c.lowered {
		if strings.Contains(lowered, term) {
			hits = append(hits, c.vocabulary[i])
		}
	}
	return hits
}

// Annotate classifies every block, returning annotated copies.
func (c *Classifier) Annotate(blocks []domain.Block) []domain.Block {
	out := make([]domain.Block, len(blocks))
	for i, b := range blocks {
		res := c.Classify(b.Text, b.Type)
		b.ContentType = res.ContentType
		b.Keywords = res.Keywords
		out[i] = b
	}
	return out
}

// ContainsAny reports whether text contains any of terms, ignoring case.
// Empty terms never match.
func ContainsAny(text string, terms []string) bool {
	lowered := strings.ToLower(text)
	for _, term := range terms {
		if term != "" && strings.Contains(lowered, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

func inspect(text string) domain.BlockType {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return domain.BlockDefault
	case headingMarker.MatchString(trimmed):
		return domain.BlockHeading
	case strings.HasPrefix(trimmed, "```"), strings.HasPrefix(trimmed, "~~~"):
		return domain.BlockCode
	case strings.HasPrefix(trimmed, "$$"):
		return domain.BlockFormula
	case strings.HasPrefix(trimmed, ">"):
		return domain.BlockBlockquote
	case listMarker.MatchString(trimmed):
		return domain.BlockList
	case insertion.MatchString(trimmed):
		return domain.BlockComponent
	default:
		return domain.BlockParagraph
	}
}
