package mapping

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/semiconbook/chaptermap/internal/classifier"
	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// evaluator evaluates predicate trees with precompiled patterns.
type evaluator struct {
	patterns map[string]*regexp.Regexp
}

func (e *evaluator) eval(p *domain.Predicate, block *domain.Block, mctx *domain.MatchContext) bool {
	switch p.Kind {
	case domain.KindDefault:
		return true
	case domain.KindType:
		return blockType(block) == domain.BlockType(p.Value)
	case domain.KindContentType:
		return contentType(block) == domain.BlockType(p.Value)
	case domain.KindText:
		return strings.TrimSpace(block.Text) == p.Value
	case domain.KindTextContains:
		return strings.Contains(block.Text, p.Value)
	case domain.KindHeading:
		if blockType(block) != domain.BlockHeading {
			return false
		}
		text := strings.TrimSpace(block.Text)
		return text == p.Value || strings.Contains(text, p.Value)
	case domain.KindKeywords:
		return keywordHits(p.Values, block) > 0
	case domain.KindFeature:
		return string(classifier.TopFeature(*block).Feature) == p.Value
	case domain.KindRegex:
		re := e.patterns[p.Pattern]
		return re != nil && re.MatchString(block.Text)
	case domain.KindAnd:
		for i := range p.Children {
			if !e.eval(&p.Children[i], block, mctx) {
				return false
			}
		}
		return len(p.Children) > 0
	case domain.KindOr:
		for i := range p.Children {
			if e.eval(&p.Children[i], block, mctx) {
				return true
			}
		}
		return false
	case domain.KindNot:
		return p.Operand != nil && !e.eval(p.Operand, block, mctx)
	case domain.KindPrevious:
		return e.neighbour(p.Operand, mctx, mctx.Previous)
	case domain.KindNext:
		return e.neighbour(p.Operand, mctx, mctx.Next)
	default:
		return false
	}
}

// neighbour evaluates p against a neighbouring block in its own context.
func (e *evaluator) neighbour(p *domain.Predicate, mctx *domain.MatchContext, nb *domain.Block) bool {
	if p == nil || nb == nil {
		return false
	}
	nctx := domain.MatchContext{ChapterSlug: mctx.ChapterSlug, Global: mctx.Global, Blocks: mctx.Blocks}
	if i := nb.Position; i >= 0 && i < len(mctx.Blocks) && mctx.Blocks[i].ID == nb.ID {
		nctx = domain.ContextFor(mctx.ChapterSlug, mctx.Blocks, i, mctx.Global)
	}
	return e.eval(p, nb, &nctx)
}

// strength is the match-strength bonus of a matching predicate, used to
// rank candidates for diagnostics.
func (e *evaluator) strength(p *domain.Predicate, block *domain.Block, mctx *domain.MatchContext) int {
	switch p.Kind {
	case domain.KindText:
		return 100
	case domain.KindHeading:
		if strings.TrimSpace(block.Text) == p.Value {
			return 100
		}
		return 80
	case domain.KindTextContains, domain.KindRegex:
		return 80
	case domain.KindType, domain.KindContentType, domain.KindFeature:
		return 50
	case domain.KindKeywords:
		return 10 * keywordHits(p.Values, block)
	case domain.KindAnd:
		total := 0
		for i := range p.Children {
			total += e.strength(&p.Children[i], block, mctx)
		}
		return total
	case domain.KindOr:
		best := 0
		for i := range p.Children {
			c := &p.Children[i]
			if e.eval(c, block, mctx) {
				best = max(best, e.strength(c, block, mctx))
			}
		}
		return best
	default:
		return 0
	}
}

func keywordHits(terms []string, block *domain.Block) int {
	hits := 0
	for _, term := range terms {
		if block.HasKeyword(term) || classifier.ContainsAny(block.Text, []string{term}) {
			hits++
		}
	}
	return hits
}

func blockType(b *domain.Block) domain.BlockType {
	if b.Type == "" {
		return b.ContentType
	}
	return b.Type
}

func contentType(b *domain.Block) domain.BlockType {
	if b.ContentType == "" {
		return b.Type
	}
	return b.ContentType
}

// validatePredicate checks a predicate tree and compiles its patterns.
func validatePredicate(p *domain.Predicate, patterns map[string]*regexp.Regexp) error {
	switch p.Kind {
	case domain.KindDefault:
		return nil
	case domain.KindType, domain.KindContentType:
		if !domain.BlockType(p.Value).Valid() {
			return fmt.Errorf("%s predicate: unknown block type %q", p.Kind, p.Value)
		}
	case domain.KindText, domain.KindTextContains, domain.KindHeading:
		if p.Value == "" {
			return fmt.Errorf("%s predicate: empty value", p.Kind)
		}
	case domain.KindFeature:
		if !classifier.KnownFeature(p.Value) {
			return fmt.Errorf("feature predicate: unknown feature %q", p.Value)
		}
	case domain.KindKeywords:
		if len(p.Values) == 0 {
			return fmt.Errorf("keywords predicate: no values")
		}
	case domain.KindRegex:
		if p.Pattern == "" {
			return fmt.Errorf("regex predicate: empty pattern")
		}
		if _, ok := patterns[p.Pattern]; ok {
			return nil
		}
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("regex predicate: %w", err)
		}
		patterns[p.Pattern] = re
	case domain.KindAnd, domain.KindOr:
		if len(p.Children) == 0 {
			return fmt.Errorf("%s predicate: no children", p.Kind)
		}
		for i := range p.Children {
			if err := validatePredicate(&p.Children[i], patterns); err != nil {
				return err
			}
		}
	case domain.KindNot, domain.KindPrevious, domain.KindNext:
		if p.Operand == nil {
			return fmt.Errorf("%s predicate: missing operand", p.Kind)
		}
		return validatePredicate(p.Operand, patterns)
	case "":
		return fmt.Errorf("predicate without kind")
	default:
		return fmt.Errorf("unknown predicate kind %q", p.Kind)
	}
	return nil
}

// Evaluate validates p and evaluates it against block.
func Evaluate(p domain.Predicate, block domain.Block, mctx domain.MatchContext) (bool, error) {
	e := &evaluator{patterns: make(map[string]*regexp.Regexp)}
	if err := validatePredicate(&p, e.patterns); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	return e.eval(&p, &block, &mctx), nil
}
