package mapping

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// Matcher selects the rule for a block.
// Registration swaps the rule set atomically, so matching never observes
// a partially registered set.
type Matcher struct {
	set atomic.Pointer[RuleSet]
}

// NewMatcher creates a matcher over set. A nil set leaves the matcher
// empty until Register is called.
func NewMatcher(set *RuleSet) *Matcher {
	m := &Matcher{}
	if set != nil {
		m.set.Store(set)
	}
	return m
}

// Register validates rules and replaces the active rule set.
func (m *Matcher) Register(rules []domain.Rule, opts ...Option) error {
	set, err := NewRuleSet(rules, opts...)
	if err != nil {
		return err
	}
	m.set.Store(set)
	return nil
}

// RuleSet returns the active rule set, nil before registration.
func (m *Matcher) RuleSet() *RuleSet {
	return m.set.Load()
}

// Match returns the highest priority rule whose predicate and condition
// hold for block, preferring the earliest declared rule on ties.
func (m *Matcher) Match(block domain.Block, mctx domain.MatchContext) (*domain.Rule, error) {
	set := m.set.Load()
	if set == nil {
		return nil, fmt.Errorf("match block %d: no rules registered: %w", block.Position, domain.ErrNoRuleMatched)
	}

	best := -1
	for i := range set.rules {
		if !set.applies(i, &block, &mctx) {
			continue
		}
		if best < 0 || set.rules[i].Priority > set.rules[best].Priority {
			best = i
		}
	}
	if best < 0 {
		// Unreachable while the fallback rule is unconditional.
		best = set.fallback
	}
	rule := set.rules[best]
	return &rule, nil
}

// Candidate is a matching rule with its diagnostic score.
type Candidate struct {
	Rule  domain.Rule
	Index int
	Score int
}

// Candidates returns every rule matching block in selection order: by
// priority, then declaration order. The first candidate is the rule Match
// returns. Score adds a match-strength bonus to the priority.
func (m *Matcher) Candidates(block domain.Block, mctx domain.MatchContext) []Candidate {
	set := m.set.Load()
	if set == nil {
		return nil
	}

	var out []Candidate
	for i := range set.rules {
		if !set.applies(i, &block, &mctx) {
			continue
		}
		r := set.rules[i]
		out = append(out, Candidate{
			Rule:  r,
			Index: i,
			Score: r.Priority + set.eval.strength(&r.Match, &block, &mctx),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rule.Priority > out[j].Rule.Priority
	})
	return out
}

func (rs *RuleSet) applies(i int, block *domain.Block, mctx *domain.MatchContext) bool {
	r := &rs.rules[i]
	if !rs.eval.eval(&r.Match, block, mctx) {
		return false
	}
	return r.Condition == nil || safeCondition(r.Condition, *block, *mctx)
}

// safeCondition treats a panicking condition as false.
func safeCondition(fn domain.ConditionFunc, block domain.Block, mctx domain.MatchContext) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return fn(block, mctx)
}
