package mapping

import (
	"fmt"
	"regexp"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// RuleSet is a validated, immutable list of rules.
// It is safe for concurrent use.
type RuleSet struct {
	chapter  string
	rules    []domain.Rule
	fallback int
	eval     evaluator
}

type options struct {
	chapter string
	funcs   *FuncRegistry
	known   func(name string) bool
}

// Option configures rule set construction.
type Option func(*options)

// WithChapter names the chapter in configuration errors.
func WithChapter(slug string) Option {
	return func(o *options) {
		o.chapter = slug
	}
}

// WithFuncs resolves PropsFuncName and ConditionName against r.
func WithFuncs(r *FuncRegistry) Option {
	return func(o *options) {
		o.funcs = r
	}
}

// WithKnownComponents rejects rules naming components for which known
// returns false.
func WithKnownComponents(known func(name string) bool) Option {
	return func(o *options) {
		o.known = known
	}
}

// NewRuleSet validates rules and builds a rule set.
//
// Validation fails with a *domain.ConfigError when a predicate is invalid,
// a named function is unknown, a component is unknown (WithKnownComponents),
// or no priority 0 default rule exists.
func NewRuleSet(rules []domain.Rule, opts ...Option) (*RuleSet, error) {
	o := &options{funcs: DefaultFuncs()}
	for _, opt := range opts {
		opt(o)
	}

	rs := &RuleSet{
		chapter:  o.chapter,
		rules:    make([]domain.Rule, len(rules)),
		fallback: -1,
		eval:     evaluator{patterns: make(map[string]*regexp.Regexp)},
	}

	for i, rule := range rules {
		if rule.Name == "" {
			rule.Name = fmt.Sprintf("%s#%d", rule.Component, i)
		}
		if err := rs.prepare(&rule, o); err != nil {
			return nil, err
		}
		if rs.fallback < 0 && rule.IsFallback() {
			rs.fallback = i
		}
		rs.rules[i] = rule
	}

	if rs.fallback < 0 {
		return nil, &domain.ConfigError{
			Chapter: o.chapter,
			Reason:  "rule set has no priority 0 default rule",
			Err:     domain.ErrNoRuleMatched,
		}
	}
	return rs, nil
}

func (rs *RuleSet) prepare(rule *domain.Rule, o *options) error {
	fail := func(format string, args ...any) error {
		return &domain.ConfigError{
			Chapter: o.chapter,
			Rule:    rule.Name,
			Reason:  fmt.Sprintf(format, args...),
			Err:     domain.ErrInvalidConfig,
		}
	}

	if rule.Component == "" {
		return fail("no component")
	}
	if rule.Priority < 0 {
		return fail("negative priority %d", rule.Priority)
	}
	if err := validatePredicate(&rule.Match, rs.eval.patterns); err != nil {
		return fail("%v", err)
	}

	if rule.PropsFunc == nil && rule.PropsFuncName != "" {
		fn, ok := lookupProps(o.funcs, rule.PropsFuncName)
		if !ok {
			return fail("unknown props function %q", rule.PropsFuncName)
		}
		rule.PropsFunc = fn
	}
	if rule.Condition == nil && rule.ConditionName != "" {
		fn, ok := lookupCondition(o.funcs, rule.ConditionName)
		if !ok {
			return fail("unknown condition %q", rule.ConditionName)
		}
		rule.Condition = fn
	}

	if o.known != nil {
		if rule.Component != domain.ComponentFromBlock && !o.known(rule.Component) {
			return unknownComponent(o.chapter, rule.Name, "component", rule.Component)
		}
		if rule.Fallback != "" && !o.known(rule.Fallback) {
			return unknownComponent(o.chapter, rule.Name, "fallback", rule.Fallback)
		}
	}
	return nil
}

func unknownComponent(chapter, rule, field, name string) error {
	return &domain.ConfigError{
		Chapter: chapter,
		Rule:    rule,
		Reason:  "unknown " + field,
		Err:     fmt.Errorf("%w: %w", domain.ErrInvalidConfig, &domain.ComponentNotFoundError{Name: name}),
	}
}

func lookupProps(r *FuncRegistry, name string) (domain.PropsFunc, bool) {
	if r == nil {
		return nil, false
	}
	return r.Props(name)
}

func lookupCondition(r *FuncRegistry, name string) (domain.ConditionFunc, bool) {
	if r == nil {
		return nil, false
	}
	return r.Condition(name)
}

// Chapter returns the chapter the rule set was built for.
func (rs *RuleSet) Chapter() string {
	return rs.chapter
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Rules returns a copy of the rules in declaration order.
func (rs *RuleSet) Rules() []domain.Rule {
	out := make([]domain.Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Fallback returns the first priority 0 default rule.
func (rs *RuleSet) Fallback() *domain.Rule {
	return &rs.rules[rs.fallback]
}

// Components lists the distinct components the rules refer to, including
// fallbacks, in first-use order.
func (rs *RuleSet) Components() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if name != "" && name != domain.ComponentFromBlock && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, r := range rs.rules {
		add(r.Component)
		add(r.Fallback)
	}
	return names
}
