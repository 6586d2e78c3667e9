package domain

// PropsFunc computes props for a block. It must be pure: the same block
// and context always yield the same props, without side effects.
type PropsFunc func(block Block, mctx MatchContext) (map[string]any, error)

// ConditionFunc gates a rule after its predicate matched.
type ConditionFunc func(block Block, mctx MatchContext) bool

// ComponentFromBlock as a rule component renders an inline component
// insertion with the component the block names.
const ComponentFromBlock = "@block"

// Rule maps blocks matching a predicate to a component.
// Rules are read-only once a rule set is built.
type Rule struct {
	// Name identifies the rule in diagnostics. Defaults to "<component>#<index>".
	Name string

	// Match selects the blocks this rule applies to.
	Match Predicate

	// Component is the registry identifier to render with.
	Component string

	// Props are static props passed to the component.
	Props map[string]any

	// PropsFunc computes props per block. Takes precedence over Props keys.
	PropsFunc PropsFunc

	// PropsFuncName names a registered PropsFunc (configuration files).
	PropsFuncName string

	// Priority orders matching rules, higher wins.
	Priority int

	// Condition is an optional secondary gate.
	Condition ConditionFunc

	// ConditionName names a registered ConditionFunc (configuration files).
	ConditionName string

	// ClassName is a presentation hint for the wrapper.
	ClassName string

	// Fallback is the component used when Component is not registered.
	Fallback string
}

// IsFallback reports whether r is an unconditional priority 0 default rule.
func (r *Rule) IsFallback() bool {
	return r.Priority == 0 && r.Match.IsDefault() && r.Condition == nil && r.ConditionName == ""
}

// HasDynamicProps reports whether props are computed per block.
func (r *Rule) HasDynamicProps() bool {
	return r.PropsFunc != nil
}
