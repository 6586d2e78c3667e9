package domain

// PredicateKind tags a node of a predicate tree.
type PredicateKind string

const (
	// KindType tests the block's structural type.
	KindType PredicateKind = "type"

	// KindText tests for exact (trimmed) text equality.
	KindText PredicateKind = "text"

	// KindTextContains tests for a substring of the text.
	KindTextContains PredicateKind = "text-contains"

	// KindHeading tests for a heading whose text equals or contains Value.
	KindHeading PredicateKind = "heading"

	// KindKeywords tests whether any of Values is present.
	KindKeywords PredicateKind = "keywords"

	// KindContentType tests the classifier's content type.
	KindContentType PredicateKind = "content-type"

	// KindFeature tests the best scoring content feature (timeline,
	// challenge, concept...) of the block.
	KindFeature PredicateKind = "feature"

	// KindRegex tests the text against Pattern.
	KindRegex PredicateKind = "regex"

	// KindDefault always matches.
	KindDefault PredicateKind = "default"

	// KindAnd matches when every child matches.
	KindAnd PredicateKind = "and"

	// KindOr matches when any child matches.
	KindOr PredicateKind = "or"

	// KindNot negates Operand.
	KindNot PredicateKind = "not"

	// KindPrevious applies Operand to the previous block.
	KindPrevious PredicateKind = "previous"

	// KindNext applies Operand to the next block.
	KindNext PredicateKind = "next"
)

// Predicate is a tagged-variant match expression. Leaves test a single
// property of a block; and/or/not/previous/next nodes compose subtrees of
// any depth. Predicates are plain data and can be serialised.
type Predicate struct {
	Kind     PredicateKind `json:"kind" toml:"kind" yaml:"kind"`
	Value    string        `json:"value,omitempty" toml:"value,omitempty" yaml:"value,omitempty"`
	Values   []string      `json:"values,omitempty" toml:"values,omitempty" yaml:"values,omitempty"`
	Pattern  string        `json:"pattern,omitempty" toml:"pattern,omitempty" yaml:"pattern,omitempty"`
	Children []Predicate   `json:"children,omitempty" toml:"children,omitempty" yaml:"children,omitempty"`
	Operand  *Predicate    `json:"operand,omitempty" toml:"operand,omitempty" yaml:"operand,omitempty"`
}

// TypeIs matches blocks of the given structural type.
func TypeIs(t BlockType) Predicate {
	return Predicate{Kind: KindType, Value: string(t)}
}

// TextEquals matches blocks whose trimmed text equals s.
func TextEquals(s string) Predicate {
	return Predicate{Kind: KindText, Value: s}
}

// TextContains matches blocks whose text contains s.
func TextContains(s string) Predicate {
	return Predicate{Kind: KindTextContains, Value: s}
}

// HeadingText matches heading blocks whose text equals or contains s.
func HeadingText(s string) Predicate {
	return Predicate{Kind: KindHeading, Value: s}
}

// KeywordsAny matches blocks containing any of the terms.
func KeywordsAny(terms ...string) Predicate {
	return Predicate{Kind: KindKeywords, Values: terms}
}

// ContentTypeIs matches blocks classified as t.
func ContentTypeIs(t BlockType) Predicate {
	return Predicate{Kind: KindContentType, Value: string(t)}
}

// FeatureIs matches blocks whose top content feature is name.
func FeatureIs(name string) Predicate {
	return Predicate{Kind: KindFeature, Value: name}
}

// Matches matches blocks whose text matches the regular expression.
func Matches(pattern string) Predicate {
	return Predicate{Kind: KindRegex, Pattern: pattern}
}

// Default matches every block.
func Default() Predicate {
	return Predicate{Kind: KindDefault}
}

// And matches when all sub-predicates match.
func And(preds ...Predicate) Predicate {
	return Predicate{Kind: KindAnd, Children: preds}
}

// Or matches when at least one sub-predicate matches.
func Or(preds ...Predicate) Predicate {
	return Predicate{Kind: KindOr, Children: preds}
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return Predicate{Kind: KindNot, Operand: &p}
}

// PreviousIs applies p to the preceding block.
func PreviousIs(p Predicate) Predicate {
	return Predicate{Kind: KindPrevious, Operand: &p}
}

// NextIs applies p to the following block.
func NextIs(p Predicate) Predicate {
	return Predicate{Kind: KindNext, Operand: &p}
}

// IsDefault reports whether p is the always-true leaf.
func (p Predicate) IsDefault() bool {
	return p.Kind == KindDefault
}

// Walk calls fn for p and every nested predicate, depth first.
func (p *Predicate) Walk(fn func(*Predicate)) {
	fn(p)
	for i := range p.Children {
		p.Children[i].Walk(fn)
	}
	if p.Operand != nil {
		p.Operand.Walk(fn)
	}
}
