package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateConstructors(t *testing.T) {
	tests := []struct {
		name string
		pred Predicate
		kind PredicateKind
	}{
		{"type", TypeIs(BlockHeading), KindType},
		{"text", TextEquals("章节目标"), KindText},
		{"text-contains", TextContains("时间"), KindTextContains},
		{"heading", HeadingText("正文"), KindHeading},
		{"keywords", KeywordsAny("历史", "发展"), KindKeywords},
		{"content-type", ContentTypeIs(BlockList), KindContentType},
		{"regex", Matches(`\d{4}年`), KindRegex},
		{"default", Default(), KindDefault},
		{"and", And(Default()), KindAnd},
		{"or", Or(Default()), KindOr},
		{"not", Not(Default()), KindNot},
		{"previous", PreviousIs(Default()), KindPrevious},
		{"next", NextIs(Default()), KindNext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.pred.Kind)
		})
	}
}

func TestPredicate_IsDefault(t *testing.T) {
	assert.True(t, Default().IsDefault())
	assert.False(t, Not(Default()).IsDefault())
}

func TestPredicate_Walk(t *testing.T) {
	p := And(
		TypeIs(BlockParagraph),
		Or(KeywordsAny("历史"), Not(Matches("x"))),
		PreviousIs(HeadingText("正文")),
	)

	var kinds []PredicateKind
	p.Walk(func(n *Predicate) { kinds = append(kinds, n.Kind) })

	require.Len(t, kinds, 8)
	assert.Equal(t, []PredicateKind{
		KindAnd, KindType, KindOr, KindKeywords, KindNot, KindRegex, KindPrevious, KindHeading,
	}, kinds)
}

func TestRule_IsFallback(t *testing.T) {
	fallback := Rule{Match: Default(), Priority: 0}
	assert.True(t, fallback.IsFallback())

	conditional := Rule{Match: Default(), ConditionName: "first-block"}
	assert.False(t, conditional.IsFallback())

	prioritised := Rule{Match: Default(), Priority: 5}
	assert.False(t, prioritised.IsFallback())

	typed := Rule{Match: TypeIs(BlockHeading)}
	assert.False(t, typed.IsFallback())
	assert.False(t, typed.HasDynamicProps())
}
