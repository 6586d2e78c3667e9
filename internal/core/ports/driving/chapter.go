package driving

import (
	"context"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// ChapterService exposes chapters to external actors.
type ChapterService interface {
	// List returns every chapter in reading order.
	List(ctx context.Context) ([]domain.ChapterRef, error)

	// Get returns the document for a slug.
	Get(ctx context.Context, slug string) (*domain.Document, error)

	// Sections splits a chapter into titled sections.
	Sections(ctx context.Context, slug string) ([]domain.Section, error)

	// Blocks tokenizes and classifies a chapter.
	Blocks(ctx context.Context, slug string) ([]domain.Block, error)

	// Render maps every block to a component and builds the presentation tree.
	Render(ctx context.Context, slug string) (*domain.RenderedChapter, error)

	// Navigation returns the previous and next chapters of slug.
	Navigation(ctx context.Context, slug string) (domain.Navigation, error)

	// Explain reports, per block, every rule that matched and which one won.
	Explain(ctx context.Context, slug string) ([]BlockExplanation, error)

	// Validate builds the rule set of a chapter and reports configuration defects.
	Validate(ctx context.Context, slug string) error
}

// BlockExplanation lists the rule candidates of one block.
type BlockExplanation struct {
	// Block is the explained block.
	Block domain.Block `json:"block"`

	// Feature is the block's best scoring content feature and
	// FeatureComponent the component that feature suggests.
	Feature          string `json:"feature"`
	FeatureComponent string `json:"feature_component"`

	// Candidates are the matching rules in selection order.
	// The first entry is the rule the matcher selects.
	Candidates []RuleCandidate `json:"candidates"`
}

// RuleCandidate is a matching rule with its diagnostic score.
type RuleCandidate struct {
	// Rule is the rule name.
	Rule string `json:"rule"`

	// Component is the component the rule maps to.
	Component string `json:"component"`

	// Priority is the declared priority.
	Priority int `json:"priority"`

	// Score adds a match-strength bonus to the priority.
	Score int `json:"score"`

	// Index is the declaration position in the rule set.
	Index int `json:"index"`
}
