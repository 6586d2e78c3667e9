package domain

// BlockType is the structural kind of a block.
// The same tags are used for classifier content types.
type BlockType string

const (
	BlockHeading    BlockType = "heading"
	BlockParagraph  BlockType = "paragraph"
	BlockList       BlockType = "list"
	BlockBlockquote BlockType = "blockquote"
	BlockCode       BlockType = "code"
	BlockFormula    BlockType = "formula"
	BlockComponent  BlockType = "component"
	BlockDefault    BlockType = "default"
)

// BlockTypes lists every known block type.
var BlockTypes = []BlockType{
	BlockHeading, BlockParagraph, BlockList, BlockBlockquote,
	BlockCode, BlockFormula, BlockComponent, BlockDefault,
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool {
	for _, known := range BlockTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Block is a contiguous unit of a document.
type Block struct {
	// ID is deterministic for a given chapter and position.
	ID string `json:"id"`

	// Type is the structural type from the tokenizer.
	Type BlockType `json:"type"`

	// ContentType is the classifier's tag.
	ContentType BlockType `json:"content_type"`

	// Level is the heading depth (1-6), zero otherwise.
	Level int `json:"level,omitempty"`

	// Text is the block content. Headings carry the title without markers.
	Text string `json:"text"`

	// Keywords are the vocabulary terms detected in Text.
	Keywords []string `json:"keywords,omitempty"`

	// Position is the zero-based index in document order.
	Position int `json:"position"`

	// ComponentName is set for inline component insertions.
	ComponentName string `json:"component_name,omitempty"`

	// ComponentProps are the props parsed from a component insertion.
	ComponentProps map[string]any `json:"component_props,omitempty"`
}

// HasKeyword reports whether the classifier detected term in the block.
func (b *Block) HasKeyword(term string) bool {
	for _, kw := range b.Keywords {
		if kw == term {
			return true
		}
	}
	return false
}

// MatchContext is the per-block data available to rule evaluation.
// It is recomputed on every render pass.
type MatchContext struct {
	// ChapterSlug identifies the chapter being rendered.
	ChapterSlug string

	// Previous is the block before the current one, nil for the first block.
	Previous *Block

	// Next is the block after the current one, nil for the last block.
	Next *Block

	// Global holds chapter-wide props from the configuration.
	Global map[string]any

	// Blocks is the full ordered block list of the chapter.
	Blocks []Block
}

// ContextFor builds the match context of blocks[i].
func ContextFor(slug string, blocks []Block, i int, global map[string]any) MatchContext {
	mctx := MatchContext{
		ChapterSlug: slug,
		Global:      global,
		Blocks:      blocks,
	}
	if i > 0 {
		mctx.Previous = &blocks[i-1]
	}
	if i+1 < len(blocks) {
		mctx.Next = &blocks[i+1]
	}
	return mctx
}
